package engine

// Outcome is the terminal state of a run or of a single file within a run.
type Outcome int

const (
	NoResult Outcome = iota
	Success
	InProgress
	SourceNotFound
	DestinationIsFile
	SourceEqualsDestination
	SourceIsSubdirectoryOfDestination
	IOError
	FileExists
	CopySystemFiles
	FileIsSameNameAsDirectory
	Skipped
	ErrorWhenCopying
	Canceled
	RollbackSuccess
	RollbackError
)

var outcomeNames = [...]string{
	NoResult:                          "NoResult",
	Success:                           "Success",
	InProgress:                        "InProgress",
	SourceNotFound:                    "SourceNotFound",
	DestinationIsFile:                 "DestinationIsFile",
	SourceEqualsDestination:           "SourceEqualsDestination",
	SourceIsSubdirectoryOfDestination: "SourceIsSubdirectoryOfDestination",
	IOError:                           "IOError",
	FileExists:                        "FileExists",
	CopySystemFiles:                   "CopySystemFiles",
	FileIsSameNameAsDirectory:         "FileIsSameNameAsDirectory",
	Skipped:                           "Skipped",
	ErrorWhenCopying:                  "ErrorWhenCopying",
	Canceled:                          "Canceled",
	RollbackSuccess:                   "RollbackSuccess",
	RollbackError:                     "RollbackError",
}

func (o Outcome) String() string {
	if o >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "Unknown"
}

// IsFailure reports whether a file-level outcome counts against the run.
// Skipped counts; rollback outcomes do not.
func (o Outcome) IsFailure() bool {
	switch o {
	case NoResult, Success, RollbackSuccess, RollbackError:
		return false
	default:
		return true
	}
}

// CopyRecord is one audit log entry.
type CopyRecord struct {
	SourcePath      string
	DestinationPath string
	Outcome         Outcome
	Err             error // underlying I/O error, if any
}
