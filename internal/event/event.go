package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	RunStarted Type = iota + 1
	RunComplete
	FileCompleted
	FileFailed
	FileSkipped
	FileCanceled
	RollbackFile
	RollbackFailed
)

var typeNames = [...]string{
	RunStarted:     "RunStarted",
	RunComplete:    "RunComplete",
	FileCompleted:  "FileCompleted",
	FileFailed:     "FileFailed",
	FileSkipped:    "FileSkipped",
	FileCanceled:   "FileCanceled",
	RollbackFile:   "RollbackFile",
	RollbackFailed: "RollbackFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	RunID     string
	Path      string // source path
	DstPath   string // destination path
	Outcome   string // outcome name of the record that produced the event
	Size      int64  // bytes written (FileCompleted)
	Error     error
}
