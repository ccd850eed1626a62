package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditLog_AppendKeepsOrder(t *testing.T) {
	t.Parallel()

	l := NewAuditLog(true)
	l.Append(CopyRecord{SourcePath: "/a", Outcome: Success})
	l.Append(CopyRecord{SourcePath: "/b", Outcome: Skipped})
	l.Append(CopyRecord{SourcePath: "/c", Outcome: Success})

	recs := l.Records()
	assert.Len(t, recs, 3)
	assert.Equal(t, "/b", recs[1].SourcePath)
	assert.Equal(t, 2, countOutcome(recs, Success))
	assert.Zero(t, countOutcome(recs, IOError))
}

func TestAuditLog_RecordsIsACopy(t *testing.T) {
	t.Parallel()

	l := NewAuditLog(true)
	l.Append(CopyRecord{SourcePath: "/a", Outcome: Success})

	recs := l.Records()
	recs[0].Outcome = IOError
	assert.Equal(t, Success, l.Records()[0].Outcome)
}

func TestAuditLog_Disabled(t *testing.T) {
	t.Parallel()

	l := NewAuditLog(false)
	l.Append(CopyRecord{SourcePath: "/a", Outcome: Success})
	assert.Empty(t, l.Records())

	l.Reset(true)
	l.Append(CopyRecord{SourcePath: "/a", Outcome: Success})
	assert.Len(t, l.Records(), 1)

	l.Reset(true)
	assert.Empty(t, l.Records())
}

func TestAuditLog_ConcurrentAppend(t *testing.T) {
	t.Parallel()

	l := NewAuditLog(true)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(CopyRecord{SourcePath: fmt.Sprintf("/f%d", i), Outcome: Success})
		}()
	}
	wg.Wait()
	assert.Len(t, l.Records(), 50)
}
