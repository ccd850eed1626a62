package engine

import "sync"

// AuditLog is an append-only, lock-protected list of records in completion
// order. A disabled log drops appends.
type AuditLog struct {
	mu      sync.Mutex
	enabled bool
	records []CopyRecord
}

// NewAuditLog creates an enabled or disabled log.
func NewAuditLog(enabled bool) *AuditLog {
	return &AuditLog{enabled: enabled}
}

// Append adds a record if the log is enabled.
func (l *AuditLog) Append(rec CopyRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return
	}
	l.records = append(l.records, rec)
}

// Records returns a copy of the records.
func (l *AuditLog) Records() []CopyRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]CopyRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Reset drops all records and sets whether later appends are kept.
func (l *AuditLog) Reset(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	l.enabled = enabled
}
