// Package activity implements the bounded, time-ordered activity feed that
// observers read for display.
package activity

import (
	"sync"

	"github.com/vadiminshakov/vaultsim/internal/domain"
)

// DefaultCapacity is the activity feed bound used when none is configured.
const DefaultCapacity = 200

// Log is an append-only, capacity-bounded, newest-first sequence of ledger
// events. Records from the ambient generator and from real operations go
// through the same Append path so ordering and capacity hold regardless of
// record origin.
type Log struct {
	mu       sync.RWMutex
	capacity int
	records  []domain.ActivityRecord
}

// NewLog creates a log with the given capacity.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity, records: make([]domain.ActivityRecord, 0, capacity)}
}

// Append inserts the record at the head. When the log exceeds capacity the
// oldest entry is evicted from the tail.
func (l *Log) Append(record domain.ActivityRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append([]domain.ActivityRecord{record}, l.records...)
	if len(l.records) > l.capacity {
		l.records = l.records[:l.capacity]
	}
}

// Query returns a newest-first copy of records matching the filter.
// Each call re-reads current log state, so the view is restartable.
func (l *Log) Query(filter domain.ActivityFilter) []domain.ActivityRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.ActivityRecord, 0, len(l.records))
	for _, r := range l.records {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// MarkCompleted transitions the record with the given id from pending to
// completed. This is the only in-place mutation the log permits.
func (l *Log) MarkCompleted(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.records {
		if l.records[i].ID == id {
			l.records[i].Status = domain.ActivityStatusCompleted
			return true
		}
	}
	return false
}

// Len returns the current number of records.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
