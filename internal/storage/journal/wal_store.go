// Package journal persists activity records in a WAL so consumers can replay
// the feed after a restart.
package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/vaultsim/internal/domain"
)

const (
	defaultJournalDir   = "./state/journal"
	journalSegmentLimit = 1000
	journalMaxSegments  = 100
	activityKeyPrefix   = "activity_"
)

// WALStore persists activity records in a WAL for recovery/streaming purposes.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// Record bundles an activity record with its WAL index.
type Record struct {
	Index  uint64
	Record domain.ActivityRecord
}

// NewWALStore initializes a WAL-backed activity journal under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultJournalDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "activity_",
		SegmentThreshold: journalSegmentLimit,
		MaxSegments:      journalMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init activity journal WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append writes the record to the WAL keyed by its activity type.
func (s *WALStore) Append(record domain.ActivityRecord) error {
	if s == nil || s.wal == nil {
		return errors.New("activity journal is not initialized")
	}
	if !record.Type.IsValid() {
		return fmt.Errorf("invalid activity type %q", record.Type)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal activity record")
	}

	key := fmt.Sprintf("%s%s", activityKeyPrefix, record.Type)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// RecordsAfter returns all activity records written after the provided WAL index.
func (s *WALStore) RecordsAfter(index uint64) ([]Record, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("activity journal is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]Record, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, activityKeyPrefix) {
			continue
		}
		var record domain.ActivityRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, errors.Wrap(err, "decode activity record")
		}
		records = append(records, Record{Index: idx, Record: record})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("activity journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
