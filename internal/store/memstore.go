package store

import (
	"errors"
	"sync"

	"failsafe/internal/failsafe"
)

// MemStore is an in-memory Store for tests and the tool server. Implements Store.
type MemStore struct {
	mu      sync.Mutex
	nextID  int64
	runs    []*Run
	records map[int64][]failsafe.Record
}

// NewMemStore returns a new in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[int64][]failsafe.Record)}
}

// SaveRun implements Store.
func (s *MemStore) SaveRun(run *Run, records []failsafe.Record) (int64, error) {
	if run == nil {
		return 0, errors.New("run is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	run.ID = s.nextID
	if run.CreatedAt == "" {
		run.CreatedAt = nowUTC()
	}
	run.RecordCount = len(records)
	cp := *run
	s.runs = append(s.runs, &cp)
	s.records[run.ID] = append([]failsafe.Record(nil), records...)
	return run.ID, nil
}

// GetRun implements Store.
func (s *MemStore) GetRun(id int64) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.runs {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

// ListRuns implements Store.
func (s *MemStore) ListRuns(limit int) ([]*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Run
	for i := len(s.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		cp := *s.runs[i]
		out = append(out, &cp)
	}
	return out, nil
}

// Records implements Store.
func (s *MemStore) Records(runID int64) ([]failsafe.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]failsafe.Record(nil), s.records[runID]...), nil
}

// Close implements Store.
func (s *MemStore) Close() error { return nil }
