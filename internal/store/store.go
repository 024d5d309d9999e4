// Package store keeps a history of scan runs and their resolved records.
package store

import "failsafe/internal/failsafe"

// DefaultDBPath is the default relative path for the SQLite DB.
// Open creates the parent directory (e.g. .failsafe) when needed.
const DefaultDBPath = ".failsafe/failsafe.db"

// Run is one scan of one source document.
type Run struct {
	ID           int64  `json:"id"`
	Source       string `json:"source"`
	SHA256       string `json:"sha256"`
	CreatedAt    string `json:"created_at"`
	Blocks       int    `json:"blocks"`
	Observations int    `json:"observations"`
	RecordCount  int    `json:"record_count"`
}

// Store is the persistence facade for scan history. Implementations are
// SQLite (SqlStore) and in-memory (MemStore).
type Store interface {
	// SaveRun stores run with its records and returns the new run ID.
	// RecordCount is taken from records; CreatedAt defaults to now.
	SaveRun(run *Run, records []failsafe.Record) (int64, error)
	// GetRun returns nil, nil when id is unknown.
	GetRun(id int64) (*Run, error)
	// ListRuns returns the most recent runs first; limit <= 0 means all.
	ListRuns(limit int) ([]*Run, error)
	// Records returns the run's records in their original order.
	Records(runID int64) ([]failsafe.Record, error)
	Close() error
}
