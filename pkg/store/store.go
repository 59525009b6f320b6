package store

import (
	"fmt"
	"time"

	"github.com/promptgate/promptgate/pkg/types"
)

// Run is one recorded validation run: the corpus root, when it ran, its
// summary, and every per-document result.
type Run struct {
	ID        int64                     `json:"id"`
	Root      string                    `json:"root"`
	StartedAt time.Time                 `json:"started_at"`
	Duration  time.Duration             `json:"duration"`
	Summary   types.Summary             `json:"summary"`
	Results   []*types.ValidationResult `json:"results"`
}

// Store persists validation run history.
// This interface abstracts the underlying storage implementation,
// allowing for different backends (SQLite, in-memory).
type Store interface {
	// SaveRun persists a run and its results, returning the assigned run ID.
	SaveRun(run *Run) (int64, error)

	// GetRun retrieves a run with its results.
	GetRun(id int64) (*Run, error)

	// LatestRun retrieves the most recent run, or an error if none exist.
	LatestRun() (*Run, error)

	// ListRuns retrieves run summaries, newest first, without per-document
	// results. A non-positive limit returns all runs.
	ListRuns(limit int) ([]*Run, error)

	// Close closes the store.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for an in-memory store (useful for testing).
	Path string
}

// New creates a new Store. The ":memory:" path selects the in-memory
// backend; anything else opens a SQLite database file.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}

	return NewSQLite(cfg.Path)
}
