package store

import (
	"fmt"
	"sync"
)

// MemoryStore implements Store using in-memory data structures.
// Runs are lost when the process exits; useful for tests and one-shot runs
// that only need the latest result.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	runs   []*Run // append order, IDs ascending
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// SaveRun persists a run and its results, returning the assigned run ID.
func (m *MemoryStore) SaveRun(run *Run) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *run
	stored.ID = m.nextID
	m.nextID++
	m.runs = append(m.runs, &stored)
	return stored.ID, nil
}

// GetRun retrieves a run with its results.
func (m *MemoryStore) GetRun(id int64) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, run := range m.runs {
		if run.ID == id {
			copied := *run
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("run not found")
}

// LatestRun retrieves the most recent run, or an error if none exist.
func (m *MemoryStore) LatestRun() (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.runs) == 0 {
		return nil, fmt.Errorf("run not found")
	}
	copied := *m.runs[len(m.runs)-1]
	return &copied, nil
}

// ListRuns retrieves run summaries, newest first, without per-document
// results.
func (m *MemoryStore) ListRuns(limit int) ([]*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var runs []*Run
	for i := len(m.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(runs) >= limit {
			break
		}
		copied := *m.runs[i]
		copied.Results = nil
		runs = append(runs, &copied)
	}
	return runs, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
