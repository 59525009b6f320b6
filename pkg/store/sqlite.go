package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/promptgate/promptgate/pkg/types"
)

// SQLiteStore implements Store using SQLite (pure Go driver, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveRun persists a run and its results, returning the assigned run ID.
func (s *SQLiteStore) SaveRun(run *Run) (int64, error) {
	breakdownJSON, err := json.Marshal(run.Summary.FileTypeBreakdown)
	if err != nil {
		return 0, fmt.Errorf("marshaling file type breakdown: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (root, started_at, duration_ms, total_files, valid_files, invalid_files,
			error_count, warning_count, security_issue_count, average_quality_score, file_type_breakdown_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.Root,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Duration.Milliseconds(),
		run.Summary.TotalFiles,
		run.Summary.ValidFiles,
		run.Summary.InvalidFiles,
		run.Summary.ErrorCount,
		run.Summary.WarningCount,
		run.Summary.SecurityIssueCount,
		run.Summary.AverageQualityScore,
		string(breakdownJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run ID: %w", err)
	}

	for _, r := range run.Results {
		errorsJSON, err := json.Marshal(r.Errors)
		if err != nil {
			return 0, fmt.Errorf("marshaling errors: %w", err)
		}
		warningsJSON, err := json.Marshal(r.Warnings)
		if err != nil {
			return 0, fmt.Errorf("marshaling warnings: %w", err)
		}
		findingsJSON, err := json.Marshal(r.SecurityFindings)
		if err != nil {
			return 0, fmt.Errorf("marshaling findings: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO results (run_id, path, category, valid, quality_score, errors_json, warnings_json, findings_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			runID,
			r.Path,
			string(r.Category),
			boolToInt(r.Valid),
			r.QualityScore,
			string(errorsJSON),
			string(warningsJSON),
			string(findingsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting result for %s: %w", r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}

	return runID, nil
}

// GetRun retrieves a run with its results.
func (s *SQLiteStore) GetRun(id int64) (*Run, error) {
	run, err := s.scanRun(s.db.QueryRow(`
		SELECT id, root, started_at, duration_ms, total_files, valid_files, invalid_files,
			error_count, warning_count, security_issue_count, average_quality_score, file_type_breakdown_json
		FROM runs WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}

	results, err := s.loadResults(run.ID)
	if err != nil {
		return nil, err
	}
	run.Results = results
	return run, nil
}

// LatestRun retrieves the most recent run, or an error if none exist.
func (s *SQLiteStore) LatestRun() (*Run, error) {
	run, err := s.scanRun(s.db.QueryRow(`
		SELECT id, root, started_at, duration_ms, total_files, valid_files, invalid_files,
			error_count, warning_count, security_issue_count, average_quality_score, file_type_breakdown_json
		FROM runs ORDER BY id DESC LIMIT 1
	`))
	if err != nil {
		return nil, err
	}

	results, err := s.loadResults(run.ID)
	if err != nil {
		return nil, err
	}
	run.Results = results
	return run, nil
}

// ListRuns retrieves run summaries, newest first, without per-document
// results.
func (s *SQLiteStore) ListRuns(limit int) ([]*Run, error) {
	query := `
		SELECT id, root, started_at, duration_ms, total_files, valid_files, invalid_files,
			error_count, warning_count, security_issue_count, average_quality_score, file_type_breakdown_json
		FROM runs ORDER BY id DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := s.scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanRun(row rowScanner) (*Run, error) {
	var run Run
	var startedAt string
	var durationMS int64
	var breakdownJSON string

	err := row.Scan(
		&run.ID,
		&run.Root,
		&startedAt,
		&durationMS,
		&run.Summary.TotalFiles,
		&run.Summary.ValidFiles,
		&run.Summary.InvalidFiles,
		&run.Summary.ErrorCount,
		&run.Summary.WarningCount,
		&run.Summary.SecurityIssueCount,
		&run.Summary.AverageQualityScore,
		&breakdownJSON,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing run timestamp: %w", err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond

	if err := json.Unmarshal([]byte(breakdownJSON), &run.Summary.FileTypeBreakdown); err != nil {
		return nil, fmt.Errorf("unmarshaling file type breakdown: %w", err)
	}

	return &run, nil
}

func (s *SQLiteStore) loadResults(runID int64) ([]*types.ValidationResult, error) {
	rows, err := s.db.Query(`
		SELECT path, category, valid, quality_score, errors_json, warnings_json, findings_json
		FROM results WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []*types.ValidationResult
	for rows.Next() {
		var r types.ValidationResult
		var category string
		var valid int
		var errorsJSON, warningsJSON, findingsJSON string

		err := rows.Scan(&r.Path, &category, &valid, &r.QualityScore, &errorsJSON, &warningsJSON, &findingsJSON)
		if err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}

		r.Category = types.Category(category)
		r.Valid = valid != 0
		if err := json.Unmarshal([]byte(errorsJSON), &r.Errors); err != nil {
			return nil, fmt.Errorf("unmarshaling errors: %w", err)
		}
		if err := json.Unmarshal([]byte(warningsJSON), &r.Warnings); err != nil {
			return nil, fmt.Errorf("unmarshaling warnings: %w", err)
		}
		if err := json.Unmarshal([]byte(findingsJSON), &r.SecurityFindings); err != nil {
			return nil, fmt.Errorf("unmarshaling findings: %w", err)
		}

		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return results, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
