package types

import (
	"fmt"
	"sync"
)

// AggregateStats accumulates per-document results over one corpus run.
// It is the single piece of mutable run-scoped state: created at the start
// of a run, merged into as each document finishes, read when the summary is
// generated, then discarded. Merge is safe for concurrent use.
type AggregateStats struct {
	mu sync.Mutex

	totalFiles   int
	validFiles   int
	invalidFiles int

	errors   []string // path-qualified, in merge order
	warnings []string // path-qualified, in merge order
	findings []string // path-qualified security findings

	securityIssueCount int
	qualityScoreSum    int
	fileTypes          map[Category]int
}

// NewAggregateStats creates an empty aggregate for a fresh run.
func NewAggregateStats() *AggregateStats {
	return &AggregateStats{
		errors:    []string{},
		warnings:  []string{},
		findings:  []string{},
		fileTypes: make(map[Category]int),
	}
}

// Merge folds one sealed document result into the running totals.
func (a *AggregateStats) Merge(res *ValidationResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalFiles++
	if res.Valid {
		a.validFiles++
	} else {
		a.invalidFiles++
	}
	a.fileTypes[res.Category]++
	a.qualityScoreSum += res.QualityScore

	for _, e := range res.Errors {
		a.errors = append(a.errors, res.Path+": "+e)
	}
	for _, w := range res.Warnings {
		a.warnings = append(a.warnings, res.Path+": "+w)
	}
	for _, f := range res.SecurityFindings {
		a.securityIssueCount++
		a.findings = append(a.findings, fmt.Sprintf("%s:%d: %s", res.Path, f.Line, f.Message))
	}
}

// AddWarning records a run-level warning not attached to any one document.
func (a *AggregateStats) AddWarning(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnings = append(a.warnings, msg)
}

// AddError records a run-level error not attached to any one document.
func (a *AggregateStats) AddError(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, msg)
}

// Errors returns a copy of the path-qualified error list.
func (a *AggregateStats) Errors() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string{}, a.errors...)
}

// Warnings returns a copy of the path-qualified warning list.
func (a *AggregateStats) Warnings() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string{}, a.warnings...)
}

// SecurityFindings returns a copy of the path-qualified finding list.
func (a *AggregateStats) SecurityFindings() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string{}, a.findings...)
}

// Summary derives the corpus summary from the running totals.
// Reading the summary never mutates the aggregate.
func (a *AggregateStats) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	avg := 0.0
	if a.totalFiles > 0 {
		avg = float64(a.qualityScoreSum) / float64(a.totalFiles)
	}

	breakdown := make(map[Category]int, len(a.fileTypes))
	for k, v := range a.fileTypes {
		breakdown[k] = v
	}

	return Summary{
		TotalFiles:          a.totalFiles,
		ValidFiles:          a.validFiles,
		InvalidFiles:        a.invalidFiles,
		ErrorCount:          len(a.errors),
		WarningCount:        len(a.warnings),
		SecurityIssueCount:  a.securityIssueCount,
		AverageQualityScore: avg,
		FileTypeBreakdown:   breakdown,
	}
}

// Summary is the machine-consumable outcome of a corpus run.
type Summary struct {
	TotalFiles          int              `json:"total_files"`
	ValidFiles          int              `json:"valid_files"`
	InvalidFiles        int              `json:"invalid_files"`
	ErrorCount          int              `json:"error_count"`
	WarningCount        int              `json:"warning_count"`
	SecurityIssueCount  int              `json:"security_issue_count"`
	AverageQualityScore float64          `json:"average_quality_score"`
	FileTypeBreakdown   map[Category]int `json:"file_type_breakdown"`
}

// ExitCode maps a summary to a process exit signal: non-zero whenever
// structural or IO errors are present. Warnings and security findings are
// advisory and never affect the code.
func (s Summary) ExitCode() int {
	if s.ErrorCount > 0 {
		return 1
	}
	return 0
}
