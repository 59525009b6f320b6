// Package promptgate validates semi-structured prompt and command documents.
//
// It classifies documents by type, checks required sections and tag nesting,
// scans for unsafe content patterns, and scores documentation quality.
//
// # Basic Usage
//
// Create a validator and check a document string:
//
//	v, err := promptgate.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	result := v.ValidateString("commands/deploy.md", content)
//	if !result.Valid {
//	    for _, msg := range result.Errors {
//	        fmt.Println(msg)
//	    }
//	}
//
// # Directory Runs
//
// Validate a whole corpus and gate on the aggregate outcome:
//
//	stats, err := v.ValidateDirectory(ctx, "docs/prompts")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Exit(stats.Summary().ExitCode())
package promptgate

import (
	"context"
	"time"

	"github.com/promptgate/promptgate/pkg/scanner"
	"github.com/promptgate/promptgate/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/promptgate/promptgate" without
// subpackages.
type (
	// ValidationResult is the outcome of validating one document.
	ValidationResult = types.ValidationResult

	// SecurityFinding is a single security pattern hit within a document.
	SecurityFinding = types.SecurityFinding

	// AggregateStats accumulates results over a directory run.
	AggregateStats = types.AggregateStats

	// Summary is the machine-consumable outcome of a directory run.
	Summary = types.Summary

	// Category identifies a document type.
	Category = types.Category

	// Rule defines a security detection pattern.
	Rule = types.Rule
)

// Re-export document categories.
const (
	CategoryCommand        = types.CategoryCommand
	CategorySecurity       = types.CategorySecurity
	CategoryTesting        = types.CategoryTesting
	CategoryGit            = types.CategoryGit
	CategoryMCP            = types.CategoryMCP
	CategoryDocumentation  = types.CategoryDocumentation
	CategoryDeployment     = types.CategoryDeployment
	CategoryRefactoring    = types.CategoryRefactoring
	CategoryInitialization = types.CategoryInitialization
	CategoryGeneral        = types.CategoryGeneral
)

// Validator validates prompt documents.
type Validator struct {
	engine *scanner.Engine
}

// Option configures a Validator.
type Option func(*scanner.Config)

// WithRules uses custom security rules instead of the builtin set.
func WithRules(rules []*Rule) Option {
	return func(c *scanner.Config) {
		c.Rules = rules
	}
}

// WithPlaceholders uses a custom placeholder allow-list instead of the
// builtin set.
func WithPlaceholders(placeholders []string) Option {
	return func(c *scanner.Config) {
		c.Placeholders = placeholders
	}
}

// WithExcludes sets gitignore-syntax exclude patterns for directory runs.
func WithExcludes(patterns []string) Option {
	return func(c *scanner.Config) {
		c.Excludes = patterns
	}
}

// WithWorkers sets the directory-run worker count. Default is the number of
// CPUs.
func WithWorkers(workers int) Option {
	return func(c *scanner.Config) {
		c.Workers = workers
	}
}

// WithExpectedCount asserts the corpus document count; a mismatch is
// reported as a run-level warning.
func WithExpectedCount(count int) Option {
	return func(c *scanner.Config) {
		c.ExpectedCount = count
	}
}

// WithStrictExpectedCount asserts the corpus document count and treats a
// mismatch as an error.
func WithStrictExpectedCount(count int) Option {
	return func(c *scanner.Config) {
		c.ExpectedCount = count
		c.StrictCount = true
	}
}

// WithSlowThreshold warns when a directory run takes longer than d.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *scanner.Config) {
		c.SlowThreshold = d
	}
}

// New creates a Validator with the given options.
//
// By default, the validator uses the builtin security rules and placeholder
// allow-list, the default exclude patterns, and one worker per CPU.
func New(opts ...Option) (*Validator, error) {
	var cfg scanner.Config
	for _, opt := range opts {
		opt(&cfg)
	}

	engine, err := scanner.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Validator{engine: engine}, nil
}

// ValidateString validates an in-memory document. The path is used for
// classification and reporting only.
func (v *Validator) ValidateString(path, content string) *ValidationResult {
	return v.engine.ValidateContent(path, content)
}

// ValidateFile reads and validates a single file. A read failure is
// reported as an invalid result rather than an error.
func (v *Validator) ValidateFile(path string) *ValidationResult {
	return v.engine.ValidateFile(path)
}

// ValidateDirectory validates every eligible document under root in
// parallel. The returned stats are partial when ctx is cancelled mid-run.
func (v *Validator) ValidateDirectory(ctx context.Context, root string) (*AggregateStats, error) {
	return v.engine.ValidateDirectory(ctx, root)
}

// Close releases validator resources.
func (v *Validator) Close() error {
	return v.engine.Close()
}
