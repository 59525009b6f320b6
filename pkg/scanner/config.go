package scanner

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/promptgate/promptgate/pkg/types"
)

// DefaultExcludes are the paths skipped when no exclude patterns are
// configured: version control and dependency/cache directories.
var DefaultExcludes = []string{
	".git/",
	"node_modules/",
	"vendor/",
	"__pycache__/",
	".cache/",
}

// DefaultExtensions are the file extensions eligible for validation.
var DefaultExtensions = []string{".md", ".markdown", ".txt"}

// Config for engine initialization.
type Config struct {
	// Rules are the security rules to scan with. Nil loads the builtin set.
	Rules []*types.Rule

	// Placeholders is the security allow-list. Nil loads the builtin set.
	Placeholders []string

	// Excludes are gitignore-syntax patterns relative to the corpus root.
	// Nil uses DefaultExcludes.
	Excludes []string

	// Extensions restricts which files are validated. Nil uses
	// DefaultExtensions.
	Extensions []string

	// Workers is the validation worker count. Zero or negative uses
	// runtime.NumCPU().
	Workers int

	// MaxFileSize skips larger files during the walk (0 = unlimited).
	MaxFileSize int64

	// IncludeHidden includes dotfiles and dot-directories in the walk.
	IncludeHidden bool

	// ExpectedCount, when positive, asserts the corpus document count.
	// A mismatch is a warning, or an error when StrictCount is set.
	ExpectedCount int

	// StrictCount promotes an ExpectedCount mismatch to an error.
	StrictCount bool

	// SlowThreshold, when positive, emits a run-level warning if the corpus
	// run takes longer.
	SlowThreshold time.Duration

	// OnResult, when set, receives every sealed result during a directory
	// run. It is called concurrently from worker goroutines.
	OnResult func(*types.ValidationResult)
}

// normalize applies defaults in place.
func (c *Config) normalize() {
	if c.Excludes == nil {
		c.Excludes = DefaultExcludes
	}
	if c.Extensions == nil {
		c.Extensions = DefaultExtensions
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// validate fails fast on configuration errors, before any file is read.
func (c *Config) validate() error {
	for _, pattern := range c.Excludes {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("invalid exclude pattern: blank pattern")
		}
	}
	if c.ExpectedCount < 0 {
		return fmt.Errorf("expected document count must not be negative, got %d", c.ExpectedCount)
	}
	if c.StrictCount && c.ExpectedCount == 0 {
		return fmt.Errorf("strict count requires an expected document count")
	}
	if c.SlowThreshold < 0 {
		return fmt.Errorf("slow threshold must not be negative")
	}
	return nil
}
