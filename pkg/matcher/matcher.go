// Package matcher scans document content against security rules.
package matcher

import "github.com/promptgate/promptgate/pkg/types"

// Matcher scans content for security-rule matches.
type Matcher interface {
	// Match scans content against all loaded rules and returns findings
	// with line attribution. Placeholder-looking values are suppressed.
	Match(content []byte) ([]types.SecurityFinding, error)

	// Close releases matcher resources.
	Close() error
}

// Config for matcher initialization.
type Config struct {
	// Rules to compile and load into the matcher.
	Rules []*types.Rule

	// Placeholders is the allow-list of case-insensitive patterns; a match
	// whose flagged value matches any of them is suppressed.
	Placeholders []string
}

// New creates a new Matcher with the given config.
func New(cfg Config) (Matcher, error) {
	return NewRegexp(cfg)
}
