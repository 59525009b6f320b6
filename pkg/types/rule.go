package types

// Rule is a security detection pattern with metadata.
// Rules are loaded from YAML at startup and read-only thereafter.
type Rule struct {
	ID               string   // e.g., "pg.credential.1"
	Name             string   // human-readable name, used as the finding message
	Pattern          string   // regex pattern; first capture group is the flagged value
	Category         string   // finding category: credential, eval, injection
	Description      string   // optional
	Keywords         []string // literal keywords for Aho-Corasick prefiltering
	Examples         []string // positive test cases
	NegativeExamples []string // negative test cases
	Allowlist        []string // extra placeholder patterns suppressing this rule's matches
	References       []string // documentation URLs
}
