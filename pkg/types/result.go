package types

// SecurityFinding is a single security-pattern match.
// Findings are advisory: they are counted and reported separately and never
// make a document invalid on their own.
type SecurityFinding struct {
	Message  string `json:"message"`
	Category string `json:"category"`
	RuleID   string `json:"rule_id,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// ValidationResult is the outcome of validating one document.
// A result is write-once: the orchestrator builds it, seals it with Seal,
// and nothing mutates it afterwards.
type ValidationResult struct {
	Path             string            `json:"path"`
	Category         Category          `json:"category"`
	Valid            bool              `json:"valid"`
	Errors           []string          `json:"errors"`
	Warnings         []string          `json:"warnings"`
	QualityScore     int               `json:"quality_score"`
	SecurityFindings []SecurityFinding `json:"security_findings"`
}

// NewValidationResult creates an empty result for a document.
func NewValidationResult(path string, category Category) *ValidationResult {
	return &ValidationResult{
		Path:     path,
		Category: category,
		Errors:   []string{},
		Warnings: []string{},
		// Score defaults to the maximum; the quality scorer overwrites it.
		QualityScore:     100,
		SecurityFindings: []SecurityFinding{},
	}
}

// Seal derives the Valid flag and clamps the quality score.
// Invariants after Seal: Valid == (len(Errors) == 0) and 0 <= QualityScore <= 100.
func (r *ValidationResult) Seal() *ValidationResult {
	r.Valid = len(r.Errors) == 0
	if r.QualityScore < 0 {
		r.QualityScore = 0
	}
	if r.QualityScore > 100 {
		r.QualityScore = 100
	}
	return r
}
