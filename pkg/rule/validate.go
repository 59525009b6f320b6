package rule

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/promptgate/promptgate/pkg/types"
)

// ValidateRule checks rule consistency and required fields.
// The pattern must compile the same way the matcher compiles it: RE2 mode
// first, Perl-compatible as fallback. Examples must match the pattern and
// negative examples must not.
func ValidateRule(r *types.Rule) error {
	if r == nil {
		return fmt.Errorf("rule is nil")
	}

	if r.ID == "" {
		return fmt.Errorf("rule ID is required")
	}
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule pattern is required")
	}

	re, err := regexp2.Compile(r.Pattern, regexp2.RE2|regexp2.Multiline)
	if err != nil {
		re, err = regexp2.Compile(r.Pattern, regexp2.None)
		if err != nil {
			return fmt.Errorf("invalid pattern regex for rule %s: %w", r.ID, err)
		}
	}

	for _, example := range r.Examples {
		ok, err := re.MatchString(example)
		if err != nil {
			return fmt.Errorf("rule %s: matching example failed: %w", r.ID, err)
		}
		if !ok {
			return fmt.Errorf("rule %s: example %q does not match pattern", r.ID, example)
		}
	}

	for _, example := range r.NegativeExamples {
		ok, err := re.MatchString(example)
		if err != nil {
			return fmt.Errorf("rule %s: matching negative example failed: %w", r.ID, err)
		}
		if ok {
			return fmt.Errorf("rule %s: negative example %q matches pattern", r.ID, example)
		}
	}

	return nil
}

// ValidateRules validates every rule and checks for duplicate IDs.
func ValidateRules(rules []*types.Rule) error {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if err := ValidateRule(r); err != nil {
			return err
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule ID: %s", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
