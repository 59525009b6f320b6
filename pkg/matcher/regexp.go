package matcher

import (
	"fmt"
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/promptgate/promptgate/pkg/prefilter"
	"github.com/promptgate/promptgate/pkg/types"
)

// RegexpMatcher implements Matcher using regexp2 for Perl-style regex
// support, with an Aho-Corasick keyword prefilter narrowing the rule set
// before any pattern runs.
type RegexpMatcher struct {
	rules      []*types.Rule
	regexCache map[string]*regexp2.Regexp
	prefilter  *prefilter.Prefilter

	globalAllow []*regexp.Regexp            // placeholder patterns applied to every rule
	ruleAllow   map[string][]*regexp.Regexp // per-rule allowlist, keyed by rule ID
}

// NewRegexp creates a new regexp-based matcher.
func NewRegexp(cfg Config) (*RegexpMatcher, error) {
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("no rules provided")
	}

	m := &RegexpMatcher{
		rules:      cfg.Rules,
		regexCache: make(map[string]*regexp2.Regexp),
		prefilter:  prefilter.New(cfg.Rules),
		ruleAllow:  make(map[string][]*regexp.Regexp),
	}

	// Pre-compile all patterns to catch errors early.
	for _, r := range cfg.Rules {
		// Try RE2 mode first (no backtracking); fall back to the default
		// Perl-compatible mode for patterns RE2 cannot express.
		re, err := regexp2.Compile(r.Pattern, regexp2.RE2|regexp2.Multiline)
		if err != nil {
			re, err = regexp2.Compile(r.Pattern, regexp2.None)
			if err != nil {
				return nil, fmt.Errorf("failed to compile pattern %q for rule %s: %w", r.Pattern, r.ID, err)
			}
		}
		// Timeout guards against catastrophic backtracking.
		re.MatchTimeout = 5 * time.Second
		m.regexCache[r.Pattern] = re

		allow, err := compileAllowlist(r.Allowlist)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.ID, err)
		}
		m.ruleAllow[r.ID] = allow
	}

	globalAllow, err := compileAllowlist(cfg.Placeholders)
	if err != nil {
		return nil, err
	}
	m.globalAllow = globalAllow

	return m, nil
}

// compileAllowlist compiles placeholder patterns as case-insensitive regexes.
func compileAllowlist(patterns []string) ([]*regexp.Regexp, error) {
	var regexes []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)(?:" + p + ")")
		if err != nil {
			return nil, fmt.Errorf("invalid placeholder pattern %q: %w", p, err)
		}
		regexes = append(regexes, re)
	}
	return regexes, nil
}

// Match scans content against all loaded rules.
func (m *RegexpMatcher) Match(content []byte) ([]types.SecurityFinding, error) {
	var findings []types.SecurityFinding

	contentStr := string(content)
	// regexp2 reports rune indexes, so line attribution works on runes.
	runes := []rune(contentStr)

	for _, r := range m.prefilter.Filter(content) {
		re := m.regexCache[r.Pattern]
		if re == nil {
			continue
		}

		match, err := re.FindStringMatch(contentStr)
		if err != nil {
			return nil, fmt.Errorf("regex match error for rule %s: %w", r.ID, err)
		}

		for match != nil {
			value := flaggedValue(match)
			if !m.suppressed(r.ID, value) {
				findings = append(findings, types.SecurityFinding{
					Message:  r.Name,
					Category: r.Category,
					RuleID:   r.ID,
					Line:     lineOfRuneIndex(runes, match.Index),
				})
			}

			match, err = re.FindNextMatch(match)
			if err != nil {
				return nil, fmt.Errorf("regex match error for rule %s: %w", r.ID, err)
			}
		}
	}

	return findings, nil
}

// MatchString scans a string for security findings.
func (m *RegexpMatcher) MatchString(content string) ([]types.SecurityFinding, error) {
	return m.Match([]byte(content))
}

// Close releases resources (no-op for regexp).
func (m *RegexpMatcher) Close() error {
	return nil
}

// flaggedValue extracts the value a finding is about: the first captured
// group when the pattern declares one, the whole match otherwise.
func flaggedValue(match *regexp2.Match) string {
	groups := match.Groups()
	for i := 1; i < len(groups); i++ {
		if len(groups[i].Captures) > 0 {
			return groups[i].Captures[0].String()
		}
	}
	return match.String()
}

// suppressed reports whether a flagged value looks like a placeholder under
// the global allow-list or the rule's own allowlist.
func (m *RegexpMatcher) suppressed(ruleID, value string) bool {
	for _, re := range m.globalAllow {
		if re.MatchString(value) {
			return true
		}
	}
	for _, re := range m.ruleAllow[ruleID] {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// lineOfRuneIndex computes the 1-indexed line of a rune offset.
func lineOfRuneIndex(runes []rune, idx int) int {
	line := 1
	for i := 0; i < idx && i < len(runes); i++ {
		if runes[i] == '\n' {
			line++
		}
	}
	return line
}
