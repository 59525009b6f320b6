// Package prefilter narrows the rule set for a document using Aho-Corasick
// keyword matching before any regex runs.
package prefilter

import (
	"bytes"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/promptgate/promptgate/pkg/types"
)

// Prefilter uses Aho-Corasick for efficient keyword matching. Keywords are
// matched case-insensitively: both keywords and content are lowercased.
type Prefilter struct {
	matcher        *ahocorasick.Matcher
	keywords       []string                 // lowercased keyword at each index
	keywordRules   map[string][]*types.Rule // keyword -> rules needing it
	noKeywordRules []*types.Rule            // rules without keywords (always checked)
}

// New creates a prefilter from rules.
func New(rules []*types.Rule) *Prefilter {
	pf := &Prefilter{
		keywordRules:   make(map[string][]*types.Rule),
		noKeywordRules: make([]*types.Rule, 0),
	}

	keywordSet := make(map[string]bool)
	for _, r := range rules {
		if len(r.Keywords) == 0 {
			pf.noKeywordRules = append(pf.noKeywordRules, r)
			continue
		}
		for _, keyword := range r.Keywords {
			keyword = strings.ToLower(keyword)
			if !keywordSet[keyword] {
				keywordSet[keyword] = true
				pf.keywords = append(pf.keywords, keyword)
			}
			pf.keywordRules[keyword] = append(pf.keywordRules[keyword], r)
		}
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// Filter returns the rules that might match content: rules whose keywords
// appear, plus every rule that declares no keywords.
func (pf *Prefilter) Filter(content []byte) []*types.Rule {
	result := make([]*types.Rule, 0, len(pf.noKeywordRules))
	result = append(result, pf.noKeywordRules...)

	if pf.matcher == nil {
		return result
	}

	hits := pf.matcher.Match(bytes.ToLower(content))

	seen := make(map[*types.Rule]bool, len(result))
	for _, r := range result {
		seen[r] = true
	}

	for _, hit := range hits {
		keyword := pf.keywords[hit]
		for _, r := range pf.keywordRules[keyword] {
			if !seen[r] {
				seen[r] = true
				result = append(result, r)
			}
		}
	}

	return result
}
