package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/promptgate/promptgate/pkg/mdtext"
	"github.com/promptgate/promptgate/pkg/types"
)

const (
	// minContentLength is the character count below which content is
	// considered too brief.
	minContentLength = 500

	// minSectionBody is the minimum trimmed length of a tagged section's
	// body before it counts as substantial.
	minSectionBody = 20
)

// safetyKeywords satisfy the safety-considerations check.
var safetyKeywords = []string{"safety", "secure", "verify", "validate"}

// stepMarkerRe matches ordinal words, first/then sequencing, step numbering,
// or a "should" directive.
var stepMarkerRe = regexp.MustCompile(`(?i)\b(first|second|third|then|next|finally|step\s+\d|should)\b`)

// numberedListRe matches a numbered-list line.
var numberedListRe = regexp.MustCompile(`(?m)^\s*\d+[.)]\s`)

// QualityScorer computes the 0-100 quality score. All deductions and
// bonuses are independent and additive; evaluation order never changes the
// total. Score messages are advisory warnings, with one exception: an empty
// document is a structural error and scores zero.
type QualityScorer struct{}

// NewQualityScorer creates the quality-scorer descriptor.
func NewQualityScorer() *QualityScorer {
	return &QualityScorer{}
}

func (v *QualityScorer) Name() string { return "quality-score" }

func (v *QualityScorer) AppliesTo(doc *types.Document) bool { return true }

func (v *QualityScorer) Run(doc *types.Document) Partial {
	content := doc.Content

	if strings.TrimSpace(content) == "" {
		return Partial{
			Errors: []string{fmt.Sprintf("Content too brief (%d chars)", len(content))},
			Score:  scoreOf(0),
		}
	}

	var p Partial
	score := 100

	if len(content) < minContentLength {
		score -= 10
		p.Warnings = append(p.Warnings, fmt.Sprintf("Content too brief (%d chars)", len(content)))
	}

	score -= v.thinSectionPenalty(content, &p)

	lower := strings.ToLower(content)

	if !strings.Contains(lower, "example") {
		score -= 15
		p.Warnings = append(p.Warnings, "No examples provided")
	}

	if doc.Category != types.CategoryUtility && !containsAny(lower, safetyKeywords) {
		score -= 10
		p.Warnings = append(p.Warnings, "No safety considerations mentioned")
	}

	if doc.Category != types.CategoryDocumentation && !mdtext.HasCodeBlock(content) {
		score -= 5
		p.Warnings = append(p.Warnings, "No code blocks found")
	}

	if !stepMarkerRe.MatchString(content) && !numberedListRe.MatchString(content) {
		score -= 5
		p.Warnings = append(p.Warnings, "Instructions lack clear structure")
	}

	if mdtext.HasHeading(content, "## Context") || mdtext.HasTag(content, "context") {
		score += 3
	}
	if mdtext.HasHeading(content, "## Notes") {
		score += 2
	}
	if mdtext.HasHeading(content, "## Important") {
		score += 2
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	p.Score = scoreOf(score)
	return p
}

// thinSectionPenalty deducts 3 points per present-but-thin tagged section.
// Documents with no tagged sections are exempt.
func (v *QualityScorer) thinSectionPenalty(content string, p *Partial) int {
	penalty := 0
	for _, name := range recognizedTags {
		body, ok := mdtext.TagBody(content, name)
		if !ok {
			continue
		}
		if len(strings.TrimSpace(body)) < minSectionBody {
			penalty += 3
			p.Warnings = append(p.Warnings, fmt.Sprintf("<%s> content too brief", name))
		}
	}
	return penalty
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
