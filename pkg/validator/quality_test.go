package validator

import (
	"strings"
	"testing"

	"github.com/promptgate/promptgate/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perfectDoc trips no deductions: long enough, has an example, a safety
// keyword, a code block, step markers, and a Context bonus heading.
func perfectDoc() string {
	var b strings.Builder
	b.WriteString("# Release process\n\n## Context\n\n")
	b.WriteString(strings.Repeat("Background on how releases work here. ", 55))
	b.WriteString("\n\nFirst verify the branch, then run:\n\n```\nrelease --tag\n```\n\nExample: release --tag v1.2.3\n")
	return b.String()
}

func runScore(t *testing.T, category types.Category, content string) (int, Partial) {
	t.Helper()
	p := NewQualityScorer().Run(&types.Document{Path: "x.md", Content: content, Category: category})
	require.NotNil(t, p.Score)
	return *p.Score, p
}

func TestQuality_PerfectScore(t *testing.T) {
	content := perfectDoc()
	require.Greater(t, len(content), 2000)

	score, p := runScore(t, types.CategoryGeneral, content)
	assert.Equal(t, 100, score, "bonus is capped at 100, no penalties apply")
	assert.Empty(t, p.Warnings)
	assert.Empty(t, p.Errors)
}

func TestQuality_EmptyDocument(t *testing.T) {
	score, p := runScore(t, types.CategoryGeneral, "")
	assert.Equal(t, 0, score)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "Content too brief (0 chars)", p.Errors[0])
}

func TestQuality_WhitespaceOnlyDocument(t *testing.T) {
	score, p := runScore(t, types.CategoryGeneral, "   \n\t\n")
	assert.Equal(t, 0, score)
	require.Len(t, p.Errors, 1)
	assert.Contains(t, p.Errors[0], "Content too brief")
}

func TestQuality_BriefContent(t *testing.T) {
	content := "short doc with example, verify step. First do this:\n\n```\nx\n```\n"
	score, p := runScore(t, types.CategoryGeneral, content)
	assert.Equal(t, 90, score)
	require.Len(t, p.Warnings, 1)
	assert.Contains(t, p.Warnings[0], "Content too brief")
}

func TestQuality_NoExamples(t *testing.T) {
	base := perfectDoc()
	content := strings.ReplaceAll(base, "Example", "Usage")
	baseScore, _ := runScore(t, types.CategoryGeneral, base)
	score, p := runScore(t, types.CategoryGeneral, content)

	assert.Contains(t, p.Warnings, "No examples provided")
	assert.LessOrEqual(t, score, baseScore, "removing the only example never raises the score")
	assert.Equal(t, 88, score)
}

func TestQuality_NoSafetyKeyword(t *testing.T) {
	content := strings.ReplaceAll(perfectDoc(), "verify", "inspect")
	score, p := runScore(t, types.CategoryGeneral, content)
	assert.Contains(t, p.Warnings, "No safety considerations mentioned")
	assert.Equal(t, 93, score)
}

func TestQuality_UtilityExemptFromSafety(t *testing.T) {
	content := strings.ReplaceAll(perfectDoc(), "verify", "inspect")
	score, p := runScore(t, types.CategoryUtility, content)
	assert.NotContains(t, p.Warnings, "No safety considerations mentioned")
	assert.Equal(t, 100, score)
}

func TestQuality_NoCodeBlocks(t *testing.T) {
	content := strings.ReplaceAll(perfectDoc(), "```\nrelease --tag\n```", "release dash dash tag")
	score, p := runScore(t, types.CategoryGeneral, content)
	assert.Contains(t, p.Warnings, "No code blocks found")
	assert.Equal(t, 98, score)
}

func TestQuality_DocumentationExemptFromCodeBlocks(t *testing.T) {
	content := strings.ReplaceAll(perfectDoc(), "```\nrelease --tag\n```", "release dash dash tag")
	score, p := runScore(t, types.CategoryDocumentation, content)
	assert.NotContains(t, p.Warnings, "No code blocks found")
	assert.Equal(t, 100, score)
}

func TestQuality_NoStepStructure(t *testing.T) {
	content := strings.ReplaceAll(perfectDoc(), "First verify the branch, then run:", "Run after a verify pass:")
	score, p := runScore(t, types.CategoryGeneral, content)
	assert.Contains(t, p.Warnings, "Instructions lack clear structure")
	assert.Equal(t, 98, score)
}

func TestQuality_NumberedListCountsAsStructure(t *testing.T) {
	content := strings.ReplaceAll(perfectDoc(), "First verify the branch, then run:", "1. verify the branch\n2. run:")
	_, p := runScore(t, types.CategoryGeneral, content)
	assert.NotContains(t, p.Warnings, "Instructions lack clear structure")
}

func TestQuality_ThinTaggedSection(t *testing.T) {
	// Drop the Context bonus so the thin-section deduction is visible.
	base := strings.ReplaceAll(perfectDoc(), "## Context", "## Background")
	content := base + "\n<role>tiny</role>\n<instructions>" +
		strings.Repeat("do the work carefully ", 5) + "</instructions>\n"
	score, p := runScore(t, types.CategoryGeneral, content)
	assert.Contains(t, p.Warnings, "<role> content too brief")
	assert.NotContains(t, p.Warnings, "<instructions> content too brief")
	assert.Equal(t, 97, score)
}

func TestQuality_NoTaggedSectionsNoThinPenalty(t *testing.T) {
	_, p := runScore(t, types.CategoryGeneral, perfectDoc())
	for _, w := range p.Warnings {
		assert.NotContains(t, w, "content too brief")
	}
}

func TestQuality_ContextTagBonus(t *testing.T) {
	// Remove the heading bonus and the code block so the tag bonus is
	// visible below the cap.
	base := strings.ReplaceAll(perfectDoc(), "## Context", "## Background")
	base = strings.ReplaceAll(base, "```\nrelease --tag\n```", "release dash dash tag")
	baseScore, _ := runScore(t, types.CategoryGeneral, base)
	assert.Equal(t, 95, baseScore)

	withTag := base + "\n<context>" + strings.Repeat("plenty of context material ", 3) + "</context>\n"
	tagScore, _ := runScore(t, types.CategoryGeneral, withTag)
	assert.Equal(t, 98, tagScore)
}

func TestQuality_NotesAndImportantBonuses(t *testing.T) {
	base := strings.ReplaceAll(perfectDoc(), "## Context", "## Background")
	base = strings.ReplaceAll(base, "```\nrelease --tag\n```", "release dash dash tag")
	content := base + "\n## Notes\n\nnote\n\n## Important\n\ncareful\n"
	score, _ := runScore(t, types.CategoryGeneral, content)
	assert.Equal(t, 99, score)

	capped, _ := runScore(t, types.CategoryGeneral, perfectDoc()+"\n## Notes\n\nnote\n\n## Important\n\ncareful\n")
	assert.Equal(t, 100, capped, "bonuses clamp at 100")
}

func TestQuality_ScoreAlwaysInRange(t *testing.T) {
	docs := []string{
		"",
		"x",
		"tiny doc no nothing",
		perfectDoc(),
		"<role>a</role><activation>b</activation><instructions>c</instructions><output_format>d</output_format>",
	}
	for _, content := range docs {
		score, _ := runScore(t, types.CategoryGeneral, content)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestQuality_MonotoneUnderAddedDeficiency(t *testing.T) {
	withExample := perfectDoc()
	withoutExample := strings.ReplaceAll(withExample, "Example", "Usage")

	a, _ := runScore(t, types.CategoryGeneral, withExample)
	b, _ := runScore(t, types.CategoryGeneral, withoutExample)
	assert.GreaterOrEqual(t, a, b)
}
