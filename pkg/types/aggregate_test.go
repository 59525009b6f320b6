package types

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sealedResult(path string, category Category, errs, warns []string, score int) *ValidationResult {
	r := NewValidationResult(path, category)
	r.Errors = append(r.Errors, errs...)
	r.Warnings = append(r.Warnings, warns...)
	r.QualityScore = score
	return r.Seal()
}

func TestMerge_Totals(t *testing.T) {
	agg := NewAggregateStats()

	agg.Merge(sealedResult("a.md", CategoryCommand, nil, nil, 100))
	agg.Merge(sealedResult("b.md", CategoryCommand, []string{"broken"}, []string{"meh"}, 40))
	agg.Merge(sealedResult("c.md", CategoryGeneral, nil, nil, 80))

	s := agg.Summary()
	assert.Equal(t, 3, s.TotalFiles)
	assert.Equal(t, 2, s.ValidFiles)
	assert.Equal(t, 1, s.InvalidFiles)
	assert.Equal(t, 1, s.ErrorCount)
	assert.Equal(t, 1, s.WarningCount)
	assert.InDelta(t, (100+40+80)/3.0, s.AverageQualityScore, 0.001)
	assert.Equal(t, 2, s.FileTypeBreakdown[CategoryCommand])
	assert.Equal(t, 1, s.FileTypeBreakdown[CategoryGeneral])
}

func TestMerge_PathQualifiesEntries(t *testing.T) {
	agg := NewAggregateStats()
	res := NewValidationResult("cmds/deploy.md", CategoryCommand)
	res.Errors = append(res.Errors, "Missing command sections: ## Usage")
	res.SecurityFindings = append(res.SecurityFindings, SecurityFinding{
		Message: "Hardcoded password", Category: "credential", Line: 7,
	})
	agg.Merge(res.Seal())

	assert.Equal(t, []string{"cmds/deploy.md: Missing command sections: ## Usage"}, agg.Errors())
	assert.Equal(t, []string{"cmds/deploy.md:7: Hardcoded password"}, agg.SecurityFindings())
	assert.Equal(t, 1, agg.Summary().SecurityIssueCount)
}

// totalFiles must equal validFiles+invalidFiles and the sum of the type
// breakdown regardless of how many goroutines merge concurrently.
func TestMerge_Concurrent(t *testing.T) {
	agg := NewAggregateStats()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var errs []string
			if i%5 == 0 {
				errs = []string{"bad"}
			}
			agg.Merge(sealedResult(fmt.Sprintf("doc%02d.md", i), CategoryGeneral, errs, nil, 90))
		}(i)
	}
	wg.Wait()

	s := agg.Summary()
	assert.Equal(t, 50, s.TotalFiles)
	assert.Equal(t, s.TotalFiles, s.ValidFiles+s.InvalidFiles)

	sum := 0
	for _, n := range s.FileTypeBreakdown {
		sum += n
	}
	assert.Equal(t, s.TotalFiles, sum)
}

func TestSummary_EmptyRun(t *testing.T) {
	s := NewAggregateStats().Summary()
	assert.Equal(t, 0, s.TotalFiles)
	assert.Equal(t, 0.0, s.AverageQualityScore)
	assert.Equal(t, 0, s.ExitCode())
}

func TestSummary_ExitCode(t *testing.T) {
	agg := NewAggregateStats()
	agg.Merge(sealedResult("x.md", CategoryGeneral, nil, []string{"advisory"}, 70))
	assert.Equal(t, 0, agg.Summary().ExitCode(), "warnings alone must not gate")

	agg.Merge(sealedResult("y.md", CategoryGeneral, []string{"structural"}, nil, 70))
	assert.Equal(t, 1, agg.Summary().ExitCode())
}

func TestSeal_Invariants(t *testing.T) {
	r := NewValidationResult("a.md", CategoryGeneral)
	r.QualityScore = 170
	r.Seal()
	assert.True(t, r.Valid)
	assert.Equal(t, 100, r.QualityScore)

	r2 := NewValidationResult("b.md", CategoryGeneral)
	r2.Errors = append(r2.Errors, "boom")
	r2.QualityScore = -20
	r2.Seal()
	assert.False(t, r2.Valid)
	assert.Equal(t, 0, r2.QualityScore)
}
