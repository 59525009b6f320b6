package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/promptgate/promptgate/pkg/types"
)

// styles holds color formatters for human-readable output
type styles struct {
	header   *color.Color
	pass     *color.Color
	fail     *color.Color
	warn     *color.Color
	finding  *color.Color
	metadata *color.Color
}

// newStyles creates color formatters for report output
// enabled=false respects --color=never and the NO_COLOR env var
func newStyles(enabled bool) *styles {
	s := &styles{
		header:   color.New(color.Bold, color.FgHiWhite),
		pass:     color.New(color.Bold, color.FgHiGreen),
		fail:     color.New(color.Bold, color.FgHiRed),
		warn:     color.New(color.FgYellow),
		finding:  color.New(color.FgHiMagenta),
		metadata: color.New(color.FgHiBlue),
	}

	if !enabled {
		s.header.DisableColor()
		s.pass.DisableColor()
		s.fail.DisableColor()
		s.warn.DisableColor()
		s.finding.DisableColor()
		s.metadata.DisableColor()
	}

	return s
}

// colorEnabled resolves the --color flag against the terminal state.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}

// terminalWidth returns the stdout width for separators, clamped to [40, 100].
// Non-terminal output uses 80.
func terminalWidth() int {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	if width < 40 {
		width = 40
	}
	if width > 100 {
		width = 100
	}
	return width
}

// renderRun writes the human-readable run report: issue lists first, then
// the summary table and a PASS/FAIL verdict.
func renderRun(w io.Writer, s *styles, root string, sum types.Summary, errors, warnings, findings []string, elapsed time.Duration, quiet bool) error {
	sep := strings.Repeat("-", terminalWidth())

	fmt.Fprintln(w, s.header.Sprintf("Validation report: %s", root))
	fmt.Fprintln(w, sep)

	if len(errors) > 0 {
		fmt.Fprintln(w, s.fail.Sprintf("Errors (%d):", len(errors)))
		for _, msg := range errors {
			fmt.Fprintf(w, "  %s\n", msg)
		}
		fmt.Fprintln(w)
	}

	if !quiet && len(warnings) > 0 {
		fmt.Fprintln(w, s.warn.Sprintf("Warnings (%d):", len(warnings)))
		for _, msg := range warnings {
			fmt.Fprintf(w, "  %s\n", msg)
		}
		fmt.Fprintln(w)
	}

	if len(findings) > 0 {
		fmt.Fprintln(w, s.finding.Sprintf("Security findings (%d):", len(findings)))
		for _, msg := range findings {
			fmt.Fprintf(w, "  %s\n", msg)
		}
		fmt.Fprintln(w)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total files:\t%d\n", sum.TotalFiles)
	fmt.Fprintf(tw, "Valid:\t%d\n", sum.ValidFiles)
	fmt.Fprintf(tw, "Invalid:\t%d\n", sum.InvalidFiles)
	fmt.Fprintf(tw, "Errors:\t%d\n", sum.ErrorCount)
	fmt.Fprintf(tw, "Warnings:\t%d\n", sum.WarningCount)
	fmt.Fprintf(tw, "Security findings:\t%d\n", sum.SecurityIssueCount)
	fmt.Fprintf(tw, "Average quality score:\t%.1f\n", sum.AverageQualityScore)
	if elapsed > 0 {
		fmt.Fprintf(tw, "Duration:\t%s\n", elapsed.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(sum.FileTypeBreakdown) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.metadata.Sprint("Documents by type:"))
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, cat := range sortedCategories(sum.FileTypeBreakdown) {
			fmt.Fprintf(tw, "  %s:\t%d\n", cat, sum.FileTypeBreakdown[cat])
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, sep)
	if sum.ExitCode() == 0 {
		fmt.Fprintln(w, s.pass.Sprint("PASS"))
	} else {
		fmt.Fprintln(w, s.fail.Sprint("FAIL"))
	}
	return nil
}

func sortedCategories(breakdown map[types.Category]int) []types.Category {
	cats := make([]types.Category, 0, len(breakdown))
	for cat := range breakdown {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
