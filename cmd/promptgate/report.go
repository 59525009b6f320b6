package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptgate/promptgate/pkg/rule"
	"github.com/promptgate/promptgate/pkg/store"
	"github.com/promptgate/promptgate/pkg/types"
)

var (
	reportDB     string
	reportRunID  int64
	reportFormat string
	reportColor  string
	reportList   bool
	reportLimit  int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a recorded validation run",
	Long: `Read a run from a history database produced by "validate --output" and
render it. By default the most recent run is shown; --list shows the run
history instead.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDB, "db", "promptgate.db", "Path to the run-history database")
	reportCmd.Flags().Int64Var(&reportRunID, "run", 0, "Run ID to render (0 = latest)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	reportCmd.Flags().BoolVar(&reportList, "list", false, "List recorded runs instead of rendering one")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 20, "Maximum runs to list (0 = all)")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportDB == ":memory:" {
		return fmt.Errorf("cannot report from in-memory store")
	}
	if _, err := os.Stat(reportDB); err != nil {
		return fmt.Errorf("history database not found: %s", reportDB)
	}

	s, err := store.New(store.Config{Path: reportDB})
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer s.Close()

	if reportList {
		return outputRunList(cmd, s)
	}

	var run *store.Run
	if reportRunID > 0 {
		run, err = s.GetRun(reportRunID)
	} else {
		run, err = s.LatestRun()
	}
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}

	switch reportFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(run)
	case "sarif":
		return outputRunSARIF(cmd, run)
	case "human":
		return outputRunHuman(cmd, run)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func outputRunHuman(cmd *cobra.Command, run *store.Run) error {
	// Rebuild the path-qualified issue lists from the stored results.
	agg := types.NewAggregateStats()
	for _, res := range run.Results {
		agg.Merge(res)
	}

	out := cmd.OutOrStdout()
	s := newStyles(colorEnabled(reportColor))
	fmt.Fprintf(out, "%s %d, started %s\n",
		s.metadata.Sprint("Run"), run.ID, run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	return renderRun(out, s, run.Root, run.Summary, agg.Errors(), agg.Warnings(), agg.SecurityFindings(), run.Duration, quiet)
}

// outputRunSARIF re-exports a stored run as SARIF. The run does not record
// which rule file was in effect, so rule metadata comes from the builtin set.
func outputRunSARIF(cmd *cobra.Command, run *store.Run) error {
	rules, err := rule.NewLoader().LoadBuiltinRules()
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	return outputSARIF(cmd, rules, run.Results)
}

func outputRunList(cmd *cobra.Command, s store.Store) error {
	runs, err := s.ListRuns(reportLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if reportFormat == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}
	for _, run := range runs {
		verdict := "PASS"
		if run.Summary.ExitCode() != 0 {
			verdict = "FAIL"
		}
		fmt.Fprintf(out, "%d\t%s\t%s\t%d files\t%d errors\t%s\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Root,
			run.Summary.TotalFiles,
			run.Summary.ErrorCount,
			verdict)
	}
	return nil
}
