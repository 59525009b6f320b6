package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptgate/promptgate/pkg/rule"
	"github.com/promptgate/promptgate/pkg/sarif"
	"github.com/promptgate/promptgate/pkg/scanner"
	"github.com/promptgate/promptgate/pkg/store"
	"github.com/promptgate/promptgate/pkg/types"
)

var (
	validateRulesPath     string
	validateRulesInclude  string
	validateRulesExclude  string
	validateExcludes      []string
	validateWorkers       int
	validateExpectCount   int
	validateStrictCount   bool
	validateFormat        string
	validateOutputPath    string
	validateSlowThreshold time.Duration
	validateMaxFileSize   int64
	validateIncludeHidden bool
	validateColor         string
)

var validateCmd = &cobra.Command{
	Use:   "validate <target>",
	Short: "Validate a document file or directory tree",
	Long: `Validate a single document or every eligible document under a directory.
Structural errors produce a non-zero exit code; warnings and security
findings are advisory.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateRulesPath, "rules", "", "Path to custom security rules file")
	validateCmd.Flags().StringVar(&validateRulesInclude, "rules-include", "", "Include rules matching regex pattern (comma-separated)")
	validateCmd.Flags().StringVar(&validateRulesExclude, "rules-exclude", "", "Exclude rules matching regex pattern (comma-separated)")
	validateCmd.Flags().StringSliceVar(&validateExcludes, "exclude", nil, "Exclude paths matching gitignore-syntax pattern (repeatable)")
	validateCmd.Flags().IntVar(&validateWorkers, "workers", 0, "Validation worker count (0 = number of CPUs)")
	validateCmd.Flags().IntVar(&validateExpectCount, "expect-count", 0, "Expected document count (warn on mismatch)")
	validateCmd.Flags().BoolVar(&validateStrictCount, "strict-count", false, "Treat expected-count mismatch as an error")
	validateCmd.Flags().StringVar(&validateFormat, "format", "human", "Output format: human, json, sarif")
	validateCmd.Flags().StringVar(&validateOutputPath, "output", "", "Record the run in a history database at this path")
	validateCmd.Flags().DurationVar(&validateSlowThreshold, "slow-threshold", 0, "Warn when the run takes longer than this duration")
	validateCmd.Flags().Int64Var(&validateMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to validate (bytes)")
	validateCmd.Flags().BoolVar(&validateIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	validateCmd.Flags().StringVar(&validateColor, "color", "auto", "Color output: auto, always, never")
}

func runValidate(cmd *cobra.Command, args []string) error {
	target := args[0]

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}

	rules, err := loadRules(validateRulesPath, validateRulesInclude, validateRulesExclude)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	// Per-file results are retained for json/sarif output and run history.
	var mu sync.Mutex
	var results []*types.ValidationResult
	keepResults := validateFormat != "human" || validateOutputPath != ""

	cfg := scanner.Config{
		Rules:         rules,
		Workers:       validateWorkers,
		MaxFileSize:   validateMaxFileSize,
		IncludeHidden: validateIncludeHidden,
		ExpectedCount: validateExpectCount,
		StrictCount:   validateStrictCount,
		SlowThreshold: validateSlowThreshold,
	}
	if len(validateExcludes) > 0 {
		cfg.Excludes = validateExcludes
	}
	if keepResults {
		cfg.OnResult = func(res *types.ValidationResult) {
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}
	}

	engine, err := scanner.New(cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	start := time.Now()
	var agg *types.AggregateStats

	if info.IsDir() {
		agg, err = engine.ValidateDirectory(context.Background(), target)
		if err != nil {
			return fmt.Errorf("validating %s: %w", target, err)
		}
	} else {
		res := engine.ValidateFile(target)
		agg = types.NewAggregateStats()
		agg.Merge(res)
		if keepResults {
			results = append(results, res)
		}
	}
	elapsed := time.Since(start)

	if keepResults {
		sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	}

	if validateOutputPath != "" {
		if err := saveRun(target, start, elapsed, agg, results); err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
	}

	switch validateFormat {
	case "json":
		err = outputJSON(cmd, agg, results)
	case "sarif":
		err = outputSARIF(cmd, rules, results)
	case "human":
		err = outputHuman(cmd, target, agg, elapsed)
	default:
		return fmt.Errorf("unknown output format: %s", validateFormat)
	}
	if err != nil {
		return err
	}

	summary := agg.Summary()
	if summary.ExitCode() != 0 {
		return fmt.Errorf("validation failed: %d error(s)", summary.ErrorCount)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func loadRules(path, include, exclude string) ([]*types.Rule, error) {
	loader := rule.NewLoader()

	var rules []*types.Rule
	var err error

	if path != "" {
		rules, err = loader.LoadRuleFile(path)
	} else {
		rules, err = loader.LoadBuiltinRules()
	}
	if err != nil {
		return nil, err
	}

	if include != "" || exclude != "" {
		config := rule.FilterConfig{
			Include: rule.ParsePatterns(include),
			Exclude: rule.ParsePatterns(exclude),
		}
		rules, err = rule.Filter(rules, config)
		if err != nil {
			return nil, fmt.Errorf("filtering rules: %w", err)
		}
	}

	return rules, nil
}

func saveRun(root string, start time.Time, elapsed time.Duration, agg *types.AggregateStats, results []*types.ValidationResult) error {
	s, err := store.New(store.Config{Path: validateOutputPath})
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.SaveRun(&store.Run{
		Root:      root,
		StartedAt: start,
		Duration:  elapsed,
		Summary:   agg.Summary(),
		Results:   results,
	})
	return err
}

// jsonOutput is the machine-readable run report.
type jsonOutput struct {
	Summary  types.Summary             `json:"summary"`
	Errors   []string                  `json:"errors"`
	Warnings []string                  `json:"warnings"`
	Results  []*types.ValidationResult `json:"results"`
}

func outputJSON(cmd *cobra.Command, agg *types.AggregateStats, results []*types.ValidationResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonOutput{
		Summary:  agg.Summary(),
		Errors:   agg.Errors(),
		Warnings: agg.Warnings(),
		Results:  results,
	})
}

func outputSARIF(cmd *cobra.Command, rules []*types.Rule, results []*types.ValidationResult) error {
	report := sarif.NewReport()
	for _, r := range rules {
		report.AddRule(r)
	}
	for _, res := range results {
		report.AddValidationResult(res)
	}

	jsonBytes, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("serializing SARIF: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(jsonBytes); err != nil {
		return fmt.Errorf("writing SARIF output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout())
	return err
}

func outputHuman(cmd *cobra.Command, root string, agg *types.AggregateStats, elapsed time.Duration) error {
	s := newStyles(colorEnabled(validateColor))
	return renderRun(cmd.OutOrStdout(), s, root, agg.Summary(), agg.Errors(), agg.Warnings(), agg.SecurityFindings(), elapsed, quiet)
}
