package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/promptgate/promptgate/pkg/rule"
	"github.com/promptgate/promptgate/pkg/types"
)

var (
	rulesPath   string
	rulesFormat string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage security rules",
	Long:  "Commands for listing and checking security rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available rules",
	Long:  "Display all available security rules with their IDs and names",
	RunE:  runRulesList,
}

var rulesLintCmd = &cobra.Command{
	Use:   "lint <rules-file>",
	Short: "Check a rules file",
	Long: `Load a rules file and verify every rule: required fields present,
pattern compiles, examples match, and negative examples do not.`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesLint,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesLintCmd)
	rulesListCmd.Flags().StringVar(&rulesPath, "rules", "", "Path to custom rules file")
	rulesListCmd.Flags().StringVar(&rulesFormat, "format", "table", "Output format: table, json")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	loader := rule.NewLoader()

	var rules []*types.Rule
	var err error

	if rulesPath != "" {
		rules, err = loader.LoadRuleFile(rulesPath)
		if err != nil {
			return fmt.Errorf("loading rules from %s: %w", rulesPath, err)
		}
	} else {
		rules, err = loader.LoadBuiltinRules()
		if err != nil {
			return fmt.Errorf("loading builtin rules: %w", err)
		}
	}

	switch rulesFormat {
	case "json":
		return outputRulesJSON(cmd, rules)
	case "table":
		return outputRulesTable(cmd, rules)
	default:
		return fmt.Errorf("unknown output format: %s", rulesFormat)
	}
}

func runRulesLint(cmd *cobra.Command, args []string) error {
	loader := rule.NewLoader()

	rules, err := loader.LoadRuleFile(args[0])
	if err != nil {
		return fmt.Errorf("loading rules from %s: %w", args[0], err)
	}

	if err := rule.ValidateRules(rules); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d rule(s) OK\n", len(rules))
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func outputRulesJSON(cmd *cobra.Command, rules []*types.Rule) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(rules)
}

func outputRulesTable(cmd *cobra.Command, rules []*types.Rule) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tName\tCategory\n")
	fmt.Fprintf(w, "--\t----\t--------\n")

	for _, r := range rules {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, r.Category)
	}

	return nil
}
