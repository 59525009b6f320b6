// Package rule loads security detection rules and the placeholder
// allow-list from YAML, with built-in defaults embedded in the binary.
package rule

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/promptgate/promptgate/pkg/types"
	"gopkg.in/yaml.v3"
)

// placeholdersFile is the embedded allow-list filename; it is not a rules
// file and is skipped by the rule walk.
const placeholdersFile = "rules/placeholders.yml"

// Loader handles loading rules from YAML files.
type Loader struct {
	fs fs.FS // embedded filesystem for built-in rules
}

// NewLoader creates a loader backed by the embedded built-in rules.
func NewLoader() *Loader {
	return &Loader{fs: builtinFS}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{fs: fsys}
}

// LoadRules parses all rules from YAML bytes.
func (l *Loader) LoadRules(data []byte) ([]*types.Rule, error) {
	var yamlFile yamlRulesFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(yamlFile.Rules) == 0 {
		return nil, fmt.Errorf("no rules found in YAML")
	}

	rules := make([]*types.Rule, 0, len(yamlFile.Rules))
	for _, yr := range yamlFile.Rules {
		rules = append(rules, convertYAMLRule(yr))
	}
	return rules, nil
}

// LoadRuleFile loads all rules from a YAML file path.
func (l *Loader) LoadRuleFile(path string) ([]*types.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return l.LoadRules(data)
}

// LoadBuiltinRules loads all built-in rules from the embedded filesystem.
func (l *Loader) LoadBuiltinRules() ([]*types.Rule, error) {
	var rules []*types.Rule

	err := fs.WalkDir(l.fs, "rules", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" || path == placeholdersFile {
			return nil
		}

		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		parsed, err := l.LoadRules(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		rules = append(rules, parsed...)

		return nil
	})

	if err != nil {
		return nil, err
	}

	return rules, nil
}

// LoadBuiltinPlaceholders loads the default placeholder allow-list from the
// embedded filesystem.
func (l *Loader) LoadBuiltinPlaceholders() ([]string, error) {
	data, err := fs.ReadFile(l.fs, placeholdersFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", placeholdersFile, err)
	}
	return parsePlaceholders(data)
}

// LoadPlaceholderFile loads a placeholder allow-list from a YAML file path.
func (l *Loader) LoadPlaceholderFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return parsePlaceholders(data)
}

func parsePlaceholders(data []byte) ([]string, error) {
	var yamlFile yamlPlaceholdersFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return yamlFile.Placeholders, nil
}

// convertYAMLRule converts yamlRule to types.Rule.
func convertYAMLRule(yr yamlRule) *types.Rule {
	return &types.Rule{
		ID:               yr.ID,
		Name:             yr.Name,
		Pattern:          yr.Pattern,
		Category:         yr.Category,
		Description:      yr.Description,
		Keywords:         yr.Keywords,
		Examples:         yr.Examples,
		NegativeExamples: yr.NegativeExamples,
		Allowlist:        yr.Allowlist,
		References:       yr.References,
	}
}
