package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptgate/promptgate/pkg/types"
)

func TestRunRulesListTable(t *testing.T) {
	rulesPath = ""
	rulesFormat = "table"
	cmd, buf := testCmd()

	err := runRulesList(cmd, []string{})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "pg.credential.1")
	assert.Contains(t, output, "pg.eval.1")
}

func TestRunRulesListJSON(t *testing.T) {
	rulesPath = ""
	rulesFormat = "json"
	cmd, buf := testCmd()

	err := runRulesList(cmd, []string{})
	require.NoError(t, err)

	var rules []*types.Rule
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rules))
	assert.NotEmpty(t, rules)
}

func TestRunRulesListUnknownFormat(t *testing.T) {
	rulesPath = ""
	rulesFormat = "xml"
	cmd, _ := testCmd()

	err := runRulesList(cmd, []string{})
	assert.Error(t, err)
}

func TestRunRulesLint(t *testing.T) {
	tmpDir := t.TempDir()

	good := filepath.Join(tmpDir, "good.yml")
	err := os.WriteFile(good, []byte(`rules:
  - id: custom.1
    name: internal-hostname
    pattern: '\binternal\.example\.com\b'
    category: infrastructure
    examples:
      - "host internal.example.com"
`), 0o644)
	require.NoError(t, err)

	cmd, buf := testCmd()
	err = runRulesLint(cmd, []string{good})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 rule(s) OK")

	bad := filepath.Join(tmpDir, "bad.yml")
	err = os.WriteFile(bad, []byte(`rules:
  - id: custom.2
    name: broken
    pattern: '\binternal\b'
    category: infrastructure
    examples:
      - "no match here"
`), 0o644)
	require.NoError(t, err)

	cmd, _ = testCmd()
	err = runRulesLint(cmd, []string{bad})
	assert.Error(t, err)
}
