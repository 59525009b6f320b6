package matcher

import (
	"testing"

	"github.com/promptgate/promptgate/pkg/rule"
	"github.com/promptgate/promptgate/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinMatcher(t *testing.T) *RegexpMatcher {
	t.Helper()

	loader := rule.NewLoader()
	rules, err := loader.LoadBuiltinRules()
	require.NoError(t, err)
	placeholders, err := loader.LoadBuiltinPlaceholders()
	require.NoError(t, err)

	m, err := NewRegexp(Config{Rules: rules, Placeholders: placeholders})
	require.NoError(t, err)
	return m
}

func TestMatch_HardcodedPassword(t *testing.T) {
	m := builtinMatcher(t)

	findings, err := m.MatchString("line one\npassword = \"hunter2-prod\"\n")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "Hardcoded password", findings[0].Message)
	assert.Equal(t, "credential", findings[0].Category)
	assert.Equal(t, 2, findings[0].Line)
}

func TestMatch_DangerousEval(t *testing.T) {
	m := builtinMatcher(t)

	findings, err := m.MatchString("result = eval(user_input)")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "eval", findings[0].Category)
}

func TestMatch_HTMLInjection(t *testing.T) {
	m := builtinMatcher(t)

	findings, err := m.MatchString("node.innerHTML = payload")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "injection", findings[0].Category)
}

func TestMatch_PlaceholderSuppressed(t *testing.T) {
	m := builtinMatcher(t)

	tests := []string{
		`api_key = "your-key-here"`,
		`password = "changeme"`,
		`secret: "xxxxxxxx"`,
		`token = "${GITHUB_TOKEN}"`,
		`password = "<your-password>"`,
	}
	for _, content := range tests {
		findings, err := m.MatchString(content)
		require.NoError(t, err)
		assert.Empty(t, findings, "expected suppression for %q", content)
	}
}

func TestMatch_RealValueNotSuppressed(t *testing.T) {
	m := builtinMatcher(t)

	findings, err := m.MatchString(`api_key = "sk-live-4f9a8b7c6d"`)
	require.NoError(t, err)
	assert.Len(t, findings, 1)
}

func TestMatch_PerRuleAllowlist(t *testing.T) {
	rules := []*types.Rule{{
		ID:        "custom.1",
		Name:      "Custom secret",
		Pattern:   `secret=(\S+)`,
		Category:  "credential",
		Allowlist: []string{"^test-"},
	}}

	m, err := NewRegexp(Config{Rules: rules})
	require.NoError(t, err)

	findings, err := m.MatchString("secret=test-fixture")
	require.NoError(t, err)
	assert.Empty(t, findings)

	findings, err = m.MatchString("secret=prod-value")
	require.NoError(t, err)
	assert.Len(t, findings, 1)
}

func TestMatch_MultipleOccurrences(t *testing.T) {
	m := builtinMatcher(t)

	content := "eval(a)\nsomething\neval(b)\n"
	findings, err := m.MatchString(content)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, 1, findings[0].Line)
	assert.Equal(t, 3, findings[1].Line)
}

func TestMatch_NoFindingsOnCleanContent(t *testing.T) {
	m := builtinMatcher(t)

	findings, err := m.MatchString("# Deploy\n\nA perfectly ordinary document.\n")
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestNewRegexp_NoRules(t *testing.T) {
	_, err := NewRegexp(Config{})
	assert.Error(t, err)
}

func TestNewRegexp_BadPlaceholderPattern(t *testing.T) {
	rules := []*types.Rule{{ID: "a", Name: "a", Pattern: "x"}}
	_, err := NewRegexp(Config{Rules: rules, Placeholders: []string{"(["}})
	assert.Error(t, err)
}
