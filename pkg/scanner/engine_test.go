package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptgate/promptgate/pkg/types"
)

const validCommandDoc = `# Deploy

## Description

Deploys the current branch to the staging environment after running the
pre-flight checks.

## Usage

` + "```" + `
deploy [--env staging|production] [--skip-checks]
` + "```" + `

## Parameters

- --env: target environment, defaults to staging
- --skip-checks: skip the pre-flight validation suite

## Examples

` + "```" + `
deploy --env staging
` + "```" + `
`

const brokenCommandDoc = `# Deploy

Deploys things. No structured sections here.
`

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"negative expected count", Config{ExpectedCount: -1}},
		{"strict without expected count", Config{StrictCount: true}},
		{"blank exclude pattern", Config{Excludes: []string{".git/", "  "}}},
		{"negative slow threshold", Config{SlowThreshold: -time.Second}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			assert.Error(t, err)
		})
	}
}

func TestValidateContentCommandDocument(t *testing.T) {
	e := newTestEngine(t, Config{})

	res := e.ValidateContent("commands/deploy.md", validCommandDoc)
	assert.True(t, res.Valid)
	assert.Equal(t, types.CategoryCommand, res.Category)
	assert.Empty(t, res.Errors)

	res = e.ValidateContent("commands/deploy.md", brokenCommandDoc)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Missing command sections")
}

func TestValidateFileReadFailure(t *testing.T) {
	e := newTestEngine(t, Config{})

	res := e.ValidateFile(filepath.Join(t.TempDir(), "missing.md"))
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "IOError")
	assert.Equal(t, 0, res.QualityScore)
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "commands/deploy.md", validCommandDoc)
	writeFile(t, dir, "commands/release.md", validCommandDoc)
	writeFile(t, dir, "commands/rollback.md", validCommandDoc)
	writeFile(t, dir, "commands/broken-one.md", brokenCommandDoc)
	writeFile(t, dir, "commands/broken-two.md", brokenCommandDoc)

	e := newTestEngine(t, Config{})
	agg, err := e.ValidateDirectory(context.Background(), dir)
	require.NoError(t, err)

	summary := agg.Summary()
	assert.Equal(t, 5, summary.TotalFiles)
	assert.Equal(t, 3, summary.ValidFiles)
	assert.Equal(t, 2, summary.InvalidFiles)
	assert.Equal(t, 2, summary.ErrorCount)
	assert.Equal(t, 5, summary.FileTypeBreakdown[types.CategoryCommand])
	assert.Equal(t, 1, summary.ExitCode())

	// Errors are path-qualified so a CI log identifies the file directly.
	for _, msg := range agg.Errors() {
		assert.Contains(t, msg, string(filepath.Separator)+"commands"+string(filepath.Separator))
	}
}

func TestValidateDirectoryParallel(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 50; i++ {
		writeFile(t, dir, fmt.Sprintf("doc-%02d.md", i), validCommandDoc)
	}

	e := newTestEngine(t, Config{Workers: 8})
	agg, err := e.ValidateDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 50, agg.Summary().TotalFiles)
}

func TestValidateDirectoryIOErrorContinues(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	dir := t.TempDir()
	writeFile(t, dir, "good.md", validCommandDoc)
	unreadable := writeFile(t, dir, "unreadable.md", validCommandDoc)
	require.NoError(t, os.Chmod(unreadable, 0o000))

	e := newTestEngine(t, Config{})
	agg, err := e.ValidateDirectory(context.Background(), dir)
	require.NoError(t, err)

	summary := agg.Summary()
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 1, summary.ValidFiles)
	assert.Equal(t, 1, summary.InvalidFiles)

	var sawIOError bool
	for _, msg := range agg.Errors() {
		if strings.Contains(msg, "IOError") {
			sawIOError = true
		}
	}
	assert.True(t, sawIOError)
}

func TestValidateDirectoryExpectedCount(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", validCommandDoc)
	writeFile(t, dir, "b.md", validCommandDoc)

	t.Run("mismatch warns", func(t *testing.T) {
		e := newTestEngine(t, Config{ExpectedCount: 5})
		agg, err := e.ValidateDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 0, agg.Summary().ExitCode())
		assert.Contains(t, agg.Warnings(), "expected 5 documents, found 2")
	})

	t.Run("strict mismatch fails", func(t *testing.T) {
		e := newTestEngine(t, Config{ExpectedCount: 5, StrictCount: true})
		agg, err := e.ValidateDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, agg.Summary().ExitCode())
		assert.Contains(t, agg.Errors(), "expected 5 documents, found 2")
	})

	t.Run("match is silent", func(t *testing.T) {
		e := newTestEngine(t, Config{ExpectedCount: 2, StrictCount: true})
		agg, err := e.ValidateDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 0, agg.Summary().ExitCode())
		assert.Empty(t, agg.Warnings())
	})
}

func TestValidateDirectorySlowThreshold(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", validCommandDoc)

	e := newTestEngine(t, Config{SlowThreshold: time.Nanosecond})
	agg, err := e.ValidateDirectory(context.Background(), dir)
	require.NoError(t, err)

	var sawSlow bool
	for _, msg := range agg.Warnings() {
		if strings.Contains(msg, "exceeding threshold") {
			sawSlow = true
		}
	}
	assert.True(t, sawSlow)
}

func TestValidateDirectoryCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", validCommandDoc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t, Config{})
	agg, err := e.ValidateDirectory(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, agg)
}

func TestValidateDirectoryNotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.md", validCommandDoc)

	e := newTestEngine(t, Config{})
	_, err := e.ValidateDirectory(context.Background(), file)
	assert.Error(t, err)

	_, err = e.ValidateDirectory(context.Background(), filepath.Join(dir, "nope"))
	assert.Error(t, err)
}
