package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/cdlex/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A template with a syntax error is guaranteed to panic during the
	// loading phase inside app.NewApp().
	invalidTemplate := `{"instances": [{"path": "", "class": "Root"`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "model.json")
	err := os.WriteFile(filePath, []byte(invalidTemplate), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{filePath}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, logs, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")

	errStr := runErr.Error()
	require.True(t, strings.Contains(errStr, "application startup panicked"), "The error message should indicate that a panic was recovered.")
	require.True(t, strings.Contains(errStr, "failed to load template"), "The error message should contain the underlying reason for the panic.")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, args)

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, logs.String(), "Usage:", "Expected help text to be printed to the log writer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, args)

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_WritesDocumentToFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	modelPath := filepath.Join(tempDir, "model.json")
	outPath := filepath.Join(tempDir, "cdl.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(testutil.SampleTemplate), 0600))

	args := []string{"-out", outPath, "-log-level", "error", modelPath}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, args)
	require.NoError(t, err)

	// The document landed in the file, not on stdout.
	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(written), `"documents"`)
	require.Empty(t, out.String())
}
