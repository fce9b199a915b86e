package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/cdlex/internal/app"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Stdout    string
	LogOutput string
	Err       error
}

// RunExportTest writes the given files into a temporary directory, points
// the app at "model.json" (or the "model" subdirectory when present), and
// runs one full export. Startup panics are recovered into the returned
// error, mirroring the CLI entrypoint.
func RunExportTest(t *testing.T, files map[string]string, mutate func(*app.Config)) *HarnessResult {
	t.Helper()
	return RunExportTestWithContext(context.Background(), t, files, mutate)
}

// RunExportTestWithContext is RunExportTest with a caller-provided context.
func RunExportTestWithContext(ctx context.Context, t *testing.T, files map[string]string, mutate func(*app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	modelPath := filepath.Join(tmpDir, "model.json")
	if info, err := os.Stat(filepath.Join(tmpDir, "model")); err == nil && info.IsDir() {
		modelPath = filepath.Join(tmpDir, "model")
	}

	appConfig := &app.Config{
		ModelPath: modelPath,
		LogLevel:  "debug",
		LogFormat: "text",
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "export.hcl")); err == nil {
		appConfig.PolicyPath = filepath.Join(tmpDir, "export.hcl")
	}
	if mutate != nil {
		mutate(appConfig)
	}

	var stdout bytes.Buffer
	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(&stdout, logBuffer, appConfig)
	}()

	result := &HarnessResult{}
	if panicErr != nil {
		result.LogOutput = logBuffer.String()
		result.Err = fmt.Errorf("application startup panicked | %v", panicErr)
		return result
	}

	result.Err = testApp.Run(ctx)
	result.Stdout = stdout.String()
	result.LogOutput = logBuffer.String()

	if os.Getenv("CDLEX_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}
