package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/cdlex/internal/config"
	"github.com/specialistvlad/cdlex/internal/ctxlog"
	"github.com/specialistvlad/cdlex/internal/loader"
	"github.com/specialistvlad/cdlex/internal/model"
)

// defaultWorkers bounds sequence resolution concurrency when neither the
// policy file nor the CLI sets a worker count.
const defaultWorkers = 4

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	policy *config.Policy
	tree   *model.Tree
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, the policy applied,
// and the template loaded. outW receives the export document, logW the logs;
// keeping them apart means stdout stays valid JSON. A failure to load either
// file is a fatal startup error and panics; the CLI entrypoint recovers it
// into a clean exit.
func NewApp(outW, logW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	policy := config.Default()
	if appConfig.PolicyPath != "" {
		loaded, err := config.Load(appConfig.PolicyPath)
		if err != nil {
			panic(fmt.Errorf("failed to load policy: %w", err))
		}
		policy = loaded
		logger.Debug("Policy file loaded.", "path", appConfig.PolicyPath)
	}

	// CLI flags override individual policy fields.
	if appConfig.GroupBy != "" {
		policy.GroupBy = appConfig.GroupBy
	}
	if appConfig.WorkerCount > 0 {
		policy.Workers = appConfig.WorkerCount
	}
	if err := policy.Validate(); err != nil {
		panic(fmt.Errorf("invalid effective policy: %w", err))
	}
	logger.Debug("Effective policy computed.",
		"group_by", policy.GroupBy, "record_classes", policy.RecordClasses, "workers", policy.Workers)

	tree, err := loader.Load(ctx, appConfig.ModelPath)
	if err != nil {
		panic(fmt.Errorf("failed to load template: %w", err))
	}
	logger.Debug("Template tree loaded.", "instances", tree.Len())

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		policy: policy,
		tree:   tree,
	}
}

// Tree returns the loaded instance tree. This is primarily for testing.
func (a *App) Tree() *model.Tree {
	return a.tree
}
