package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/cdlex/internal/ctxlog"
	"github.com/specialistvlad/cdlex/internal/export"
	"github.com/specialistvlad/cdlex/internal/writer"
)

// Run executes one export over the loaded tree and writes the document to
// the configured destination.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	workers := a.policy.Workers
	if workers == 0 {
		workers = defaultWorkers
	}

	engine := export.New(a.policy.Classifier(), a.policy.Options(), workers)

	a.logger.Info("🚀 Starting export...")
	exported, err := engine.Run(ctx, a.tree)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if a.config.OutPath != "" {
		if err := writer.WriteFile(a.config.OutPath, exported); err != nil {
			return err
		}
		a.logger.Info("🏁 Export finished.", "out", a.config.OutPath)
		return nil
	}

	if err := writer.Write(a.outW, exported); err != nil {
		return err
	}
	a.logger.Info("🏁 Export finished.")
	return nil
}
