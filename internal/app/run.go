package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/specialistvlad/scenevars/internal/fsutil"
	"github.com/specialistvlad/scenevars/internal/report"
	"github.com/specialistvlad/scenevars/internal/scene"
	"github.com/specialistvlad/scenevars/internal/view"
	"github.com/specialistvlad/scenevars/internal/watch"
)

// Run builds the scene and writes the report. In watch mode it keeps
// rebuilding on scene file changes until ctx is done; a failed rebuild is
// logged and the previous scene stays current.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Settings.MetricsPort > 0 {
		a.startHealthcheckServer(a.config.Settings.MetricsPort)
		defer a.closeHealthcheckServer(ctx)
	}

	if err := a.refresh(ctx); err != nil && !a.config.Settings.Watch {
		return err
	}
	if !a.config.Settings.Watch {
		a.logger.Debug("App.Run method finished.")
		return nil
	}
	return a.watch(ctx)
}

// refresh rebuilds the scene and reports it. On failure the previous scene
// is kept.
func (a *App) refresh(ctx context.Context) error {
	sc, err := a.loadScene(ctx)
	if err != nil {
		a.logger.Error("Scene build failed.", "error", err)
		return err
	}

	a.mu.Lock()
	a.scene = sc
	a.mu.Unlock()

	return a.report(sc)
}

// report writes the views of sc, with the current edits applied, to the
// output writer.
func (a *App) report(sc *scene.Scene) error {
	format, err := report.ParseFormat(a.config.Settings.Format)
	if err != nil {
		return err
	}
	views := view.Views(sc, a.edits.Overrides())
	if a.config.Settings.SortByStatus {
		view.SortByStatus(views)
	}
	if err := report.Write(a.outW, format, report.NewDocument(sc, views)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (a *App) watch(ctx context.Context) error {
	dirs, err := fsutil.Dirs([]string{a.config.Settings.ScenePath})
	if err != nil {
		return fmt.Errorf("failed to resolve watch directories: %w", err)
	}
	w, err := watch.New(dirs, ".hcl", a.config.Settings.Debounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return fmt.Errorf("failed to watch %v: %w", dirs, err)
	}
	defer w.Stop()
	a.logger.Info("Watching scene files.", "dirs", dirs)

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Watch stopped.")
			return nil
		case files, ok := <-w.Changes:
			if !ok {
				return nil
			}
			a.metrics.RecordWatchEvent()
			a.logger.Info("Scene files changed, rebuilding.", "files", files)
			// The error is logged by refresh; watch mode keeps going.
			_ = a.refresh(ctx)
		}
	}
}
