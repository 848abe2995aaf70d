package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/scenevars/internal/config"
	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/specialistvlad/scenevars/internal/edits"
	"github.com/specialistvlad/scenevars/internal/metrics"
	"github.com/specialistvlad/scenevars/internal/scene"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx     context.Context
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	loader  config.Loader
	metrics *metrics.Registry
	edits   *edits.Edits

	httpServer *http.Server

	mu    sync.RWMutex
	scene *scene.Scene
}

// NewApp is the constructor for the main application. Reports are written to
// outW and logs to logW; the App gets its own isolated logger and metrics.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.Settings.LogLevel, cfg.Settings.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	e := edits.New()
	for _, edit := range cfg.Edits {
		e.Set(ctx, edit.Name, edit.Value)
	}

	return &App{
		ctx:     ctx,
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loader:  loader,
		metrics: metrics.NewRegistry(),
		edits:   e,
	}
}

// Scene returns the last successfully built scene, or nil.
func (a *App) Scene() *scene.Scene {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.scene
}

// Metrics returns the application's metrics registry.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Edits returns the tool edits applied to every report.
func (a *App) Edits() *edits.Edits {
	return a.edits
}
