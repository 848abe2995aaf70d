package app

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/scenevars/internal/config"
	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/specialistvlad/scenevars/internal/inmemorygraph"
	"github.com/specialistvlad/scenevars/internal/nodeid"
	"github.com/specialistvlad/scenevars/internal/rules"
	"github.com/specialistvlad/scenevars/internal/scene"
)

// loadScene reads the scene files, builds the graph and the scene, and
// records the build in the metrics.
func (a *App) loadScene(ctx context.Context) (*scene.Scene, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading scene...", "scene_path", a.config.Settings.ScenePath)

	model, err := a.loader.Load(ctx, a.config.Settings.ScenePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	graph, err := inmemorygraph.FromModel(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	logger.Debug("Graph built from scene model.", "node_count", graph.Len())

	settings, err := a.sceneSettings(ctx, model)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	sc, err := scene.Build(ctx, graph, settings)
	a.metrics.RecordBuild(sc, time.Since(started), err)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	logger.Info("Scene built.", "scene", sc.ID().String(), "variables", len(sc.Variables()), "usage_sites", len(sc.UsageSites()))
	return sc, nil
}

// sceneSettings merges the run settings with the settings found in the
// scene itself. Run settings win.
func (a *App) sceneSettings(ctx context.Context, model *config.SceneModel) (scene.Settings, error) {
	s := a.config.Settings
	out := scene.DefaultSettings()

	mode, err := scene.ParseMode(s.Mode)
	if err != nil {
		return out, &scene.ConfigurationError{Field: "Mode", Err: err}
	}
	out.Mode = mode

	if s.Start != "" {
		ref, err := nodeid.Parse(s.Start)
		if err != nil {
			return out, &scene.ConfigurationError{Field: "Start", Err: err}
		}
		out.Start = ref
	}

	project := config.ResolveProjectSettings(ctx, model)
	out.Excluded = project.Excluded
	out.OpaqueContainerTypes = project.OpaqueTypes
	if s.Excluded != nil {
		out.Excluded = s.Excluded
	}
	if s.OpaqueTypes != nil {
		out.OpaqueContainerTypes = s.OpaqueTypes
	}

	if len(model.Rules) > 0 {
		table, err := rules.DefaultTable().Override(model.Rules)
		if err != nil {
			return out, &scene.ConfigurationError{Field: "Rules", Err: err}
		}
		out.Rules = table
	}
	return out, nil
}
