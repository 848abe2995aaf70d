package scene

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/specialistvlad/scenevars/internal/nodegraph"
	"github.com/specialistvlad/scenevars/internal/rules"
	"github.com/specialistvlad/scenevars/internal/traverse"
)

// Scene is the result of one build: the usage sites in collection order and
// the Variables they reference.
type Scene struct {
	graph nodegraph.Graph

	mu        sync.RWMutex
	id        uuid.UUID
	settings  Settings
	sites     []*UsageSite
	variables []*Variable
	registry  *Registry
}

// state is the content of a scene that a rebuild swaps in at once.
type state struct {
	id        uuid.UUID
	sites     []*UsageSite
	variables []*Variable
	registry  *Registry
}

// Build validates the settings and builds a scene from the graph.
func Build(ctx context.Context, graph nodegraph.Graph, settings Settings) (*Scene, error) {
	if graph == nil {
		return nil, NewConfigurationError("Graph", "graph is nil")
	}
	s := &Scene{graph: graph}
	if err := s.Rebuild(ctx, settings); err != nil {
		return nil, err
	}
	return s, nil
}

// Rebuild replaces the scene content with a fresh build. On failure the
// previous content is kept and the error returned.
func (s *Scene) Rebuild(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	settings = settings.clone()

	st, err := build(ctx, s.graph, settings)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.id = st.id
	s.settings = settings
	s.sites = st.sites
	s.variables = st.variables
	s.registry = st.registry
	s.mu.Unlock()
	return nil
}

func build(ctx context.Context, graph nodegraph.Graph, settings Settings) (*state, error) {
	id := uuid.New()
	ctx = ctxlog.With(ctx, "scene", id.String())
	logger := ctxlog.FromContext(ctx)
	table := settings.table()

	logger.Debug("Scene build started.", "mode", settings.Mode, "start", settings.Start.String())

	nodes, err := collect(ctx, graph, settings, table)
	if err != nil {
		return nil, err
	}
	logger.Debug("Nodes collected.", "count", len(nodes))

	sites, err := classify(ctx, graph, table, nodes)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry(id)
	variables := aggregate(registry, sites, settings.Excluded)

	globals := make(map[string]struct{})
	for _, name := range graph.GlobalVariables() {
		globals[name] = struct{}{}
	}
	for _, v := range variables {
		v.finalize(sites, globals)
	}

	logger.Debug("Scene build finished.", "usage_sites", len(sites), "variables", len(variables))
	return &state{id: id, sites: sites, variables: variables, registry: registry}, nil
}

// collect returns the relevant, non-bypassed nodes in collection order.
func collect(ctx context.Context, graph nodegraph.Graph, settings Settings, table *rules.Table) ([]nodegraph.Node, error) {
	var candidates []nodegraph.Node

	switch settings.Mode {
	case ModeAllScene:
		for _, nodeType := range table.Types() {
			candidates = append(candidates, graph.NodesByType(nodeType)...)
		}
	case ModeUpstream, ModeLogicalUpstream:
		origin, err := resolveStart(graph, settings)
		if err != nil {
			return nil, err
		}
		walked, err := traverse.VisitUpstream(ctx, origin, traverse.Options{
			Logical:       settings.Mode == ModeLogicalUpstream,
			IncludeGroups: settings.IncludeGroups,
			OpaqueTypes:   settings.OpaqueContainerTypes,
		})
		if err != nil {
			return nil, fmt.Errorf("upstream traversal from '%s' failed: %w", settings.Start, err)
		}
		for _, n := range walked {
			if _, ok := table.Lookup(n.Type()); ok {
				candidates = append(candidates, n)
			}
		}
	default:
		return nil, NewConfigurationError("Mode", "unknown mode %q", settings.Mode)
	}

	out := candidates[:0]
	for _, n := range candidates {
		if !n.IsBypassed() {
			out = append(out, n)
		}
	}
	return out, nil
}

func resolveStart(graph nodegraph.Graph, settings Settings) (traverse.Origin, error) {
	n, ok := graph.Node(settings.Start.Node)
	if !ok {
		return traverse.Origin{}, NewConfigurationError("Start", "node '%s' does not exist", settings.Start.Node)
	}
	if !settings.Start.HasPort() {
		return traverse.FromNode(n), nil
	}
	for _, p := range n.OutputPorts() {
		if p.Name() == settings.Start.Port {
			return traverse.FromPort(p), nil
		}
	}
	return traverse.Origin{}, NewConfigurationError("Start", "node '%s' has no output port '%s'", settings.Start.Node, settings.Start.Port)
}

func classify(ctx context.Context, graph nodegraph.Graph, table *rules.Table, nodes []nodegraph.Node) ([]*UsageSite, error) {
	time := graph.CurrentTime()
	sites := make([]*UsageSite, 0, len(nodes))
	for _, n := range nodes {
		usage, ok, err := table.Classify(ctx, n, time)
		if err != nil {
			return nil, fmt.Errorf("failed to classify node '%s': %w", n.Name(), err)
		}
		if !ok {
			continue
		}
		sites = append(sites, &UsageSite{Node: n, Role: usage.Role, Entries: usage.Entries})
	}
	return sites, nil
}

// aggregate fetches or creates one Variable per referenced name, skipping
// excluded names, and returns them in first-seen order.
func aggregate(registry *Registry, sites []*UsageSite, excluded []string) []*Variable {
	skip := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		skip[name] = struct{}{}
	}

	var variables []*Variable
	seen := make(map[*Variable]struct{})
	for _, site := range sites {
		for _, e := range site.Entries {
			if _, ok := skip[e.Name]; ok {
				continue
			}
			v := registry.Get(e.Name)
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			variables = append(variables, v)
		}
	}
	return variables
}

// ID identifies the current build. It changes on every successful rebuild.
func (s *Scene) ID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Settings returns the settings of the current build.
func (s *Scene) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.clone()
}

// Graph returns the graph the scene reads.
func (s *Scene) Graph() nodegraph.Graph { return s.graph }

// Variables returns the Variables in first-seen order.
func (s *Scene) Variables() []*Variable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Variable(nil), s.variables...)
}

// UsageSites returns the usage sites in collection order.
func (s *Scene) UsageSites() []*UsageSite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*UsageSite(nil), s.sites...)
}

// Registry returns the registry of the current build.
func (s *Scene) Registry() *Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// Variable looks a Variable up by name. A miss is not an error; it is
// logged at debug level.
func (s *Scene) Variable(ctx context.Context, name string) (*Variable, bool) {
	s.mu.RLock()
	registry := s.registry
	s.mu.RUnlock()

	if registry != nil {
		if v, ok := registry.Lookup(name); ok {
			return v, true
		}
	}
	ctxlog.FromContext(ctx).Debug("Variable not found in scene.", "variable", name)
	return nil, false
}
