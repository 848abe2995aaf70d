package inmemorygraph

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/scenevars/internal/config"
	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/specialistvlad/scenevars/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// DefaultOutput is the output port a plain node gets when it declares none.
const DefaultOutput = "out"

// FromModel builds a graph from a scene model in two passes: first every
// node with its ports and parameters, then every connection.
func FromModel(ctx context.Context, m *config.SceneModel) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := New()
	if m == nil {
		return nil, fmt.Errorf("scene model cannot be nil")
	}
	if m.Project != nil {
		g.SetGlobals(m.Project.Globals...)
		g.SetTime(m.Project.Time)
	}

	var createErr error
	m.Walk(func(spec, parent *config.NodeSpec) {
		if createErr != nil {
			return
		}
		createErr = g.createNode(spec, parent)
	})
	if createErr != nil {
		return nil, createErr
	}
	logger.Debug("Graph nodes created.", "count", g.Len())

	var wireErr error
	connections := 0
	m.Walk(func(spec, _ *config.NodeSpec) {
		if wireErr != nil {
			return
		}
		var n int
		n, wireErr = g.wireNode(spec)
		connections += n
	})
	if wireErr != nil {
		return nil, wireErr
	}
	logger.Debug("Graph connections wired.", "count", connections)
	return g, nil
}

func (g *Graph) createNode(spec, parent *config.NodeSpec) error {
	var parentGroup *Group
	if parent != nil {
		p, _ := g.Lookup(parent.Name)
		parentGroup = p.group
	}

	var n *Node
	if spec.Group {
		grp, err := g.AddGroup(spec.Name, spec.Type, parentGroup)
		if err != nil {
			return withSource(spec, err)
		}
		n = &grp.Node
	} else {
		node, err := g.AddNode(spec.Name, spec.Type, parentGroup)
		if err != nil {
			return withSource(spec, err)
		}
		n = node
	}

	n.SetBypassed(spec.Bypassed)
	n.SetGraphState(spec.GraphState)
	for _, in := range spec.Inputs {
		n.AddInput(in.Name)
	}
	for _, out := range spec.Outputs {
		n.AddOutput(out.Name)
	}
	if len(spec.Outputs) == 0 && !spec.Group {
		n.AddOutput(DefaultOutput)
	}

	keys := make([]string, 0, len(spec.Params))
	for k := range spec.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		setParams(n, k, spec.Params[k])
	}
	return nil
}

// setParams flattens object and map values into dotted parameter paths, so
// `script = { lua = "..." }` is readable as "script.lua".
func setParams(n *Node, path string, v cty.Value) {
	ty := v.Type()
	if v.IsNull() || !v.IsKnown() || !(ty.IsObjectType() || ty.IsMapType()) {
		n.SetParam(path, v)
		return
	}
	for k, child := range v.AsValueMap() {
		setParams(n, path+"."+k, child)
	}
}

func (g *Graph) wireNode(spec *config.NodeSpec) (int, error) {
	n, _ := g.Lookup(spec.Name)
	count := 0

	for _, in := range spec.Inputs {
		if in.From == "" {
			continue
		}
		dst, _ := n.Input(in.Name)
		src, err := g.resolveSource(n, in.From, false)
		if err != nil {
			return count, withSource(spec, fmt.Errorf("input '%s' of node '%s': %w", in.Name, spec.Name, err))
		}
		if err := g.Connect(src, dst); err != nil {
			return count, withSource(spec, err)
		}
		count++
	}

	if n.group == nil {
		return count, nil
	}
	for _, out := range spec.Outputs {
		if out.From == "" {
			continue
		}
		dst, _ := n.group.Return(out.Name)
		src, err := g.resolveSource(n, out.From, true)
		if err != nil {
			return count, withSource(spec, fmt.Errorf("output '%s' of group '%s': %w", out.Name, spec.Name, err))
		}
		if err := g.Connect(src, dst); err != nil {
			return count, withSource(spec, err)
		}
		count++
	}
	return count, nil
}

// resolveSource finds the port a reference points at. A reference to the
// enclosing group, or to the group itself when wiring one of its outputs,
// resolves to the group's inside input port. Any other reference resolves to
// an output port, the first one when no port is named.
func (g *Graph) resolveSource(owner *Node, raw string, inside bool) (*Port, error) {
	ref, err := nodeid.Parse(raw)
	if err != nil {
		return nil, err
	}
	src, ok := g.Lookup(ref.Node)
	if !ok {
		return nil, fmt.Errorf("referenced node '%s' does not exist", ref.Node)
	}

	enclosing := owner.parent
	if inside {
		enclosing = owner.group
	}
	if enclosing != nil && src == &enclosing.Node {
		return sendPort(enclosing, ref)
	}

	if !ref.HasPort() {
		if len(src.outputs) == 0 {
			return nil, fmt.Errorf("referenced node '%s' has no output port", ref.Node)
		}
		return src.outputs[0], nil
	}
	p, ok := src.Output(ref.Port)
	if !ok {
		return nil, fmt.Errorf("referenced node '%s' has no output port '%s'", ref.Node, ref.Port)
	}
	return p, nil
}

func sendPort(grp *Group, ref nodeid.Ref) (*Port, error) {
	if !ref.HasPort() {
		if len(grp.inputs) == 0 {
			return nil, fmt.Errorf("group '%s' has no input port", grp.name)
		}
		return grp.sends[grp.inputs[0].name], nil
	}
	p, ok := grp.Send(ref.Port)
	if !ok {
		return nil, fmt.Errorf("group '%s' has no input port '%s'", grp.name, ref.Port)
	}
	return p, nil
}

func withSource(spec *config.NodeSpec, err error) error {
	if spec.Source == "" {
		return err
	}
	return fmt.Errorf("%s: %w", spec.Source, err)
}
