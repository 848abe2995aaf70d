// This file contains the logic for translating HCL schema structs into the
// format-agnostic scene model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/scenevars/internal/config"
	"github.com/specialistvlad/scenevars/internal/ctxlog"
)

// translateProject converts the HCL-specific project schema into the agnostic model.
func (l *Loader) translateProject(ctx context.Context, p *ProjectBlock) (*config.Project, error) {
	user, err := evalObject(ctx, p.User, "user")
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	project := &config.Project{
		Globals: append([]string(nil), p.Globals...),
		User:    user,
	}
	if p.Time != nil {
		project.Time = *p.Time
	}
	return project, nil
}

// translateNode converts the HCL-specific node schema into the agnostic model.
func (l *Loader) translateNode(ctx context.Context, n *NodeBlock) (*config.NodeSpec, error) {
	logger := ctxlog.FromContext(ctx).With("node_type", n.Type, "node_name", n.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL node to internal scene model.")

	params, err := evalObject(ctx, n.Params, "params")
	if err != nil {
		return nil, fmt.Errorf("node '%s': %w", n.Name, err)
	}
	return &config.NodeSpec{
		Type:       n.Type,
		Name:       n.Name,
		Bypassed:   boolOr(n.Bypassed, false),
		GraphState: boolOr(n.GraphState, true),
		Params:     params,
		Inputs:     translatePorts(n.Inputs),
		Outputs:    translatePorts(n.Outputs),
		Source:     sourceOf(declRange(n.Body)),
	}, nil
}

// translateGroup converts the HCL-specific group schema, with its nested
// blocks, into the agnostic model.
func (l *Loader) translateGroup(ctx context.Context, g *GroupBlock) (*config.NodeSpec, error) {
	logger := ctxlog.FromContext(ctx).With("group_type", g.Type, "group_name", g.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL group to internal scene model.", "nodes", len(g.Nodes), "groups", len(g.Groups))

	params, err := evalObject(ctx, g.Params, "params")
	if err != nil {
		return nil, fmt.Errorf("group '%s': %w", g.Name, err)
	}
	children, err := l.translateBlocks(ctx, g.Nodes, g.Groups)
	if err != nil {
		return nil, fmt.Errorf("group '%s': %w", g.Name, err)
	}
	return &config.NodeSpec{
		Type:       g.Type,
		Name:       g.Name,
		Group:      true,
		Bypassed:   boolOr(g.Bypassed, false),
		GraphState: boolOr(g.GraphState, true),
		Params:     params,
		Inputs:     translatePorts(g.Inputs),
		Outputs:    translatePorts(g.Outputs),
		Children:   children,
		Source:     sourceOf(declRange(g.Body)),
	}, nil
}

// translateRule converts the HCL-specific rule schema into the agnostic model.
func (l *Loader) translateRule(r *RuleBlock) *config.RuleSpec {
	return &config.RuleSpec{
		NodeType:    r.NodeType,
		Enabled:     boolOr(r.Enabled, true),
		Role:        strOr(r.Role),
		Kind:        strOr(r.Kind),
		NameParam:   strOr(r.NameParam),
		ValuesParam: strOr(r.ValuesParam),
		ScriptParam: strOr(r.ScriptParam),
	}
}

func translatePorts(blocks []*PortBlock) []*config.PortSpec {
	out := make([]*config.PortSpec, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, &config.PortSpec{Name: b.Name, From: strOr(b.From)})
	}
	return out
}

func sourceOf(r hcl.Range) string {
	if r.Filename == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", r.Filename, r.Start.Line)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func strOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
