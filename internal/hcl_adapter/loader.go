package hcl_adapter

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/scenevars/internal/config"
	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/specialistvlad/scenevars/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL scene loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire HCL loading process. Files are read in lexical
// order and blocks keep their declaration order, which becomes the host order
// of the graph.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.SceneModel, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.SceneModel{Project: &config.Project{}}

	hclFiles, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	projectSeen := ""

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		model.Files = append(model.Files, file)

		for _, p := range root.Projects {
			if projectSeen != "" {
				return nil, fmt.Errorf("duplicate project block in %s, first declared in %s", file, projectSeen)
			}
			projectSeen = file
			project, err := l.translateProject(ctx, p)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			model.Project = project
		}

		nodes, err := l.translateBlocks(ctx, root.Nodes, root.Groups)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
		model.Nodes = append(model.Nodes, nodes...)

		for _, r := range root.Rules {
			model.Rules = append(model.Rules, l.translateRule(r))
		}
	}

	logger.Debug("HCL loading complete.", "files", len(model.Files), "root_nodes", len(model.Nodes), "rules", len(model.Rules))
	return model, nil
}

// translateBlocks converts sibling node and group blocks and restores their
// interleaved declaration order, which gohcl splits by block type.
func (l *Loader) translateBlocks(ctx context.Context, nodes []*NodeBlock, groups []*GroupBlock) ([]*config.NodeSpec, error) {
	type positioned struct {
		offset int
		spec   *config.NodeSpec
	}
	var all []positioned

	for _, n := range nodes {
		spec, err := l.translateNode(ctx, n)
		if err != nil {
			return nil, err
		}
		all = append(all, positioned{declRange(n.Body).Start.Byte, spec})
	}
	for _, g := range groups {
		spec, err := l.translateGroup(ctx, g)
		if err != nil {
			return nil, err
		}
		all = append(all, positioned{declRange(g.Body).Start.Byte, spec})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].offset < all[j].offset })

	out := make([]*config.NodeSpec, len(all))
	for i, p := range all {
		out[i] = p.spec
	}
	return out, nil
}
