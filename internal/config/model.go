package config

import "github.com/zclconf/go-cty/cty"

// SceneModel is the unified, format-agnostic representation of a scene
// description: the project settings, the node tree and optional rule
// overrides.
type SceneModel struct {
	Project *Project
	// Nodes holds the root-level nodes in declaration order. Groups carry
	// their children.
	Nodes []*NodeSpec
	Rules []*RuleSpec
	// Files lists the source files the model was loaded from.
	Files []string
}

// Project is the format-agnostic representation of a `project` block.
type Project struct {
	// Globals are the variable names declared at the root of the scene.
	Globals []string
	// Time is the evaluation time parameters are read at.
	Time float64
	// User holds the project user parameters, e.g. excluded_gsv_names.
	User map[string]cty.Value
}

// NodeSpec is the format-agnostic representation of a `node` or `group`
// block.
type NodeSpec struct {
	Type  string
	Name  string
	Group bool

	Bypassed bool
	// GraphState is false when the node is wired but does not currently
	// contribute to the scene.
	GraphState bool

	// Params maps parameter names to values. Object values describe nested
	// parameters and are flattened into dotted paths by the graph builder.
	Params map[string]cty.Value

	Inputs   []*PortSpec
	Outputs  []*PortSpec
	Children []*NodeSpec

	// Source is the "file:line" the node was declared at.
	Source string
}

// PortSpec is a declared port. From is a node reference ("Node" or
// "Node.port") naming what feeds the port, or empty when unconnected.
type PortSpec struct {
	Name string
	From string
}

// RuleSpec overrides or disables the built-in usage rule of one node type.
// Empty fields keep the built-in value.
type RuleSpec struct {
	NodeType    string
	Enabled     bool
	Role        string
	Kind        string
	NameParam   string
	ValuesParam string
	ScriptParam string
}

// Walk calls fn for every node of the tree in declaration order, parents
// before their children. parent is nil for root-level nodes.
func (m *SceneModel) Walk(fn func(n, parent *NodeSpec)) {
	var walk func(nodes []*NodeSpec, parent *NodeSpec)
	walk = func(nodes []*NodeSpec, parent *NodeSpec) {
		for _, n := range nodes {
			fn(n, parent)
			walk(n.Children, n)
		}
	}
	walk(m.Nodes, nil)
}

// FindNode returns the node with the given name anywhere in the tree.
func (m *SceneModel) FindNode(name string) (*NodeSpec, bool) {
	var found *NodeSpec
	m.Walk(func(n, _ *NodeSpec) {
		if found == nil && n.Name == name {
			found = n
		}
	})
	return found, found != nil
}
