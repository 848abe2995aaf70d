package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Projects []*ProjectBlock `hcl:"project,block"`
	Nodes    []*NodeBlock    `hcl:"node,block"`
	Groups   []*GroupBlock   `hcl:"group,block"`
	Rules    []*RuleBlock    `hcl:"rule,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

// ProjectBlock maps the `project` block.
type ProjectBlock struct {
	Globals []string       `hcl:"globals,optional"`
	Time    *float64       `hcl:"time,optional"`
	User    hcl.Expression `hcl:"user,optional"`
}

// NodeBlock maps a `node "Type" "Name"` block.
type NodeBlock struct {
	Type       string         `hcl:"type,label"`
	Name       string         `hcl:"name,label"`
	Bypassed   *bool          `hcl:"bypassed,optional"`
	GraphState *bool          `hcl:"graph_state,optional"`
	Params     hcl.Expression `hcl:"params,optional"`
	Inputs     []*PortBlock   `hcl:"input,block"`
	Outputs    []*PortBlock   `hcl:"output,block"`
	Body       hcl.Body       `hcl:",body"`
}

// GroupBlock maps a `group "Type" "Name"` block. Groups nest nodes and other
// groups.
type GroupBlock struct {
	Type       string         `hcl:"type,label"`
	Name       string         `hcl:"name,label"`
	Bypassed   *bool          `hcl:"bypassed,optional"`
	GraphState *bool          `hcl:"graph_state,optional"`
	Params     hcl.Expression `hcl:"params,optional"`
	Inputs     []*PortBlock   `hcl:"input,block"`
	Outputs    []*PortBlock   `hcl:"output,block"`
	Nodes      []*NodeBlock   `hcl:"node,block"`
	Groups     []*GroupBlock  `hcl:"group,block"`
	Body       hcl.Body       `hcl:",body"`
}

// PortBlock maps an `input "name"` or `output "name"` block.
type PortBlock struct {
	Name string  `hcl:"name,label"`
	From *string `hcl:"from,optional"`
}

// RuleBlock maps a `rule "NodeType"` block overriding a built-in usage rule.
type RuleBlock struct {
	NodeType    string  `hcl:"node_type,label"`
	Enabled     *bool   `hcl:"enabled,optional"`
	Role        *string `hcl:"role,optional"`
	Kind        *string `hcl:"kind,optional"`
	NameParam   *string `hcl:"name_param,optional"`
	ValuesParam *string `hcl:"values_param,optional"`
	ScriptParam *string `hcl:"script_param,optional"`
}
