package inmemorygraph

import (
	"strings"

	"github.com/specialistvlad/scenevars/internal/nodegraph"
	"github.com/zclconf/go-cty/cty"
)

// Node is a plain vertex of the in-memory graph. Groups embed it.
type Node struct {
	name     string
	nodeType string
	parent   *Group
	// self is the value handed out through the nodegraph interfaces, so a
	// Group is seen as a Container even when reached through one of its ports.
	self nodegraph.Node
	// group is set when this node is the embedded part of a Group.
	group *Group

	inputs   []*Port
	outputs  []*Port
	params   map[string]*Parameter
	bypassed bool
	// graphState is true while the node contributes to scene evaluation.
	graphState bool
}

func newNode(name, nodeType string, parent *Group) *Node {
	return &Node{
		name:       name,
		nodeType:   nodeType,
		parent:     parent,
		params:     make(map[string]*Parameter),
		graphState: true,
	}
}

// Name implements nodegraph.Node.
func (n *Node) Name() string { return n.name }

// Type implements nodegraph.Node.
func (n *Node) Type() string { return n.nodeType }

// Parent returns the enclosing group, or nil at root level.
func (n *Node) Parent() *Group { return n.parent }

// InputPorts implements nodegraph.Node.
func (n *Node) InputPorts() []nodegraph.Port { return toPorts(n.inputs) }

// OutputPorts implements nodegraph.Node.
func (n *Node) OutputPorts() []nodegraph.Port { return toPorts(n.outputs) }

// IsBypassed implements nodegraph.Node.
func (n *Node) IsBypassed() bool { return n.bypassed }

// HasGraphState implements nodegraph.Node.
func (n *Node) HasGraphState() bool { return n.graphState }

// SetBypassed disables or enables the node.
func (n *Node) SetBypassed(bypassed bool) { n.bypassed = bypassed }

// SetGraphState marks whether the node currently contributes to the scene.
func (n *Node) SetGraphState(active bool) { n.graphState = active }

// AddInput appends an input port. On a group it also creates the internal
// port of the same name that children read from.
func (n *Node) AddInput(name string) *Port {
	if p, ok := n.Input(name); ok {
		return p
	}
	p := &Port{name: name, kind: kindInput, node: n}
	n.inputs = append(n.inputs, p)
	if n.group != nil {
		n.group.sends[name] = &Port{name: name, kind: kindSend, node: n}
	}
	return p
}

// AddOutput appends an output port. On a group it also creates the internal
// return port of the same name.
func (n *Node) AddOutput(name string) *Port {
	if p, ok := n.Output(name); ok {
		return p
	}
	p := &Port{name: name, kind: kindOutput, node: n}
	n.outputs = append(n.outputs, p)
	if n.group != nil {
		n.group.returns[name] = &Port{name: name, kind: kindReturn, node: n}
	}
	return p
}

// Input returns the named input port.
func (n *Node) Input(name string) (*Port, bool) { return findPort(n.inputs, name) }

// Output returns the named output port.
func (n *Node) Output(name string) (*Port, bool) { return findPort(n.outputs, name) }

// SetParam stores a parameter value under a dotted path. List, tuple and set
// values become a group parameter with one child per element.
func (n *Node) SetParam(path string, value cty.Value) {
	n.params[path] = newParameter(lastSegment(path), value)
}

// Parameter implements nodegraph.Node.
func (n *Node) Parameter(path string) (nodegraph.Parameter, bool) {
	p, ok := n.params[path]
	if !ok {
		return nil, false
	}
	return p, true
}

func findPort(ports []*Port, name string) (*Port, bool) {
	for _, p := range ports {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Group is a container node holding child nodes.
type Group struct {
	Node

	sends    map[string]*Port
	returns  map[string]*Port
	children []*Node
}

// ReturnPort implements nodegraph.Container.
func (g *Group) ReturnPort(name string) (nodegraph.Port, bool) {
	p, ok := g.returns[name]
	if !ok {
		return nil, false
	}
	return p, true
}

// InputPort implements nodegraph.Container.
func (g *Group) InputPort(name string) (nodegraph.Port, bool) {
	p, ok := g.Input(name)
	if !ok {
		return nil, false
	}
	return p, true
}

// Send returns the internal port children use to read the named input.
func (g *Group) Send(name string) (*Port, bool) {
	p, ok := g.sends[name]
	return p, ok
}

// Return returns the internal port feeding the named output.
func (g *Group) Return(name string) (*Port, bool) {
	p, ok := g.returns[name]
	return p, ok
}

// Children returns the direct children in creation order.
func (g *Group) Children() []*Node {
	return append([]*Node(nil), g.children...)
}
