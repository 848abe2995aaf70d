package nodegraph

import "github.com/zclconf/go-cty/cty"

// Node is a single vertex of the host graph.
type Node interface {
	// Name returns the unique name of the node in its graph.
	Name() string

	// Type returns the node type, e.g. "VariableSet". Rule tables are keyed
	// by this value.
	Type() string

	// InputPorts lists the input ports in host order. The order is
	// significant: traversal recurses through inputs in exactly this order.
	InputPorts() []Port

	// OutputPorts lists the output ports in host order.
	OutputPorts() []Port

	// Parameter looks up a parameter by its dotted path, e.g. "script.lua".
	Parameter(path string) (Parameter, bool)

	// IsBypassed reports whether the node is disabled in the graph.
	IsBypassed() bool

	// HasGraphState reports whether the node currently has a valid evaluated
	// graph state, i.e. it actually contributes to the scene at the current
	// time instead of merely being wired.
	HasGraphState() bool
}

// Container is a Node that nests a subgraph (a "group").
type Container interface {
	Node

	// ReturnPort resolves an output port name of the container to the port
	// inside the container that feeds it.
	ReturnPort(name string) (Port, bool)

	// InputPort resolves an input port name to the container's outside input
	// port.
	InputPort(name string) (Port, bool)
}

// Port is a named connection point owned by a node.
type Port interface {
	// Name returns the port name, unique among the ports of the same kind on
	// its node.
	Name() string

	// Node returns the owning node.
	Node() Node

	// ConnectedPorts returns the ports wired to this one. Input ports are
	// assumed to carry at most one connection.
	ConnectedPorts() []Port
}

// Parameter is a node parameter. Group parameters have children and no value
// of their own; leaf parameters have a value and no children.
type Parameter interface {
	Name() string
	Children() []Parameter
	// Value returns the parameter value at the given evaluation time.
	Value(time float64) cty.Value
}

// Graph is the host graph as a whole.
type Graph interface {
	// Node looks up a node by name anywhere in the graph, including inside
	// containers.
	Node(name string) (Node, bool)

	// NodesByType returns every node of the given type in host order,
	// including nodes nested in containers.
	NodesByType(nodeType string) []Node

	// GlobalVariables lists the variable names declared at the root level of
	// the graph.
	GlobalVariables() []string

	// CurrentTime is the evaluation time parameters are read at.
	CurrentTime() float64
}

// AsContainer returns the node as a Container when it nests a subgraph.
func AsContainer(n Node) (Container, bool) {
	c, ok := n.(Container)
	return c, ok
}
