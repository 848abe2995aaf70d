package testutil

import (
	"testing"

	"github.com/specialistvlad/scenevars/internal/inmemorygraph"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// GraphBuilder wraps an in-memory graph with helpers that create the node
// types the default rule table knows about. Every helper fails the test on
// error. Plain nodes get a single "out" output port.
type GraphBuilder struct {
	t *testing.T
	G *inmemorygraph.Graph
}

// NewGraph returns a builder over an empty graph.
func NewGraph(t *testing.T) *GraphBuilder {
	t.Helper()
	return &GraphBuilder{t: t, G: inmemorygraph.New()}
}

// Node adds a plain node of any type.
func (b *GraphBuilder) Node(name, nodeType string, parent *inmemorygraph.Group) *inmemorygraph.Node {
	b.t.Helper()
	n, err := b.G.AddNode(name, nodeType, parent)
	require.NoError(b.t, err)
	n.AddOutput("out")
	return n
}

// Set adds a VariableSet writing value to variable.
func (b *GraphBuilder) Set(name, variable, value string, parent *inmemorygraph.Group) *inmemorygraph.Node {
	b.t.Helper()
	n := b.Node(name, "VariableSet", parent)
	n.SetParam("variableName", cty.StringVal(variable))
	n.SetParam("variableValue", cty.StringVal(value))
	return n
}

// Delete adds a VariableDelete for variable.
func (b *GraphBuilder) Delete(name, variable string, parent *inmemorygraph.Group) *inmemorygraph.Node {
	b.t.Helper()
	n := b.Node(name, "VariableDelete", parent)
	n.SetParam("variableName", cty.StringVal(variable))
	return n
}

// Switch adds a VariableSwitch reading variable with the given patterns.
func (b *GraphBuilder) Switch(name, variable string, parent *inmemorygraph.Group, patterns ...string) *inmemorygraph.Node {
	b.t.Helper()
	n := b.Node(name, "VariableSwitch", parent)
	n.SetParam("variableName", cty.StringVal(variable))
	values := make([]cty.Value, len(patterns))
	for i, p := range patterns {
		values[i] = cty.StringVal(p)
	}
	if len(values) == 0 {
		n.SetParam("patterns", cty.ListValEmpty(cty.String))
	} else {
		n.SetParam("patterns", cty.ListVal(values))
	}
	return n
}

// Script adds an OpScript holding the given lua source.
func (b *GraphBuilder) Script(name, lua string, parent *inmemorygraph.Group) *inmemorygraph.Node {
	b.t.Helper()
	n := b.Node(name, "OpScript", parent)
	n.SetParam("script.lua", cty.StringVal(lua))
	return n
}

// Group adds a container with one "in" input and one "out" output.
func (b *GraphBuilder) Group(name, nodeType string, parent *inmemorygraph.Group) *inmemorygraph.Group {
	b.t.Helper()
	g, err := b.G.AddGroup(name, nodeType, parent)
	require.NoError(b.t, err)
	g.AddInput("in")
	g.AddOutput("out")
	return g
}

// Link feeds a new input named input on dst from the "out" port of src.
func (b *GraphBuilder) Link(src, dst *inmemorygraph.Node, input string) {
	b.t.Helper()
	out, ok := src.Output("out")
	require.True(b.t, ok, "node %s has no out port", src.Name())
	require.NoError(b.t, b.G.Connect(out, dst.AddInput(input)))
}

// Chain links nodes so each one feeds the next through an input named "in".
func (b *GraphBuilder) Chain(nodes ...*inmemorygraph.Node) {
	b.t.Helper()
	for i := 1; i < len(nodes); i++ {
		b.Link(nodes[i-1], nodes[i], "in")
	}
}

// Enter feeds the group input from src.
func (b *GraphBuilder) Enter(src *inmemorygraph.Node, g *inmemorygraph.Group) {
	b.t.Helper()
	out, _ := src.Output("out")
	in, _ := g.Input("in")
	require.NoError(b.t, b.G.Connect(out, in))
}

// Inside feeds a new input of a child from the group input.
func (b *GraphBuilder) Inside(g *inmemorygraph.Group, child *inmemorygraph.Node, input string) {
	b.t.Helper()
	send, _ := g.Send("in")
	require.NoError(b.t, b.G.Connect(send, child.AddInput(input)))
}

// Exit feeds the group output from a child.
func (b *GraphBuilder) Exit(child *inmemorygraph.Node, g *inmemorygraph.Group) {
	b.t.Helper()
	out, _ := child.Output("out")
	ret, _ := g.Return("out")
	require.NoError(b.t, b.G.Connect(out, ret))
}

// Leave feeds a new input of dst from the group output.
func (b *GraphBuilder) Leave(g *inmemorygraph.Group, dst *inmemorygraph.Node, input string) {
	b.t.Helper()
	out, _ := g.Output("out")
	require.NoError(b.t, b.G.Connect(out, dst.AddInput(input)))
}
