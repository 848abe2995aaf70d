package traverse

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/scenevars/internal/inmemorygraph"
	"github.com/specialistvlad/scenevars/internal/nodegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture wraps an in-memory graph with terse helpers.
type fixture struct {
	t *testing.T
	g *inmemorygraph.Graph
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, g: inmemorygraph.New()}
}

func (f *fixture) node(name string, parent *inmemorygraph.Group) *inmemorygraph.Node {
	f.t.Helper()
	n, err := f.g.AddNode(name, "Dot", parent)
	require.NoError(f.t, err)
	n.AddOutput("out")
	return n
}

func (f *fixture) group(name, nodeType string, parent *inmemorygraph.Group) *inmemorygraph.Group {
	f.t.Helper()
	g, err := f.g.AddGroup(name, nodeType, parent)
	require.NoError(f.t, err)
	return g
}

// link feeds a new input of dst from the "out" port of src.
func (f *fixture) link(src, dst *inmemorygraph.Node, input string) {
	f.t.Helper()
	out, ok := src.Output("out")
	require.True(f.t, ok)
	require.NoError(f.t, f.g.Connect(out, dst.AddInput(input)))
}

func names(nodes []nodegraph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func visit(t *testing.T, origin Origin, opts Options) []string {
	t.Helper()
	nodes, err := VisitUpstream(context.Background(), origin, opts)
	require.NoError(t, err)
	return names(nodes)
}

func TestVisitUpstream_Chain(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.node("A", nil), f.node("B", nil), f.node("C", nil)
	f.link(a, b, "in")
	f.link(b, c, "in")

	assert.Equal(t, []string{"C", "B", "A"}, visit(t, FromNode(c), Options{}))
	assert.Equal(t, []string{"A"}, visit(t, FromNode(a), Options{}))
}

func TestVisitUpstream_DiamondVisitsSharedNodeOnce(t *testing.T) {
	f := newFixture(t)
	a, b, c, d := f.node("A", nil), f.node("B", nil), f.node("C", nil), f.node("D", nil)
	f.link(a, b, "in")
	f.link(a, c, "in")
	f.link(b, d, "i0")
	f.link(c, d, "i1")

	got := visit(t, FromNode(d), Options{})
	if diff := cmp.Diff([]string{"D", "B", "A", "C"}, got); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestVisitUpstream_CycleTerminates(t *testing.T) {
	f := newFixture(t)
	a, b := f.node("A", nil), f.node("B", nil)
	f.link(a, b, "in")
	f.link(b, a, "in")

	assert.Equal(t, []string{"B", "A"}, visit(t, FromNode(b), Options{}))
}

func TestVisitUpstream_LogicalSkipsInactiveNodes(t *testing.T) {
	f := newFixture(t)
	a, off, out := f.node("A", nil), f.node("Off", nil), f.node("Out", nil)
	off.SetGraphState(false)
	f.link(a, off, "in")
	f.link(off, out, "i0")
	f.link(a, out, "i1")

	assert.Equal(t, []string{"Out", "Off", "A"}, visit(t, FromNode(out), Options{Logical: false}))
	assert.Equal(t, []string{"Out", "A"}, visit(t, FromNode(out), Options{Logical: true}))
}

// lightingRig builds Set -> G(in) -> Script -> G(out) -> Render.
func lightingRig(t *testing.T, groupType string) (*fixture, *inmemorygraph.Group, *inmemorygraph.Node) {
	f := newFixture(t)
	set := f.node("Set", nil)
	grp := f.group("G", groupType, nil)
	gIn := grp.AddInput("in")
	grp.AddOutput("out")
	script := f.node("Script", grp)
	render := f.node("Render", nil)

	out, _ := set.Output("out")
	require.NoError(t, f.g.Connect(out, gIn))
	send, _ := grp.Send("in")
	require.NoError(t, f.g.Connect(send, script.AddInput("in")))
	scriptOut, _ := script.Output("out")
	ret, _ := grp.Return("out")
	require.NoError(t, f.g.Connect(scriptOut, ret))
	gOut, _ := grp.Output("out")
	require.NoError(t, f.g.Connect(gOut, render.AddInput("in")))
	return f, grp, render
}

func TestVisitUpstream_CrossesContainers(t *testing.T) {
	_, _, render := lightingRig(t, "Group")

	assert.Equal(t, []string{"Render", "Script", "Set"}, visit(t, FromNode(render), Options{}))
	assert.Equal(t, []string{"Render", "Script", "G", "Set"}, visit(t, FromNode(render), Options{IncludeGroups: true}))
}

func TestVisitUpstream_OpaqueContainerIsALeafBoundary(t *testing.T) {
	_, _, render := lightingRig(t, "GafferThree")

	got := visit(t, FromNode(render), Options{IncludeGroups: true, OpaqueTypes: []string{"GafferThree"}})
	assert.Equal(t, []string{"Render", "G", "Set"}, got)
}

func TestVisitUpstream_BareContainerStartDescends(t *testing.T) {
	_, grp, _ := lightingRig(t, "Group")

	assert.Equal(t, []string{"Script", "G", "Set"}, visit(t, FromNode(grp), Options{IncludeGroups: true}))
}

func TestVisitUpstream_ContainerWithoutInputsIsRecordedOnEntry(t *testing.T) {
	f := newFixture(t)
	grp := f.group("G", "Group", nil)
	grp.AddOutput("out")
	child := f.node("Child", grp)
	childOut, _ := child.Output("out")
	ret, _ := grp.Return("out")
	require.NoError(t, f.g.Connect(childOut, ret))
	render := f.node("Render", nil)
	gOut, _ := grp.Output("out")
	require.NoError(t, f.g.Connect(gOut, render.AddInput("in")))

	assert.Equal(t, []string{"Render", "G", "Child"}, visit(t, FromNode(render), Options{IncludeGroups: true}))
	assert.Equal(t, []string{"Render", "Child"}, visit(t, FromNode(render), Options{}))
}

func TestVisitUpstream_NestedContainers(t *testing.T) {
	f := newFixture(t)
	outer := f.group("Outer", "Group", nil)
	outer.AddOutput("out")
	inner := f.group("Inner", "Group", outer)
	inner.AddOutput("out")
	leaf := f.node("Leaf", inner)

	leafOut, _ := leaf.Output("out")
	innerRet, _ := inner.Return("out")
	require.NoError(t, f.g.Connect(leafOut, innerRet))
	innerOut, _ := inner.Output("out")
	outerRet, _ := outer.Return("out")
	require.NoError(t, f.g.Connect(innerOut, outerRet))

	assert.Equal(t, []string{"Leaf"}, visit(t, FromNode(outer), Options{}))
	assert.Equal(t, []string{"Outer", "Inner", "Leaf"}, visit(t, FromNode(outer), Options{IncludeGroups: true}))
}

func TestVisitUpstream_StartFromPortSelectsOutput(t *testing.T) {
	f := newFixture(t)
	grp := f.group("G", "Group", nil)
	grp.AddOutput("a")
	grp.AddOutput("b")
	na, nb := f.node("NA", grp), f.node("NB", grp)
	for _, pair := range []struct {
		n    *inmemorygraph.Node
		port string
	}{{na, "a"}, {nb, "b"}} {
		out, _ := pair.n.Output("out")
		ret, _ := grp.Return(pair.port)
		require.NoError(t, f.g.Connect(out, ret))
	}

	b, _ := grp.Output("b")
	assert.Equal(t, []string{"NB"}, visit(t, FromPort(b), Options{}))
	assert.Equal(t, []string{"NA"}, visit(t, FromNode(grp), Options{}))
}

func TestVisitUpstream_UnconnectedReturnPortEndsBranch(t *testing.T) {
	f := newFixture(t)
	grp := f.group("G", "Group", nil)
	grp.AddInput("in")
	gOut := grp.AddOutput("out")
	render := f.node("Render", nil)
	require.NoError(t, f.g.Connect(gOut, render.AddInput("in")))

	assert.Equal(t, []string{"Render"}, visit(t, FromNode(render), Options{}))
}

func TestVisitUpstream_IntegrityErrors(t *testing.T) {
	f := newFixture(t)
	empty := f.group("Empty", "Group", nil)
	other := f.node("Other", nil)
	stray, _ := other.Output("out")

	_, err := VisitUpstream(context.Background(), FromNode(empty), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, nodegraph.ErrGraphIntegrity))
	var ie *nodegraph.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "Empty", ie.Node)

	_, err = VisitUpstream(context.Background(), Origin{Node: empty, Port: stray}, Options{})
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "out", ie.Field)
}

func TestVisitUpstream_NoOrigin(t *testing.T) {
	_, err := VisitUpstream(context.Background(), Origin{}, Options{})
	assert.ErrorIs(t, err, ErrNoOrigin)
	assert.True(t, FromPort(nil).IsZero())
}

func TestUpstreamPorts(t *testing.T) {
	f := newFixture(t)
	a, b := f.node("A", nil), f.node("B", nil)
	f.link(a, b, "i0")
	f.link(a, b, "i1")
	b.AddInput("i2")

	ports := UpstreamPorts(b, false)
	require.Len(t, ports, 1, "a port wired twice is reported once")
	assert.Equal(t, "A", ports[0].Node().Name())

	a.SetGraphState(false)
	assert.Empty(t, UpstreamPorts(b, true))
	assert.Empty(t, UpstreamPorts(a, false))
}
