package scene

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/scenevars/internal/nodegraph"
	"github.com/specialistvlad/scenevars/internal/nodeid"
	"github.com/specialistvlad/scenevars/internal/rules"
	"github.com/specialistvlad/scenevars/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upstreamFrom(start string) Settings {
	s := DefaultSettings()
	s.Mode = ModeUpstream
	s.Start = nodeid.MustParse(start)
	return s
}

func variableNames(vars []*Variable) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Name()
	}
	return out
}

func siteNodes(sites []*UsageSite) []string {
	out := make([]string, len(sites))
	for i, s := range sites {
		out[i] = s.NodeName()
	}
	return out
}

// lightingGraph: SetLighting (global "lighting"=day) -> Inactive -> Render.
// Inactive has no graph state so only the physical walk reaches the writer.
func lightingGraph(t *testing.T) *testutil.GraphBuilder {
	b := testutil.NewGraph(t)
	b.G.SetGlobals("lighting")
	set := b.Set("SetLighting", "lighting", "day", nil)
	inactive := b.Node("Inactive", "Dot", nil)
	inactive.SetGraphState(false)
	render := b.Node("Render", "Merge", nil)
	b.Chain(set, inactive, render)
	return b
}

func TestBuild_GlobalWriterReachedPhysically(t *testing.T) {
	b := lightingGraph(t)

	sc, err := Build(context.Background(), b.G, upstreamFrom("Render"))
	require.NoError(t, err)

	vars := sc.Variables()
	require.Len(t, vars, 1)
	v := vars[0]
	assert.Equal(t, "lighting", v.Name())
	assert.Equal(t, ScopeGlobal, v.Scope())
	assert.Equal(t, []string{"day"}, v.Values())
	locked, ok := v.Locked()
	require.True(t, ok)
	assert.Equal(t, "day", locked)

	logical := upstreamFrom("Render")
	logical.Mode = ModeLogicalUpstream
	sc, err = Build(context.Background(), b.G, logical)
	require.NoError(t, err)
	assert.Empty(t, sc.Variables(), "the logical walk stops at the inactive node")
}

func TestBuild_ExcludedContainerIsScannedInAllSceneMode(t *testing.T) {
	b := testutil.NewGraph(t)
	gaffer := b.Group("Gaffer", "GafferThree", nil)
	set := b.Set("SetShot", "shot", "sh010", gaffer)
	b.Exit(set, gaffer)
	render := b.Node("Render", "Merge", nil)
	b.Leave(gaffer, render, "in")

	all := DefaultSettings()
	all.Mode = ModeAllScene
	sc, err := Build(context.Background(), b.G, all)
	require.NoError(t, err)
	assert.Equal(t, []string{"shot"}, variableNames(sc.Variables()))

	sc, err = Build(context.Background(), b.G, upstreamFrom("Render"))
	require.NoError(t, err)
	assert.Empty(t, sc.Variables(), "the walk does not enter an opaque container")
}

func TestBuild_LastWriterInCollectionOrderWins(t *testing.T) {
	b := testutil.NewGraph(t)
	n2 := b.Set("N2", "quality", "high", nil)
	n1 := b.Set("N1", "quality", "low", nil)
	render := b.Node("Render", "Merge", nil)
	b.Chain(n2, n1, render)

	sc, err := Build(context.Background(), b.G, upstreamFrom("Render"))
	require.NoError(t, err)

	require.Len(t, sc.Variables(), 1)
	v := sc.Variables()[0]
	assert.Equal(t, []string{"N1", "N2"}, siteNodes(v.UsageSites()))
	locked, _ := v.Locked()
	assert.Equal(t, "high", locked)
	assert.Equal(t, []string{"low", "high"}, v.Values())
}

func TestBuild_AggregatesReadersAndWriters(t *testing.T) {
	b := testutil.NewGraph(t)
	b.G.SetGlobals("shot")
	set := b.Set("SetShot", "shot", "sh020", nil)
	script := b.Script("Script", `Interface.GetGraphStateVariable("pass") Interface.GetGraphStateVariable("shot")`, nil)
	sw := b.Switch("Switch", "shot", nil, "sh010", "sh020", "sh030")
	del := b.Delete("Delete", "pass", nil)
	b.Chain(set, script, sw, del)

	sc, err := Build(context.Background(), b.G, upstreamFrom("Delete"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Delete", "Switch", "Script", "SetShot"}, siteNodes(sc.UsageSites()))
	assert.Equal(t, []string{"pass", "shot"}, variableNames(sc.Variables()))

	pass, ok := sc.Variable(context.Background(), "pass")
	require.True(t, ok)
	assert.Equal(t, ScopeLocal, pass.Scope())
	assert.Equal(t, []string{rules.DeletedValue, rules.AnyValue}, pass.Values())
	locked, _ := pass.Locked()
	assert.Equal(t, rules.DeletedValue, locked)

	shot, _ := sc.Variable(context.Background(), "shot")
	if diff := cmp.Diff([]string{"sh010", "sh020", "sh030", "*"}, shot.Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Switch", "Script", "SetShot"}, siteNodes(shot.UsageSites()))
	assert.True(t, shot.IsGlobal())
}

func TestBuild_ReaderOnlyVariableIsNotLocked(t *testing.T) {
	b := testutil.NewGraph(t)
	b.Switch("Switch", "pass", nil, "beauty")

	sc, err := Build(context.Background(), b.G, upstreamFrom("Switch"))
	require.NoError(t, err)
	require.Len(t, sc.Variables(), 1)
	_, ok := sc.Variables()[0].Locked()
	assert.False(t, ok)
}

func TestBuild_ExcludedNamesNeverAppear(t *testing.T) {
	b := testutil.NewGraph(t)
	prev := b.Set("S0", "gafferState", "x", nil)
	for i := 1; i <= 10; i++ {
		n := b.Set(fmt.Sprintf("S%d", i), "gafferState", "y", nil)
		b.Chain(prev, n)
		prev = n
	}
	last := b.Set("Keep", "shot", "sh010", nil)
	b.Chain(prev, last)

	sc, err := Build(context.Background(), b.G, upstreamFrom("Keep"))
	require.NoError(t, err)
	assert.Equal(t, []string{"shot"}, variableNames(sc.Variables()))
	_, ok := sc.Variable(context.Background(), "gafferState")
	assert.False(t, ok)
	assert.Len(t, sc.UsageSites(), 12, "excluded names still produce usage sites")
}

func TestBuild_DropsBypassedNodes(t *testing.T) {
	b := testutil.NewGraph(t)
	set := b.Set("Set", "shot", "sh010", nil)
	set.SetBypassed(true)
	render := b.Node("Render", "Merge", nil)
	b.Chain(set, render)

	for _, mode := range []Mode{ModeAllScene, ModeUpstream} {
		s := upstreamFrom("Render")
		s.Mode = mode
		sc, err := Build(context.Background(), b.G, s)
		require.NoError(t, err)
		assert.Empty(t, sc.Variables(), mode)
	}
}

func TestBuild_AllSceneUsesTableThenHostOrder(t *testing.T) {
	b := testutil.NewGraph(t)
	b.Set("SetB", "b", "1", nil)
	b.Switch("Switch", "a", nil, "x")
	b.Set("SetA", "a", "2", nil)

	s := DefaultSettings()
	s.Mode = ModeAllScene
	sc, err := Build(context.Background(), b.G, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Switch", "SetB", "SetA"}, siteNodes(sc.UsageSites()))
	assert.Equal(t, []string{"a", "b"}, variableNames(sc.Variables()))
}

func TestBuild_IncludeGroupsClassifiesContainerTypes(t *testing.T) {
	b := testutil.NewGraph(t)
	grp := b.Group("LiveSet", "LiveGroupSet", nil)
	inner := b.Node("Inner", "Dot", grp)
	b.Inside(grp, inner, "in")
	b.Exit(inner, grp)
	src := b.Node("Src", "Dot", nil)
	b.Enter(src, grp)
	render := b.Node("Render", "Merge", nil)
	b.Leave(grp, render, "in")
	grp.SetParam("variableName", ctyString("shot"))
	grp.SetParam("variableValue", ctyString("sh050"))

	table, err := rules.NewTable(rules.Rule{NodeType: "LiveGroupSet", Role: rules.RoleWriter, Kind: rules.KindParam, NameParam: "variableName", ValuesParam: "variableValue"})
	require.NoError(t, err)

	s := upstreamFrom("Render")
	s.Rules = table
	sc, err := Build(context.Background(), b.G, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"shot"}, variableNames(sc.Variables()))

	s.IncludeGroups = false
	sc, err = Build(context.Background(), b.G, s)
	require.NoError(t, err)
	assert.Empty(t, sc.Variables())
}

func TestBuild_IsDeterministic(t *testing.T) {
	b := testutil.NewGraph(t)
	b.G.SetGlobals("shot")
	a := b.Set("A", "shot", "sh010", nil)
	c := b.Switch("C", "shot", nil, "sh010", "sh020")
	d := b.Set("D", "pass", "beauty", nil)
	m := b.Node("M", "Merge", nil)
	b.Link(a, c, "in")
	b.Link(c, m, "i0")
	b.Link(d, m, "i1")
	b.Link(a, d, "in")

	type snapshot struct {
		Name   string
		Scope  Scope
		Values []string
		Locked string
	}
	take := func() []snapshot {
		sc, err := Build(context.Background(), b.G, upstreamFrom("M"))
		require.NoError(t, err)
		var out []snapshot
		for _, v := range sc.Variables() {
			l, _ := v.Locked()
			out = append(out, snapshot{v.Name(), v.Scope(), v.Values(), l})
		}
		return out
	}

	first := take()
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, take()); diff != "" {
			t.Fatalf("build %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestBuild_StartFromOutputPort(t *testing.T) {
	b := testutil.NewGraph(t)
	grp := b.Group("G", "Group", nil)
	grp.AddOutput("alt")
	setMain := b.Set("SetMain", "shot", "main", grp)
	setAlt := b.Set("SetAlt", "shot", "alt", grp)
	b.Exit(setMain, grp)
	out, _ := setAlt.Output("out")
	ret, _ := grp.Return("alt")
	require.NoError(t, b.G.Connect(out, ret))

	sc, err := Build(context.Background(), b.G, upstreamFrom("G.alt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"SetAlt"}, siteNodes(sc.UsageSites()))

	sc, err = Build(context.Background(), b.G, upstreamFrom("G"))
	require.NoError(t, err)
	assert.Equal(t, []string{"SetMain"}, siteNodes(sc.UsageSites()))
}

func TestBuild_ConfigurationErrors(t *testing.T) {
	b := testutil.NewGraph(t)
	b.Node("Render", "Merge", nil)
	empty, err := rules.NewTable()
	require.NoError(t, err)

	testCases := []struct {
		name      string
		settings  Settings
		wantField string
	}{
		{"unknown mode", Settings{Mode: "sideways"}, "Mode"},
		{"upstream without start", Settings{Mode: ModeUpstream}, "Start"},
		{"missing start node", upstreamFrom("Nope"), "Start"},
		{"missing start port", upstreamFrom("Render.nope"), "Start"},
		{"empty exclusion", Settings{Mode: ModeAllScene, Excluded: []string{""}}, "Excluded"},
		{"empty rule table", Settings{Mode: ModeAllScene, Rules: empty}, "Rules"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(context.Background(), b.G, tc.settings)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.wantField, ce.Field)
		})
	}

	_, err = Build(context.Background(), nil, DefaultSettings())
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestBuild_GraphIntegrityErrors(t *testing.T) {
	b := testutil.NewGraph(t)
	broken := b.Node("Broken", "VariableSet", nil)
	render := b.Node("Render", "Merge", nil)
	b.Chain(broken, render)

	_, err := Build(context.Background(), b.G, upstreamFrom("Render"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphIntegrity)
	var ie *nodegraph.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "Broken", ie.Node)
	assert.Equal(t, "variableName", ie.Field)
}

func TestRebuild_FailureKeepsPreviousScene(t *testing.T) {
	b := testutil.NewGraph(t)
	set := b.Set("Set", "shot", "sh010", nil)
	render := b.Node("Render", "Merge", nil)
	b.Chain(set, render)

	sc, err := Build(context.Background(), b.G, upstreamFrom("Render"))
	require.NoError(t, err)
	id := sc.ID()
	before := sc.Variables()

	require.Error(t, sc.Rebuild(context.Background(), upstreamFrom("Missing")))
	assert.Equal(t, id, sc.ID())
	assert.Equal(t, before, sc.Variables())

	require.NoError(t, sc.Rebuild(context.Background(), upstreamFrom("Render")))
	assert.NotEqual(t, id, sc.ID(), "a successful rebuild gets a new identity")
	require.Len(t, sc.Variables(), 1)
	assert.NotSame(t, before[0], sc.Variables()[0], "variables are rebuilt, not reused")
}

func TestScene_VariableIdentity(t *testing.T) {
	b := testutil.NewGraph(t)
	set := b.Set("Set", "shot", "sh010", nil)
	sw := b.Switch("Switch", "shot", nil, "sh010")
	b.Chain(set, sw)

	sc, err := Build(context.Background(), b.G, upstreamFrom("Switch"))
	require.NoError(t, err)

	v1, ok := sc.Variable(context.Background(), "shot")
	require.True(t, ok)
	v2, _ := sc.Variable(context.Background(), "shot")
	assert.Same(t, v1, v2)
	assert.Same(t, v1, sc.Registry().Get("shot"))
	assert.Same(t, v1, sc.Variables()[0])
	assert.Len(t, v1.UsageSites(), 2)
}

func TestScene_LookupMissIsLogged(t *testing.T) {
	b := testutil.NewGraph(t)
	b.Set("Set", "shot", "sh010", nil)
	sc, err := Build(context.Background(), b.G, upstreamFrom("Set"))
	require.NoError(t, err)

	ctx, logs := testutil.DebugContext()
	v, ok := sc.Variable(ctx, "nope")
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Contains(t, logs.String(), "variable=nope")
}
