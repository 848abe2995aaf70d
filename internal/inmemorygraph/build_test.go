package inmemorygraph

import (
	"context"
	"testing"

	"github.com/specialistvlad/scenevars/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func sceneModel() *config.SceneModel {
	return &config.SceneModel{
		Project: &config.Project{Globals: []string{"shot"}, Time: 3},
		Nodes: []*config.NodeSpec{
			{Type: "VariableSet", Name: "Set", GraphState: true, Params: map[string]cty.Value{
				"variableName":  cty.StringVal("shot"),
				"variableValue": cty.StringVal("sh010"),
			}},
			{
				Type: "Group", Name: "G", Group: true, GraphState: true,
				Inputs:  []*config.PortSpec{{Name: "in", From: "Set"}},
				Outputs: []*config.PortSpec{{Name: "out", From: "Script.out"}},
				Children: []*config.NodeSpec{
					{Type: "OpScript", Name: "Script", GraphState: true,
						Inputs: []*config.PortSpec{{Name: "i0", From: "G.in"}},
						Params: map[string]cty.Value{
							"script": cty.ObjectVal(map[string]cty.Value{"lua": cty.StringVal("-- lua")}),
						}},
				},
			},
			{Type: "Merge", Name: "Render", GraphState: true, Bypassed: true,
				Inputs: []*config.PortSpec{{Name: "i0", From: "G"}, {Name: "i1"}}},
		},
	}
}

func TestFromModel(t *testing.T) {
	g, err := FromModel(context.Background(), sceneModel())
	require.NoError(t, err)

	assert.Equal(t, []string{"shot"}, g.GlobalVariables())
	assert.Equal(t, float64(3), g.CurrentTime())
	assert.Equal(t, 4, g.Len())

	render, ok := g.Lookup("Render")
	require.True(t, ok)
	assert.True(t, render.IsBypassed())
	require.Len(t, render.InputPorts(), 2)
	assert.Empty(t, render.InputPorts()[1].ConnectedPorts())

	// Render.i0 <- G.out (node-only ref takes the first output).
	up := render.InputPorts()[0].ConnectedPorts()
	require.Len(t, up, 1)
	assert.Equal(t, "G", up[0].Node().Name())
	assert.Equal(t, "out", up[0].Name())

	// G.out's return port <- Script.out
	gNode, _ := g.Lookup("G")
	ret, ok := gNode.group.Return("out")
	require.True(t, ok)
	require.Len(t, ret.conns, 1)
	assert.Equal(t, "Script", ret.conns[0].Node().Name())

	// Script.i0 <- G's inside "in" port.
	script, _ := g.Lookup("Script")
	in, _ := script.Input("i0")
	require.Len(t, in.conns, 1)
	assert.Equal(t, kindSend, in.conns[0].kind)
	assert.Equal(t, "in", in.conns[0].Name())

	// Nested object params are flattened into dotted paths.
	p, ok := script.Parameter("script.lua")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("-- lua"), p.Value(0))

	// Plain nodes without declared outputs get the default one.
	set, _ := g.Lookup("Set")
	_, ok = set.Output(DefaultOutput)
	assert.True(t, ok)
	_, ok = gNode.Output(DefaultOutput)
	assert.True(t, ok, "declared output")
}

func TestFromModel_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		nodes   []*config.NodeSpec
		wantErr string
	}{
		{
			name:    "duplicate name",
			nodes:   []*config.NodeSpec{{Type: "Dot", Name: "A"}, {Type: "Dot", Name: "A"}},
			wantErr: "already exists",
		},
		{
			name:    "unknown node",
			nodes:   []*config.NodeSpec{{Type: "Dot", Name: "A", Inputs: []*config.PortSpec{{Name: "in", From: "Nope"}}}},
			wantErr: "does not exist",
		},
		{
			name: "unknown port",
			nodes: []*config.NodeSpec{
				{Type: "Dot", Name: "A"},
				{Type: "Dot", Name: "B", Inputs: []*config.PortSpec{{Name: "in", From: "A.nope"}}},
			},
			wantErr: "no output port 'nope'",
		},
		{
			name:    "malformed reference",
			nodes:   []*config.NodeSpec{{Type: "Dot", Name: "A", Inputs: []*config.PortSpec{{Name: "in", From: "1bad"}}}},
			wantErr: "invalid node name",
		},
		{
			name: "group without outputs cannot be read by name",
			nodes: []*config.NodeSpec{
				{Type: "Group", Name: "G", Group: true},
				{Type: "Dot", Name: "B", Inputs: []*config.PortSpec{{Name: "in", From: "G"}}},
			},
			wantErr: "has no output port",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromModel(context.Background(), &config.SceneModel{Nodes: tc.nodes})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestFromModel_GroupPassThrough(t *testing.T) {
	model := &config.SceneModel{Nodes: []*config.NodeSpec{
		{Type: "Dot", Name: "A"},
		{
			Type: "Group", Name: "G", Group: true,
			Inputs:  []*config.PortSpec{{Name: "in", From: "A"}},
			Outputs: []*config.PortSpec{{Name: "out", From: "G.in"}},
		},
	}}

	g, err := FromModel(context.Background(), model)
	require.NoError(t, err)
	gNode, _ := g.Lookup("G")
	ret, _ := gNode.group.Return("out")
	require.Len(t, ret.conns, 1)
	assert.Equal(t, kindSend, ret.conns[0].kind)
}

func TestFromModel_NilModel(t *testing.T) {
	_, err := FromModel(context.Background(), nil)
	require.Error(t, err)
}
