package config

import (
	"context"
	"strings"

	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Project user parameter keys. Each setting accepts a short and a prefixed
// key; the short one wins when both are present.
const (
	KeyConfigNode      = "gsvdb_config_node"
	KeyExcluded        = "excluded_gsv_names"
	KeyExcludedAlt     = "gsvdb_excluded_gsv_names"
	KeyOpaqueTypes     = "excluded_as_grpnode_type"
	KeyOpaqueTypesAlt  = "gsvdb_excluded_as_grpnode_type"
	userParamGroupName = "user"
)

// Built-in scene settings used when the scene carries none.
var (
	DefaultExcluded    = []string{"gafferState"}
	DefaultOpaqueTypes = []string{"GafferThree"}
)

// ProjectSettings are the scene settings read from user parameters.
type ProjectSettings struct {
	Excluded    []string
	OpaqueTypes []string
	// Source names where the settings came from: "project", a node name or
	// "defaults".
	Source string
}

// ResolveProjectSettings reads the scene settings from the project user
// parameters. When gsvdb_config_node names a node, that node's user
// parameters are used instead; a missing node is logged and ignored. Settings
// that are not found fall back to the defaults.
func ResolveProjectSettings(ctx context.Context, m *SceneModel) ProjectSettings {
	logger := ctxlog.FromContext(ctx)
	defaults := ProjectSettings{
		Excluded:    append([]string(nil), DefaultExcluded...),
		OpaqueTypes: append([]string(nil), DefaultOpaqueTypes...),
		Source:      "defaults",
	}
	if m == nil || m.Project == nil {
		return defaults
	}

	params, source := m.Project.User, "project"
	if name, ok := stringParam(params, KeyConfigNode); ok {
		node, found := m.FindNode(name)
		if !found {
			logger.Error("Config node given by project user parameters does not exist.", "param", KeyConfigNode, "node", name)
			return defaults
		}
		params, source = userParams(node), node.Name
	}

	out, set := defaults, false
	if v, ok := firstParam(params, KeyExcluded, KeyExcludedAlt); ok {
		out.Excluded, set = SplitList(v), true
	}
	if v, ok := firstParam(params, KeyOpaqueTypes, KeyOpaqueTypesAlt); ok {
		out.OpaqueTypes, set = SplitList(v), true
	}
	if set {
		out.Source = source
	}
	logger.Debug("Project settings resolved.", "source", out.Source, "excluded", out.Excluded, "opaque_types", out.OpaqueTypes)
	return out
}

// SplitList parses a comma separated list, ignoring spaces and empty items.
func SplitList(s string) []string {
	s = strings.ReplaceAll(s, " ", "")
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func userParams(n *NodeSpec) map[string]cty.Value {
	v, ok := n.Params[userParamGroupName]
	if !ok || v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil
	}
	return v.AsValueMap()
}

func firstParam(params map[string]cty.Value, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := stringParam(params, k); ok {
			return s, true
		}
	}
	return "", false
}

func stringParam(params map[string]cty.Value, key string) (string, bool) {
	v, ok := params[key]
	if !ok || v.IsNull() || !v.IsKnown() {
		return "", false
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", false
	}
	return sv.AsString(), true
}
