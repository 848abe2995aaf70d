package rules

import (
	"fmt"

	"github.com/specialistvlad/scenevars/internal/config"
)

// Table is an ordered, read-only set of rules keyed by node type. The order
// is the enumeration order used when a whole scene is scanned.
type Table struct {
	rules map[string]Rule
	order []string
}

// NewTable validates the rules and builds a table. Node types must be unique.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.rules[r.NodeType]; dup {
			return nil, fmt.Errorf("%w: duplicate rule for node type '%s'", ErrInvalidRule, r.NodeType)
		}
		t.rules[r.NodeType] = r
		t.order = append(t.order, r.NodeType)
	}
	return t, nil
}

// DefaultRules returns the built-in rules.
func DefaultRules() []Rule {
	return []Rule{
		{NodeType: "VariableSwitch", Role: RoleReader, Kind: KindParam, NameParam: "variableName", ValuesParam: "patterns"},
		{NodeType: "VariableEnabledGroup", Role: RoleReader, Kind: KindParam, NameParam: "variableName", ValuesParam: "pattern"},
		{NodeType: "VariableSet", Role: RoleWriter, Kind: KindParam, NameParam: "variableName", ValuesParam: "variableValue"},
		{NodeType: "VariableDelete", Role: RoleWriter, Kind: KindDelete, NameParam: "variableName"},
		{NodeType: "OpScript", Role: RoleReader, Kind: KindScript, ScriptParam: "script.lua"},
	}
}

// DefaultTable returns a table holding the built-in rules.
func DefaultTable() *Table {
	t, err := NewTable(DefaultRules()...)
	if err != nil {
		// The built-in rules are fixed; failing here is a programming error.
		panic(err)
	}
	return t
}

// Override returns a new table with the given specs applied on top of t. A
// disabled spec drops the rule of its type; an enabled one replaces the
// fields it sets, or adds a new rule at the end when the type is unknown.
func (t *Table) Override(specs []*config.RuleSpec) (*Table, error) {
	merged := make(map[string]Rule, len(t.rules))
	order := append([]string(nil), t.order...)
	for k, v := range t.rules {
		merged[k] = v
	}

	for _, spec := range specs {
		if spec.NodeType == "" {
			return nil, fmt.Errorf("%w: rule override without node type", ErrInvalidRule)
		}
		if !spec.Enabled {
			delete(merged, spec.NodeType)
			continue
		}

		r, exists := merged[spec.NodeType]
		if !exists {
			r = Rule{NodeType: spec.NodeType}
			if !containsType(order, spec.NodeType) {
				order = append(order, spec.NodeType)
			}
		}
		if spec.Role != "" {
			role, err := ParseRole(spec.Role)
			if err != nil {
				return nil, fmt.Errorf("rule '%s': %w", spec.NodeType, err)
			}
			r.Role = role
		}
		if spec.Kind != "" {
			kind, err := ParseKind(spec.Kind)
			if err != nil {
				return nil, fmt.Errorf("rule '%s': %w", spec.NodeType, err)
			}
			r.Kind = kind
		}
		if spec.NameParam != "" {
			r.NameParam = spec.NameParam
		}
		if spec.ValuesParam != "" {
			r.ValuesParam = spec.ValuesParam
		}
		if spec.ScriptParam != "" {
			r.ScriptParam = spec.ScriptParam
		}
		merged[spec.NodeType] = r
	}

	rules := make([]Rule, 0, len(merged))
	for _, nodeType := range order {
		if r, ok := merged[nodeType]; ok {
			rules = append(rules, r)
		}
	}
	return NewTable(rules...)
}

// Lookup returns the rule for a node type.
func (t *Table) Lookup(nodeType string) (Rule, bool) {
	r, ok := t.rules[nodeType]
	return r, ok
}

// Types lists the node types of the table in order.
func (t *Table) Types() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.order)
}

func containsType(types []string, nodeType string) bool {
	for _, t := range types {
		if t == nodeType {
			return true
		}
	}
	return false
}
