package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRule is wrapped by every rule table validation error.
var ErrInvalidRule = errors.New("invalid rule")

// Role tells whether a node reads or writes the variables it names.
type Role int

const (
	RoleReader Role = iota
	RoleWriter
)

func (r Role) String() string {
	switch r {
	case RoleReader:
		return "reader"
	case RoleWriter:
		return "writer"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole accepts "reader"/"writer" and the aliases "getter"/"setter".
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reader", "getter":
		return RoleReader, nil
	case "writer", "setter":
		return RoleWriter, nil
	default:
		return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidRule, s)
	}
}

// Kind is the extraction strategy of a rule.
type Kind int

const (
	// KindParam reads the variable name from NameParam and its values from
	// ValuesParam.
	KindParam Kind = iota
	// KindDelete reads the variable name from NameParam; the only value is
	// DeletedValue.
	KindDelete
	// KindScript scans the script held by ScriptParam for variable lookups;
	// every name found gets the single value AnyValue.
	KindScript
)

// Fixed values produced by some strategies.
const (
	DeletedValue = "DELETED"
	AnyValue     = "*"
)

func (k Kind) String() string {
	switch k {
	case KindParam:
		return "param"
	case KindDelete:
		return "delete"
	case KindScript:
		return "script"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts "param", "delete" and "script".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "param":
		return KindParam, nil
	case "delete":
		return KindDelete, nil
	case "script":
		return KindScript, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, s)
	}
}

// Rule describes how to extract variable usage from nodes of one type.
type Rule struct {
	NodeType    string
	Role        Role
	Kind        Kind
	NameParam   string
	ValuesParam string
	ScriptParam string
}

// Validate checks that the rule names every parameter its kind reads.
func (r Rule) Validate() error {
	if r.NodeType == "" {
		return fmt.Errorf("%w: node type is empty", ErrInvalidRule)
	}
	if r.Role != RoleReader && r.Role != RoleWriter {
		return fmt.Errorf("%w: %s: unknown role %d", ErrInvalidRule, r.NodeType, int(r.Role))
	}
	switch r.Kind {
	case KindParam:
		if r.NameParam == "" || r.ValuesParam == "" {
			return fmt.Errorf("%w: %s: param rules need name_param and values_param", ErrInvalidRule, r.NodeType)
		}
	case KindDelete:
		if r.NameParam == "" {
			return fmt.Errorf("%w: %s: delete rules need name_param", ErrInvalidRule, r.NodeType)
		}
	case KindScript:
		if r.ScriptParam == "" {
			return fmt.Errorf("%w: %s: script rules need script_param", ErrInvalidRule, r.NodeType)
		}
	default:
		return fmt.Errorf("%w: %s: unknown kind %d", ErrInvalidRule, r.NodeType, int(r.Kind))
	}
	return nil
}

// Entry is one variable touched by a node, with its candidate values in
// parameter order.
type Entry struct {
	Name   string
	Values []string
}

// Usage is the classification of one relevant node.
type Usage struct {
	Role    Role
	Entries []Entry
}

var errUnknownValue = errors.New("value is not known")
