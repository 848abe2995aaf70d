package scene

import (
	"github.com/specialistvlad/scenevars/internal/nodegraph"
	"github.com/specialistvlad/scenevars/internal/rules"
)

// UsageSite is one node's read or write of one or more variables. It is
// immutable once built.
type UsageSite struct {
	Node    nodegraph.Node
	Role    rules.Role
	Entries []rules.Entry
}

// NodeName returns the name of the node.
func (u *UsageSite) NodeName() string { return u.Node.Name() }

// NodeType returns the type of the node.
func (u *UsageSite) NodeType() string { return u.Node.Type() }

// IsWriter reports whether the node sets the variables it names.
func (u *UsageSite) IsWriter() bool { return u.Role == rules.RoleWriter }

// Values returns the candidate values the site gives for a variable.
func (u *UsageSite) Values(name string) ([]string, bool) {
	for _, e := range u.Entries {
		if e.Name == name {
			return e.Values, true
		}
	}
	return nil, false
}

// Names lists the variables the site touches, in extraction order.
func (u *UsageSite) Names() []string {
	out := make([]string, len(u.Entries))
	for i, e := range u.Entries {
		out[i] = e.Name
	}
	return out
}
