// internal/nodeid/ref.go
package nodeid

// Ref is the structured representation of a node or port reference.
type Ref struct {
	Node string
	// Port is empty when the reference names the node itself.
	Port string
}

// NewRef creates a reference to a node.
func NewRef(node string) Ref {
	return Ref{Node: node}
}

// NewPortRef creates a reference to a named port of a node.
func NewPortRef(node, port string) Ref {
	return Ref{Node: node, Port: port}
}

// HasPort returns true if the reference names a port.
func (r Ref) HasPort() bool {
	return r.Port != ""
}

// String serializes the Ref into its canonical representation.
func (r Ref) String() string {
	if r.Port == "" {
		return r.Node
	}
	return r.Node + "." + r.Port
}

// IsZero reports whether the reference is empty.
func (r Ref) IsZero() bool {
	return r.Node == "" && r.Port == ""
}
