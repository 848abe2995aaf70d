// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// nameRegex is the accepted shape of a node or port name.
var nameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse creates a Ref by parsing its canonical string representation. The
// port part is everything after the first dot.
func Parse(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}, fmt.Errorf("reference cannot be empty")
	}

	node, port, hasPort := strings.Cut(raw, ".")
	if !nameRegex.MatchString(node) {
		return Ref{}, fmt.Errorf("invalid node name: %q", node)
	}
	if !hasPort {
		return NewRef(node), nil
	}
	if !nameRegex.MatchString(port) {
		return Ref{}, fmt.Errorf("invalid port name in %q: %q", raw, port)
	}
	return NewPortRef(node, port), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// fixed fixtures.
func MustParse(raw string) Ref {
	ref, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return ref
}
