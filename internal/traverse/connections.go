package traverse

import "github.com/specialistvlad/scenevars/internal/nodegraph"

// UpstreamPorts returns the output ports wired into the inputs of n, in input
// order. Only the first connection of each input is considered. When logical
// is set, ports whose node has no graph state are left out. A port feeding
// several inputs is reported once.
func UpstreamPorts(n nodegraph.Node, logical bool) []nodegraph.Port {
	var out []nodegraph.Port
	seen := make(map[portKey]struct{})

	for _, in := range n.InputPorts() {
		conns := in.ConnectedPorts()
		if len(conns) == 0 {
			continue
		}
		up := conns[0]
		if logical && !up.Node().HasGraphState() {
			continue
		}
		key := keyOf(up)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, up)
	}
	return out
}

// portKey identifies a port by owner and name. Hosts may hand out fresh
// wrapper values for the same port, so interface equality is not enough.
type portKey struct {
	node string
	port string
}

func keyOf(p nodegraph.Port) portKey {
	return portKey{node: p.Node().Name(), port: p.Name()}
}
