package inmemorygraph

import "github.com/specialistvlad/scenevars/internal/nodegraph"

type portKind int

const (
	kindInput portKind = iota
	kindOutput
	// kindSend is the inside face of a group input.
	kindSend
	// kindReturn is the inside face of a group output.
	kindReturn
)

// Port implements nodegraph.Port.
type Port struct {
	name  string
	kind  portKind
	node  *Node
	conns []*Port
}

// Name implements nodegraph.Port.
func (p *Port) Name() string { return p.name }

// Node implements nodegraph.Port.
func (p *Port) Node() nodegraph.Node { return p.node.self }

// ConnectedPorts implements nodegraph.Port.
func (p *Port) ConnectedPorts() []nodegraph.Port { return toPorts(p.conns) }

func toPorts(ports []*Port) []nodegraph.Port {
	out := make([]nodegraph.Port, len(ports))
	for i, p := range ports {
		out[i] = p
	}
	return out
}
