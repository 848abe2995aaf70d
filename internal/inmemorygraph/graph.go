package inmemorygraph

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/scenevars/internal/nodegraph"
)

// Graph implements nodegraph.Graph using maps and a mutex for thread-safe
// concurrent access. Nodes are kept in creation order, which is the host
// order reported by NodesByType.
type Graph struct {
	mu      sync.RWMutex
	nodes   map[string]*Node
	order   []*Node
	globals []string
	time    float64
}

// New creates a new, empty in-memory graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddNode creates a plain node. parent may be nil for a root-level node.
func (g *Graph) AddNode(name, nodeType string, parent *Group) (*Node, error) {
	n := newNode(name, nodeType, parent)
	n.self = n
	if err := g.register(n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddGroup creates a container node. parent may be nil for a root-level group.
func (g *Graph) AddGroup(name, nodeType string, parent *Group) (*Group, error) {
	grp := &Group{
		sends:   make(map[string]*Port),
		returns: make(map[string]*Port),
	}
	grp.Node = *newNode(name, nodeType, parent)
	grp.Node.self = grp
	grp.Node.group = grp
	if err := g.register(&grp.Node); err != nil {
		return nil, err
	}
	return grp, nil
}

func (g *Graph) register(n *Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n.name == "" {
		return fmt.Errorf("node name cannot be empty")
	}
	if _, exists := g.nodes[n.name]; exists {
		return fmt.Errorf("node '%s' already exists in graph", n.name)
	}
	g.nodes[n.name] = n
	g.order = append(g.order, n)
	if n.parent != nil {
		n.parent.children = append(n.parent.children, n)
	}
	return nil
}

// Connect wires src to dst. src must be an output port or a group's send
// port, dst an input port or a group's return port. dst must not already be
// connected.
func (g *Graph) Connect(src, dst *Port) error {
	if src == nil || dst == nil {
		return fmt.Errorf("cannot connect a nil port")
	}
	if src.kind != kindOutput && src.kind != kindSend {
		return fmt.Errorf("port '%s' on node '%s' cannot be a connection source", src.name, src.node.name)
	}
	if dst.kind != kindInput && dst.kind != kindReturn {
		return fmt.Errorf("port '%s' on node '%s' cannot be a connection target", dst.name, dst.node.name)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(dst.conns) > 0 {
		return fmt.Errorf("port '%s' on node '%s' is already connected", dst.name, dst.node.name)
	}
	dst.conns = []*Port{src}
	src.conns = append(src.conns, dst)
	return nil
}

// SetGlobals declares the root-level variable names.
func (g *Graph) SetGlobals(names ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.globals = append([]string(nil), names...)
}

// SetTime sets the evaluation time.
func (g *Graph) SetTime(t float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.time = t
}

// Lookup returns the concrete node with the given name.
func (g *Graph) Lookup(name string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[name]
	return n, ok
}

// Node implements nodegraph.Graph.
func (g *Graph) Node(name string) (nodegraph.Node, bool) {
	n, ok := g.Lookup(name)
	if !ok {
		return nil, false
	}
	return n.self, true
}

// NodesByType implements nodegraph.Graph.
func (g *Graph) NodesByType(nodeType string) []nodegraph.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []nodegraph.Node
	for _, n := range g.order {
		if n.nodeType == nodeType {
			out = append(out, n.self)
		}
	}
	return out
}

// GlobalVariables implements nodegraph.Graph.
func (g *Graph) GlobalVariables() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.globals...)
}

// CurrentTime implements nodegraph.Graph.
func (g *Graph) CurrentTime() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.time
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}
