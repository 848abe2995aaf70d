package traverse

import (
	"context"
	"errors"

	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/specialistvlad/scenevars/internal/nodegraph"
)

// ErrNoOrigin is returned when the walk is asked to start from nothing.
var ErrNoOrigin = errors.New("traversal origin is not set")

// Origin is where a walk starts: a node, or a specific port of a node.
type Origin struct {
	Node nodegraph.Node
	Port nodegraph.Port
}

// FromNode starts a walk at a node.
func FromNode(n nodegraph.Node) Origin { return Origin{Node: n} }

// FromPort starts a walk at a port. For a container this selects which
// output to descend through.
func FromPort(p nodegraph.Port) Origin {
	if p == nil {
		return Origin{}
	}
	return Origin{Node: p.Node(), Port: p}
}

// IsZero reports whether the origin names nothing.
func (o Origin) IsZero() bool { return o.Node == nil }

// Options tune a walk.
type Options struct {
	// Logical only follows connections whose upstream node has graph state.
	Logical bool
	// IncludeGroups emits the containers crossed on the way.
	IncludeGroups bool
	// OpaqueTypes lists container types that are not entered.
	OpaqueTypes []string
}

// walker is the accumulator threaded through the recursion.
type walker struct {
	opts    Options
	opaque  map[string]struct{}
	visited map[string]struct{}
	order   []nodegraph.Node
}

// VisitUpstream returns every node upstream of origin, origin included, in
// walk order and without duplicates. Cycles are cut by the visited set and
// never fail. A container whose port mapping cannot be resolved fails with a
// nodegraph.IntegrityError.
func VisitUpstream(ctx context.Context, origin Origin, opts Options) ([]nodegraph.Node, error) {
	if origin.IsZero() {
		return nil, ErrNoOrigin
	}
	logger := ctxlog.FromContext(ctx)

	w := &walker{
		opts:    opts,
		opaque:  make(map[string]struct{}, len(opts.OpaqueTypes)),
		visited: make(map[string]struct{}),
	}
	for _, t := range opts.OpaqueTypes {
		w.opaque[t] = struct{}{}
	}

	if err := w.visit(origin.Node, origin.Port); err != nil {
		return nil, err
	}
	logger.Debug("Upstream traversal finished.", "origin", origin.Node.Name(), "visited", len(w.order), "logical", opts.Logical)
	return w.order, nil
}

func (w *walker) visit(node nodegraph.Node, port nodegraph.Port) error {
	node, ok, err := w.cross(node, port)
	if err != nil || !ok {
		return err
	}

	if !w.record(node) {
		return nil
	}

	for _, up := range UpstreamPorts(node, w.opts.Logical) {
		if err := w.visit(up.Node(), up); err != nil {
			return err
		}
	}
	return nil
}

// cross resolves container boundaries until it lands on a node that is not
// an enterable container. ok is false when the branch ends at an unconnected
// boundary port or loops between boundary ports without reaching a node.
func (w *walker) cross(node nodegraph.Node, port nodegraph.Port) (nodegraph.Node, bool, error) {
	var crossed map[portKey]struct{}
	for {
		c, isContainer := nodegraph.AsContainer(node)
		if !isContainer || w.isOpaque(node) {
			return node, true, nil
		}
		if port != nil {
			if crossed == nil {
				crossed = make(map[portKey]struct{})
			}
			key := portKey{node: c.Name(), port: port.Name()}
			if _, loop := crossed[key]; loop {
				return nil, false, nil
			}
			crossed[key] = struct{}{}
		}

		// A container without inputs can never be left through one, so it
		// is recorded when entered.
		if w.opts.IncludeGroups && len(c.InputPorts()) == 0 {
			w.record(c)
		}

		var inner nodegraph.Port
		if port != nil {
			if rp, ok := c.ReturnPort(port.Name()); ok {
				inner = rp
			} else if ip, ok := c.InputPort(port.Name()); ok {
				inner = ip
				if w.opts.IncludeGroups {
					w.record(c)
				}
			} else {
				return nil, false, nodegraph.NewIntegrityError(c.Name(), port.Name(), "port is neither an output nor an input of the container")
			}
		} else {
			outs := c.OutputPorts()
			if len(outs) == 0 {
				return nil, false, nodegraph.NewIntegrityError(c.Name(), "", "container has no output port to descend through")
			}
			rp, ok := c.ReturnPort(outs[0].Name())
			if !ok {
				return nil, false, nodegraph.NewIntegrityError(c.Name(), outs[0].Name(), "output port has no internal return port")
			}
			inner = rp
		}

		conns := inner.ConnectedPorts()
		if len(conns) == 0 {
			return nil, false, nil
		}
		port = conns[0]
		node = port.Node()
	}
}

// record appends n unless it was emitted before, and reports whether it did.
func (w *walker) record(n nodegraph.Node) bool {
	if _, seen := w.visited[n.Name()]; seen {
		return false
	}
	w.visited[n.Name()] = struct{}{}
	w.order = append(w.order, n)
	return true
}

func (w *walker) isOpaque(n nodegraph.Node) bool {
	_, ok := w.opaque[n.Type()]
	return ok
}
