// Package nodegraph defines the narrow view the scene-variable engine has of
// a host node graph.
//
// # Why nodegraph Exists
//
// The engine never owns the graph it inspects. Nodes, ports and parameters
// live in the host application; the engine only reads them while building a
// scene and keeps references afterwards. Everything the engine needs from the
// host is listed here as small interfaces so that the traversal, the rule
// table and the scene builder can be tested against an in-memory graph (see
// internal/inmemorygraph) and embedded against any real host.
//
// # Identity
//
// Node names are unique within one host graph and are used as node identity
// by the traversal (visited set) and in error messages.
//
// # Containers
//
// A Container nests a subgraph. Its boundary is described by two mappings,
// both looked up by port name:
//
//   - the exit mapping (ReturnPort): an output port name of the container to
//     the internal port that feeds it from inside;
//   - the entry mapping (InputPort): an input port name of the container to
//     the outside input port, whose connection leads back out of the group.
//
// Children inside a container that read one of its inputs are wired to a
// port owned by the container itself, carrying the input's name.
//
// # Thread-Safety
//
// The engine reads the host graph from a single goroutine and never writes to
// it. Implementations are not required to be safe for concurrent mutation
// during a read.
package nodegraph
