// Package traverse walks a host node graph upstream from a node or a port.
//
// The walk is depth-first and pre-order. Inputs are followed in the order the
// host reports them and every node is emitted at most once, on the first path
// that reaches it. That order is load-bearing: the scene builder reads it as
// writer precedence.
//
// Containers are crossed transparently. Entering a container through one of
// its outputs continues at the child feeding that output; leaving it through
// one of its inputs continues at whatever feeds the input outside. Containers
// whose type is listed as opaque are treated as plain nodes and never
// entered.
package traverse
