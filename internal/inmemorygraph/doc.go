// Package inmemorygraph provides a simple, thread-safe, in-memory
// implementation of the nodegraph.Graph interface. It backs the scene
// description files loaded by the CLI and every test that needs a host graph.
package inmemorygraph
