// internal/nodeid/doc.go

/*
Package nodeid provides a structured representation for references to a node
or to one of its ports, based on the canonical format `node` or `node.port`.

References appear wherever a node graph is described as text: the `from`
attribute of scene description inputs, and the traversal starting point given
on the command line (e.g. `--start Render.in`).

This package centralizes the formatting and parsing logic so that every
caller agrees on what a valid node and port name is.
*/
package nodeid
