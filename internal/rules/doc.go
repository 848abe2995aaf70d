// Package rules decides which scene variables a node reads or writes.
//
// A Table maps node types to a Rule. Each Rule names one of a closed set of
// extraction strategies (Kind) and the parameters that strategy reads.
// Classify applies the rule of a node's type and returns its Usage: the role
// of the node and an ordered list of (variable name, candidate values)
// entries. Nodes of types absent from the table are not relevant and are
// reported as such without error.
package rules
