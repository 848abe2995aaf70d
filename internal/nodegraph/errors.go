package nodegraph

import (
	"errors"
	"fmt"
)

// ErrGraphIntegrity matches every IntegrityError through errors.Is.
var ErrGraphIntegrity = errors.New("graph integrity error")

// IntegrityError reports a malformed graph found while reading it: a
// container whose port mapping cannot be resolved, a parameter a rule relies
// on that is missing, and similar. It names the offending node and field so
// the message is actionable.
type IntegrityError struct {
	Node   string
	Field  string
	Reason string
}

func (e *IntegrityError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("graph integrity error on node %q: %s", e.Node, e.Reason)
	}
	return fmt.Sprintf("graph integrity error on node %q, %s: %s", e.Node, e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrGraphIntegrity).
func (e *IntegrityError) Unwrap() error {
	return ErrGraphIntegrity
}

// NewIntegrityError builds an IntegrityError for the given node.
func NewIntegrityError(node, field, format string, args ...any) *IntegrityError {
	return &IntegrityError{Node: node, Field: field, Reason: fmt.Sprintf(format, args...)}
}
