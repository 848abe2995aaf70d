// Package edits keeps the values the editing tool has set on scene
// variables. The engine never writes to the graph; these edits only feed
// view overrides.
package edits

import (
	"context"
	"sync"

	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/specialistvlad/scenevars/internal/view"
)

// Edits is a set of tool edits keyed by variable name. It is safe for
// concurrent use; watch mode reads it from the rebuild goroutine.
type Edits struct {
	mu     sync.RWMutex
	values map[string]string
	order  []string
}

// New returns an empty edit set.
func New() *Edits {
	return &Edits{values: make(map[string]string)}
}

// Set records value for name, replacing any earlier edit.
func (e *Edits) Set(ctx context.Context, name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.values[name]; !ok {
		e.order = append(e.order, name)
	}
	e.values[name] = value
	ctxlog.FromContext(ctx).Debug("Variable edited.", "variable", name, "value", value)
}

// Unset removes the edit of name. It reports false, and logs an error, when
// name is not edited.
func (e *Edits) Unset(ctx context.Context, name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.values[name]; !ok {
		ctxlog.FromContext(ctx).Error("Cannot unedit a variable that is not edited.", "variable", name)
		return false
	}
	delete(e.values, name)
	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	ctxlog.FromContext(ctx).Debug("Variable edit removed.", "variable", name)
	return true
}

// Get returns the edit of name.
func (e *Edits) Get(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.values[name]
	return v, ok
}

// Names lists edited names in the order they were first set.
func (e *Edits) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.order...)
}

// Len returns the number of edits.
func (e *Edits) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.values)
}

// Overrides returns the edits as view overrides.
func (e *Edits) Overrides() map[string]view.Override {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]view.Override, len(e.values))
	for name, value := range e.values {
		out[name] = view.Override{Value: value}
	}
	return out
}
