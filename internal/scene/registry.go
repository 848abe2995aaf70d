package scene

import (
	"sync"

	"github.com/google/uuid"
)

type registryKey struct {
	name  string
	scene uuid.UUID
}

// Registry holds at most one Variable per (name, scene). It belongs to a
// single scene build and is replaced, never cleared, on rebuild.
type Registry struct {
	mu      sync.Mutex
	sceneID uuid.UUID
	vars    map[registryKey]*Variable
}

// NewRegistry creates an empty registry for the given scene.
func NewRegistry(sceneID uuid.UUID) *Registry {
	return &Registry{
		sceneID: sceneID,
		vars:    make(map[registryKey]*Variable),
	}
}

// Get returns the Variable for name, creating it empty on first use. Repeated
// calls return the same instance.
func (r *Registry) Get(name string) *Variable {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey{name: name, scene: r.sceneID}
	if v, ok := r.vars[key]; ok {
		return v
	}
	v := newVariable(name)
	r.vars[key] = v
	return v
}

// Lookup returns the Variable for name without creating it.
func (r *Registry) Lookup(name string) (*Variable, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vars[registryKey{name: name, scene: r.sceneID}]
	return v, ok
}

// Len returns the number of Variables held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.vars)
}

// SceneID returns the scene the registry belongs to.
func (r *Registry) SceneID() uuid.UUID { return r.sceneID }
