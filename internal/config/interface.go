package config

import "context"

// Loader is the interface for a format-specific scene loader.
type Loader interface {
	// Load reads the scene description from the given paths and translates it
	// into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*SceneModel, error)
}
