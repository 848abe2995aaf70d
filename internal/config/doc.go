// Package config defines the format-agnostic scene model and the run settings
// of the application, along with the Loader interface that turns a scene
// description on disk into a SceneModel.
//
// The SceneModel is the single source of truth for building the in-memory
// host graph (internal/inmemorygraph). Concrete loaders, such as the HCL one,
// are provided in separate packages.
package config
