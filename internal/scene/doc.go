// Package scene discovers the scene variables used upstream of a point in a
// host graph and aggregates them into one Variable per name.
//
// Build collects nodes (a flat scan by type, or an upstream walk), classifies
// each one with a rules.Table into a UsageSite, then folds the sites into
// Variables through a Registry scoped to the scene. Writer precedence is the
// collection order: the last writer reached wins. This is an approximation of
// the host's evaluation order and is documented as such.
//
// A Scene is replaced wholesale on Rebuild. Readers observe either the
// previous content or the new one, never a mix.
package scene
