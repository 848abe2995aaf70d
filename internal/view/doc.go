// Package view pairs a scene Variable with the optional value the editing
// tool has set for it and derives what the tool shows: a status, whether the
// variable may be edited, and the value currently in effect.
//
// A View is never mutated. When the override changes, build a new View.
package view
