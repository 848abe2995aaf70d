// Package report renders the variable views of a scene for the command line:
// a coloured text table, or a structured document as JSON, YAML or TOML.
package report
