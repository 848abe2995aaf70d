package scene

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/scenevars/internal/config"
	"github.com/specialistvlad/scenevars/internal/nodeid"
	"github.com/specialistvlad/scenevars/internal/rules"
)

// Mode selects how nodes are collected.
type Mode string

const (
	// ModeAllScene scans every node of every rule type, ignoring connections.
	ModeAllScene Mode = "all_scene"
	// ModeUpstream walks every connection upstream of Start.
	ModeUpstream Mode = "upstream"
	// ModeLogicalUpstream walks only connections whose upstream node has
	// graph state.
	ModeLogicalUpstream Mode = "logical_upstream"
)

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeAllScene, ModeUpstream, ModeLogicalUpstream:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

func (m Mode) upstream() bool {
	return m == ModeUpstream || m == ModeLogicalUpstream
}

// Settings configure a scene build.
type Settings struct {
	Mode Mode
	// Start is the node, or node output port, upstream modes walk from.
	Start nodeid.Ref
	// Excluded variable names never become Variables.
	Excluded []string
	// OpaqueContainerTypes are container types the walk does not enter.
	OpaqueContainerTypes []string
	// Rules is the usage rule table. Nil means rules.DefaultTable.
	Rules *rules.Table
	// IncludeGroups emits crossed containers so container types listed in
	// the rule table are classified too.
	IncludeGroups bool
}

// DefaultSettings returns the settings a scene is built with when nothing is
// configured: logical upstream walk, built-in rules and exclusions.
func DefaultSettings() Settings {
	return Settings{
		Mode:                 ModeLogicalUpstream,
		Excluded:             append([]string(nil), config.DefaultExcluded...),
		OpaqueContainerTypes: append([]string(nil), config.DefaultOpaqueTypes...),
		IncludeGroups:        true,
	}
}

// Validate checks the settings before any traversal. Failures are
// ConfigurationErrors.
func (s Settings) Validate() error {
	if _, err := ParseMode(string(s.Mode)); err != nil {
		return &ConfigurationError{Field: "Mode", Err: err}
	}
	if s.Mode.upstream() && s.Start.Node == "" {
		return NewConfigurationError("Start", "mode %s needs a starting node", s.Mode)
	}
	for i, name := range s.Excluded {
		if name == "" {
			return NewConfigurationError("Excluded", "entry %d is empty", i)
		}
	}
	if s.Rules != nil && s.Rules.Len() == 0 {
		return NewConfigurationError("Rules", "rule table is empty")
	}
	return nil
}

func (s Settings) table() *rules.Table {
	if s.Rules == nil {
		return rules.DefaultTable()
	}
	return s.Rules
}

func (s Settings) clone() Settings {
	c := s
	c.Excluded = append([]string(nil), s.Excluded...)
	c.OpaqueContainerTypes = append([]string(nil), s.OpaqueContainerTypes...)
	return c
}
