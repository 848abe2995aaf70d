package app

import (
	"github.com/specialistvlad/scenevars/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Settings config.Settings
	Edits    []config.Edit
}

// NewConfig validates the settings and parses the tool edits they carry.
func NewConfig(s config.Settings) (*Config, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	edits, err := s.Edits()
	if err != nil {
		return nil, err
	}
	return &Config{Settings: s, Edits: edits}, nil
}
