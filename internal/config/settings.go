package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Scene collection modes.
const (
	ModeAllScene        = "all_scene"
	ModeUpstream        = "upstream"
	ModeLogicalUpstream = "logical_upstream"
)

// EnvPrefix is the prefix of environment variables read into Settings.
const EnvPrefix = "SCENEVARS"

// Settings holds the run configuration of the application. Values are
// populated from .scenevars.yaml, SCENEVARS_* env vars and CLI flags, in
// increasing order of precedence.
type Settings struct {
	ScenePath string `mapstructure:"scene" validate:"required"`
	Mode      string `mapstructure:"mode" validate:"oneof=all_scene upstream logical_upstream"`
	// Start is a node reference ("Node" or "Node.port") the traversal begins
	// at. Unused in all_scene mode.
	Start string `mapstructure:"start" validate:"required_unless=Mode all_scene"`

	// Excluded and OpaqueTypes override the project user parameters when
	// non-nil.
	Excluded    []string `mapstructure:"excluded" validate:"dive,required"`
	OpaqueTypes []string `mapstructure:"opaque_types" validate:"dive,required"`

	Format       string `mapstructure:"format" validate:"oneof=text json yaml toml"`
	SortByStatus bool   `mapstructure:"sort_by_status"`
	// Set holds tool edits as "name=value" pairs.
	Set []string `mapstructure:"set" validate:"dive,contains=="`

	Watch       bool          `mapstructure:"watch"`
	Debounce    time.Duration `mapstructure:"debounce" validate:"gte=0"`
	MetricsPort int           `mapstructure:"metrics_port" validate:"gte=0,lte=65535"`

	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=text json"`
}

var validate = validator.New()

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mode", ModeLogicalUpstream)
	v.SetDefault("format", "text")
	v.SetDefault("sort_by_status", false)
	v.SetDefault("watch", false)
	v.SetDefault("debounce", 200*time.Millisecond)
	v.SetDefault("metrics_port", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// NewViper returns a viper instance reading the optional config file, the
// SCENEVARS_* environment and the built-in defaults. An empty cfgFile looks
// for .scenevars.yaml in the working directory.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".scenevars")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Keys without a default are only seen by Unmarshal when bound.
	for _, key := range []string{"scene", "start", "excluded", "opaque_types", "set"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config file is fine; an explicit one is not.
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// LoadSettings unmarshals and validates the settings held by v.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.Mode = strings.ToLower(s.Mode)
	s.Format = strings.ToLower(s.Format)
	s.LogLevel = strings.ToLower(s.LogLevel)
	s.LogFormat = strings.ToLower(s.LogFormat)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings against their struct tags.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed '%s' validation (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Edit is a single "name=value" tool edit.
type Edit struct {
	Name  string
	Value string
}

// Edits parses the Set pairs in order. A repeated name keeps its first
// position and takes the last value.
func (s *Settings) Edits() ([]Edit, error) {
	var out []Edit
	index := make(map[string]int, len(s.Set))
	for _, pair := range s.Set {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid edit '%s': expected name=value", pair)
		}
		value = strings.TrimSpace(value)
		if i, seen := index[name]; seen {
			out[i].Value = value
			continue
		}
		index[name] = len(out)
		out = append(out, Edit{Name: name, Value: value})
	}
	return out, nil
}
