package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/specialistvlad/scenevars/internal/app"
	"github.com/specialistvlad/scenevars/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const longHelp = `scenevars lists the scene variables a node graph reads and writes.

It loads a scene described in HCL, walks the graph upstream of a starting
node (or scans the whole scene), and reports every variable with its scope,
candidate values and whether the graph or the tool sets it.

Settings are read from .scenevars.yaml, SCENEVARS_* environment variables and
flags, in increasing order of precedence.`

// flagKeys maps flag names to settings keys bound through viper.
var flagKeys = map[string]string{
	"scene":          "scene",
	"mode":           "mode",
	"start":          "start",
	"format":         "format",
	"sort-by-status": "sort_by_status",
	"set":            "set",
	"watch":          "watch",
	"debounce":       "debounce",
	"metrics-port":   "metrics_port",
	"log-level":      "log_level",
	"log-format":     "log_format",
}

// sliceFlagKeys are only applied when given, so an absent flag leaves the
// scene's own settings in effect.
var sliceFlagKeys = map[string]string{
	"exclude":     "excluded",
	"opaque-type": "opaque_types",
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	var cfg *app.Config

	cmd := newRootCommand(func(c *app.Config) { cfg = c })
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if cfg == nil {
		// Help was printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "scene", cfg.Settings.ScenePath)
	return cfg, false, nil
}

func newRootCommand(done func(*app.Config)) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scenevars [flags] [SCENE_PATH]",
		Short:         "Discover the scene variables of a node graph",
		Long:          longHelp,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.Flags()
	f.String("config", "", "config file (default .scenevars.yaml)")
	f.StringP("scene", "s", "", "path to a scene .hcl file or a directory of them")
	f.StringP("mode", "m", config.ModeLogicalUpstream, "collection mode: all_scene, upstream or logical_upstream")
	f.String("start", "", `node, or "node.port", the upstream walk starts from`)
	f.StringSlice("exclude", nil, "variable names to leave out (overrides the scene's list)")
	f.StringSlice("opaque-type", nil, "container types the walk does not enter (overrides the scene's list)")
	f.StringP("format", "f", "text", "report format: text, json, yaml or toml")
	f.Bool("sort-by-status", false, "sort variables by status instead of discovery order")
	f.StringArray("set", nil, "tool edit as name=value, repeatable")
	f.BoolP("watch", "w", false, "rebuild and report whenever scene files change")
	f.Duration("debounce", 0, "quiet period before a watch rebuild (default 200ms)")
	f.Int("metrics-port", 0, "port for /health and /metrics; 0 is disabled")
	f.String("log-level", "info", "logging level: debug, info, warn or error")
	f.String("log-format", "text", "log output format: text or json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		v, err := config.NewViper(cfgFile)
		if err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
		if err := bindFlags(v, cmd.Flags()); err != nil {
			return err
		}
		if len(args) == 1 {
			v.Set("scene", args[0])
		}

		if v.GetString("scene") == "" {
			slog.Debug("No scene path provided, printing usage and exiting.")
			return cmd.Help()
		}

		settings, err := config.LoadSettings(v)
		if err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
		appConfig, err := app.NewConfig(*settings)
		if err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
		done(appConfig)
		return nil
	}
	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	for name, key := range sliceFlagKeys {
		if !flags.Changed(name) {
			continue
		}
		values, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		v.Set(key, values)
	}
	return nil
}
