package app

import (
	"testing"

	"github.com/specialistvlad/scenevars/internal/config"
	"github.com/specialistvlad/scenevars/internal/hcl_adapter"
	"github.com/specialistvlad/scenevars/internal/testutil"
	"github.com/stretchr/testify/require"
)

// baseSettings returns valid settings for a scene directory.
func baseSettings(dir string) config.Settings {
	return config.Settings{
		ScenePath: dir,
		Mode:      config.ModeUpstream,
		Start:     "Render",
		Format:    "json",
		LogLevel:  "debug",
		LogFormat: "text",
	}
}

// setupApp creates an App over s with report output and logs captured.
func setupApp(t *testing.T, s config.Settings) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()
	cfg, err := NewConfig(s)
	require.NoError(t, err)

	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	a := NewApp(out, logs, cfg, hcl_adapter.NewLoader())
	t.Cleanup(func() { testutil.LogOnDemand(t, logs) })
	return a, out, logs
}
