package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/specialistvlad/scenevars/internal/nodegraph"
	"github.com/specialistvlad/scenevars/internal/scene"
	"github.com/specialistvlad/scenevars/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBuild_Success(t *testing.T) {
	b := testutil.NewGraph(t)
	b.G.SetGlobals("shot")
	b.Set("SetShot", "shot", "sh010", nil)
	b.Switch("Switch", "pass", nil, "beauty")

	s := scene.DefaultSettings()
	s.Mode = scene.ModeAllScene
	sc, err := scene.Build(context.Background(), b.G, s)
	require.NoError(t, err)

	r := NewRegistry()
	r.RecordBuild(sc, 20*time.Millisecond, nil)

	assert.Equal(t, 1.0, value(t, r.BuildsTotal.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, value(t, r.Variables.WithLabelValues("global")))
	assert.Equal(t, 1.0, value(t, r.Variables.WithLabelValues("local")))
	assert.Equal(t, 2.0, value(t, r.UsageSites))
	assert.Greater(t, value(t, r.LastBuildTime), 0.0)
}

func TestRecordBuild_Failures(t *testing.T) {
	r := NewRegistry()

	r.RecordBuild(nil, time.Millisecond, scene.NewConfigurationError("Start", "missing"))
	r.RecordBuild(nil, time.Millisecond, nodegraph.NewIntegrityError("N", "p", "missing"))
	r.RecordBuild(nil, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, value(t, r.BuildsTotal.WithLabelValues(ResultConfiguration)))
	assert.Equal(t, 1.0, value(t, r.BuildsTotal.WithLabelValues(ResultIntegrity)))
	assert.Equal(t, 1.0, value(t, r.BuildsTotal.WithLabelValues(ResultError)))
	assert.Equal(t, 0.0, value(t, r.BuildsTotal.WithLabelValues(ResultOK)))
}

func TestHandler_ServesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordWatchEvent()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "scenevars_watch_events_total 1")
}

func TestRegistries_AreIsolated(t *testing.T) {
	r1, r2 := NewRegistry(), NewRegistry()
	r1.RecordWatchEvent()

	assert.Equal(t, 1.0, value(t, r1.WatchEventTotal))
	assert.Equal(t, 0.0, value(t, r2.WatchEventTotal))
	assert.NotSame(t, r1.GetPrometheusRegistry(), r2.GetPrometheusRegistry())
}

// value reads the current value of a counter or gauge.
func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, m.Write(&metric))
	if metric.Counter != nil {
		return metric.Counter.GetValue()
	}
	return metric.Gauge.GetValue()
}
