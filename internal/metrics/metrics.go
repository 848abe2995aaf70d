// Package metrics exposes Prometheus metrics about scene builds. Each
// Registry owns its own prometheus.Registry so tests and embedded uses never
// touch the global default.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/scenevars/internal/nodegraph"
	"github.com/specialistvlad/scenevars/internal/scene"
)

// Registry holds the build metrics.
type Registry struct {
	BuildsTotal     *prometheus.CounterVec
	BuildDuration   prometheus.Histogram
	Variables       *prometheus.GaugeVec
	UsageSites      prometheus.Gauge
	LastBuildTime   prometheus.Gauge
	WatchEventTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.BuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenevars_builds_total",
			Help: "Total number of scene builds by result",
		},
		[]string{"result"},
	)
	r.BuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scenevars_build_duration_seconds",
			Help:    "Scene build duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
	r.Variables = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scenevars_variables",
			Help: "Number of variables in the current scene by scope",
		},
		[]string{"scope"},
	)
	r.UsageSites = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scenevars_usage_sites",
			Help: "Number of usage sites in the current scene",
		},
	)
	r.LastBuildTime = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scenevars_last_build_timestamp_seconds",
			Help: "Unix time of the last successful build",
		},
	)
	r.WatchEventTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "scenevars_watch_events_total",
			Help: "Total number of file events that triggered a rebuild",
		},
	)
	return r
}

// Result labels of BuildsTotal.
const (
	ResultOK            = "ok"
	ResultConfiguration = "configuration_error"
	ResultIntegrity     = "integrity_error"
	ResultError         = "error"
)

// RecordBuild records one build attempt. sc may be nil when err is set.
func (r *Registry) RecordBuild(sc *scene.Scene, duration time.Duration, err error) {
	r.BuildDuration.Observe(duration.Seconds())
	r.BuildsTotal.WithLabelValues(resultOf(err)).Inc()
	if err != nil || sc == nil {
		return
	}

	var global, local int
	for _, v := range sc.Variables() {
		if v.IsGlobal() {
			global++
		} else {
			local++
		}
	}
	r.Variables.WithLabelValues(scene.ScopeGlobal.String()).Set(float64(global))
	r.Variables.WithLabelValues(scene.ScopeLocal.String()).Set(float64(local))
	r.UsageSites.Set(float64(len(sc.UsageSites())))
	r.LastBuildTime.SetToCurrentTime()
}

// RecordWatchEvent counts a file event that scheduled a rebuild.
func (r *Registry) RecordWatchEvent() {
	r.WatchEventTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, scene.ErrConfiguration):
		return ResultConfiguration
	case errors.Is(err, nodegraph.ErrGraphIntegrity):
		return ResultIntegrity
	default:
		return ResultError
	}
}
