// Package metrics exposes Prometheus instrumentation for the server.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Scene Metrics
	ScenesLoadedTotal    prometheus.Counter
	SceneNodes           prometheus.Gauge
	SceneLinks           prometheus.Gauge
	SimulationTicksTotal prometheus.Counter
	SimulationAlpha      prometheus.Gauge
	FlowMarkersVisible   prometheus.Gauge

	// Streaming Metrics
	SSEClients           prometheus.Gauge
	FramesBroadcastTotal prometheus.Counter

	// Analysis API Metrics
	AnalysisFetchTotal    *prometheus.CounterVec
	AnalysisFetchDuration prometheus.Histogram

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initSceneMetrics()
	r.initStreamMetrics()
	r.initAnalysisMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler exposes the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
