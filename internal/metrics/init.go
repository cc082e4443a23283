package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contractlens_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contractlens_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "contractlens_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initSceneMetrics() {
	r.ScenesLoadedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "contractlens_scenes_loaded_total",
			Help: "Total number of dependency graphs loaded",
		},
	)

	r.SceneNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "contractlens_scene_nodes",
			Help: "Number of contracts in the current scene",
		},
	)

	r.SceneLinks = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "contractlens_scene_links",
			Help: "Number of interaction links in the current scene",
		},
	)

	r.SimulationTicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "contractlens_simulation_ticks_total",
			Help: "Total number of layout simulation ticks",
		},
	)

	r.SimulationAlpha = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "contractlens_simulation_alpha",
			Help: "Current temperature of the layout simulation",
		},
	)

	r.FlowMarkersVisible = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "contractlens_flow_markers_visible",
			Help: "Number of flow markers drawn in the last frame",
		},
	)
}

func (r *Registry) initStreamMetrics() {
	r.SSEClients = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "contractlens_sse_clients",
			Help: "Number of connected event stream clients",
		},
	)

	r.FramesBroadcastTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "contractlens_frames_broadcast_total",
			Help: "Total number of scene frames pushed to event stream clients",
		},
	)
}

func (r *Registry) initAnalysisMetrics() {
	r.AnalysisFetchTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contractlens_analysis_fetch_total",
			Help: "Total number of dependency fetches from the analysis API",
		},
		[]string{"status"}, // ok, not_found, upstream_error, error
	)

	r.AnalysisFetchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contractlens_analysis_fetch_duration_seconds",
			Help:    "Latency of analysis API fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
}
