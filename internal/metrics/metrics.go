package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordSceneLoaded records a new scene and its size
func (r *Registry) RecordSceneLoaded(nodes, links int) {
	r.ScenesLoadedTotal.Inc()
	r.SceneNodes.Set(float64(nodes))
	r.SceneLinks.Set(float64(links))
}

// RecordTick records one simulation tick
func (r *Registry) RecordTick(alpha float64) {
	r.SimulationTicksTotal.Inc()
	r.SimulationAlpha.Set(alpha)
}

// RecordFrame records a frame pushed to stream clients
func (r *Registry) RecordFrame(markers int) {
	r.FramesBroadcastTotal.Inc()
	r.FlowMarkersVisible.Set(float64(markers))
}

// SetSSEClients sets the number of connected stream clients
func (r *Registry) SetSSEClients(n int) {
	r.SSEClients.Set(float64(n))
}

// RecordFetch records an analysis API call
func (r *Registry) RecordFetch(status string, duration time.Duration) {
	r.AnalysisFetchTotal.WithLabelValues(status).Inc()
	r.AnalysisFetchDuration.Observe(duration.Seconds())
}
