// Package service implements the application logic behind the HTTP API.
//
// Visualizer owns the stage and is the only way other goroutines reach it:
// every operation is posted to the event loop and waits for its result, so
// scene state is never touched concurrently.
//
// # Event System
//
// The stage publishes through EventBus. Subscribers receive scene events
// (scene_loaded, node_clicked, simulation_stopped, highlight_changed,
// flow_toggled) and throttled frame snapshots for real-time clients via
// Server-Sent Events (SSE).
package service
