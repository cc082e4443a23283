// Package handler implements the HTTP API of the contractlens server.
//
// # Handlers
//
// GraphHandler exposes the visualizer: loading graphs from the analysis API
// or from posted JSON/YAML documents, exporting the current payload, reading
// the current frame as JSON or SVG, the interaction table, and every viewport,
// flow, highlight, drag and click gesture.
//
// Middleware provides panic recovery, CORS, request logging and Prometheus
// request metrics.
//
// # Response Format
//
// Success responses return JSON data, or 204 for gestures that have nothing
// to report. Error responses return JSON with {error, details} structure and
// a status derived from the sentinel error behind the failure:
//   - 400 invalid request or payload
//   - 404 no graph loaded, unknown node, or no analysis for an address
//   - 502 analysis API failure
//   - 503 event loop stopped
//
// # Server-Sent Events
//
// The /events endpoint (see package hub) streams throttled frames and scene
// events to browser clients.
package handler
