package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"contractlens/internal/analysis"
	"contractlens/internal/codec"
	"contractlens/internal/domain"
	"contractlens/internal/loop"
	"contractlens/internal/scene"
	"contractlens/internal/service"
)

// maxPayloadBytes bounds uploaded graph documents
const maxPayloadBytes = 32 << 20

// GraphHandler handles dependency graph API requests
type GraphHandler struct {
	svc *service.Visualizer
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(svc *service.Visualizer) *GraphHandler {
	return &GraphHandler{svc: svc}
}

// Register adds every graph route to mux
func (h *GraphHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/graph/load", h.LoadGraph)
	mux.HandleFunc("POST /api/graph/payload", h.LoadPayload)
	mux.HandleFunc("GET /api/graph/export/{format}", h.Export)

	mux.HandleFunc("GET /api/scene", h.GetScene)
	mux.HandleFunc("GET /api/scene.svg", h.GetSceneSVG)
	mux.HandleFunc("GET /api/interactions", h.ListInteractions)

	mux.HandleFunc("POST /api/viewport/pan", h.Pan)
	mux.HandleFunc("POST /api/viewport/wheel", h.Wheel)
	mux.HandleFunc("POST /api/viewport/{action}", h.Zoom)

	mux.HandleFunc("POST /api/flow/toggle", h.ToggleFlow)
	mux.HandleFunc("PUT /api/flow", h.SetFlow)
	mux.HandleFunc("PUT /api/highlight", h.SetHighlight)

	mux.HandleFunc("POST /api/nodes/{id}/drag/{phase}", h.Drag)
	mux.HandleFunc("POST /api/nodes/{id}/click", h.Click)

	mux.HandleFunc("GET /healthz", h.Health)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// FlowState reports marker visibility
type FlowState struct {
	Visible bool `json:"visible"`
}

// HighlightRequest focuses an address; null or empty clears the focus
type HighlightRequest struct {
	Address *string `json:"address"`
}

// PanRequest is a screen-space offset
type PanRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// WheelRequest is a wheel gesture at a screen point
type WheelRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Delta float64 `json:"delta"`
}

// PointRequest is a screen point
type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LoadGraph fetches a dependency graph from the analysis API and shows it
func (h *GraphHandler) LoadGraph(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}

	loaded, err := h.svc.Fetch(r.Context(), req)
	if err != nil {
		h.fail(w, "Failed to load graph", err)
		return
	}

	writeJSON(w, loaded, http.StatusOK)
}

// LoadPayload shows a graph document posted as JSON or YAML
func (h *GraphHandler) LoadPayload(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	loaded, err := h.svc.Import(r.Context(), r.Header.Get("Content-Type"), body)
	if err != nil {
		h.fail(w, "Failed to load payload", err)
		return
	}

	writeJSON(w, loaded, http.StatusOK)
}

// Export downloads the current payload as json or yaml
func (h *GraphHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	c, err := codec.ForFormat(format)
	if err != nil {
		writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	// Buffer so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), format, &buf); err != nil {
		h.fail(w, "Failed to export graph", err)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=graph.%s", c.Format()))
	w.Write(buf.Bytes())
}

// GetScene returns the current frame
func (h *GraphHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	frame, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.fail(w, "Failed to get scene", err)
		return
	}

	writeJSON(w, frame, http.StatusOK)
}

// GetSceneSVG renders the current frame
func (h *GraphHandler) GetSceneSVG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.RenderSVG(r.Context(), &buf); err != nil {
		h.fail(w, "Failed to render scene", err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

// ListInteractions returns the interaction table. Query parameters: kind
// (direct or all), q (address search), sort (address, type or an interaction
// type name) and dir (asc or desc).
func (h *GraphHandler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var includeIndirect bool
	switch query.Get("kind") {
	case "", "direct":
	case "all":
		includeIndirect = true
	default:
		writeError(w, "Invalid kind", "kind must be direct or all", http.StatusBadRequest)
		return
	}

	direction := domain.SortDirection(strings.ToLower(query.Get("dir")))
	switch direction {
	case "":
		direction = domain.SortAsc
	case domain.SortAsc, domain.SortDesc:
	default:
		writeError(w, "Invalid sort direction", "dir must be asc or desc", http.StatusBadRequest)
		return
	}

	table, err := h.svc.Interactions(r.Context(), service.InteractionQuery{
		Filter: domain.InteractionFilter{
			IncludeIndirect: includeIndirect,
			Query:           query.Get("q"),
		},
		Sort:      query.Get("sort"),
		Direction: direction,
	})
	if err != nil {
		h.fail(w, "Failed to list interactions", err)
		return
	}

	writeJSON(w, table, http.StatusOK)
}

// Zoom handles zoom-in, zoom-out and reset
func (h *GraphHandler) Zoom(w http.ResponseWriter, r *http.Request) {
	var err error
	switch action := r.PathValue("action"); action {
	case "zoom-in":
		err = h.svc.ZoomIn(r.Context())
	case "zoom-out":
		err = h.svc.ZoomOut(r.Context())
	case "reset":
		err = h.svc.ResetZoom(r.Context())
	default:
		writeError(w, "Unknown viewport action", action, http.StatusNotFound)
		return
	}
	if err != nil {
		h.fail(w, "Failed to zoom", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Pan shifts the view
func (h *GraphHandler) Pan(w http.ResponseWriter, r *http.Request) {
	var req PanRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.svc.Pan(r.Context(), req.DX, req.DY); err != nil {
		h.fail(w, "Failed to pan", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Wheel zooms about a screen point
func (h *GraphHandler) Wheel(w http.ResponseWriter, r *http.Request) {
	var req WheelRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.svc.Wheel(r.Context(), req.X, req.Y, req.Delta); err != nil {
		h.fail(w, "Failed to zoom", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleFlow flips flow marker visibility
func (h *GraphHandler) ToggleFlow(w http.ResponseWriter, r *http.Request) {
	visible, err := h.svc.ToggleFlow(r.Context())
	if err != nil {
		h.fail(w, "Failed to toggle flow", err)
		return
	}

	writeJSON(w, FlowState{Visible: visible}, http.StatusOK)
}

// SetFlow shows or hides flow markers
func (h *GraphHandler) SetFlow(w http.ResponseWriter, r *http.Request) {
	var req FlowState
	if !decode(w, r, &req) {
		return
	}

	if err := h.svc.SetFlowVisible(r.Context(), req.Visible); err != nil {
		h.fail(w, "Failed to set flow", err)
		return
	}

	writeJSON(w, req, http.StatusOK)
}

// SetHighlight focuses an address
func (h *GraphHandler) SetHighlight(w http.ResponseWriter, r *http.Request) {
	var req HighlightRequest
	if !decode(w, r, &req) {
		return
	}

	address := ""
	if req.Address != nil {
		address = *req.Address
	}
	if err := h.svc.SetHighlight(r.Context(), address); err != nil {
		h.fail(w, "Failed to set highlight", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Drag handles the start, move and end phases of a node drag. Move takes a
// screen point.
func (h *GraphHandler) Drag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var err error
	switch phase := r.PathValue("phase"); phase {
	case "start":
		err = h.svc.DragStart(r.Context(), id)
	case "move":
		var req PointRequest
		if !decode(w, r, &req) {
			return
		}
		err = h.svc.DragMove(r.Context(), id, req.X, req.Y)
	case "end":
		err = h.svc.DragEnd(r.Context(), id)
	default:
		writeError(w, "Unknown drag phase", phase, http.StatusNotFound)
		return
	}
	if err != nil {
		h.fail(w, "Failed to drag node", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Click reports a node click
func (h *GraphHandler) Click(w http.ResponseWriter, r *http.Request) {
	clicked, err := h.svc.Click(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "Failed to click node", err)
		return
	}

	writeJSON(w, clicked, http.StatusOK)
}

// Health reports whether the event loop is responsive
func (h *GraphHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}

	frame, err := h.svc.Snapshot(r.Context())
	switch {
	case err == nil:
		status["scene_id"] = frame.SceneID
		status["state"] = frame.State
	case errors.Is(err, scene.ErrNoScene):
	default:
		h.fail(w, "Unhealthy", err)
		return
	}

	writeJSON(w, status, http.StatusOK)
}

// fail maps an error to a status code and writes it
func (h *GraphHandler) fail(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s: %v", message, err)
	}
	writeError(w, message, err.Error(), status)
}

func statusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}

	switch {
	case errors.Is(err, scene.ErrNoScene),
		errors.Is(err, scene.ErrUnknownNode),
		errors.Is(err, analysis.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, loop.ErrStopped):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Helper functions

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
