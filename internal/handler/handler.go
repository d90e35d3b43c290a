package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mtlprog/wsschedule/internal/handler/dto"
	"github.com/mtlprog/wsschedule/internal/middleware"
	"github.com/mtlprog/wsschedule/internal/service"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pinger          Pinger
	scheduleService *service.ScheduleService
	viewerTimezone  *middleware.ViewerTimezone
	now             func() time.Time
}

// New creates a new Handler. Deadlines render in viewer unless a request
// names its own zone.
func New(pinger Pinger, scheduleService *service.ScheduleService, viewer *time.Location) *Handler {
	return &Handler{
		pinger:          pinger,
		scheduleService: scheduleService,
		viewerTimezone:  middleware.NewViewerTimezone(viewer),
		now:             time.Now,
	}
}

// WithClock replaces the handler's clock. Every time-dependent response reads
// "now" from it exactly once.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API v1 routes
	api := func(fn http.HandlerFunc) http.Handler {
		return h.viewerTimezone.Resolve(fn)
	}
	mux.Handle("GET /api/v1/workspaces/{id}/schedule", api(h.handleGetSchedule))
	mux.Handle("PUT /api/v1/workspaces/{id}/deadline", api(h.handleUpdateDeadline))
	mux.Handle("PUT /api/v1/workspaces/{id}/autostart", api(h.handleUpdateAutostart))
	mux.Handle("PUT /api/v1/workspaces/{id}/ttl", api(h.handleUpdateTTL))
	mux.Handle("GET /api/v1/quiet-hours", api(h.handleQuietHours))
	mux.Handle("POST /api/v1/cron", api(h.handleBuildCron))
	mux.Handle("GET /api/v1/autostop-requirement", api(h.handleAutostopRequirement))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pinger.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err to a status and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// extractWorkspaceID extracts and validates workspace ID from path parameter.
// Returns (workspaceID, true) if valid, ("", false) if invalid (error already sent to client).
func extractWorkspaceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	workspaceID := r.PathValue("id")
	if workspaceID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "workspace id is required")
		return "", false
	}

	if _, err := uuid.Parse(workspaceID); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "workspace id must be a valid UUID")
		return "", false
	}

	return workspaceID, true
}
