package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mtlprog/wsschedule/internal/domain"
	"github.com/mtlprog/wsschedule/internal/handler/dto"
	"github.com/mtlprog/wsschedule/internal/middleware"
	"github.com/mtlprog/wsschedule/internal/schedule"
	"github.com/mtlprog/wsschedule/internal/service"
)

// handleGetSchedule returns the schedule view of a workspace.
// @Summary Get workspace schedule
// @Description Autostart and autostop descriptions, deadline bounds and shutdown state
// @Tags schedule
// @Produce json
// @Param id path string true "Workspace ID"
// @Param X-Timezone header string false "Viewer IANA timezone"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /workspaces/{id}/schedule [get]
func (h *Handler) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspaceID, ok := extractWorkspaceID(w, r)
	if !ok {
		return
	}

	summary, err := h.scheduleService.Summary(ctx, workspaceID, h.now(), middleware.GetViewerLocation(ctx))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToScheduleResponse(summary))
}

// handleUpdateDeadline moves a running workspace's deadline.
// @Summary Update workspace deadline
// @Description Deadline must lie between now+30m and build updated_at+24h
// @Tags schedule
// @Accept json
// @Produce json
// @Param id path string true "Workspace ID"
// @Param request body dto.UpdateDeadlineRequest true "New deadline"
// @Success 200 {object} dto.WorkspaceResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /workspaces/{id}/deadline [put]
func (h *Handler) handleUpdateDeadline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspaceID, ok := extractWorkspaceID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateDeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.Deadline.IsZero() {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "deadline is required")
		return
	}

	workspace, err := h.scheduleService.ExtendDeadline(ctx, workspaceID, req.Deadline, h.now())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToWorkspaceResponse(workspace))
}

// handleUpdateAutostart sets or clears a daily autostart.
// @Summary Update workspace autostart
// @Tags schedule
// @Accept json
// @Produce json
// @Param id path string true "Workspace ID"
// @Param request body dto.UpdateAutostartRequest true "HH:mm time and timezone"
// @Success 200 {object} dto.WorkspaceResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /workspaces/{id}/autostart [put]
func (h *Handler) handleUpdateAutostart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspaceID, ok := extractWorkspaceID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAutostartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	workspace, err := h.scheduleService.SetAutostart(ctx, workspaceID, req.Time, req.Timezone)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToWorkspaceResponse(workspace))
}

// handleUpdateTTL sets or clears the workspace TTL.
// @Summary Update workspace TTL
// @Tags schedule
// @Accept json
// @Produce json
// @Param id path string true "Workspace ID"
// @Param request body dto.UpdateTTLRequest true "TTL in milliseconds, null for manual stop"
// @Success 200 {object} dto.WorkspaceResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /workspaces/{id}/ttl [put]
func (h *Handler) handleUpdateTTL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspaceID, ok := extractWorkspaceID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTTLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	workspace, err := h.scheduleService.SetTTL(ctx, workspaceID, req.TTLMillis)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToWorkspaceResponse(workspace))
}

// handleQuietHours describes the next start of quiet hours. It always answers
// 200; malformed input shows up as "Invalid time" in the display.
// @Summary Describe quiet hours
// @Tags schedule
// @Produce json
// @Param time query string true "HH:mm"
// @Param tz query string false "IANA timezone (default UTC)"
// @Success 200 {object} dto.QuietHoursResponse
// @Router /quiet-hours [get]
func (h *Handler) handleQuietHours(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	t := query.Get("time")
	tz := query.Get("tz")
	if tz == "" {
		tz = schedule.DefaultTimezone
	}

	now := h.now()
	resp := dto.QuietHoursResponse{
		Time:     t,
		Timezone: tz,
		Display:  service.QuietHoursDisplay(t, tz, now),
	}
	if raw, err := schedule.TimeToCron(t, tz); err == nil {
		if next, err := schedule.Next(raw, now, tz); err == nil {
			resp.Schedule = raw
			resp.Next = &next
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleBuildCron converts an HH:mm time into a daily schedule string.
// @Summary Build a daily schedule
// @Tags schedule
// @Accept json
// @Produce json
// @Param request body dto.BuildCronRequest true "HH:mm time and timezone"
// @Success 200 {object} dto.CronResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /cron [post]
func (h *Handler) handleBuildCron(w http.ResponseWriter, r *http.Request) {
	var req dto.BuildCronRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Timezone != "" {
		if _, err := schedule.LoadLocation(req.Timezone); err != nil {
			respondDomainError(w, err)
			return
		}
	}

	raw, err := schedule.TimeToCron(req.Time, req.Timezone)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.CronResponse{Schedule: raw})
}

// handleAutostopRequirement maps an autostop requirement selector to weekdays.
// @Summary Autostop requirement days
// @Tags schedule
// @Produce json
// @Param value query string true "off, daily, saturday or sunday"
// @Success 200 {object} dto.AutostopRequirementResponse
// @Router /autostop-requirement [get]
func (h *Handler) handleAutostopRequirement(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")

	respondJSON(w, http.StatusOK, dto.AutostopRequirementResponse{
		Value:      value,
		DaysOfWeek: service.CalculateAutostopRequirementDaysValue(domain.AutostopRequirementDays(value)),
	})
}
