package dto

import (
	"time"

	"github.com/mtlprog/wsschedule/internal/domain"
	"github.com/mtlprog/wsschedule/internal/service"
)

// ScheduleResponse represents the schedule view of a workspace.
type ScheduleResponse struct {
	WorkspaceID       string     `json:"workspace_id"`
	AutostartSchedule *string    `json:"autostart_schedule"`
	Autostart         string     `json:"autostart"`
	NextAutostart     *time.Time `json:"next_autostart"`
	Autostop          string     `json:"autostop"`
	AutostopKind      string     `json:"autostop_kind"`
	IsShuttingDown    bool       `json:"is_shutting_down"`
	Deadline          *time.Time `json:"deadline"`
	MinDeadline       time.Time  `json:"min_deadline"`
	MaxDeadline       time.Time  `json:"max_deadline"`
	MaxExtendHours    int        `json:"max_extend_hours"`
	MaxReduceHours    int        `json:"max_reduce_hours"`
}

// WorkspaceResponse represents a workspace after a schedule edit.
type WorkspaceResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Status            string     `json:"status"`
	AutostartSchedule *string    `json:"autostart_schedule"`
	TTLMillis         *int64     `json:"ttl_ms"`
	Deadline          *time.Time `json:"deadline"`
	BuildUpdatedAt    time.Time  `json:"build_updated_at"`
}

// QuietHoursResponse represents the response for GET /quiet-hours.
type QuietHoursResponse struct {
	Time     string     `json:"time"`
	Timezone string     `json:"timezone"`
	Schedule string     `json:"schedule,omitempty"`
	Next     *time.Time `json:"next,omitempty"`
	Display  string     `json:"display"`
}

// CronResponse represents the response for POST /cron.
type CronResponse struct {
	Schedule string `json:"schedule"`
}

// AutostopRequirementResponse represents the response for GET /autostop-requirement.
type AutostopRequirementResponse struct {
	Value      string   `json:"value"`
	DaysOfWeek []string `json:"days_of_week"`
}

// ToScheduleResponse converts service.Summary to ScheduleResponse.
func ToScheduleResponse(summary *service.Summary) ScheduleResponse {
	return ScheduleResponse{
		WorkspaceID:       summary.Workspace.ID,
		AutostartSchedule: summary.Workspace.AutostartSchedule,
		Autostart:         summary.Autostart,
		NextAutostart:     summary.NextAutostart,
		Autostop:          summary.Autostop,
		AutostopKind:      summary.AutostopState.Kind.String(),
		IsShuttingDown:    summary.IsShuttingDown,
		Deadline:          summary.Deadline,
		MinDeadline:       summary.MinDeadline,
		MaxDeadline:       summary.MaxDeadline,
		MaxExtendHours:    summary.MaxExtendHours,
		MaxReduceHours:    summary.MaxReduceHours,
	}
}

// ToWorkspaceResponse converts domain.Workspace to WorkspaceResponse.
func ToWorkspaceResponse(workspace *domain.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:                workspace.ID,
		Name:              workspace.Name,
		Status:            string(workspace.LatestBuild.Status),
		AutostartSchedule: workspace.AutostartSchedule,
		TTLMillis:         workspace.TTLMillis,
		Deadline:          workspace.LatestBuild.Deadline,
		BuildUpdatedAt:    workspace.LatestBuild.UpdatedAt,
	}
}
