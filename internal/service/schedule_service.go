package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/wsschedule/internal/domain"
	"github.com/mtlprog/wsschedule/internal/schedule"
)

// WorkspaceStore is the workspace data source the schedule service reads and
// updates.
type WorkspaceStore interface {
	GetByID(ctx context.Context, workspaceID string) (*domain.Workspace, error)
	ListRunning(ctx context.Context) ([]*domain.Workspace, error)
	UpdateDeadline(ctx context.Context, workspaceID string, deadline time.Time) error
	UpdateAutostart(ctx context.Context, workspaceID string, autostart *string) error
	UpdateTTL(ctx context.Context, workspaceID string, ttlMillis *int64) error
}

// ScheduleService coordinates schedule reads and edits for workspaces.
type ScheduleService struct {
	store WorkspaceStore
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(store WorkspaceStore) *ScheduleService {
	return &ScheduleService{store: store}
}

// Summary is everything the schedule UI shows for one workspace.
type Summary struct {
	Workspace      *domain.Workspace
	Autostart      string
	NextAutostart  *time.Time
	Autostop       string
	AutostopState  AutostopState
	IsShuttingDown bool
	Deadline       *time.Time
	MinDeadline    time.Time
	MaxDeadline    time.Time
	MaxExtendHours int
	MaxReduceHours int
}

// Summary computes the schedule summary of a workspace as seen at now by a
// viewer in the viewer zone.
func (s *ScheduleService) Summary(ctx context.Context, workspaceID string, now time.Time, viewer *time.Location) (*Summary, error) {
	workspace, err := s.store.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	maxDeadline, err := MaxDeadline(workspace)
	if err != nil {
		return nil, err
	}

	state := ClassifyAutostop(workspace, now)
	summary := &Summary{
		Workspace:      workspace,
		Autostart:      AutostartDisplay(workspace.AutostartSchedule),
		Autostop:       FormatAutostop(state, viewer),
		AutostopState:  state,
		IsShuttingDown: IsShuttingDown(workspace, nil, now),
		MinDeadline:    MinDeadline(now),
		MaxDeadline:    maxDeadline,
	}

	if next, ok := nextAutostart(workspace, now); ok {
		summary.NextAutostart = &next
	}

	if deadline, err := Deadline(workspace); err == nil {
		summary.Deadline = &deadline
		summary.MaxExtendHours = MaxDeadlineChange(deadline, summary.MaxDeadline)
		summary.MaxReduceHours = MaxDeadlineChange(deadline, summary.MinDeadline)
	}

	return summary, nil
}

// nextAutostart evaluates the workspace's autostart schedule in the zone its
// directive names. Broken schedules are logged and treated as manual.
func nextAutostart(workspace *domain.Workspace, now time.Time) (time.Time, bool) {
	if workspace.AutostartSchedule == nil || *workspace.AutostartSchedule == "" {
		return time.Time{}, false
	}
	raw := *workspace.AutostartSchedule
	next, err := schedule.Next(raw, now, schedule.ExtractTimezone(raw, schedule.DefaultTimezone))
	if err != nil {
		slog.Warn("cannot evaluate autostart schedule",
			"workspace_id", workspace.ID,
			"schedule", raw,
			"error", err,
		)
		return time.Time{}, false
	}
	return next, true
}

// ExtendDeadline moves a running workspace's deadline. The new deadline must
// lie within [MinDeadline(now), MaxDeadline(workspace)].
func (s *ScheduleService) ExtendDeadline(ctx context.Context, workspaceID string, deadline, now time.Time) (*domain.Workspace, error) {
	workspace, err := s.store.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if !workspace.IsRunning() {
		return nil, fmt.Errorf("%w: workspace %s is %s", domain.ErrWorkspaceNotRunning, workspace.ID, workspace.LatestBuild.Status)
	}
	if _, err := Deadline(workspace); err != nil {
		return nil, err
	}
	if err := ValidateDeadline(workspace, deadline, now); err != nil {
		return nil, err
	}

	deadline = deadline.UTC()
	if err := s.store.UpdateDeadline(ctx, workspace.ID, deadline); err != nil {
		return nil, fmt.Errorf("update deadline: %w", err)
	}
	workspace.LatestBuild.Deadline = &deadline

	slog.Info("workspace deadline changed",
		"workspace_id", workspace.ID,
		"deadline", deadline,
	)

	return workspace, nil
}

// SetAutostart sets a daily autostart at the HH:mm time in zone tz. An empty
// time clears the schedule.
func (s *ScheduleService) SetAutostart(ctx context.Context, workspaceID, t, tz string) (*domain.Workspace, error) {
	var autostart *string
	if t != "" {
		if tz == "" {
			tz = schedule.DefaultTimezone
		}
		if _, err := schedule.LoadLocation(tz); err != nil {
			return nil, err
		}
		raw, err := schedule.TimeToCron(t, tz)
		if err != nil {
			return nil, err
		}
		autostart = &raw
	}

	workspace, err := s.store.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateAutostart(ctx, workspace.ID, autostart); err != nil {
		return nil, fmt.Errorf("update autostart: %w", err)
	}
	workspace.AutostartSchedule = autostart

	return workspace, nil
}

// SetTTL sets how long the workspace runs after each start. Nil or zero means
// it only stops manually.
func (s *ScheduleService) SetTTL(ctx context.Context, workspaceID string, ttlMillis *int64) (*domain.Workspace, error) {
	if ttlMillis != nil && *ttlMillis < 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidTTL, *ttlMillis)
	}

	workspace, err := s.store.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateTTL(ctx, workspace.ID, ttlMillis); err != nil {
		return nil, fmt.Errorf("update ttl: %w", err)
	}
	workspace.TTLMillis = ttlMillis

	return workspace, nil
}

// ShuttingDown lists running workspaces whose deadline has passed at now.
func (s *ScheduleService) ShuttingDown(ctx context.Context, now time.Time) ([]*domain.Workspace, error) {
	running, err := s.store.ListRunning(ctx)
	if err != nil {
		return nil, fmt.Errorf("list running workspaces: %w", err)
	}

	var result []*domain.Workspace
	for _, workspace := range running {
		if IsShuttingDown(workspace, nil, now) {
			result = append(result, workspace)
		}
	}
	return result, nil
}
