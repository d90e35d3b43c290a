package service

import (
	"fmt"
	"time"

	"github.com/mtlprog/wsschedule/internal/domain"
)

const (
	// MinExtension is how far ahead of now a deadline must stay while it is
	// being edited.
	MinExtension = 30 * time.Minute

	// MaxExtension caps how long a workspace may run after its build finished.
	MaxExtension = 24 * time.Hour
)

// IsShuttingDown returns true if a running workspace is past its deadline.
// When deadline is nil the latest build's deadline is used; a workspace with no
// deadline is never shutting down.
func IsShuttingDown(workspace *domain.Workspace, deadline *time.Time, now time.Time) bool {
	if workspace == nil {
		return false
	}
	if deadline == nil {
		deadline = workspace.LatestBuild.Deadline
	}
	if deadline == nil {
		return false
	}
	return workspace.IsRunning() && now.UTC().After(deadline.UTC())
}

// MaxDeadline returns the latest instant the workspace may be automatically
// stopped at. Runtime counts from the build's updated_at rather than its start,
// so provisioning time does not eat into the budget.
func MaxDeadline(workspace *domain.Workspace) (time.Time, error) {
	if workspace == nil {
		return time.Time{}, fmt.Errorf("%w: cannot calculate max deadline", domain.ErrUndefinedWorkspace)
	}
	return workspace.LatestBuild.UpdatedAt.UTC().Add(MaxExtension), nil
}

// MinDeadline returns the earliest instant a deadline may be moved to.
func MinDeadline(now time.Time) time.Time {
	return now.UTC().Add(MinExtension)
}

// Deadline returns the latest build's deadline in UTC.
func Deadline(workspace *domain.Workspace) (time.Time, error) {
	if workspace == nil {
		return time.Time{}, fmt.Errorf("%w: cannot read deadline", domain.ErrUndefinedWorkspace)
	}
	if workspace.LatestBuild.Deadline == nil {
		return time.Time{}, fmt.Errorf("%w: workspace %s", domain.ErrNoDeadline, workspace.ID)
	}
	return workspace.LatestBuild.Deadline.UTC(), nil
}

// MaxDeadlineChange returns how many whole hours separate deadline from one of
// its bounds (MinDeadline or MaxDeadline). Partial hours are truncated.
func MaxDeadlineChange(deadline, extremeDeadline time.Time) int {
	hours := int(deadline.Sub(extremeDeadline) / time.Hour)
	if hours < 0 {
		return -hours
	}
	return hours
}

// ValidateDeadline checks that deadline lies within [MinDeadline(now), MaxDeadline(workspace)].
func ValidateDeadline(workspace *domain.Workspace, deadline, now time.Time) error {
	maxDeadline, err := MaxDeadline(workspace)
	if err != nil {
		return err
	}
	minDeadline := MinDeadline(now)

	if deadline.Before(minDeadline) {
		return fmt.Errorf("%w: %s is before the minimum %s",
			domain.ErrDeadlineOutOfRange, deadline.UTC().Format(time.RFC3339), minDeadline.Format(time.RFC3339))
	}
	if deadline.After(maxDeadline) {
		return fmt.Errorf("%w: %s is after the maximum %s",
			domain.ErrDeadlineOutOfRange, deadline.UTC().Format(time.RFC3339), maxDeadline.Format(time.RFC3339))
	}
	return nil
}
