package domain

import "time"

// BuildStatus is the provisioning status of a workspace build.
type BuildStatus string

const (
	BuildStatusPending  BuildStatus = "pending"
	BuildStatusStarting BuildStatus = "starting"
	BuildStatusRunning  BuildStatus = "running"
	BuildStatusStopping BuildStatus = "stopping"
	BuildStatusStopped  BuildStatus = "stopped"
	BuildStatusFailed   BuildStatus = "failed"
	BuildStatusCanceled BuildStatus = "canceled"
	BuildStatusDeleted  BuildStatus = "deleted"
)

// IsValid checks if the status is one of the allowed values.
func (s BuildStatus) IsValid() bool {
	switch s {
	case BuildStatusPending, BuildStatusStarting, BuildStatusRunning, BuildStatusStopping,
		BuildStatusStopped, BuildStatusFailed, BuildStatusCanceled, BuildStatusDeleted:
		return true
	default:
		return false
	}
}

// BuildTransition is the lifecycle transition a build performs.
type BuildTransition string

const (
	BuildTransitionStart  BuildTransition = "start"
	BuildTransitionStop   BuildTransition = "stop"
	BuildTransitionDelete BuildTransition = "delete"
)

// Build is the latest build of a workspace.
type Build struct {
	Status     BuildStatus
	Transition BuildTransition
	// UpdatedAt marks when provisioning finished; runtime is counted from here.
	UpdatedAt time.Time
	Deadline  *time.Time
}

// Workspace is the read-only lifecycle view the schedule calculations consume.
type Workspace struct {
	ID                string
	Name              string
	OwnerName         string
	AutostartSchedule *string
	TTLMillis         *int64
	LatestBuild       Build
	CreatedAt         time.Time
}

// IsRunning returns true if the latest build started the workspace and it is up.
func (w *Workspace) IsRunning() bool {
	return w.LatestBuild.Status == BuildStatusRunning &&
		w.LatestBuild.Transition == BuildTransitionStart
}

// TTL returns the configured time-to-live, or zero when none is set.
func (w *Workspace) TTL() time.Duration {
	if w.TTLMillis == nil {
		return 0
	}
	return time.Duration(*w.TTLMillis) * time.Millisecond
}
