package service

import (
	"strings"
	"time"

	"github.com/mtlprog/wsschedule/internal/domain"
	"github.com/mtlprog/wsschedule/internal/schedule"
)

// Labels used in schedule displays.
const (
	LabelManual             = "Manual"
	LabelShuttingDown       = "Workspace is shutting down"
	LabelAfterStart         = "after start"
	LabelAutostart          = "Starts at"
	LabelAutostop           = "Stops at"
	LabelInvalidTime        = "Invalid time"
	deadlineLayout          = "January 2, 2006 3:04 PM"
	quietHoursClockLayout   = "3:04PM"
	quietHoursWeekdayLayout = "Monday, January 2"
)

// AutostartDisplay describes an autostart schedule for display after the
// "Starts at" label. A nil or empty schedule means manual start.
func AutostartDisplay(autostart *string) string {
	if autostart == nil || *autostart == "" {
		return LabelManual
	}
	stripped := schedule.StripTimezone(*autostart)
	desc, err := schedule.Describe(stripped)
	if err != nil {
		return stripped
	}
	// The label already says "Starts at".
	return strings.TrimSpace(strings.Replace(desc, "At", "", 1))
}

// AutostopKind tags an AutostopState.
type AutostopKind int

const (
	// AutostopManual means the workspace never stops on its own.
	AutostopManual AutostopKind = iota
	// AutostopShuttingDown means the deadline passed while the workspace runs.
	AutostopShuttingDown
	// AutostopScheduledDeadline means a running workspace stops at Deadline.
	AutostopScheduledDeadline
	// AutostopRecurringTTL means the next start will run for TTL.
	AutostopRecurringTTL
)

// String returns the kind's wire name.
func (k AutostopKind) String() string {
	switch k {
	case AutostopShuttingDown:
		return "shutting_down"
	case AutostopScheduledDeadline:
		return "scheduled_deadline"
	case AutostopRecurringTTL:
		return "recurring_ttl"
	default:
		return "manual"
	}
}

// AutostopState is what autostop means for a workspace right now. Deadline is
// set only for AutostopScheduledDeadline, TTL only for AutostopRecurringTTL.
type AutostopState struct {
	Kind     AutostopKind
	Deadline time.Time
	TTL      time.Duration
}

// ClassifyAutostop derives the autostop state of a workspace. A running
// workspace's deadline is the source of truth, since the TTL may have been
// edited after the build started. Once stopped the deadline is gone and only
// the TTL says how long the next start will run.
func ClassifyAutostop(workspace *domain.Workspace, now time.Time) AutostopState {
	if workspace == nil {
		return AutostopState{Kind: AutostopManual}
	}

	if workspace.IsRunning() && workspace.LatestBuild.Deadline != nil {
		deadline := workspace.LatestBuild.Deadline.UTC()
		if IsShuttingDown(workspace, &deadline, now) {
			return AutostopState{Kind: AutostopShuttingDown}
		}
		return AutostopState{Kind: AutostopScheduledDeadline, Deadline: deadline}
	}

	if workspace.TTLMillis == nil || *workspace.TTLMillis < 1 {
		return AutostopState{Kind: AutostopManual}
	}
	return AutostopState{Kind: AutostopRecurringTTL, TTL: workspace.TTL()}
}

// FormatAutostop renders a state for display after the "Stops at" label.
// Deadlines are shown in the viewer's zone.
func FormatAutostop(state AutostopState, viewer *time.Location) string {
	switch state.Kind {
	case AutostopShuttingDown:
		return LabelShuttingDown
	case AutostopScheduledDeadline:
		if viewer == nil {
			viewer = time.UTC
		}
		return state.Deadline.In(viewer).Format(deadlineLayout)
	case AutostopRecurringTTL:
		return HumanizeDuration(state.TTL) + " " + LabelAfterStart
	default:
		return LabelManual
	}
}

// AutostopDisplay classifies and formats a workspace's autostop.
func AutostopDisplay(workspace *domain.Workspace, now time.Time, viewer *time.Location) string {
	return FormatAutostop(ClassifyAutostop(workspace, now), viewer)
}

// QuietHoursDisplay describes the next start of quiet hours at the HH:mm time
// in zone tz, e.g. "9:30AM tomorrow (in 14 hours)". It never fails:
// malformed input renders as "Invalid time".
func QuietHoursDisplay(t, tz string, now time.Time) string {
	if !schedule.ValidTime(t) {
		return LabelInvalidTime
	}

	// The zone goes to the evaluator directly instead of into the expression.
	raw, err := schedule.TimeToCron(t, "")
	if err != nil {
		return LabelInvalidTime
	}
	next, err := schedule.Next(raw, now, tz)
	if err != nil {
		return LabelInvalidTime
	}

	today := now.In(next.Location())
	display := next.Format(quietHoursClockLayout)
	switch {
	case sameDay(next, today):
		display += " today"
	case sameDay(next, today.AddDate(0, 0, 1)):
		display += " tomorrow"
	default:
		// Rare: only hit around DST changes.
		display += " on " + next.Format(quietHoursWeekdayLayout)
	}
	return display + " (" + RelativeTime(next, today) + ")"
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CalculateAutostopRequirementDaysValue maps a template's autostop
// requirement selector to the weekdays it enforces. Unknown selectors yield no
// days.
func CalculateAutostopRequirementDaysValue(value domain.AutostopRequirementDays) []string {
	switch value {
	case domain.AutostopRequirementDaily:
		days := make([]string, len(domain.Weekdays))
		copy(days, domain.Weekdays)
		return days
	case domain.AutostopRequirementSaturday:
		return []string{"saturday"}
	case domain.AutostopRequirementSunday:
		return []string{"sunday"}
	default:
		return []string{}
	}
}
