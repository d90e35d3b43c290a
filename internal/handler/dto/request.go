package dto

import "time"

// UpdateDeadlineRequest represents the request body for PUT /workspaces/{id}/deadline.
type UpdateDeadlineRequest struct {
	Deadline time.Time `json:"deadline"`
}

// UpdateAutostartRequest represents the request body for PUT /workspaces/{id}/autostart.
// An empty time clears the schedule.
type UpdateAutostartRequest struct {
	Time     string `json:"time"`
	Timezone string `json:"timezone,omitempty"`
}

// UpdateTTLRequest represents the request body for PUT /workspaces/{id}/ttl.
type UpdateTTLRequest struct {
	TTLMillis *int64 `json:"ttl_ms"`
}

// BuildCronRequest represents the request body for POST /cron.
type BuildCronRequest struct {
	Time     string `json:"time"`
	Timezone string `json:"timezone,omitempty"`
}
