package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mtlprog/wsschedule/internal/schedule"
)

type contextKey string

const (
	// ContextKeyViewerLocation is the key for storing the viewer's zone in request context.
	ContextKeyViewerLocation contextKey = "viewer_location"

	// HeaderTimezone carries the viewer's IANA zone, e.g. "America/Chicago".
	HeaderTimezone = "X-Timezone"
)

// ViewerTimezone resolves the zone deadlines are rendered in for a request.
type ViewerTimezone struct {
	fallback *time.Location
}

// NewViewerTimezone creates a ViewerTimezone falling back to the given zone
// when a request names none.
func NewViewerTimezone(fallback *time.Location) *ViewerTimezone {
	if fallback == nil {
		fallback = time.UTC
	}
	return &ViewerTimezone{fallback: fallback}
}

// Resolve reads the X-Timezone header and adds the viewer's location to the
// request context. Unknown zones are rejected with 400.
func (m *ViewerTimezone) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc := m.fallback

		if tz := strings.TrimSpace(r.Header.Get(HeaderTimezone)); tz != "" {
			resolved, err := schedule.LoadLocation(tz)
			if err != nil {
				http.Error(w, "invalid "+HeaderTimezone+" header", http.StatusBadRequest)
				return
			}
			loc = resolved
		}

		ctx := context.WithValue(r.Context(), ContextKeyViewerLocation, loc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetViewerLocation retrieves the viewer's zone from request context, or UTC
// when the middleware did not run.
func GetViewerLocation(ctx context.Context) *time.Location {
	loc, ok := ctx.Value(ContextKeyViewerLocation).(*time.Location)
	if !ok || loc == nil {
		return time.UTC
	}
	return loc
}
