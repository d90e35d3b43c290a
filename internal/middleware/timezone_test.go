package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/wsschedule/internal/middleware"
)

func TestViewerTimezone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	var seen *time.Location
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetViewerLocation(r.Context())
	})
	handler := middleware.NewViewerTimezone(chicago).Resolve(next)

	cases := []struct {
		name   string
		header string
		status int
		want   string
	}{
		{name: "Fallback", status: http.StatusOK, want: "America/Chicago"},
		{name: "Header", header: "Asia/Tokyo", status: http.StatusOK, want: "Asia/Tokyo"},
		{name: "Invalid", header: "Nowhere/Land", status: http.StatusBadRequest},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if c.header != "" {
				req.Header.Set(middleware.HeaderTimezone, c.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, c.status, w.Code)
			if c.want != "" {
				require.NotNil(t, seen)
				assert.Equal(t, c.want, seen.String())
			}
		})
	}
}
