package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/wsschedule/internal/domain"
	"github.com/mtlprog/wsschedule/internal/schedule"
)

func TestStripTimezone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "NoDirective", raw: "30 9 * * 1-5", want: "30 9 * * 1-5"},
		{name: "Directive", raw: "CRON_TZ=US/Central 30 9 * * 1-5", want: "30 9 * * 1-5"},
		{name: "TabSeparated", raw: "CRON_TZ=Europe/Berlin\t0 22 * * *", want: "0 22 * * *"},
		{name: "EmptyZone", raw: "CRON_TZ= 0 22 * * *", want: "0 22 * * *"},
		{name: "Empty", raw: "", want: ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, c.want, schedule.StripTimezone(c.raw))
		})
	}
}

func TestStripTimezone_Idempotent(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"30 9 * * *",
		"CRON_TZ=UTC 30 9 * * *",
		"CRON_TZ=UTC CRON_TZ=Asia/Tokyo 30 9 * * *",
		"CRON_CRON_TZ=a TZ=b 0 0 * * *",
		"CRON_TZ=",
	} {
		once := schedule.StripTimezone(raw)
		assert.Equal(t, once, schedule.StripTimezone(once), "raw %q", raw)
	}
}

func TestExtractTimezone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "US/Central", schedule.ExtractTimezone("CRON_TZ=US/Central 30 9 * * 1-5", schedule.DefaultTimezone))
	assert.Equal(t, "UTC", schedule.ExtractTimezone("30 9 * * 1-5", schedule.DefaultTimezone))
	assert.Equal(t, "Asia/Tokyo", schedule.ExtractTimezone("30 9 * * 1-5", "Asia/Tokyo"))
	// Only the first directive counts.
	assert.Equal(t, "Europe/Paris", schedule.ExtractTimezone("CRON_TZ=Europe/Paris CRON_TZ=Asia/Tokyo 0 9 * * *", "UTC"))
	// Extraction is textual; the zone is not checked.
	assert.Equal(t, "Not/AZone", schedule.ExtractTimezone("CRON_TZ=Not/AZone 0 9 * * *", "UTC"))
}

func TestTimezoneRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tz := range []string{"UTC", "America/Chicago", "Australia/Sydney", "Asia/Kolkata"} {
		for _, tod := range []string{"00:00", "09:30", "23:59", "12:05"} {
			raw, err := schedule.TimeToCron(tod, tz)
			require.NoError(t, err)
			assert.Equal(t, tz, schedule.ExtractTimezone(raw, schedule.DefaultTimezone))
			assert.NotContains(t, schedule.StripTimezone(raw), "CRON_TZ=")
		}
	}
}

func TestLoadLocation(t *testing.T) {
	t.Parallel()

	loc, err := schedule.LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	loc, err = schedule.LoadLocation("America/Chicago")
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())

	_, err = schedule.LoadLocation("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)

	_, err = schedule.LoadLocation("Local")
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)
}
