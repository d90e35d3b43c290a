package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/wsschedule/internal/domain"
	"github.com/mtlprog/wsschedule/internal/schedule"
)

func TestTimeToCron(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		time string
		tz   string
		want string
	}{
		{name: "Morning", time: "09:30", want: "30 9 * * *"},
		{name: "Midnight", time: "00:00", want: "0 0 * * *"},
		{name: "LastMinute", time: "23:59", want: "59 23 * * *"},
		{name: "WithTimezone", time: "09:30", tz: "America/Chicago", want: "CRON_TZ=America/Chicago 30 9 * * *"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got, err := schedule.TimeToCron(c.time, c.tz)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestTimeToCron_InvalidTimeFormat(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"9:30", "25:61", "0930", "", "09:30:00", "ab:cd", " 09:30", "24:00", "12:60"} {
		_, err := schedule.TimeToCron(bad, "UTC")
		assert.ErrorIs(t, err, domain.ErrInvalidTimeFormat, "time %q", bad)
		assert.False(t, schedule.ValidTime(bad), "time %q", bad)
	}
}

func TestNext(t *testing.T) {
	t.Parallel()

	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	cases := []struct {
		name     string
		schedule string
		ref      time.Time
		tz       string
		want     time.Time
	}{
		{
			name:     "LaterToday",
			schedule: "30 9 * * *",
			ref:      time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC),
			tz:       "UTC",
			want:     time.Date(2023, 1, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "StrictlyAfter",
			schedule: "30 9 * * *",
			ref:      time.Date(2023, 1, 1, 9, 30, 0, 0, time.UTC),
			tz:       "UTC",
			want:     time.Date(2023, 1, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "YearRollover",
			schedule: "0 0 * * *",
			ref:      time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC),
			tz:       "UTC",
			want:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "ExplicitZoneWins",
			schedule: "CRON_TZ=Asia/Tokyo 30 9 * * *",
			ref:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			tz:       "America/Chicago",
			want:     time.Date(2023, 1, 1, 9, 30, 0, 0, chicago),
		},
		{
			name:     "DayOfWeek",
			schedule: "0 9 * * 1-5",
			// Saturday.
			ref:  time.Date(2023, 1, 7, 12, 0, 0, 0, time.UTC),
			tz:   "UTC",
			want: time.Date(2023, 1, 9, 9, 0, 0, 0, time.UTC),
		},
		{
			// 2:30am does not exist on 2023-10-01 in Sydney.
			name:     "DSTGap",
			schedule: "30 2 * * *",
			ref:      time.Date(2023, 10, 1, 0, 0, 0, 0, sydney),
			tz:       "Australia/Sydney",
			want:     time.Date(2023, 10, 2, 2, 30, 0, 0, sydney),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got, err := schedule.Next(c.schedule, c.ref, c.tz)
			require.NoError(t, err)
			assert.True(t, c.want.Equal(got), "want %s, got %s", c.want, got)
			assert.Equal(t, c.tz, got.Location().String())
		})
	}
}

func TestNext_Errors(t *testing.T) {
	t.Parallel()

	ref := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := schedule.Next("30 9 * * *", ref, "Not/AZone")
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)

	for _, bad := range []string{
		"30 9 * *",
		"30 9 1 * *",
		"30 9 * 6 *",
		"*/5 9 * * *",
		"30 9-17 * * *",
		"61 9 * * *",
		"@daily",
		"",
	} {
		_, err := schedule.Next(bad, ref, "UTC")
		assert.ErrorIs(t, err, domain.ErrInvalidSchedule, "schedule %q", bad)
	}
}

func TestNext_SundayAsSeven(t *testing.T) {
	t.Parallel()

	saturdayNoon := time.Date(2023, 1, 7, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2023, 1, 8, 9, 0, 0, 0, time.UTC)

	for _, raw := range []string{"0 9 * * 7", "0 9 * * 0", "0 9 * * 6-7", "0 9 * * 0-7", "0 9 * * 7-7", "0 9 * * 1,7"} {
		next, err := schedule.Next(raw, saturdayNoon, "UTC")
		require.NoError(t, err, "schedule %q", raw)
		assert.True(t, sunday.Equal(next), "schedule %q: got %s", raw, next)
	}

	// Monday through Wednesday must not pick up Sunday.
	next, err := schedule.Next("0 9 * * 1-3", saturdayNoon, "UTC")
	require.NoError(t, err)
	assert.True(t, sunday.AddDate(0, 0, 1).Equal(next), "got %s", next)

	sched, err := schedule.Parse("CRON_TZ=UTC 0 9 * * 5-7")
	require.NoError(t, err)
	assert.Equal(t, "CRON_TZ=UTC 0 9 * * 5-7", sched.String())
	assert.Equal(t, "5-7", sched.DayOfWeek())
}

func TestParse(t *testing.T) {
	t.Parallel()

	sched, err := schedule.Parse("CRON_TZ=US/Central 30 9 * * 1-5")
	require.NoError(t, err)
	assert.Equal(t, "US/Central", sched.Location().String())
	assert.Equal(t, "30 9 * * 1-5", sched.Cron())
	assert.Equal(t, "CRON_TZ=US/Central 30 9 * * 1-5", sched.String())
	assert.Equal(t, "9:30AM", sched.Time())
	assert.Equal(t, "Mon-Fri", sched.DaysOfWeek())

	sched, err = schedule.Parse("0 17 * * *")
	require.NoError(t, err)
	assert.Equal(t, "UTC", sched.Location().String())
	assert.Equal(t, "5:00PM", sched.Time())
	assert.Equal(t, "daily", sched.DaysOfWeek())

	next := sched.Next(time.Date(2023, 1, 1, 18, 0, 0, 0, time.UTC))
	assert.True(t, time.Date(2023, 1, 2, 17, 0, 0, 0, time.UTC).Equal(next), "got %s", next)

	_, err = schedule.Parse("CRON_TZ=Nowhere/Land 0 17 * * *")
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)
}
