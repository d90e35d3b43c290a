package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/wsschedule/internal/domain"
	"github.com/mtlprog/wsschedule/internal/schedule"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{raw: "30 9 * * *", want: "At 09:30 AM"},
		{raw: "0 0 * * *", want: "At 12:00 AM"},
		{raw: "15 13 * * *", want: "At 01:15 PM"},
		{raw: "0 12 * * *", want: "At 12:00 PM"},
		{raw: "CRON_TZ=US/Central 30 9 * * 1-5", want: "At 09:30 AM, Monday through Friday"},
		{raw: "30 9 * * 1", want: "At 09:30 AM, only on Monday"},
		{raw: "30 9 * * 1,5", want: "At 09:30 AM, only on Monday and Friday"},
		{raw: "30 9 * * 1,3,5", want: "At 09:30 AM, only on Monday, Wednesday, and Friday"},
		{raw: "30 9 * * 7", want: "At 09:30 AM, only on Sunday"},
		{raw: "30 9 * * 5-7", want: "At 09:30 AM, Friday through Sunday"},
		{raw: "CRON_TZ=Europe/Berlin 30 9 * * 1,7", want: "At 09:30 AM, only on Monday and Sunday"},
		{raw: "30 9 * * MON-FRI", want: "At 09:30 AM, Monday through Friday"},
		{raw: "30 9 * * 1-3,6", want: "At 09:30 AM, Monday through Wednesday and Saturday"},
	}

	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			t.Parallel()
			got, err := schedule.Describe(c.raw)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestDescribe_Invalid(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"30 9 * * */2", "nonsense", "30 9 1 * *"} {
		_, err := schedule.Describe(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidSchedule, "schedule %q", bad)
	}
}
