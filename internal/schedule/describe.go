package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mtlprog/wsschedule/internal/domain"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Describe renders a schedule as English, e.g. "At 09:30 AM, Monday through
// Friday". Any timezone directive is ignored.
func Describe(raw string) (string, error) {
	sched, err := parseIn(StripTimezone(raw), time.UTC)
	if err != nil {
		return "", err
	}

	days, err := describeDaysOfWeek(sched.DayOfWeek())
	if err != nil {
		return "", err
	}

	desc := "At " + formatClock(sched.Hour(), sched.Minute())
	if days != "" {
		desc += ", " + days
	}
	return desc, nil
}

// formatClock renders a 12-hour clock with a zero-padded hour, e.g. "09:30 AM".
func formatClock(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, minute, period)
}

func describeDaysOfWeek(field string) (string, error) {
	if field == "*" || field == "?" {
		return "", nil
	}
	if strings.Contains(field, "/") {
		return "", fmt.Errorf("%w: day-of-week steps cannot be described: %q", domain.ErrInvalidSchedule, field)
	}

	var (
		parts    []string
		hasRange bool
	)
	for _, item := range strings.Split(field, ",") {
		if lo, hi, ok := strings.Cut(item, "-"); ok {
			from, err := parseWeekday(lo)
			if err != nil {
				return "", err
			}
			to, err := parseWeekday(hi)
			if err != nil {
				return "", err
			}
			parts = append(parts, from.String()+" through "+to.String())
			hasRange = true
			continue
		}
		day, err := parseWeekday(item)
		if err != nil {
			return "", err
		}
		parts = append(parts, day.String())
	}

	joined := joinWithAnd(parts)
	if hasRange {
		return joined, nil
	}
	return "only on " + joined, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	if day, ok := weekdayNames[strings.ToLower(s)]; ok {
		return day, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 7 {
		return 0, fmt.Errorf("%w: unknown day of week %q", domain.ErrInvalidSchedule, s)
	}
	// 7 is an alias for Sunday.
	return time.Weekday(n % 7), nil
}

func joinWithAnd(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}

// DaysOfWeek returns a short form of the day-of-week field: "daily" for a
// wildcard, otherwise the field with day numbers replaced by abbreviations.
func (s Schedule) DaysOfWeek() string {
	dow := s.DayOfWeek()
	if dow == "*" {
		return "daily"
	}
	for _, weekday := range []time.Weekday{
		time.Sunday,
		time.Monday,
		time.Tuesday,
		time.Wednesday,
		time.Thursday,
		time.Friday,
		time.Saturday,
	} {
		dow = strings.ReplaceAll(dow, strconv.Itoa(int(weekday)), weekday.String()[:3])
	}
	return dow
}
