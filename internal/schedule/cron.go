package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mtlprog/wsschedule/internal/domain"
)

// Descriptors and the seconds field are not supported. Day-of-month and month
// are kept so stored schedules stay valid five-field cron.
const parserFormat = cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow

var (
	defaultParser = cron.NewParser(parserFormat)

	timeOfDayPattern  = regexp.MustCompile(`^[0-9][0-9]:[0-9][0-9]$`)
	exactFieldPattern = regexp.MustCompile(`^[0-9]+$`)
)

const (
	cronFieldCount     = 5
	wildcardCronField  = "*"
	dayOfMonthFieldIdx = 2
	monthFieldIdx      = 3
	dayOfWeekFieldIdx  = 4
)

// ValidTime reports whether s is a 24-hour time of day in the strict HH:mm
// form. Leading zeros are required.
func ValidTime(s string) bool {
	if !timeOfDayPattern.MatchString(s) {
		return false
	}
	hour, _ := strconv.Atoi(s[:2])
	minute, _ := strconv.Atoi(s[3:])
	return hour < 24 && minute < 60
}

// TimeToCron builds a daily schedule firing at the given HH:mm. When tz is not
// empty the schedule carries a CRON_TZ directive for it.
//
//	TimeToCron("09:30", "")                // "30 9 * * *"
//	TimeToCron("09:30", "America/Chicago") // "CRON_TZ=America/Chicago 30 9 * * *"
func TimeToCron(t, tz string) (string, error) {
	if !ValidTime(t) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTimeFormat, t)
	}
	hour, _ := strconv.Atoi(t[:2])
	minute, _ := strconv.Atoi(t[3:])

	var prefix string
	if tz != "" {
		prefix = timezoneDirective + tz + " "
	}
	return fmt.Sprintf("%s%d %d * * *", prefix, minute, hour), nil
}

// Schedule is a parsed restricted cron expression. It wraps robfig/cron/v3 and
// keeps the stripped expression around for serialization.
type Schedule struct {
	sched   *cron.SpecSchedule
	cronStr string
}

// Parse parses a schedule string. A schedule without a timezone directive is
// interpreted in UTC rather than the host's zone.
func Parse(raw string) (*Schedule, error) {
	loc, err := LoadLocation(ExtractTimezone(raw, DefaultTimezone))
	if err != nil {
		return nil, err
	}
	return parseIn(StripTimezone(raw), loc)
}

// Next returns the earliest instant strictly after ref that matches schedule,
// with fields interpreted in tz. A directive embedded in schedule is ignored:
// the zone always arrives out of band.
func Next(raw string, ref time.Time, tz string) (time.Time, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return time.Time{}, err
	}
	sched, err := parseIn(StripTimezone(raw), loc)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(ref), nil
}

func parseIn(cronStr string, loc *time.Location) (*Schedule, error) {
	cronStr = strings.Join(strings.Fields(cronStr), " ")
	if err := validateSpec(cronStr); err != nil {
		return nil, err
	}

	specSched, err := defaultParser.Parse(withSundayAsZero(cronStr))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", domain.ErrInvalidSchedule, cronStr, err)
	}
	sched, ok := specSched.(*cron.SpecSchedule)
	if !ok {
		return nil, fmt.Errorf("%w: expected *cron.SpecSchedule but got %T", domain.ErrInvalidSchedule, specSched)
	}
	sched.Location = loc

	return &Schedule{sched: sched, cronStr: cronStr}, nil
}

// withSundayAsZero rewrites day-of-week 7 to 0 for the parser, which only
// accepts 0-6. A range ending at 7 is split so it still covers Sunday. The
// caller keeps the original text for display.
func withSundayAsZero(cronStr string) string {
	fields := strings.Fields(cronStr)
	if len(fields) != cronFieldCount {
		return cronStr
	}

	items := strings.Split(fields[dayOfWeekFieldIdx], ",")
	for i, item := range items {
		lo, hi, isRange := strings.Cut(item, "-")
		switch {
		case item == "7" || item == "7-7":
			items[i] = "0"
		case item == "0-7":
			items[i] = "0-6"
		case isRange && hi == "7":
			items[i] = lo + "-6,0"
		}
	}
	fields[dayOfWeekFieldIdx] = strings.Join(items, ",")
	return strings.Join(fields, " ")
}

// validateSpec enforces the restricted dialect: five fields, exact minute and
// hour values, and wildcards for day-of-month and month.
func validateSpec(spec string) error {
	fields := strings.Fields(spec)
	if len(fields) != cronFieldCount {
		return fmt.Errorf("%w: expected %d fields with an optional CRON_TZ=<timezone> prefix, got %q",
			domain.ErrInvalidSchedule, cronFieldCount, spec)
	}
	if !exactFieldPattern.MatchString(fields[0]) || !exactFieldPattern.MatchString(fields[1]) {
		return fmt.Errorf("%w: minute and hour must be exact values in %q", domain.ErrInvalidSchedule, spec)
	}
	if fields[dayOfMonthFieldIdx] != wildcardCronField || fields[monthFieldIdx] != wildcardCronField {
		return fmt.Errorf("%w: day-of-month and month must be * in %q", domain.ErrInvalidSchedule, spec)
	}
	return nil
}

// String serializes the schedule with its leading CRON_TZ directive.
func (s Schedule) String() string {
	var sb strings.Builder
	_, _ = sb.WriteString(timezoneDirective)
	_, _ = sb.WriteString(s.sched.Location.String())
	_, _ = sb.WriteString(" ")
	_, _ = sb.WriteString(s.cronStr)
	return sb.String()
}

// Location returns the zone the schedule is evaluated in.
func (s Schedule) Location() *time.Location {
	return s.sched.Location
}

// Cron returns the expression without a timezone directive.
func (s Schedule) Cron() string {
	return s.cronStr
}

// Next returns the next scheduled instant after t, in the schedule's zone.
func (s Schedule) Next(t time.Time) time.Time {
	return s.sched.Next(t).In(s.sched.Location)
}

// Minute returns the minute field.
func (s Schedule) Minute() int {
	minute, _ := strconv.Atoi(s.field(0))
	return minute
}

// Hour returns the hour field.
func (s Schedule) Hour() int {
	hour, _ := strconv.Atoi(s.field(1))
	return hour
}

// DayOfWeek returns the raw day-of-week field.
func (s Schedule) DayOfWeek() string {
	return s.field(dayOfWeekFieldIdx)
}

// Time returns the minute and hour fields in time.Kitchen form, e.g. "9:30AM".
func (s Schedule) Time() string {
	return time.Date(2000, time.January, 1, s.Hour(), s.Minute(), 0, 0, time.UTC).Format(time.Kitchen)
}

func (s Schedule) field(i int) string {
	return strings.Fields(s.cronStr)[i]
}
