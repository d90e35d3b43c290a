package service

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// durationMagnitudes phrases a duration already snapped by durationBucket
// ("8 hours", "a day"). Every bucket lands on an exact multiple of its unit.
var durationMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "a few seconds", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "a minute", DivBy: time.Minute},
	{D: time.Hour, Format: "%d minutes", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "an hour", DivBy: time.Hour},
	{D: humanize.Day, Format: "%d hours", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "a day", DivBy: humanize.Day},
	{D: humanize.Month, Format: "%d days", DivBy: humanize.Day},
	{D: 2 * humanize.Month, Format: "a month", DivBy: humanize.Month},
	{D: humanize.Year, Format: "%d months", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "a year", DivBy: humanize.Year},
	{D: math.MaxInt64, Format: "%d years", DivBy: humanize.Year},
}

// durationBucket rounds d to the nearest unit of the step it falls in. Steps
// switch at 45s, 90s, 45m, 90m, 22h, 36h, 26d, 46d, 11 months and 18 months,
// the same cut-offs browsers show for relative times. Months are 30 days.
func durationBucket(d time.Duration) time.Duration {
	if d < 0 {
		d = -d
	}

	switch seconds := roundUnits(d, time.Second); {
	case seconds <= 44:
		return 0
	case seconds <= 89:
		return time.Minute
	}

	switch minutes := roundUnits(d, time.Minute); {
	case minutes <= 44:
		return time.Duration(minutes) * time.Minute
	case minutes <= 89:
		return time.Hour
	}

	switch hours := roundUnits(d, time.Hour); {
	case hours <= 21:
		return time.Duration(hours) * time.Hour
	case hours <= 35:
		return humanize.Day
	}

	switch days := roundUnits(d, humanize.Day); {
	case days <= 25:
		return time.Duration(days) * humanize.Day
	case days <= 45:
		return humanize.Month
	}

	switch months := roundUnits(d, humanize.Month); {
	case months <= 10:
		return time.Duration(months) * humanize.Month
	case months <= 17:
		return humanize.Year
	}

	return time.Duration(roundUnits(d, humanize.Year)) * humanize.Year
}

// roundUnits divides d by unit, rounding halves up.
func roundUnits(d, unit time.Duration) int64 {
	n := d / unit
	if d%unit >= unit/2 {
		n++
	}
	return int64(n)
}

// HumanizeDuration renders d as an approximate English duration.
func HumanizeDuration(d time.Duration) string {
	base := time.Unix(0, 0)
	return humanize.CustomRelTime(base, base.Add(durationBucket(d)), "", "", durationMagnitudes)
}

// RelativeTime renders then relative to now, e.g. "in 9 hours" or
// "2 days ago".
func RelativeTime(then, now time.Time) string {
	d := then.Sub(now)
	if d > 0 {
		return "in " + HumanizeDuration(d)
	}
	return HumanizeDuration(d) + " ago"
}
