// Package schedule implements the restricted cron dialect used for workspace
// autostart and quiet hours: minute, hour and day-of-week fields with an
// optional leading CRON_TZ=<zone> directive.
package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // zones resolve the same on every host

	"github.com/mtlprog/wsschedule/internal/domain"
)

// DefaultTimezone is the zone a schedule is assumed to be in unless one is
// specified.
const DefaultTimezone = "UTC"

const timezoneDirective = "CRON_TZ="

var timezoneDirectivePattern = regexp.MustCompile(`CRON_TZ=\S*\s`)

// StripTimezone removes every timezone directive from a schedule string, so
// StripTimezone(StripTimezone(s)) == StripTimezone(s). A well-formed schedule
// carries at most one.
func StripTimezone(raw string) string {
	for {
		loc := timezoneDirectivePattern.FindStringIndex(raw)
		if loc == nil {
			return raw
		}
		raw = raw[:loc[0]] + raw[loc[1]:]
	}
}

// ExtractTimezone returns the zone named by the first timezone directive in
// raw, or defaultTZ when there is none. The zone is not validated.
func ExtractTimezone(raw, defaultTZ string) string {
	match := timezoneDirectivePattern.FindString(raw)
	if match == "" {
		return defaultTZ
	}
	return strings.TrimSpace(strings.TrimPrefix(match, timezoneDirective))
}

// LoadLocation resolves an IANA zone name. An empty name means UTC. Local is
// rejected so results never depend on the host's zone.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	if tz == "Local" {
		return nil, fmt.Errorf("%w: %q depends on the host", domain.ErrInvalidTimezone, tz)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrInvalidTimezone, tz, err)
	}
	return loc, nil
}
