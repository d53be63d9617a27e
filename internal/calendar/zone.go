// Package calendar holds the civil-time primitives the permit scheduler is
// built on: a fixed civil timezone, wall-clock times of day, recurring
// month-days, and calendar-day offsets that are immune to DST shifts.
//
// Dates (no time component) are represented as time.Time at midnight UTC,
// the same shape pgtype.Date produces, so they round-trip through storage
// without a timezone ever being applied to them.
package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata" // embedded zoneinfo so LoadZone works on minimal images
)

// DefaultZoneName is the civil timezone permits are published in when none
// is configured.
const DefaultZoneName = "America/Los_Angeles"

// Zone is the fixed civil timezone in which all permit open times are
// defined. Every instant it returns is normalized to UTC.
type Zone struct {
	loc *time.Location
}

// LoadZone resolves an IANA zone name such as "America/Denver".
func LoadZone(name string) (Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("calendar.LoadZone: %w", err)
	}
	return Zone{loc: loc}, nil
}

// NewZone wraps an existing location. A nil location means UTC.
func NewZone(loc *time.Location) Zone {
	return Zone{loc: loc}
}

// Location returns the underlying *time.Location.
func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}
	return z.loc
}

// String returns the zone name.
func (z Zone) String() string {
	return z.Location().String()
}

// At assembles the instant at which the zone's wall clock reads tod on the
// calendar day of date. Only the year, month and day of date are used, read
// in date's own location.
func (z Zone) At(date time.Time, tod TimeOfDay) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour, tod.Minute, tod.Second, 0, z.Location()).UTC()
}

// AddDays moves instant by n calendar days in the zone, keeping its
// wall-clock time. Across a DST transition the absolute distance is 23 or
// 25 hours rather than 24.
func (z Zone) AddDays(instant time.Time, n int) time.Time {
	local := instant.In(z.Location())
	y, m, d := local.Date()
	return time.Date(y, m, d+n, local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), z.Location()).UTC()
}

// Local converts instant to the zone's wall clock for display.
func (z Zone) Local(instant time.Time) time.Time {
	return instant.In(z.Location())
}

// Format renders instant in the zone using a time layout.
func (z Zone) Format(instant time.Time, layout string) string {
	return z.Local(instant).Format(layout)
}

// Today returns the civil date of instant in the zone.
func (z Zone) Today(instant time.Time) time.Time {
	return DateOf(z.Local(instant))
}
