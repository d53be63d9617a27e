package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeOfDay is returned by ParseTimeOfDay for malformed input.
var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// DefaultOpenTime is used when a site does not say when its permits open.
var DefaultOpenTime = TimeOfDay{Hour: 7}

// TimeOfDay is a wall-clock reading with no date or zone attached.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" on a 24-hour clock.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// String formats t as "HH:MM", or "HH:MM:SS" when seconds are set.
func (t TimeOfDay) String() string {
	if t.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
