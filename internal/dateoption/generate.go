// Package dateoption enumerates candidate trip windows for a season.
package dateoption

import (
	"fmt"
	"time"

	"github.com/pkordes/trailcrew/internal/calendar"
	"github.com/pkordes/trailcrew/internal/domain"
)

const (
	// WindowStart is the weekday every window begins on.
	WindowStart = time.Wednesday
	// WindowDays is the length of a window, start and end inclusive.
	WindowDays = 5

	labelLayout = "Mon Jan 2"
)

// Season bounds the windows offered in a year. Both ends are inclusive.
type Season struct {
	Start calendar.MonthDay
	End   calendar.MonthDay
}

// DefaultSeason is June 1 through August 31.
var DefaultSeason = Season{
	Start: calendar.MonthDay{Month: time.June, Day: 1},
	End:   calendar.MonthDay{Month: time.August, Day: 31},
}

// ParseSeason builds a Season from two "MM-DD" strings.
func ParseSeason(start, end string) (Season, error) {
	s, err := calendar.ParseMonthDay(start)
	if err != nil {
		return Season{}, fmt.Errorf("season start: %w", err)
	}
	e, err := calendar.ParseMonthDay(end)
	if err != nil {
		return Season{}, fmt.Errorf("season end: %w", err)
	}
	season := Season{Start: s, End: e}
	if from, to := season.bounds(2000); to.Before(from) {
		return Season{}, fmt.Errorf("season end %s is before start %s", e, s)
	}
	return season, nil
}

func (s Season) bounds(year int) (time.Time, time.Time) {
	return s.Start.In(year), s.End.In(year)
}

// Generate returns every Wednesday-to-Sunday window in year that starts on
// or after the season start and ends on or before the season end, one per
// week, in chronological order. The result depends only on its arguments.
func Generate(year int, season Season) []domain.DateOption {
	from, to := season.bounds(year)

	offset := (int(WindowStart) - int(from.Weekday()) + 7) % 7
	start := calendar.AddDays(from, offset)

	var opts []domain.DateOption
	for {
		end := calendar.AddDays(start, WindowDays-1)
		if end.After(to) {
			break
		}
		opts = append(opts, domain.DateOption{
			StartDate: start,
			EndDate:   end,
			Label:     Label(start, end),
		})
		start = calendar.AddDays(start, 7)
	}
	return opts
}

// Label renders a window as "Wed Jun 3 - Sun Jun 7".
func Label(start, end time.Time) string {
	return start.Format(labelLayout) + " - " + end.Format(labelLayout)
}
