package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidMonthDay is returned by ParseMonthDay for malformed input.
var ErrInvalidMonthDay = errors.New("invalid month-day")

// MonthDay is a recurring yearly date such as a permit office's fixed
// opening day.
type MonthDay struct {
	Month time.Month
	Day   int
}

// ParseMonthDay accepts "MM-DD". February 29 is accepted.
func ParseMonthDay(s string) (MonthDay, error) {
	s = strings.TrimSpace(s)
	mm, dd, ok := strings.Cut(s, "-")
	if !ok || len(mm) != 2 || len(dd) != 2 {
		return MonthDay{}, fmt.Errorf("%w: %q", ErrInvalidMonthDay, s)
	}
	month, err := strconv.Atoi(mm)
	if err != nil || month < 1 || month > 12 {
		return MonthDay{}, fmt.Errorf("%w: %q", ErrInvalidMonthDay, s)
	}
	day, err := strconv.Atoi(dd)
	// 2000 is a leap year, so February allows 29 here.
	if err != nil || day < 1 || day > daysIn(time.Month(month), 2000) {
		return MonthDay{}, fmt.Errorf("%w: %q", ErrInvalidMonthDay, s)
	}
	return MonthDay{Month: time.Month(month), Day: day}, nil
}

// In resolves the month-day to a calendar date in year. February 29 falls
// back to February 28 in non-leap years.
func (md MonthDay) In(year int) time.Time {
	day := md.Day
	if md.Month == time.February && day == 29 && !IsLeap(year) {
		day = 28
	}
	return Date(year, md.Month, day)
}

// String formats md as "MM-DD".
func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

func daysIn(m time.Month, year int) int {
	// Day 0 of the next month is the last day of m.
	return Date(year, m+1, 0).Day()
}
