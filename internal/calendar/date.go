package calendar

import "time"

// Date returns the calendar date y-m-d as midnight UTC. Out-of-range values
// normalize the way time.Date does.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOf strips the time of day from t, keeping the calendar day t shows in
// its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// AddDays offsets a calendar date by n days.
func AddDays(date time.Time, n int) time.Time {
	y, m, d := date.Date()
	return Date(y, m, d+n)
}

// After reports whether calendar date a falls after calendar date b.
// Time of day is ignored on both sides.
func After(a, b time.Time) bool {
	return DateOf(a).After(DateOf(b))
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
