package slot

import "time"

const DateLayout = "2006-01-02"

// DateOf drops the time-of-day component of t, keeping its location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay compares calendar dates, ignoring time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// At combines the calendar date of date with a time of day. Seconds and
// sub-second components are zero.
func At(date time.Time, tod TimeOfDay) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour, tod.Minute, 0, 0, date.Location())
}

// Bookable reports whether date may be offered for booking: not before today
// and no more than horizonDays after today. A non-positive horizon disables
// the upper bound.
func Bookable(date, now time.Time, horizonDays int) bool {
	day := DateOf(date)
	today := DateOf(now.In(date.Location()))
	if day.Before(today) {
		return false
	}
	if horizonDays > 0 && day.After(today.AddDate(0, 0, horizonDays)) {
		return false
	}
	return true
}

// ParseDate parses a YYYY-MM-DD string as a local calendar date.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}
