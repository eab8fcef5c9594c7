// utils/dates.go
package utils

import "time"

// CalendarDate is the day t falls on in its own location, as UTC midnight.
// Date columns are stored and compared in this form.
func CalendarDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayAfter is the first instant after the calendar day date in loc.
func DayAfter(date time.Time, loc *time.Location) time.Time {
	year, month, day := date.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, loc)
}

// DaysBetween counts calendar days from start to end, each read in its own
// location.
func DaysBetween(start, end time.Time) int {
	return int(CalendarDate(end).Sub(CalendarDate(start)).Hours() / 24)
}

// ParseDate accepts a plain YYYY-MM-DD date or an RFC 3339 timestamp and
// returns the calendar date it names.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(t), nil
}
