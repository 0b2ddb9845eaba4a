// Package calendar provides calendar-date arithmetic on time.Time values
// normalised to midnight UTC. Policies work in whole days; no timezone handling.
package calendar

import "time"

// Layout is the wire format for dates.
const Layout = "2006-01-02"

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day truncates t to its calendar day, keeping t's wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}

// AddMonths adds n calendar months to t. When the target month is shorter
// than t's day-of-month, the result is clamped to the target month's last day
// (Jan 31 + 1 month = Feb 28), unlike time.AddDate which rolls over.
func AddMonths(t time.Time, n int) time.Time {
	t = Day(t)
	first := Date(t.Year(), t.Month(), 1).AddDate(0, n, 0)
	last := daysIn(first.Year(), first.Month())
	day := t.Day()
	if day > last {
		day = last
	}
	return Date(first.Year(), first.Month(), day)
}

// AddDays adds n whole days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween returns the whole number of days from start to end
// (negative when end precedes start).
func DaysBetween(start, end time.Time) int64 {
	return int64(Day(end).Sub(Day(start)).Hours() / 24)
}

// Before reports whether a falls on an earlier calendar day than b.
func Before(a, b time.Time) bool {
	return Day(a).Before(Day(b))
}

// Within reports whether d falls in [from, till], both ends inclusive.
func Within(d, from, till time.Time) bool {
	d = Day(d)
	return !d.Before(Day(from)) && !d.After(Day(till))
}

// Max returns the later of a and b.
func Max(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func daysIn(year int, month time.Month) int {
	return Date(year, month+1, 1).AddDate(0, 0, -1).Day()
}
