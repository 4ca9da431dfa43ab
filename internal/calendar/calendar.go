// Package calendar knows which days an exchange holds a regular session.
//
// The price window fetcher uses it to bound historical queries by date, and
// the breadth service uses it to drop bars stamped outside a session.
package calendar

import (
	"sync"
	"time"
)

// IsTradingDay returns true if d is a regular NYSE session day.
// It excludes Saturdays, Sundays and exchange holidays (with observance rules).
func IsTradingDay(d time.Time) bool {
	d = truncateToDate(d)
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := closures(d.Year())[d.Format("2006-01-02")]
	return !holiday
}

// LastNSessions returns the last n session days up to and including from
// (most recent first).
func LastNSessions(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	d := truncateToDate(from)

	for len(out) < n {
		if IsTradingDay(d) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

// SessionsBack returns the date of the session n sessions before from.
// With n <= 0 it returns the most recent session on or before from.
func SessionsBack(n int, from time.Time) time.Time {
	if n < 0 {
		n = 0
	}
	days := LastNSessions(n+1, from)
	return days[len(days)-1]
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var closuresByYear sync.Map

// closures returns the memoized holidays of year.
func closures(year int) map[string]struct{} {
	if v, ok := closuresByYear.Load(year); ok {
		return v.(map[string]struct{})
	}
	v, _ := closuresByYear.LoadOrStore(year, holidays(year))
	return v.(map[string]struct{})
}

// holidays returns the full-day closures of year, keyed by YYYY-MM-DD.
func holidays(year int) map[string]struct{} {
	out := make(map[string]struct{}, 10)
	add := func(t time.Time) { out[t.Format("2006-01-02")] = struct{}{} }

	// New Year's Day: a Saturday holiday is not moved back into the prior year.
	ny := date(year, time.January, 1)
	if ny.Weekday() == time.Sunday {
		add(ny.AddDate(0, 0, 1))
	} else if ny.Weekday() != time.Saturday {
		add(ny)
	}

	// Martin Luther King Jr. Day, Washington's Birthday.
	add(nthWeekday(year, time.January, time.Monday, 3))
	add(nthWeekday(year, time.February, time.Monday, 3))
	// Good Friday.
	add(easterSunday(year).AddDate(0, 0, -2))
	// Memorial Day.
	add(lastWeekday(year, time.May, time.Monday))
	if year >= 2022 {
		// Juneteenth.
		add(observed(date(year, time.June, 19)))
	}
	// Independence Day, Labor Day, Thanksgiving, Christmas.
	add(observed(date(year, time.July, 4)))
	add(nthWeekday(year, time.September, time.Monday, 1))
	add(nthWeekday(year, time.November, time.Thursday, 4))
	add(observed(date(year, time.December, 25)))

	return out
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// observed moves a Saturday holiday to Friday and a Sunday holiday to Monday.
func observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	d := date(year, month, 1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7*(n-1))
}

func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	d := date(year, month+1, 1).AddDate(0, 0, -1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return date(year, time.Month(month), day)
}
