package workload

import (
	"strings"
	"time"
)

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

// ParseDate parses "YYYY-MM-DD" (or an RFC 3339 timestamp, keeping only its
// calendar date) into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DateOf returns the calendar date of t in loc, as UTC midnight.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Day returns a pointer to the UTC-midnight date y-m-d.
func Day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// Clock supplies the current instant and the calendar used to interpret
// due dates. The zero value uses time.Now in UTC.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Instant returns the current instant.
func (c Clock) Instant() time.Time { return c.now() }

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Today returns the current calendar date as UTC midnight.
func (c Clock) Today() time.Time {
	return DateOf(c.now(), c.location())
}

// dueInstant is midnight of the due date in the clock's location.
func (c Clock) dueInstant(due time.Time) time.Time {
	return time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, c.location())
}
