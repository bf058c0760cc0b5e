package app

import (
	"time"

	"fitrooms/internal/domain"
)

// Calendar turns the current instant into a calendar date in the
// application time zone.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar returns a Calendar for loc. A nil now uses time.Now and a nil
// loc uses UTC.
func NewCalendar(loc *time.Location, now func() time.Time) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Calendar{loc: loc, now: now}
}

// Now returns the current instant.
func (c Calendar) Now() time.Time { return c.clock()() }

// Today returns the current calendar date.
func (c Calendar) Today() domain.Date {
	return domain.DateOf(c.Now(), c.Location())
}

// Location returns the application time zone.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c Calendar) clock() func() time.Time {
	if c.now == nil {
		return time.Now
	}
	return c.now
}
