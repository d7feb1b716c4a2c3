package service

import (
	"time"

	"household-planner/internal/model"
)

// Clock is the source of "now" and "today" for the engine.
type Clock interface {
	Now() time.Time
	Today() model.Date
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

func (c SystemClock) Today() model.Date {
	return model.DateOf(c.Now())
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

// FixedDay returns a clock pinned to noon UTC of the given day.
func FixedDay(d model.Date) FixedClock {
	return FixedClock{At: d.Time().Add(12 * time.Hour)}
}

func (c FixedClock) Now() time.Time {
	return c.At
}

func (c FixedClock) Today() model.Date {
	return model.DateOf(c.At)
}
