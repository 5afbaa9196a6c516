// Package availability turns the shared business schedule into bookable days
// and time slots.
package availability

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// DaysOffered is how many bookable days are listed in the day menu.
	DaysOffered = 7
)

// Calendar holds the static schedule: the daily slot grid, the holidays and
// the time zone every date and time is interpreted in.
type Calendar struct {
	grid     []string
	minutes  []int // minutes from midnight, parallel to grid
	holidays map[string]struct{}
	loc      *time.Location
}

// NewCalendar validates the grid ("HH:MM", strictly ascending) and holidays
// ("YYYY-MM-DD"). A nil location means UTC.
func NewCalendar(grid, holidays []string, loc *time.Location) (*Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("slot grid is empty")
	}

	c := &Calendar{
		grid:     make([]string, 0, len(grid)),
		minutes:  make([]int, 0, len(grid)),
		holidays: make(map[string]struct{}, len(holidays)),
		loc:      loc,
	}
	for _, raw := range grid {
		t, err := time.Parse(timeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid slot %q: %w", raw, err)
		}
		m := t.Hour()*60 + t.Minute()
		if n := len(c.minutes); n > 0 && m <= c.minutes[n-1] {
			return nil, fmt.Errorf("slot grid must be strictly ascending, %q follows %q", raw, c.grid[n-1])
		}
		c.grid = append(c.grid, t.Format(timeLayout))
		c.minutes = append(c.minutes, m)
	}
	for _, raw := range holidays {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", raw, err)
		}
		c.holidays[d.Format(dateLayout)] = struct{}{}
	}
	return c, nil
}

// LoadCalendar is NewCalendar with the time zone given by IANA name.
func LoadCalendar(grid, holidays []string, timezone string) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return NewCalendar(grid, holidays, loc)
}

// Location is the zone dates and times are interpreted in.
func (c *Calendar) Location() *time.Location { return c.loc }

// Grid returns a copy of the slot grid.
func (c *Calendar) Grid() []string {
	out := make([]string, len(c.grid))
	copy(out, c.grid)
	return out
}

// IsHoliday reports whether date (YYYY-MM-DD) is a configured holiday.
func (c *Calendar) IsHoliday(date string) bool {
	_, ok := c.holidays[date]
	return ok
}

// ParseDay reads a YYYY-MM-DD date as midnight in the calendar zone.
func (c *Calendar) ParseDay(date string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, date, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d, nil
}

// StartOf combines a date and an "HH:MM" slot into an instant in the calendar zone.
func (c *Calendar) StartOf(date, slot string) (time.Time, error) {
	d, err := c.ParseDay(date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(timeLayout, slot)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", slot, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, c.loc), nil
}

// DayBounds returns [midnight, next midnight) of date in the calendar zone.
func (c *Calendar) DayBounds(date string) (time.Time, time.Time, error) {
	d, err := c.ParseDay(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return d, d.AddDate(0, 0, 1), nil
}
