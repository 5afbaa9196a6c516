package availability

import (
	"time"
)

// FreeSlots returns the grid slots of day (YYYY-MM-DD) that are still
// bookable: on the current day slots strictly before now are dropped, and
// any slot whose (date, HH:MM) matches an occupied start is dropped. The
// result keeps grid order and may be empty.
func (c *Calendar) FreeSlots(day string, occupied []time.Time, now time.Time) ([]string, error) {
	d, err := c.ParseDay(day)
	if err != nil {
		return nil, err
	}
	date := d.Format(dateLayout)

	taken := make(map[string]struct{}, len(occupied))
	for _, ts := range occupied {
		local := ts.In(c.loc)
		if local.Format(dateLayout) != date {
			continue
		}
		taken[local.Format(timeLayout)] = struct{}{}
	}

	now = now.In(c.loc)
	isToday := now.Format(dateLayout) == date

	free := make([]string, 0, len(c.grid))
	for i, slot := range c.grid {
		if isToday {
			m := c.minutes[i]
			start := time.Date(d.Year(), d.Month(), d.Day(), m/60, m%60, 0, 0, c.loc)
			if start.Before(now) {
				continue
			}
		}
		if _, ok := taken[slot]; ok {
			continue
		}
		free = append(free, slot)
	}
	return free, nil
}
