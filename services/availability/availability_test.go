package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	brt         = time.FixedZone("BRT", -3*60*60)
	defaultGrid = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"}
)

func newTestCalendar(t *testing.T, holidays ...string) *Calendar {
	t.Helper()
	c, err := NewCalendar(defaultGrid, holidays, brt)
	require.NoError(t, err)
	return c
}

func TestNewCalendarValidation(t *testing.T) {
	_, err := NewCalendar(nil, nil, brt)
	assert.Error(t, err, "empty grid")

	_, err = NewCalendar([]string{"9h"}, nil, brt)
	assert.Error(t, err, "malformed slot")

	_, err = NewCalendar([]string{"10:00", "09:00"}, nil, brt)
	assert.Error(t, err, "descending grid")

	_, err = NewCalendar([]string{"09:00"}, []string{"21/04/2026"}, brt)
	assert.Error(t, err, "malformed holiday")

	c, err := NewCalendar([]string{"9:05"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:05"}, c.Grid())
	assert.Equal(t, time.UTC, c.Location())
}

func TestAvailableDaysSkipsWeekendsAndHolidays(t *testing.T) {
	c := newTestCalendar(t, "2026-04-21")
	today := time.Date(2026, 4, 17, 15, 0, 0, 0, brt) // Friday

	days := c.AvailableDays(today)
	require.Len(t, days, DaysOffered)

	var values []string
	for _, d := range days {
		values = append(values, d.Value)
	}
	assert.Equal(t, []string{
		"2026-04-17", "2026-04-20", "2026-04-22", "2026-04-23",
		"2026-04-24", "2026-04-27", "2026-04-28",
	}, values)
	assert.Equal(t, "17/04 (sexta-feira)", days[0].Label)
	assert.Equal(t, "22/04 (quarta-feira)", days[2].Label)
}

func TestAvailableDaysProperties(t *testing.T) {
	holidays := []string{"2026-10-20", "2026-10-21", "2026-11-02", "2026-12-25"}
	c := newTestCalendar(t, holidays...)

	start := time.Date(2026, 10, 1, 8, 0, 0, 0, brt)
	for i := 0; i < 120; i++ {
		today := start.AddDate(0, 0, i)
		days := c.AvailableDays(today)
		require.Len(t, days, DaysOffered)

		prev := ""
		for _, d := range days {
			parsed, err := c.ParseDay(d.Value)
			require.NoError(t, err)
			assert.NotEqual(t, time.Saturday, parsed.Weekday(), d.Value)
			assert.NotEqual(t, time.Sunday, parsed.Weekday(), d.Value)
			assert.False(t, c.IsHoliday(d.Value), d.Value)
			assert.Greater(t, d.Value, prev)
			assert.GreaterOrEqual(t, d.Value, today.Format(dateLayout))
			prev = d.Value
		}
	}
}

func TestAvailableDaysUsesCalendarZone(t *testing.T) {
	c := newTestCalendar(t)
	// 01:30 UTC on Tuesday is still Monday evening in BRT.
	today := time.Date(2026, 10, 20, 1, 30, 0, 0, time.UTC)
	days := c.AvailableDays(today)
	assert.Equal(t, "2026-10-19", days[0].Value)
}

func TestFreeSlotsFutureDayIgnoresNow(t *testing.T) {
	c := newTestCalendar(t)
	now := time.Date(2026, 10, 19, 23, 0, 0, 0, brt)

	free, err := c.FreeSlots("2026-10-20", nil, now)
	require.NoError(t, err)
	assert.Equal(t, defaultGrid, free)
}

func TestFreeSlotsTodayDropsPastSlots(t *testing.T) {
	c := newTestCalendar(t)
	now := time.Date(2026, 10, 19, 13, 0, 0, 0, brt)

	free, err := c.FreeSlots("2026-10-19", nil, now)
	require.NoError(t, err)
	// 13:00 is not strictly before now and stays.
	assert.Equal(t, []string{"13:00", "14:00", "15:00", "16:00", "17:00"}, free)

	now = time.Date(2026, 10, 19, 13, 0, 1, 0, brt)
	free, err = c.FreeSlots("2026-10-19", nil, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00", "15:00", "16:00", "17:00"}, free)
}

func TestFreeSlotsTodayComparedInCalendarZone(t *testing.T) {
	c := newTestCalendar(t)
	// 12:30 UTC is 09:30 BRT.
	now := time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)

	free, err := c.FreeSlots("2026-10-19", nil, now)
	require.NoError(t, err)
	assert.Equal(t, "10:00", free[0])
}

func TestFreeSlotsRemovesOccupied(t *testing.T) {
	c := newTestCalendar(t)
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, brt)

	occupied := []time.Time{
		time.Date(2026, 10, 19, 9, 0, 0, 0, brt),
		time.Date(2026, 10, 19, 17, 0, 0, 0, time.UTC), // 14:00 BRT
		time.Date(2026, 10, 20, 10, 0, 0, 0, brt),      // other day
		time.Date(2026, 10, 19, 12, 0, 0, 0, brt),      // not on the grid
	}
	free, err := c.FreeSlots("2026-10-19", occupied, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00", "13:00", "15:00", "16:00", "17:00"}, free)
}

func TestFreeSlotsExactMatchOnly(t *testing.T) {
	c := newTestCalendar(t)
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, brt)

	// 09:10 would have matched "09:00"-prefix style checks; it must not block 09:00.
	occupied := []time.Time{time.Date(2026, 10, 19, 9, 10, 0, 0, brt)}
	free, err := c.FreeSlots("2026-10-19", occupied, now)
	require.NoError(t, err)
	assert.Equal(t, defaultGrid, free)
}

func TestFreeSlotsFullyBooked(t *testing.T) {
	c := newTestCalendar(t)
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, brt)

	var occupied []time.Time
	for _, slot := range defaultGrid {
		start, err := c.StartOf("2026-10-19", slot)
		require.NoError(t, err)
		occupied = append(occupied, start)
	}
	free, err := c.FreeSlots("2026-10-19", occupied, now)
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestFreeSlotsIsOrderedSubsequenceOfGrid(t *testing.T) {
	c := newTestCalendar(t)
	base := time.Date(2026, 10, 19, 0, 0, 0, 0, brt)

	for hour := 0; hour < 24; hour++ {
		now := base.Add(time.Duration(hour)*time.Hour + 30*time.Minute)
		occupied := []time.Time{
			base.Add(time.Duration(9+hour%8) * time.Hour),
		}
		free, err := c.FreeSlots("2026-10-19", occupied, now)
		require.NoError(t, err)

		gi := 0
		for _, slot := range free {
			for gi < len(defaultGrid) && defaultGrid[gi] != slot {
				gi++
			}
			require.Less(t, gi, len(defaultGrid), "slot %s not in grid order", slot)
			gi++
			for _, ts := range occupied {
				assert.NotEqual(t, ts.In(brt).Format(timeLayout), slot)
			}
		}
	}
}

func TestFreeSlotsRejectsBadDay(t *testing.T) {
	c := newTestCalendar(t)
	_, err := c.FreeSlots("19/10/2026", nil, time.Now())
	assert.Error(t, err)
}

func TestStartOfAndLabels(t *testing.T) {
	c := newTestCalendar(t)
	start, err := c.StartOf("2026-10-20", "14:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 17, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, "20/10 às 14:00", ShortStamp(start))
	assert.Equal(t, "20/10 (terça-feira)", DayLabel(start))

	from, to, err := c.DayBounds("2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, to.Sub(from))
}
