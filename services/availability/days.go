package availability

import (
	"fmt"
	"time"

	"bookingbot/models"
)

// Weekday names in pt-BR, indexed by time.Weekday.
var weekdayNames = [...]string{
	"domingo",
	"segunda-feira",
	"terça-feira",
	"quarta-feira",
	"quinta-feira",
	"sexta-feira",
	"sábado",
}

// AvailableDays scans forward from today (inclusive) and returns the first
// DaysOffered days that are neither weekend nor holiday, in ascending order.
func (c *Calendar) AvailableDays(today time.Time) []models.DayOption {
	today = today.In(c.loc)
	d := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, c.loc)

	days := make([]models.DayOption, 0, DaysOffered)
	for len(days) < DaysOffered {
		value := d.Format(dateLayout)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday && !c.IsHoliday(value) {
			days = append(days, models.DayOption{
				Label: DayLabel(d),
				Value: value,
			})
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// DayLabel renders a date the way the day menu shows it: "20/10 (terça-feira)".
func DayLabel(d time.Time) string {
	return fmt.Sprintf("%s (%s)", d.Format("02/01"), weekdayNames[d.Weekday()])
}

// ShortStamp renders an instant as "20/10 às 09:00".
func ShortStamp(t time.Time) string {
	return t.Format("02/01") + " às " + t.Format(timeLayout)
}
