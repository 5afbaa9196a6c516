package models

// DayOption is a bookable day as offered in the day menu.
type DayOption struct {
	Label string `json:"label"` // e.g. "20/10 (terça-feira)"
	Value string `json:"value"` // YYYY-MM-DD
}
