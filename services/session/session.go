// Package session keeps the per-conversation booking dialogue state.
package session

import (
	"time"

	"bookingbot/models"
)

// Step is where a conversation is in the booking dialogue.
type Step int

const (
	StepStart Step = iota
	StepAwaitName
	StepAwaitService
	StepAwaitDay
	StepAwaitTime
)

func (s Step) String() string {
	switch s {
	case StepStart:
		return "start"
	case StepAwaitName:
		return "await_name"
	case StepAwaitService:
		return "await_service"
	case StepAwaitDay:
		return "await_day"
	case StepAwaitTime:
		return "await_time"
	default:
		return "unknown"
	}
}

// Data holds the answers collected so far.
type Data struct {
	Phone         string
	TenantID      string
	Name          string
	ServiceID     string
	Date          string // YYYY-MM-DD
	Time          string // HH:MM
	AppointmentID string // reused across retries of the same date and time
}

// Offered caches the menus last shown, so a numeric reply is checked
// against exactly what the user saw.
type Offered struct {
	Services []models.Service
	Days     []models.DayOption
	Times    []string
}

// Session is one conversation's dialogue state.
type Session struct {
	ConversationID string
	Step           Step
	Data           Data
	Offered        Offered
	CreatedAt      time.Time
	LastActivity   time.Time
}

// Clone returns a deep copy, safe to read without holding the lease.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Offered.Services = append([]models.Service(nil), s.Offered.Services...)
	c.Offered.Days = append([]models.DayOption(nil), s.Offered.Days...)
	c.Offered.Times = append([]string(nil), s.Offered.Times...)
	return &c
}

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
