package conversation

import (
	"context"
	"time"

	"bookingbot/models"
)

// Store is the persistence the booking dialogue reads and writes.
type Store interface {
	// FindTenantByChannel returns models.ErrTenantNotFound when no active
	// tenant owns channelID.
	FindTenantByChannel(ctx context.Context, channelID string) (*models.Tenant, error)
	ListActiveServices(ctx context.Context, tenantID string) ([]models.Service, error)
	// ListOccupiedStarts returns the start of every live appointment on date (YYYY-MM-DD).
	ListOccupiedStarts(ctx context.Context, tenantID, date string) ([]time.Time, error)
	EnsureClient(ctx context.Context, tenantID, phone, name string) (string, error)
	// CreateAppointment returns models.ErrSlotTaken when another appointment
	// holds the start. Creating an appointment whose id already exists is a no-op.
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	// ReleaseAppointment cancels the appointment with id if it exists. A
	// missing appointment is not an error.
	ReleaseAppointment(ctx context.Context, id string) error
}

// ReminderScheduler arranges a reminder message ahead of an appointment.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt models.Appointment, conversationID, body string) error
}
