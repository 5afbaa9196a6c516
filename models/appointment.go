package models

import "time"

const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

// Appointment is the record produced by a completed booking dialogue.
type Appointment struct {
	ID        string    `bson:"id" json:"id"`
	TenantID  string    `bson:"tenantId" json:"tenantId"`
	ClientID  string    `bson:"clientId" json:"clientId"`
	ServiceID string    `bson:"serviceId" json:"serviceId"`
	Start     time.Time `bson:"start" json:"start"`
	End       time.Time `bson:"end" json:"end"` // Start + service duration
	Status    string    `bson:"status" json:"status"`
	// SlotKey is set while the appointment holds its slot and unset on
	// cancellation; (tenantId, slotKey) is unique.
	SlotKey   string    `bson:"slotKey,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// SlotKeyFor is the canonical slot identity of a start instant.
func SlotKeyFor(start time.Time) string {
	return start.UTC().Format(time.RFC3339)
}
