package models

// ReminderPayload is the asynq task body for an appointment reminder.
type ReminderPayload struct {
	AppointmentID  string `json:"appointmentId"`
	TenantID       string `json:"tenantId"`
	ConversationID string `json:"conversationId"` // Where the reminder is sent
	Body           string `json:"body"`
	FireDate       string `json:"fireDate"` // RFC3339, informational
}
