// Package reminder schedules appointment reminders on the asynq queue.
package reminder

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"bookingbot/models"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds the task for payload, due at fireAt. The task id is
// the appointment id so enqueueing the same appointment twice is rejected.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.AppointmentID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}
