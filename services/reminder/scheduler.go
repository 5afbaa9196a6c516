package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"bookingbot/models"
)

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler enqueues a reminder lead before each appointment.
type Scheduler struct {
	client Enqueuer
	lead   time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewScheduler returns a scheduler firing lead before the start. A zero
// lead disables reminders.
func NewScheduler(client Enqueuer, lead time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		client: client,
		lead:   lead,
		now:    time.Now,
		logger: logger.With(zap.String("component", "reminder.scheduler")),
	}
}

func (s *Scheduler) ScheduleReminder(ctx context.Context, appt models.Appointment, conversationID, body string) error {
	if s.lead <= 0 {
		return nil
	}
	fireAt := appt.Start.Add(-s.lead)
	if !fireAt.After(s.now()) {
		s.logger.Debug("reminder time already passed, skipping", zap.String("appointmentId", appt.ID))
		return nil
	}

	payload := models.ReminderPayload{
		AppointmentID:  appt.ID,
		TenantID:       appt.TenantID,
		ConversationID: conversationID,
		Body:           body,
		FireDate:       fireAt.UTC().Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	s.logger.Info("reminder scheduled",
		zap.String("appointmentId", appt.ID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt),
	)
	return nil
}
