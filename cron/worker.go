package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"bookingbot/config"
	"bookingbot/models"
	"bookingbot/services/messaging"
	"bookingbot/services/reminder"
)

// AppointmentLookup reads the appointment a reminder belongs to.
type AppointmentLookup interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
}

// ReminderQueueOpt is the Redis connection used by both the reminder client and worker.
func ReminderQueueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker starts the reminder worker in the background and
// returns the server so the caller can shut it down.
func InitReminderWorker(sender messaging.Sender, appts AppointmentLookup, logger *zap.Logger) *asynq.Server {
	logger = logger.With(zap.String("component", "reminder.worker"))

	srv := asynq.NewServer(
		ReminderQueueOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(reminder.TypeSendReminder, NewReminderHandler(sender, appts, config.AppConfig.ExternalCallTimeout, logger))

	go func() {
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			if errors.Is(err, asynq.ErrServerClosed) {
				return
			}
			logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Error("giving up on reminder worker, reminders will not be delivered")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// NewReminderHandler delivers reminder tasks through sender. Reminders for
// appointments that were cancelled or no longer exist are dropped.
func NewReminderHandler(sender messaging.Sender, appts AppointmentLookup, timeout time.Duration, logger *zap.Logger) asynq.HandlerFunc {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return fmt.Errorf("decode reminder payload: %v: %w", err, asynq.SkipRetry)
		}
		log := logger.With(zap.String("appointmentId", p.AppointmentID))

		if appts != nil {
			lookupCtx, cancel := context.WithTimeout(ctx, timeout)
			appt, err := appts.GetByID(lookupCtx, p.AppointmentID)
			cancel()
			switch {
			case errors.Is(err, models.ErrNotFound):
				log.Info("appointment gone, reminder dropped")
				return nil
			case err != nil:
				return fmt.Errorf("load appointment: %w", err)
			case appt.Status == models.AppointmentCancelled:
				log.Info("appointment cancelled, reminder dropped")
				return nil
			}
		}

		sendCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := sender.SendText(sendCtx, p.ConversationID, p.Body); err != nil {
			log.Error("sending reminder failed", zap.Error(err))
			return err
		}
		log.Info("reminder sent", zap.String("fireDate", p.FireDate))
		return nil
	}
}
