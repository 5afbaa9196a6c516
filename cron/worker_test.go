package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookingbot/models"
	"bookingbot/services/reminder"
)

type sentMessage struct{ to, text string }

type captureSender struct {
	sent []sentMessage
	err  error
}

func (c *captureSender) SendText(_ context.Context, to, text string) error {
	c.sent = append(c.sent, sentMessage{to, text})
	return c.err
}

type lookupFunc func(ctx context.Context, id string) (*models.Appointment, error)

func (f lookupFunc) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return f(ctx, id)
}

func reminderTask(t *testing.T) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(models.ReminderPayload{AppointmentID: "appt-1", ConversationID: "5511@s.whatsapp.net", Body: "lembrete"})
	require.NoError(t, err)
	return asynq.NewTask(reminder.TypeSendReminder, b)
}

func withStatus(status string) lookupFunc {
	return func(context.Context, string) (*models.Appointment, error) {
		return &models.Appointment{ID: "appt-1", Status: status}, nil
	}
}

func TestReminderHandlerSends(t *testing.T) {
	sender := &captureSender{}
	h := NewReminderHandler(sender, withStatus(models.AppointmentPending), time.Second, zap.NewNop())

	require.NoError(t, h(context.Background(), reminderTask(t)))
	assert.Equal(t, []sentMessage{{"5511@s.whatsapp.net", "lembrete"}}, sender.sent)
}

func TestReminderHandlerDropsCancelledOrMissing(t *testing.T) {
	sender := &captureSender{}

	h := NewReminderHandler(sender, withStatus(models.AppointmentCancelled), time.Second, zap.NewNop())
	require.NoError(t, h(context.Background(), reminderTask(t)))

	missing := lookupFunc(func(context.Context, string) (*models.Appointment, error) { return nil, models.ErrNotFound })
	h = NewReminderHandler(sender, missing, time.Second, zap.NewNop())
	require.NoError(t, h(context.Background(), reminderTask(t)))

	assert.Empty(t, sender.sent)
}

func TestReminderHandlerErrorsRetry(t *testing.T) {
	sender := &captureSender{err: errors.New("gateway down")}
	h := NewReminderHandler(sender, nil, time.Second, zap.NewNop())
	assert.Error(t, h(context.Background(), reminderTask(t)))

	bad := asynq.NewTask(reminder.TypeSendReminder, []byte("{"))
	err := h(context.Background(), bad)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
