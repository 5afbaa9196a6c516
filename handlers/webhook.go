package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookingbot/models"
	"bookingbot/services/messaging"
)

// MessageDispatcher queues inbound messages for processing.
type MessageDispatcher interface {
	Dispatch(ctx context.Context, ev models.InboundEvent) (bool, error)
}

// WebhookHandler receives message deliveries from the gateway.
type WebhookHandler struct {
	Dispatcher MessageDispatcher
}

func NewWebhookHandler(d MessageDispatcher) *WebhookHandler {
	return &WebhookHandler{Dispatcher: d}
}

// ReceiveMessagesHandler queues every message of the delivery and answers
// before any of them is processed.
func (h *WebhookHandler) ReceiveMessagesHandler(c *gin.Context) {
	logger := getLogger(c)

	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("Invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	accepted, ignored, invalid := 0, 0, 0
	for _, ev := range payload.Messages {
		ok, err := h.Dispatcher.Dispatch(c.Request.Context(), ev)
		switch {
		case errors.Is(err, messaging.ErrInvalidEvent):
			invalid++
		case err != nil:
			logger.Error("Failed to dispatch message", zap.String("messageId", ev.MessageID), zap.Error(err))
			invalid++
		case ok:
			accepted++
		default:
			ignored++
		}
	}

	c.JSON(http.StatusAccepted, gin.H{
		"accepted": accepted,
		"ignored":  ignored,
		"invalid":  invalid,
	})
}
