package models

import "time"

// InboundEvent is one text message delivered by the messaging gateway.
type InboundEvent struct {
	MessageID      string    `json:"messageId"`      // Gateway message id, used for dedupe
	ChannelID      string    `json:"channelId"`      // Bot number that received the message
	ConversationID string    `json:"conversationId"` // End user's address
	Text           string    `json:"text"`
	FromSelf       bool      `json:"fromSelf"`
	ReceivedAt     time.Time `json:"receivedAt"`
}

// WebhookPayload is the body the gateway posts to the webhook.
type WebhookPayload struct {
	Messages []InboundEvent `json:"messages" binding:"required"`
}
