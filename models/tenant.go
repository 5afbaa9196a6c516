package models

import "time"

// Tenant is a business that takes bookings through its own bot channel.
type Tenant struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`           // Display name used in the welcome message
	ChannelID string    `bson:"channelId" json:"channelId"` // Bot phone number; unique across tenants
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// TenantInput is the admin payload for registering a tenant.
type TenantInput struct {
	Name      string `json:"name" binding:"required"`
	ChannelID string `json:"channelId" binding:"required"`
}
