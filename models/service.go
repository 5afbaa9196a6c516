package models

import "time"

// DefaultServiceDuration applies when a service has no duration configured.
const DefaultServiceDuration = 30 * time.Minute

// Service is something a tenant sells, e.g. a haircut.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	TenantID        string    `bson:"tenantId" json:"tenantId"`
	Name            string    `bson:"name" json:"name"`
	Price           float64   `bson:"price" json:"price"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	Active          bool      `bson:"active" json:"active"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// Duration returns the service length, falling back to DefaultServiceDuration.
func (s Service) Duration() time.Duration {
	if s.DurationMinutes <= 0 {
		return DefaultServiceDuration
	}
	return time.Duration(s.DurationMinutes) * time.Minute
}

// ServiceInput is the admin payload for adding a service.
type ServiceInput struct {
	Name            string  `json:"name" binding:"required"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}
