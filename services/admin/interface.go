// Package admin registers tenants and their services and gives operators a
// view of booked appointments.
package admin

import (
	"context"
	"errors"
	"time"

	"bookingbot/database/repository"
	"bookingbot/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// AdminTokenTTL is how long an admin session token is valid.
const AdminTokenTTL = 12 * time.Hour

type AdminService interface {
	Login(apiKey string) (string, error)
	RegisterTenant(ctx context.Context, input models.TenantInput) (*models.Tenant, error)
	GetTenant(ctx context.Context, id string) (*models.Tenant, error)
	AddService(ctx context.Context, tenantID string, input models.ServiceInput) (*models.Service, error)
	ListServices(ctx context.Context, tenantID string) ([]models.Service, error)
	ListAppointments(ctx context.Context, tenantID, date string) ([]models.Appointment, error)
	CancelAppointment(ctx context.Context, id string) (*models.Appointment, error)
}

// DefaultAdminService is the production implementation.
type DefaultAdminService struct {
	Repos repository.Repositories
	// Location interprets the dates of ListAppointments.
	Location *time.Location
	// APIKeyHash is the bcrypt hash of the admin API key.
	APIKeyHash string
	JWTSecret  []byte
}
