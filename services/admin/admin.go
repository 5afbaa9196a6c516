package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bookingbot/models"
	"bookingbot/utils"
)

// Login exchanges the admin API key for a signed token.
func (a *DefaultAdminService) Login(apiKey string) (string, error) {
	if a.APIKeyHash == "" || apiKey == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.APIKeyHash), []byte(apiKey)); err != nil {
		return "", ErrInvalidCredentials
	}
	return utils.GenerateToken(a.JWTSecret, "admin", "admin", AdminTokenTTL)
}

func (a *DefaultAdminService) RegisterTenant(ctx context.Context, input models.TenantInput) (*models.Tenant, error) {
	name := strings.TrimSpace(input.Name)
	channel := strings.TrimSpace(input.ChannelID)
	if name == "" || channel == "" {
		return nil, fmt.Errorf("%w: name and channelId are required", ErrInvalidInput)
	}
	tenant := &models.Tenant{
		Name:      name,
		ChannelID: channel,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Repos.Tenants.Create(ctx, tenant); err != nil {
		return nil, err
	}
	utils.GetLogger().Sugar().Infof("Registered tenant %s (%s) on channel %s", tenant.Name, tenant.ID, tenant.ChannelID)
	return tenant, nil
}

func (a *DefaultAdminService) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	return a.Repos.Tenants.GetByID(ctx, id)
}

func (a *DefaultAdminService) AddService(ctx context.Context, tenantID string, input models.ServiceInput) (*models.Service, error) {
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	case input.Price < 0:
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	case input.DurationMinutes <= 0:
		return nil, fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}
	if _, err := a.Repos.Tenants.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	svc := &models.Service{
		TenantID:        tenantID,
		Name:            name,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		Active:          true,
		CreatedAt:       time.Now().UTC(),
	}
	if err := a.Repos.Services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (a *DefaultAdminService) ListServices(ctx context.Context, tenantID string) ([]models.Service, error) {
	return a.Repos.Services.ListByTenant(ctx, tenantID)
}

// ListAppointments returns every appointment of the tenant starting on date
// (YYYY-MM-DD), cancelled ones included.
func (a *DefaultAdminService) ListAppointments(ctx context.Context, tenantID, date string) ([]models.Appointment, error) {
	loc := a.Location
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return a.Repos.Appointments.ListBetween(ctx, tenantID, day, day.AddDate(0, 0, 1))
}

// CancelAppointment frees the appointment's slot for new bookings.
func (a *DefaultAdminService) CancelAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := a.Repos.Appointments.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Sugar().Infof("Cancelled appointment %s of tenant %s", appt.ID, appt.TenantID)
	return appt, nil
}
