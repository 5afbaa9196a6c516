package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bookingbot/database/repository"
	"bookingbot/models"
	"bookingbot/utils"
)

type memTenants struct {
	repository.TenantRepository
	byID map[string]*models.Tenant
}

func (m *memTenants) Create(_ context.Context, t *models.Tenant) error {
	for _, existing := range m.byID {
		if existing.ChannelID == t.ChannelID {
			return models.ErrChannelTaken
		}
	}
	t.ID = "tenant-" + t.ChannelID
	m.byID[t.ID] = t
	return nil
}

func (m *memTenants) GetByID(_ context.Context, id string) (*models.Tenant, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return t, nil
}

type memServices struct {
	repository.ServiceRepository
	created []models.Service
}

func (m *memServices) Create(_ context.Context, s *models.Service) error {
	s.ID = "svc-1"
	m.created = append(m.created, *s)
	return nil
}

type memAppointments struct {
	repository.AppointmentRepository
	from, to time.Time
}

func (m *memAppointments) ListBetween(_ context.Context, _ string, from, to time.Time) ([]models.Appointment, error) {
	m.from, m.to = from, to
	return nil, nil
}

func newTestService(t *testing.T) (*DefaultAdminService, *memServices, *memAppointments) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("let-me-in"), bcrypt.MinCost)
	require.NoError(t, err)

	services := &memServices{}
	appts := &memAppointments{}
	return &DefaultAdminService{
		Repos: repository.Repositories{
			Tenants:      &memTenants{byID: map[string]*models.Tenant{}},
			Services:     services,
			Appointments: appts,
		},
		Location:   time.FixedZone("BRT", -3*60*60),
		APIKeyHash: string(hash),
		JWTSecret:  []byte("test-secret"),
	}, services, appts
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)

	token, err := svc.Login("let-me-in")
	require.NoError(t, err)
	sub, role, err := utils.ExtractClaims([]byte("test-secret"), token)
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
	assert.Equal(t, "admin", role)

	_, err = svc.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterTenantRejectsDuplicateChannel(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tenant, err := svc.RegisterTenant(ctx, models.TenantInput{Name: " Studio Bela ", ChannelID: "5511900000000"})
	require.NoError(t, err)
	assert.Equal(t, "Studio Bela", tenant.Name)
	assert.True(t, tenant.Active)

	_, err = svc.RegisterTenant(ctx, models.TenantInput{Name: "Outro", ChannelID: "5511900000000"})
	assert.ErrorIs(t, err, models.ErrChannelTaken)

	_, err = svc.RegisterTenant(ctx, models.TenantInput{Name: " ", ChannelID: "1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddServiceValidates(t *testing.T) {
	svc, services, _ := newTestService(t)
	ctx := context.Background()
	tenant, err := svc.RegisterTenant(ctx, models.TenantInput{Name: "Studio", ChannelID: "1"})
	require.NoError(t, err)

	for _, bad := range []models.ServiceInput{
		{Name: "", Price: 10, DurationMinutes: 30},
		{Name: "Corte", Price: -1, DurationMinutes: 30},
		{Name: "Corte", Price: 10, DurationMinutes: 0},
	} {
		_, err := svc.AddService(ctx, tenant.ID, bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	_, err = svc.AddService(ctx, "missing", models.ServiceInput{Name: "Corte", Price: 35, DurationMinutes: 30})
	assert.ErrorIs(t, err, models.ErrNotFound)

	created, err := svc.AddService(ctx, tenant.ID, models.ServiceInput{Name: "Corte", Price: 35, DurationMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, created.TenantID)
	assert.True(t, created.Active)
	assert.Len(t, services.created, 1)
}

func TestListAppointmentsUsesLocalDay(t *testing.T) {
	svc, _, appts := newTestService(t)

	_, err := svc.ListAppointments(context.Background(), "tenant-1", "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 3, 0, 0, 0, time.UTC), appts.from.UTC())
	assert.Equal(t, 24*time.Hour, appts.to.Sub(appts.from))

	_, err = svc.ListAppointments(context.Background(), "tenant-1", "tomorrow")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
