package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	appointmentRepo "bookingbot/database/repository/appointment"
	clientRepo "bookingbot/database/repository/client"
	serviceRepo "bookingbot/database/repository/service"
	tenantRepo "bookingbot/database/repository/tenant"
	"bookingbot/models"
)

// Re-export the repository interfaces and constructors.
type TenantRepository = tenantRepo.TenantRepository

var NewMongoTenantRepo = tenantRepo.NewMongoTenantRepo

type ServiceRepository = serviceRepo.ServiceRepository

var NewMongoServiceRepo = serviceRepo.NewMongoServiceRepo

type ClientRepository = clientRepo.ClientRepository

var NewMongoClientRepo = clientRepo.NewMongoClientRepo

type AppointmentRepository = appointmentRepo.AppointmentRepository

var NewMongoAppointmentRepo = appointmentRepo.NewMongoAppointmentRepo

// Repositories bundles every collection the application uses.
type Repositories struct {
	Tenants      TenantRepository
	Services     ServiceRepository
	Clients      ClientRepository
	Appointments AppointmentRepository
}

// NewMongoRepositories builds all repositories on db.
func NewMongoRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Tenants:      NewMongoTenantRepo(db),
		Services:     NewMongoServiceRepo(db),
		Clients:      NewMongoClientRepo(db),
		Appointments: NewMongoAppointmentRepo(db),
	}
}

// EnsureIndexes creates the indexes of every collection.
func (r Repositories) EnsureIndexes(ctx context.Context) error {
	for _, ensure := range []func(context.Context) error{
		r.Tenants.EnsureIndexes,
		r.Services.EnsureIndexes,
		r.Clients.EnsureIndexes,
		r.Appointments.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}

// BookingStore serves the booking dialogue from the repositories. Calendar
// dates are interpreted in loc.
type BookingStore struct {
	repos Repositories
	loc   *time.Location
}

func NewBookingStore(repos Repositories, loc *time.Location) *BookingStore {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingStore{repos: repos, loc: loc}
}

func (s *BookingStore) FindTenantByChannel(ctx context.Context, channelID string) (*models.Tenant, error) {
	return s.repos.Tenants.GetActiveByChannel(ctx, channelID)
}

func (s *BookingStore) ListActiveServices(ctx context.Context, tenantID string) ([]models.Service, error) {
	return s.repos.Services.ListActive(ctx, tenantID)
}

func (s *BookingStore) ListOccupiedStarts(ctx context.Context, tenantID, date string) ([]time.Time, error) {
	from, to, err := s.DayBounds(date)
	if err != nil {
		return nil, err
	}
	return s.repos.Appointments.ListStarts(ctx, tenantID, from, to)
}

func (s *BookingStore) EnsureClient(ctx context.Context, tenantID, phone, name string) (string, error) {
	return s.repos.Clients.Upsert(ctx, tenantID, phone, name)
}

func (s *BookingStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return s.repos.Appointments.Create(ctx, appt)
}

func (s *BookingStore) ReleaseAppointment(ctx context.Context, id string) error {
	_, err := s.repos.Appointments.Cancel(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}

// DayBounds returns local midnight of date and of the following day.
func (s *BookingStore) DayBounds(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return day, day.AddDate(0, 0, 1), nil
}
