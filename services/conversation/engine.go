// Package conversation drives the booking dialogue: one inbound message in,
// the replies to send out.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookingbot/models"
	"bookingbot/services/availability"
	"bookingbot/services/session"
)

// ErrNoActiveServices means the tenant has nothing to book.
var ErrNoActiveServices = errors.New("tenant has no active services")

const (
	defaultCallTimeout = 5 * time.Second
	maxNameLength      = 80
)

var exitWords = map[string]bool{"0": true, "sair": true, "cancelar": true}

// EngineConfig wires an Engine. Store, Sessions and Calendar are required.
type EngineConfig struct {
	Store     Store
	Sessions  *session.Store
	Calendar  *availability.Calendar
	Reminders ReminderScheduler
	Clock     session.Clock
	// CallTimeout bounds every Store and Reminders call.
	CallTimeout time.Duration
	Logger      *zap.Logger
	// NewID generates appointment ids. Defaults to uuid.NewString.
	NewID func() string
}

// Engine applies one inbound message to its conversation's session.
type Engine struct {
	store     Store
	sessions  *session.Store
	calendar  *availability.Calendar
	reminders ReminderScheduler
	clock     session.Clock
	timeout   time.Duration
	logger    *zap.Logger
	newID     func() string
}

func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		store:     cfg.Store,
		sessions:  cfg.Sessions,
		calendar:  cfg.Calendar,
		reminders: cfg.Reminders,
		clock:     cfg.Clock,
		timeout:   cfg.CallTimeout,
		logger:    cfg.Logger,
		newID:     cfg.NewID,
	}
	if e.clock == nil {
		e.clock = session.SystemClock{}
	}
	if e.timeout <= 0 {
		e.timeout = defaultCallTimeout
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	e.logger = e.logger.With(zap.String("component", "conversation.engine"))
	return e
}

// turn is the state of a single transition.
type turn struct {
	ctx    context.Context
	lease  *session.Lease
	sess   *session.Session
	tenant *models.Tenant
	text   string
	now    time.Time
	logger *zap.Logger
}

// Process handles one message and returns the replies in send order. Self
// messages and blank text are ignored. The only error returned is a tenant
// lookup failure, in which case no session is touched and nothing is sent.
// It wraps models.ErrTenantNotFound when the channel has no active tenant;
// any other error is transient and left to the caller to log.
func (e *Engine) Process(ctx context.Context, ev models.InboundEvent) ([]string, error) {
	text := strings.TrimSpace(ev.Text)
	if ev.FromSelf || text == "" {
		return nil, nil
	}
	logger := e.logger.With(
		zap.String("conversationId", ev.ConversationID),
		zap.String("channelId", ev.ChannelID),
	)

	tenant, err := e.findTenant(ctx, ev.ChannelID)
	if err != nil {
		return nil, err
	}

	lease := e.sessions.Acquire(ev.ConversationID)
	defer lease.Release()

	if exitWords[strings.ToLower(text)] {
		if sess := lease.Session(); sess != nil && sess.Data.AppointmentID != "" {
			_ = e.releasePending(ctx, logger, sess)
		}
		lease.Delete()
		logger.Debug("conversation closed by user")
		return []string{msgGoodbye}, nil
	}

	fresh := session.Data{Phone: phoneFromConversation(ev.ConversationID), TenantID: tenant.ID}
	sess := lease.GetOrCreate(session.StepStart, fresh)
	if sess.Data.TenantID != tenant.ID {
		logger.Warn("session belongs to another tenant, restarting",
			zap.String("sessionTenant", sess.Data.TenantID),
			zap.String("tenantId", tenant.ID),
		)
		lease.Delete()
		sess = lease.GetOrCreate(session.StepStart, fresh)
	}

	t := &turn{
		ctx:    ctx,
		lease:  lease,
		sess:   sess,
		tenant: tenant,
		text:   text,
		now:    e.clock.Now(),
		logger: logger.With(zap.Stringer("step", sess.Step)),
	}
	return e.transition(t), nil
}

func (e *Engine) transition(t *turn) []string {
	switch t.sess.Step {
	case session.StepStart:
		return e.onStart(t)
	case session.StepAwaitName:
		return e.onName(t)
	case session.StepAwaitService:
		return e.onService(t)
	case session.StepAwaitDay:
		return e.onDay(t)
	case session.StepAwaitTime:
		return e.onTime(t)
	default:
		t.logger.Warn("session in unknown step, restarting")
		t.sess.Step = session.StepAwaitName
		return []string{msgRestart}
	}
}

func (e *Engine) onStart(t *turn) []string {
	t.sess.Step = session.StepAwaitName
	return []string{welcomeMessage(t.tenant.Name)}
}

func (e *Engine) onName(t *turn) []string {
	services, err := e.listServices(t.ctx, t.tenant.ID)
	if err != nil {
		t.logger.Error("listing services failed", zap.Error(err))
		return []string{msgLookupFailed}
	}
	if len(services) == 0 {
		t.logger.Error("cannot offer booking", zap.String("tenantId", t.tenant.ID), zap.Error(ErrNoActiveServices))
		t.lease.Delete()
		return []string{msgNoServices}
	}

	name := truncate(t.text, maxNameLength)
	t.sess.Data.Name = name
	t.sess.Offered.Services = services
	t.sess.Step = session.StepAwaitService
	return []string{serviceMenu(name, services)}
}

func (e *Engine) onService(t *turn) []string {
	idx, ok := choose(t.text, len(t.sess.Offered.Services))
	if !ok {
		t.logger.Debug("invalid service option", zap.String("text", t.text))
		return []string{msgInvalidService}
	}
	svc := t.sess.Offered.Services[idx]
	days := e.calendar.AvailableDays(t.now)

	t.sess.Data.ServiceID = svc.ID
	t.sess.Offered.Days = days
	t.sess.Step = session.StepAwaitDay
	return []string{dayMenu(days)}
}

func (e *Engine) onDay(t *turn) []string {
	idx, ok := choose(t.text, len(t.sess.Offered.Days))
	if !ok {
		t.logger.Debug("invalid day option", zap.String("text", t.text))
		return []string{msgInvalidDay}
	}
	day := t.sess.Offered.Days[idx]

	if err := e.releasePending(t.ctx, t.logger, t.sess); err != nil {
		return []string{msgLookupFailed}
	}
	free, err := e.freeSlots(t, day.Value)
	if err != nil {
		t.logger.Error("loading free slots failed", zap.String("date", day.Value), zap.Error(err))
		return []string{msgLookupFailed}
	}

	t.sess.Data.Date = day.Value
	t.sess.Data.Time = ""
	t.sess.Data.AppointmentID = ""
	if len(free) == 0 {
		t.sess.Offered.Times = nil
		return []string{msgDayFull + "\n\n" + dayList(t.sess.Offered.Days)}
	}
	t.sess.Offered.Times = free
	t.sess.Step = session.StepAwaitTime
	return []string{timeMenu(day.Label, free)}
}

func (e *Engine) onTime(t *turn) []string {
	idx, ok := choose(t.text, len(t.sess.Offered.Times))
	if !ok {
		t.logger.Debug("invalid time option", zap.String("text", t.text))
		return []string{msgInvalidTime}
	}
	slot := t.sess.Offered.Times[idx]

	svc, ok := findService(t.sess.Offered.Services, t.sess.Data.ServiceID)
	if !ok {
		t.logger.Warn("chosen service missing from session, restarting", zap.String("serviceId", t.sess.Data.ServiceID))
		t.sess.Step = session.StepAwaitName
		return []string{msgRestart}
	}
	start, err := e.calendar.StartOf(t.sess.Data.Date, slot)
	if err != nil {
		t.logger.Warn("stored date is invalid, restarting", zap.String("date", t.sess.Data.Date), zap.Error(err))
		t.sess.Step = session.StepAwaitName
		return []string{msgRestart}
	}

	if t.sess.Data.Time != slot || t.sess.Data.AppointmentID == "" {
		// A failed attempt at another time may still have been written.
		if err := e.releasePending(t.ctx, t.logger, t.sess); err != nil {
			return []string{msgSaveFailed}
		}
		t.sess.Data.Time = slot
		t.sess.Data.AppointmentID = e.newID()
	}

	clientID, err := e.ensureClient(t.ctx, t.tenant.ID, t.sess.Data.Phone, t.sess.Data.Name)
	if err != nil {
		t.logger.Error("saving client failed", zap.Error(err))
		return []string{msgSaveFailed}
	}

	appt := models.Appointment{
		ID:        t.sess.Data.AppointmentID,
		TenantID:  t.tenant.ID,
		ClientID:  clientID,
		ServiceID: svc.ID,
		Start:     start,
		End:       start.Add(svc.Duration()),
		Status:    models.AppointmentPending,
		SlotKey:   models.SlotKeyFor(start),
		CreatedAt: t.now,
	}
	err = e.createAppointment(t.ctx, &appt)
	switch {
	case errors.Is(err, models.ErrSlotTaken):
		t.logger.Info("slot taken before confirmation", zap.String("date", t.sess.Data.Date), zap.String("time", slot))
		return e.reofferTimes(t)
	case err != nil:
		t.logger.Error("saving appointment failed", zap.String("appointmentId", appt.ID), zap.Error(err))
		return []string{msgSaveFailed}
	}

	t.logger.Info("appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("tenantId", appt.TenantID),
		zap.Time("start", appt.Start),
	)
	e.scheduleReminder(t, appt, svc.Name)
	t.lease.Delete()

	stamp := availability.ShortStamp(start.In(e.calendar.Location()))
	return []string{confirmationMessage(svc.Name, stamp)}
}

// reofferTimes refreshes the time menu after a lost race for a slot. When
// the day has filled up meanwhile the user goes back to picking a day.
func (e *Engine) reofferTimes(t *turn) []string {
	t.sess.Data.Time = ""
	t.sess.Data.AppointmentID = ""

	free, err := e.freeSlots(t, t.sess.Data.Date)
	if err != nil {
		t.logger.Error("reloading free slots failed", zap.Error(err))
		return []string{msgSlotTaken + "\n\n" + timeList(t.sess.Offered.Times)}
	}
	if len(free) == 0 {
		t.sess.Offered.Times = nil
		t.sess.Step = session.StepAwaitDay
		return []string{msgDayFull + "\n\n" + dayList(t.sess.Offered.Days)}
	}
	t.sess.Offered.Times = free
	return []string{msgSlotTaken + "\n\n" + timeList(free)}
}

func (e *Engine) freeSlots(t *turn, date string) ([]string, error) {
	occupied, err := e.listOccupied(t.ctx, t.tenant.ID, date)
	if err != nil {
		return nil, err
	}
	return e.calendar.FreeSlots(date, occupied, t.now)
}

// releasePending cancels the appointment of an earlier attempt whose outcome
// is unknown, so it cannot hold a slot the user was told is not booked.
func (e *Engine) releasePending(ctx context.Context, logger *zap.Logger, sess *session.Session) error {
	id := sess.Data.AppointmentID
	if id == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	if err := e.store.ReleaseAppointment(ctx, id); err != nil {
		logger.Error("releasing earlier attempt failed", zap.String("appointmentId", id), zap.Error(err))
		return err
	}
	sess.Data.AppointmentID = ""
	return nil
}

func (e *Engine) scheduleReminder(t *turn, appt models.Appointment, serviceName string) {
	if e.reminders == nil {
		return
	}
	ctx, cancel := context.WithTimeout(t.ctx, e.timeout)
	defer cancel()

	body := reminderMessage(t.tenant.Name, serviceName, e.calendar, appt)
	if err := e.reminders.ScheduleReminder(ctx, appt, t.lease.ConversationID(), body); err != nil {
		t.logger.Warn("scheduling reminder failed", zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

func (e *Engine) findTenant(ctx context.Context, channelID string) (*models.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	tenant, err := e.store.FindTenantByChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("find tenant for channel %q: %w", channelID, err)
	}
	return tenant, nil
}

func (e *Engine) listServices(ctx context.Context, tenantID string) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.store.ListActiveServices(ctx, tenantID)
}

func (e *Engine) listOccupied(ctx context.Context, tenantID, date string) ([]time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.store.ListOccupiedStarts(ctx, tenantID, date)
}

func (e *Engine) ensureClient(ctx context.Context, tenantID, phone, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.store.EnsureClient(ctx, tenantID, phone, name)
}

func (e *Engine) createAppointment(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.store.CreateAppointment(ctx, appt)
}

// choose maps a 1-based menu reply to an index into a menu of n entries.
func choose(text string, n int) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < 1 || v > n {
		return 0, false
	}
	return v - 1, true
}

func findService(services []models.Service, id string) (models.Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return models.Service{}, false
}

// phoneFromConversation strips the transport suffix, e.g. "5511999@s.whatsapp.net".
func phoneFromConversation(id string) string {
	if i := strings.IndexByte(id, '@'); i >= 0 {
		id = id[:i]
	}
	if i := strings.IndexByte(id, ':'); i >= 0 {
		id = id[:i]
	}
	return id
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max]))
}
