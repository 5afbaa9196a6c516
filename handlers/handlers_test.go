package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookingbot/models"
	"bookingbot/services/admin"
	"bookingbot/services/messaging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withNopLogger(c *gin.Context) {
	c.Set("logger", zap.NewNop())
	c.Next()
}

type fakeDispatcher struct {
	got []models.InboundEvent
}

func (f *fakeDispatcher) Dispatch(_ context.Context, ev models.InboundEvent) (bool, error) {
	if ev.ConversationID == "" {
		return false, messaging.ErrInvalidEvent
	}
	if ev.FromSelf {
		return false, nil
	}
	f.got = append(f.got, ev)
	return true, nil
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReceiveMessagesCountsOutcomes(t *testing.T) {
	d := &fakeDispatcher{}
	r := gin.New()
	r.Use(withNopLogger)
	r.POST("/webhook", NewWebhookHandler(d).ReceiveMessagesHandler)

	w := postJSON(r, "/webhook", models.WebhookPayload{Messages: []models.InboundEvent{
		{MessageID: "1", ConversationID: "5511@s.whatsapp.net", Text: "oi"},
		{MessageID: "2", ConversationID: "5511@s.whatsapp.net", Text: "oi", FromSelf: true},
		{MessageID: "3", Text: "no conversation"},
	}})
	require.Equal(t, http.StatusAccepted, w.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]int{"accepted": 1, "ignored": 1, "invalid": 1}, body)
	require.Len(t, d.got, 1)
	assert.Equal(t, "1", d.got[0].MessageID)
}

func TestReceiveMessagesRejectsMalformedBody(t *testing.T) {
	r := gin.New()
	r.Use(withNopLogger)
	r.POST("/webhook", NewWebhookHandler(&fakeDispatcher{}).ReceiveMessagesHandler)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/webhook", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "messages is required")
}

type fakeAdmin struct {
	admin.AdminService
	registerErr error
	cancelErr   error
}

func (f *fakeAdmin) Login(apiKey string) (string, error) {
	if apiKey != "good" {
		return "", admin.ErrInvalidCredentials
	}
	return "token", nil
}

func (f *fakeAdmin) RegisterTenant(_ context.Context, in models.TenantInput) (*models.Tenant, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.Tenant{ID: "tenant-1", Name: in.Name, ChannelID: in.ChannelID, Active: true}, nil
}

func (f *fakeAdmin) ListAppointments(_ context.Context, _, date string) ([]models.Appointment, error) {
	if date != "2026-10-20" {
		return nil, admin.ErrInvalidInput
	}
	return nil, nil
}

func (f *fakeAdmin) CancelAppointment(_ context.Context, id string) (*models.Appointment, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &models.Appointment{ID: id, Status: models.AppointmentCancelled}, nil
}

func newAdminRouter(svc admin.AdminService) *gin.Engine {
	h := NewAdminHandler(svc)
	r := gin.New()
	r.Use(withNopLogger)
	r.POST("/login", h.LoginHandler)
	r.POST("/tenants", h.RegisterTenantHandler)
	r.GET("/tenants/:id/appointments", h.ListAppointmentsHandler)
	r.PATCH("/appointments/:id/cancel", h.CancelAppointmentHandler)
	return r
}

func TestAdminLogin(t *testing.T) {
	r := newAdminRouter(&fakeAdmin{})

	w := postJSON(r, "/login", map[string]string{"apiKey": "good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"token"`)

	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/login", map[string]string{"apiKey": "bad"}).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/login", map[string]string{}).Code)
}

func TestRegisterTenantStatuses(t *testing.T) {
	w := postJSON(newAdminRouter(&fakeAdmin{}), "/tenants", models.TenantInput{Name: "Studio", ChannelID: "5511900000000"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(newAdminRouter(&fakeAdmin{registerErr: models.ErrChannelTaken}), "/tenants",
		models.TenantInput{Name: "Studio", ChannelID: "5511900000000"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(newAdminRouter(&fakeAdmin{}), "/tenants", map[string]string{"name": "Studio"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "channelId is required")
}

func TestListAppointmentsReturnsEmptyArray(t *testing.T) {
	r := newAdminRouter(&fakeAdmin{})

	req := httptest.NewRequest(http.MethodGet, "/tenants/tenant-1/appointments?date=2026-10-20", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/tenants/tenant-1/appointments?date=amanha", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/tenants/tenant-1/appointments", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelAppointmentNotFound(t *testing.T) {
	r := newAdminRouter(&fakeAdmin{cancelErr: models.ErrNotFound})
	req := httptest.NewRequest(http.MethodPatch, "/appointments/nope/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type fixedCounter int

func (f fixedCounter) Len() int { return int(f) }

func TestHealthReportsSessions(t *testing.T) {
	r := gin.New()
	r.GET("/health", NewHealthHandler(fixedCounter(3)).HealthCheckHandler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "no check has run yet")
	assert.Contains(t, w.Body.String(), `"liveSessions":3`)
}
