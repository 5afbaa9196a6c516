package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookingbot/models"
	"bookingbot/services/admin"
	"bookingbot/utils"
)

// AdminHandler exposes tenant registration and appointment management.
type AdminHandler struct {
	Service admin.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc admin.AdminService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, admin.ErrInvalidInput):
		utils.JSONError(c, http.StatusBadRequest, action, err.Error())
	case errors.Is(err, admin.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, action, err.Error())
	case errors.Is(err, models.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, action, err.Error())
	case errors.Is(err, models.ErrChannelTaken):
		utils.JSONError(c, http.StatusConflict, action, err.Error())
	default:
		getLogger(c).Error(action, zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Message: action})
	}
}

func (ah *AdminHandler) LoginHandler(c *gin.Context) {
	var req struct {
		APIKey string `json:"apiKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing apiKey"})
		return
	}
	token, err := ah.Service.Login(req.APIKey)
	if err != nil {
		respondError(c, "Login failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expiresIn": int(admin.AdminTokenTTL.Seconds())})
}

func (ah *AdminHandler) RegisterTenantHandler(c *gin.Context) {
	var input models.TenantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	tenant, err := ah.Service.RegisterTenant(c.Request.Context(), input)
	if err != nil {
		respondError(c, "Failed to register tenant", err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

func (ah *AdminHandler) GetTenantHandler(c *gin.Context) {
	tenant, err := ah.Service.GetTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to fetch tenant", err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (ah *AdminHandler) AddServiceHandler(c *gin.Context) {
	var input models.ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	svc, err := ah.Service.AddService(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, "Failed to add service", err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (ah *AdminHandler) ListServicesHandler(c *gin.Context) {
	services, err := ah.Service.ListServices(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to fetch services", err)
		return
	}
	if services == nil {
		services = []models.Service{}
	}
	c.JSON(http.StatusOK, services)
}

func (ah *AdminHandler) ListAppointmentsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing date query parameter"})
		return
	}
	appts, err := ah.Service.ListAppointments(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, "Failed to fetch appointments", err)
		return
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	c.JSON(http.StatusOK, appts)
}

func (ah *AdminHandler) CancelAppointmentHandler(c *gin.Context) {
	appt, err := ah.Service.CancelAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to cancel appointment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled", "appointment": appt})
}
