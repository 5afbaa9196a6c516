package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	JWTSecret         []byte
	WebhookSecret     string
	MaxRequestsPerMin int

	// Gateway webhook
	ReceiveMessagesHandler gin.HandlerFunc

	// Admin endpoints
	AdminLoginHandler        gin.HandlerFunc
	RegisterTenantHandler    gin.HandlerFunc
	GetTenantHandler         gin.HandlerFunc
	AddServiceHandler        gin.HandlerFunc
	ListServicesHandler      gin.HandlerFunc
	ListAppointmentsHandler  gin.HandlerFunc
	CancelAppointmentHandler gin.HandlerFunc

	HealthCheckHandler gin.HandlerFunc
}
