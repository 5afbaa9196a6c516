package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookingbot/handlers"
	"bookingbot/middleware"
	"bookingbot/utils"
)

// RegisterWebhookRoutes registers the gateway delivery endpoint.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/webhook")
	{
		api.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin, utils.GetLogger()))
		api.Use(middleware.WebhookSecretMiddleware(hb.WebhookSecret))
		api.POST("/messages", hb.ReceiveMessagesHandler)
	}
}

// RegisterAdminRoutes registers tenant and appointment management endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.POST("/login", middleware.RateLimitMiddleware(hb.MaxRequestsPerMin, utils.GetLogger()), hb.AdminLoginHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthAdminMiddleware(hb.JWTSecret))
		protected.POST("/tenants", hb.RegisterTenantHandler)
		protected.GET("/tenants/:id", hb.GetTenantHandler)
		protected.POST("/tenants/:id/services", hb.AddServiceHandler)
		protected.GET("/tenants/:id/services", hb.ListServicesHandler)
		protected.GET("/tenants/:id/appointments", hb.ListAppointmentsHandler)
		protected.PATCH("/appointments/:id/cancel", hb.CancelAppointmentHandler)
	}
}

// RegisterHealthRoute registers the health probe.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthCheckHandler)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}

// RegisterRoutes installs CORS and every route group.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.WebhookSecretHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWebhookRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
