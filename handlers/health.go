package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookingbot/utils"
)

// Counter reports a current size, e.g. live sessions.
type Counter interface {
	Len() int
}

// HealthHandler reports dependency health and in-memory load.
type HealthHandler struct {
	Sessions Counter
}

func NewHealthHandler(sessions Counter) *HealthHandler {
	return &HealthHandler{Sessions: sessions}
}

func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	live := 0
	if h.Sessions != nil {
		live = h.Sessions.Len()
	}
	code := http.StatusOK
	if !status.CheckedAt.IsZero() && !(status.Mongo && status.Redis) {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":       status,
		"liveSessions": live,
	})
}
