package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	ping func(ctx context.Context) error
	log  *slog.Logger
}

// NewHealthController reports healthy while ping succeeds.
func NewHealthController(ping func(ctx context.Context) error, log *slog.Logger) *HealthController {
	return &HealthController{ping: ping, log: loggerOr(log)}
}

func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hc.ping(ctx); err != nil {
		hc.log.WarnContext(ctx, "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
