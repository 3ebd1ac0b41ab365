package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is implemented by anything the health check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// HealthController reports the state of the store and optional dependencies
type HealthController struct {
	store  Pinger
	redis  Pinger
	logger *slog.Logger
}

// NewHealthController creates a health controller. redis may be nil.
func NewHealthController(store, redis Pinger, logger *slog.Logger) *HealthController {
	return &HealthController{store: store, redis: redis, logger: logger}
}

// Health handles GET /health
func (h *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:   "healthy",
		Services: make(map[string]string),
	}

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("store health check failed", "error", err)
		response.Status = "unhealthy"
		response.Services["store"] = "unhealthy"
	} else {
		response.Services["store"] = "healthy"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			h.logger.Error("redis health check failed", "error", err)
			response.Status = "unhealthy"
			response.Services["redis"] = "unhealthy"
		} else {
			response.Services["redis"] = "healthy"
		}
	} else {
		response.Services["redis"] = "not_configured"
	}

	if response.Status == "healthy" {
		c.JSON(http.StatusOK, response)
		return
	}
	c.JSON(http.StatusServiceUnavailable, response)
}
