package controllers

import (
	"log/slog"
	"net/http"

	"clientconnect-backend/services"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	service *services.DashboardService
	logger  *slog.Logger
}

func NewDashboardController(service *services.DashboardService, logger *slog.Logger) *DashboardController {
	return &DashboardController{service: service, logger: logger}
}

// GetSummary returns customer and opportunity counts by status
func (dc *DashboardController) GetSummary(c *gin.Context) {
	summary, err := dc.service.ComputeSummary(c.Request.Context())
	if err != nil {
		handleError(c, dc.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
