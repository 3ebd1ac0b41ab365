package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"clientconnect-backend/models"
	"clientconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors to HTTP status codes. InvalidID is checked
// before NotFound because malformed ids satisfy both.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err as a {"error": ...} body. Unexpected errors are
// logged and replaced by a generic message.
func handleError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		utils.RespondWithError(c, status, "Internal server error")
		return
	}
	utils.RespondWithError(c, status, err.Error())
}

func bindError(c *gin.Context, err error) {
	utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
}
