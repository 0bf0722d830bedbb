package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/matthieukhl/drinkstand/internal/models"
	"go.uber.org/zap"
)

func success(c *gin.Context, status int, body gin.H) {
	body["success"] = true
	c.JSON(status, body)
}

// fail maps service errors onto HTTP statuses. Unexpected errors are logged
// and answered with a generic message.
func (s *Server) fail(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	default:
		_ = c.Error(err)
		s.logger.Error("Request error",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}

// bindJSON decodes the body into dst, reporting malformed bodies as validation errors.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return models.NewValidationError("body", "is not valid JSON: "+err.Error())
	}
	return nil
}

func dayQuery(c *gin.Context, name string, required bool) (models.Day, error) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			return models.Day{}, models.NewValidationError(name, "is required")
		}
		return models.Day{}, nil
	}
	day, err := models.ParseDay(raw)
	if err != nil {
		return models.Day{}, models.NewValidationError(name, err.Error())
	}
	return day, nil
}

func monthQuery(c *gin.Context, name string) (models.Month, error) {
	raw := c.Query(name)
	if raw == "" {
		return models.Month{}, models.NewValidationError(name, "is required")
	}
	m, err := models.ParseMonth(raw)
	if err != nil {
		return models.Month{}, models.NewValidationError(name, err.Error())
	}
	return m, nil
}

// intQuery returns def when the parameter is absent. Values are decimal, so
// "08" is eight.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError(name, "must be a number")
	}
	return n, nil
}
