package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// respondError maps service errors to status codes. Unexpected errors are
// logged and reported to Sentry when the hub is installed.
func respondError(c *gin.Context, err error) {
	var blocked *services.BlockedError
	switch {
	case errors.As(err, &blocked):
		c.JSON(http.StatusConflict, gin.H{"error": blocked.Message, "debts": blocked.Debts})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
	}
}

// pathID parses a numeric path parameter, answering 400 when it is not one
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " inválido"})
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " inválido"})
		return 0, false
	}
	return v, true
}

// period reads month and year, defaulting to the current ones
func period(c *gin.Context, now time.Time) (int, int, bool) {
	month, ok := queryInt(c, "month")
	if !ok {
		return 0, 0, false
	}
	year, ok := queryInt(c, "year")
	if !ok {
		return 0, 0, false
	}
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year, true
}

// parseDate accepts YYYY-MM-DD; empty yields the zero time
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &services.ValidationError{Field: "date", Message: "formato esperado AAAA-MM-DD"}
	}
	return t, nil
}
