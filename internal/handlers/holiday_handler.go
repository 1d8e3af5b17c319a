package handlers

import (
	"net/http"
	"strings"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/holidays"
	"github.com/gin-gonic/gin"
)

type HolidayHandler struct {
	calendar *holidays.Calendar
}

func NewHolidayHandler(calendar *holidays.Calendar) *HolidayHandler {
	return &HolidayHandler{calendar: calendar}
}

// HolidayRequest is a non-business day
type HolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Create stores a holiday and invalidates its cached year
func (h *HolidayHandler) Create(c *gin.Context) {
	var req HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo inválido"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil || date.IsZero() || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fecha (AAAA-MM-DD) y nombre son obligatorios"})
		return
	}
	if err := h.calendar.Add(c.Request.Context(), date, strings.TrimSpace(req.Name)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"date": date.Format(dateLayout), "name": strings.TrimSpace(req.Name)})
}
