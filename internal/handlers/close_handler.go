package handlers

import (
	"net/http"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/middleware"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

type CloseHandler struct {
	closeService *services.MonthlyCloseService
	now          func() time.Time
}

func NewCloseHandler(closeService *services.MonthlyCloseService, now func() time.Time) *CloseHandler {
	return &CloseHandler{closeService: closeService, now: now}
}

// CloseRequest names the period to close
type CloseRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Preview shows what closing ?month=&year= would create
func (h *CloseHandler) Preview(c *gin.Context) {
	month, year, ok := period(c, h.now())
	if !ok {
		return
	}
	preview, err := h.closeService.Preview(c.Request.Context(), middleware.GetGroupID(c), month, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// Close turns the period's unpaid records into debts
func (h *CloseHandler) Close(c *gin.Context) {
	var req CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo inválido"})
		return
	}
	result, err := h.closeService.Close(c.Request.Context(), middleware.GetGroupID(c), req.Month, req.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
