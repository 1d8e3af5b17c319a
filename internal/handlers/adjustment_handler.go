package handlers

import (
	"net/http"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/middleware"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

type AdjustmentHandler struct {
	adjustmentService *services.AdjustmentService
}

func NewAdjustmentHandler(adjustmentService *services.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentService: adjustmentService}
}

// AdjustmentRequest carries the percentage to apply, e.g. 12.5
type AdjustmentRequest struct {
	Percentage float64 `json:"percentage"`
}

// Apply raises rents of the index's contracts due next month
func (h *AdjustmentHandler) Apply(c *gin.Context) {
	id, ok := pathID(c, "index_id")
	if !ok {
		return
	}
	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo inválido"})
		return
	}
	result, err := h.adjustmentService.ApplyAdjustment(c.Request.Context(), middleware.GetGroupID(c), id, req.Percentage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ApplyAll applies every index with a stored value
func (h *AdjustmentHandler) ApplyAll(c *gin.Context) {
	results, err := h.adjustmentService.ApplyAll(c.Request.Context(), middleware.GetGroupID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
