package handlers

import (
	"net/http"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/middleware"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PaymentRequest is the body of a payment. Dates are YYYY-MM-DD.
type PaymentRequest struct {
	PaymentDate     string               `json:"payment_date"`
	Amount          float64              `json:"amount"`
	Method          models.PaymentMethod `json:"method"`
	ForgivePunitory bool                 `json:"forgive_punitory"`
	Observations    string               `json:"observations"`
}

// Create books a payment on a monthly record
func (h *PaymentHandler) Create(c *gin.Context) {
	id, ok := pathID(c, "record_id")
	if !ok {
		return
	}
	var req PaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo inválido"})
		return
	}
	date, err := parseDate(req.PaymentDate)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.paymentService.RegisterPayment(c.Request.Context(), middleware.GetGroupID(c), id, services.PaymentInput{
		PaymentDate:     date,
		Amount:          req.Amount,
		Method:          req.Method,
		ForgivePunitory: req.ForgivePunitory,
		Observations:    req.Observations,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Delete reverses a transaction
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "transaction_id")
	if !ok {
		return
	}
	record, err := h.paymentService.DeleteTransaction(c.Request.Context(), middleware.GetGroupID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"monthly_record": record})
}
