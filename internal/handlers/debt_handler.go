package handlers

import (
	"net/http"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/middleware"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

type DebtHandler struct {
	debtService *services.DebtService
}

func NewDebtHandler(debtService *services.DebtService) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// DebtPaymentRequest is the body of a debt payment. Dates are YYYY-MM-DD.
type DebtPaymentRequest struct {
	Amount       float64              `json:"amount"`
	PaymentDate  string               `json:"payment_date"`
	Method       models.PaymentMethod `json:"method"`
	Observations string               `json:"observations"`
}

// Index lists debts. GET /debts?status=&contract_id=
func (h *DebtHandler) Index(c *gin.Context) {
	contractID, ok := queryInt(c, "contract_id")
	if !ok {
		return
	}
	debts, err := h.debtService.List(c.Request.Context(), middleware.GetGroupID(c), services.DebtFilter{
		Status:     models.DebtStatus(c.Query("status")),
		ContractID: uint(max(contractID, 0)),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debts": debts, "count": len(debts)})
}

// Show returns one debt
func (h *DebtHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "debt_id")
	if !ok {
		return
	}
	debt, err := h.debtService.Get(c.Request.Context(), middleware.GetGroupID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, debt)
}

// CanPay tells whether the contract may book payments for the current month
func (h *DebtHandler) CanPay(c *gin.Context) {
	id, ok := pathID(c, "contract_id")
	if !ok {
		return
	}
	eligibility, err := h.debtService.CanPayCurrentMonth(c.Request.Context(), middleware.GetGroupID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eligibility)
}

// Pay books a payment on a debt
func (h *DebtHandler) Pay(c *gin.Context) {
	id, ok := pathID(c, "debt_id")
	if !ok {
		return
	}
	var req DebtPaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo inválido"})
		return
	}
	date, err := parseDate(req.PaymentDate)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.debtService.PayDebt(c.Request.Context(), middleware.GetGroupID(c), id, services.DebtPaymentInput{
		Amount:       req.Amount,
		PaymentDate:  date,
		Method:       req.Method,
		Observations: req.Observations,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CancelPayment reverses the last payment of a debt
func (h *DebtHandler) CancelPayment(c *gin.Context) {
	debtID, ok := pathID(c, "debt_id")
	if !ok {
		return
	}
	paymentID, ok := pathID(c, "payment_id")
	if !ok {
		return
	}
	debt, err := h.debtService.CancelPayment(c.Request.Context(), middleware.GetGroupID(c), debtID, paymentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, debt)
}
