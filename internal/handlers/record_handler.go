package handlers

import (
	"net/http"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/middleware"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

type RecordHandler struct {
	records  *services.MonthlyRecordService
	charges  *services.ChargeService
	payments *services.PaymentService
	now      func() time.Time
}

func NewRecordHandler(records *services.MonthlyRecordService, charges *services.ChargeService, payments *services.PaymentService, now func() time.Time) *RecordHandler {
	return &RecordHandler{records: records, charges: charges, payments: payments, now: now}
}

// Index generates the period's missing records and lists them.
// GET /monthly-records?month=&year=&status=&search=&contract_id=
func (h *RecordHandler) Index(c *gin.Context) {
	month, year, ok := period(c, h.now())
	if !ok {
		return
	}
	contractID, ok := queryInt(c, "contract_id")
	if !ok {
		return
	}
	filter := services.RecordFilter{
		Status:     models.RecordStatus(c.Query("status")),
		Search:     c.Query("search"),
		ContractID: uint(max(contractID, 0)),
	}

	list, err := h.records.GenerateOrFetch(c.Request.Context(), middleware.GetGroupID(c), month, year, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Show returns one record with live punitory
func (h *RecordHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "record_id")
	if !ok {
		return
	}
	view, err := h.records.Get(c.Request.Context(), middleware.GetGroupID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PunitoryPreview computes what paying on ?date= would cost
func (h *RecordHandler) PunitoryPreview(c *gin.Context) {
	id, ok := pathID(c, "record_id")
	if !ok {
		return
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	preview, err := h.payments.PreviewPunitory(c.Request.Context(), middleware.GetGroupID(c), id, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// AddService attaches an extra charge or discount to a record
func (h *RecordHandler) AddService(c *gin.Context) {
	id, ok := pathID(c, "record_id")
	if !ok {
		return
	}
	var in services.ChargeInput
	if err := BindNestedOrFlat(c, "service", &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo inválido"})
		return
	}
	record, err := h.charges.Add(c.Request.Context(), middleware.GetGroupID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// UpdateService changes an extra charge
func (h *RecordHandler) UpdateService(c *gin.Context) {
	id, ok := pathID(c, "service_id")
	if !ok {
		return
	}
	var in services.ChargeInput
	if err := BindNestedOrFlat(c, "service", &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo inválido"})
		return
	}
	record, err := h.charges.Update(c.Request.Context(), middleware.GetGroupID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// RemoveService deletes an extra charge
func (h *RecordHandler) RemoveService(c *gin.Context) {
	id, ok := pathID(c, "service_id")
	if !ok {
		return
	}
	record, err := h.charges.Remove(c.Request.Context(), middleware.GetGroupID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
