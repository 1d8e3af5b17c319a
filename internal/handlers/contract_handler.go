package handlers

import (
	"net/http"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/middleware"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	contractService *services.ContractService
}

func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// ContractRequest is the body of a contract registration
type ContractRequest struct {
	PropertyID        uint    `json:"property_id"`
	StartDate         string  `json:"start_date"`
	StartMonth        int     `json:"start_month"`
	DurationMonths    int     `json:"duration_months"`
	BaseRent          float64 `json:"base_rent"`
	AdjustmentIndexID *uint   `json:"adjustment_index_id"`
	PunitoryStartDay  int     `json:"punitory_start_day"`
	PunitoryGraceDay  int     `json:"punitory_grace_day"`
	PunitoryPercent   float64 `json:"punitory_percent"`
	IncludeIVA        bool    `json:"include_iva"`
	TenantIDs         []uint  `json:"tenant_ids"`
	PrimaryTenantID   uint    `json:"primary_tenant_id"`
	Observations      string  `json:"observations"`
}

// Create registers a contract
func (h *ContractHandler) Create(c *gin.Context) {
	var req ContractRequest
	if err := BindNestedOrFlat(c, "contract", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo inválido"})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(c, err)
		return
	}

	contract, err := h.contractService.Register(c.Request.Context(), middleware.GetGroupID(c), services.ContractInput{
		PropertyID:        req.PropertyID,
		StartDate:         start,
		StartMonth:        req.StartMonth,
		DurationMonths:    req.DurationMonths,
		BaseRent:          req.BaseRent,
		AdjustmentIndexID: req.AdjustmentIndexID,
		PunitoryStartDay:  req.PunitoryStartDay,
		PunitoryGraceDay:  req.PunitoryGraceDay,
		PunitoryPercent:   req.PunitoryPercent,
		IncludeIVA:        req.IncludeIVA,
		TenantIDs:         req.TenantIDs,
		PrimaryTenantID:   req.PrimaryTenantID,
		Observations:      req.Observations,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

// Show returns a contract with tenants and rent history
func (h *ContractHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "contract_id")
	if !ok {
		return
	}
	contract, err := h.contractService.Get(c.Request.Context(), middleware.GetGroupID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// End deactivates a contract
func (h *ContractHandler) End(c *gin.Context) {
	id, ok := pathID(c, "contract_id")
	if !ok {
		return
	}
	contract, err := h.contractService.End(c.Request.Context(), middleware.GetGroupID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}
