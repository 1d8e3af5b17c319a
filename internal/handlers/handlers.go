package handlers

import (
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health     *HealthHandler
	Record     *RecordHandler
	Payment    *PaymentHandler
	Debt       *DebtHandler
	Close      *CloseHandler
	Contract   *ContractHandler
	Adjustment *AdjustmentHandler
	Holiday    *HolidayHandler
	Audit      *AuditHandler
	Job        *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(),
		Record:     NewRecordHandler(svcs.Records, svcs.Charges, svcs.Payments, svcs.Now),
		Payment:    NewPaymentHandler(svcs.Payments),
		Debt:       NewDebtHandler(svcs.Debts),
		Close:      NewCloseHandler(svcs.Close, svcs.Now),
		Contract:   NewContractHandler(svcs.Contracts),
		Adjustment: NewAdjustmentHandler(svcs.Adjustments),
		Holiday:    NewHolidayHandler(svcs.Calendar),
		Audit:      NewAuditHandler(svcs.Audit),
		Job:        NewJobHandler(svcs.Job),
	}
}
