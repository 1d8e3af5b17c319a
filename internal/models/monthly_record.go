package models

import (
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"
)

// MonthlyRecord is the ledger line of one contract for one calendar period
type MonthlyRecord struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	GroupID          uint         `gorm:"not null;index" json:"group_id"`
	ContractID       uint         `gorm:"not null;uniqueIndex:idx_record_period;uniqueIndex:idx_record_month_number" json:"contract_id"`
	PeriodMonth      int          `gorm:"not null;uniqueIndex:idx_record_period;index:idx_record_group_period" json:"period_month"`
	PeriodYear       int          `gorm:"not null;uniqueIndex:idx_record_period;index:idx_record_group_period" json:"period_year"`
	MonthNumber      int          `gorm:"not null;uniqueIndex:idx_record_month_number" json:"month_number"`
	RentAmount       float64      `gorm:"type:decimal(15,2);not null" json:"rent_amount"`
	ServicesTotal    float64      `gorm:"type:decimal(15,2);default:0" json:"services_total"`
	PreviousBalance  float64      `gorm:"type:decimal(15,2);default:0" json:"previous_balance"` // credit in favor, never negative
	PunitoryAmount   float64      `gorm:"type:decimal(15,2);default:0" json:"punitory_amount"`
	PunitoryDays     int          `gorm:"default:0" json:"punitory_days"`
	PunitoryForgiven bool         `gorm:"default:false" json:"punitory_forgiven"`
	IncludeIVA       bool         `gorm:"default:false" json:"include_iva"`
	TotalDue         float64      `gorm:"type:decimal(15,2);default:0" json:"total_due"`
	AmountPaid       float64      `gorm:"type:decimal(15,2);default:0" json:"amount_paid"`
	Balance          float64      `gorm:"type:decimal(15,2);default:0" json:"balance"`
	Status           RecordStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	IsPaid           bool         `gorm:"default:false" json:"is_paid"`
	IsCancelled      bool         `gorm:"default:false" json:"is_cancelled"`
	FullPaymentDate  *time.Time   `gorm:"type:date" json:"full_payment_date"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	// Associations
	Contract     Contract             `gorm:"foreignKey:ContractID" json:"-"`
	Services     []MonthlyService     `gorm:"foreignKey:MonthlyRecordID" json:"services,omitempty"`
	Transactions []PaymentTransaction `gorm:"foreignKey:MonthlyRecordID" json:"transactions,omitempty"`
	Debt         *Debt                `gorm:"foreignKey:MonthlyRecordID" json:"debt,omitempty"`
}

// TableName specifies the table name for MonthlyRecord
func (MonthlyRecord) TableName() string {
	return "monthly_records"
}

// IVA is the VAT on rent, zero when the record excludes it
func (r *MonthlyRecord) IVA() float64 {
	return billing.IVA(r.RentAmount, r.IncludeIVA)
}

// Ledger snapshots the amounts the imputation math works on. Services must
// be loaded with their concept type.
func (r *MonthlyRecord) Ledger() billing.LedgerState {
	lines := make([]billing.ServiceLine, 0, len(r.Services))
	for _, s := range r.Services {
		lines = append(lines, s.Line())
	}
	return billing.LedgerState{
		Rent:            r.RentAmount,
		IVA:             r.IVA(),
		Services:        lines,
		PreviousBalance: r.PreviousBalance,
		AmountPaid:      r.AmountPaid,
	}
}

// Period returns month and year
func (r *MonthlyRecord) Period() (int, int) {
	return r.PeriodMonth, r.PeriodYear
}

// MonthlyService is an extra charge or discount on a monthly record
type MonthlyService struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	MonthlyRecordID uint      `gorm:"not null;index" json:"monthly_record_id"`
	ConceptTypeID   uint      `gorm:"not null;index" json:"concept_type_id"`
	Amount          float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description     *string   `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	ConceptType ConceptType `gorm:"foreignKey:ConceptTypeID" json:"concept_type"`
}

// TableName specifies the table name for MonthlyService
func (MonthlyService) TableName() string {
	return "monthly_services"
}

// Signed is the amount with discounts negated
func (s *MonthlyService) Signed() float64 {
	if s.ConceptType.Category.Subtracts() {
		return -s.Amount
	}
	return s.Amount
}

// Line converts the service for the imputation math
func (s *MonthlyService) Line() billing.ServiceLine {
	label := s.ConceptType.Name
	if s.Description != nil && *s.Description != "" {
		label = *s.Description
	}
	return billing.ServiceLine{
		ID:       s.ID,
		Label:    label,
		Amount:   s.Amount,
		Discount: s.ConceptType.Category.Subtracts(),
	}
}

// ConceptType is a configurable kind of extra (ABL, expensas, luz...)
type ConceptType struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	GroupID   uint            `gorm:"not null;index" json:"group_id"`
	Name      string          `gorm:"not null" json:"name"`
	Category  ConceptCategory `gorm:"size:20;not null" json:"category"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for ConceptType
func (ConceptType) TableName() string {
	return "concept_types"
}
