package models

import (
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"
)

// Debt is what remained unpaid of a monthly record at month close. It keeps
// its own punitory clock until settled.
type Debt struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	GroupID               uint       `gorm:"not null;index" json:"group_id"`
	ContractID            uint       `gorm:"not null;index" json:"contract_id"`
	MonthlyRecordID       uint       `gorm:"not null;uniqueIndex" json:"monthly_record_id"`
	PeriodMonth           int        `gorm:"not null" json:"period_month"`
	PeriodYear            int        `gorm:"not null" json:"period_year"`
	OriginalAmount        float64    `gorm:"type:decimal(15,2);not null" json:"original_amount"`
	UnpaidRentAmount      float64    `gorm:"type:decimal(15,2);not null" json:"unpaid_rent_amount"`
	PreviousRecordPayment float64    `gorm:"type:decimal(15,2);default:0" json:"previous_record_payment"`
	CarriedPunitory       float64    `gorm:"type:decimal(15,2);default:0" json:"carried_punitory"` // unpaid record punitory at close
	AccumulatedPunitory   float64    `gorm:"type:decimal(15,2);default:0" json:"accumulated_punitory"`
	AmountPaid            float64    `gorm:"type:decimal(15,2);default:0" json:"amount_paid"`
	PunitoryStartDate     time.Time  `gorm:"type:date;not null" json:"punitory_start_date"`
	LastPaymentDate       *time.Time `gorm:"type:date" json:"last_payment_date"`
	Status                DebtStatus `gorm:"size:20;not null;default:OPEN;index" json:"status"`
	ClosedAt              *time.Time `json:"closed_at"`
	OpenedOn              time.Time  `gorm:"type:date" json:"opened_on"`
	LastRecordTxnID       uint       `gorm:"default:0" json:"-"` // newest record transaction when the debt opened
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	// Associations
	Contract      Contract      `gorm:"foreignKey:ContractID" json:"-"`
	MonthlyRecord MonthlyRecord `gorm:"foreignKey:MonthlyRecordID" json:"-"`
	Payments      []DebtPayment `gorm:"foreignKey:DebtID" json:"payments,omitempty"`
}

// TableName specifies the table name for Debt
func (Debt) TableName() string {
	return "debts"
}

// RemainingRent is the rent principal still unpaid
func (d *Debt) RemainingRent() float64 {
	return billing.Round2(d.UnpaidRentAmount - d.AmountPaid)
}

// PunitoryPaid is whatever part of AmountPaid went beyond the rent
func (d *Debt) PunitoryPaid() float64 {
	spill := billing.Round2(d.AmountPaid - d.UnpaidRentAmount)
	if spill < 0 {
		return 0
	}
	return spill
}

// DebtPayment is one payment against a debt. PunitoryAtPayment snapshots the
// total punitory computed at that moment so a cancellation can restore it.
type DebtPayment struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	DebtID            uint          `gorm:"not null;index" json:"debt_id"`
	PaymentDate       time.Time     `gorm:"type:date;not null" json:"payment_date"`
	Amount            float64       `gorm:"type:decimal(15,2);not null" json:"amount"`
	RentPortion       float64       `gorm:"type:decimal(15,2);default:0" json:"rent_portion"`
	PunitoryPortion   float64       `gorm:"type:decimal(15,2);default:0" json:"punitory_portion"`
	PunitoryAtPayment float64       `gorm:"type:decimal(15,2);default:0" json:"punitory_at_payment"`
	Method            PaymentMethod `gorm:"size:20;not null" json:"method"`
	Observations      *string       `gorm:"type:text" json:"observations"`
	ReceiptNumber     string        `gorm:"size:40" json:"receipt_number"`
	CreatedAt         time.Time     `json:"created_at"`
}

// TableName specifies the table name for DebtPayment
func (DebtPayment) TableName() string {
	return "debt_payments"
}
