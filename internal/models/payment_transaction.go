package models

import (
	"time"
)

// PaymentTransaction is one immutable payment event against a monthly
// record. Transactions mirrored from a debt payment carry DebtPaymentID.
type PaymentTransaction struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	GroupID          uint          `gorm:"not null;index" json:"group_id"`
	MonthlyRecordID  uint          `gorm:"not null;index" json:"monthly_record_id"`
	ContractID       uint          `gorm:"not null;index" json:"contract_id"`
	DebtPaymentID    *uint         `gorm:"index" json:"debt_payment_id,omitempty"`
	PaymentDate      time.Time     `gorm:"type:date;not null;index" json:"payment_date"`
	Amount           float64       `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method           PaymentMethod `gorm:"size:20;not null" json:"method"`
	PunitoryAmount   float64       `gorm:"type:decimal(15,2);default:0" json:"punitory_amount"`
	PunitoryDays     int           `gorm:"default:0" json:"punitory_days"`
	PunitoryForgiven bool          `gorm:"default:false" json:"punitory_forgiven"`
	ReceiptNumber    string        `gorm:"size:40;uniqueIndex" json:"receipt_number"`
	Observations     *string       `gorm:"type:text" json:"observations"`
	CreatedAt        time.Time     `json:"created_at"`

	// Associations
	Concepts []TransactionConcept `gorm:"foreignKey:TransactionID" json:"concepts"`
}

// TableName specifies the table name for PaymentTransaction
func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// FromDebt is true for transactions booked through a debt payment
func (t *PaymentTransaction) FromDebt() bool {
	return t.DebtPaymentID != nil
}

// TransactionConcept is one line of how a payment was allocated
type TransactionConcept struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	TransactionID    uint        `gorm:"not null;index" json:"transaction_id"`
	Position         int         `gorm:"not null" json:"position"`
	Kind             ConceptKind `gorm:"size:20;not null" json:"kind"`
	Label            string      `json:"label"`
	Amount           float64     `gorm:"type:decimal(15,2);not null" json:"amount"`
	MonthlyServiceID *uint       `json:"monthly_service_id,omitempty"`
	Informational    bool        `gorm:"default:false" json:"informational,omitempty"`
}

// TableName specifies the table name for TransactionConcept
func (TransactionConcept) TableName() string {
	return "transaction_concepts"
}
