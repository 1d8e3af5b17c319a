package models

import (
	"time"
)

// AuditLog represents a billing audit entry
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // PAYMENT, REVERSAL, DEBT_CREATED, DEBT_PAYMENT, ADJUSTMENT...
	Entity    string    `gorm:"size:50;not null" json:"entity"` // MonthlyRecord, Debt, Contract...
	EntityID  uint      `gorm:"index" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action constants
const (
	AuditActionPayment          = "PAYMENT"
	AuditActionReversal         = "REVERSAL"
	AuditActionDebtCreated      = "DEBT_CREATED"
	AuditActionDebtPayment      = "DEBT_PAYMENT"
	AuditActionDebtCancellation = "DEBT_PAYMENT_CANCELLED"
	AuditActionAdjustment       = "ADJUSTMENT"
	AuditActionMonthClosed      = "MONTH_CLOSED"
	AuditActionContractCreated  = "CONTRACT_CREATED"
)
