package models

import "github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"

// RecordStatus is the payment state of a monthly record
type RecordStatus string

// Monthly record status constants
const (
	RecordStatusPending  RecordStatus = "PENDING"
	RecordStatusPartial  RecordStatus = "PARTIAL"
	RecordStatusComplete RecordStatus = "COMPLETE"
)

// Valid reports whether s is a known record status
func (s RecordStatus) Valid() bool {
	switch s {
	case RecordStatusPending, RecordStatusPartial, RecordStatusComplete:
		return true
	}
	return false
}

// DebtStatus is the settlement state of a debt
type DebtStatus string

// Debt status constants
const (
	DebtStatusOpen    DebtStatus = "OPEN"
	DebtStatusPartial DebtStatus = "PARTIAL"
	DebtStatusPaid    DebtStatus = "PAID"
)

// Valid reports whether s is a known debt status
func (s DebtStatus) Valid() bool {
	switch s {
	case DebtStatusOpen, DebtStatusPartial, DebtStatusPaid:
		return true
	}
	return false
}

// Outstanding is true while the debt still blocks new payments
func (s DebtStatus) Outstanding() bool {
	return s == DebtStatusOpen || s == DebtStatusPartial
}

// ConceptCategory groups concept types. Discounts subtract from the total.
type ConceptCategory string

// Concept category constants
const (
	CategoryTax      ConceptCategory = "IMPUESTO"
	CategoryService  ConceptCategory = "SERVICIO"
	CategoryExpense  ConceptCategory = "EXPENSA"
	CategoryDiscount ConceptCategory = "DESCUENTO"
	CategoryBonus    ConceptCategory = "BONIFICACION"
	CategoryOther    ConceptCategory = "OTRO"
)

// Valid reports whether c is a known category
func (c ConceptCategory) Valid() bool {
	switch c {
	case CategoryTax, CategoryService, CategoryExpense, CategoryDiscount, CategoryBonus, CategoryOther:
		return true
	}
	return false
}

// Subtracts is true for categories that reduce the amount owed
func (c ConceptCategory) Subtracts() bool {
	return c == CategoryDiscount || c == CategoryBonus
}

// PaymentMethod is how money was received
type PaymentMethod string

// Payment method constants
const (
	PaymentMethodCash     PaymentMethod = "EFECTIVO"
	PaymentMethodTransfer PaymentMethod = "TRANSFERENCIA"
	PaymentMethodCheck    PaymentMethod = "CHEQUE"
	PaymentMethodCard     PaymentMethod = "TARJETA"
	PaymentMethodOther    PaymentMethod = "OTRO"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// ConceptKind re-exports the breakdown line kinds so callers of models do
// not need the billing package for persisted values.
type ConceptKind = billing.ConceptKind

// Rent history reasons
const (
	RentReasonInitial    = "INICIAL"
	RentReasonAdjustment = "AJUSTE"
)
