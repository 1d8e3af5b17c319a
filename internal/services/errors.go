package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Common service errors
var (
	ErrNotFound   = errors.New("registro no encontrado")
	ErrValidation = errors.New("datos inválidos")
	ErrConflict   = errors.New("conflicto con el estado actual")
	ErrBlocked    = errors.New("operación bloqueada por deudas pendientes")
)

// ValidationError is a malformed or missing input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError is an entity that is absent or outside the caller's group
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError is a request that clashes with stored state, such as a
// duplicate or an out-of-order cancellation
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// BlockedError rejects a payment while the contract has unsettled debts.
// Debts lists them so the caller can show what must be paid first.
type BlockedError struct {
	Message string
	Debts   []DebtSummary
}

func (e *BlockedError) Error() string { return e.Message }

func (e *BlockedError) Unwrap() error { return ErrBlocked }

func validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// notFound converts gorm's missing-row error, passing other errors through
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}
