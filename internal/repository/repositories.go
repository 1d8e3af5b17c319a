package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repositories holds all repository instances bound to one connection or
// one open transaction
type Repositories struct {
	db *gorm.DB

	Contract ContractRepository
	Record   MonthlyRecordRepository
	Service  MonthlyServiceRepository
	Payment  TransactionRepository
	Debt     DebtRepository
	Holiday  HolidayRepository
	Index    AdjustmentIndexRepository
	Audit    AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:       db,
		Contract: NewContractRepository(db),
		Record:   NewMonthlyRecordRepository(db),
		Service:  NewMonthlyServiceRepository(db),
		Payment:  NewTransactionRepository(db),
		Debt:     NewDebtRepository(db),
		Holiday:  NewHolidayRepository(db),
		Index:    NewAdjustmentIndexRepository(db),
		Audit:    NewAuditRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database
// transaction. Returning an error rolls every write back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// forUpdate takes a row lock on postgres. SQLite ignores the clause and
// serializes writers on its own.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// contractDetails preloads what billing needs from a contract
func contractDetails(db *gorm.DB, prefix string) *gorm.DB {
	return db.
		Preload(prefix + "AdjustmentIndex").
		Preload(prefix+"RentHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("effective_from_month ASC, id ASC")
		}).
		Preload(prefix + "Property").
		Preload(prefix+"Tenants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload(prefix + "Tenants.Tenant")
}
