package repository

import (
	"context"
	"errors"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DebtRepository defines the interface for debt data access
type DebtRepository interface {
	FindByID(ctx context.Context, groupID, id uint) (*models.Debt, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Debt, error)
	FindByRecord(ctx context.Context, recordID uint) (*models.Debt, error)
	FindOutstandingByContract(ctx context.Context, groupID, contractID uint) ([]models.Debt, error)
	List(ctx context.Context, query *DebtQuery) ([]models.Debt, error)
	Create(ctx context.Context, debt *models.Debt) error
	Save(ctx context.Context, debt *models.Debt) error
	CreatePayment(ctx context.Context, payment *models.DebtPayment) error
	DeletePayment(ctx context.Context, id uint) error
}

// DebtQuery filters debt listings
type DebtQuery struct {
	GroupID    uint
	ContractID uint
	Statuses   []models.DebtStatus
}

type debtRepository struct {
	db *gorm.DB
}

// NewDebtRepository creates a new debt repository
func NewDebtRepository(db *gorm.DB) DebtRepository {
	return &debtRepository{db: db}
}

func orderedPayments(db *gorm.DB) *gorm.DB {
	return db.Order("payment_date ASC, id ASC")
}

func (r *debtRepository) FindByID(ctx context.Context, groupID, id uint) (*models.Debt, error) {
	var debt models.Debt
	err := r.db.WithContext(ctx).
		Preload("Payments", orderedPayments).
		Where("group_id = ?", groupID).
		First(&debt, id).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

// FindByIDForUpdate locks the debt row for the rest of the transaction
func (r *debtRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Debt, error) {
	var debt models.Debt
	err := forUpdate(r.db.WithContext(ctx)).
		Preload("Payments", orderedPayments).
		First(&debt, id).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

// FindByRecord returns nil without error when the record has no debt
func (r *debtRepository) FindByRecord(ctx context.Context, recordID uint) (*models.Debt, error) {
	var debt models.Debt
	err := r.db.WithContext(ctx).
		Preload("Payments", orderedPayments).
		Where("monthly_record_id = ?", recordID).
		First(&debt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *debtRepository) FindOutstandingByContract(ctx context.Context, groupID, contractID uint) ([]models.Debt, error) {
	var debts []models.Debt
	err := r.db.WithContext(ctx).
		Preload("Payments", orderedPayments).
		Where("group_id = ? AND contract_id = ?", groupID, contractID).
		Where("status IN ?", []models.DebtStatus{models.DebtStatusOpen, models.DebtStatusPartial}).
		Order("period_year ASC, period_month ASC").
		Find(&debts).Error
	return debts, err
}

// List loads debts with payments only; contracts are batch-loaded by the caller
func (r *debtRepository) List(ctx context.Context, query *DebtQuery) ([]models.Debt, error) {
	var debts []models.Debt
	db := r.db.WithContext(ctx).
		Preload("Payments", orderedPayments).
		Where("group_id = ?", query.GroupID)
	if query.ContractID > 0 {
		db = db.Where("contract_id = ?", query.ContractID)
	}
	if len(query.Statuses) > 0 {
		db = db.Where("status IN ?", query.Statuses)
	}
	err := db.Order("period_year DESC, period_month DESC, id ASC").Find(&debts).Error
	return debts, err
}

func (r *debtRepository) Create(ctx context.Context, debt *models.Debt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(debt).Error
}

func (r *debtRepository) Save(ctx context.Context, debt *models.Debt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(debt).Error
}

func (r *debtRepository) CreatePayment(ctx context.Context, payment *models.DebtPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *debtRepository) DeletePayment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.DebtPayment{}, id).Error
}
