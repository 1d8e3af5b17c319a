package repository

import (
	"context"
	"errors"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"gorm.io/gorm"
)

// TransactionRepository defines the interface for payment transaction data access
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.PaymentTransaction) error
	FindByID(ctx context.Context, groupID, id uint) (*models.PaymentTransaction, error)
	FindByRecord(ctx context.Context, recordID uint) ([]models.PaymentTransaction, error)
	FindByDebtPayment(ctx context.Context, debtPaymentID uint) (*models.PaymentTransaction, error)
	Delete(ctx context.Context, id uint) error
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new payment transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create stores the transaction together with its concepts
func (r *transactionRepository) Create(ctx context.Context, txn *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, groupID, id uint) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Preload("Concepts", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("group_id = ?", groupID).
		First(&txn, id).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindByRecord returns the record's transactions oldest first
func (r *transactionRepository) FindByRecord(ctx context.Context, recordID uint) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Preload("Concepts", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("monthly_record_id = ?", recordID).
		Order("payment_date ASC, id ASC").
		Find(&txns).Error
	return txns, err
}

// FindByDebtPayment returns nil without error when no mirror exists
func (r *transactionRepository) FindByDebtPayment(ctx context.Context, debtPaymentID uint) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("debt_payment_id = ?", debtPaymentID).
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Delete removes a transaction and its concepts
func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", id).Delete(&models.TransactionConcept{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.PaymentTransaction{}, id).Error
}
