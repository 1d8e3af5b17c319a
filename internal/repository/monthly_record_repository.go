package repository

import (
	"context"
	"errors"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MonthlyRecordRepository defines the interface for monthly record data access
type MonthlyRecordRepository interface {
	FindByID(ctx context.Context, groupID, id uint) (*models.MonthlyRecord, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.MonthlyRecord, error)
	FindByPeriod(ctx context.Context, groupID uint, month, year int) ([]models.MonthlyRecord, error)
	FindByContractMonth(ctx context.Context, contractID uint, monthNumber int) (*models.MonthlyRecord, error)
	FindUnpaidWithoutDebt(ctx context.Context, groupID uint, month, year int) ([]models.MonthlyRecord, error)
	Create(ctx context.Context, record *models.MonthlyRecord) error
	Save(ctx context.Context, record *models.MonthlyRecord) error
}

type monthlyRecordRepository struct {
	db *gorm.DB
}

// NewMonthlyRecordRepository creates a new monthly record repository
func NewMonthlyRecordRepository(db *gorm.DB) MonthlyRecordRepository {
	return &monthlyRecordRepository{db: db}
}

// recordDetails loads services, payments, the debt and the contract
// configuration in a fixed number of queries regardless of row count
func recordDetails(db *gorm.DB) *gorm.DB {
	return contractDetails(db, "Contract.").
		Preload("Contract").
		Preload("Services.ConceptType").
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC, id ASC")
		}).
		Preload("Debt")
}

func (r *monthlyRecordRepository) FindByID(ctx context.Context, groupID, id uint) (*models.MonthlyRecord, error) {
	var record models.MonthlyRecord
	err := recordDetails(r.db.WithContext(ctx)).
		Where("group_id = ?", groupID).
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByIDForUpdate locks the record row for the rest of the transaction
func (r *monthlyRecordRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.MonthlyRecord, error) {
	var record models.MonthlyRecord
	err := forUpdate(r.db.WithContext(ctx)).
		Preload("Contract").
		Preload("Services.ConceptType").
		Preload("Debt").
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *monthlyRecordRepository) FindByPeriod(ctx context.Context, groupID uint, month, year int) ([]models.MonthlyRecord, error) {
	var records []models.MonthlyRecord
	err := recordDetails(r.db.WithContext(ctx)).
		Where("group_id = ? AND period_month = ? AND period_year = ?", groupID, month, year).
		Order("contract_id ASC").
		Find(&records).Error
	return records, err
}

// FindByContractMonth returns nil without error when the month has no record
func (r *monthlyRecordRepository) FindByContractMonth(ctx context.Context, contractID uint, monthNumber int) (*models.MonthlyRecord, error) {
	var record models.MonthlyRecord
	err := r.db.WithContext(ctx).
		Where("contract_id = ? AND month_number = ?", contractID, monthNumber).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindUnpaidWithoutDebt lists the period's pending or partial records that
// have not been turned into a debt yet
func (r *monthlyRecordRepository) FindUnpaidWithoutDebt(ctx context.Context, groupID uint, month, year int) ([]models.MonthlyRecord, error) {
	var records []models.MonthlyRecord
	err := recordDetails(r.db.WithContext(ctx)).
		Where("group_id = ? AND period_month = ? AND period_year = ?", groupID, month, year).
		Where("status IN ?", []models.RecordStatus{models.RecordStatusPending, models.RecordStatusPartial}).
		Where("NOT EXISTS (SELECT 1 FROM debts WHERE debts.monthly_record_id = monthly_records.id)").
		Order("contract_id ASC").
		Find(&records).Error
	return records, err
}

func (r *monthlyRecordRepository) Create(ctx context.Context, record *models.MonthlyRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

func (r *monthlyRecordRepository) Save(ctx context.Context, record *models.MonthlyRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

// MonthlyServiceRepository defines the interface for extra charges on records
type MonthlyServiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.MonthlyService, error)
	FindConceptType(ctx context.Context, groupID, id uint) (*models.ConceptType, error)
	Create(ctx context.Context, service *models.MonthlyService) error
	Save(ctx context.Context, service *models.MonthlyService) error
	Delete(ctx context.Context, id uint) error
}

type monthlyServiceRepository struct {
	db *gorm.DB
}

// NewMonthlyServiceRepository creates a new monthly service repository
func NewMonthlyServiceRepository(db *gorm.DB) MonthlyServiceRepository {
	return &monthlyServiceRepository{db: db}
}

func (r *monthlyServiceRepository) FindByID(ctx context.Context, id uint) (*models.MonthlyService, error) {
	var service models.MonthlyService
	err := r.db.WithContext(ctx).Preload("ConceptType").First(&service, id).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *monthlyServiceRepository) FindConceptType(ctx context.Context, groupID, id uint) (*models.ConceptType, error) {
	var conceptType models.ConceptType
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		First(&conceptType, id).Error
	if err != nil {
		return nil, err
	}
	return &conceptType, nil
}

func (r *monthlyServiceRepository) Create(ctx context.Context, service *models.MonthlyService) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(service).Error
}

func (r *monthlyServiceRepository) Save(ctx context.Context, service *models.MonthlyService) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(service).Error
}

func (r *monthlyServiceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.MonthlyService{}, id).Error
}
