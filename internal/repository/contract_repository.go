package repository

import (
	"context"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContractRepository defines the interface for contract data access
type ContractRepository interface {
	FindByID(ctx context.Context, groupID, id uint) (*models.Contract, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Contract, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Contract, error)
	FindActiveByGroup(ctx context.Context, groupID uint) ([]models.Contract, error)
	FindActiveByIndex(ctx context.Context, groupID, indexID uint) ([]models.Contract, error)
	HasActiveForProperty(ctx context.Context, propertyID uint) (bool, error)
	Create(ctx context.Context, contract *models.Contract) error
	Update(ctx context.Context, contract *models.Contract) error
	AppendRentHistory(ctx context.Context, entry *models.RentHistory) error
	AddTenants(ctx context.Context, tenants []models.ContractTenant) error
	FindProperty(ctx context.Context, groupID, id uint) (*models.Property, error)
	FindTenants(ctx context.Context, groupID uint, ids []uint) ([]models.Tenant, error)
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) FindByID(ctx context.Context, groupID, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := contractDetails(r.db.WithContext(ctx), "").
		Where("group_id = ?", groupID).
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// FindByIDs loads several contracts in one round trip, for batch listings
func (r *contractRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Contract, error) {
	var contracts []models.Contract
	if len(ids) == 0 {
		return contracts, nil
	}
	err := contractDetails(r.db.WithContext(ctx), "").
		Where("id IN ?", ids).
		Find(&contracts).Error
	return contracts, err
}

func (r *contractRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := forUpdate(r.db.WithContext(ctx)).
		Preload("AdjustmentIndex").
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindActiveByGroup(ctx context.Context, groupID uint) ([]models.Contract, error) {
	var contracts []models.Contract
	err := contractDetails(r.db.WithContext(ctx), "").
		Where("group_id = ? AND active = ?", groupID, true).
		Order("id ASC").
		Find(&contracts).Error
	return contracts, err
}

func (r *contractRepository) FindActiveByIndex(ctx context.Context, groupID, indexID uint) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Preload("AdjustmentIndex").
		Where("group_id = ? AND adjustment_index_id = ? AND active = ?", groupID, indexID, true).
		Order("id ASC").
		Find(&contracts).Error
	return contracts, err
}

func (r *contractRepository) HasActiveForProperty(ctx context.Context, propertyID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Where("property_id = ? AND active = ?", propertyID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(contract).Error
}

func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(contract).Error
}

func (r *contractRepository) AppendRentHistory(ctx context.Context, entry *models.RentHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *contractRepository) AddTenants(ctx context.Context, tenants []models.ContractTenant) error {
	if len(tenants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&tenants).Error
}

func (r *contractRepository) FindProperty(ctx context.Context, groupID, id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *contractRepository) FindTenants(ctx context.Context, groupID uint, ids []uint) ([]models.Tenant, error) {
	var tenants []models.Tenant
	if len(ids) == 0 {
		return tenants, nil
	}
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND id IN ?", groupID, ids).
		Find(&tenants).Error
	return tenants, err
}
