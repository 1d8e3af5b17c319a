package repository

import (
	"context"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HolidayRepository defines the interface for holiday data access
type HolidayRepository interface {
	FindByYears(ctx context.Context, years []int) ([]models.Holiday, error)
	Upsert(ctx context.Context, holiday *models.Holiday) error
}

type holidayRepository struct {
	db *gorm.DB
}

// NewHolidayRepository creates a new holiday repository
func NewHolidayRepository(db *gorm.DB) HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) FindByYears(ctx context.Context, years []int) ([]models.Holiday, error) {
	var holidays []models.Holiday
	if len(years) == 0 {
		return holidays, nil
	}
	err := r.db.WithContext(ctx).
		Where("year IN ?", years).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

// Upsert inserts a holiday, renaming it if the date already exists
func (r *holidayRepository) Upsert(ctx context.Context, holiday *models.Holiday) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(holiday).Error
}

// AdjustmentIndexRepository defines the interface for adjustment index data access
type AdjustmentIndexRepository interface {
	FindByID(ctx context.Context, groupID, id uint) (*models.AdjustmentIndex, error)
	FindWithValue(ctx context.Context, groupID uint) ([]models.AdjustmentIndex, error)
	Save(ctx context.Context, index *models.AdjustmentIndex) error
}

type adjustmentIndexRepository struct {
	db *gorm.DB
}

// NewAdjustmentIndexRepository creates a new adjustment index repository
func NewAdjustmentIndexRepository(db *gorm.DB) AdjustmentIndexRepository {
	return &adjustmentIndexRepository{db: db}
}

func (r *adjustmentIndexRepository) FindByID(ctx context.Context, groupID, id uint) (*models.AdjustmentIndex, error) {
	var index models.AdjustmentIndex
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		First(&index, id).Error
	if err != nil {
		return nil, err
	}
	return &index, nil
}

// FindWithValue lists the group's indices with a nonzero current value
func (r *adjustmentIndexRepository) FindWithValue(ctx context.Context, groupID uint) ([]models.AdjustmentIndex, error) {
	var indices []models.AdjustmentIndex
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND current_value <> 0", groupID).
		Order("id ASC").
		Find(&indices).Error
	return indices, err
}

func (r *adjustmentIndexRepository) Save(ctx context.Context, index *models.AdjustmentIndex) error {
	return r.db.WithContext(ctx).Save(index).Error
}

// AuditRepository defines the interface for audit log data access
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, groupID uint, limit, offset int) ([]models.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, groupID uint, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AuditLog{}).Where("group_id = ?", groupID)
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, total, err
}
