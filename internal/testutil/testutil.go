// Package testutil opens an in-memory database with the production schema
// and builds the fixtures the service and handler tests share.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/database"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GroupID is the tenancy every fixture belongs to unless told otherwise
const GroupID uint = 1

// NewDB opens a private in-memory SQLite database and migrates it. A single
// connection keeps the database alive and serializes writers.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=private", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Date is midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Clock returns a clock frozen at t
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// ContractOptions configures CreateContract. Zero values pick sensible
// defaults: group 1, 12 months, rent 100000, grace day 10, no punitory.
type ContractOptions struct {
	GroupID          uint
	StartDate        time.Time
	StartMonth       int
	DurationMonths   int
	BaseRent         float64
	PunitoryStartDay int
	PunitoryGraceDay int
	PunitoryPercent  float64
	IncludeIVA       bool
	IndexID          *uint
	TenantName       string
	Address          string
}

func (o *ContractOptions) defaults() {
	if o.GroupID == 0 {
		o.GroupID = GroupID
	}
	if o.StartDate.IsZero() {
		o.StartDate = Date(2025, time.January, 1)
	}
	if o.StartMonth == 0 {
		o.StartMonth = 1
	}
	if o.DurationMonths == 0 {
		o.DurationMonths = 12
	}
	if o.BaseRent == 0 {
		o.BaseRent = 100000
	}
	if o.PunitoryStartDay == 0 {
		o.PunitoryStartDay = 1
	}
	if o.PunitoryGraceDay == 0 {
		o.PunitoryGraceDay = 10
	}
	if o.TenantName == "" {
		o.TenantName = "Juan Pérez"
	}
	if o.Address == "" {
		o.Address = "San Martín 1450"
	}
}

// CreateContract stores an active contract with its property, owner, primary
// tenant and INICIAL rent history row
func CreateContract(t testing.TB, db *gorm.DB, opts ContractOptions) *models.Contract {
	t.Helper()
	opts.defaults()

	owner := &models.Owner{GroupID: opts.GroupID, Name: "Propietario"}
	require.NoError(t, db.Create(owner).Error)
	property := &models.Property{GroupID: opts.GroupID, OwnerID: owner.ID, Address: opts.Address, Active: true}
	require.NoError(t, db.Create(property).Error)
	tenant := &models.Tenant{GroupID: opts.GroupID, Name: opts.TenantName}
	require.NoError(t, db.Create(tenant).Error)

	contract := &models.Contract{
		GroupID:           opts.GroupID,
		PropertyID:        property.ID,
		StartDate:         opts.StartDate,
		StartMonth:        opts.StartMonth,
		DurationMonths:    opts.DurationMonths,
		CurrentMonth:      opts.StartMonth,
		BaseRent:          opts.BaseRent,
		AdjustmentIndexID: opts.IndexID,
		PunitoryStartDay:  opts.PunitoryStartDay,
		PunitoryGraceDay:  opts.PunitoryGraceDay,
		PunitoryPercent:   opts.PunitoryPercent,
		IncludeIVA:        opts.IncludeIVA,
		Active:            true,
	}
	require.NoError(t, db.Omit("Property", "AdjustmentIndex", "Tenants", "RentHistory").Create(contract).Error)

	require.NoError(t, db.Create(&models.RentHistory{
		ContractID:         contract.ID,
		EffectiveFromMonth: opts.StartMonth,
		RentAmount:         opts.BaseRent,
		Reason:             models.RentReasonInitial,
	}).Error)
	require.NoError(t, db.Omit("Tenant").Create(&models.ContractTenant{
		ContractID: contract.ID,
		TenantID:   tenant.ID,
		IsPrimary:  true,
	}).Error)
	return contract
}

// CreateIndex stores an adjustment index
func CreateIndex(t testing.TB, db *gorm.DB, name string, frequency int, value float64) *models.AdjustmentIndex {
	t.Helper()
	index := &models.AdjustmentIndex{GroupID: GroupID, Name: name, FrequencyMonths: frequency, CurrentValue: value}
	require.NoError(t, db.Create(index).Error)
	return index
}

// CreateConceptType stores a concept type for service lines
func CreateConceptType(t testing.TB, db *gorm.DB, name string, category models.ConceptCategory) *models.ConceptType {
	t.Helper()
	ct := &models.ConceptType{GroupID: GroupID, Name: name, Category: category, Active: true}
	require.NoError(t, db.Create(ct).Error)
	return ct
}

// CreateHoliday stores a holiday
func CreateHoliday(t testing.TB, db *gorm.DB, date time.Time, name string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Holiday{Date: date, Name: name, Year: date.Year()}).Error)
}
