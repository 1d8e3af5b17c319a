package database

import (
	"fmt"
	"os"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	pkgLogger "github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*gorm.DB, error) {
	// Configure GORM logger
	logLevel := logger.Warn
	if os.Getenv("ENVIRONMENT") != "production" {
		logLevel = logger.Info
	}

	gormLogger := pkgLogger.NewGormLogger(
		logLevel,
		200*time.Millisecond,
	)

	// Open database connection
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true, // Improve performance
		PrepareStmt:            true, // Cache prepared statements
		TranslateError:         true, // Surface unique violations as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Models lists every table in migration order
func Models() []any {
	return []any{
		&models.Owner{},
		&models.Property{},
		&models.Tenant{},
		&models.AdjustmentIndex{},
		&models.Contract{},
		&models.ContractTenant{},
		&models.RentHistory{},
		&models.ConceptType{},
		&models.MonthlyRecord{},
		&models.MonthlyService{},
		&models.Debt{},
		&models.DebtPayment{},
		&models.PaymentTransaction{},
		&models.TransactionConcept{},
		&models.Holiday{},
		&models.AuditLog{},
	}
}

// Migrate creates or updates the schema. Both postgres and sqlite support the
// partial index that keeps one active contract per property.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_contract_active_property
		ON contracts (property_id) WHERE active`).Error
	if err != nil {
		return fmt.Errorf("active contract index: %w", err)
	}
	return nil
}
