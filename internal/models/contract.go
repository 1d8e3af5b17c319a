package models

import (
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"
)

// Contract represents a lease on a property
type Contract struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	GroupID             uint      `gorm:"not null;index" json:"group_id"`
	PropertyID          uint      `gorm:"not null;index" json:"property_id"`
	StartDate           time.Time `gorm:"type:date;not null" json:"start_date"`
	StartMonth          int       `gorm:"not null;default:1" json:"start_month"`
	DurationMonths      int       `gorm:"not null" json:"duration_months"`
	CurrentMonth        int       `gorm:"default:1" json:"current_month"` // display only
	BaseRent            float64   `gorm:"type:decimal(15,2);not null" json:"base_rent"`
	AdjustmentIndexID   *uint     `gorm:"index" json:"adjustment_index_id"`
	NextAdjustmentMonth *int      `json:"next_adjustment_month"`
	PunitoryStartDay    int       `gorm:"not null;default:1" json:"punitory_start_day"`
	PunitoryGraceDay    int       `gorm:"not null;default:10" json:"punitory_grace_day"`
	PunitoryPercent     float64   `gorm:"type:decimal(8,5);not null;default:0" json:"punitory_percent"` // daily fraction
	IncludeIVA          bool      `gorm:"default:false" json:"include_iva"`
	Active              bool      `gorm:"index" json:"active"`
	Observations        *string   `gorm:"type:text" json:"observations"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// Associations
	Property        Property         `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	AdjustmentIndex *AdjustmentIndex `gorm:"foreignKey:AdjustmentIndexID" json:"adjustment_index,omitempty"`
	Tenants         []ContractTenant `gorm:"foreignKey:ContractID" json:"tenants,omitempty"`
	RentHistory     []RentHistory    `gorm:"foreignKey:ContractID" json:"rent_history,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// MonthNumber maps a calendar period to this contract's month number
func (c *Contract) MonthNumber(month, year int) int {
	return billing.MonthNumber(c.StartMonth, c.StartDate, month, year)
}

// ActiveFor reports whether the contract bills month n
func (c *Contract) ActiveFor(n int) bool {
	return billing.ActiveForMonth(n, c.DurationMonths, c.Active)
}

// FrequencyMonths is the adjustment frequency, zero when no index is linked
func (c *Contract) FrequencyMonths() int {
	if c.AdjustmentIndex == nil {
		return 0
	}
	return c.AdjustmentIndex.FrequencyMonths
}

// RentFor resolves the rent in force for month n from the rent history,
// falling back to the current base rent. RentHistory must be loaded.
func (c *Contract) RentFor(n int) float64 {
	steps := make([]billing.RentStep, 0, len(c.RentHistory))
	for _, h := range c.RentHistory {
		steps = append(steps, billing.RentStep{EffectiveFromMonth: h.EffectiveFromMonth, RentAmount: h.RentAmount})
	}
	return billing.RentForMonth(steps, n, c.BaseRent)
}

// Punitory builds a late-fee evaluation with this contract's settings
func (c *Contract) Punitory(payDate time.Time, month, year int, base float64, holidays billing.HolidaySet, last *time.Time) billing.PunitoryInput {
	return billing.PunitoryInput{
		PaymentDate:     payDate,
		PeriodMonth:     month,
		PeriodYear:      year,
		BaseAmount:      base,
		StartDay:        c.PunitoryStartDay,
		GraceDay:        c.PunitoryGraceDay,
		DailyRate:       c.PunitoryPercent,
		Holidays:        holidays,
		LastPaymentDate: last,
	}
}

// PrimaryTenant returns the tenant flagged primary, else the first by
// position. Nil when the contract has no tenants loaded.
func (c *Contract) PrimaryTenant() *Tenant {
	var first *ContractTenant
	for i := range c.Tenants {
		ct := &c.Tenants[i]
		if ct.IsPrimary {
			return &ct.Tenant
		}
		if first == nil || ct.Position < first.Position {
			first = ct
		}
	}
	if first == nil {
		return nil
	}
	return &first.Tenant
}

// TenantName is the primary tenant's name or empty
func (c *Contract) TenantName() string {
	if t := c.PrimaryTenant(); t != nil {
		return t.Name
	}
	return ""
}

// RentHistory is an append-only log of rent changes for a contract
type RentHistory struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ContractID         uint      `gorm:"not null;index" json:"contract_id"`
	EffectiveFromMonth int       `gorm:"not null" json:"effective_from_month"`
	RentAmount         float64   `gorm:"type:decimal(15,2);not null" json:"rent_amount"`
	AdjustmentPercent  float64   `gorm:"type:decimal(10,4);default:0" json:"adjustment_percent"`
	Reason             string    `gorm:"size:20;not null" json:"reason"` // INICIAL, AJUSTE
	CreatedAt          time.Time `json:"created_at"`
}

// TableName specifies the table name for RentHistory
func (RentHistory) TableName() string {
	return "rent_histories"
}
