package models

import (
	"time"
)

// Owner is the landlord of one or more properties
type Owner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	Name      string    `gorm:"not null" json:"name"`
	DNI       string    `gorm:"size:20" json:"dni"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Owner
func (Owner) TableName() string {
	return "owners"
}

// Property is a rentable unit
type Property struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Address   string    `gorm:"not null" json:"address"`
	Unit      string    `json:"unit"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Owner Owner `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

// TableName specifies the table name for Property
func (Property) TableName() string {
	return "properties"
}

// Label is the address plus unit, as printed on receipts
func (p *Property) Label() string {
	if p.Unit == "" {
		return p.Address
	}
	return p.Address + " " + p.Unit
}

// Tenant is a person renting a property
type Tenant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	Name      string    `gorm:"not null" json:"name"`
	DNI       string    `gorm:"size:20" json:"dni"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}

// ContractTenant links tenants to a contract in order. Exactly one of them
// should be primary when the list is not empty.
type ContractTenant struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ContractID uint `gorm:"not null;uniqueIndex:idx_contract_tenant" json:"contract_id"`
	TenantID   uint `gorm:"not null;uniqueIndex:idx_contract_tenant" json:"tenant_id"`
	IsPrimary  bool `gorm:"default:false" json:"is_primary"`
	Position   int  `gorm:"default:0" json:"position"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"tenant"`
}

// TableName specifies the table name for ContractTenant
func (ContractTenant) TableName() string {
	return "contract_tenants"
}

// AdjustmentIndex is an inflation index (ICL, IPC...) applied to rents
// periodically
type AdjustmentIndex struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	GroupID         uint       `gorm:"not null;index" json:"group_id"`
	Name            string     `gorm:"not null" json:"name"`
	FrequencyMonths int        `gorm:"not null" json:"frequency_months"`
	CurrentValue    float64    `gorm:"type:decimal(10,4);default:0" json:"current_value"` // percent
	LastUpdated     *time.Time `json:"last_updated"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for AdjustmentIndex
func (AdjustmentIndex) TableName() string {
	return "adjustment_indices"
}

// Holiday is a non-business day used to shift grace dates
type Holiday struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`
	Name      string    `json:"name"`
	Year      int       `gorm:"not null;index" json:"year"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Holiday
func (Holiday) TableName() string {
	return "holidays"
}
