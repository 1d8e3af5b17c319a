package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProperty(t *testing.T, f *fixture, address string) *models.Property {
	t.Helper()
	owner := &models.Owner{GroupID: group, Name: "Propietario"}
	require.NoError(t, f.db.Create(owner).Error)
	property := &models.Property{GroupID: group, OwnerID: owner.ID, Address: address, Active: true}
	require.NoError(t, f.db.Create(property).Error)
	return property
}

func newTenant(t *testing.T, f *fixture, name string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{GroupID: group, Name: name}
	require.NoError(t, f.db.Create(tenant).Error)
	return tenant
}

func TestRegisterContract(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	property := newProperty(t, f, "Rivadavia 300")
	index := testutil.CreateIndex(t, f.db, "ICL", 3, 0)
	ana := newTenant(t, f, "Ana Gómez")
	luis := newTenant(t, f, "Luis Díaz")

	contract, err := f.svcs.Contracts.Register(context.Background(), group, ContractInput{
		PropertyID:        property.ID,
		StartDate:         testutil.Date(2025, time.January, 1),
		DurationMonths:    24,
		BaseRent:          250000,
		AdjustmentIndexID: &index.ID,
		PunitoryPercent:   0.002,
		TenantIDs:         []uint{ana.ID, luis.ID, ana.ID},
		PrimaryTenantID:   luis.ID,
	})
	require.NoError(t, err)
	assert.True(t, contract.Active)
	assert.Equal(t, 1, contract.StartMonth)
	assert.Equal(t, 3, contract.CurrentMonth)
	require.NotNil(t, contract.NextAdjustmentMonth)
	assert.Equal(t, 4, *contract.NextAdjustmentMonth)
	assert.Equal(t, 1, contract.PunitoryStartDay)
	assert.Equal(t, 10, contract.PunitoryGraceDay)
	assert.Len(t, contract.Tenants, 2)
	assert.Equal(t, "Luis Díaz", contract.TenantName())
	require.Len(t, contract.RentHistory, 1)
	assert.Equal(t, models.RentReasonInitial, contract.RentHistory[0].Reason)
	assert.Equal(t, 250000.0, contract.RentHistory[0].RentAmount)

	// the new contract bills the current period right away
	rec := f.record(t, contract, 3, 2025)
	assert.Equal(t, 250000.0, rec.RentAmount)
}

func TestRegisterContract_OneActivePerProperty(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	existing := testutil.CreateContract(t, f.db, testutil.ContractOptions{})

	in := ContractInput{
		PropertyID:     existing.PropertyID,
		StartDate:      testutil.Date(2025, time.March, 1),
		DurationMonths: 12,
		BaseRent:       90000,
	}
	_, err := f.svcs.Contracts.Register(context.Background(), group, in)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)

	_, err = f.svcs.Contracts.End(context.Background(), group, existing.ID)
	require.NoError(t, err)

	contract, err := f.svcs.Contracts.Register(context.Background(), group, in)
	require.NoError(t, err)
	assert.Equal(t, existing.PropertyID, contract.PropertyID)
	assert.Nil(t, contract.NextAdjustmentMonth)
}

func TestRegisterContract_Validation(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	property := newProperty(t, f, "Rivadavia 300")
	valid := ContractInput{
		PropertyID:     property.ID,
		StartDate:      testutil.Date(2025, time.January, 1),
		DurationMonths: 12,
		BaseRent:       100000,
	}

	tests := []struct {
		name   string
		mutate func(*ContractInput)
		target error
	}{
		{"missing rent", func(in *ContractInput) { in.BaseRent = 0 }, ErrValidation},
		{"start month beyond duration", func(in *ContractInput) { in.StartMonth = 13 }, ErrValidation},
		{"percent as whole number", func(in *ContractInput) { in.PunitoryPercent = 5 }, ErrValidation},
		{"grace day out of range", func(in *ContractInput) { in.PunitoryGraceDay = 32 }, ErrValidation},
		{"unknown tenant", func(in *ContractInput) { in.TenantIDs = []uint{999} }, ErrValidation},
		{"unknown property", func(in *ContractInput) { in.PropertyID = 999 }, ErrNotFound},
		{"unknown index", func(in *ContractInput) { id := uint(999); in.AdjustmentIndexID = &id }, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.svcs.Contracts.Register(context.Background(), group, in)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestEndContract(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	contract := testutil.CreateContract(t, f.db, testutil.ContractOptions{})

	ended, err := f.svcs.Contracts.End(context.Background(), group, contract.ID)
	require.NoError(t, err)
	assert.False(t, ended.Active)

	_, err = f.svcs.Contracts.End(context.Background(), group, contract.ID)
	assert.True(t, errors.Is(err, ErrConflict))

	list, err := f.svcs.Records.GenerateOrFetch(context.Background(), group, 3, 2025, RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Records)
}
