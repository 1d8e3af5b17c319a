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
	"gorm.io/gorm"
)

func TestApplyAdjustment_RaisesRentFromNextMonth(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	index := testutil.CreateIndex(t, f.db, "ICL", 3, 0)
	contract := testutil.CreateContract(t, f.db, testutil.ContractOptions{IndexID: &index.ID})
	march := f.record(t, contract, 3, 2025)

	res, err := f.svcs.Adjustments.ApplyAdjustment(context.Background(), group, index.ID, 10)
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	applied := res.Applied[0]
	assert.Equal(t, 100000.0, applied.PreviousRent)
	assert.Equal(t, 110000.0, applied.NewRent)
	assert.Equal(t, 4, applied.EffectiveFromMonth)
	require.NotNil(t, applied.NextAdjustmentMonth)
	assert.Equal(t, 7, *applied.NextAdjustmentMonth)

	// a second run for the same month finds nothing due
	again, err := f.svcs.Adjustments.ApplyAdjustment(context.Background(), group, index.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, again.Applied)
	assert.Equal(t, 1, again.Skipped)

	// the generated month keeps its rent and the next one picks up the raise
	got, err := f.svcs.Records.Get(context.Background(), group, march.ID)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, got.RentAmount)
	april := f.record(t, contract, 4, 2025)
	assert.Equal(t, 110000.0, april.RentAmount)

	var history []models.RentHistory
	require.NoError(t, f.db.Where("contract_id = ?", contract.ID).Order("effective_from_month").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, models.RentReasonAdjustment, history[1].Reason)
	assert.Equal(t, 10.0, history[1].AdjustmentPercent)

	stored, err := f.repos.Index.FindByID(context.Background(), group, index.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.CurrentValue)
	require.NotNil(t, stored.LastUpdated)
}

func TestApplyAdjustment_SkipsContractsNotDue(t *testing.T) {
	f := newFixture(t, 2025, time.February, 10)
	index := testutil.CreateIndex(t, f.db, "IPC", 3, 0)
	testutil.CreateContract(t, f.db, testutil.ContractOptions{IndexID: &index.ID})

	res, err := f.svcs.Adjustments.ApplyAdjustment(context.Background(), group, index.ID, 5)
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
	assert.Equal(t, 1, res.Skipped)
}

func TestApplyAdjustment_Validation(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	index := testutil.CreateIndex(t, f.db, "ICL", 3, 0)

	_, err := f.svcs.Adjustments.ApplyAdjustment(context.Background(), group, index.ID, 0)
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = f.svcs.Adjustments.ApplyAdjustment(context.Background(), group, index.ID, -100)
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = f.svcs.Adjustments.ApplyAdjustment(context.Background(), group, 999, 5)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestApplyAll_UsesIndexValues(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	icl := testutil.CreateIndex(t, f.db, "ICL", 3, 10)
	testutil.CreateIndex(t, f.db, "Sin valor", 3, 0)
	contract := testutil.CreateContract(t, f.db, testutil.ContractOptions{IndexID: &icl.ID})

	results, err := f.svcs.Adjustments.ApplyAll(context.Background(), group)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, icl.ID, results[0].IndexID)
	require.Len(t, results[0].Applied, 1)
	assert.Equal(t, contract.ID, results[0].Applied[0].ContractID)
	assert.Equal(t, 110000.0, results[0].Applied[0].NewRent)
}

func TestApplyAdjustment_ContinuesPastFailures(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	index := testutil.CreateIndex(t, f.db, "ICL", 3, 0)
	first := testutil.CreateContract(t, f.db, testutil.ContractOptions{IndexID: &index.ID, Address: "Colón 1"})
	broken := testutil.CreateContract(t, f.db, testutil.ContractOptions{IndexID: &index.ID, Address: "Colón 2"})
	last := testutil.CreateContract(t, f.db, testutil.ContractOptions{IndexID: &index.ID, Address: "Colón 3"})

	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:reject_contract", func(tx *gorm.DB) {
		if c, ok := tx.Statement.Model.(*models.Contract); ok && c.ID == broken.ID {
			_ = tx.AddError(errors.New("bloqueo agotado"))
		}
	}))

	res, err := f.svcs.Adjustments.ApplyAdjustment(context.Background(), group, index.ID, 10)
	require.NoError(t, err)
	require.Len(t, res.Applied, 2)
	assert.Equal(t, first.ID, res.Applied[0].ContractID)
	assert.Equal(t, last.ID, res.Applied[1].ContractID)
	assert.Zero(t, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, broken.ID, res.Errors[0].ContractID)
	assert.Equal(t, index.ID, res.Errors[0].IndexID)
	assert.Contains(t, res.Errors[0].Error, "bloqueo agotado")

	// the failed contract rolled back whole
	stored, err := f.repos.Contract.FindByID(context.Background(), group, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, stored.BaseRent)
	var history int64
	require.NoError(t, f.db.Model(&models.RentHistory{}).Where("contract_id = ?", broken.ID).Count(&history).Error)
	assert.Equal(t, int64(1), history)
}

func TestAdjustContract_AlreadyAdjustedConflicts(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	index := testutil.CreateIndex(t, f.db, "ICL", 3, 0)
	contract := testutil.CreateContract(t, f.db, testutil.ContractOptions{IndexID: &index.ID})
	current := contract.MonthNumber(3, 2025)

	_, err := f.svcs.Adjustments.adjustContract(context.Background(), contract.ID, current, 10)
	require.NoError(t, err)

	// a run that loaded the contract before this adjustment must not raise it twice
	_, err = f.svcs.Adjustments.adjustContract(context.Background(), contract.ID, current, 10)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.True(t, errors.Is(err, ErrConflict))

	stored, err := f.repos.Contract.FindByID(context.Background(), group, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, 110000.0, stored.BaseRent)
}
