package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFSMStampsFirstFullPayment(t *testing.T) {
	ctx := context.Background()
	first := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	record := &models.MonthlyRecord{ID: 1, Status: models.RecordStatusPending}

	require.NoError(t, NewRecordFSM(record, first).Transition(ctx, models.RecordStatusPartial))
	assert.Equal(t, models.RecordStatusPartial, record.Status)
	assert.Nil(t, record.FullPaymentDate)

	require.NoError(t, NewRecordFSM(record, first).Transition(ctx, models.RecordStatusComplete))
	assert.Equal(t, models.RecordStatusComplete, record.Status)
	assert.True(t, record.IsPaid)
	require.NotNil(t, record.FullPaymentDate)
	assert.Equal(t, first, *record.FullPaymentDate)

	// Reopening and completing again keeps the first date.
	later := first.AddDate(0, 0, 10)
	require.NoError(t, NewRecordFSM(record, later).Transition(ctx, models.RecordStatusPartial))
	assert.False(t, record.IsPaid)
	require.NoError(t, NewRecordFSM(record, later).Transition(ctx, models.RecordStatusComplete))
	assert.Equal(t, first, *record.FullPaymentDate)
}

func TestRecordFSMSameStateIsNoop(t *testing.T) {
	record := &models.MonthlyRecord{Status: models.RecordStatusPending}
	require.NoError(t, NewRecordFSM(record, time.Now()).Transition(context.Background(), models.RecordStatusPending))
	assert.Equal(t, models.RecordStatusPending, record.Status)
}

func TestRecordFSMReset(t *testing.T) {
	record := &models.MonthlyRecord{Status: models.RecordStatusComplete}
	require.NoError(t, NewRecordFSM(record, time.Now()).Transition(context.Background(), models.RecordStatusPending))
	assert.Equal(t, models.RecordStatusPending, record.Status)
}

func TestDebtFSMLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC)
	debt := &models.Debt{ID: 7, Status: models.DebtStatusOpen}

	require.NoError(t, NewDebtFSM(debt, now).Transition(ctx, models.DebtStatusPartial))
	assert.Equal(t, models.DebtStatusPartial, debt.Status)
	assert.Nil(t, debt.ClosedAt)

	require.NoError(t, NewDebtFSM(debt, now).Transition(ctx, models.DebtStatusPaid))
	assert.Equal(t, models.DebtStatusPaid, debt.Status)
	require.NotNil(t, debt.ClosedAt)
	assert.Equal(t, now, *debt.ClosedAt)

	require.NoError(t, NewDebtFSM(debt, now).Transition(ctx, models.DebtStatusPartial))
	assert.Nil(t, debt.ClosedAt)

	require.NoError(t, NewDebtFSM(debt, now).Transition(ctx, models.DebtStatusOpen))
	assert.Equal(t, models.DebtStatusOpen, debt.Status)
}

func TestDebtFSMSettleFromOpen(t *testing.T) {
	debt := &models.Debt{Status: models.DebtStatusOpen}
	machine := NewDebtFSM(debt, time.Now())
	assert.True(t, machine.Can("settle"))
	assert.False(t, machine.Can("revert_payment"))

	require.NoError(t, machine.Transition(context.Background(), models.DebtStatusPaid))
	assert.Equal(t, models.DebtStatusPaid, machine.Current())
}
