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

// closedMarch leaves March 2025 unpaid and closes it on April 1st
func closedMarch(t *testing.T, opts testutil.ContractOptions) (*fixture, *models.Contract, RecordView, DebtSummary) {
	t.Helper()
	f := newFixture(t, 2025, time.March, 5)
	contract := testutil.CreateContract(t, f.db, opts)
	rec := f.record(t, contract, 3, 2025)

	f.clock.Set(2025, time.April, 1)
	res, err := f.svcs.Close.Close(context.Background(), group, 3, 2025)
	require.NoError(t, err)
	require.Len(t, res.Debts, 1)
	return f, contract, rec, res.Debts[0]
}

func (f *fixture) payDebt(t *testing.T, debtID uint, amount float64, date time.Time) *DebtPaymentResult {
	t.Helper()
	res, err := f.svcs.Debts.PayDebt(context.Background(), group, debtID, DebtPaymentInput{
		Amount:      amount,
		PaymentDate: date,
	})
	require.NoError(t, err)
	return res
}

func TestCreateFromRecord_UnpaidMonth(t *testing.T) {
	f, _, rec, summary := closedMarch(t, testutil.ContractOptions{PunitoryPercent: 0.001})

	debt, err := f.svcs.Debts.Get(context.Background(), group, summary.DebtID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, debt.MonthlyRecordID)
	assert.Equal(t, 100000.0, debt.UnpaidRentAmount)
	assert.Equal(t, 103200.0, debt.OriginalAmount)
	assert.Equal(t, 3200.0, debt.Punitory)
	assert.Equal(t, 32, debt.PunitoryDays)
	assert.Equal(t, 103200.0, debt.CurrentTotal)
	assert.True(t, testutil.Date(2025, time.March, 1).Equal(debt.PunitoryStartDate))
	assert.Equal(t, models.DebtStatusOpen, debt.Status)
	assert.Nil(t, debt.ClosedAt)

	// the record is capped below COMPLETE and shows the debt
	view, err := f.svcs.Records.Get(context.Background(), group, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RecordStatusPending, view.Status)
	require.NotNil(t, view.Debt)
	assert.Equal(t, summary.DebtID, view.Debt.DebtID)
	assert.Equal(t, 3200.0, view.LivePunitory)
}

func TestCreateFromRecord_Idempotent(t *testing.T) {
	f, _, rec, summary := closedMarch(t, testutil.ContractOptions{})

	hs, err := f.svcs.Calendar.ForPeriod(context.Background(), 3, 2025, f.clock.Now())
	require.NoError(t, err)
	debt, created, err := f.svcs.Debts.CreateFromRecord(context.Background(), rec.ID, hs)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, summary.DebtID, debt.ID)

	var count int64
	require.NoError(t, f.db.Model(&models.Debt{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateFromRecord_PartialPayment(t *testing.T) {
	f := newFixture(t, 2025, time.March, 5)
	contract := testutil.CreateContract(t, f.db, testutil.ContractOptions{})
	rec := f.record(t, contract, 3, 2025)
	f.pay(t, rec.ID, 60000, testutil.Date(2025, time.March, 5))

	f.clock.Set(2025, time.April, 1)
	res, err := f.svcs.Close.Close(context.Background(), group, 3, 2025)
	require.NoError(t, err)
	require.Len(t, res.Debts, 1)

	debt, err := f.svcs.Debts.Get(context.Background(), group, res.Debts[0].DebtID)
	require.NoError(t, err)
	assert.Equal(t, 40000.0, debt.UnpaidRentAmount)
	assert.Equal(t, 40000.0, debt.OriginalAmount)

	view, err := f.svcs.Records.Get(context.Background(), group, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RecordStatusPartial, view.Status)
}

func TestPayDebt_SettlesDebtAndRecord(t *testing.T) {
	f, _, rec, summary := closedMarch(t, testutil.ContractOptions{PunitoryPercent: 0.001})

	res := f.payDebt(t, summary.DebtID, 103200, testutil.Date(2025, time.April, 1))
	assert.Equal(t, models.DebtStatusPaid, res.Debt.Status)
	require.NotNil(t, res.Debt.ClosedAt)
	assert.Zero(t, res.Debt.CurrentTotal)

	assert.Equal(t, 100000.0, res.Payment.RentPortion)
	assert.Equal(t, 3200.0, res.Payment.PunitoryPortion)
	assert.Equal(t, 3200.0, res.Payment.PunitoryAtPayment)

	require.NotNil(t, res.Transaction.DebtPaymentID)
	assert.Equal(t, res.Payment.ID, *res.Transaction.DebtPaymentID)
	assert.Equal(t, rec.ID, res.Transaction.MonthlyRecordID)
	assert.Equal(t, []models.ConceptKind{"ALQUILER_DEUDA", "PUNITORIOS"}, conceptKinds(res.Transaction.Concepts))
	assert.Equal(t, 103200.0, conceptSum(res.Transaction.Concepts))

	view, err := f.svcs.Records.Get(context.Background(), group, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RecordStatusComplete, view.Status)
	assert.Equal(t, 103200.0, view.AmountPaid)

	eligibility, err := f.svcs.Debts.CanPayCurrentMonth(context.Background(), group, rec.ContractID)
	require.NoError(t, err)
	assert.True(t, eligibility.CanPay)
	assert.Empty(t, eligibility.Debts)
}

func TestPayDebt_Rejections(t *testing.T) {
	f, _, _, summary := closedMarch(t, testutil.ContractOptions{PunitoryPercent: 0.001})

	_, err := f.svcs.Debts.PayDebt(context.Background(), group, summary.DebtID, DebtPaymentInput{
		Amount:      200000,
		PaymentDate: testutil.Date(2025, time.April, 1),
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amount", ve.Field)

	f.payDebt(t, summary.DebtID, 103200, testutil.Date(2025, time.April, 1))
	_, err = f.svcs.Debts.PayDebt(context.Background(), group, summary.DebtID, DebtPaymentInput{
		Amount:      10,
		PaymentDate: testutil.Date(2025, time.April, 2),
	})
	assert.True(t, errors.Is(err, ErrConflict))

	_, err = f.svcs.Debts.PayDebt(context.Background(), group+1, summary.DebtID, DebtPaymentInput{
		Amount:      10,
		PaymentDate: testutil.Date(2025, time.April, 2),
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPayDebt_PartialRestartsClock(t *testing.T) {
	f, _, _, summary := closedMarch(t, testutil.ContractOptions{PunitoryPercent: 0.001})

	first := f.payDebt(t, summary.DebtID, 40000, testutil.Date(2025, time.April, 1))
	assert.Equal(t, models.DebtStatusPartial, first.Debt.Status)
	assert.Equal(t, 60000.0, first.Debt.RemainingRent)
	assert.Equal(t, 63200.0, first.Debt.CurrentTotal)

	// 5 days on the 60000 still owed, on top of the 3200 already accrued
	f.clock.Set(2025, time.April, 5)
	second := f.payDebt(t, summary.DebtID, 30000, testutil.Date(2025, time.April, 5))
	assert.Equal(t, 3500.0, second.Payment.PunitoryAtPayment)
	assert.Equal(t, 70000.0, second.Debt.AmountPaid)
	assert.Equal(t, 33500.0, second.Debt.CurrentTotal)
	assert.Equal(t, models.DebtStatusPartial, second.Debt.Status)
}

func TestCancelPayment_LastOnly(t *testing.T) {
	f, _, rec, summary := closedMarch(t, testutil.ContractOptions{PunitoryPercent: 0.001})

	first := f.payDebt(t, summary.DebtID, 40000, testutil.Date(2025, time.April, 1))
	f.clock.Set(2025, time.April, 5)
	second := f.payDebt(t, summary.DebtID, 30000, testutil.Date(2025, time.April, 5))

	_, err := f.svcs.Debts.CancelPayment(context.Background(), group, summary.DebtID, first.Payment.ID)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "último pago")

	_, err = f.svcs.Debts.CancelPayment(context.Background(), group, summary.DebtID, 999)
	assert.True(t, errors.Is(err, ErrNotFound))

	view, err := f.svcs.Debts.CancelPayment(context.Background(), group, summary.DebtID, second.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, 40000.0, view.AmountPaid)
	assert.Equal(t, models.DebtStatusPartial, view.Status)
	require.Len(t, view.Payments, 1)
	require.NotNil(t, view.LastPaymentDate)
	assert.True(t, testutil.Date(2025, time.April, 1).Equal(*view.LastPaymentDate))

	// the restored snapshot accrues again from the first payment
	stored, err := f.repos.Debt.FindByID(context.Background(), group, summary.DebtID)
	require.NoError(t, err)
	assert.Equal(t, 3200.0, stored.AccumulatedPunitory)

	var mirrors int64
	require.NoError(t, f.db.Model(&models.PaymentTransaction{}).Where("monthly_record_id = ?", rec.ID).Count(&mirrors).Error)
	assert.Equal(t, int64(1), mirrors)
}

func TestCancelPayment_ReopensPaidDebt(t *testing.T) {
	f, _, rec, summary := closedMarch(t, testutil.ContractOptions{})

	res := f.payDebt(t, summary.DebtID, 100000, testutil.Date(2025, time.April, 1))
	require.Equal(t, models.DebtStatusPaid, res.Debt.Status)

	view, err := f.svcs.Debts.CancelPayment(context.Background(), group, summary.DebtID, res.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusOpen, view.Status)
	assert.Nil(t, view.ClosedAt)
	assert.Zero(t, view.AmountPaid)

	record, err := f.svcs.Records.Get(context.Background(), group, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RecordStatusPending, record.Status)
	assert.Zero(t, record.AmountPaid)
}

func TestDeleteTransaction_RoutesMirrorToDebt(t *testing.T) {
	f, _, rec, summary := closedMarch(t, testutil.ContractOptions{})

	res := f.payDebt(t, summary.DebtID, 50000, testutil.Date(2025, time.April, 1))

	updated, err := f.svcs.Payments.DeleteTransaction(context.Background(), group, res.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, updated.ID)
	assert.Zero(t, updated.AmountPaid)

	debt, err := f.svcs.Debts.Get(context.Background(), group, summary.DebtID)
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusOpen, debt.Status)
	assert.Empty(t, debt.Payments)
}

func TestDebtList_Filters(t *testing.T) {
	f, contract, _, summary := closedMarch(t, testutil.ContractOptions{})

	all, err := f.svcs.Debts.List(context.Background(), group, DebtFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, summary.DebtID, all[0].DebtID)
	assert.Equal(t, "Juan Pérez", all[0].Tenant)

	paid, err := f.svcs.Debts.List(context.Background(), group, DebtFilter{Status: models.DebtStatusPaid})
	require.NoError(t, err)
	assert.Empty(t, paid)

	byContract, err := f.svcs.Debts.List(context.Background(), group, DebtFilter{ContractID: contract.ID + 1})
	require.NoError(t, err)
	assert.Empty(t, byContract)

	_, err = f.svcs.Debts.List(context.Background(), group, DebtFilter{Status: "BOGUS"})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCanPayCurrentMonth(t *testing.T) {
	f, contract, _, _ := closedMarch(t, testutil.ContractOptions{})

	eligibility, err := f.svcs.Debts.CanPayCurrentMonth(context.Background(), group, contract.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.CanPay)
	assert.Len(t, eligibility.Debts, 1)
	assert.Equal(t, 100000.0, eligibility.TotalOwed)
	assert.Contains(t, eligibility.Message, "1 deuda(s)")
}

func TestPayDebt_NextMonthCarriesNoCredit(t *testing.T) {
	f, contract, rec, summary := closedMarch(t, testutil.ContractOptions{PunitoryPercent: 0.001})
	f.payDebt(t, summary.DebtID, 103200, testutil.Date(2025, time.April, 1))

	march, err := f.svcs.Records.Get(context.Background(), group, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 103200.0, march.TotalDue)
	assert.Zero(t, march.Balance)

	april := f.record(t, contract, 4, 2025)
	assert.Zero(t, april.PreviousBalance)
	assert.Equal(t, 100000.0, april.TotalDue)
}

func TestPayDebt_PunitoryOnlyDebtCarriesNoCredit(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	contract := testutil.CreateContract(t, f.db, testutil.ContractOptions{PunitoryPercent: 0.001})
	rec := f.record(t, contract, 3, 2025)
	// rent is covered but 1000 of the 1500 punitory is not
	f.pay(t, rec.ID, 100500, testutil.Date(2025, time.March, 15))

	f.clock.Set(2025, time.April, 1)
	res, err := f.svcs.Close.Close(context.Background(), group, 3, 2025)
	require.NoError(t, err)
	require.Len(t, res.Debts, 1)
	debt, err := f.svcs.Debts.Get(context.Background(), group, res.Debts[0].DebtID)
	require.NoError(t, err)
	assert.Zero(t, debt.UnpaidRentAmount)
	assert.Equal(t, 1000.0, debt.CurrentTotal)

	f.clock.Set(2025, time.April, 2)
	paid := f.payDebt(t, debt.DebtID, 1000, testutil.Date(2025, time.April, 2))
	assert.Equal(t, models.DebtStatusPaid, paid.Debt.Status)

	march, err := f.svcs.Records.Get(context.Background(), group, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 101500.0, march.AmountPaid)
	assert.Equal(t, 101500.0, march.TotalDue)
	assert.Zero(t, march.Balance)

	april := f.record(t, contract, 4, 2025)
	assert.Zero(t, april.PreviousBalance)
}

func TestDeleteTransaction_RefreshesDebtAsOfOpening(t *testing.T) {
	f := newFixture(t, 2025, time.March, 15)
	contract := testutil.CreateContract(t, f.db, testutil.ContractOptions{PunitoryPercent: 0.001})
	rec := f.record(t, contract, 3, 2025)
	partial := f.pay(t, rec.ID, 60000, testutil.Date(2025, time.March, 15))

	f.clock.Set(2025, time.April, 1)
	res, err := f.svcs.Close.Close(context.Background(), group, 3, 2025)
	require.NoError(t, err)
	require.Len(t, res.Debts, 1)
	debtID := res.Debts[0].DebtID

	// reversing long after the close still measures the debt on its opening day
	f.clock.Set(2025, time.June, 30)
	updated, err := f.svcs.Payments.DeleteTransaction(context.Background(), group, partial.Transaction.ID)
	require.NoError(t, err)
	assert.Zero(t, updated.AmountPaid)

	stored, err := f.repos.Debt.FindByID(context.Background(), group, debtID)
	require.NoError(t, err)
	assert.True(t, testutil.Date(2025, time.April, 1).Equal(stored.OpenedOn))
	assert.Equal(t, 100000.0, stored.UnpaidRentAmount)
	assert.Equal(t, 3200.0, stored.AccumulatedPunitory)
	assert.Zero(t, stored.CarriedPunitory)
	assert.True(t, testutil.Date(2025, time.March, 1).Equal(stored.PunitoryStartDate))
	assert.Empty(t, stored.Payments)
}
