package services

import (
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
)

func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func paidTotal(txns []models.PaymentTransaction) float64 {
	total := 0.0
	for _, t := range txns {
		total = billing.Round2(total + t.Amount)
	}
	return total
}

// recordPayments drops the transactions mirrored from debt payments
func recordPayments(txns []models.PaymentTransaction) []models.PaymentTransaction {
	out := make([]models.PaymentTransaction, 0, len(txns))
	for _, t := range txns {
		if !t.FromDebt() {
			out = append(out, t)
		}
	}
	return out
}

// latestRecordPayment is the most recent transaction booked directly on the
// record. txns must be ordered oldest first.
func latestRecordPayment(txns []models.PaymentTransaction) *models.PaymentTransaction {
	for i := len(txns) - 1; i >= 0; i-- {
		if !txns[i].FromDebt() {
			return &txns[i]
		}
	}
	return nil
}

func lastRecordPaymentDate(txns []models.PaymentTransaction) *time.Time {
	if t := latestRecordPayment(txns); t != nil {
		d := billing.DateOnly(t.PaymentDate)
		return &d
	}
	return nil
}

// applyPayments refreshes the paid amount and the frozen punitory from the
// transaction log
func applyPayments(r *models.MonthlyRecord, txns []models.PaymentTransaction) {
	r.AmountPaid = paidTotal(txns)
	r.PunitoryAmount, r.PunitoryDays, r.PunitoryForgiven = 0, 0, false
	if t := latestRecordPayment(txns); t != nil {
		r.PunitoryAmount = t.PunitoryAmount
		r.PunitoryDays = t.PunitoryDays
		r.PunitoryForgiven = t.PunitoryForgiven
	}
}

// applyTotals derives services, total due and balance. It is pure so that
// generating, refreshing and recalculating a record agree to the cent.
func applyTotals(r *models.MonthlyRecord) {
	services := 0.0
	for i := range r.Services {
		services = billing.Round2(services + r.Services[i].Signed())
	}
	r.ServicesTotal = services
	punitory := r.PunitoryAmount
	if r.Debt != nil {
		punitory = debtPunitory(r, r.Debt.AccumulatedPunitory)
	}
	due := billing.Round2(r.RentAmount + services + punitory + r.IVA() - r.PreviousBalance)
	r.TotalDue = positive(due)
	r.Balance = billing.Round2(r.AmountPaid - r.TotalDue)
}

// debtPunitory is the punitory a record owes once closed into a debt: the
// share of its frozen punitory its own payments covered plus the debt's
// total. Mirrored debt payments count in AmountPaid, so this is what
// TotalDue carries.
func debtPunitory(r *models.MonthlyRecord, debtTotal float64) float64 {
	covered := positive(billing.Round2(r.PunitoryAmount - r.Debt.CarriedPunitory))
	return billing.Round2(covered + debtTotal)
}

// recordStatus applies the status rules. An unsettled debt caps the record
// below COMPLETE and a settled one forces it.
func recordStatus(r *models.MonthlyRecord) models.RecordStatus {
	if r.Debt != nil {
		if r.Debt.Status == models.DebtStatusPaid {
			return models.RecordStatusComplete
		}
		if r.AmountPaid > 0 {
			return models.RecordStatusPartial
		}
		return models.RecordStatusPending
	}
	switch {
	case r.AmountPaid > 0 && r.Balance >= 0:
		return models.RecordStatusComplete
	case r.AmountPaid > 0:
		return models.RecordStatusPartial
	default:
		return models.RecordStatusPending
	}
}

// recordAssessment is what a record still owes as of a date
type recordAssessment struct {
	Outstanding    billing.Outstanding
	Accrual        billing.Punitory
	Cumulative     float64
	UnpaidFrozen   float64
	UnpaidPunitory float64
	Paid           float64
	LastPayment    *time.Time
	ClockStart     time.Time
}

// assessRecord runs the waterfall over the payments booked on the record and
// accrues punitory on the rent still unpaid. With fromPeriodStart the clock
// starts on day one when nothing was paid; otherwise the calculator picks the
// start day.
func assessRecord(r *models.MonthlyRecord, contract *models.Contract, txns []models.PaymentTransaction, holidays billing.HolidaySet, asOf time.Time, fromPeriodStart bool) recordAssessment {
	own := recordPayments(txns)
	ledger := r.Ledger()
	ledger.AmountPaid = paidTotal(own)
	out := ledger.Outstanding()

	last := lastRecordPaymentDate(txns)
	clock := billing.PeriodStart(r.PeriodMonth, r.PeriodYear)
	if last != nil {
		clock = *last
	}
	from := last
	if fromPeriodStart {
		from = &clock
	}

	accrual := billing.CalculatePunitory(contract.Punitory(asOf, r.PeriodMonth, r.PeriodYear, out.Rent, holidays, from))
	cumulative := billing.Round2(r.PunitoryAmount + accrual.Amount)

	return recordAssessment{
		Outstanding:    out,
		Accrual:        accrual,
		Cumulative:     cumulative,
		UnpaidFrozen:   positive(billing.Round2(r.PunitoryAmount - out.Surplus)),
		UnpaidPunitory: positive(billing.Round2(cumulative - out.Surplus)),
		Paid:           ledger.AmountPaid,
		LastPayment:    last,
		ClockStart:     clock,
	}
}

// debtAssessment is the live state of a debt as of a date
type debtAssessment struct {
	Accrual       billing.Punitory
	Total         float64
	Unpaid        float64
	RemainingRent float64
	CurrentTotal  float64
}

// assessDebt accrues punitory on a debt. Before any payment the clock runs
// from the punitory start date on the unpaid rent, on top of what the record
// carried at close. After a payment it restarts from that payment on the rent
// still owed, or on the unpaid punitory once rent is covered.
func assessDebt(d *models.Debt, contract *models.Contract, holidays billing.HolidaySet, asOf time.Time) debtAssessment {
	remaining := positive(d.RemainingRent())
	spill := d.PunitoryPaid()

	base, carried, from := remaining, d.CarriedPunitory, d.PunitoryStartDate
	if d.LastPaymentDate != nil {
		carried, from = d.AccumulatedPunitory, *d.LastPaymentDate
		if base <= 0 {
			base = positive(billing.Round2(d.AccumulatedPunitory - spill))
		}
	}

	accrual := billing.CalculatePunitory(contract.Punitory(asOf, d.PeriodMonth, d.PeriodYear, base, holidays, &from))
	total := billing.Round2(carried + accrual.Amount)

	return debtAssessment{
		Accrual:       accrual,
		Total:         total,
		Unpaid:        positive(billing.Round2(total - spill)),
		RemainingRent: remaining,
		CurrentTotal:  positive(billing.Round2(d.UnpaidRentAmount + total - d.AmountPaid)),
	}
}

// settled applies the one-peso tolerance
func settled(amount float64) bool {
	return amount <= billing.PaidTolerance
}
