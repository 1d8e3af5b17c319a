package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// PunitoryInput describes one late-fee evaluation.
type PunitoryInput struct {
	PaymentDate time.Time
	PeriodMonth int
	PeriodYear  int
	// BaseAmount is the outstanding principal the fee accrues on.
	BaseAmount float64
	StartDay   int
	GraceDay   int
	// DailyRate is the fraction of BaseAmount charged per late day (0.005 = 0.5%).
	DailyRate float64
	Holidays  HolidaySet
	// LastPaymentDate restarts the clock after a partial payment.
	LastPaymentDate *time.Time
}

// Punitory is the outcome of a late-fee evaluation. FromDate and ToDate are
// zero when no day accrued.
type Punitory struct {
	Amount    float64   `json:"amount"`
	Days      int       `json:"days"`
	GraceDate time.Time `json:"grace_date"`
	FromDate  time.Time `json:"from_date"`
	ToDate    time.Time `json:"to_date"`
}

// GraceDate is the grace day of the period pushed forward to the next
// business day.
func GraceDate(month, year, graceDay int, holidays HolidaySet) time.Time {
	return NextBusinessDay(PeriodDay(month, year, graceDay), holidays)
}

// CalculatePunitory computes the late fee owed on in.BaseAmount as of
// in.PaymentDate. All day counts are inclusive of both ends.
func CalculatePunitory(in PunitoryInput) Punitory {
	payDate := DateOnly(in.PaymentDate)
	result := Punitory{GraceDate: GraceDate(in.PeriodMonth, in.PeriodYear, in.GraceDay, in.Holidays)}

	if in.BaseAmount <= 0 {
		return result
	}

	period := periodIndex(in.PeriodMonth, in.PeriodYear)
	current := periodIndex(int(payDate.Month()), payDate.Year())
	if period >= current && !payDate.After(result.GraceDate) {
		return result
	}

	var from time.Time
	switch {
	case in.LastPaymentDate != nil:
		last := DateOnly(*in.LastPaymentDate)
		if !payDate.After(last) {
			return result
		}
		from = last
	case period < current:
		from = PeriodStart(in.PeriodMonth, in.PeriodYear)
	default:
		from = PeriodDay(in.PeriodMonth, in.PeriodYear, in.StartDay)
	}

	days := DaysBetween(from, payDate) + 1
	if days <= 0 {
		return result
	}

	amount := decimal.NewFromFloat(in.BaseAmount).
		Mul(decimal.NewFromFloat(in.DailyRate)).
		Mul(decimal.NewFromInt(int64(days))).
		Round(2)

	result.Amount = amount.InexactFloat64()
	result.Days = days
	result.FromDate = from
	result.ToDate = payDate
	return result
}
