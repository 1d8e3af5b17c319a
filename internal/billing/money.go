// Package billing holds the pure rent, late-fee and allocation math used by
// the monthly record, payment and debt services. Nothing here touches the
// database or the clock.
package billing

import "github.com/shopspring/decimal"

// PaidTolerance absorbs rounding drift between a previewed total and the
// amount booked moments later. A debt or record within one peso of zero is
// considered settled.
const PaidTolerance = 1.0

// IVARate is the flat VAT applied to rent when a record includes IVA.
const IVARate = 0.21

var hundred = decimal.NewFromInt(100)

// Round2 rounds half away from zero to cents.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RoundPeso rounds to the nearest whole currency unit, used for UI totals.
func RoundPeso(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

// IVA returns the VAT due on rent, or zero when the record excludes it.
func IVA(rent float64, include bool) float64 {
	if !include {
		return 0
	}
	return Round2(rent * IVARate)
}

// ApplyPercent returns amount increased by pct percent, rounded to cents.
func ApplyPercent(amount, pct float64) float64 {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(pct).Div(hundred))
	return decimal.NewFromFloat(amount).Mul(factor).Round(2).InexactFloat64()
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func minDec(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
