package billing

import "time"

// MonthNumber maps a calendar period to the contract-relative month number.
// startMonth is the number assigned to the calendar month of startDate.
func MonthNumber(startMonth int, startDate time.Time, month, year int) int {
	return startMonth + periodIndex(month, year) - periodIndex(int(startDate.Month()), startDate.Year())
}

// ActiveForMonth reports whether month n falls inside the contract's life.
func ActiveForMonth(n, durationMonths int, active bool) bool {
	return active && n >= 1 && n <= durationMonths
}

// IsPastPeriod reports whether the period ended before the month of asOf.
func IsPastPeriod(month, year int, asOf time.Time) bool {
	return periodIndex(month, year) < periodIndex(int(asOf.Month()), asOf.Year())
}
