package billing

import "sort"

// NextAdjustmentMonth returns the contract month of the next periodic rent
// adjustment after currentMonth. Adjustments fall on startMonth,
// startMonth+f, startMonth+2f... ok is false when the contract has no
// adjustment left within its duration or no frequency is configured.
func NextAdjustmentMonth(startMonth, currentMonth, frequencyMonths, durationMonths int) (next int, ok bool) {
	if frequencyMonths <= 0 {
		return 0, false
	}
	if currentMonth < startMonth {
		next = startMonth
	} else {
		periodsPassed := (currentMonth - startMonth) / frequencyMonths
		next = startMonth + (periodsPassed+1)*frequencyMonths
	}
	if next > durationMonths {
		return 0, false
	}
	return next, true
}

// IsAdjustmentMonth reports whether currentMonth is one of the adjustment months.
func IsAdjustmentMonth(startMonth, currentMonth, frequencyMonths int) bool {
	if frequencyMonths <= 0 || currentMonth < startMonth {
		return false
	}
	return (currentMonth-startMonth)%frequencyMonths == 0
}

// RentStep is one entry of a contract's rent history.
type RentStep struct {
	EffectiveFromMonth int
	RentAmount         float64
}

// RentForMonth resolves the rent in force for a contract month: the most
// recent step effective on or before monthNumber, or fallback when none is.
func RentForMonth(steps []RentStep, monthNumber int, fallback float64) float64 {
	sorted := make([]RentStep, len(steps))
	copy(sorted, steps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveFromMonth < sorted[j].EffectiveFromMonth
	})

	rent, found := 0.0, false
	for _, s := range sorted {
		if s.EffectiveFromMonth > monthNumber {
			break
		}
		rent, found = s.RentAmount, true
	}
	if !found {
		return fallback
	}
	return rent
}
