package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextAdjustmentMonth(t *testing.T) {
	tests := []struct {
		name                         string
		start, current, freq, length int
		want                         int
		wantOK                       bool
	}{
		{name: "quarterly from creation", start: 1, current: 1, freq: 3, length: 12, want: 4, wantOK: true},
		{name: "on an adjustment month", start: 1, current: 4, freq: 3, length: 12, want: 7, wantOK: true},
		{name: "between adjustments", start: 1, current: 5, freq: 3, length: 12, want: 7, wantOK: true},
		{name: "before the start month", start: 3, current: 1, freq: 3, length: 12, want: 3, wantOK: true},
		{name: "past the contract end", start: 1, current: 10, freq: 3, length: 12},
		{name: "no frequency", start: 1, current: 1, freq: 0, length: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextAdjustmentMonth(tt.start, tt.current, tt.freq, tt.length)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextAdjustmentMonthIsOnSchedule(t *testing.T) {
	const duration = 24
	for start := 1; start <= 6; start++ {
		for freq := 1; freq <= 12; freq++ {
			for current := 0; current <= 30; current++ {
				next, ok := NextAdjustmentMonth(start, current, freq, duration)
				if !ok {
					continue
				}
				assert.GreaterOrEqual(t, next, start)
				assert.Zero(t, (next-start)%freq)
				assert.LessOrEqual(t, next, duration)
				assert.True(t, next > current || (current < start && next == start))
				assert.True(t, IsAdjustmentMonth(start, next, freq))
			}
		}
	}
}

func TestIsAdjustmentMonth(t *testing.T) {
	assert.True(t, IsAdjustmentMonth(1, 1, 3))
	assert.True(t, IsAdjustmentMonth(1, 7, 3))
	assert.False(t, IsAdjustmentMonth(1, 8, 3))
	assert.False(t, IsAdjustmentMonth(4, 1, 3))
	assert.False(t, IsAdjustmentMonth(1, 4, 0))
}

func TestRentForMonth(t *testing.T) {
	steps := []RentStep{
		{EffectiveFromMonth: 7, RentAmount: 121000},
		{EffectiveFromMonth: 1, RentAmount: 100000},
		{EffectiveFromMonth: 4, RentAmount: 110000},
	}

	assert.Equal(t, 100000.0, RentForMonth(steps, 1, 999))
	assert.Equal(t, 110000.0, RentForMonth(steps, 5, 999))
	assert.Equal(t, 121000.0, RentForMonth(steps, 12, 999))
	assert.Equal(t, 999.0, RentForMonth(steps, 0, 999))
	assert.Equal(t, 999.0, RentForMonth(nil, 3, 999))
	assert.Equal(t, 7, steps[0].EffectiveFromMonth, "input must not be reordered")
}

func TestMonthNumber(t *testing.T) {
	start := time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, MonthNumber(1, start, 11, 2024))
	assert.Equal(t, 4, MonthNumber(1, start, 2, 2025))
	assert.Equal(t, 0, MonthNumber(1, start, 10, 2024))
	assert.Equal(t, 6, MonthNumber(3, start, 2, 2025))
}

func TestActiveForMonth(t *testing.T) {
	assert.True(t, ActiveForMonth(1, 12, true))
	assert.True(t, ActiveForMonth(12, 12, true))
	assert.False(t, ActiveForMonth(13, 12, true))
	assert.False(t, ActiveForMonth(0, 12, true))
	assert.False(t, ActiveForMonth(5, 12, false))
}

func TestIsPastPeriod(t *testing.T) {
	asOf := date(2025, time.January, 10)
	assert.True(t, IsPastPeriod(12, 2024, asOf))
	assert.False(t, IsPastPeriod(1, 2025, asOf))
	assert.False(t, IsPastPeriod(2, 2025, asOf))
}
