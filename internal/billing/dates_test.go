package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(date(2025, time.March, 1), date(2025, time.March, 1)))
	assert.Equal(t, 28, DaysBetween(date(2025, time.February, 1), date(2025, time.March, 1)))
	assert.Equal(t, -1, DaysBetween(date(2025, time.March, 2), date(2025, time.March, 1)))

	// Across a DST change the count must stay in whole days.
	ny, err := time.LoadLocation("America/New_York")
	if err == nil {
		a := time.Date(2025, time.March, 8, 12, 0, 0, 0, ny)
		b := time.Date(2025, time.March, 10, 0, 30, 0, 0, ny)
		assert.Equal(t, 2, DaysBetween(a, b))
	}
}

func TestPeriodDayClampsToMonthEnd(t *testing.T) {
	assert.Equal(t, date(2025, time.February, 28), PeriodDay(2, 2025, 31))
	assert.Equal(t, date(2024, time.February, 29), PeriodDay(2, 2024, 30))
	assert.Equal(t, date(2025, time.April, 1), PeriodDay(4, 2025, 0))
}

func TestNextBusinessDay(t *testing.T) {
	holidays := NewHolidaySet(date(2025, time.May, 1), date(2025, time.May, 2))

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{name: "weekday", in: date(2025, time.April, 30), want: date(2025, time.April, 30)},
		{name: "holiday then friday holiday then weekend", in: date(2025, time.May, 1), want: date(2025, time.May, 5)},
		{name: "sunday", in: date(2025, time.May, 11), want: date(2025, time.May, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextBusinessDay(tt.in, holidays))
		})
	}
}

func TestHolidaySetMatchesByCalendarDate(t *testing.T) {
	set := NewHolidaySet(time.Date(2025, time.July, 9, 15, 0, 0, 0, time.UTC))
	assert.True(t, set.Contains(date(2025, time.July, 9)))
	assert.False(t, set.Contains(date(2025, time.July, 10)))

	other := NewHolidaySet(date(2025, time.July, 10))
	set.Merge(other)
	assert.True(t, set.Contains(date(2025, time.July, 10)))

	var empty HolidaySet
	assert.False(t, empty.Contains(date(2025, time.July, 9)))
}
