package billing

import "time"

const dateKeyLayout = "2006-01-02"

// DateOnly strips the time of day, keeping the calendar date as seen in t's
// own location. Results live in UTC so day arithmetic never crosses a DST or
// offset boundary.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b (negative when
// b is before a).
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// PeriodStart is day 1 of the calendar month.
func PeriodStart(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodDay returns the given day of the period, clamped to the month's last
// day so a grace day of 31 works in February.
func PeriodDay(month, year, day int) time.Time {
	if day < 1 {
		day = 1
	}
	last := PeriodStart(month, year).AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// periodIndex orders calendar months: year*12 + month.
func periodIndex(month, year int) int {
	return year*12 + month
}

// HolidaySet is a set of calendar dates keyed by YYYY-MM-DD.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from holiday dates, ignoring time of day.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	set.Add(dates...)
	return set
}

// Add inserts dates into the set.
func (h HolidaySet) Add(dates ...time.Time) {
	for _, d := range dates {
		h[DateOnly(d).Format(dateKeyLayout)] = struct{}{}
	}
}

// Merge copies every date of other into h.
func (h HolidaySet) Merge(other HolidaySet) {
	for k := range other {
		h[k] = struct{}{}
	}
}

// Contains reports whether the calendar date of t is a holiday.
func (h HolidaySet) Contains(t time.Time) bool {
	if h == nil {
		return false
	}
	_, ok := h[DateOnly(t).Format(dateKeyLayout)]
	return ok
}

// IsBusinessDay is false on weekends and holidays.
func IsBusinessDay(t time.Time, holidays HolidaySet) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(t)
}

// NextBusinessDay returns t itself when it is a business day, otherwise the
// first business day after it.
func NextBusinessDay(t time.Time, holidays HolidaySet) time.Time {
	d := DateOnly(t)
	for !IsBusinessDay(d, holidays) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
