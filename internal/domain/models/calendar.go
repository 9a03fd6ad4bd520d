package models

import (
	"fmt"
	"time"
)

// WindowMonths is the number of trailing months covered by ingestion and queries.
const WindowMonths = 12

// YearMonth identifies a target month of the window.
type YearMonth struct {
	Year  int
	Month time.Month
}

// String renders the month as YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// FirstDay returns the 1st of the month at midnight UTC.
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Day builds the given day of the month. ok is false when the day does not
// exist in that month (time.Date would silently normalise it).
func (ym YearMonth) Day(day int) (d time.Time, ok bool) {
	d = time.Date(ym.Year, ym.Month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != ym.Year || d.Month() != ym.Month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// TrailingMonths returns n months ending at the month of today, most recent first.
// January steps back into December of the previous year.
func TrailingMonths(today time.Time, n int) []YearMonth {
	out := make([]YearMonth, 0, n)
	year, month := today.Year(), int(today.Month())

	for i := 0; i < n; i++ {
		m := month - i
		y := year
		for m <= 0 {
			m += 12
			y--
		}
		out = append(out, YearMonth{Year: y, Month: time.Month(m)})
	}
	return out
}

// FirstDaysOfMonths returns the 1st of each of the n trailing months, oldest first.
func FirstDaysOfMonths(today time.Time, n int) []time.Time {
	months := TrailingMonths(today, n)
	out := make([]time.Time, len(months))
	for i, ym := range months {
		out[len(months)-1-i] = ym.FirstDay()
	}
	return out
}

// TruncateToDate strips the clock part of t, keeping its calendar day in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
