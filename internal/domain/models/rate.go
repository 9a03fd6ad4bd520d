package models

import "time"

// DateLayout is the calendar-day format used for persisted and reported dates.
const DateLayout = "2006-01-02"

// RateRecord represents one currency line of a daily CNB publication.
//
// Column order in the feed:
//  1. Country
//  2. Currency
//  3. Amount
//  4. Code
//  5. Rate
//
// Rate is the value of Amount units of Code in CZK, rounded to 3 decimal places.
// Date carries no time component (midnight UTC).
type RateRecord struct {
	Country  string
	Currency string
	Amount   int
	Code     string
	Rate     float64
	Date     time.Time
}

// DateString returns the record's calendar day as YYYY-MM-DD.
func (r RateRecord) DateString() string {
	return r.Date.Format(DateLayout)
}

// CurrencyStats summarises one currency over the trailing window.
//
// Country, Currency and Amount come from the first record seen for the code.
// StartDate and EndDate are YYYY-MM-DD strings.
//
// swagger:model CurrencyStats
type CurrencyStats struct {
	Country   string
	Currency  string
	Amount    int
	Code      string
	MinRate   float64
	MaxRate   float64
	AvgRate   float64
	StartDate string
	EndDate   string
}
