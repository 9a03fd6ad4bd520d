package ingestion

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/cnbpulse/internal/domain/models"
)

const (
	feedDelimiter   = "|"
	feedHeaderLines = 2 // "DD.MM.YYYY #NNN" line + column header line
	feedFieldCount  = 5
	ratePrecision   = 3
)

// Skip reasons reported in SkippedLine.Reason.
const (
	ReasonFieldCount    = "invalid field count"
	ReasonAmount        = "invalid amount"
	ReasonRate          = "invalid rate"
	ReasonEmptyCode     = "empty code"
	ReasonDuplicateCode = "duplicate code"
)

// SkippedLine describes a feed line that was dropped without failing the batch.
type SkippedLine struct {
	Day    time.Time
	Line   int
	Raw    string
	Reason string
}

// ParseResult carries the accepted records and everything that was skipped.
type ParseResult struct {
	Records []models.RateRecord
	Skipped []SkippedLine
}

// ParseFeed converts one day's raw feed text into rate records.
//
// Format (after two header lines), one currency per line:
//
//	country|currency|amount|code|rate
//	USA|dolar|1|USD|22,815
//
// Behavior:
//   - Each physical line is handled on its own; a bad line never affects another.
//   - Blank lines are ignored.
//   - Lines with a field count other than 5, a non-positive or non-integer amount,
//     a non-numeric rate, an empty code or a code already seen that day are
//     skipped and reported.
//   - Rates accept a decimal comma and are rounded to 3 decimal places.
func ParseFeed(raw string, day time.Time) ParseResult {
	day = models.TruncateToDate(day)

	var res ParseResult
	seen := make(map[string]struct{})

	for i, text := range strings.Split(raw, "\n") {
		line := i + 1
		if line <= feedHeaderLines {
			continue
		}
		text = strings.TrimRight(text, "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		skip := func(reason string) {
			res.Skipped = append(res.Skipped, SkippedLine{Day: day, Line: line, Raw: text, Reason: reason})
		}

		fields := strings.Split(text, feedDelimiter)
		if len(fields) != feedFieldCount {
			skip(ReasonFieldCount)
			continue
		}

		rr, reason := recordToRate(fields, day)
		if reason != "" {
			skip(reason)
			continue
		}
		if _, dup := seen[rr.Code]; dup {
			skip(ReasonDuplicateCode)
			continue
		}
		seen[rr.Code] = struct{}{}
		res.Records = append(res.Records, rr)
	}

	return res
}

// recordToRate converts a 5-field line into a RateRecord. A non-empty reason
// means the line must be skipped.
func recordToRate(rec []string, day time.Time) (models.RateRecord, string) {
	var rr models.RateRecord

	rr.Country = strings.TrimSpace(rec[0])
	rr.Currency = strings.TrimSpace(rec[1])

	amount, err := strconv.Atoi(strings.TrimSpace(rec[2]))
	if err != nil || amount <= 0 {
		return rr, ReasonAmount
	}
	rr.Amount = amount

	rr.Code = strings.TrimSpace(rec[3])
	if rr.Code == "" {
		return rr, ReasonEmptyCode
	}

	rate, err := parseDecimalComma(rec[4])
	if err != nil {
		return rr, ReasonRate
	}
	rr.Rate = rate
	rr.Date = day

	return rr, ""
}

// parseDecimalComma parses "24,123" (or "24.123") rounded to 3 decimal places.
func parseDecimalComma(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, fmt.Errorf("empty rate")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Round(ratePrecision).InexactFloat64(), nil
}
