package ingestion

import "github.com/guttosm/cnbpulse/internal/domain/models"

// IncompleteCurrency is a code that was not observed on every resolved day.
type IncompleteCurrency struct {
	Code     string
	Observed int
}

// GateResult splits the grouped records into persistable and dropped currencies.
// Both lists follow first-seen code order.
type GateResult struct {
	Complete   []models.CodeGroup
	Incomplete []IncompleteCurrency
}

// IncompleteCodes returns just the codes of the incomplete currencies.
func (g GateResult) IncompleteCodes() []string {
	out := make([]string, len(g.Incomplete))
	for i, ic := range g.Incomplete {
		out[i] = ic.Code
	}
	return out
}

// CompleteCodes returns the codes that passed the gate.
func (g GateResult) CompleteCodes() []string {
	out := make([]string, len(g.Complete))
	for i, grp := range g.Complete {
		out[i] = grp.Code
	}
	return out
}

// CheckCompleteness groups records by code and keeps only codes observed exactly
// resolvedDays times. Everything else is reported as incomplete.
func CheckCompleteness(records []models.RateRecord, resolvedDays int) GateResult {
	var res GateResult
	for _, grp := range models.GroupByCode(records).Groups() {
		if len(grp.Records) == resolvedDays {
			res.Complete = append(res.Complete, grp)
			continue
		}
		res.Incomplete = append(res.Incomplete, IncompleteCurrency{Code: grp.Code, Observed: len(grp.Records)})
	}
	return res
}
