package models

// CodeGroup holds every record seen for one currency code, in arrival order.
type CodeGroup struct {
	Code    string
	Records []RateRecord
}

// First returns the first record added to the group.
func (g CodeGroup) First() RateRecord {
	return g.Records[0]
}

// CodeGroups is an insertion-ordered map from currency code to its records.
//
// Groups() yields codes in the order they were first added, and each group keeps
// its records in arrival order, so "first seen" is well defined for callers.
type CodeGroups struct {
	index  map[string]int
	groups []CodeGroup
}

// NewCodeGroups returns an empty ordered grouping.
func NewCodeGroups() *CodeGroups {
	return &CodeGroups{index: make(map[string]int)}
}

// GroupByCode groups records by Code preserving first-seen order.
func GroupByCode(records []RateRecord) *CodeGroups {
	g := NewCodeGroups()
	for _, r := range records {
		g.Add(r)
	}
	return g
}

// Add appends r to the group of its code, creating the group on first sight.
func (g *CodeGroups) Add(r RateRecord) {
	if i, ok := g.index[r.Code]; ok {
		g.groups[i].Records = append(g.groups[i].Records, r)
		return
	}
	g.index[r.Code] = len(g.groups)
	g.groups = append(g.groups, CodeGroup{Code: r.Code, Records: []RateRecord{r}})
}

// Get returns the group for code.
func (g *CodeGroups) Get(code string) (CodeGroup, bool) {
	i, ok := g.index[code]
	if !ok {
		return CodeGroup{}, false
	}
	return g.groups[i], true
}

// Len is the number of distinct codes.
func (g *CodeGroups) Len() int {
	return len(g.groups)
}

// Groups returns the groups in first-seen order.
func (g *CodeGroups) Groups() []CodeGroup {
	return g.groups
}

// Codes returns the codes in first-seen order.
func (g *CodeGroups) Codes() []string {
	out := make([]string, len(g.groups))
	for i, grp := range g.groups {
		out[i] = grp.Code
	}
	return out
}
