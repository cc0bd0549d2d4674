package resolver

import (
	"time"
)

// Data resolves "will the metric be higher at the resolution date than on the
// due date" questions against sampled numeric series (DBnomics, FRED, Yahoo
// Finance). There is no market value at arbitrary times, only observations,
// so the outcome is a direct comparison of two lookups.
type Data struct{}

func (Data) Name() string { return "data" }

func (Data) Resolve(source string, rows []ForecastRow, data SourceData, today time.Time) ([]ForecastRow, error) {
	vt := newValueTable(data.Values)

	for _, row := range rows {
		if !vt.has(row.ID.ID0) {
			return nil, &IntegrityError{Source: source, ID: row.ID.ID0}
		}
		if row.ID.IsCombo() && !vt.has(row.ID.ID1) {
			return nil, &IntegrityError{Source: source, ID: row.ID.ID1}
		}
	}

	standard, combo := splitCombo(rows)

	for i := range standard {
		row := &standard[i]

		// Raw observations at the two dates. A date with no entry, or an
		// entry holding a sentinel null, both read as null.
		observed := Null
		if v, ok := vt.at(row.ID.ID0, row.ResolutionDate); ok {
			observed = v
		}
		baseline := Null
		if v, ok := vt.at(row.ID.ID0, row.ForecastDueDate); ok {
			baseline = v
		}
		row.MarketValueOnDueDate = baseline

		// The binary comparison outcome overwrites the raw value; null on
		// either side propagates.
		row.ResolvedTo = observed.GreaterThan(baseline)
		row.Resolved = true
	}

	sortRows(standard)
	idx := indexStandard(standard)

	for i := range combo {
		row := &combo[i]
		s0, ok0 := idx.lookup(row.ID.ID0, row.ResolutionDate)
		s1, ok1 := idx.lookup(row.ID.ID1, row.ResolutionDate)
		if !ok0 || !ok1 {
			row.ResolvedTo = Null
		} else {
			row.ResolvedTo = ComboValue(s0.ResolvedTo, row.Direction[0], s1.ResolvedTo, row.Direction[1])
		}
		row.Resolved = true
	}

	sortRows(combo)
	return append(standard, combo...), nil
}
