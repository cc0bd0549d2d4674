package resolver

import (
	"log/slog"
	"time"
)

// Market resolves forecasts against traded prediction markets. A market
// question carries a time-varying implied probability, so an unresolved
// question's provisional outcome is simply the market value at the
// resolution date; once the market settles permanently, the final resolution
// value overrides the provisional one for every horizon.
type Market struct{}

func (Market) Name() string { return "market" }

func (Market) Resolve(source string, rows []ForecastRow, data SourceData, today time.Time) ([]ForecastRow, error) {
	vt := newValueTable(data.Values)

	// Every referenced id must have at least one observation; a miss here
	// means ingestion is broken and the pass must not continue.
	for _, row := range rows {
		if !vt.has(row.ID.ID0) {
			return nil, &IntegrityError{Source: source, ID: row.ID.ID0}
		}
		if row.ID.IsCombo() && !vt.has(row.ID.ID1) {
			return nil, &IntegrityError{Source: source, ID: row.ID.ID1}
		}
	}

	standard, combo := splitCombo(rows)

	// Provisional outcomes: market value at the resolution date, and the
	// value at the due date as the default forecast for omitted forecasts.
	for i := range standard {
		row := &standard[i]
		if v, ok := vt.at(row.ID.ID0, row.ResolutionDate); ok {
			row.ResolvedTo = v
		} else {
			row.ResolvedTo = Null
		}
		if v, ok := vt.at(row.ID.ID0, row.ForecastDueDate); ok {
			row.MarketValueOnDueDate = v
		} else {
			row.MarketValueOnDueDate = Null
		}
	}

	// Permanent resolutions win over provisional market values: overwrite
	// every row of a settled question with the last known value, regardless
	// of horizon.
	for _, q := range data.Questions {
		if !q.Resolved {
			continue
		}
		finalValue, finalDate, ok := vt.last(q.ID)
		if !ok {
			continue
		}
		if finalValue.OK && finalValue.F != 0 && finalValue.F != 1 {
			slog.Warn("market resolved to a non-binary value, check source data",
				"source", source, "id", q.ID, "value", finalValue.F)
		}
		for i := range standard {
			row := &standard[i]
			if row.ID.ID0 != q.ID {
				continue
			}
			row.Resolved = true
			row.ResolvedTo = finalValue
			if !finalDate.After(row.ForecastDueDate) {
				// The market settled before forecasts were even due; the
				// forecast cannot be fairly scored.
				row.ResolvedTo = Null
				slog.Warn("nullifying forecast, market resolved on or before the due date",
					"source", source,
					"id", q.ID,
					"resolved_on", DateKey(finalDate),
					"due_date", DateKey(row.ForecastDueDate),
				)
			}
		}
	}

	// Combo rows compose the already-computed standard outcomes. A combo is
	// settled only when both constituents settled permanently.
	resolvedIDs := make(map[string]bool, len(data.Questions))
	for _, q := range data.Questions {
		resolvedIDs[q.ID] = q.Resolved
	}
	idx := indexStandard(standard)
	for i := range combo {
		row := &combo[i]
		s0, ok0 := idx.lookup(row.ID.ID0, row.ResolutionDate)
		s1, ok1 := idx.lookup(row.ID.ID1, row.ResolutionDate)
		if !ok0 || !ok1 {
			row.ResolvedTo = Null
			continue
		}
		row.ResolvedTo = ComboValue(s0.ResolvedTo, row.Direction[0], s1.ResolvedTo, row.Direction[1])
		row.MarketValueOnDueDate = ComboValue(s0.MarketValueOnDueDate, row.Direction[0], s1.MarketValueOnDueDate, row.Direction[1])
		row.Resolved = resolvedIDs[row.ID.ID0] && resolvedIDs[row.ID.ID1]
	}

	sortRows(standard)
	sortRows(combo)
	return append(standard, combo...), nil
}
