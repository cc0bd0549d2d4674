package resolver

import (
	"log/slog"
	"time"

	"benchcast/internal/clock"
)

// TimeSeries resolves questions whose ground truth is a slowly-changing fact
// sampled irregularly (the wikipedia source). The series is forward-filled to
// daily granularity and extended through yesterday, since the fact is assumed
// unchanged until a new observation lands. Today's value is not yet settled,
// so rows asking about today or later stay pending for a future pass.
//
// Unlike the market and data families, an id missing from the question store
// is tolerated here: identity matching for this source is noisier, so the
// row resolves to null instead of failing the batch.
type TimeSeries struct{}

func (TimeSeries) Name() string { return "timeseries" }

func (TimeSeries) Resolve(source string, rows []ForecastRow, data SourceData, today time.Time) ([]ForecastRow, error) {
	yesterday := clock.Yesterday(today)
	vt := newValueTable(data.Values)
	filled := vt.forwardFill(yesterday)

	known := make(map[string]bool, len(data.Questions))
	for _, q := range data.Questions {
		known[q.ID] = true
	}

	lookup := func(id string, date time.Time) Value {
		if !known[id] {
			slog.Warn("question not found in question store, treating as missing",
				"source", source, "id", id)
			return Null
		}
		v, ok := filled[id][DateKey(date)]
		if !ok {
			return Null
		}
		return v
	}

	out := make([]ForecastRow, len(rows))
	copy(out, rows)
	for i := range out {
		row := &out[i]
		if row.ResolutionDate.After(yesterday) {
			// Not yet due; revisit on a later pass.
			continue
		}
		if row.ID.IsCombo() {
			v0 := lookup(row.ID.ID0, row.ResolutionDate)
			v1 := lookup(row.ID.ID1, row.ResolutionDate)
			row.ResolvedTo = ComboValue(v0, row.Direction[0], v1, row.Direction[1])
		} else {
			row.ResolvedTo = lookup(row.ID.ID0, row.ResolutionDate)
		}
		// Resolved even when the value is null: "resolved but data
		// unavailable" is a distinct state from "not yet due".
		row.Resolved = true
	}

	sortRows(out)
	return out, nil
}
