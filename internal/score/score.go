package score

import (
	"log/slog"
	"time"

	"benchcast/internal/forecastset"
	"benchcast/internal/resolver"
)

// Scored is one forecast joined with its resolution and scored.
type Scored struct {
	ID             resolver.QuestionID
	Source         string
	Direction      resolver.Direction
	ResolutionDate time.Time
	Forecast       float64
	Imputed        bool
	ResolvedTo     float64
	Brier          float64
}

// Score joins an organization's forecasts onto the resolved question set and
// computes Brier scores. Resolutions are the spine: every resolved row is
// scored, with a default forecast imputed when the organization omitted one.
//
// Market forecasts carry no resolution date, so they join on (id, source,
// direction) and apply at every horizon; dataset forecasts additionally join
// on the resolution date.
func Score(resolutions []resolver.ForecastRow, forecasts []forecastset.Row) []Scored {
	marketIdx := make(map[string]forecastset.Row)
	datasetIdx := make(map[string]forecastset.Row)
	for _, f := range forecasts {
		if resolver.IsMarketSource(f.Source) {
			marketIdx[marketKey(f.ID, f.Source, f.Direction)] = f
		} else {
			datasetIdx[datasetKey(f.ID, f.Source, f.Direction, f.ResolutionDate)] = f
		}
	}

	var out []Scored
	imputedCount, skipped := 0, 0
	for _, row := range resolutions {
		if !row.ResolvedTo.OK {
			continue // nothing to score against
		}

		var forecast resolver.Value
		if resolver.IsMarketSource(row.Source) {
			if f, ok := marketIdx[marketKey(row.ID, row.Source, row.Direction)]; ok {
				forecast = f.Forecast
			}
		} else {
			if f, ok := datasetIdx[datasetKey(row.ID, row.Source, row.Direction, row.ResolutionDate)]; ok {
				forecast = f.Forecast
			}
		}

		imputed := false
		if !forecast.OK {
			forecast = impute(row)
			imputed = true
			if !forecast.OK {
				// A market question with no due-date value to fall back on.
				skipped++
				continue
			}
			imputedCount++
		}

		diff := forecast.F - row.ResolvedTo.F
		out = append(out, Scored{
			ID:             row.ID,
			Source:         row.Source,
			Direction:      row.Direction,
			ResolutionDate: row.ResolutionDate,
			Forecast:       forecast.F,
			Imputed:        imputed,
			ResolvedTo:     row.ResolvedTo.F,
			Brier:          diff * diff,
		})
	}

	if imputedCount > 0 || skipped > 0 {
		slog.Info("imputed missing forecasts", "imputed", imputedCount, "unscorable", skipped)
	}
	return out
}

// impute supplies the default forecast for an omitted one: 0.5 for dataset
// questions, the market value on the due date (the naive forecast) for
// market questions.
func impute(row resolver.ForecastRow) resolver.Value {
	if resolver.IsMarketSource(row.Source) {
		return row.MarketValueOnDueDate
	}
	return resolver.Some(0.5)
}

// FilterScorable drops rows that cannot be scored yet: dataset rows that
// have not resolved, and rows whose outcome is null.
func FilterScorable(rows []resolver.ForecastRow) []resolver.ForecastRow {
	out := make([]resolver.ForecastRow, 0, len(rows))
	droppedPending, droppedNull := 0, 0
	for _, row := range rows {
		if resolver.IsDatasetSource(row.Source) && !row.Resolved {
			droppedPending++
			continue
		}
		if !row.ResolvedTo.OK {
			droppedNull++
			continue
		}
		out = append(out, row)
	}
	if droppedPending > 0 {
		slog.Info("dropped dataset rows that have not yet resolved", "count", droppedPending)
	}
	if droppedNull > 0 {
		slog.Warn("dropped rows that resolved to null", "count", droppedNull)
	}
	return out
}

func marketKey(id resolver.QuestionID, source string, d resolver.Direction) string {
	return id.String() + "\x00" + source + "\x00" + d.String()
}

func datasetKey(id resolver.QuestionID, source string, d resolver.Direction, date time.Time) string {
	return marketKey(id, source, d) + "\x00" + resolver.DateKey(date)
}
