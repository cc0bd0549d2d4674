package resolver

import (
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Strategy resolves the forecast rows of one family of sources. Strategies
// are pure: they read the source's questions and values and return annotated
// copies of the rows, never touching any other state.
type Strategy interface {
	Name() string
	Resolve(source string, rows []ForecastRow, data SourceData, today time.Time) ([]ForecastRow, error)
}

// Resolver routes forecast rows to per-family strategies and merges the
// results back into one table. Sources without a registered strategy pass
// through untouched.
type Resolver struct {
	strategies map[string]Strategy
}

// New builds a Resolver with the default strategy registry: one market
// strategy shared by all market sources, one data strategy shared by the
// numeric-series sources, and the forward-fill strategy for wikipedia.
// Adding a source family means registering it here, nothing else.
func New() *Resolver {
	strategies := make(map[string]Strategy)
	market := &Market{}
	for _, s := range MarketSources {
		strategies[s] = market
	}
	data := &Data{}
	for _, s := range DataSources {
		strategies[s] = data
	}
	series := &TimeSeries{}
	for _, s := range SeriesSources {
		strategies[s] = series
	}
	return &Resolver{strategies: strategies}
}

// Resolve runs one resolution pass: partition rows by source, run the
// matching strategy on each partition, and concatenate the results. A
// strategy error aborts the whole pass; there is no partial success.
func (r *Resolver) Resolve(rows []ForecastRow, data map[string]SourceData, today time.Time) ([]ForecastRow, error) {
	partitions := make(map[string][]ForecastRow)
	var sources []string
	for _, row := range rows {
		if _, ok := partitions[row.Source]; !ok {
			sources = append(sources, row.Source)
		}
		partitions[row.Source] = append(partitions[row.Source], row)
	}
	sort.Strings(sources)

	out := make([]ForecastRow, 0, len(rows))
	for _, source := range sources {
		part := partitions[source]
		strat, ok := r.strategies[source]
		if !ok {
			slog.Info("no strategy registered, passing through", "source", source, "rows", len(part))
			out = append(out, part...)
			continue
		}

		sd, ok := data[source]
		if !ok || len(sd.Questions) == 0 || len(sd.Values) == 0 {
			return nil, fmt.Errorf("resolving %s: no questions or resolution values supplied (questions: %d, values: %d)",
				source, len(sd.Questions), len(sd.Values))
		}

		resolved, err := strat.Resolve(source, part, sd, today)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", source, err)
		}
		logPartition(source, resolved)
		out = append(out, resolved...)
	}
	return out, nil
}

func logPartition(source string, rows []ForecastRow) {
	var nullCount, comboCount int
	for _, row := range rows {
		if !row.ResolvedTo.OK {
			nullCount++
		}
		if row.ID.IsCombo() {
			comboCount++
		}
	}
	slog.Info("source resolved",
		"source", source,
		"rows", len(rows),
		"combo_rows", comboCount,
		"null_outcomes", nullCount,
	)
}

// splitCombo partitions rows into standard and combo subsets.
func splitCombo(rows []ForecastRow) (standard, combo []ForecastRow) {
	for _, row := range rows {
		if row.ID.IsCombo() {
			combo = append(combo, row)
		} else {
			standard = append(standard, row)
		}
	}
	return standard, combo
}

// standardIndex indexes resolved standard rows by (id, resolution date) for
// combo composition.
type standardIndex map[string]*ForecastRow

func indexStandard(rows []ForecastRow) standardIndex {
	idx := make(standardIndex, len(rows))
	for i := range rows {
		idx[rows[i].ID.ID0+"\x00"+DateKey(rows[i].ResolutionDate)] = &rows[i]
	}
	return idx
}

func (idx standardIndex) lookup(id string, date time.Time) (*ForecastRow, bool) {
	row, ok := idx[id+"\x00"+DateKey(date)]
	return row, ok
}
