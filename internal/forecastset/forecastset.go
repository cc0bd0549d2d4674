package forecastset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"benchcast/internal/resolver"
)

// Set is one organization's submitted forecast file.
type Set struct {
	Organization    string     `json:"organization"`
	Model           string     `json:"model"`
	QuestionSet     string     `json:"question_set"`
	ForecastDueDate string     `json:"forecast_due_date"`
	Forecasts       []Forecast `json:"forecasts"`
}

// Forecast is one submitted forecast line.
type Forecast struct {
	ID             resolver.QuestionID `json:"id"`
	Source         string              `json:"source"`
	Direction      resolver.Direction  `json:"direction"`
	ResolutionDate string              `json:"resolution_date"`
	Forecast       *float64            `json:"forecast"`
}

// Load reads and minimally validates a forecast file: every top-level key
// must be present.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading forecast file: %w", err)
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing forecast file %s: %w", path, err)
	}

	switch {
	case set.Organization == "":
		return nil, fmt.Errorf("forecast file %s missing organization", path)
	case set.Model == "":
		return nil, fmt.Errorf("forecast file %s missing model", path)
	case set.QuestionSet == "":
		return nil, fmt.Errorf("forecast file %s missing question_set", path)
	case set.ForecastDueDate == "":
		return nil, fmt.Errorf("forecast file %s missing forecast_due_date", path)
	case len(set.Forecasts) == 0:
		return nil, fmt.Errorf("forecast file %s holds no forecasts", path)
	}

	return &set, nil
}

// Row is a validated forecast ready for scoring.
type Row struct {
	ID             resolver.QuestionID
	Source         string
	Direction      resolver.Direction
	ResolutionDate time.Time // zero for market sources
	Forecast       resolver.Value
}

// Prepare validates and normalizes the submitted forecasts:
//   - unknown sources are dropped,
//   - forecasts outside [0,1] or missing are dropped,
//   - market rows have their resolution date cleared (a market forecast is
//     evaluated at every horizon),
//   - dataset rows must name a resolution date that is the due date plus one
//     of the standard horizons,
//   - duplicate (id, source, resolution date, direction) rows are fatal.
func Prepare(set *Set, dueDate time.Time) ([]Row, error) {
	validDates := make(map[string]bool, len(resolver.ForecastHorizons))
	for _, h := range resolver.ForecastHorizons {
		validDates[resolver.DateKey(dueDate.AddDate(0, 0, h))] = true
	}

	var (
		rows          []Row
		droppedSource int
		droppedValue  int
		droppedDate   int
	)
	seen := make(map[string]bool, len(set.Forecasts))

	for _, f := range set.Forecasts {
		source := strings.ToLower(f.Source)
		if !knownSource(source) {
			droppedSource++
			continue
		}

		if f.Forecast == nil || *f.Forecast < 0 || *f.Forecast > 1 {
			droppedValue++
			continue
		}

		row := Row{
			ID:        f.ID,
			Source:    source,
			Direction: f.Direction,
			Forecast:  resolver.Some(*f.Forecast),
		}

		if resolver.IsDatasetSource(source) {
			dateStr := f.ResolutionDate
			if len(dateStr) > 10 {
				dateStr = dateStr[:10] // strip a trailing timestamp
			}
			if !validDates[dateStr] {
				droppedDate++
				continue
			}
			parsed, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				droppedDate++
				continue
			}
			row.ResolutionDate = parsed
		}

		key := row.ID.String() + "\x00" + source + "\x00" + resolver.DateKey(row.ResolutionDate) + "\x00" + row.Direction.String()
		if seen[key] {
			return nil, fmt.Errorf("duplicate forecast rows in %s submission for %s %s",
				set.Organization, source, row.ID)
		}
		seen[key] = true

		rows = append(rows, row)
	}

	if droppedSource > 0 || droppedValue > 0 || droppedDate > 0 {
		slog.Warn("dropped invalid forecast rows",
			"organization", set.Organization,
			"unknown_source", droppedSource,
			"invalid_forecast", droppedValue,
			"invalid_date", droppedDate,
		)
	}

	return rows, nil
}

func knownSource(s string) bool {
	return resolver.IsMarketSource(s) || resolver.IsDatasetSource(s)
}
