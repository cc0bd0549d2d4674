package questionset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"benchcast/internal/resolver"
)

// Set is a published question set: the questions forecasters were asked on
// one due date.
type Set struct {
	ForecastDueDate string     `json:"forecast_due_date"`
	Questions       []Question `json:"questions"`
}

// Question is one question-set entry. Dataset questions carry their own
// resolution dates; market questions leave them empty and are evaluated at
// every horizon.
type Question struct {
	ID              resolver.QuestionID `json:"id"`
	Source          string              `json:"source"`
	ResolutionDates []string            `json:"resolution_dates"`
}

// Load reads a question set file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question set: %w", err)
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing question set %s: %w", path, err)
	}
	if set.ForecastDueDate == "" {
		return nil, fmt.Errorf("question set %s missing forecast_due_date", path)
	}
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("question set %s holds no questions", path)
	}
	return &set, nil
}

// Expand turns the question set into one forecast row per (question,
// resolution date, direction):
//   - market questions get every resolution date seen in the set, since a
//     market forecast is evaluated at each horizon;
//   - dates on or after today are deferred to a later pass;
//   - combo questions fan out into the four direction pairs.
func Expand(set *Set, dueDate, today time.Time) ([]resolver.ForecastRow, error) {
	allDates := make(map[string]bool)
	for _, q := range set.Questions {
		for _, d := range q.ResolutionDates {
			allDates[d] = true
		}
	}
	marketDates := make([]string, 0, len(allDates))
	for d := range allDates {
		marketDates = append(marketDates, d)
	}
	sort.Strings(marketDates)

	var rows []resolver.ForecastRow
	for _, q := range set.Questions {
		dates := q.ResolutionDates
		if resolver.IsMarketSource(q.Source) {
			dates = marketDates
		}
		for _, dateStr := range dates {
			resolutionDate, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return nil, fmt.Errorf("question %s: bad resolution date %q", q.ID, dateStr)
			}
			if !resolutionDate.Before(today) {
				continue
			}
			for _, dir := range directions(q.ID) {
				rows = append(rows, resolver.ForecastRow{
					ID:              q.ID,
					Source:          q.Source,
					ForecastDueDate: dueDate,
					ResolutionDate:  resolutionDate,
					Direction:       dir,
				})
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if !a.ResolutionDate.Equal(b.ResolutionDate) {
			return a.ResolutionDate.Before(b.ResolutionDate)
		}
		return a.ID.String() < b.ID.String()
	})
	return rows, nil
}

// directions lists the direction fan-out for a question: the four sign pairs
// for combos, the single zero direction otherwise.
func directions(id resolver.QuestionID) []resolver.Direction {
	if !id.IsCombo() {
		return []resolver.Direction{{}}
	}
	return []resolver.Direction{
		{1, 1},
		{1, -1},
		{-1, 1},
		{-1, -1},
	}
}
