package publish

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"benchcast/internal/forecastset"
	"benchcast/internal/resolver"
	"benchcast/internal/score"
)

// Publisher writes resolution sets and processed forecast files to the
// output directory and records each resolution set in the database.
type Publisher struct {
	outputDir string
	db        *sql.DB
}

func NewPublisher(outputDir string, db *sql.DB) *Publisher {
	return &Publisher{outputDir: outputDir, db: db}
}

type resolutionLine struct {
	ID             resolver.QuestionID `json:"id"`
	Source         string              `json:"source"`
	Direction      resolver.Direction  `json:"direction"`
	ResolutionDate string              `json:"resolution_date"`
	ResolvedTo     *float64            `json:"resolved_to"`
	Resolved       bool                `json:"resolved"`
}

type resolutionSetFile struct {
	ForecastDueDate string           `json:"forecast_due_date"`
	QuestionSet     string           `json:"question_set"`
	Resolutions     []resolutionLine `json:"resolutions"`
}

// WriteResolutionSet publishes the resolved question set for one due date.
func (p *Publisher) WriteResolutionSet(dueDate, questionSet string, rows []resolver.ForecastRow) (string, error) {
	lines := make([]resolutionLine, 0, len(rows))
	for _, row := range rows {
		line := resolutionLine{
			ID:             row.ID,
			Source:         row.Source,
			Direction:      row.Direction,
			ResolutionDate: resolver.DateKey(row.ResolutionDate),
			Resolved:       row.Resolved,
		}
		if row.ResolvedTo.OK {
			v := row.ResolvedTo.F
			line.ResolvedTo = &v
		}
		lines = append(lines, line)
	}

	path := filepath.Join(p.outputDir, fmt.Sprintf("%s_resolution_set.json", dueDate))
	if err := p.writeJSON(path, resolutionSetFile{
		ForecastDueDate: dueDate,
		QuestionSet:     questionSet,
		Resolutions:     lines,
	}); err != nil {
		return "", err
	}

	// Reruns overwrite the earlier record so the table stays one row per
	// published set.
	_, err := p.db.Exec(`
		INSERT INTO resolution_sets (forecast_due_date, question_set, path, row_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(forecast_due_date, question_set) DO UPDATE SET
			path = excluded.path,
			row_count = excluded.row_count,
			created_at = datetime('now')`,
		dueDate, questionSet, path, len(lines),
	)
	if err != nil {
		return "", fmt.Errorf("recording resolution set: %w", err)
	}

	slog.Info("wrote resolution set", "path", path, "rows", len(lines))
	return path, nil
}

type processedLine struct {
	ID             resolver.QuestionID `json:"id"`
	Source         string              `json:"source"`
	Direction      resolver.Direction  `json:"direction"`
	ResolutionDate string              `json:"resolution_date"`
	Forecast       float64             `json:"forecast"`
	Imputed        bool                `json:"imputed"`
	ResolvedTo     float64             `json:"resolved_to"`
	Score          float64             `json:"score"`
}

type processedFile struct {
	Organization    string          `json:"organization"`
	Model           string          `json:"model"`
	QuestionSet     string          `json:"question_set"`
	ForecastDueDate string          `json:"forecast_due_date"`
	Forecasts       []processedLine `json:"forecasts"`
}

// WriteProcessedForecasts publishes one organization's scored forecasts.
func (p *Publisher) WriteProcessedForecasts(set *forecastset.Set, scored []score.Scored) (string, error) {
	lines := make([]processedLine, 0, len(scored))
	for _, s := range scored {
		lines = append(lines, processedLine{
			ID:             s.ID,
			Source:         s.Source,
			Direction:      s.Direction,
			ResolutionDate: resolver.DateKey(s.ResolutionDate),
			Forecast:       s.Forecast,
			Imputed:        s.Imputed,
			ResolvedTo:     s.ResolvedTo,
			Score:          s.Brier,
		})
	}

	name := fmt.Sprintf("%s.%s.%s.json", set.ForecastDueDate, set.Organization, set.Model)
	path := filepath.Join(p.outputDir, name)
	if err := p.writeJSON(path, processedFile{
		Organization:    set.Organization,
		Model:           set.Model,
		QuestionSet:     set.QuestionSet,
		ForecastDueDate: set.ForecastDueDate,
		Forecasts:       lines,
	}); err != nil {
		return "", err
	}

	slog.Info("wrote processed forecast file", "path", path, "rows", len(lines))
	return path, nil
}

func (p *Publisher) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
