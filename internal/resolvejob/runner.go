package resolvejob

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"benchcast/internal/clock"
	"benchcast/internal/config"
	"benchcast/internal/forecastset"
	"benchcast/internal/publish"
	"benchcast/internal/questionset"
	"benchcast/internal/resolver"
	"benchcast/internal/score"
)

// Runner executes one resolution pass: for every submitted forecast file it
// resolves the matching question set against the stores, scores the
// forecasts, and publishes resolution sets and processed forecast files.
type Runner struct {
	db  *sql.DB
	res *resolver.Resolver
	clk clock.Clock
	cfg config.ResolveConfig
	pub *publish.Publisher
}

func NewRunner(db *sql.DB, res *resolver.Resolver, clk clock.Clock, cfg config.ResolveConfig, pub *publish.Publisher) *Runner {
	return &Runner{db: db, res: res, clk: clk, cfg: cfg, pub: pub}
}

// Run processes every forecast file in the forecast-set directory. A
// malformed submission is skipped with an error logged; a data-integrity
// failure in resolution aborts the whole pass.
func (r *Runner) Run(ctx context.Context) error {
	today := r.clk.Today()
	slog.Info("resolution pass starting", "today", resolver.DateKey(today))

	files, err := filepath.Glob(filepath.Join(r.cfg.ForecastSetDir, "*.json"))
	if err != nil {
		return fmt.Errorf("listing forecast sets: %w", err)
	}
	if len(files) == 0 {
		slog.Warn("no forecast sets to evaluate", "dir", r.cfg.ForecastSetDir)
		return nil
	}
	sort.Strings(files)

	// Each due date's question set is resolved once and reused across every
	// organization that submitted against it.
	resolved := make(map[string][]resolver.ForecastRow)

	processed, skipped := 0, 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		set, err := forecastset.Load(path)
		if err != nil {
			slog.Error("skipping unreadable forecast file", "path", path, "error", err)
			skipped++
			continue
		}

		dueDate, err := time.Parse("2006-01-02", set.ForecastDueDate)
		if err != nil {
			slog.Error("skipping forecast file with bad due date", "path", path, "due_date", set.ForecastDueDate)
			skipped++
			continue
		}
		if set.QuestionSet[:min(10, len(set.QuestionSet))] != set.ForecastDueDate {
			slog.Error("question set does not match due date",
				"path", path, "question_set", set.QuestionSet, "due_date", set.ForecastDueDate)
			skipped++
			continue
		}
		if !dueDate.AddDate(0, 0, resolver.ForecastHorizons[0]).Before(today) {
			slog.Warn("too soon to evaluate forecast file", "path", path, "due_date", set.ForecastDueDate)
			skipped++
			continue
		}

		rows, ok := resolved[set.ForecastDueDate]
		if !ok {
			rows, err = r.resolveQuestionSet(set, dueDate, today)
			if err != nil {
				return err
			}
			resolved[set.ForecastDueDate] = rows
		}

		prepared, err := forecastset.Prepare(set, dueDate)
		if err != nil {
			slog.Error("skipping invalid submission", "path", path, "error", err)
			skipped++
			continue
		}

		scored := score.Score(rows, prepared)
		if err := r.storeScores(set, scored); err != nil {
			return fmt.Errorf("storing scores for %s/%s: %w", set.Organization, set.Model, err)
		}
		if _, err := r.pub.WriteProcessedForecasts(set, scored); err != nil {
			return err
		}

		slog.Info("forecast file scored",
			"organization", set.Organization,
			"model", set.Model,
			"due_date", set.ForecastDueDate,
			"scored", len(scored),
		)
		processed++
	}

	slog.Info("resolution pass complete", "processed", processed, "skipped", skipped)
	return nil
}

// resolveQuestionSet loads, expands, and resolves the question set for one
// due date, then publishes the resolution set.
func (r *Runner) resolveQuestionSet(set *forecastset.Set, dueDate, today time.Time) ([]resolver.ForecastRow, error) {
	qs, err := questionset.Load(filepath.Join(r.cfg.QuestionSetDir, set.QuestionSet))
	if err != nil {
		return nil, err
	}

	rows, err := questionset.Expand(qs, dueDate, today)
	if err != nil {
		return nil, err
	}
	slog.Info("question set expanded", "question_set", set.QuestionSet, "rows", len(rows))

	data, err := r.loadSourceData(rows)
	if err != nil {
		return nil, err
	}

	resolvedRows, err := r.res.Resolve(rows, data, today)
	if err != nil {
		return nil, err
	}

	resolvedRows = score.FilterScorable(resolvedRows)

	if _, err := r.pub.WriteResolutionSet(set.ForecastDueDate, set.QuestionSet, resolvedRows); err != nil {
		return nil, err
	}
	return resolvedRows, nil
}

// loadSourceData reads each referenced source's questions and resolution
// values from the database.
func (r *Runner) loadSourceData(rows []resolver.ForecastRow) (map[string]resolver.SourceData, error) {
	sources := make(map[string]bool)
	for _, row := range rows {
		sources[row.Source] = true
	}

	data := make(map[string]resolver.SourceData, len(sources))
	for source := range sources {
		questions, err := r.loadQuestions(source)
		if err != nil {
			return nil, fmt.Errorf("loading questions for %s: %w", source, err)
		}
		values, err := r.loadValues(source)
		if err != nil {
			return nil, fmt.Errorf("loading resolution values for %s: %w", source, err)
		}
		data[source] = resolver.SourceData{Questions: questions, Values: values}
	}
	return data, nil
}

func (r *Runner) loadQuestions(source string) ([]resolver.Question, error) {
	rows, err := r.db.Query(`
		SELECT id, question, resolved, COALESCE(resolution_datetime, '')
		FROM questions WHERE source = ?`, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []resolver.Question
	for rows.Next() {
		var q resolver.Question
		var resolved int
		var resolutionTime string
		if err := rows.Scan(&q.ID, &q.Text, &resolved, &resolutionTime); err != nil {
			return nil, err
		}
		q.Source = source
		q.Resolved = resolved == 1
		if resolutionTime != "" {
			if t, err := time.Parse(time.RFC3339, resolutionTime); err == nil {
				q.ResolutionTime = t
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *Runner) loadValues(source string) ([]resolver.ResolutionValue, error) {
	// Insertion order matters: later rows win on duplicate (id, date).
	rows, err := r.db.Query(`
		SELECT question_id, date, value
		FROM resolution_values WHERE source = ?
		ORDER BY rowid_alias`, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []resolver.ResolutionValue
	for rows.Next() {
		var rv resolver.ResolutionValue
		var dateStr, valueStr string
		if err := rows.Scan(&rv.ID, &dateStr, &valueStr); err != nil {
			return nil, err
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("bad observation date %q for %s id %s", dateStr, source, rv.ID)
		}
		rv.Date = date
		rv.Value = resolver.ParseValue(valueStr)
		values = append(values, rv)
	}
	return values, rows.Err()
}

// storeScores replaces any previous scores for this submission so reruns
// stay idempotent.
func (r *Runner) storeScores(set *forecastset.Set, scored []score.Scored) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM scores
		WHERE organization = ? AND model = ? AND forecast_due_date = ?`,
		set.Organization, set.Model, set.ForecastDueDate)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO scores (organization, model, question_set, forecast_due_date,
		                    source, question_id, direction, resolution_date,
		                    forecast, imputed, resolved_to, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range scored {
		imputed := 0
		if s.Imputed {
			imputed = 1
		}
		_, err := stmt.Exec(
			set.Organization, set.Model, set.QuestionSet, set.ForecastDueDate,
			s.Source, s.ID.String(), s.Direction.String(), resolver.DateKey(s.ResolutionDate),
			s.Forecast, imputed, s.ResolvedTo, s.Brier,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
