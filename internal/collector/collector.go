package collector

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"benchcast/internal/config"
	"benchcast/internal/market"
	"benchcast/internal/resolver"
)

const source = "manifold"

// Collector ingests Manifold markets into the question bank: one question
// row per market, plus one resolution-value observation per market per day.
type Collector struct {
	scanner *market.Scanner
	cache   *market.Cache
	db      *sql.DB
	cfg     config.CollectorConfig
}

func NewCollector(scanner *market.Scanner, cache *market.Cache, db *sql.DB, cfg config.CollectorConfig) *Collector {
	return &Collector{scanner: scanner, cache: cache, db: db, cfg: cfg}
}

// Collect records today's values for open and resolved markets. A scan
// within the cache TTL reuses the cached records instead of refetching.
func (c *Collector) Collect(today time.Time) error {
	records := c.cache.All()
	if len(records) > 0 {
		slog.Info("reusing cached market scan", "records", len(records))
	} else {
		open, err := c.scanner.ScanOpen(int64(c.cfg.MaxMarketsPerScan))
		if err != nil {
			return fmt.Errorf("scanning open markets: %w", err)
		}
		settled, err := c.scanner.ScanResolved(int64(c.cfg.MaxMarketsPerScan))
		if err != nil {
			return fmt.Errorf("scanning resolved markets: %w", err)
		}
		records = append(open, settled...)
		c.cache.SetAll(records)
	}

	upserted, observed := 0, 0
	for _, r := range records {
		if r.Volume < c.cfg.MinVolume {
			continue
		}

		if err := c.upsertQuestion(r); err != nil {
			slog.Warn("failed to upsert question", "id", r.ID, "error", err)
			continue
		}
		upserted++

		value, ok := observationValue(r)
		if !ok {
			continue
		}
		if err := c.insertValue(r.ID, today, value); err != nil {
			slog.Warn("failed to record observation", "id", r.ID, "error", err)
			continue
		}
		observed++
	}

	slog.Info("collection complete", "questions_upserted", upserted, "observations", observed)
	return nil
}

func (c *Collector) upsertQuestion(r market.Record) error {
	var resolutionTime *string
	if r.IsResolved {
		// The search API doesn't expose the settlement timestamp; the close
		// time is the closest stand-in.
		t := r.CloseTime.UTC().Format(time.RFC3339)
		resolutionTime = &t
	}

	_, err := c.db.Exec(`
		INSERT INTO questions (source, id, question, url, resolved, resolution_datetime)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, id) DO UPDATE SET
			resolved = excluded.resolved,
			resolution_datetime = excluded.resolution_datetime,
			last_updated_at = datetime('now')`,
		source, r.ID, r.Question, r.URL, boolToInt(r.IsResolved), resolutionTime,
	)
	return err
}

func (c *Collector) insertValue(id string, date time.Time, value float64) error {
	_, err := c.db.Exec(`
		INSERT INTO resolution_values (source, question_id, date, value)
		VALUES (?, ?, ?, ?)`,
		source, id, resolver.DateKey(date), strconv.FormatFloat(value, 'f', -1, 64),
	)
	return err
}

// observationValue maps a market record to the value recorded for today:
// the traded probability while open, the settled outcome once resolved.
// Cancelled markets record nothing.
func observationValue(r market.Record) (float64, bool) {
	if !r.IsResolved {
		return r.Probability, true
	}
	switch r.Resolution {
	case "YES":
		return 1, true
	case "NO":
		return 0, true
	case "MKT":
		// Partially settled; the resolver warns on non-binary finals.
		return r.Probability, true
	default:
		return 0, false
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
