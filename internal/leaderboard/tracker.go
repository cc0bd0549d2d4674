package leaderboard

import (
	"database/sql"
	"fmt"
)

// Tracker computes leaderboard standings from the scores table.
type Tracker struct {
	db *sql.DB
}

func NewTracker(db *sql.DB) *Tracker {
	return &Tracker{db: db}
}

// Report contains the full leaderboard.
type Report struct {
	TotalScored int
	Entries     []Entry
}

// Entry is one organization/model's standing.
type Entry struct {
	Organization string
	Model        string
	Scored       int
	Imputed      int
	MeanBrier    float64
	SourceStats  map[string]SourceStats
}

// SourceStats is an entry's per-source breakdown.
type SourceStats struct {
	Scored    int
	MeanBrier float64
}

// Generate computes the leaderboard, best (lowest mean Brier) first.
func (t *Tracker) Generate() (*Report, error) {
	r := &Report{}

	if err := t.db.QueryRow(`SELECT COUNT(*) FROM scores`).Scan(&r.TotalScored); err != nil {
		return nil, fmt.Errorf("counting scores: %w", err)
	}

	if err := t.loadEntries(r); err != nil {
		return nil, fmt.Errorf("computing standings: %w", err)
	}
	if err := t.loadSourceStats(r); err != nil {
		return nil, fmt.Errorf("computing per-source stats: %w", err)
	}

	return r, nil
}

func (t *Tracker) loadEntries(r *Report) error {
	rows, err := t.db.Query(`
		SELECT organization, model, COUNT(*),
		       COALESCE(SUM(imputed), 0),
		       COALESCE(AVG(score), 0)
		FROM scores
		GROUP BY organization, model
		ORDER BY AVG(score) ASC, organization, model`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		e := Entry{SourceStats: make(map[string]SourceStats)}
		if err := rows.Scan(&e.Organization, &e.Model, &e.Scored, &e.Imputed, &e.MeanBrier); err != nil {
			return err
		}
		r.Entries = append(r.Entries, e)
	}
	return rows.Err()
}

func (t *Tracker) loadSourceStats(r *Report) error {
	rows, err := t.db.Query(`
		SELECT organization, model, source, COUNT(*), COALESCE(AVG(score), 0)
		FROM scores
		GROUP BY organization, model, source`)
	if err != nil {
		return err
	}
	defer rows.Close()

	index := make(map[string]*Entry, len(r.Entries))
	for i := range r.Entries {
		e := &r.Entries[i]
		index[e.Organization+"\x00"+e.Model] = e
	}

	for rows.Next() {
		var org, model, source string
		var stats SourceStats
		if err := rows.Scan(&org, &model, &source, &stats.Scored, &stats.MeanBrier); err != nil {
			return err
		}
		if e, ok := index[org+"\x00"+model]; ok {
			e.SourceStats[source] = stats
		}
	}
	return rows.Err()
}
