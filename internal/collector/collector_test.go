package collector

import (
	"testing"
	"time"

	"benchcast/internal/config"
	"benchcast/internal/db"
	"benchcast/internal/market"
)

func TestCollect_ReusesCachedScan(t *testing.T) {
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	if err := db.Migrate(database); err != nil {
		t.Fatal(err)
	}

	cache := market.NewCache(time.Minute)
	cache.SetAll([]market.Record{{
		ID:          "m1",
		Question:    "Will it happen?",
		Probability: 0.42,
		Volume:      100,
	}})

	// A nil scanner panics if touched; a warm cache must keep Collect off
	// the API entirely.
	coll := NewCollector(nil, cache, database, config.CollectorConfig{MinVolume: 10})
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := coll.Collect(today); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := database.QueryRow(
		`SELECT COUNT(*) FROM questions WHERE source = 'manifold' AND id = 'm1'`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("cached record not upserted, questions = %d", count)
	}

	var value string
	if err := database.QueryRow(
		`SELECT value FROM resolution_values WHERE source = 'manifold' AND question_id = 'm1' AND date = '2024-06-01'`).Scan(&value); err != nil {
		t.Fatal(err)
	}
	if value != "0.42" {
		t.Errorf("observation value = %s, want 0.42", value)
	}
}

func TestObservationValue(t *testing.T) {
	tests := []struct {
		name   string
		record market.Record
		want   float64
		ok     bool
	}{
		{"open market records its probability", market.Record{Probability: 0.42}, 0.42, true},
		{"resolved YES", market.Record{IsResolved: true, Resolution: "YES"}, 1, true},
		{"resolved NO", market.Record{IsResolved: true, Resolution: "NO", Probability: 0.3}, 0, true},
		{"resolved MKT keeps probability", market.Record{IsResolved: true, Resolution: "MKT", Probability: 0.65}, 0.65, true},
		{"cancelled records nothing", market.Record{IsResolved: true, Resolution: "CANCEL"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := observationValue(tt.record)
			if got != tt.want || ok != tt.ok {
				t.Errorf("observationValue() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
