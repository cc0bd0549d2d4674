package resolver

import (
	"reflect"
	"testing"
)

func TestResolver_RoutesAndMerges(t *testing.T) {
	rows := []ForecastRow{
		{ID: NewID("cpi"), Source: "fred", ForecastDueDate: date(2024, 6, 1), ResolutionDate: date(2024, 6, 8)},
		{ID: NewID("open-q"), Source: "manifold", ForecastDueDate: date(2024, 6, 1), ResolutionDate: date(2024, 6, 14)},
	}
	data := map[string]SourceData{
		"fred":     dataSourceData(),
		"manifold": marketData(),
	}

	out, err := New().Resolve(rows, data, date(2024, 6, 15))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	for _, row := range out {
		switch row.Source {
		case "fred":
			if !row.Resolved {
				t.Error("fred row should be resolved")
			}
		case "manifold":
			if !row.ResolvedTo.OK {
				t.Error("manifold row should carry a provisional value")
			}
		}
	}
}

func TestResolver_UnregisteredSourcePassesThrough(t *testing.T) {
	rows := []ForecastRow{{
		ID:             NewID("event-count"),
		Source:         "acled",
		ResolutionDate: date(2024, 6, 8),
	}}

	out, err := New().Resolve(rows, map[string]SourceData{}, date(2024, 6, 15))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].Resolved || out[0].ResolvedTo.OK {
		t.Error("pass-through row must remain untouched")
	}
}

func TestResolver_MissingSourceDataFails(t *testing.T) {
	rows := []ForecastRow{{
		ID:             NewID("cpi"),
		Source:         "fred",
		ResolutionDate: date(2024, 6, 8),
	}}

	if _, err := New().Resolve(rows, map[string]SourceData{}, date(2024, 6, 15)); err == nil {
		t.Fatal("expected an error for a registered source with no data")
	}
}

func TestResolver_IntegrityErrorAbortsPass(t *testing.T) {
	rows := []ForecastRow{
		{ID: NewID("cpi"), Source: "fred", ForecastDueDate: date(2024, 6, 1), ResolutionDate: date(2024, 6, 8)},
		{ID: NewID("ghost"), Source: "fred", ForecastDueDate: date(2024, 6, 1), ResolutionDate: date(2024, 6, 8)},
	}
	data := map[string]SourceData{"fred": dataSourceData()}

	out, err := New().Resolve(rows, data, date(2024, 6, 15))
	if err == nil {
		t.Fatal("expected integrity error to abort the pass")
	}
	if out != nil {
		t.Error("no partial output on failure")
	}
}

func TestResolver_Idempotent(t *testing.T) {
	rows := []ForecastRow{
		{ID: NewID("unemployment"), Source: "fred", ForecastDueDate: date(2024, 6, 1), ResolutionDate: date(2024, 6, 8)},
		{ID: NewID("cpi"), Source: "fred", ForecastDueDate: date(2024, 6, 1), ResolutionDate: date(2024, 6, 8)},
		{ID: NewID("settled-q"), Source: "manifold", ForecastDueDate: date(2024, 6, 1), ResolutionDate: date(2024, 6, 14)},
		{ID: NewID("open-q"), Source: "manifold", ForecastDueDate: date(2024, 6, 1), ResolutionDate: date(2024, 6, 14)},
		{ID: NewID("world-records"), Source: "wikipedia", ForecastDueDate: date(2024, 6, 1), ResolutionDate: date(2024, 6, 8)},
	}
	data := map[string]SourceData{
		"fred":      dataSourceData(),
		"manifold":  marketData(),
		"wikipedia": seriesData(),
	}

	first, err := New().Resolve(rows, data, date(2024, 6, 15))
	if err != nil {
		t.Fatal(err)
	}
	second, err := New().Resolve(rows, data, date(2024, 6, 15))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two passes over frozen inputs must produce identical output")
	}
}
