package resolver

import (
	"testing"
	"time"
)

func seriesData() SourceData {
	return SourceData{
		Questions: []Question{
			{ID: "world-records", Source: "wikipedia"},
			{ID: "vaccine-count", Source: "wikipedia"},
		},
		Values: []ResolutionValue{
			{ID: "world-records", Date: date(2024, 6, 1), Value: Some(20)},
			{ID: "world-records", Date: date(2024, 6, 5), Value: Some(21)},
			{ID: "vaccine-count", Date: date(2024, 6, 3), Value: Some(7)},
		},
	}
}

func TestTimeSeries_ForwardFillsGaps(t *testing.T) {
	// 2024-06-03 has no observation for world-records; the 06-01 value
	// carries forward.
	rows := []ForecastRow{{
		ID:              NewID("world-records"),
		Source:          "wikipedia",
		ForecastDueDate: date(2024, 6, 1),
		ResolutionDate:  date(2024, 6, 3),
	}}

	out, err := TimeSeries{}.Resolve("wikipedia", rows, seriesData(), date(2024, 6, 10))
	if err != nil {
		t.Fatal(err)
	}
	row := out[0]
	if !row.Resolved {
		t.Error("row due in the past should be resolved")
	}
	if !row.ResolvedTo.OK || row.ResolvedTo.F != 20 {
		t.Errorf("resolved_to = %v, want carried-forward 20", row.ResolvedTo)
	}
}

func TestTimeSeries_ExtendsThroughYesterday(t *testing.T) {
	// Last observation is 2024-06-05; with today=2024-06-10 the series must
	// extend day by day through the 9th with the last value.
	data := seriesData()
	vt := newValueTable(data.Values)
	filled := vt.forwardFill(date(2024, 6, 9))

	series := filled["world-records"]
	for d := date(2024, 6, 5); !d.After(date(2024, 6, 9)); d = d.AddDate(0, 0, 1) {
		v, ok := series[DateKey(d)]
		if !ok {
			t.Fatalf("no value for %s", DateKey(d))
		}
		if !v.OK || v.F != 21 {
			t.Errorf("value on %s = %v, want 21", DateKey(d), v)
		}
	}
	if _, ok := series[DateKey(date(2024, 6, 10))]; ok {
		t.Error("fill must stop at yesterday, found value for today")
	}
}

func TestTimeSeries_FutureDateStaysPending(t *testing.T) {
	rows := []ForecastRow{{
		ID:              NewID("world-records"),
		Source:          "wikipedia",
		ForecastDueDate: date(2024, 6, 1),
		ResolutionDate:  date(2024, 6, 10), // today; not yet settled
	}}

	out, err := TimeSeries{}.Resolve("wikipedia", rows, seriesData(), date(2024, 6, 10))
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Resolved {
		t.Error("row asking about today must remain pending")
	}
	if out[0].ResolvedTo.OK {
		t.Errorf("pending row should carry no outcome, got %v", out[0].ResolvedTo)
	}
}

func TestTimeSeries_UnknownQuestionResolvesNull(t *testing.T) {
	// Identity matching is noisy for this source: a missing id logs and
	// resolves null rather than failing the batch.
	rows := []ForecastRow{{
		ID:              NewID("renamed-page"),
		Source:          "wikipedia",
		ForecastDueDate: date(2024, 6, 1),
		ResolutionDate:  date(2024, 6, 5),
	}}

	out, err := TimeSeries{}.Resolve("wikipedia", rows, seriesData(), date(2024, 6, 10))
	if err != nil {
		t.Fatal(err)
	}
	if !out[0].Resolved {
		t.Error("eligible row should be marked resolved even without data")
	}
	if out[0].ResolvedTo.OK {
		t.Errorf("resolved_to = %v, want null", out[0].ResolvedTo)
	}
}

func TestTimeSeries_ComboCombinesConstituents(t *testing.T) {
	rows := []ForecastRow{{
		ID:              NewComboID("world-records", "vaccine-count"),
		Source:          "wikipedia",
		ForecastDueDate: date(2024, 6, 1),
		ResolutionDate:  date(2024, 6, 6),
		Direction:       Direction{1, 1},
	}}

	out, err := TimeSeries{}.Resolve("wikipedia", rows, seriesData(), date(2024, 6, 10))
	if err != nil {
		t.Fatal(err)
	}
	row := out[0]
	if !row.Resolved {
		t.Error("combo due in the past should be resolved")
	}
	// 21 * 7: raw values multiply since this family looks up the series
	// values directly.
	if !row.ResolvedTo.OK || row.ResolvedTo.F != 147 {
		t.Errorf("combo resolved_to = %v, want 147", row.ResolvedTo)
	}
}

func TestTimeSeries_TimeOfDayIgnored(t *testing.T) {
	// A today carrying a wall-clock time still fills through the previous
	// midnight, so a row due yesterday resolves.
	rows := []ForecastRow{{
		ID:              NewID("world-records"),
		Source:          "wikipedia",
		ForecastDueDate: date(2024, 6, 1),
		ResolutionDate:  date(2024, 6, 9),
	}}

	today := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	out, err := TimeSeries{}.Resolve("wikipedia", rows, seriesData(), today)
	if err != nil {
		t.Fatal(err)
	}
	row := out[0]
	if !row.Resolved {
		t.Error("row due yesterday should resolve regardless of time of day")
	}
	if !row.ResolvedTo.OK || row.ResolvedTo.F != 21 {
		t.Errorf("resolved_to = %v, want carried-forward 21", row.ResolvedTo)
	}
}

func TestTimeSeries_DuplicateObservationLatestWins(t *testing.T) {
	data := seriesData()
	data.Values = append(data.Values, ResolutionValue{
		ID: "vaccine-count", Date: date(2024, 6, 3), Value: Some(8),
	})

	rows := []ForecastRow{{
		ID:              NewID("vaccine-count"),
		Source:          "wikipedia",
		ForecastDueDate: date(2024, 6, 1),
		ResolutionDate:  date(2024, 6, 4),
	}}

	out, err := TimeSeries{}.Resolve("wikipedia", rows, data, date(2024, 6, 10))
	if err != nil {
		t.Fatal(err)
	}
	if v := out[0].ResolvedTo; !v.OK || v.F != 8 {
		t.Errorf("resolved_to = %v, want the re-stated value 8", v)
	}
}
