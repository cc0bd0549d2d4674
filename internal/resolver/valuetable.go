package resolver

import (
	"sort"
	"time"
)

// valueTable indexes a source's resolution values for (id, date) lookup.
// Input order is preserved for duplicate (id, date) pairs: the last entry
// wins, matching the "latest value is meaningful" rule.
type valueTable struct {
	byKey map[string]Value
	byID  map[string][]ResolutionValue // deduped, sorted by date
}

func newValueTable(values []ResolutionValue) *valueTable {
	vt := &valueTable{
		byKey: make(map[string]Value, len(values)),
		byID:  make(map[string][]ResolutionValue),
	}
	seen := make(map[string]int) // key -> index into byID slice
	for _, rv := range values {
		key := rv.ID + "\x00" + DateKey(rv.Date)
		vt.byKey[key] = rv.Value
		if i, ok := seen[key]; ok {
			vt.byID[rv.ID][i] = rv
			continue
		}
		seen[key] = len(vt.byID[rv.ID])
		vt.byID[rv.ID] = append(vt.byID[rv.ID], rv)
	}
	for id := range vt.byID {
		series := vt.byID[id]
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Date.Before(series[j].Date)
		})
	}
	return vt
}

// has reports whether any observation exists for id.
func (vt *valueTable) has(id string) bool {
	return len(vt.byID[id]) > 0
}

// at returns the observation for (id, date). The second return distinguishes
// "no entry for this date" from an entry holding a null value.
func (vt *valueTable) at(id string, date time.Time) (Value, bool) {
	v, ok := vt.byKey[id+"\x00"+DateKey(date)]
	return v, ok
}

// last returns the latest observation for id and its date.
func (vt *valueTable) last(id string) (Value, time.Time, bool) {
	series := vt.byID[id]
	if len(series) == 0 {
		return Null, time.Time{}, false
	}
	rv := series[len(series)-1]
	return rv.Value, rv.Date, true
}

// forwardFill resamples every id's series to daily granularity, carrying the
// last observation forward through gaps and extending it through the given
// end date. Observations after end are dropped from the fill but a value
// exactly at end is kept.
func (vt *valueTable) forwardFill(end time.Time) map[string]map[string]Value {
	filled := make(map[string]map[string]Value, len(vt.byID))
	for id, series := range vt.byID {
		daily := make(map[string]Value)
		var prev Value
		var cursor time.Time
		started := false
		for _, rv := range series {
			if rv.Date.After(end) {
				break
			}
			if started {
				for d := cursor.AddDate(0, 0, 1); d.Before(rv.Date); d = d.AddDate(0, 0, 1) {
					daily[DateKey(d)] = prev
				}
			}
			daily[DateKey(rv.Date)] = rv.Value
			prev = rv.Value
			cursor = rv.Date
			started = true
		}
		if started {
			for d := cursor.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
				daily[DateKey(d)] = prev
			}
		}
		filled[id] = daily
	}
	return filled
}
