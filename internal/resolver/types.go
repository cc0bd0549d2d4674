package resolver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ForecastHorizons are the days past the due date at which forecasts are
// evaluated: 1 week through 10 years.
var ForecastHorizons = []int{7, 30, 90, 180, 365, 1095, 1825, 3650}

// Source families. The lists grow over time so that questions from a source
// we have since stopped curating can still be resolved.
var (
	MarketSources = []string{"infer", "manifold", "metaculus", "polymarket"}
	DataSources   = []string{"dbnomics", "fred", "yfinance"}
	SeriesSources = []string{"wikipedia"}
)

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func IsMarketSource(s string) bool { return contains(MarketSources, s) }
func IsDataSource(s string) bool   { return contains(DataSources, s) }

// IsDatasetSource reports whether s resolves against a dataset rather than a
// traded market (data and time-series families both qualify).
func IsDatasetSource(s string) bool {
	return contains(DataSources, s) || contains(SeriesSources, s)
}

// QuestionID identifies a question: a single id, or an ordered pair of two
// ids for combo questions.
type QuestionID struct {
	ID0 string
	ID1 string // set only for combo questions
}

func NewID(id string) QuestionID {
	return QuestionID{ID0: id}
}

func NewComboID(id0, id1 string) QuestionID {
	return QuestionID{ID0: id0, ID1: id1}
}

func (q QuestionID) IsCombo() bool { return q.ID1 != "" }

func (q QuestionID) String() string {
	if q.IsCombo() {
		return q.ID0 + "|" + q.ID1
	}
	return q.ID0
}

// Direction holds the sign convention for a combo question, one sign per
// constituent, each in {-1, +1}. The zero value marks a non-combo row.
type Direction [2]int

func (d Direction) IsZero() bool { return d[0] == 0 && d[1] == 0 }

func (d Direction) Valid() bool {
	if d.IsZero() {
		return true
	}
	return (d[0] == 1 || d[0] == -1) && (d[1] == 1 || d[1] == -1)
}

func (d Direction) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d,%d", d[0], d[1])
}

// ParseDirection parses the wire form of a direction ("1,-1"). Empty input
// yields the zero direction.
func ParseDirection(s string) (Direction, error) {
	if s == "" || s == "N/A" {
		return Direction{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Direction{}, fmt.Errorf("malformed direction %q", s)
	}
	var d Direction
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || (n != 1 && n != -1) {
			return Direction{}, fmt.Errorf("malformed direction %q", s)
		}
		d[i] = n
	}
	return d, nil
}

// Question is the read-only metadata for one base question.
type Question struct {
	ID             string
	Source         string
	Text           string
	Resolved       bool
	ResolutionTime time.Time // zero when unresolved
}

// ResolutionValue is one observed ground-truth fact: the value for a question
// id at a date. Repeated (id, date) pairs may appear on input; the latest one
// wins.
type ResolutionValue struct {
	ID    string
	Date  time.Time
	Value Value
}

// SourceData bundles the per-source read-only inputs to one resolution pass.
type SourceData struct {
	Questions []Question
	Values    []ResolutionValue
}

// ForecastRow is one forecast to be resolved: a question at one resolution
// date, with the combo direction when the id is a pair. The resolver fills
// Resolved, ResolvedTo and MarketValueOnDueDate; everything else is input.
type ForecastRow struct {
	ID                   QuestionID
	Source               string
	ForecastDueDate      time.Time
	ResolutionDate       time.Time
	Direction            Direction
	Forecast             Value
	MarketValueOnDueDate Value
	Resolved             bool
	ResolvedTo           Value
}

// IntegrityError reports a forecast row referencing a question id that has no
// resolution values at all. It aborts the pass for the affected source.
type IntegrityError struct {
	Source string
	ID     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("missing resolution values for source %s id %s", e.Source, e.ID)
}

// sortRows orders rows by (id, resolution date) for deterministic output.
func sortRows(rows []ForecastRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ID.String() != b.ID.String() {
			return a.ID.String() < b.ID.String()
		}
		if !a.ResolutionDate.Equal(b.ResolutionDate) {
			return a.ResolutionDate.Before(b.ResolutionDate)
		}
		return a.Direction.String() < b.Direction.String()
	})
}

// DateKey formats a date the way the stores key it.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
