package resolver

import (
	"encoding/json"
	"fmt"
)

// Question ids travel as either a bare string or a two-element array (combo
// questions); directions as null or a two-element sign array. The decoders
// here are the shape-validation boundary: nothing past them sees a malformed
// id or direction.

func (q QuestionID) MarshalJSON() ([]byte, error) {
	if q.IsCombo() {
		return json.Marshal([2]string{q.ID0, q.ID1})
	}
	return json.Marshal(q.ID0)
}

func (q *QuestionID) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			return fmt.Errorf("empty question id")
		}
		*q = NewID(single)
		return nil
	}

	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("question id must be a string or a pair: %w", err)
	}
	if len(pair) != 2 || pair[0] == "" || pair[1] == "" {
		return fmt.Errorf("combo question id must hold exactly two ids, got %d", len(pair))
	}
	*q = NewComboID(pair[0], pair[1])
	return nil
}

func (d Direction) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal([2]int{d[0], d[1]})
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	if string(b) == "null" || string(b) == `"N/A"` {
		*d = Direction{}
		return nil
	}
	var pair []int
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("direction must be null or a pair of signs: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("direction must hold exactly two signs, got %d", len(pair))
	}
	parsed := Direction{pair[0], pair[1]}
	if !parsed.Valid() || parsed.IsZero() {
		return fmt.Errorf("direction signs must be -1 or 1, got %v", pair)
	}
	*d = parsed
	return nil
}
