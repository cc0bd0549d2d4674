package clock

import "time"

// Clock supplies the pipeline's notion of "today". Resolution logic never
// reads the system clock directly; the injected date makes every pass
// reproducible.
type Clock interface {
	Today() time.Time
}

// System reports today's date in UTC, truncated to midnight.
type System struct{}

func (System) Today() time.Time {
	return Midnight(time.Now().UTC())
}

// Fixed always reports the same date. Used in tests and replay runs.
type Fixed struct {
	Date time.Time
}

func (f Fixed) Today() time.Time {
	return Midnight(f.Date)
}

// Midnight truncates t to UTC midnight.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Yesterday is the most recent fully-elapsed day relative to today.
func Yesterday(today time.Time) time.Time {
	return Midnight(today).AddDate(0, 0, -1)
}
