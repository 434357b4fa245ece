// Package insights derives mood statistics from a user's logged entries.
//
// Every function here is a pure transform over an in-memory slice: callers pass
// "now" explicitly and day boundaries are taken in now.Location(). Records are
// assumed to be valid (Value in 1..5, non-zero Timestamp); use Validate before
// storing anything so that an out-of-range value never reaches an average.
package insights

import (
	"errors"
	"time"
)

var (
	ErrValueOutOfRange  = errors.New("mood value must be between 1 and 5")
	ErrMissingTimestamp = errors.New("mood timestamp is required")
)

const (
	MinValue = 1
	MaxValue = 5
)

// Record is a single logged mood observation.
type Record struct {
	Label     string
	Emoji     string
	Value     int
	Timestamp time.Time
	Note      string
}

// Validate reports whether r satisfies the input contract of this package.
func Validate(r Record) error {
	if r.Value < MinValue || r.Value > MaxValue {
		return ErrValueOutOfRange
	}
	if r.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}
	return nil
}

func average(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, r := range records {
		sum += r.Value
	}
	return float64(sum) / float64(len(records))
}

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
