package insights

import (
	"errors"
	"strings"
	"time"
)

var ErrUnknownGranularity = errors.New("period must be one of day, week, month, year")

// Granularity is the size of the windows compared by ComputePeriodComparison.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// Months and years are fixed 30 and 365 day windows, not calendar lengths.
var granularityDays = map[Granularity]int{
	GranularityDay:   1,
	GranularityWeek:  7,
	GranularityMonth: 30,
	GranularityYear:  365,
}

var granularityLabels = map[Granularity][2]string{
	GranularityDay:   {"Today", "Yesterday"},
	GranularityWeek:  {"This Week", "Last Week"},
	GranularityMonth: {"This Month", "Last Month"},
	GranularityYear:  {"This Year", "Last Year"},
}

// ParseGranularity accepts day, week, month or year in any case.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := granularityDays[g]; !ok {
		return "", ErrUnknownGranularity
	}
	return g, nil
}

// Days returns the window length in days, or 0 for an unknown granularity.
func (g Granularity) Days() int {
	return granularityDays[g]
}

// PeriodComparison contrasts the current window with the one before it.
//
// An average of 0 means the window had no records; it is not a mood score.
// CurrentCount and PreviousCount tell the two cases apart.
type PeriodComparison struct {
	CurrentAvg    float64 `json:"current_avg"`
	PreviousAvg   float64 `json:"previous_avg"`
	CurrentLabel  string  `json:"current_label"`
	PreviousLabel string  `json:"previous_label"`
	CurrentCount  int     `json:"current_count"`
	PreviousCount int     `json:"previous_count"`
}

// ComputePeriodComparison averages records in [now-len, ...) and in
// [now-2*len, now-len), where len is the granularity's day count.
func ComputePeriodComparison(records []Record, g Granularity, now time.Time) PeriodComparison {
	days := g.Days()
	currentStart := now.AddDate(0, 0, -days)
	previousStart := now.AddDate(0, 0, -2*days)

	var current, previous []Record
	for _, r := range records {
		switch {
		case !r.Timestamp.Before(currentStart):
			current = append(current, r)
		case !r.Timestamp.Before(previousStart):
			previous = append(previous, r)
		}
	}

	labels := granularityLabels[g]
	return PeriodComparison{
		CurrentAvg:    average(current),
		PreviousAvg:   average(previous),
		CurrentLabel:  labels[0],
		PreviousLabel: labels[1],
		CurrentCount:  len(current),
		PreviousCount: len(previous),
	}
}
