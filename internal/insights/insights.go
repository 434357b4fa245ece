package insights

import (
	"time"
)

// NoData is reported as the most common mood when there are no records.
const NoData = "No data"

// Trend is the direction of mood between the last two weeks.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

const (
	// trendThreshold is the minimum difference between weekly averages
	// that counts as a change in direction.
	trendThreshold = 0.3

	lastWeekDays     = 7
	previousWeekDays = 14
)

// Insights summarises a window of mood records.
type Insights struct {
	AverageMood    float64 `json:"average_mood"`
	MostCommonMood string  `json:"most_common_mood"`
	CurrentStreak  int     `json:"current_streak"`
	TotalEntries   int     `json:"total_entries"`
	MoodTrend      Trend   `json:"mood_trend"`
}

// ComputeInsights summarises records that the caller has already limited to
// the last windowDays days. For a deterministic MostCommonMood tie-break pass
// records sorted newest first.
func ComputeInsights(records []Record, now time.Time, windowDays int) Insights {
	if len(records) == 0 {
		return Insights{
			AverageMood:    0,
			MostCommonMood: NoData,
			CurrentStreak:  0,
			TotalEntries:   0,
			MoodTrend:      TrendStable,
		}
	}

	return Insights{
		AverageMood:    average(records),
		MostCommonMood: mostCommonLabel(records),
		CurrentStreak:  currentStreak(records, now, windowDays),
		TotalEntries:   len(records),
		MoodTrend:      weeklyTrend(records, now),
	}
}

// mostCommonLabel returns the label with the highest count. Ties go to the
// label seen first.
func mostCommonLabel(records []Record) string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range records {
		if _, seen := counts[r.Label]; !seen {
			order = append(order, r.Label)
		}
		counts[r.Label]++
	}

	best := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best
}

// currentStreak counts consecutive calendar days with at least one record,
// walking backward from today for at most windowDays days.
func currentStreak(records []Record, now time.Time, windowDays int) int {
	loc := now.Location()

	days := make(map[string]bool, len(records))
	for _, r := range records {
		days[dayKey(r.Timestamp, loc)] = true
	}

	today := startOfDay(now, loc)
	streak := 0
	for i := 0; i < windowDays; i++ {
		check := today.AddDate(0, 0, -i)
		if !days[check.Format("2006-01-02")] {
			break
		}
		streak++
	}
	return streak
}

func weeklyTrend(records []Record, now time.Time) Trend {
	var lastWeek, previousWeek []Record
	for _, r := range records {
		diff := daysBetween(r.Timestamp, now)
		switch {
		case diff <= lastWeekDays:
			lastWeek = append(lastWeek, r)
		case diff <= previousWeekDays:
			previousWeek = append(previousWeek, r)
		}
	}

	if len(lastWeek) == 0 || len(previousWeek) == 0 {
		return TrendStable
	}

	return classifyTrend(average(lastWeek), average(previousWeek))
}

func classifyTrend(current, previous float64) Trend {
	switch {
	case current > previous+trendThreshold:
		return TrendImproving
	case current < previous-trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// daysBetween is the number of whole 24h periods from t to now, rounded down.
// Timestamps after now give negative values.
func daysBetween(t, now time.Time) int {
	d := now.Sub(t)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
