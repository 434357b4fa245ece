package insights

import "time"

// DailyAverage is the mean mood of one calendar day.
type DailyAverage struct {
	Date    string  `json:"date"`
	Weekday string  `json:"weekday"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ComputeDailyAverages returns one point per calendar day for the last days
// days ending today, oldest first. Days without records have Count 0.
func ComputeDailyAverages(records []Record, now time.Time, days int) []DailyAverage {
	if days <= 0 {
		return []DailyAverage{}
	}
	loc := now.Location()

	byDay := make(map[string][]Record)
	for _, r := range records {
		key := dayKey(r.Timestamp, loc)
		byDay[key] = append(byDay[key], r)
	}

	today := startOfDay(now, loc)
	points := make([]DailyAverage, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		group := byDay[key]
		points = append(points, DailyAverage{
			Date:    key,
			Weekday: day.Format("Mon"),
			Average: average(group),
			Count:   len(group),
		})
	}
	return points
}
