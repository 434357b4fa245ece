package insights

import "math"

// DistributionEntry is the share of records at one mood level.
type DistributionEntry struct {
	Value      int     `json:"value"`
	Label      string  `json:"label"`
	Emoji      string  `json:"emoji"`
	Color      string  `json:"color"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ComputeDistribution counts records per level, in the order of levels.
// Levels without records are left out.
func ComputeDistribution(records []Record, levels []Level) []DistributionEntry {
	entries := make([]DistributionEntry, 0, len(levels))
	total := len(records)
	if total == 0 {
		return entries
	}

	counts := make(map[int]int, len(levels))
	for _, r := range records {
		counts[r.Value]++
	}

	for _, l := range levels {
		count := counts[l.Value]
		if count == 0 {
			continue
		}
		entries = append(entries, DistributionEntry{
			Value:      l.Value,
			Label:      l.Label,
			Emoji:      l.Emoji,
			Color:      l.Color,
			Count:      count,
			Percentage: roundTo(float64(count)/float64(total)*100, 1),
		})
	}
	return entries
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
