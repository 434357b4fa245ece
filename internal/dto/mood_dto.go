package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/insights"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/models"
)

type SaveMoodRequest struct {
	Mood  string `json:"mood"`
	Emoji string `json:"emoji"`
	Value int    `json:"value"`
	Note  string `json:"note"`
}

type MoodListResponse struct {
	Entries []models.MoodEntry `json:"entries"`
	Days    int                `json:"days,omitempty"`
	Total   int                `json:"total"`
}

type DistributionResponse struct {
	Days         int                          `json:"days"`
	Total        int                          `json:"total"`
	Distribution []insights.DistributionEntry `json:"distribution"`
}

type DailyResponse struct {
	Days   int                     `json:"days"`
	Points []insights.DailyAverage `json:"points"`
}

// MoodReport bundles everything a shareable report shows for one period.
type MoodReport struct {
	Period       insights.Granularity         `json:"period"`
	GeneratedAt  time.Time                    `json:"generated_at"`
	Insights     insights.Insights            `json:"insights"`
	Comparison   insights.PeriodComparison    `json:"comparison"`
	Distribution []insights.DistributionEntry `json:"distribution"`
	Recent       []models.MoodEntry           `json:"recent"`
}

type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}
