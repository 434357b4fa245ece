package models

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/insights"
	"github.com/google/uuid"
)

// MoodEntry is one logged mood. The service keeps at most one per user per day.
type MoodEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_mood_entries_user_time,priority:1" json:"user_id"`
	Mood      string    `gorm:"size:50;not null" json:"mood"`
	Emoji     string    `gorm:"size:16;not null" json:"emoji"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 5" json:"value"`
	Note      string    `gorm:"type:text;default:''" json:"note"`
	Timestamp time.Time `gorm:"not null;index:idx_mood_entries_user_time,priority:2,sort:desc" json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record converts the entry into the form the insights package works on.
func (e MoodEntry) Record() insights.Record {
	return insights.Record{
		Label:     e.Mood,
		Emoji:     e.Emoji,
		Value:     e.Value,
		Timestamp: e.Timestamp,
		Note:      e.Note,
	}
}

// Records converts entries, keeping their order.
func Records(entries []MoodEntry) []insights.Record {
	out := make([]insights.Record, len(entries))
	for i, e := range entries {
		out[i] = e.Record()
	}
	return out
}
