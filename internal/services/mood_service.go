package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/insights"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/store"
	"github.com/google/uuid"
)

var (
	ErrInvalidMood  = errors.New("mood must be between 1 and 50 characters")
	ErrInvalidEmoji = errors.New("emoji must be at most 16 characters")
	ErrNoteTooLong  = errors.New("note must be at most 500 characters")
	ErrInvalidDays  = errors.New("days must be between 1 and 365")
	ErrNoEntryToday = errors.New("no mood entry found for today")
)

const (
	maxNoteLength  = 500
	maxMoodLength  = 50
	maxEmojiLength = 16
	maxWindowDays  = 365
	reportRecent   = 15
)

// MoodService records moods and computes statistics over them. Calendar days
// are taken in a single configured location.
type MoodService struct {
	store        store.MoodStore
	loc          *time.Location
	historyLimit int
	now          func() time.Time
}

func NewMoodService(s store.MoodStore, loc *time.Location, historyLimit int) *MoodService {
	if loc == nil {
		loc = time.UTC
	}
	return &MoodService{store: s, loc: loc, historyLimit: historyLimit, now: time.Now}
}

// WithClock replaces the time source.
func (s *MoodService) WithClock(now func() time.Time) *MoodService {
	s.now = now
	return s
}

func (s *MoodService) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *MoodService) dayBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}

// SaveMood stores today's mood. An existing entry for today is overwritten;
// created reports whether a new entry was made. A missing emoji is taken
// from the default level for the value.
func (s *MoodService) SaveMood(ctx context.Context, userID uuid.UUID, req dto.SaveMoodRequest) (entry *models.MoodEntry, created bool, err error) {
	mood := strings.TrimSpace(req.Mood)
	emoji := strings.TrimSpace(req.Emoji)
	note := strings.TrimSpace(req.Note)

	switch {
	case mood == "" || utf8.RuneCountInString(mood) > maxMoodLength:
		return nil, false, ErrInvalidMood
	case utf8.RuneCountInString(emoji) > maxEmojiLength:
		return nil, false, ErrInvalidEmoji
	case utf8.RuneCountInString(note) > maxNoteLength:
		return nil, false, ErrNoteTooLong
	}

	now := s.clock()
	if err := insights.Validate(insights.Record{Label: mood, Value: req.Value, Timestamp: now}); err != nil {
		return nil, false, err
	}
	if emoji == "" {
		level, _ := insights.LevelFor(req.Value)
		emoji = level.Emoji
	}

	start, end := s.dayBounds(now)
	existing, err := s.store.InRange(ctx, userID, start, end)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up today's mood: %w", err)
	}

	if len(existing) > 0 {
		entry = &existing[0]
		entry.Mood = mood
		entry.Emoji = emoji
		entry.Value = req.Value
		entry.Note = note
		entry.Timestamp = now.UTC()
		if err := s.store.Save(ctx, entry); err != nil {
			return nil, false, fmt.Errorf("failed to update mood: %w", err)
		}
		return entry, false, nil
	}

	entry = &models.MoodEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Mood:      mood,
		Emoji:     emoji,
		Value:     req.Value,
		Note:      note,
		Timestamp: now.UTC(),
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return nil, false, fmt.Errorf("failed to create mood: %w", err)
	}
	return entry, true, nil
}

// Entries returns the entries of the last days days, newest first.
func (s *MoodService) Entries(ctx context.Context, userID uuid.UUID, days int) ([]models.MoodEntry, error) {
	if err := checkDays(days); err != nil {
		return nil, err
	}
	return s.since(ctx, userID, s.clock().AddDate(0, 0, -days))
}

// Today returns the newest entry of the current day.
func (s *MoodService) Today(ctx context.Context, userID uuid.UUID) (*models.MoodEntry, error) {
	start, end := s.dayBounds(s.clock())
	entries, err := s.store.InRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoEntryToday
	}
	return &entries[0], nil
}

// History returns the most recent entries up to the configured limit.
func (s *MoodService) History(ctx context.Context, userID uuid.UUID) ([]models.MoodEntry, error) {
	entries, err := s.store.Latest(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, err
	}
	return nonNil(entries), nil
}

func (s *MoodService) Insights(ctx context.Context, userID uuid.UUID, days int) (insights.Insights, error) {
	if err := checkDays(days); err != nil {
		return insights.Insights{}, err
	}
	now := s.clock()
	entries, err := s.since(ctx, userID, now.AddDate(0, 0, -days))
	if err != nil {
		return insights.Insights{}, err
	}
	return insights.ComputeInsights(models.Records(entries), now, days), nil
}

func (s *MoodService) Distribution(ctx context.Context, userID uuid.UUID, days int) (*dto.DistributionResponse, error) {
	if err := checkDays(days); err != nil {
		return nil, err
	}
	entries, err := s.since(ctx, userID, s.clock().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	return &dto.DistributionResponse{
		Days:         days,
		Total:        len(entries),
		Distribution: insights.ComputeDistribution(models.Records(entries), insights.DefaultLevels),
	}, nil
}

func (s *MoodService) Comparison(ctx context.Context, userID uuid.UUID, g insights.Granularity) (insights.PeriodComparison, error) {
	now := s.clock()
	entries, err := s.since(ctx, userID, now.AddDate(0, 0, -2*g.Days()))
	if err != nil {
		return insights.PeriodComparison{}, err
	}
	return insights.ComputePeriodComparison(models.Records(entries), g, now), nil
}

// Daily returns one average per calendar day for the last days days.
func (s *MoodService) Daily(ctx context.Context, userID uuid.UUID, days int) (*dto.DailyResponse, error) {
	if err := checkDays(days); err != nil {
		return nil, err
	}
	now := s.clock()
	start, _ := s.dayBounds(now)
	entries, err := s.since(ctx, userID, start.AddDate(0, 0, -(days - 1)))
	if err != nil {
		return nil, err
	}
	return &dto.DailyResponse{
		Days:   days,
		Points: insights.ComputeDailyAverages(models.Records(entries), now, days),
	}, nil
}

// Report gathers insights, distribution and recent entries over one period
// together with its comparison against the period before.
func (s *MoodService) Report(ctx context.Context, userID uuid.UUID, g insights.Granularity) (*dto.MoodReport, error) {
	now := s.clock()
	days := g.Days()
	entries, err := s.since(ctx, userID, now.AddDate(0, 0, -2*days))
	if err != nil {
		return nil, err
	}

	windowStart := now.AddDate(0, 0, -days)
	window := make([]models.MoodEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Timestamp.Before(windowStart) {
			window = append(window, e)
		}
	}
	records := models.Records(window)

	recent := window
	if len(recent) > reportRecent {
		recent = recent[:reportRecent]
	}

	return &dto.MoodReport{
		Period:       g,
		GeneratedAt:  now,
		Insights:     insights.ComputeInsights(records, now, days),
		Comparison:   insights.ComputePeriodComparison(models.Records(entries), g, now),
		Distribution: insights.ComputeDistribution(records, insights.DefaultLevels),
		Recent:       recent,
	}, nil
}

func (s *MoodService) since(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.MoodEntry, error) {
	entries, err := s.store.Since(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mood entries: %w", err)
	}
	return nonNil(entries), nil
}

func checkDays(days int) error {
	if days < 1 || days > maxWindowDays {
		return ErrInvalidDays
	}
	return nil
}

func nonNil(entries []models.MoodEntry) []models.MoodEntry {
	if entries == nil {
		return []models.MoodEntry{}
	}
	return entries
}
