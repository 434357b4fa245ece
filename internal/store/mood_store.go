package store

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MoodStore persists mood entries. Every list is ordered newest first.
type MoodStore interface {
	Since(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.MoodEntry, error)
	InRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.MoodEntry, error)
	Latest(ctx context.Context, userID uuid.UUID, limit int) ([]models.MoodEntry, error)
	Create(ctx context.Context, entry *models.MoodEntry) error
	Save(ctx context.Context, entry *models.MoodEntry) error
}

type GormMoodStore struct {
	db *gorm.DB
}

func NewGormMoodStore(db *gorm.DB) *GormMoodStore {
	return &GormMoodStore{db: db}
}

func forUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func (s *GormMoodStore) Since(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	err := s.db.WithContext(ctx).Scopes(forUser(userID)).
		Where("timestamp >= ?", since).
		Order("timestamp DESC").
		Find(&entries).Error
	return entries, err
}

func (s *GormMoodStore) InRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	err := s.db.WithContext(ctx).Scopes(forUser(userID)).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Order("timestamp DESC").
		Find(&entries).Error
	return entries, err
}

func (s *GormMoodStore) Latest(ctx context.Context, userID uuid.UUID, limit int) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	err := s.db.WithContext(ctx).Scopes(forUser(userID)).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (s *GormMoodStore) Create(ctx context.Context, entry *models.MoodEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormMoodStore) Save(ctx context.Context, entry *models.MoodEntry) error {
	return s.db.WithContext(ctx).Save(entry).Error
}
