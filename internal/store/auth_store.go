package store

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// AuthStore persists users and their refresh tokens.
type AuthStore interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// CreateUser returns ErrDuplicate when the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserName(ctx context.Context, id uuid.UUID, name string) error
	// DeleteUser removes the user with all mood entries and refresh tokens.
	DeleteUser(ctx context.Context, id uuid.UUID) error

	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// ActiveRefreshToken returns the unrevoked token with the given hash.
	ActiveRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	// RevokeRefreshToken revokes the token if it is still unrevoked and
	// reports whether this call did so. Of concurrent callers at most one
	// gets true.
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) (bool, error)
	RevokeRefreshTokenByHash(ctx context.Context, tokenHash string) error
}

type GormAuthStore struct {
	db *gorm.DB
}

func NewGormAuthStore(db *gorm.DB) *GormAuthStore {
	return &GormAuthStore{db: db}
}

func (s *GormAuthStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormAuthStore) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormAuthStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormAuthStore) UpdateUserName(ctx context.Context, id uuid.UUID, name string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormAuthStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.MoodEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.User{}, "id = ?", id).Error
	})
}

func (s *GormAuthStore) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return s.db.WithContext(ctx).Create(token).Error
}

func (s *GormAuthStore) ActiveRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := s.db.WithContext(ctx).Where("token_hash = ? AND revoked = false", tokenHash).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (s *GormAuthStore) RevokeRefreshToken(ctx context.Context, id uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = false", id).
		Update("revoked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormAuthStore) RevokeRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// translate maps GORM errors onto the store's sentinels. Duplicate keys are
// only recognised when the connection has TranslateError enabled.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
