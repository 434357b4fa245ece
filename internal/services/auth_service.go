package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidName        = errors.New("name must be between 2 and 30 characters")
	ErrWeakPassword       = errors.New("email required and password must be at least 8 characters")
	ErrPasswordRequired   = errors.New("password is required")
)

const (
	minNameLength     = 2
	maxNameLength     = 30
	minPasswordLength = 8
)

type AuthService struct {
	store store.AuthStore
	cfg   *config.Config
	now   func() time.Time
}

func NewAuthService(s store.AuthStore, cfg *config.Config) *AuthService {
	return &AuthService{store: s, cfg: cfg, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	name, err := normalizeName(req.Name)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.UserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Name:     name,
	}

	// The lookup above can race with a concurrent registration; the unique
	// index decides.
	if err := s.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.UserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, user)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued. A token can be exchanged once; concurrent exchanges of the
// same token yield one pair.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	stored, err := s.store.ActiveRefreshToken(ctx, hashToken(req.RefreshToken))
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.store.RevokeRefreshToken(ctx, stored.ID)
	if err != nil || !revoked {
		return nil, ErrInvalidToken
	}
	if !stored.Usable(s.now()) {
		return nil, ErrInvalidToken
	}

	user, err := s.store.UserByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	return s.store.RevokeRefreshTokenByHash(ctx, hashToken(req.RefreshToken))
}

// DeleteAccount removes the user together with all mood entries and tokens.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := userResponse(user)
	return &resp, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	name, err := normalizeName(req.Name)
	if err != nil {
		return nil, err
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.store.UpdateUserName(ctx, userID, name); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	user.Name = name

	resp := userResponse(user)
	return &resp, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := signAccessToken(s.cfg.JWTSecret, s.cfg.JWTAccessExpiry, user, s.now())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userResponse(user),
	}, nil
}

func signAccessToken(secret string, ttl time.Duration, user *models.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"name":  user.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: s.now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.store.CreateRefreshToken(ctx, &record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < minNameLength || n > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
