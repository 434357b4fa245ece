package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "  Ada  ", want: "Ada"},
		{in: "Jo", want: "Jo"},
		{in: "J", wantErr: true},
		{in: "   ", wantErr: true},
		{in: strings.Repeat("ş", 30), want: strings.Repeat("ş", 30)},
		{in: strings.Repeat("a", 31), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeName(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidName) {
					t.Errorf("normalizeName(%q) error = %v, want ErrInvalidName", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("normalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("normalizeEmail() = %q", got)
	}
}

func TestHashToken(t *testing.T) {
	a := hashToken("token-a")
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
	if a != hashToken("token-a") {
		t.Error("hash is not deterministic")
	}
	if a == hashToken("token-b") {
		t.Error("different tokens share a hash")
	}
}

func TestSignAccessToken(t *testing.T) {
	const secret = "test-secret"
	now := time.Now()
	user := &models.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}

	signed, err := signAccessToken(secret, 15*time.Minute, user, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not verify: %v", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub != user.ID.String() {
		t.Errorf("sub = %q, want %q", sub, user.ID)
	}
	if claims["email"] != user.Email || claims["name"] != user.Name {
		t.Errorf("claims = %v", claims)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp.Unix() != now.Add(15*time.Minute).Unix() {
		t.Errorf("exp = %v, want %v", exp, now.Add(15*time.Minute))
	}

	if _, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) { return []byte("other"), nil }); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

// memAuthStore is an in-memory AuthStore. Each method locks on its own, so
// concurrent callers interleave between calls as they would against a
// database.
type memAuthStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]models.User
	tokens map[uuid.UUID]models.RefreshToken

	// hideUsers makes UserByEmail miss, as a concurrent registration would.
	hideUsers bool
	revokeErr error
}

func newMemAuthStore() *memAuthStore {
	return &memAuthStore{
		users:  make(map[uuid.UUID]models.User),
		tokens: make(map[uuid.UUID]models.RefreshToken),
	}
}

func (m *memAuthStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideUsers {
		return nil, store.ErrNotFound
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memAuthStore) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *memAuthStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memAuthStore) UpdateUserName(_ context.Context, id uuid.UUID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Name = name
	m.users[id] = u
	return nil
}

func (m *memAuthStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	for tid, t := range m.tokens {
		if t.UserID == id {
			delete(m.tokens, tid)
		}
	}
	return nil
}

func (m *memAuthStore) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.ID] = *token
	return nil
}

func (m *memAuthStore) ActiveRefreshToken(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.TokenHash == tokenHash && !t.Revoked {
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memAuthStore) RevokeRefreshToken(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revokeErr != nil {
		return false, m.revokeErr
	}
	t, ok := m.tokens[id]
	if !ok || t.Revoked {
		return false, nil
	}
	t.Revoked = true
	m.tokens[id] = t
	return true, nil
}

func (m *memAuthStore) RevokeRefreshTokenByHash(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tokens {
		if t.TokenHash == tokenHash {
			t.Revoked = true
			m.tokens[id] = t
		}
	}
	return nil
}

func (m *memAuthStore) tokenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

func newTestAuthService(st *memAuthStore) *AuthService {
	return NewAuthService(st, &config.Config{
		JWTSecret:        "auth-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 720 * time.Hour,
	})
}

func registerTestUser(t *testing.T, svc *AuthService) *dto.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "Ada@Example.com", Password: "correct-horse", Name: "Ada",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	st := newMemAuthStore()
	svc := newTestAuthService(st)
	ctx := context.Background()

	resp := registerTestUser(t, svc)
	if resp.User.Email != "ada@example.com" || resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Errorf("register response = %+v", resp)
	}

	if _, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "another-pass", Name: "Ada"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second register error = %v, want ErrEmailTaken", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: " ADA@example.com", Password: "correct-horse"}); err != nil {
		t.Errorf("login: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegister_ConcurrentDuplicate(t *testing.T) {
	st := newMemAuthStore()
	svc := newTestAuthService(st)
	registerTestUser(t, svc)

	// The existence check misses; the unique constraint still rejects.
	st.hideUsers = true
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "ada@example.com", Password: "another-pass", Name: "Ada"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestRefresh_SingleUse(t *testing.T) {
	st := newMemAuthStore()
	svc := newTestAuthService(st)
	ctx := context.Background()
	first := registerTestUser(t, svc)

	second, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: first.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh returned the same refresh token")
	}

	if _, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: first.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("reused token error = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: second.RefreshToken}); err != nil {
		t.Errorf("rotated token: %v", err)
	}
}

func TestRefresh_ConcurrentExchangeIssuesOnePair(t *testing.T) {
	st := newMemAuthStore()
	svc := newTestAuthService(st)
	first := registerTestUser(t, svc)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: first.RefreshToken}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("successful refreshes = %d, want 1", successes)
	}
	if n := st.tokenCount(); n != 2 {
		t.Errorf("stored refresh tokens = %d, want 2", n)
	}
}

func TestRefresh_RevokeFailureIssuesNothing(t *testing.T) {
	st := newMemAuthStore()
	svc := newTestAuthService(st)
	first := registerTestUser(t, svc)
	before := st.tokenCount()

	st.revokeErr = errors.New("connection reset")
	if _, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: first.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh() error = %v, want ErrInvalidToken", err)
	}
	if n := st.tokenCount(); n != before {
		t.Errorf("stored refresh tokens = %d, want %d", n, before)
	}
}

func TestRefresh_Expired(t *testing.T) {
	st := newMemAuthStore()
	svc := newTestAuthService(st)
	first := registerTestUser(t, svc)

	svc.now = func() time.Time { return time.Now().Add(721 * time.Hour) }
	if _, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: first.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh() error = %v, want ErrInvalidToken", err)
	}
}

func TestLogout(t *testing.T) {
	st := newMemAuthStore()
	svc := newTestAuthService(st)
	ctx := context.Background()
	first := registerTestUser(t, svc)

	if err := svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: first.RefreshToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: first.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh after logout error = %v, want ErrInvalidToken", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	tests := []struct {
		name     string
		userID   func(resp *dto.AuthResponse) uuid.UUID
		password string
		want     error
	}{
		{name: "missing password", password: "", want: ErrPasswordRequired},
		{name: "wrong password", password: "wrong-pass", want: ErrInvalidCredentials},
		{name: "unknown user", userID: func(*dto.AuthResponse) uuid.UUID { return uuid.New() }, password: "correct-horse", want: ErrUserNotFound},
		{name: "deleted", password: "correct-horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMemAuthStore()
			svc := newTestAuthService(st)
			resp := registerTestUser(t, svc)

			userID := resp.User.ID
			if tt.userID != nil {
				userID = tt.userID(resp)
			}

			err := svc.DeleteAccount(context.Background(), userID, tt.password)
			if !errors.Is(err, tt.want) {
				t.Fatalf("DeleteAccount() error = %v, want %v", err, tt.want)
			}
			if tt.want != nil {
				return
			}
			if _, err := st.UserByID(context.Background(), resp.User.ID); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("user still present: %v", err)
			}
			if n := st.tokenCount(); n != 0 {
				t.Errorf("refresh tokens left = %d, want 0", n)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	st := newMemAuthStore()
	svc := newTestAuthService(st)
	ctx := context.Background()
	resp := registerTestUser(t, svc)

	got, err := svc.UpdateProfile(ctx, resp.User.ID, &dto.UpdateProfileRequest{Name: "  Grace "})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Grace" {
		t.Errorf("name = %q, want Grace", got.Name)
	}
	if _, err := svc.UpdateProfile(ctx, resp.User.ID, &dto.UpdateProfileRequest{Name: "G"}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("short name error = %v, want ErrInvalidName", err)
	}
	if _, err := svc.Profile(ctx, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown profile error = %v, want ErrUserNotFound", err)
	}
}
