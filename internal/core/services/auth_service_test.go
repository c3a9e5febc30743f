package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
	"github.com/joel-wlf/bbg-lager/internal/config"
	"github.com/joel-wlf/bbg-lager/internal/core/domain"
	"github.com/joel-wlf/bbg-lager/internal/pkg/password"

	"gorm.io/gorm"
)

type fakeRefreshTokenRepo struct {
	tokens map[string]*models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken), nextID: 1}
}

func (r *fakeRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	token.ID = r.nextID
	r.nextID++
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return token, nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	if token, ok := r.tokens[tokenHash]; ok && token.RevokedAt == nil {
		now := time.Now()
		token.RevokedAt = &now
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(ctx context.Context, userID uint) error {
	now := time.Now()
	for _, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeRefreshTokenRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeRefreshTokenRepo()

	hash, err := password.Hash("geheimes-passwort")
	if err != nil {
		t.Fatalf("hashing test password: %v", err)
	}
	userRepo.users[1] = &models.User{
		ID:       1,
		Name:     "Lena",
		Email:    "lena@example.org",
		Password: hash,
		Role:     models.RoleStaff,
		IsActive: true,
	}

	return NewAuthService(userRepo, tokenRepo, testConfig()), userRepo, tokenRepo
}

func TestLogin(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	result, err := service.Login(context.Background(), &LoginInput{
		Email:    "lena@example.org",
		Password: "geheimes-passwort",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("expected token pair")
	}
	if result.User == nil || result.User.Email != "lena@example.org" {
		t.Errorf("unexpected user %+v", result.User)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	if _, err := service.Login(context.Background(), &LoginInput{
		Email:    "lena@example.org",
		Password: "falsch",
	}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := service.Login(context.Background(), &LoginInput{
		Email:    "niemand@example.org",
		Password: "geheimes-passwort",
	}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	service, userRepo, _ := newAuthFixture(t)
	userRepo.users[1].IsActive = false

	if _, err := service.Login(context.Background(), &LoginInput{
		Email:    "lena@example.org",
		Password: "geheimes-passwort",
	}); !errors.Is(err, domain.ErrUserInactive) {
		t.Errorf("expected ErrUserInactive, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	login, err := service.Login(context.Background(), &LoginInput{
		Email:    "lena@example.org",
		Password: "geheimes-passwort",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := service.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("expected a rotated refresh token")
	}

	// The old token is dead after rotation.
	if _, err := service.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Errorf("expected ErrTokenRevoked for reused token, got %v", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	if _, err := service.Refresh(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestLogoutAllRevokesEverything(t *testing.T) {
	service, _, tokenRepo := newAuthFixture(t)

	first, _ := service.Login(context.Background(), &LoginInput{Email: "lena@example.org", Password: "geheimes-passwort"})
	second, _ := service.Login(context.Background(), &LoginInput{Email: "lena@example.org", Password: "geheimes-passwort"})

	if err := service.LogoutAll(context.Background(), 1); err != nil {
		t.Fatalf("LogoutAll: %v", err)
	}

	for _, token := range tokenRepo.tokens {
		if token.RevokedAt == nil {
			t.Error("expected every token revoked")
		}
	}

	if _, err := service.Refresh(context.Background(), first.RefreshToken); err == nil {
		t.Error("expected first session dead")
	}
	if _, err := service.Refresh(context.Background(), second.RefreshToken); err == nil {
		t.Error("expected second session dead")
	}
}
