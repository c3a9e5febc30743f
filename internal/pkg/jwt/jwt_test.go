package jwt

import (
	"errors"
	"testing"
)

const testSecret = "test-secret"

func TestAccessTokenRoundtrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "lena@example.org", "Lena", "STAFF", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("expected user 7, got %d", claims.UserID)
	}
	if claims.Email != "lena@example.org" || claims.Name != "Lena" || claims.Role != "STAFF" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, _ := GenerateAccessToken(1, "a@b.de", "A", "ADMIN", testSecret, 15)

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, _ := GenerateAccessToken(1, "a@b.de", "A", "ADMIN", testSecret, -1)

	if _, err := ValidateAccessToken(token, testSecret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAccessTokenGarbage(t *testing.T) {
	if _, err := ValidateAccessToken("not.a.token", testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	token, err := GenerateRefreshToken(3, "token-id-123", testSecret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := ValidateRefreshToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.UserID != 3 || claims.TokenID != "token-id-123" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	// An access token signed with the refresh secret must not pass refresh
	// validation with the access secret and vice versa when secrets differ.
	refresh, _ := GenerateRefreshToken(3, "id", "refresh-secret", 7)
	if _, err := ValidateRefreshToken(refresh, "access-secret"); err == nil {
		t.Error("expected validation failure across secrets")
	}
}
