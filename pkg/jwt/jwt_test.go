package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewManager("access", "refresh", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "a@example.com")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != userID || claims.Email != "a@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	// Access tokens are not accepted as refresh tokens
	if _, err := m.ValidateRefreshToken(token); err == nil {
		t.Fatal("access token must not validate with the refresh secret")
	}
}

func TestManager_ExpiredAccessToken(t *testing.T) {
	m := NewManager("access", "refresh", -time.Minute, time.Hour)
	token, err := m.GenerateAccessToken(uuid.New(), "a@example.com")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := m.ValidateAccessToken(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestManager_RefreshTokensAreUnique(t *testing.T) {
	m := NewManager("access", "refresh", time.Minute, time.Hour)
	userID := uuid.New()

	a, _ := m.GenerateRefreshToken(userID)
	b, _ := m.GenerateRefreshToken(userID)
	if a == b {
		t.Fatal("refresh tokens issued together must differ")
	}

	got, err := m.ValidateRefreshToken(a)
	if err != nil || got != userID {
		t.Fatalf("validate refresh: got=%s err=%v", got, err)
	}

	ha, _ := m.HashToken(a)
	hb, _ := m.HashToken(b)
	if ha == hb || len(ha) != 64 {
		t.Fatalf("unexpected hashes %s %s", ha, hb)
	}
	if _, err := m.HashToken(""); err == nil {
		t.Fatal("empty token should not hash")
	}
}

func TestManager_KindIsChecked(t *testing.T) {
	// same secret for both, so only the kind claim tells them apart
	m := NewManager("shared", "shared", time.Minute, time.Hour)
	userID := uuid.New()

	refresh, err := m.GenerateRefreshToken(userID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := m.ValidateAccessToken(refresh); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}

	access, _ := m.GenerateAccessToken(userID, "a@example.com")
	if _, err := m.ValidateRefreshToken(access); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

func TestManager_ClockSkew(t *testing.T) {
	m := NewManager("access", "refresh", time.Minute, time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccessToken(uuid.New(), "a@example.com")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := m.ValidateAccessToken(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired after the window, got %v", err)
	}
}
