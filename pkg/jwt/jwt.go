// Package jwt issues and verifies the dashboard's bearer and refresh tokens.
package jwt

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "meeting-actions"

// Kind separates access tokens from refresh tokens
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	// ErrExpired is returned when a token is well formed but past its expiry
	ErrExpired = errors.New("token expired")
	// ErrWrongKind is returned when a refresh token is presented as an access token or the reverse
	ErrWrongKind = errors.New("wrong token kind")
)

// Claims are carried by every token. Email is only set on access tokens.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Kind   Kind      `json:"kind"`
	jwt.RegisteredClaims
}

type signer struct {
	secret []byte
	ttl    time.Duration
}

// Manager signs and parses HS256 tokens
type Manager struct {
	access  signer
	refresh signer
	now     func() time.Time
}

// NewManager creates a token manager. Access and refresh tokens use separate secrets.
func NewManager(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *Manager {
	return &Manager{
		access:  signer{secret: []byte(accessSecret), ttl: accessExpiry},
		refresh: signer{secret: []byte(refreshSecret), ttl: refreshExpiry},
		now:     time.Now,
	}
}

func (m *Manager) signer(kind Kind) signer {
	if kind == KindRefresh {
		return m.refresh
	}
	return m.access
}

func (m *Manager) issue(kind Kind, userID uuid.UUID, email string) (string, error) {
	s := m.signer(kind)
	now := m.now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			// unique per token so refresh hashes never collide
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// GenerateAccessToken issues a short-lived bearer token
func (m *Manager) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return m.issue(KindAccess, userID, email)
}

// GenerateRefreshToken issues a long-lived token. Only its hash is ever stored.
func (m *Manager) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return m.issue(KindRefresh, userID, "")
}

func (m *Manager) parse(kind Kind, tokenString string) (*Claims, error) {
	s := m.signer(kind)
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case err != nil:
		return nil, fmt.Errorf("failed to parse token: %w", err)
	case claims.Kind != kind:
		return nil, ErrWrongKind
	}
	return claims, nil
}

// ValidateAccessToken verifies a bearer token
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.parse(KindAccess, tokenString)
}

// ValidateRefreshToken verifies a refresh token and returns its user
func (m *Manager) ValidateRefreshToken(tokenString string) (uuid.UUID, error) {
	claims, err := m.parse(KindRefresh, tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func (m *Manager) GetAccessExpiry() time.Duration  { return m.access.ttl }
func (m *Manager) GetRefreshExpiry() time.Duration { return m.refresh.ttl }

// HashToken returns the hex SHA-256 of token
func (m *Manager) HashToken(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token is empty")
	}
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:]), nil
}
