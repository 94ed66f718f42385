package entities

import (
	"time"

	"github.com/google/uuid"
)

// Session backs one refresh token. Only the token's SHA-256 is stored.
type Session struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	RefreshTokenHash string     `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	ExpiresAt        time.Time  `json:"expires_at" gorm:"not null;index"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt       *time.Time `json:"last_used_at,omitempty"`
	IPAddress        *string    `json:"ip_address,omitempty" gorm:"type:varchar(45)"`
	UserAgent        *string    `json:"user_agent,omitempty" gorm:"type:text"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (Session) TableName() string { return "sessions" }

// Device is where a session was opened from. Empty fields are not stored.
type Device struct {
	IP        string
	UserAgent string
}

// NewSession opens a session for userID that lasts until expiresAt
func NewSession(userID uuid.UUID, refreshTokenHash string, expiresAt time.Time, device Device) *Session {
	s := &Session{
		ID:               uuid.New(),
		UserID:           userID,
		RefreshTokenHash: refreshTokenHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        time.Now(),
	}
	if device.IP != "" {
		s.IPAddress = &device.IP
	}
	if device.UserAgent != "" {
		s.UserAgent = &device.UserAgent
	}
	return s
}

// ActiveAt reports whether the session can still mint access tokens at t
func (s *Session) ActiveAt(t time.Time) bool {
	return s != nil && s.RevokedAt == nil && t.Before(s.ExpiresAt)
}
