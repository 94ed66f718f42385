package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// SessionRepository stores refresh-token sessions by token hash
type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	// FindByTokenHash ignores revoked sessions. Expiry is the caller's check.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error)
	UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error

	Revoke(ctx context.Context, sessionID uuid.UUID) error
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes sessions that expired or were revoked before the cutoff
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
