package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// SessionRepository is the GORM refresh-session store
type SessionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session for user %s: %w", session.UserID, err)
	}
	return nil
}

func (r *SessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	var session entities.Session
	err := r.live(ctx).Where("refresh_token_hash = ?", tokenHash).First(&session).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, entities.ErrSessionNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&entities.Session{}).
		Where("id = ?", sessionID).
		Update("last_used_at", r.now()).Error
	if err != nil {
		return fmt.Errorf("failed to touch session %s: %w", sessionID, err)
	}
	return nil
}

func (r *SessionRepository) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	return r.revoke(ctx, "id = ?", sessionID)
}

func (r *SessionRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.revoke(ctx, "user_id = ?", userID)
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at < ?", before, before).
		Delete(&entities.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// live scopes a query to sessions that have not been revoked
func (r *SessionRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("revoked_at IS NULL")
}

func (r *SessionRepository) revoke(ctx context.Context, query string, arg interface{}) error {
	err := r.live(ctx).Model(&entities.Session{}).
		Where(query, arg).
		Update("revoked_at", r.now()).Error
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}
