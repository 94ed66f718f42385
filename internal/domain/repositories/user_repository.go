package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// UserRepository stores dashboard accounts. Lookups return entities.ErrUserNotFound on a miss.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	Update(ctx context.Context, user *entities.User) error

	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	// FindByOAuth matches the identity provider's subject, which survives email changes
	FindByOAuth(ctx context.Context, provider, oauthID string) (*entities.User, error)
}
