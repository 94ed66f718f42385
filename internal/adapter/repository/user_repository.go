package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// UserRepository is the GORM user store
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s: %w", user.Email, entities.ErrEmailTaken)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(ctx, &entities.User{ID: id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(ctx, &entities.User{Email: email})
}

func (r *UserRepository) FindByOAuth(ctx context.Context, provider, oauthID string) (*entities.User, error) {
	if provider == "" || oauthID == "" {
		return nil, entities.ErrUserNotFound
	}
	return r.first(ctx, &entities.User{OAuthProvider: &provider, OAuthID: &oauthID})
}

// first matches on the non-zero fields of cond
func (r *UserRepository) first(ctx context.Context, cond *entities.User) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where(cond).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, entities.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
