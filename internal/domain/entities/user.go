package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is a person who signs in to the dashboard
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email    string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null"`
	IsActive bool      `json:"is_active" gorm:"default:true;not null"`

	OAuthProvider *string `json:"oauth_provider,omitempty" gorm:"column:oauth_provider;type:varchar(50);index:idx_users_oauth"`
	OAuthID       *string `json:"oauth_id,omitempty" gorm:"column:oauth_id;type:varchar(255);index:idx_users_oauth"`

	AvatarURL   *string    `json:"avatar_url,omitempty" gorm:"type:varchar(500)"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// NewOAuthUser creates an active user who signs in through provider
func NewOAuthUser(email, name, provider, oauthID string) *User {
	u := &User{ID: uuid.New(), Email: email, Name: name, IsActive: true}
	u.SignedIn(provider, oauthID, "")
	u.CreatedAt = u.UpdatedAt
	return u
}

// SignedIn links the user to the identity that just signed in and stamps
// the login. An empty avatar keeps the current one.
func (u *User) SignedIn(provider, oauthID, avatar string) {
	now := time.Now()
	u.OAuthProvider = &provider
	u.OAuthID = &oauthID
	if avatar != "" {
		u.AvatarURL = &avatar
	}
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// PublicUser is the user shape returned by the API
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}
