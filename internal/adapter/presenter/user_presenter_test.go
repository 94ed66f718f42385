package presenter

import (
	"testing"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/usecase/auth"
)

func TestToAuthResponse(t *testing.T) {
	if ToAuthResponse(nil) != nil {
		t.Fatalf("expected nil for a nil result")
	}

	avatar := "https://cdn.example/ada.png"
	user := &entities.PublicUser{ID: uuid.New(), Email: "ada@example.com", Name: "Ada", AvatarURL: &avatar}
	got := ToAuthResponse(&auth.AuthResponse{User: user, AccessToken: "a", RefreshToken: "r", ExpiresIn: 900})

	if got.TokenType != "Bearer" || got.ExpiresIn != 900 || got.AccessToken != "a" {
		t.Fatalf("unexpected tokens %+v", got)
	}
	if got.User == nil || got.User.ID != user.ID.String() || got.User.AvatarURL != avatar {
		t.Fatalf("unexpected user %+v", got.User)
	}

	refreshed := ToAuthResponse(&auth.AuthResponse{AccessToken: "b", ExpiresIn: 900})
	if refreshed.User != nil {
		t.Fatalf("refresh response should not carry a user")
	}
}
