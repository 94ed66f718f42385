package presenter

import (
	authDTO "github.com/johnquangdev/meeting-actions/internal/adapter/dto/auth"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/usecase/auth"
)

// ToUserResponse converts a PublicUser to the UserResponse DTO
func ToUserResponse(u *entities.PublicUser) *authDTO.UserResponse {
	if u == nil {
		return nil
	}

	response := &authDTO.UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
	if u.AvatarURL != nil {
		response.AvatarURL = *u.AvatarURL
	}
	return response
}

// ToAuthResponse converts a sign-in or refresh result to the AuthResponse DTO.
// Refresh responses carry no user.
func ToAuthResponse(usecaseResp *auth.AuthResponse) *authDTO.AuthResponse {
	if usecaseResp == nil {
		return nil
	}

	return &authDTO.AuthResponse{
		AccessToken:  usecaseResp.AccessToken,
		RefreshToken: usecaseResp.RefreshToken,
		ExpiresIn:    usecaseResp.ExpiresIn,
		TokenType:    "Bearer",
		User:         ToUserResponse(usecaseResp.User),
	}
}
