package auth

// RefreshTokenRequest exchanges a refresh token for a new access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest ends the session behind RefreshToken. Everywhere ends every
// session of the same user.
type LogoutRequest struct {
	RefreshTokenRequest
	Everywhere bool `json:"everywhere"`
}
