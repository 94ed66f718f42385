package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/errors"
	dto "github.com/johnquangdev/meeting-actions/internal/adapter/dto/auth"
	"github.com/johnquangdev/meeting-actions/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-actions/internal/usecase/auth"
)

// AuthService is the sign-in surface the auth handler uses
type AuthService interface {
	GetGoogleAuthURL(ctx context.Context) (*auth.GoogleAuthURLResponse, error)
	HandleGoogleCallback(ctx context.Context, req *auth.GoogleCallbackRequest) (*auth.AuthResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*auth.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutEverywhere(ctx context.Context, refreshToken string) error
}

// Auth handles authentication HTTP requests
type Auth struct {
	oauthService AuthService
	logger       *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(oauthService AuthService, logger *zap.Logger) *Auth {
	return &Auth{
		oauthService: oauthService,
		logger:       logger,
	}
}

// GoogleLogin godoc
// @Summary      Start Google sign-in
// @Tags         Auth
// @Success      307
// @Failure      502  {object}  common.ErrorResponse
// @Router       /v1/auth/google/login [get]
func (h *Auth) GoogleLogin(c echo.Context) error {
	authURL, err := h.oauthService.GetGoogleAuthURL(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.Redirect(http.StatusTemporaryRedirect, authURL.URL)
}

// GoogleCallback godoc
// @Summary      Complete Google sign-in
// @Description  Creates the account and a personal workspace on first login
// @Tags         Auth
// @Produce      json
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "OAuth state"
// @Success      200  {object}  auth.AuthResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /v1/auth/google/callback [get]
func (h *Auth) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("missing code or state parameter"))
	}

	resp, err := h.oauthService.HandleGoogleCallback(c.Request().Context(), &auth.GoogleCallbackRequest{
		Code:      code,
		State:     state,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(resp))
}

// RefreshToken godoc
// @Summary      Refresh the access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body  auth.RefreshTokenRequest  true  "Refresh token"
// @Success      200  {object}  auth.AuthResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /v1/auth/refresh [post]
func (h *Auth) RefreshToken(c echo.Context) error {
	var req dto.RefreshTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	resp, err := h.oauthService.RefreshAccessToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(resp))
}

// Logout godoc
// @Summary      Revoke a session, or every session with everywhere=true
// @Tags         Auth
// @Accept       json
// @Param        body  body  auth.LogoutRequest  true  "Refresh token"
// @Success      200  {object}  common.SuccessResponse
// @Router       /v1/auth/logout [post]
func (h *Auth) Logout(c echo.Context) error {
	var req dto.LogoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	logout := h.oauthService.Logout
	if req.Everywhere {
		logout = h.oauthService.LogoutEverywhere
	}
	if err := logout(c.Request().Context(), req.RefreshToken); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"message": "Logged out successfully"})
}

// Me godoc
// @Summary      Current user
// @Tags         Auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  auth.UserResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /v1/auth/me [get]
func (h *Auth) Me(c echo.Context) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	return HandleSuccess(h.logger, c, presenter.ToUserResponse(user.ToPublic()))
}
