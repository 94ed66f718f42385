package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/domain/repositories"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-actions/pkg/jwt"
)

const providerGoogle = "google"

// IdentityProvider is the sign-in provider the dashboard uses
type IdentityProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Profile(ctx context.Context, token *oauth2.Token) (*oauth.Profile, error)
}

// OAuthService handles dashboard sign-in and sessions
type OAuthService struct {
	userRepo      repositories.UserRepository
	sessionRepo   repositories.SessionRepository
	workspaceRepo repositories.WorkspaceRepository
	google        IdentityProvider
	stateManager  *oauth.StateManager
	jwtManager    *jwt.Manager
	logger        *zap.Logger
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	workspaceRepo repositories.WorkspaceRepository,
	google IdentityProvider,
	stateManager *oauth.StateManager,
	jwtManager *jwt.Manager,
	logger *zap.Logger,
) *OAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		workspaceRepo: workspaceRepo,
		google:        google,
		stateManager:  stateManager,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// GoogleAuthURLResponse represents the response for auth URL request
type GoogleAuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// GetGoogleAuthURL generates Google OAuth URL
func (s *OAuthService) GetGoogleAuthURL(ctx context.Context) (*GoogleAuthURLResponse, error) {
	if s.google == nil {
		return nil, errors.ErrOAuthFailed(providerGoogle, fmt.Errorf("google sign-in is not configured"))
	}

	state, err := s.stateManager.GenerateState(ctx)
	if err != nil {
		return nil, errors.ErrCacheFailed("generate oauth state", err)
	}

	return &GoogleAuthURLResponse{
		URL:   s.google.AuthURL(state),
		State: state,
	}, nil
}

// GoogleCallbackRequest represents the callback request
type GoogleCallbackRequest struct {
	Code      string
	State     string
	IPAddress string
	UserAgent string
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User         *entities.PublicUser `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token,omitempty"`
	ExpiresIn    int64                `json:"expires_in"`
}

// HandleGoogleCallback signs a user in, creating the account and a personal
// workspace on first login
func (s *OAuthService) HandleGoogleCallback(ctx context.Context, req *GoogleCallbackRequest) (*AuthResponse, error) {
	if s.google == nil {
		return nil, errors.ErrOAuthFailed(providerGoogle, fmt.Errorf("google sign-in is not configured"))
	}
	if !s.stateManager.ValidateState(ctx, req.State) {
		return nil, errors.ErrOAuthStateMismatch()
	}

	token, err := s.google.Exchange(ctx, req.Code)
	if err != nil {
		return nil, errors.ErrOAuthFailed(providerGoogle, err)
	}

	profile, err := s.google.Profile(ctx, token)
	if err != nil {
		return nil, errors.ErrOAuthFailed(providerGoogle, err)
	}

	user, err := s.findOrCreateUser(ctx, profile)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.ErrPermissionDenied("sign in with a deactivated account")
	}

	resp, err := s.issueSession(ctx, user, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, err
	}

	s.logger.Info("✅ User signed in",
		zap.String("user_id", user.ID.String()),
		zap.String("provider", providerGoogle),
	)
	return resp, nil
}

func (s *OAuthService) findOrCreateUser(ctx context.Context, profile *oauth.Profile) (*entities.User, error) {
	user, err := s.userRepo.FindByOAuth(ctx, providerGoogle, profile.ID)
	if stdErrors.Is(err, entities.ErrUserNotFound) {
		// Same email signed in before with another provider: link the accounts
		user, err = s.userRepo.FindByEmail(ctx, profile.Email)
	}
	switch {
	case err == nil:
		user.SignedIn(providerGoogle, profile.ID, profile.Picture)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, errors.ErrInternal(fmt.Errorf("failed to record sign-in: %w", err))
		}
		return user, nil
	case !stdErrors.Is(err, entities.ErrUserNotFound):
		return nil, errors.ErrInternal(err)
	}

	name := profile.Name
	if name == "" {
		name = profile.Email
	}
	user = entities.NewOAuthUser(profile.Email, name, providerGoogle, profile.ID)
	if profile.Picture != "" {
		user.AvatarURL = &profile.Picture
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.ErrInternal(err)
	}

	ws := entities.NewWorkspace(name+"'s Workspace", user.ID)
	owner := entities.NewWorkspaceMember(ws.ID, user.ID, entities.RoleOwner)
	if err := s.workspaceRepo.CreateWithOwner(ctx, ws, owner); err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("failed to create personal workspace: %w", err))
	}

	s.logger.Info("🆕 User created",
		zap.String("user_id", user.ID.String()),
		zap.String("workspace_id", ws.ID.String()),
	)
	return user, nil
}

func (s *OAuthService) issueSession(ctx context.Context, user *entities.User, ip, userAgent string) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("failed to generate access token: %w", err))
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("failed to generate refresh token: %w", err))
	}

	hash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}

	session := entities.NewSession(user.ID, hash, time.Now().Add(s.jwtManager.GetRefreshExpiry()),
		entities.Device{IP: ip, UserAgent: userAgent})
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.ErrInternal(err)
	}

	return &AuthResponse{
		User:         user.ToPublic(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// RefreshAccessToken issues a new access token for a live refresh token
func (s *OAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInvalidRefreshToken()
	}

	session, err := s.findSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !session.ActiveAt(time.Now()) || session.UserID != userID {
		return nil, errors.ErrInvalidRefreshToken()
	}

	if err := s.sessionRepo.UpdateLastUsed(ctx, session.ID); err != nil {
		s.logger.Warn("⚠️ Failed to update session last use", zap.Error(err))
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrUserNotFound()
		}
		return nil, errors.ErrInternal(err)
	}
	if !user.IsActive {
		return nil, errors.ErrInvalidRefreshToken()
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("failed to generate access token: %w", err))
	}

	return &AuthResponse{
		User:        user.ToPublic(),
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

func (s *OAuthService) findSession(ctx context.Context, refreshToken string) (*entities.Session, error) {
	hash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInvalidRefreshToken()
	}
	session, err := s.sessionRepo.FindByTokenHash(ctx, hash)
	if err != nil {
		if stdErrors.Is(err, entities.ErrSessionNotFound) {
			return nil, errors.ErrInvalidRefreshToken()
		}
		return nil, errors.ErrInternal(err)
	}
	return session, nil
}

// ValidateSession resolves an access token to an active user
func (s *OAuthService) ValidateSession(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		if stdErrors.Is(err, jwt.ErrExpired) {
			return nil, errors.ErrTokenExpired()
		}
		return nil, errors.ErrInvalidToken()
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrInvalidToken()
		}
		return nil, errors.ErrInternal(err)
	}
	if !user.IsActive {
		return nil, errors.ErrUnauthenticated()
	}
	return user, nil
}

// Logout revokes the session of a refresh token
func (s *OAuthService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.findSession(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return errors.ErrInternal(err)
	}
	return nil
}

// LogoutAll revokes every session of a user
func (s *OAuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return errors.ErrInternal(err)
	}
	s.logger.Info("🔒 All sessions revoked", zap.String("user_id", userID.String()))
	return nil
}

// LogoutEverywhere revokes every session of the refresh token's owner
func (s *OAuthService) LogoutEverywhere(ctx context.Context, refreshToken string) error {
	session, err := s.findSession(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.LogoutAll(ctx, session.UserID)
}

// PurgeExpiredSessions deletes sessions past their expiry
func (s *OAuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("🧹 Expired sessions purged", zap.Int64("count", n))
	}
	return n, nil
}
