package middleware

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/labstack/echo/v4"
)

// Echo context keys set by the middlewares in this package
const (
	UserKey        = "user"
	UserIDKey      = "user_id"
	WorkspaceIDKey = "workspace_id"
	MemberRoleKey  = "member_role"
)

// SessionValidator resolves an access token to its user
type SessionValidator interface {
	ValidateSession(ctx context.Context, accessToken string) (*entities.User, error)
}

// EchoAuth requires an access token, from the Authorization header or the
// access_token cookie. The resolved user and its id are stored under UserKey
// and UserIDKey.
func EchoAuth(sessions SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := accessToken(c)
			if !ok {
				return errors.ErrUnauthenticated()
			}

			user, err := sessions.ValidateSession(c.Request().Context(), token)
			if err != nil {
				if appErr := (errors.AppError{}); stdErrors.As(err, &appErr) {
					return appErr
				}
				return errors.ErrInvalidToken()
			}

			c.Set(UserKey, user)
			c.Set(UserIDKey, user.ID)
			return next(c)
		}
	}
}

// GetUser returns the authenticated user
func GetUser(c echo.Context) (*entities.User, bool) {
	user, ok := c.Get(UserKey).(*entities.User)
	return user, ok
}

// GetUserID returns the authenticated user's ID
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(UserIDKey).(uuid.UUID)
	return id, ok
}

func accessToken(c echo.Context) (string, bool) {
	scheme, token, found := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
	if found && strings.EqualFold(scheme, "bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token, true
		}
	}
	if cookie, err := c.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}
