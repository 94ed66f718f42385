package middleware

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/labstack/echo/v4"
)

// MembershipFinder looks up workspace memberships
type MembershipFinder interface {
	FindMember(ctx context.Context, workspaceID, userID uuid.UUID) (*entities.WorkspaceMember, error)
}

// RequireWorkspaceRole only lets members of the :workspace_id workspace through.
// With roles given, the member must hold one of them. Sets "workspace_id" and "member_role".
func RequireWorkspaceRole(members MembershipFinder, roles ...entities.MemberRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			workspaceID, err := uuid.Parse(c.Param("workspace_id"))
			if err != nil {
				return errors.ErrInvalidArgument("workspace ID must be a valid UUID")
			}
			userID, ok := GetUserID(c)
			if !ok {
				return errors.ErrUnauthenticated()
			}

			member, err := members.FindMember(c.Request().Context(), workspaceID, userID)
			if err != nil {
				if stdErrors.Is(err, entities.ErrMemberNotFound) {
					return errors.ErrNotAMember(workspaceID.String())
				}
				return errors.ErrInternal(err)
			}

			if len(roles) > 0 && !hasRole(member.Role, roles) {
				return errors.ErrPermissionDenied("requires role " + joinRoles(roles))
			}

			c.Set(WorkspaceIDKey, workspaceID)
			c.Set(MemberRoleKey, member.Role)
			return next(c)
		}
	}
}

// GetWorkspaceID returns the workspace resolved by RequireWorkspaceRole
func GetWorkspaceID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(WorkspaceIDKey).(uuid.UUID)
	return id, ok
}

// GetMemberRole returns the caller's role in the current workspace
func GetMemberRole(c echo.Context) (entities.MemberRole, bool) {
	role, ok := c.Get(MemberRoleKey).(entities.MemberRole)
	return role, ok
}

func hasRole(role entities.MemberRole, allowed []entities.MemberRole) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func joinRoles(roles []entities.MemberRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += " or "
		}
		s += string(r)
	}
	return s
}
