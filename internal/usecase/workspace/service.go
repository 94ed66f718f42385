package workspace

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/domain/repositories"
)

// Service manages workspaces and reports their plan usage
type Service struct {
	workspaces   repositories.WorkspaceRepository
	meetings     repositories.MeetingRepository
	usage        repositories.UsageRepository
	integrations repositories.IntegrationRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewService creates a workspace service
func NewService(
	workspaces repositories.WorkspaceRepository,
	meetings repositories.MeetingRepository,
	usage repositories.UsageRepository,
	integrations repositories.IntegrationRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		workspaces:   workspaces,
		meetings:     meetings,
		usage:        usage,
		integrations: integrations,
		logger:       logger,
		now:          time.Now,
	}
}

// Membership is a workspace together with the caller's role in it
type Membership struct {
	Workspace *entities.Workspace `json:"workspace"`
	Role      entities.MemberRole `json:"role"`
}

// ListForUser lists every workspace the user belongs to
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	members, err := s.workspaces.ListMembershipsForUser(ctx, userID)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	if len(members) == 0 {
		return []Membership{}, nil
	}

	roles := make(map[uuid.UUID]entities.MemberRole, len(members))
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		roles[m.WorkspaceID] = m.Role
		ids = append(ids, m.WorkspaceID)
	}

	workspaces, err := s.workspaces.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}

	out := make([]Membership, 0, len(workspaces))
	for _, ws := range workspaces {
		out = append(out, Membership{Workspace: ws, Role: roles[ws.ID]})
	}
	return out, nil
}

// Create creates a workspace owned by the caller
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*entities.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.ErrInvalidArgument("workspace name is required")
	}

	ws := entities.NewWorkspace(name, userID)
	owner := entities.NewWorkspaceMember(ws.ID, userID, entities.RoleOwner)
	if err := s.workspaces.CreateWithOwner(ctx, ws, owner); err != nil {
		return nil, errors.ErrInternal(err)
	}

	s.logger.Info("🏢 Workspace created",
		zap.String("workspace_id", ws.ID.String()),
		zap.String("owner_id", userID.String()),
	)
	return ws, nil
}

// Get returns a workspace. Membership is checked by the route middleware.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entities.Workspace, error) {
	ws, err := s.workspaces.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrWorkspaceNotFound) {
			return nil, errors.ErrWorkspaceNotFound(id.String())
		}
		return nil, errors.ErrInternal(err)
	}
	return ws, nil
}

// Usage reports month-to-date consumption against the workspace's plan
func (s *Service) Usage(ctx context.Context, id uuid.UUID) (*entities.Usage, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	since := entities.StartOfMonth(s.now())

	meetings, err := s.meetings.CountSince(ctx, id, since)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	actions, err := s.usage.SumSince(ctx, id, entities.UsageAction, since)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	integrations, err := s.integrations.CountByWorkspace(ctx, id)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}

	return &entities.Usage{
		Plan:         ws.Plan,
		Limits:       entities.LimitsFor(ws.Plan),
		Meetings:     int(meetings),
		Actions:      int(actions),
		Integrations: int(integrations),
		PeriodStart:  since,
	}, nil
}
