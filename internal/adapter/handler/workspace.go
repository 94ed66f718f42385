package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/johnquangdev/meeting-actions/internal/adapter/dto/workspace"
	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-actions/internal/usecase/workspace"
)

// WorkspaceService is the workspace surface the handler uses
type WorkspaceService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]workspace.Membership, error)
	Create(ctx context.Context, userID uuid.UUID, name string) (*entities.Workspace, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Workspace, error)
	Usage(ctx context.Context, id uuid.UUID) (*entities.Usage, error)
}

// Workspace handles workspace HTTP requests
type Workspace struct {
	service WorkspaceService
	logger  *zap.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(service WorkspaceService, logger *zap.Logger) *Workspace {
	return &Workspace{service: service, logger: logger}
}

// ListWorkspaces godoc
// @Summary      List my workspaces
// @Tags         Workspaces
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   workspace.Membership
// @Router       /v1/workspaces [get]
func (h *Workspace) ListWorkspaces(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	out, err := h.service.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, out)
}

// CreateWorkspace godoc
// @Summary      Create a workspace
// @Description  The caller becomes its owner
// @Tags         Workspaces
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  workspace.CreateWorkspaceRequest  true  "Workspace"
// @Success      201  {object}  entities.Workspace
// @Failure      400  {object}  common.ErrorResponse
// @Router       /v1/workspaces [post]
func (h *Workspace) CreateWorkspace(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	var req dto.CreateWorkspaceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ws, err := h.service.Create(c.Request().Context(), userID, req.Name)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleStatus(h.logger, c, http.StatusCreated, ws)
}

// GetWorkspace godoc
// @Summary      Get a workspace
// @Tags         Workspaces
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Success      200  {object}  workspace.Membership
// @Failure      403  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id} [get]
func (h *Workspace) GetWorkspace(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	role, _ := middleware.GetMemberRole(c)

	ws, err := h.service.Get(c.Request().Context(), workspaceID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, workspace.Membership{Workspace: ws, Role: role})
}

// GetUsage godoc
// @Summary      Month-to-date usage against the plan limits
// @Tags         Workspaces
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Success      200  {object}  entities.Usage
// @Router       /v1/workspaces/{workspace_id}/usage [get]
func (h *Workspace) GetUsage(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	usage, err := h.service.Usage(c.Request().Context(), workspaceID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, usage)
}
