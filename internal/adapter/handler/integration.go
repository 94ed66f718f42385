package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/johnquangdev/meeting-actions/internal/adapter/dto/integration"
	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/linear"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/slack"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-actions/internal/usecase/integration"
)

// IntegrationService is the integration surface the handler uses
type IntegrationService interface {
	ConnectURL(ctx context.Context, workspaceID, userID uuid.UUID, t entities.IntegrationType) (string, error)
	HandleCallback(ctx context.Context, t entities.IntegrationType, params integration.CallbackParams) string
	List(ctx context.Context, workspaceID uuid.UUID) ([]*entities.Integration, error)
	Disconnect(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) error
	UpdateSettings(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType, in integration.Settings) (*entities.Integration, error)
	ListSlackChannels(ctx context.Context, workspaceID uuid.UUID) ([]slack.Channel, error)
	ListLinearTeams(ctx context.Context, workspaceID uuid.UUID) ([]linear.Team, error)
}

// Integration handles integration HTTP requests
type Integration struct {
	service IntegrationService
	logger  *zap.Logger
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(service IntegrationService, logger *zap.Logger) *Integration {
	return &Integration{service: service, logger: logger}
}

func integrationType(c echo.Context) (entities.IntegrationType, error) {
	t := entities.IntegrationType(c.Param("type"))
	if !t.IsValid() {
		return "", errors.ErrIntegrationUnsupported(c.Param("type"))
	}
	return t, nil
}

// Connect godoc
// @Summary      Start connecting an integration
// @Description  Redirects to the provider. With format=json the authorize URL is returned instead.
// @Tags         Integrations
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path   string  true   "Workspace ID"
// @Param        type          path   string  true   "zoom, slack, linear or teams"
// @Param        format        query  string  false  "json"
// @Success      307
// @Success      200  {object}  integration.ConnectResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      402  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/integrations/{type}/connect [get]
func (h *Integration) Connect(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	t, err := integrationType(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	url, err := h.service.ConnectURL(c.Request().Context(), workspaceID, userID, t)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if c.QueryParam("format") == "json" {
		return HandleSuccess(h.logger, c, dto.ConnectResponse{URL: url})
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}

// Callback godoc
// @Summary      OAuth redirect target of an integration provider
// @Description  Always redirects to the dashboard with ?success=<type> or ?error=<reason>
// @Tags         Integrations
// @Param        type   path   string  true   "zoom, slack, linear or teams"
// @Param        code   query  string  false  "Authorization code"
// @Param        state  query  string  false  "OAuth state"
// @Param        error  query  string  false  "Provider error"
// @Success      302
// @Router       /v1/integrations/{type}/callback [get]
func (h *Integration) Callback(c echo.Context) error {
	t := entities.IntegrationType(c.Param("type"))
	target := h.service.HandleCallback(c.Request().Context(), t, integration.CallbackParams{
		Code:  c.QueryParam("code"),
		State: c.QueryParam("state"),
		Error: c.QueryParam("error"),
	})
	return c.Redirect(http.StatusFound, target)
}

// ListIntegrations godoc
// @Summary      List connected integrations
// @Tags         Integrations
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Success      200  {array}  entities.Integration
// @Router       /v1/workspaces/{workspace_id}/integrations [get]
func (h *Integration) ListIntegrations(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	out, err := h.service.List(c.Request().Context(), workspaceID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, out)
}

// Disconnect godoc
// @Summary      Disconnect an integration
// @Tags         Integrations
// @Security     BearerAuth
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Param        type          path  string  true  "zoom, slack, linear or teams"
// @Success      204
// @Failure      404  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/integrations/{type} [delete]
func (h *Integration) Disconnect(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	t, err := integrationType(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.service.Disconnect(c.Request().Context(), workspaceID, t); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateSettings godoc
// @Summary      Change integration settings
// @Description  Slack takes channel_id. Linear takes team_id and auto_create.
// @Tags         Integrations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        workspace_id  path  string                             true  "Workspace ID"
// @Param        type          path  string                             true  "slack or linear"
// @Param        body          body  integration.UpdateSettingsRequest  true  "Settings"
// @Success      200  {object}  entities.Integration
// @Router       /v1/workspaces/{workspace_id}/integrations/{type}/settings [patch]
func (h *Integration) UpdateSettings(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	t, err := integrationType(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req dto.UpdateSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	integ, err := h.service.UpdateSettings(c.Request().Context(), workspaceID, t, integration.Settings{
		ChannelID:  req.ChannelID,
		TeamID:     req.TeamID,
		AutoCreate: req.AutoCreate,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, integ)
}

// ListSlackChannels godoc
// @Summary      Slack channels the bot can post to
// @Tags         Integrations
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Success      200  {array}  slack.Channel
// @Router       /v1/workspaces/{workspace_id}/integrations/slack/channels [get]
func (h *Integration) ListSlackChannels(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	out, err := h.service.ListSlackChannels(c.Request().Context(), workspaceID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, out)
}

// ListLinearTeams godoc
// @Summary      Linear teams issues can be filed to
// @Tags         Integrations
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Success      200  {array}  linear.Team
// @Router       /v1/workspaces/{workspace_id}/integrations/linear/teams [get]
func (h *Integration) ListLinearTeams(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	out, err := h.service.ListLinearTeams(c.Request().Context(), workspaceID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, out)
}
