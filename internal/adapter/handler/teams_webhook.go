package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	stdErrors "errors"
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/adapter/dto/webhook"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-actions/internal/usecase/meeting"
)

const defaultTeamsTitle = "Teams Meeting"

// WorkspaceLookup confirms a workspace exists
type WorkspaceLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*entities.Workspace, error)
}

// GraphResources turns a notification resource path into a Graph URL
type GraphResources interface {
	ResourceURL(resource string) (string, error)
}

// TeamsWebhook handles Microsoft Graph change notifications for meeting transcripts
type TeamsWebhook struct {
	clientState string
	meetings    MeetingIntake
	resolver    WorkspaceResolver
	workspaces  WorkspaceLookup
	graph       GraphResources
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewTeamsWebhook creates a Teams webhook handler. clientState is the secret
// set on Graph subscriptions; notifications carrying anything else are
// skipped. Config requires it in production; empty disables the check.
func NewTeamsWebhook(
	clientState string,
	meetings MeetingIntake,
	resolver WorkspaceResolver,
	workspaces WorkspaceLookup,
	graph GraphResources,
	m *metrics.Metrics,
	logger *zap.Logger,
) *TeamsWebhook {
	return &TeamsWebhook{
		clientState: clientState,
		meetings:    meetings,
		resolver:    resolver,
		workspaces:  workspaces,
		graph:       graph,
		metrics:     m,
		logger:      logger,
	}
}

// Validate godoc
// @Summary      Teams subscription validation
// @Tags         Webhooks
// @Produce      plain
// @Param        validationToken  query  string  false  "Graph validation token"
// @Success      200  {string}  string
// @Router       /v1/webhooks/teams [get]
func (h *TeamsWebhook) Validate(c echo.Context) error {
	if token := c.QueryParam("validationToken"); token != "" {
		return c.String(http.StatusOK, token)
	}
	return HandleSuccess(h.logger, c, map[string]string{"message": "Teams webhook endpoint"})
}

// Handle godoc
// @Summary      Teams transcript notifications
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        body  body  webhook.TeamsNotificationBatch  true  "Notifications"
// @Success      202  {object}  webhook.TeamsResult
// @Failure      400  {object}  common.ErrorResponse
// @Router       /v1/webhooks/teams [post]
func (h *TeamsWebhook) Handle(c echo.Context) error {
	// Graph also validates new subscriptions with a POST
	if token := c.QueryParam("validationToken"); token != "" {
		return c.String(http.StatusOK, token)
	}

	body, err := readBody(c)
	if err != nil {
		h.metrics.WebhookReceived("teams", "rejected")
		return HandleError(h.logger, c, err)
	}
	var batch webhook.TeamsNotificationBatch
	if err := json.Unmarshal(body, &batch); err != nil || batch.Value == nil {
		h.metrics.WebhookReceived("teams", "rejected")
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid webhook payload"))
	}

	var result webhook.TeamsResult
	for _, n := range batch.Value {
		if h.handleNotification(c.Request().Context(), n) {
			result.Accepted++
			h.metrics.WebhookReceived("teams", "accepted")
		} else {
			result.Skipped++
			h.metrics.WebhookReceived("teams", "skipped")
		}
	}
	return HandleStatus(h.logger, c, http.StatusAccepted, result)
}

func (h *TeamsWebhook) handleNotification(ctx context.Context, n webhook.TeamsNotification) bool {
	log := h.logger.With(
		zap.String("subscription_id", n.SubscriptionID),
		zap.String("resource_id", n.ResourceData.ID),
	)
	if h.clientState != "" && subtle.ConstantTimeCompare([]byte(n.ClientState), []byte(h.clientState)) != 1 {
		log.Warn("⚠️ Teams notification with a wrong client state")
		return false
	}
	if n.ChangeType != "created" {
		return false
	}

	req := meeting.IntakeRequest{
		Source:        entities.MeetingSourceTeams,
		ExternalID:    n.ResourceData.ID,
		Title:         teamsTitle(n.ResourceData),
		RawTranscript: n.ResourceData.Content,
		StartedAt:     n.ResourceData.CreatedDateTime,
	}
	if org := n.ResourceData.MeetingOrganizer; org != nil {
		req.HostID = org.ID
	}
	if start, end := n.ResourceData.CreatedDateTime, n.ResourceData.EndDateTime; start != nil && end != nil && end.After(*start) {
		req.DurationMinutes = int(math.Round(end.Sub(*start).Minutes()))
	}
	if strings.TrimSpace(req.RawTranscript) == "" {
		if h.graph == nil || !strings.Contains(n.Resource, "/transcripts/") {
			log.Debug("teams notification without transcript")
			return false
		}
		resourceURL, err := h.graph.ResourceURL(strings.TrimSuffix(n.Resource, "/"))
		if err != nil {
			log.Warn("⚠️ Teams notification with a foreign resource", zap.String("resource", n.Resource))
			return false
		}
		req.TranscriptURL = resourceURL + "/content?$format=text/vtt"
	}

	workspaceID, ok := h.resolveWorkspace(ctx, n)
	if !ok {
		log.Warn("⚠️ Teams notification for an unknown workspace")
		return false
	}
	req.WorkspaceID = workspaceID

	if _, err := h.meetings.Intake(ctx, req); err != nil {
		log.Error("❌ Failed to record teams meeting", zap.Error(err))
		return false
	}
	return true
}

// resolveWorkspace matches the organizer against connected Teams accounts.
// Without a client state secret (local development) the client state may
// also name the workspace directly.
func (h *TeamsWebhook) resolveWorkspace(ctx context.Context, n webhook.TeamsNotification) (uuid.UUID, bool) {
	if h.clientState == "" && h.workspaces != nil {
		if id, err := uuid.Parse(n.ClientState); err == nil {
			if _, err := h.workspaces.Get(ctx, id); err == nil {
				return id, true
			}
		}
	}

	org := n.ResourceData.MeetingOrganizer
	if org == nil || org.ID == "" {
		return uuid.Nil, false
	}
	id, err := h.resolver.ResolveWorkspace(ctx, entities.IntegrationTeams, org.ID)
	if err != nil {
		if !stdErrors.Is(err, entities.ErrIntegrationNotFound) {
			h.logger.Error("❌ Failed to resolve teams organizer", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

func teamsTitle(d webhook.TeamsResourceData) string {
	if s := strings.TrimSpace(d.Subject); s != "" {
		return s
	}
	if d.MeetingOrganizer != nil && strings.TrimSpace(d.MeetingOrganizer.DisplayName) != "" {
		return d.MeetingOrganizer.DisplayName
	}
	return defaultTeamsTitle
}
