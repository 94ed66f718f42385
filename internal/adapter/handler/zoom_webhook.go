package handler

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/adapter/dto/webhook"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/zoom"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-actions/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-actions/pkg/signature"
)

// MeetingIntake records meetings arriving from webhooks
type MeetingIntake interface {
	Intake(ctx context.Context, req meeting.IntakeRequest) (*meeting.IntakeResult, error)
}

// WorkspaceResolver maps an external account to the workspace that connected it
type WorkspaceResolver interface {
	ResolveWorkspace(ctx context.Context, t entities.IntegrationType, teamID string) (uuid.UUID, error)
}

// ZoomWebhook handles Zoom event notifications
type ZoomWebhook struct {
	secret   string
	meetings MeetingIntake
	resolver WorkspaceResolver
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewZoomWebhook creates a Zoom webhook handler. secret is the app's webhook
// secret token. Config requires it in production; when empty, signatures are
// not checked.
func NewZoomWebhook(secret string, meetings MeetingIntake, resolver WorkspaceResolver, m *metrics.Metrics, logger *zap.Logger) *ZoomWebhook {
	return &ZoomWebhook{
		secret:   secret,
		meetings: meetings,
		resolver: resolver,
		metrics:  m,
		logger:   logger,
	}
}

// Status godoc
// @Summary      Zoom webhook health
// @Tags         Webhooks
// @Success      200  {object}  common.SuccessResponse
// @Router       /v1/webhooks/zoom [get]
func (h *ZoomWebhook) Status(c echo.Context) error {
	return HandleSuccess(h.logger, c, map[string]string{"message": "Zoom webhook endpoint"})
}

// Handle godoc
// @Summary      Zoom events
// @Description  Handles endpoint.url_validation, recording.completed and meeting.ended
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        x-zm-signature          header  string  false  "v0=<hex hmac>"
// @Param        x-zm-request-timestamp  header  string  false  "Request timestamp"
// @Success      200  {object}  common.SuccessResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /v1/webhooks/zoom [post]
func (h *ZoomWebhook) Handle(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return h.reject(c, err)
	}

	if h.secret != "" {
		ts := c.Request().Header.Get("x-zm-request-timestamp")
		if !signature.VerifyZoom(h.secret, ts, body, c.Request().Header.Get("x-zm-signature")) {
			return h.reject(c, errors.ErrInvalidSignature("zoom"))
		}
	}

	var ev webhook.ZoomEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return h.reject(c, errors.ErrInvalidPayload())
	}

	switch ev.Event {
	case webhook.ZoomEventURLValidation:
		if ev.Payload.PlainToken == "" {
			return h.reject(c, errors.ErrInvalidArgument("plainToken is required"))
		}
		h.metrics.WebhookReceived("zoom", "validated")
		// Zoom expects the bare object, not the success envelope
		return c.JSON(http.StatusOK, webhook.ZoomURLValidationResponse{
			PlainToken:     ev.Payload.PlainToken,
			EncryptedToken: signature.HMACSHA256(h.secret, []byte(ev.Payload.PlainToken)),
		})
	case webhook.ZoomEventRecordingComplete:
		return h.recordingCompleted(c, ev.Payload)
	case webhook.ZoomEventMeetingEnded:
		h.metrics.WebhookReceived("zoom", "acknowledged")
		return HandleSuccess(h.logger, c, map[string]bool{"received": true})
	default:
		h.metrics.WebhookReceived("zoom", "ignored")
		h.logger.Debug("zoom event ignored", zap.String("event", ev.Event))
		return HandleSuccess(h.logger, c, map[string]bool{"received": true})
	}
}

func (h *ZoomWebhook) recordingCompleted(c echo.Context, payload webhook.ZoomPayload) error {
	rec := payload.Object
	req := meeting.IntakeRequest{
		Source:          entities.MeetingSourceZoom,
		ExternalID:      rec.UUID,
		Title:           rec.Topic,
		HostID:          rec.HostID,
		DurationMinutes: rec.Duration,
	}
	if req.ExternalID == "" && rec.ID != 0 {
		req.ExternalID = strconv.FormatInt(rec.ID, 10)
	}
	if t, err := time.Parse(time.RFC3339, rec.StartTime); err == nil {
		req.StartedAt = &t
	}

	if f, ok := rec.TranscriptFile(); ok {
		req.TranscriptURL = f.DownloadURL
	} else if f, ok := rec.AudioFile(); ok {
		req.AudioURL = f.DownloadURL
	} else {
		return h.reject(c, errors.ErrMissingTranscript())
	}
	for _, u := range []string{req.TranscriptURL, req.AudioURL} {
		if u != "" && !zoom.IsRecordingURL(u) {
			return h.reject(c, errors.ErrInvalidArgument("recording download_url must be on zoom.us"))
		}
	}

	accountID := payload.AccountID
	if accountID == "" {
		accountID = rec.AccountID
	}
	workspaceID, err := h.resolver.ResolveWorkspace(c.Request().Context(), entities.IntegrationZoom, accountID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrIntegrationNotFound) {
			h.metrics.WebhookReceived("zoom", "unmatched")
			h.logger.Warn("⚠️ Zoom recording for an unconnected account",
				zap.String("account_id", accountID),
				zap.String("meeting_uuid", req.ExternalID),
			)
			return HandleSuccess(h.logger, c, map[string]string{"status": "ignored"})
		}
		return h.reject(c, errors.ErrInternal(err))
	}
	req.WorkspaceID = workspaceID

	res, err := h.meetings.Intake(c.Request().Context(), req)
	if err != nil {
		return h.reject(c, err)
	}
	h.metrics.WebhookReceived("zoom", "accepted")
	return HandleSuccess(h.logger, c, res)
}

func (h *ZoomWebhook) reject(c echo.Context, err error) error {
	h.metrics.WebhookReceived("zoom", "rejected")
	return HandleError(h.logger, c, err)
}
