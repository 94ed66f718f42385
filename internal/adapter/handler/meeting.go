package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/internal/adapter/dto/common"
	dto "github.com/johnquangdev/meeting-actions/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-actions/internal/usecase/meeting"
)

// MeetingService is the meeting and action surface the handlers use
type MeetingService interface {
	Intake(ctx context.Context, req meeting.IntakeRequest) (*meeting.IntakeResult, error)
	List(ctx context.Context, q meeting.ListQuery) (*meeting.Page[*entities.Meeting], error)
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*entities.Meeting, error)
	Reprocess(ctx context.Context, workspaceID, id uuid.UUID) (*entities.Meeting, error)
	Transcript(ctx context.Context, workspaceID, id uuid.UUID) (*meeting.Transcript, error)
	ListActions(ctx context.Context, q meeting.ActionQuery) (*meeting.Page[*entities.Action], error)
	UpdateAction(ctx context.Context, workspaceID, id uuid.UUID, upd meeting.ActionUpdate) (*entities.Action, error)
	ExportActionToLinear(ctx context.Context, workspaceID, id uuid.UUID, teamID, assigneeID string) (*entities.Action, error)
	Analytics(ctx context.Context, workspaceID uuid.UUID) (*meeting.Analytics, error)
}

// Meeting handles meeting and action HTTP requests
type Meeting struct {
	service MeetingService
	logger  *zap.Logger
	now     func() time.Time
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(service MeetingService, logger *zap.Logger) *Meeting {
	return &Meeting{service: service, logger: logger, now: time.Now}
}

// CreateMeeting godoc
// @Summary      Upload a meeting transcript
// @Description  Records a manual meeting and queues it for action extraction
// @Tags         Meetings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        workspace_id  path  string                        true  "Workspace ID"
// @Param        body          body  meeting.CreateMeetingRequest  true  "Meeting"
// @Success      202  {object}  meeting.IntakeResult
// @Failure      400  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/meetings [post]
func (h *Meeting) CreateMeeting(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	var req dto.CreateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	started := h.now().UTC()
	intake := meeting.IntakeRequest{
		WorkspaceID:     workspaceID,
		Source:          entities.MeetingSourceManual,
		Title:           req.Title,
		StartedAt:       &started,
		DurationMinutes: req.DurationMinutes,
		RawTranscript:   req.Transcript,
		TranscriptURL:   req.TranscriptURL,
		AudioURL:        req.AudioURL,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		intake.HostID = userID.String()
	}

	res, err := h.service.Intake(c.Request().Context(), intake)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleStatus(h.logger, c, http.StatusAccepted, res)
}

// ListMeetings godoc
// @Summary      List meetings
// @Tags         Meetings
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path   string  true   "Workspace ID"
// @Param        status        query  string  false  "processing, completed or failed"
// @Param        page          query  int     false  "Page"
// @Param        page_size     query  int     false  "Page size"
// @Success      200  {object}  common.ListResponse
// @Router       /v1/workspaces/{workspace_id}/meetings [get]
func (h *Meeting) ListMeetings(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	var req dto.ListMeetingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	page, err := h.service.List(c.Request().Context(), meeting.ListQuery{
		WorkspaceID: workspaceID,
		Status:      req.Status,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, common.NewListResponse(page.Items, page.Total, page.Page, page.PageSize))
}

// GetMeeting godoc
// @Summary      Get a meeting with its actions
// @Tags         Meetings
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Param        meeting_id    path  string  true  "Meeting ID"
// @Success      200  {object}  entities.Meeting
// @Failure      404  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/meetings/{meeting_id} [get]
func (h *Meeting) GetMeeting(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, err := pathUUID(c, "meeting_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.service.Get(c.Request().Context(), workspaceID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, m)
}

// GetTranscript godoc
// @Summary      Download a meeting transcript
// @Description  Redirects to a short-lived archive link when the transcript is archived, otherwise returns it as text
// @Tags         Meetings
// @Security     BearerAuth
// @Produce      plain
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Param        meeting_id    path  string  true  "Meeting ID"
// @Success      200  {string}  string
// @Success      307  {string}  string  "Archive link"
// @Failure      404  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/meetings/{meeting_id}/transcript [get]
func (h *Meeting) GetTranscript(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, err := pathUUID(c, "meeting_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	t, err := h.service.Transcript(c.Request().Context(), workspaceID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if t.URL != "" {
		return c.Redirect(http.StatusTemporaryRedirect, t.URL)
	}
	return c.String(http.StatusOK, t.Text)
}

// ReprocessMeeting godoc
// @Summary      Queue a failed meeting again
// @Tags         Meetings
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Param        meeting_id    path  string  true  "Meeting ID"
// @Success      202  {object}  entities.Meeting
// @Failure      409  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/meetings/{meeting_id}/reprocess [post]
func (h *Meeting) ReprocessMeeting(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, err := pathUUID(c, "meeting_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.service.Reprocess(c.Request().Context(), workspaceID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleStatus(h.logger, c, http.StatusAccepted, m)
}

// ListActions godoc
// @Summary      List actions
// @Tags         Actions
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path   string  true   "Workspace ID"
// @Param        meeting_id    query  string  false  "Meeting ID"
// @Param        status        query  string  false  "Status"
// @Param        type          query  string  false  "Type"
// @Param        priority      query  string  false  "Priority"
// @Param        page          query  int     false  "Page"
// @Param        page_size     query  int     false  "Page size"
// @Success      200  {object}  common.ListResponse
// @Router       /v1/workspaces/{workspace_id}/actions [get]
func (h *Meeting) ListActions(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	var req dto.ListActionsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	page, err := h.service.ListActions(c.Request().Context(), meeting.ActionQuery{
		WorkspaceID: workspaceID,
		MeetingID:   req.MeetingID,
		Status:      req.Status,
		Type:        req.Type,
		Priority:    req.Priority,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, common.NewListResponse(page.Items, page.Total, page.Page, page.PageSize))
}

// UpdateAction godoc
// @Summary      Edit an action
// @Tags         Actions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        workspace_id  path  string                       true  "Workspace ID"
// @Param        action_id     path  string                       true  "Action ID"
// @Param        body          body  meeting.UpdateActionRequest  true  "Changes"
// @Success      200  {object}  entities.Action
// @Failure      404  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/actions/{action_id} [patch]
func (h *Meeting) UpdateAction(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, err := pathUUID(c, "action_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req dto.UpdateActionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	action, err := h.service.UpdateAction(c.Request().Context(), workspaceID, id, meeting.ActionUpdate{
		Status:    req.Status,
		OwnerName: req.OwnerName,
		DueDate:   req.DueDate,
		Priority:  req.Priority,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, action)
}

// ExportAction godoc
// @Summary      Create a Linear issue from an action
// @Tags         Actions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        workspace_id  path  string                       true   "Workspace ID"
// @Param        action_id     path  string                       true   "Action ID"
// @Param        body          body  meeting.ExportActionRequest  false  "Team and assignee"
// @Success      201  {object}  entities.Action
// @Failure      409  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/actions/{action_id}/linear [post]
func (h *Meeting) ExportAction(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, err := pathUUID(c, "action_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req dto.ExportActionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	action, err := h.service.ExportActionToLinear(c.Request().Context(), workspaceID, id, req.TeamID, req.AssigneeID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleStatus(h.logger, c, http.StatusCreated, action)
}

// GetAnalytics godoc
// @Summary      Meeting and action totals
// @Tags         Meetings
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Success      200  {object}  meeting.Analytics
// @Router       /v1/workspaces/{workspace_id}/analytics [get]
func (h *Meeting) GetAnalytics(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	out, err := h.service.Analytics(c.Request().Context(), workspaceID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, out)
}
