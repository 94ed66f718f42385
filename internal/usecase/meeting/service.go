package meeting

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
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/linear"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	topOwnersLimit  = 5

	transcriptLinkTTL = 15 * time.Minute
)

// Enqueuer hands a meeting to the processing pipeline
type Enqueuer interface {
	Enqueue(meetingID uuid.UUID) error
}

// IssueCreator creates Linear issues with a workspace's Linear connection
type IssueCreator interface {
	CreateLinearIssue(ctx context.Context, workspaceID uuid.UUID, in linear.IssueInput) (*linear.Issue, error)
}

// TranscriptLinker signs download links for archived transcripts
type TranscriptLinker interface {
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Service handles meeting intake and the meeting/action read and edit paths
type Service struct {
	workspaces repositories.WorkspaceRepository
	meetings   repositories.MeetingRepository
	actions    repositories.ActionRepository
	queue      Enqueuer
	issues     IssueCreator
	links      TranscriptLinker
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a meeting service
func NewService(
	workspaces repositories.WorkspaceRepository,
	meetings repositories.MeetingRepository,
	actions repositories.ActionRepository,
	queue Enqueuer,
	issues IssueCreator,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		workspaces: workspaces,
		meetings:   meetings,
		actions:    actions,
		queue:      queue,
		issues:     issues,
		logger:     logger,
		now:        time.Now,
	}
}

// WithTranscriptLinks lets Transcript hand out archive links
func (s *Service) WithTranscriptLinks(l TranscriptLinker) *Service {
	s.links = l
	return s
}

// IntakeRequest describes a meeting arriving from a webhook or an upload
type IntakeRequest struct {
	WorkspaceID     uuid.UUID
	Source          entities.MeetingSource
	ExternalID      string
	Title           string
	HostID          string
	StartedAt       *time.Time
	DurationMinutes int
	RawTranscript   string
	TranscriptURL   string
	AudioURL        string
}

// IntakeResult is the stored meeting. Duplicate is set when the meeting was
// already known and nothing was queued.
type IntakeResult struct {
	Meeting   *entities.Meeting `json:"meeting"`
	Duplicate bool              `json:"duplicate"`
}

// Intake records a meeting and queues it for processing. A workspace over its
// monthly meeting quota still gets the meeting recorded, already failed.
func (s *Service) Intake(ctx context.Context, req IntakeRequest) (*IntakeResult, error) {
	m := entities.NewMeeting(req.WorkspaceID, req.Source, strings.TrimSpace(req.ExternalID), req.Title)
	if req.HostID != "" {
		m.HostID = &req.HostID
	}
	m.StartedAt = req.StartedAt
	m.DurationMinutes = req.DurationMinutes
	m.RawTranscript = optional(req.RawTranscript)
	m.TranscriptURL = optional(req.TranscriptURL)
	m.AudioURL = optional(req.AudioURL)

	if !m.HasTranscriptSource() {
		return nil, errors.ErrMissingTranscript()
	}

	ws, err := s.workspaces.FindByID(ctx, req.WorkspaceID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrWorkspaceNotFound) {
			return nil, errors.ErrWorkspaceNotFound(req.WorkspaceID.String())
		}
		return nil, errors.ErrInternal(err)
	}

	if req.ExternalID != "" {
		existing, err := s.meetings.FindByExternalID(ctx, ws.ID, m.Source, m.ExternalID)
		if err == nil {
			return &IntakeResult{Meeting: existing, Duplicate: true}, nil
		}
		if !stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return nil, errors.ErrInternal(err)
		}
	}

	limit := entities.LimitsFor(ws.Plan).MeetingsPerMonth
	used, err := s.meetings.CountSince(ctx, ws.ID, entities.StartOfMonth(s.now()))
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	overLimit := !entities.WithinLimit(limit, int(used))
	if overLimit {
		m.MarkFailed(entities.FailureReasonPlanLimit)
	}

	if err := s.meetings.Create(ctx, m); err != nil {
		if stdErrors.Is(err, entities.ErrMeetingExists) {
			existing, findErr := s.meetings.FindByExternalID(ctx, ws.ID, m.Source, m.ExternalID)
			if findErr != nil {
				return nil, errors.ErrInternal(findErr)
			}
			return &IntakeResult{Meeting: existing, Duplicate: true}, nil
		}
		return nil, errors.ErrInternal(err)
	}

	if overLimit {
		s.logger.Warn("🚫 Meeting over plan limit",
			zap.String("meeting_id", m.ID.String()),
			zap.String("workspace_id", ws.ID.String()),
			zap.String("plan", string(ws.Plan)),
			zap.Int("limit", limit),
		)
		return &IntakeResult{Meeting: m}, nil
	}

	s.enqueue(m.ID)

	s.logger.Info("📥 Meeting received",
		zap.String("meeting_id", m.ID.String()),
		zap.String("workspace_id", ws.ID.String()),
		zap.String("source", string(m.Source)),
	)
	return &IntakeResult{Meeting: m}, nil
}

// enqueue never fails the caller. A meeting that misses the queue stays
// processing and is picked up by the pipeline sweeper.
func (s *Service) enqueue(id uuid.UUID) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(id); err != nil {
		s.logger.Warn("⚠️ Meeting not queued, leaving it for the sweeper",
			zap.String("meeting_id", id.String()),
			zap.Error(err),
		)
	}
}

// ListQuery pages through a workspace's meetings
type ListQuery struct {
	WorkspaceID uuid.UUID
	Status      string
	Page        int
	PageSize    int
}

// Page is one page of a listing
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// List returns meetings newest first
func (s *Service) List(ctx context.Context, q ListQuery) (*Page[*entities.Meeting], error) {
	page, size := pageBounds(q.Page, q.PageSize)
	filter := repositories.MeetingFilter{
		WorkspaceID: q.WorkspaceID,
		Limit:       size,
		Offset:      (page - 1) * size,
	}
	if q.Status != "" {
		status := entities.MeetingStatus(q.Status)
		if !status.IsValid() {
			return nil, errors.ErrInvalidArgument("status must be processing, completed or failed")
		}
		filter.Status = &status
	}

	meetings, total, err := s.meetings.List(ctx, filter)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	if meetings == nil {
		meetings = []*entities.Meeting{}
	}
	return &Page[*entities.Meeting]{Items: meetings, Total: total, Page: page, PageSize: size}, nil
}

// Get returns a meeting with its actions
func (s *Service) Get(ctx context.Context, workspaceID, id uuid.UUID) (*entities.Meeting, error) {
	m, err := s.meetings.FindInWorkspace(ctx, workspaceID, id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return nil, errors.ErrMeetingNotFound(id.String())
		}
		return nil, errors.ErrInternal(err)
	}
	return m, nil
}

// Reprocess clears a failed meeting's results and queues it again
func (s *Service) Reprocess(ctx context.Context, workspaceID, id uuid.UUID) (*entities.Meeting, error) {
	m, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if m.Status != entities.MeetingStatusFailed {
		return nil, errors.ErrMeetingInvalidState(id.String(), string(m.Status), string(entities.MeetingStatusFailed))
	}
	if !m.HasTranscriptSource() {
		return nil, errors.ErrMissingTranscript()
	}
	if m.FailureReason != nil && *m.FailureReason == entities.FailureReasonPlanLimit {
		if err := s.checkRoomFor(ctx, m); err != nil {
			return nil, err
		}
	}

	if err := s.meetings.ResetForReprocess(ctx, id); err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotClaimable) {
			return nil, errors.ErrMeetingInvalidState(id.String(), "changed", string(entities.MeetingStatusFailed))
		}
		return nil, errors.ErrInternal(err)
	}
	s.enqueue(id)

	s.logger.Info("🔁 Meeting requeued", zap.String("meeting_id", id.String()))
	return s.Get(ctx, workspaceID, id)
}

// checkRoomFor lets a meeting turned away by the plan limit back in only when
// the current month has room for it. Meetings from earlier months stay out
// unless the plan is unlimited.
func (s *Service) checkRoomFor(ctx context.Context, m *entities.Meeting) error {
	ws, err := s.workspaces.FindByID(ctx, m.WorkspaceID)
	if err != nil {
		return errors.ErrInternal(err)
	}
	limit := entities.LimitsFor(ws.Plan).MeetingsPerMonth
	if limit == entities.Unlimited {
		return nil
	}
	monthStart := entities.StartOfMonth(s.now())
	used, err := s.meetings.CountSince(ctx, ws.ID, monthStart)
	if err != nil {
		return errors.ErrInternal(err)
	}
	if m.CreatedAt.Before(monthStart) || !entities.WithinLimit(limit, int(used)) {
		return errors.ErrPlanLimitExceeded("meetings", limit)
	}
	return nil
}

// Transcript is either a signed archive link or the stored text
type Transcript struct {
	URL  string
	Text string
}

// Transcript locates a meeting's transcript. Archived transcripts come back as
// a short-lived link; otherwise the stored text is returned.
func (s *Service) Transcript(ctx context.Context, workspaceID, id uuid.UUID) (*Transcript, error) {
	m, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if s.links != nil && m.TranscriptObject != nil && *m.TranscriptObject != "" {
		url, err := s.links.PresignedURL(ctx, *m.TranscriptObject, transcriptLinkTTL)
		if err == nil {
			return &Transcript{URL: url}, nil
		}
		s.logger.Warn("⚠️ Transcript link failed, serving stored text",
			zap.String("meeting_id", id.String()), zap.Error(err))
	}
	if m.RawTranscript == nil || strings.TrimSpace(*m.RawTranscript) == "" {
		return nil, errors.ErrNotFound("transcript")
	}
	return &Transcript{Text: *m.RawTranscript}, nil
}

// ActionQuery filters a workspace's actions
type ActionQuery struct {
	WorkspaceID uuid.UUID
	MeetingID   string
	Status      string
	Type        string
	Priority    string
	Page        int
	PageSize    int
}

// ListActions returns actions newest first
func (s *Service) ListActions(ctx context.Context, q ActionQuery) (*Page[*entities.Action], error) {
	page, size := pageBounds(q.Page, q.PageSize)
	filter := repositories.ActionFilter{
		WorkspaceID: q.WorkspaceID,
		Limit:       size,
		Offset:      (page - 1) * size,
	}

	if q.MeetingID != "" {
		id, err := uuid.Parse(q.MeetingID)
		if err != nil {
			return nil, errors.ErrInvalidArgument("meeting_id must be a UUID")
		}
		filter.MeetingID = &id
	}
	if q.Status != "" {
		status := entities.ActionStatus(q.Status)
		if !status.IsValid() {
			return nil, errors.ErrInvalidArgument("unknown action status")
		}
		filter.Status = &status
	}
	if q.Type != "" {
		t := entities.ActionType(q.Type)
		if entities.ParseActionType(q.Type) != t {
			return nil, errors.ErrInvalidArgument("unknown action type")
		}
		filter.Type = &t
	}
	if q.Priority != "" {
		p := entities.ActionPriority(q.Priority)
		if !p.IsValid() {
			return nil, errors.ErrInvalidArgument("unknown priority")
		}
		filter.Priority = &p
	}

	actions, total, err := s.actions.List(ctx, filter)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	if actions == nil {
		actions = []*entities.Action{}
	}
	return &Page[*entities.Action]{Items: actions, Total: total, Page: page, PageSize: size}, nil
}

// ActionUpdate holds the editable fields of an action. Nil fields are kept;
// an empty OwnerName or DueDate clears the value.
type ActionUpdate struct {
	Status    *string
	OwnerName *string
	DueDate   *string
	Priority  *string
}

// UpdateAction edits an action
func (s *Service) UpdateAction(ctx context.Context, workspaceID, id uuid.UUID, upd ActionUpdate) (*entities.Action, error) {
	action, err := s.findAction(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil {
		if err := action.SetStatus(entities.ActionStatus(*upd.Status)); err != nil {
			return nil, errors.ErrInvalidArgument("unknown action status")
		}
	}
	if upd.Priority != nil {
		p := entities.ActionPriority(*upd.Priority)
		if !p.IsValid() {
			return nil, errors.ErrInvalidArgument("unknown priority")
		}
		action.Priority = p
	}
	if upd.OwnerName != nil {
		action.OwnerName = optional(*upd.OwnerName)
	}
	if upd.DueDate != nil {
		if strings.TrimSpace(*upd.DueDate) == "" {
			action.DueDate = nil
		} else {
			due, err := time.Parse(entities.DueDateLayout, *upd.DueDate)
			if err != nil {
				return nil, errors.ErrInvalidArgument("due_date must be YYYY-MM-DD")
			}
			action.DueDate = &due
		}
	}
	action.UpdatedAt = s.now()

	if err := s.actions.Update(ctx, action); err != nil {
		return nil, errors.ErrInternal(err)
	}
	return action, nil
}

func (s *Service) findAction(ctx context.Context, workspaceID, id uuid.UUID) (*entities.Action, error) {
	action, err := s.actions.FindInWorkspace(ctx, workspaceID, id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrActionNotFound) {
			return nil, errors.ErrActionNotFound(id.String())
		}
		return nil, errors.ErrInternal(err)
	}
	return action, nil
}

// ExportActionToLinear creates a Linear issue from a stored action. teamID
// falls back to the team configured on the Linear integration.
func (s *Service) ExportActionToLinear(ctx context.Context, workspaceID, id uuid.UUID, teamID, assigneeID string) (*entities.Action, error) {
	if s.issues == nil {
		return nil, errors.ErrIntegrationNotConnected(string(entities.IntegrationLinear))
	}
	action, err := s.findAction(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if action.ExternalTaskID != nil {
		return nil, errors.ErrAlreadyExists("linear issue for action")
	}

	issue, err := s.issues.CreateLinearIssue(ctx, workspaceID, IssueFromAction(action, teamID, assigneeID))
	if err != nil {
		return nil, err
	}
	if err := s.actions.SetExternalTask(ctx, action.ID, issue.ID, issue.URL); err != nil {
		return nil, errors.ErrInternal(err)
	}
	action.ExternalTaskID = &issue.ID
	action.ExternalTaskURL = &issue.URL
	return action, nil
}

// IssueFromAction builds the Linear issue for an action
func IssueFromAction(a *entities.Action, teamID, assigneeID string) linear.IssueInput {
	var desc strings.Builder
	if a.Description != nil {
		desc.WriteString(*a.Description)
		desc.WriteString("\n\n")
	}
	if a.OwnerName != nil {
		desc.WriteString("Owner: " + *a.OwnerName + "\n")
	}
	if a.DueDate != nil {
		desc.WriteString("Due: " + a.DueDate.Format(entities.DueDateLayout) + "\n")
	}
	if a.RawText != nil {
		desc.WriteString("\n> " + *a.RawText + "\n")
	}
	return linear.IssueInput{
		TeamID:      teamID,
		Title:       a.Title,
		Description: strings.TrimSpace(desc.String()),
		Priority:    a.Priority.LinearPriority(),
		AssigneeID:  assigneeID,
	}
}

// Analytics summarizes a workspace's meetings and actions
type Analytics struct {
	TotalMeetings      int64                           `json:"total_meetings"`
	CompletedMeetings  int64                           `json:"completed_meetings"`
	FailedMeetings     int64                           `json:"failed_meetings"`
	ProcessingMeetings int64                           `json:"processing_meetings"`
	TotalActions       int64                           `json:"total_actions"`
	ActionsByStatus    map[entities.ActionStatus]int64 `json:"actions_by_status"`
	CompletionRate     float64                         `json:"completion_rate"`
	TopOwners          []repositories.OwnerCount       `json:"top_owners"`
}

// Analytics computes workspace totals
func (s *Service) Analytics(ctx context.Context, workspaceID uuid.UUID) (*Analytics, error) {
	meetingCounts, err := s.meetings.CountByStatus(ctx, workspaceID)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	actionCounts, err := s.actions.CountByStatus(ctx, workspaceID)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	owners, err := s.actions.TopOwners(ctx, workspaceID, topOwnersLimit)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}

	out := &Analytics{
		CompletedMeetings:  meetingCounts[entities.MeetingStatusCompleted],
		FailedMeetings:     meetingCounts[entities.MeetingStatusFailed],
		ProcessingMeetings: meetingCounts[entities.MeetingStatusProcessing],
		ActionsByStatus:    make(map[entities.ActionStatus]int64, 4),
		TopOwners:          owners,
	}
	for _, n := range meetingCounts {
		out.TotalMeetings += n
	}
	for _, st := range []entities.ActionStatus{
		entities.ActionStatusOpen,
		entities.ActionStatusInProgress,
		entities.ActionStatusCompleted,
		entities.ActionStatusCancelled,
	} {
		out.ActionsByStatus[st] = actionCounts[st]
		out.TotalActions += actionCounts[st]
	}
	if out.TotalActions > 0 {
		out.CompletionRate = float64(out.ActionsByStatus[entities.ActionStatusCompleted]) / float64(out.TotalActions)
	}
	if out.TopOwners == nil {
		out.TopOwners = []repositories.OwnerCount{}
	}
	return out, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
