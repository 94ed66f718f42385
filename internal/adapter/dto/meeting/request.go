package meeting

import "github.com/johnquangdev/meeting-actions/internal/adapter/dto/common"

// CreateMeetingRequest is a dashboard upload. One of transcript,
// transcript_url or audio_url is required.
type CreateMeetingRequest struct {
	Title           string `json:"title" validate:"required,max=500"`
	Transcript      string `json:"transcript" validate:"required_without_all=TranscriptURL AudioURL"`
	TranscriptURL   string `json:"transcript_url" validate:"omitempty,url"`
	AudioURL        string `json:"audio_url" validate:"omitempty,url"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=0"`
}

// ListMeetingsRequest holds the meeting list query
type ListMeetingsRequest struct {
	common.PageRequest
	Status string `query:"status" validate:"omitempty,oneof=processing completed failed"`
}

// ListActionsRequest holds the action list query
type ListActionsRequest struct {
	common.PageRequest
	MeetingID string `query:"meeting_id" validate:"omitempty,uuid"`
	Status    string `query:"status" validate:"omitempty,oneof=open in_progress completed cancelled"`
	Type      string `query:"type" validate:"omitempty,oneof=task decision question followup"`
	Priority  string `query:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// UpdateActionRequest edits an action. An empty owner_name or due_date
// clears the field.
type UpdateActionRequest struct {
	Status    *string `json:"status" validate:"omitempty,oneof=open in_progress completed cancelled"`
	OwnerName *string `json:"owner_name" validate:"omitempty,max=255"`
	DueDate   *string `json:"due_date"`
	Priority  *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// ExportActionRequest files a stored action in Linear. team_id defaults to
// the team configured on the integration.
type ExportActionRequest struct {
	TeamID     string `json:"team_id"`
	AssigneeID string `json:"assignee_id"`
}
