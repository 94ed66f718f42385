package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents where a meeting is in the action pipeline
type MeetingStatus string

const (
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusFailed     MeetingStatus = "failed"
)

// IsValid checks if the status is one of the known values
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusProcessing, MeetingStatusCompleted, MeetingStatusFailed:
		return true
	}
	return false
}

// MeetingSource identifies where a meeting came from
type MeetingSource string

const (
	MeetingSourceZoom   MeetingSource = "zoom"
	MeetingSourceTeams  MeetingSource = "teams"
	MeetingSourceManual MeetingSource = "manual"
)

// Failure reasons recorded on meetings that never reach the LLM
const (
	FailureReasonPlanLimit = "plan_limit_exceeded"
	FailureReasonTimeout   = "processing timed out"
)

// Meeting is one recorded meeting and the result of processing its transcript
type Meeting struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	WorkspaceID     uuid.UUID     `json:"workspace_id" gorm:"type:uuid;not null;uniqueIndex:idx_meetings_external,priority:1;index"`
	Source          MeetingSource `json:"source" gorm:"type:varchar(20);not null;uniqueIndex:idx_meetings_external,priority:2"`
	ExternalID      string        `json:"external_id" gorm:"type:varchar(255);not null;uniqueIndex:idx_meetings_external,priority:3"`
	Title           string        `json:"title" gorm:"type:varchar(500);not null"`
	HostID          *string       `json:"host_id,omitempty" gorm:"type:varchar(255)"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	DurationMinutes int           `json:"duration_minutes" gorm:"default:0"`

	// Transcript inputs, resolved in this order by the pipeline
	RawTranscript    *string `json:"-" gorm:"type:text"`
	TranscriptURL    *string `json:"transcript_url,omitempty" gorm:"type:text"`
	AudioURL         *string `json:"audio_url,omitempty" gorm:"type:text"`
	TranscriptObject *string `json:"transcript_object,omitempty" gorm:"type:varchar(500)"`

	Summary       *string       `json:"summary,omitempty" gorm:"type:text"`
	Status        MeetingStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'processing'"`
	FailureReason *string       `json:"failure_reason,omitempty" gorm:"type:text"`
	Attempts      int           `json:"attempts" gorm:"not null;default:0"`
	ClaimedAt     *time.Time    `json:"-" gorm:"index"`
	ProcessedAt   *time.Time    `json:"processed_at,omitempty"`

	Actions []Action `json:"actions,omitempty" gorm:"foreignKey:MeetingID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting in processing state
func NewMeeting(workspaceID uuid.UUID, source MeetingSource, externalID, title string) *Meeting {
	now := time.Now()
	if externalID == "" {
		externalID = uuid.NewString()
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled meeting"
	}
	return &Meeting{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Source:      source,
		ExternalID:  externalID,
		Title:       title,
		Status:      MeetingStatusProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasTranscriptSource reports whether the pipeline has anything to work from
func (m *Meeting) HasTranscriptSource() bool {
	return nonEmpty(m.RawTranscript) || nonEmpty(m.TranscriptURL) || nonEmpty(m.AudioURL)
}

// MarkFailed moves the meeting to failed with a reason
func (m *Meeting) MarkFailed(reason string) {
	now := time.Now()
	m.Status = MeetingStatusFailed
	m.FailureReason = &reason
	m.ClaimedAt = nil
	m.ProcessedAt = &now
	m.UpdatedAt = now
}

// MarkCompleted moves the meeting to completed with its summary
func (m *Meeting) MarkCompleted(summary string) {
	now := time.Now()
	m.Status = MeetingStatusCompleted
	m.Summary = &summary
	m.FailureReason = nil
	m.ClaimedAt = nil
	m.ProcessedAt = &now
	m.UpdatedAt = now
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
