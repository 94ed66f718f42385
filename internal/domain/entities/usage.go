package entities

import (
	"time"

	"github.com/google/uuid"
)

// UsageType is the metered resource
type UsageType string

const (
	UsageMeeting UsageType = "meeting"
	UsageAction  UsageType = "action"
)

// UsageLog records metered consumption per workspace
type UsageLog struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	WorkspaceID uuid.UUID  `json:"workspace_id" gorm:"type:uuid;not null;index:idx_usage_workspace_created,priority:1"`
	Type        UsageType  `json:"type" gorm:"type:varchar(20);not null"`
	Quantity    int        `json:"quantity" gorm:"not null;default:1"`
	MeetingID   *uuid.UUID `json:"meeting_id,omitempty" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime;index:idx_usage_workspace_created,priority:2"`
}

// TableName specifies the table name
func (UsageLog) TableName() string {
	return "usage_logs"
}

// NewUsageLog creates a usage record
func NewUsageLog(workspaceID uuid.UUID, t UsageType, quantity int, meetingID *uuid.UUID) *UsageLog {
	return &UsageLog{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Type:        t,
		Quantity:    quantity,
		MeetingID:   meetingID,
		CreatedAt:   time.Now(),
	}
}

// Usage is the month-to-date consumption of a workspace against its plan
type Usage struct {
	Plan         PlanType   `json:"plan"`
	Limits       PlanLimits `json:"limits"`
	Meetings     int        `json:"meetings"`
	Actions      int        `json:"actions"`
	Integrations int        `json:"integrations"`
	PeriodStart  time.Time  `json:"period_start"`
}

// StartOfMonth returns the first instant of t's month in UTC
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
