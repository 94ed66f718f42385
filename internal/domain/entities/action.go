package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActionType classifies an extracted item
type ActionType string

const (
	ActionTypeTask     ActionType = "task"
	ActionTypeDecision ActionType = "decision"
	ActionTypeQuestion ActionType = "question"
	ActionTypeFollowup ActionType = "followup"
)

// ParseActionType normalizes s, mapping anything unknown to task
func ParseActionType(s string) ActionType {
	switch t := ActionType(strings.ToLower(strings.TrimSpace(s))); t {
	case ActionTypeTask, ActionTypeDecision, ActionTypeQuestion, ActionTypeFollowup:
		return t
	case "follow-up", "follow_up":
		return ActionTypeFollowup
	}
	return ActionTypeTask
}

// ActionPriority is the urgency of an action
type ActionPriority string

const (
	PriorityLow    ActionPriority = "low"
	PriorityMedium ActionPriority = "medium"
	PriorityHigh   ActionPriority = "high"
	PriorityUrgent ActionPriority = "urgent"
)

// ParsePriority normalizes s, mapping anything unknown to medium
func ParsePriority(s string) ActionPriority {
	switch p := ActionPriority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p
	}
	return PriorityMedium
}

// IsValid checks if the priority is known
func (p ActionPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// LinearPriority maps to Linear's 1 (urgent) .. 4 (low) scale
func (p ActionPriority) LinearPriority() int {
	switch p {
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	case PriorityLow:
		return 4
	}
	return 3
}

// DueDateLayout is the wire format of Action.DueDate
const DueDateLayout = "2006-01-02"

// ActionStatus is the lifecycle state of an action
type ActionStatus string

const (
	ActionStatusOpen       ActionStatus = "open"
	ActionStatusInProgress ActionStatus = "in_progress"
	ActionStatusCompleted  ActionStatus = "completed"
	ActionStatusCancelled  ActionStatus = "cancelled"
)

// IsValid checks if the status is known
func (s ActionStatus) IsValid() bool {
	switch s {
	case ActionStatusOpen, ActionStatusInProgress, ActionStatusCompleted, ActionStatusCancelled:
		return true
	}
	return false
}

// Action is one item extracted from a meeting transcript
type Action struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	MeetingID       uuid.UUID      `json:"meeting_id" gorm:"type:uuid;not null;index"`
	WorkspaceID     uuid.UUID      `json:"workspace_id" gorm:"type:uuid;not null;index"`
	Type            ActionType     `json:"type" gorm:"type:varchar(20);not null;index"`
	Title           string         `json:"title" gorm:"type:varchar(500);not null"`
	Description     *string        `json:"description,omitempty" gorm:"type:text"`
	OwnerName       *string        `json:"owner_name,omitempty" gorm:"type:varchar(255);index"`
	DueDate         *time.Time     `json:"due_date,omitempty" gorm:"type:date"`
	Priority        ActionPriority `json:"priority" gorm:"type:varchar(20);not null;default:'medium'"`
	Status          ActionStatus   `json:"status" gorm:"type:varchar(20);not null;index;default:'open'"`
	ConfidenceScore float64        `json:"confidence_score" gorm:"not null;default:0"`
	RawText         *string        `json:"raw_text,omitempty" gorm:"type:text"`

	ExternalTaskID  *string    `json:"external_task_id,omitempty" gorm:"type:varchar(255)"`
	ExternalTaskURL *string    `json:"external_task_url,omitempty" gorm:"type:text"`
	SlackMessageTS  *string    `json:"slack_message_ts,omitempty" gorm:"column:slack_message_ts;type:varchar(64)"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name
func (Action) TableName() string {
	return "actions"
}

// NewAction creates an open action for a meeting
func NewAction(meetingID, workspaceID uuid.UUID, actionType ActionType, title string) *Action {
	now := time.Now()
	return &Action{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		WorkspaceID: workspaceID,
		Type:        actionType,
		Title:       title,
		Priority:    PriorityMedium,
		Status:      ActionStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetStatus changes the status and keeps completed_at in step with it
func (a *Action) SetStatus(status ActionStatus) error {
	if !status.IsValid() {
		return ErrInvalidActionStatus
	}
	now := time.Now()
	if status == ActionStatusCompleted && a.Status != ActionStatusCompleted {
		a.CompletedAt = &now
	}
	if status != ActionStatusCompleted {
		a.CompletedAt = nil
	}
	a.Status = status
	a.UpdatedAt = now
	return nil
}
