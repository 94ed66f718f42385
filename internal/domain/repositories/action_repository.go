package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// ActionFilter narrows an action listing
type ActionFilter struct {
	WorkspaceID uuid.UUID
	MeetingID   *uuid.UUID
	Status      *entities.ActionStatus
	Type        *entities.ActionType
	Priority    *entities.ActionPriority
	Limit       int
	Offset      int
}

// OwnerCount is the number of actions assigned to one owner
type OwnerCount struct {
	OwnerName string `json:"owner_name"`
	Count     int64  `json:"count"`
}

// ActionRepository defines the interface for action data access
type ActionRepository interface {
	// FindInWorkspace finds an action that belongs to a workspace
	FindInWorkspace(ctx context.Context, workspaceID, id uuid.UUID) (*entities.Action, error)

	// ListByMeeting lists the actions of a meeting in creation order
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Action, error)

	// List returns a page of actions, newest first, and the total count
	List(ctx context.Context, filter ActionFilter) ([]*entities.Action, int64, error)

	// Update saves an action
	Update(ctx context.Context, action *entities.Action) error

	// SetExternalTask records the issue created for an action in a task tracker
	SetExternalTask(ctx context.Context, id uuid.UUID, externalID, url string) error

	// SetSlackMessage records the Slack message an action was posted in
	SetSlackMessage(ctx context.Context, ids []uuid.UUID, ts string) error

	// CountByStatus counts actions per status in a workspace
	CountByStatus(ctx context.Context, workspaceID uuid.UUID) (map[entities.ActionStatus]int64, error)

	// TopOwners returns the owners with the most actions
	TopOwners(ctx context.Context, workspaceID uuid.UUID, limit int) ([]OwnerCount, error)
}
