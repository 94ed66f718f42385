package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// MeetingFilter narrows a meeting listing
type MeetingFilter struct {
	WorkspaceID uuid.UUID
	Status      *entities.MeetingStatus
	Limit       int
	Offset      int
}

// MeetingStatusCounts is the number of meetings per status in a workspace
type MeetingStatusCounts map[entities.MeetingStatus]int64

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create inserts a meeting. Returns entities.ErrMeetingExists on a duplicate external ID.
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID finds a meeting by ID without its actions
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindInWorkspace finds a meeting of a workspace with its actions
	FindInWorkspace(ctx context.Context, workspaceID, id uuid.UUID) (*entities.Meeting, error)

	// FindByExternalID finds a meeting by its source identity
	FindByExternalID(ctx context.Context, workspaceID uuid.UUID, source entities.MeetingSource, externalID string) (*entities.Meeting, error)

	// List returns a page of meetings, newest first, and the total count
	List(ctx context.Context, filter MeetingFilter) ([]*entities.Meeting, int64, error)

	// Claim atomically takes a processing meeting for a worker.
	// It returns false when another worker holds a fresh claim or the meeting is no longer processing.
	Claim(ctx context.Context, id uuid.UUID, staleBefore time.Time) (bool, error)

	// SaveTranscript stores the resolved transcript and its archive key
	SaveTranscript(ctx context.Context, id uuid.UUID, transcript string, objectKey *string) error

	// MarkFailed moves a processing meeting to failed with a reason
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error

	// Complete marks the meeting completed and inserts its actions and usage in one transaction
	Complete(ctx context.Context, meeting *entities.Meeting, actions []*entities.Action, usage []*entities.UsageLog) error

	// ResetForReprocess deletes the meeting's actions and usage and puts it back to processing
	ResetForReprocess(ctx context.Context, id uuid.UUID) error

	// ListRecoverable lists processing meetings that were never claimed before unclaimedBefore
	// or whose claim is older than staleBefore
	ListRecoverable(ctx context.Context, unclaimedBefore, staleBefore time.Time, limit int) ([]*entities.Meeting, error)

	// FailExhausted fails stale processing meetings that used up their attempts
	FailExhausted(ctx context.Context, maxAttempts int, staleBefore time.Time, reason string) (int64, error)

	// CountSince counts meetings created in a workspace since the given time,
	// leaving out those turned away by the plan limit
	CountSince(ctx context.Context, workspaceID uuid.UUID, since time.Time) (int64, error)

	// CountByStatus counts meetings per status in a workspace
	CountByStatus(ctx context.Context, workspaceID uuid.UUID) (MeetingStatusCounts, error)
}
