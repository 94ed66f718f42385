package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/domain/repositories"
)

// MeetingRepository implements the meeting repository interface using GORM
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create inserts a meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if err := r.db.WithContext(ctx).Create(meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entities.ErrMeetingExists
		}
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// FindByID finds a meeting by ID
func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		return nil, meetingErr(err)
	}
	return &meeting, nil
}

// FindInWorkspace finds a meeting of a workspace with its actions
func (r *MeetingRepository) FindInWorkspace(ctx context.Context, workspaceID, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&meeting).Error; err != nil {
		return nil, meetingErr(err)
	}
	return &meeting, nil
}

// FindByExternalID finds a meeting by its source identity
func (r *MeetingRepository) FindByExternalID(ctx context.Context, workspaceID uuid.UUID, source entities.MeetingSource, externalID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND source = ? AND external_id = ?", workspaceID, source, externalID).
		First(&meeting).Error; err != nil {
		return nil, meetingErr(err)
	}
	return &meeting, nil
}

type statusCount struct {
	Status string
	Count  int64
}

func meetingErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ErrMeetingNotFound
	}
	return fmt.Errorf("failed to find meeting: %w", err)
}

// List returns a page of meetings, newest first, and the total count
func (r *MeetingRepository) List(ctx context.Context, filter repositories.MeetingFilter) ([]*entities.Meeting, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.Meeting{}).Where("workspace_id = ?", filter.WorkspaceID)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}

	var meetings []*entities.Meeting
	if err := q.Omit("raw_transcript").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&meetings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, total, nil
}

// Claim atomically takes a processing meeting for a worker
func (r *MeetingRepository) Claim(ctx context.Context, id uuid.UUID, staleBefore time.Time) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ? AND (claimed_at IS NULL OR claimed_at < ?)", id, entities.MeetingStatusProcessing, staleBefore).
		Updates(map[string]interface{}{
			"claimed_at": now,
			"attempts":   gorm.Expr("attempts + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim meeting: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// SaveTranscript stores the resolved transcript and its archive key
func (r *MeetingRepository) SaveTranscript(ctx context.Context, id uuid.UUID, transcript string, objectKey *string) error {
	fields := map[string]interface{}{
		"raw_transcript": transcript,
		"updated_at":     time.Now(),
	}
	if objectKey != nil {
		fields["transcript_object"] = *objectKey
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

// MarkFailed moves a processing meeting to failed with a reason. It fails with
// ErrMeetingNotClaimable once the meeting has left the processing state.
func (r *MeetingRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ?", id, entities.MeetingStatusProcessing).
		Updates(map[string]interface{}{
			"status":         entities.MeetingStatusFailed,
			"failure_reason": reason,
			"claimed_at":     nil,
			"processed_at":   now,
			"updated_at":     now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark meeting failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrMeetingNotClaimable
	}
	return nil
}

// Complete marks the meeting completed and inserts its actions and usage in one transaction.
// It fails with ErrMeetingNotClaimable if the meeting left the processing state meanwhile.
func (r *MeetingRepository) Complete(ctx context.Context, meeting *entities.Meeting, actions []*entities.Action, usage []*entities.UsageLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Meeting{}).
			Where("id = ? AND status = ?", meeting.ID, entities.MeetingStatusProcessing).
			Updates(map[string]interface{}{
				"status":         entities.MeetingStatusCompleted,
				"summary":        meeting.Summary,
				"failure_reason": nil,
				"claimed_at":     nil,
				"processed_at":   meeting.ProcessedAt,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to complete meeting: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return entities.ErrMeetingNotClaimable
		}
		if len(actions) > 0 {
			if err := tx.CreateInBatches(actions, 100).Error; err != nil {
				return fmt.Errorf("failed to insert actions: %w", err)
			}
		}
		for _, u := range usage {
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("failed to record usage: %w", err)
			}
		}
		return nil
	})
}

// ResetForReprocess deletes the meeting's actions and usage and puts a failed
// meeting back to processing
func (r *MeetingRepository) ResetForReprocess(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Meeting{}).
			Where("id = ? AND status = ?", id, entities.MeetingStatusFailed).
			Updates(map[string]interface{}{
				"status":         entities.MeetingStatusProcessing,
				"summary":        nil,
				"failure_reason": nil,
				"attempts":       0,
				"claimed_at":     nil,
				"processed_at":   nil,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to reset meeting: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return entities.ErrMeetingNotClaimable
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&entities.Action{}).Error; err != nil {
			return fmt.Errorf("failed to clear actions: %w", err)
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&entities.UsageLog{}).Error; err != nil {
			return fmt.Errorf("failed to clear usage: %w", err)
		}
		return nil
	})
}

// ListRecoverable lists processing meetings that were never claimed or whose claim went stale
func (r *MeetingRepository) ListRecoverable(ctx context.Context, unclaimedBefore, staleBefore time.Time, limit int) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	if err := r.db.WithContext(ctx).
		Omit("raw_transcript").
		Where("status = ?", entities.MeetingStatusProcessing).
		Where("(claimed_at IS NULL AND created_at < ?) OR claimed_at < ?", unclaimedBefore, staleBefore).
		Order("created_at ASC").
		Limit(limit).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list recoverable meetings: %w", err)
	}
	return meetings, nil
}

// FailExhausted fails stale processing meetings that used up their attempts
func (r *MeetingRepository) FailExhausted(ctx context.Context, maxAttempts int, staleBefore time.Time, reason string) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("status = ? AND attempts >= ? AND claimed_at < ?", entities.MeetingStatusProcessing, maxAttempts, staleBefore).
		Updates(map[string]interface{}{
			"status":         entities.MeetingStatusFailed,
			"failure_reason": reason,
			"claimed_at":     nil,
			"processed_at":   now,
			"updated_at":     now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to fail exhausted meetings: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CountSince counts meetings created in a workspace since the given time.
// Meetings turned away by the plan limit are not counted.
func (r *MeetingRepository) CountSince(ctx context.Context, workspaceID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("workspace_id = ? AND created_at >= ?", workspaceID, since).
		Where("(failure_reason IS NULL OR failure_reason <> ?)", entities.FailureReasonPlanLimit).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count meetings: %w", err)
	}
	return count, nil
}

// CountByStatus counts meetings per status in a workspace
func (r *MeetingRepository) CountByStatus(ctx context.Context, workspaceID uuid.UUID) (repositories.MeetingStatusCounts, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Select("status, COUNT(*) AS count").
		Where("workspace_id = ?", workspaceID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count meetings by status: %w", err)
	}
	counts := repositories.MeetingStatusCounts{}
	for _, row := range rows {
		counts[entities.MeetingStatus(row.Status)] = row.Count
	}
	return counts, nil
}
