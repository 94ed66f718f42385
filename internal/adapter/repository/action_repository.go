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

// ActionRepository implements the action repository interface using GORM
type ActionRepository struct {
	db *gorm.DB
}

// NewActionRepository creates a new action repository
func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// FindInWorkspace finds an action that belongs to a workspace
func (r *ActionRepository) FindInWorkspace(ctx context.Context, workspaceID, id uuid.UUID) (*entities.Action, error) {
	var action entities.Action
	if err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&action).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrActionNotFound
		}
		return nil, fmt.Errorf("failed to find action: %w", err)
	}
	return &action, nil
}

// ListByMeeting lists the actions of a meeting in creation order
func (r *ActionRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Action, error) {
	var actions []*entities.Action
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to list meeting actions: %w", err)
	}
	return actions, nil
}

// List returns a page of actions, newest first, and the total count
func (r *ActionRepository) List(ctx context.Context, filter repositories.ActionFilter) ([]*entities.Action, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.Action{}).Where("workspace_id = ?", filter.WorkspaceID)
	if filter.MeetingID != nil {
		q = q.Where("meeting_id = ?", *filter.MeetingID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", *filter.Priority)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count actions: %w", err)
	}

	var actions []*entities.Action
	if err := q.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&actions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list actions: %w", err)
	}
	return actions, total, nil
}

// Update saves an action
func (r *ActionRepository) Update(ctx context.Context, action *entities.Action) error {
	if err := r.db.WithContext(ctx).Save(action).Error; err != nil {
		return fmt.Errorf("failed to update action: %w", err)
	}
	return nil
}

// SetExternalTask records the issue created for an action in a task tracker
func (r *ActionRepository) SetExternalTask(ctx context.Context, id uuid.UUID, externalID, url string) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Action{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"external_task_id":  externalID,
			"external_task_url": url,
			"updated_at":        time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("failed to set external task: %w", err)
	}
	return nil
}

// SetSlackMessage records the Slack message the actions were posted in
func (r *ActionRepository) SetSlackMessage(ctx context.Context, ids []uuid.UUID, ts string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Action{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"slack_message_ts": ts,
			"updated_at":       time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("failed to set slack message: %w", err)
	}
	return nil
}

// CountByStatus counts actions per status in a workspace
func (r *ActionRepository) CountByStatus(ctx context.Context, workspaceID uuid.UUID) (map[entities.ActionStatus]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&entities.Action{}).
		Select("status, COUNT(*) AS count").
		Where("workspace_id = ?", workspaceID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count actions by status: %w", err)
	}
	counts := make(map[entities.ActionStatus]int64, len(rows))
	for _, row := range rows {
		counts[entities.ActionStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// TopOwners returns the owners with the most actions
func (r *ActionRepository) TopOwners(ctx context.Context, workspaceID uuid.UUID, limit int) ([]repositories.OwnerCount, error) {
	var owners []repositories.OwnerCount
	if err := r.db.WithContext(ctx).
		Model(&entities.Action{}).
		Select("owner_name, COUNT(*) AS count").
		Where("workspace_id = ? AND owner_name IS NOT NULL AND owner_name <> ''", workspaceID).
		Group("owner_name").
		Order("count DESC, owner_name ASC").
		Limit(limit).
		Scan(&owners).Error; err != nil {
		return nil, fmt.Errorf("failed to rank owners: %w", err)
	}
	return owners, nil
}
