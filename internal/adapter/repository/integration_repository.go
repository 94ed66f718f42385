package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// IntegrationRepository implements the integration repository interface using GORM
type IntegrationRepository struct {
	db *gorm.DB
}

// NewIntegrationRepository creates a new integration repository
func NewIntegrationRepository(db *gorm.DB) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

// Upsert creates or replaces the integration of its (workspace, type).
// On return the integration carries the stored row's ID.
func (r *IntegrationRepository) Upsert(ctx context.Context, integration *entities.Integration) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "workspace_id"}, {Name: "type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"access_token", "refresh_token", "expires_at", "team_id",
				"team_name", "metadata", "connected_by", "updated_at",
			}),
		}).
		Create(integration).Error; err != nil {
		return fmt.Errorf("failed to upsert integration: %w", err)
	}

	stored, err := r.Find(ctx, integration.WorkspaceID, integration.Type)
	if err != nil {
		return err
	}
	integration.ID = stored.ID
	integration.CreatedAt = stored.CreatedAt
	return nil
}

// Find finds the integration of a type in a workspace
func (r *IntegrationRepository) Find(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) (*entities.Integration, error) {
	return r.findOne(ctx, "workspace_id = ? AND type = ?", workspaceID, t)
}

// FindByTeamID finds an integration by the external account or tenant ID
func (r *IntegrationRepository) FindByTeamID(ctx context.Context, t entities.IntegrationType, teamID string) (*entities.Integration, error) {
	return r.findOne(ctx, "type = ? AND team_id = ?", t, teamID)
}

func (r *IntegrationRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entities.Integration, error) {
	var integration entities.Integration
	if err := r.db.WithContext(ctx).Where(query, args...).Order("updated_at DESC").First(&integration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("failed to find integration: %w", err)
	}
	return &integration, nil
}

// ListByWorkspace lists the integrations of a workspace
func (r *IntegrationRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*entities.Integration, error) {
	var integrations []*entities.Integration
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&integrations).Error; err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	return integrations, nil
}

// CountByWorkspace counts the integrations of a workspace
func (r *IntegrationRepository) CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Integration{}).
		Where("workspace_id = ?", workspaceID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count integrations: %w", err)
	}
	return count, nil
}

// UpdateTokens stores refreshed credentials
func (r *IntegrationRepository) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	fields := map[string]interface{}{
		"access_token": accessToken,
		"expires_at":   expiresAt,
		"updated_at":   time.Now(),
	}
	if refreshToken != nil {
		fields["refresh_token"] = *refreshToken
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Integration{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update integration tokens: %w", err)
	}
	return nil
}

// UpdateMetadata replaces the settings of an integration
func (r *IntegrationRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, metadata map[string]interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Integration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"metadata":   datatypes.JSONMap(metadata),
			"updated_at": time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("failed to update integration metadata: %w", err)
	}
	return nil
}

// Delete removes the integration of a type from a workspace
func (r *IntegrationRepository) Delete(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) error {
	result := r.db.WithContext(ctx).
		Where("workspace_id = ? AND type = ?", workspaceID, t).
		Delete(&entities.Integration{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete integration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrIntegrationNotFound
	}
	return nil
}
