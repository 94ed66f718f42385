package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// IntegrationRepository defines the interface for integration data access
type IntegrationRepository interface {
	// Upsert creates or replaces the integration of its (workspace, type)
	Upsert(ctx context.Context, integration *entities.Integration) error

	// Find finds the integration of a type in a workspace
	Find(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) (*entities.Integration, error)

	// FindByTeamID finds an integration by the external account or tenant ID
	FindByTeamID(ctx context.Context, t entities.IntegrationType, teamID string) (*entities.Integration, error)

	// ListByWorkspace lists the integrations of a workspace
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*entities.Integration, error)

	// CountByWorkspace counts the integrations of a workspace
	CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error)

	// UpdateTokens stores refreshed credentials
	UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, refreshToken *string, expiresAt *time.Time) error

	// UpdateMetadata replaces the settings of an integration
	UpdateMetadata(ctx context.Context, id uuid.UUID, metadata map[string]interface{}) error

	// Delete removes the integration of a type from a workspace
	Delete(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) error
}

// UsageRepository defines the interface for metered usage records
type UsageRepository interface {
	// Record stores a usage entry
	Record(ctx context.Context, log *entities.UsageLog) error

	// SumSince sums the quantity of a usage type since the given time
	SumSince(ctx context.Context, workspaceID uuid.UUID, t entities.UsageType, since time.Time) (int64, error)
}
