package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// UsageRepository implements the usage repository interface using GORM
type UsageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Record stores a usage entry
func (r *UsageRepository) Record(ctx context.Context, log *entities.UsageLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// SumSince sums the quantity of a usage type since the given time
func (r *UsageRepository) SumSince(ctx context.Context, workspaceID uuid.UUID, t entities.UsageType, since time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entities.UsageLog{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("workspace_id = ? AND type = ? AND created_at >= ?", workspaceID, t, since).
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum usage: %w", err)
	}
	return total, nil
}
