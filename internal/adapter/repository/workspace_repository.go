package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/domain/repositories"
)

// WorkspaceRepository implements the workspace repository interface using GORM
type WorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// CreateWithOwner creates a workspace and its owner membership in one transaction
func (r *WorkspaceRepository) CreateWithOwner(ctx context.Context, workspace *entities.Workspace, owner *entities.WorkspaceMember) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workspace).Error; err != nil {
			return err
		}
		return tx.Create(owner).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

// FindByID finds a workspace by ID
func (r *WorkspaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Workspace, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByIDs returns the workspaces with the given IDs, oldest first
func (r *WorkspaceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Workspace, error) {
	var workspaces []*entities.Workspace
	if len(ids) == 0 {
		return workspaces, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&workspaces).Error; err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// FindByStripeCustomer finds a workspace by its Stripe customer ID
func (r *WorkspaceRepository) FindByStripeCustomer(ctx context.Context, customerID string) (*entities.Workspace, error) {
	return r.findOne(ctx, "stripe_customer_id = ?", customerID)
}

// FindByPaystackSubscription finds a workspace by Paystack subscription code, then customer code
func (r *WorkspaceRepository) FindByPaystackSubscription(ctx context.Context, subscriptionCode, customerCode string) (*entities.Workspace, error) {
	if subscriptionCode != "" {
		ws, err := r.findOne(ctx, "paystack_subscription_code = ?", subscriptionCode)
		if err == nil || !errors.Is(err, entities.ErrWorkspaceNotFound) {
			return ws, err
		}
	}
	if customerCode == "" {
		return nil, entities.ErrWorkspaceNotFound
	}
	return r.findOne(ctx, "paystack_customer_code = ?", customerCode)
}

func (r *WorkspaceRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entities.Workspace, error) {
	var ws entities.Workspace
	if err := r.db.WithContext(ctx).Where(query, args...).First(&ws).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return &ws, nil
}

// ApplyBilling updates the subscription fields of a workspace
func (r *WorkspaceRepository) ApplyBilling(ctx context.Context, id uuid.UUID, update repositories.BillingUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	fields := map[string]interface{}{}
	if update.Plan != nil {
		fields["plan"] = string(*update.Plan)
	}
	if update.StripeCustomerID != nil {
		fields["stripe_customer_id"] = *update.StripeCustomerID
	}
	if update.StripeSubscriptionID != nil {
		fields["stripe_subscription_id"] = *update.StripeSubscriptionID
	}
	if update.PaystackCustomerCode != nil {
		fields["paystack_customer_code"] = *update.PaystackCustomerCode
	}
	if update.PaystackSubscriptionCode != nil {
		fields["paystack_subscription_code"] = *update.PaystackSubscriptionCode
	}
	if update.SubscriptionStatus != nil {
		fields["subscription_status"] = *update.SubscriptionStatus
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Workspace{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update workspace billing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrWorkspaceNotFound
	}
	return nil
}

// FindMember finds the membership of a user in a workspace
func (r *WorkspaceRepository) FindMember(ctx context.Context, workspaceID, userID uuid.UUID) (*entities.WorkspaceMember, error) {
	var member entities.WorkspaceMember
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find workspace member: %w", err)
	}
	return &member, nil
}

// ListMembershipsForUser lists every membership a user holds
func (r *WorkspaceRepository) ListMembershipsForUser(ctx context.Context, userID uuid.UUID) ([]*entities.WorkspaceMember, error) {
	var members []*entities.WorkspaceMember
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return members, nil
}

// AddMember adds a user to a workspace
func (r *WorkspaceRepository) AddMember(ctx context.Context, member *entities.WorkspaceMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return fmt.Errorf("failed to add workspace member: %w", err)
	}
	return nil
}
