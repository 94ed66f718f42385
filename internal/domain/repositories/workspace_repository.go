package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// BillingUpdate carries the subscription fields a billing event changes.
// Nil fields are left untouched.
type BillingUpdate struct {
	Plan                     *entities.PlanType
	StripeCustomerID         *string
	StripeSubscriptionID     *string
	PaystackCustomerCode     *string
	PaystackSubscriptionCode *string
	SubscriptionStatus       *string
}

// IsEmpty reports whether the update changes nothing
func (u BillingUpdate) IsEmpty() bool {
	return u.Plan == nil && u.StripeCustomerID == nil && u.StripeSubscriptionID == nil &&
		u.PaystackCustomerCode == nil && u.PaystackSubscriptionCode == nil && u.SubscriptionStatus == nil
}

// WorkspaceRepository defines the interface for workspace and membership data access
type WorkspaceRepository interface {
	// CreateWithOwner creates a workspace and its owner membership atomically
	CreateWithOwner(ctx context.Context, workspace *entities.Workspace, owner *entities.WorkspaceMember) error

	// FindByID finds a workspace by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Workspace, error)

	// FindByIDs returns the workspaces with the given IDs, oldest first
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Workspace, error)

	// FindByStripeCustomer finds a workspace by its Stripe customer ID
	FindByStripeCustomer(ctx context.Context, customerID string) (*entities.Workspace, error)

	// FindByPaystackSubscription finds a workspace by its Paystack subscription or customer code
	FindByPaystackSubscription(ctx context.Context, subscriptionCode, customerCode string) (*entities.Workspace, error)

	// ApplyBilling updates the subscription fields of a workspace
	ApplyBilling(ctx context.Context, id uuid.UUID, update BillingUpdate) error

	// FindMember finds the membership of a user in a workspace
	FindMember(ctx context.Context, workspaceID, userID uuid.UUID) (*entities.WorkspaceMember, error)

	// ListMembershipsForUser lists every membership a user holds
	ListMembershipsForUser(ctx context.Context, userID uuid.UUID) ([]*entities.WorkspaceMember, error)

	// AddMember adds a user to a workspace
	AddMember(ctx context.Context, member *entities.WorkspaceMember) error
}
