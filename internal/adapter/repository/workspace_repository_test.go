package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/johnquangdev/meeting-actions/internal/adapter/repository/repotest"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/domain/repositories"
)

func TestWorkspaceRepository_MembershipAndBilling(t *testing.T) {
	db := repotest.NewDB(t)
	repo := NewWorkspaceRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	user := entities.NewOAuthUser("grace@example.com", "Grace", "google", "g-1")
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	ws := entities.NewWorkspace("Grace's Workspace", user.ID)
	if err := repo.CreateWithOwner(ctx, ws, entities.NewWorkspaceMember(ws.ID, user.ID, entities.RoleOwner)); err != nil {
		t.Fatalf("create workspace failed: %v", err)
	}

	member, err := repo.FindMember(ctx, ws.ID, user.ID)
	if err != nil {
		t.Fatalf("find member failed: %v", err)
	}
	if member.Role != entities.RoleOwner {
		t.Fatalf("expected owner, got %s", member.Role)
	}

	stranger := entities.NewOAuthUser("eve@example.com", "Eve", "google", "g-2")
	_ = users.Create(ctx, stranger)
	if _, err := repo.FindMember(ctx, ws.ID, stranger.ID); !errors.Is(err, entities.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}

	plan := entities.PlanPro
	customer := "cus_123"
	status := entities.SubscriptionActive
	if err := repo.ApplyBilling(ctx, ws.ID, repositories.BillingUpdate{
		Plan:               &plan,
		StripeCustomerID:   &customer,
		SubscriptionStatus: &status,
	}); err != nil {
		t.Fatalf("apply billing failed: %v", err)
	}

	got, err := repo.FindByStripeCustomer(ctx, "cus_123")
	if err != nil {
		t.Fatalf("find by customer failed: %v", err)
	}
	if got.Plan != entities.PlanPro || got.SubscriptionStatus == nil || *got.SubscriptionStatus != "active" {
		t.Fatalf("billing not applied: %+v", got)
	}

	code := "CUS_paystack"
	if err := repo.ApplyBilling(ctx, ws.ID, repositories.BillingUpdate{PaystackCustomerCode: &code}); err != nil {
		t.Fatalf("apply paystack code failed: %v", err)
	}
	if _, err := repo.FindByPaystackSubscription(ctx, "SUB_unknown", "CUS_paystack"); err != nil {
		t.Fatalf("customer code fallback failed: %v", err)
	}
}
