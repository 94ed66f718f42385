package billing

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/adapter/repository"
	"github.com/johnquangdev/meeting-actions/internal/adapter/repository/repotest"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/domain/repositories"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/paystack"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/stripe"
)

type fakeStripe struct {
	configured bool
	checkout   stripe.CheckoutInput
	portalFor  string
	event      *stripe.Event
	eventErr   error
}

func (f *fakeStripe) Configured() bool { return f.configured }

func (f *fakeStripe) PlanForPrice(priceID string) (entities.PlanType, bool) {
	switch priceID {
	case "price_pro":
		return entities.PlanPro, true
	case "price_team":
		return entities.PlanTeam, true
	}
	return "", false
}

func (f *fakeStripe) CreateCheckoutSession(in stripe.CheckoutInput) (*stripe.CheckoutSession, error) {
	f.checkout = in
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}, nil
}

func (f *fakeStripe) CreatePortalSession(customerID, _ string) (string, error) {
	f.portalFor = customerID
	return "https://billing.stripe.com/p/session_1", nil
}

func (f *fakeStripe) ParseEvent([]byte, string) (*stripe.Event, error) {
	return f.event, f.eventErr
}

type fakePaystack struct {
	keyErr       error
	init         paystack.InitializeInput
	verification *paystack.Verification
	validSig     bool
}

func (f *fakePaystack) CheckKey() error { return f.keyErr }

func (f *fakePaystack) Initialize(_ context.Context, in paystack.InitializeInput) (*paystack.Transaction, error) {
	f.init = in
	return &paystack.Transaction{AuthorizationURL: "https://checkout.paystack.com/abc", Reference: "ref_1"}, nil
}

func (f *fakePaystack) Verify(context.Context, string) (*paystack.Verification, error) {
	if f.verification == nil {
		return nil, stdErrors.New("not found")
	}
	return f.verification, nil
}

func (f *fakePaystack) VerifySignature([]byte, string) bool { return f.validSig }

type fixture struct {
	svc        *Service
	workspaces *repository.WorkspaceRepository
	user       *entities.User
	ws         *entities.Workspace
	stripe     *fakeStripe
	paystack   *fakePaystack
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.NewDB(t)
	user, ws := repotest.Seed(t, db, entities.PlanFree)
	f := &fixture{
		workspaces: repository.NewWorkspaceRepository(db),
		user:       user,
		ws:         ws,
		stripe:     &fakeStripe{configured: true},
		paystack:   &fakePaystack{validSig: true},
	}
	f.svc = NewService(f.workspaces, repository.NewUserRepository(db), f.stripe, f.paystack, "https://app.example.com", nil)
	return f
}

func (f *fixture) workspace(t *testing.T) *entities.Workspace {
	t.Helper()
	ws, err := f.workspaces.FindByID(context.Background(), f.ws.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	return ws
}

func code(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

func TestStripeCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.StripeCheckout(ctx, f.ws.ID, f.user.ID, "free"); code(t, err) != errors.ErrorCode_BILLING_INVALID_PLAN {
		t.Fatalf("free plan must be rejected, got %v", err)
	}

	res, err := f.svc.StripeCheckout(ctx, f.ws.ID, f.user.ID, "Pro")
	if err != nil {
		t.Fatalf("StripeCheckout: %v", err)
	}
	if res.URL == "" || res.SessionID != "cs_test_1" {
		t.Fatalf("unexpected response %+v", res)
	}
	in := f.stripe.checkout
	if in.Plan != entities.PlanPro || in.Email != f.user.Email {
		t.Fatalf("unexpected checkout input %+v", in)
	}
	if in.SuccessURL != "https://app.example.com/dashboard?success=true" ||
		in.CancelURL != "https://app.example.com/dashboard/billing?canceled=true" {
		t.Fatalf("unexpected redirect urls %+v", in)
	}
	if in.Metadata["workspace_id"] != f.ws.ID.String() || in.Metadata["user_id"] != f.user.ID.String() || in.Metadata["plan"] != "pro" {
		t.Fatalf("unexpected metadata %v", in.Metadata)
	}

	f.stripe.configured = false
	if _, err := f.svc.StripeCheckout(ctx, f.ws.ID, f.user.ID, "pro"); code(t, err) != errors.ErrorCode_BILLING_NOT_CONFIGURED {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestStripeWebhook_SubscriptionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.stripe.event = &stripe.Event{
		ID:             "evt_1",
		Type:           "checkout.session.completed",
		CustomerID:     "cus_1",
		SubscriptionID: "sub_1",
		Metadata:       map[string]string{"workspace_id": f.ws.ID.String(), "plan": "pro"},
	}
	if err := f.svc.HandleStripeWebhook(ctx, []byte("{}"), "sig"); err != nil {
		t.Fatalf("checkout.session.completed: %v", err)
	}
	ws := f.workspace(t)
	if ws.Plan != entities.PlanPro || *ws.StripeCustomerID != "cus_1" || *ws.SubscriptionStatus != entities.SubscriptionActive {
		t.Fatalf("unexpected workspace after checkout %+v", ws)
	}

	f.stripe.event = &stripe.Event{ID: "evt_2", Type: "customer.subscription.updated", CustomerID: "cus_1", SubscriptionID: "sub_1", Status: "active", PriceID: "price_team"}
	if err := f.svc.HandleStripeWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("subscription.updated: %v", err)
	}
	if ws := f.workspace(t); ws.Plan != entities.PlanTeam {
		t.Fatalf("expected team plan, got %s", ws.Plan)
	}

	f.stripe.event = &stripe.Event{ID: "evt_3", Type: "invoice.payment_failed", CustomerID: "cus_1"}
	if err := f.svc.HandleStripeWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("invoice.payment_failed: %v", err)
	}
	if ws := f.workspace(t); *ws.SubscriptionStatus != entities.SubscriptionPastDue || ws.Plan != entities.PlanTeam {
		t.Fatalf("expected past_due on team, got %+v", ws)
	}

	f.stripe.event = &stripe.Event{ID: "evt_4", Type: "customer.subscription.deleted", CustomerID: "cus_1", SubscriptionID: "sub_1"}
	if err := f.svc.HandleStripeWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("subscription.deleted: %v", err)
	}
	if ws := f.workspace(t); ws.Plan != entities.PlanFree || *ws.SubscriptionStatus != entities.SubscriptionCanceled {
		t.Fatalf("expected free/canceled, got %+v", ws)
	}
}

func TestStripeWebhook_RejectsAndIgnores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.stripe.eventErr = stdErrors.New("signature mismatch")
	if err := f.svc.HandleStripeWebhook(ctx, nil, "bad"); code(t, err) != errors.ErrorCode_WEBHOOK_INVALID_SIGNATURE {
		t.Fatalf("expected invalid signature, got %v", err)
	}

	f.stripe.eventErr = nil
	f.stripe.event = &stripe.Event{ID: "evt_5", Type: "customer.subscription.deleted", CustomerID: "cus_unknown"}
	if err := f.svc.HandleStripeWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("events for unknown customers are acknowledged, got %v", err)
	}
	f.stripe.event = &stripe.Event{ID: "evt_6", Type: "charge.refunded"}
	if err := f.svc.HandleStripeWebhook(ctx, nil, "sig"); err != nil {
		t.Fatalf("unhandled events are acknowledged, got %v", err)
	}
}

func TestStripePortal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.StripePortal(ctx, f.ws.ID); code(t, err) != errors.ErrorCode_BILLING_NO_CUSTOMER {
		t.Fatalf("expected no customer, got %v", err)
	}

	customer := "cus_9"
	if err := f.workspaces.ApplyBilling(ctx, f.ws.ID, repositories.BillingUpdate{StripeCustomerID: &customer}); err != nil {
		t.Fatalf("ApplyBilling: %v", err)
	}
	url, err := f.svc.StripePortal(ctx, f.ws.ID)
	if err != nil || url == "" || f.stripe.portalFor != "cus_9" {
		t.Fatalf("StripePortal = %q, %v (customer %s)", url, err, f.stripe.portalFor)
	}
}

func TestPaystackCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.PaystackCheckout(ctx, f.ws.ID, f.user.ID, "team", "")
	if err != nil {
		t.Fatalf("PaystackCheckout: %v", err)
	}
	if res.URL != "https://checkout.paystack.com/abc" || res.Reference != "ref_1" {
		t.Fatalf("unexpected response %+v", res)
	}
	in := f.paystack.init
	if in.Currency != "USD" || in.Amount != 9900 || in.CallbackURL != "https://app.example.com/v1/billing/paystack/callback" {
		t.Fatalf("unexpected initialize input %+v", in)
	}

	if _, err := f.svc.PaystackCheckout(ctx, f.ws.ID, f.user.ID, "pro", "EUR"); code(t, err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("expected unsupported currency, got %v", err)
	}
	if _, err := f.svc.PaystackCheckout(ctx, f.ws.ID, f.user.ID, "enterprise", "NGN"); code(t, err) != errors.ErrorCode_BILLING_INVALID_PLAN {
		t.Fatalf("expected invalid plan, got %v", err)
	}

	f.paystack.keyErr = paystack.ErrPlaceholderKey
	if _, err := f.svc.PaystackCheckout(ctx, f.ws.ID, f.user.ID, "pro", "NGN"); code(t, err) != errors.ErrorCode_BILLING_NOT_CONFIGURED {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestPaystackCallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fail := "https://app.example.com/dashboard/billing?error=payment_failed"

	if got := f.svc.PaystackCallback(ctx, ""); got != fail {
		t.Fatalf("missing reference: %s", got)
	}
	if got := f.svc.PaystackCallback(ctx, "ref_unknown"); got != fail {
		t.Fatalf("verification error: %s", got)
	}

	f.paystack.verification = &paystack.Verification{Status: "abandoned"}
	if got := f.svc.PaystackCallback(ctx, "ref_1"); got != fail {
		t.Fatalf("unsuccessful payment: %s", got)
	}

	// a token payment cannot buy a plan
	f.paystack.verification = &paystack.Verification{
		Status:   "success",
		Amount:   100,
		Currency: "NGN",
		Metadata: map[string]string{"workspace_id": f.ws.ID.String(), "plan": "team"},
		Customer: paystack.Customer{CustomerCode: "CUS_abc"},
	}
	if got := f.svc.PaystackCallback(ctx, "ref_1"); got != fail {
		t.Fatalf("underpaid charge: %s", got)
	}
	if ws := f.workspace(t); ws.Plan != entities.PlanFree {
		t.Fatalf("underpaid charge changed the plan to %s", ws.Plan)
	}

	f.paystack.verification = &paystack.Verification{
		Status:   "success",
		Amount:   1900,
		Currency: "USD",
		Metadata: map[string]string{"workspace_id": f.ws.ID.String(), "plan": "pro"},
		Customer: paystack.Customer{CustomerCode: "CUS_abc"},
	}
	for i := 0; i < 2; i++ {
		if got := f.svc.PaystackCallback(ctx, "ref_1"); got != "https://app.example.com/dashboard/billing?success=true" {
			t.Fatalf("successful payment: %s", got)
		}
	}
	ws := f.workspace(t)
	if ws.Plan != entities.PlanPro || ws.PaystackCustomerCode == nil || *ws.PaystackCustomerCode != "CUS_abc" {
		t.Fatalf("plan not applied: %+v", ws)
	}
}

func TestPaystackWebhook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	underpaid := []byte(`{"event":"charge.success","data":{"reference":"ref_3","status":"success","amount":100,"currency":"NGN",
		"metadata":{"workspace_id":"` + f.ws.ID.String() + `","plan":"team"},
		"customer":{"email":"ada@example.com","customer_code":"CUS_xyz"}}}`)
	if err := f.svc.HandlePaystackWebhook(ctx, underpaid, "sig"); err != nil {
		t.Fatalf("underpaid charge should be acknowledged, got %v", err)
	}
	if ws := f.workspace(t); ws.Plan != entities.PlanFree {
		t.Fatalf("underpaid charge changed the plan to %s", ws.Plan)
	}

	charge := []byte(`{"event":"charge.success","data":{"reference":"ref_2","status":"success","amount":4450000,"currency":"NGN",
		"metadata":{"workspace_id":"` + f.ws.ID.String() + `","plan":"team"},
		"customer":{"email":"ada@example.com","customer_code":"CUS_xyz"}}}`)
	if err := f.svc.HandlePaystackWebhook(ctx, charge, "sig"); err != nil {
		t.Fatalf("charge.success: %v", err)
	}
	if ws := f.workspace(t); ws.Plan != entities.PlanTeam {
		t.Fatalf("expected team, got %s", ws.Plan)
	}

	sub := []byte(`{"event":"subscription.create","data":{"subscription_code":"SUB_1","customer":{"customer_code":"CUS_xyz"}}}`)
	if err := f.svc.HandlePaystackWebhook(ctx, sub, "sig"); err != nil {
		t.Fatalf("subscription.create: %v", err)
	}
	if ws := f.workspace(t); ws.PaystackSubscriptionCode == nil || *ws.PaystackSubscriptionCode != "SUB_1" {
		t.Fatalf("subscription code not stored: %+v", ws)
	}

	disable := []byte(`{"event":"subscription.disable","data":{"subscription_code":"SUB_1","customer":{"customer_code":"CUS_xyz"}}}`)
	if err := f.svc.HandlePaystackWebhook(ctx, disable, "sig"); err != nil {
		t.Fatalf("subscription.disable: %v", err)
	}
	if ws := f.workspace(t); ws.Plan != entities.PlanFree || *ws.SubscriptionStatus != entities.SubscriptionCanceled {
		t.Fatalf("expected free/canceled, got %+v", ws)
	}

	f.paystack.validSig = false
	if err := f.svc.HandlePaystackWebhook(ctx, charge, "forged"); code(t, err) != errors.ErrorCode_WEBHOOK_INVALID_SIGNATURE {
		t.Fatalf("expected invalid signature, got %v", err)
	}
}

func TestPaystackWebhook_UnknownWorkspaceIsAcknowledged(t *testing.T) {
	f := newFixture(t)
	body := []byte(`{"event":"charge.success","data":{"amount":1900,"currency":"USD",
		"metadata":{"workspace_id":"` + uuid.NewString() + `","plan":"pro"}}}`)
	if err := f.svc.HandlePaystackWebhook(context.Background(), body, "sig"); err != nil {
		t.Fatalf("expected ack, got %v", err)
	}
}
