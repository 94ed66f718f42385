// Package billing sells plans through Stripe subscriptions and Paystack
// transactions and keeps workspace plans in step with provider events.
package billing

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/domain/repositories"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/paystack"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/stripe"
)

const (
	providerStripe   = "stripe"
	providerPaystack = "paystack"

	defaultCurrency = "USD"
)

// StripeAPI is the Stripe surface billing uses
type StripeAPI interface {
	Configured() bool
	PlanForPrice(priceID string) (entities.PlanType, bool)
	CreateCheckoutSession(in stripe.CheckoutInput) (*stripe.CheckoutSession, error)
	CreatePortalSession(customerID, returnURL string) (string, error)
	ParseEvent(payload []byte, signature string) (*stripe.Event, error)
}

// PaystackAPI is the Paystack surface billing uses
type PaystackAPI interface {
	CheckKey() error
	Initialize(ctx context.Context, in paystack.InitializeInput) (*paystack.Transaction, error)
	Verify(ctx context.Context, reference string) (*paystack.Verification, error)
	VerifySignature(body []byte, sig string) bool
}

// Service implements checkout, the billing portal and provider webhooks
type Service struct {
	workspaces repositories.WorkspaceRepository
	users      repositories.UserRepository
	stripe     StripeAPI
	paystack   PaystackAPI
	appURL     string
	logger     *zap.Logger
}

// NewService creates a billing service
func NewService(
	workspaces repositories.WorkspaceRepository,
	users repositories.UserRepository,
	stripeAPI StripeAPI,
	paystackAPI PaystackAPI,
	appURL string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		workspaces: workspaces,
		users:      users,
		stripe:     stripeAPI,
		paystack:   paystackAPI,
		appURL:     strings.TrimRight(appURL, "/"),
		logger:     logger,
	}
}

// CheckoutResponse is where to send the user to pay
type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id,omitempty"`
	Reference string `json:"reference,omitempty"`
}

func paidPlan(plan string) (entities.PlanType, error) {
	p := entities.PlanType(strings.ToLower(strings.TrimSpace(plan)))
	if !p.IsPaid() {
		return "", errors.ErrInvalidPlan(plan)
	}
	return p, nil
}

func (s *Service) payer(ctx context.Context, workspaceID, userID uuid.UUID) (*entities.Workspace, *entities.User, error) {
	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrWorkspaceNotFound) {
			return nil, nil, errors.ErrWorkspaceNotFound(workspaceID.String())
		}
		return nil, nil, errors.ErrInternal(err)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, nil, errors.ErrUserNotFound()
		}
		return nil, nil, errors.ErrInternal(err)
	}
	return ws, user, nil
}

func billingMetadata(workspaceID, userID uuid.UUID, plan entities.PlanType) map[string]string {
	return map[string]string{
		"user_id":      userID.String(),
		"workspace_id": workspaceID.String(),
		"plan":         string(plan),
	}
}

// StripeCheckout starts a subscription checkout for a paid plan
func (s *Service) StripeCheckout(ctx context.Context, workspaceID, userID uuid.UUID, plan string) (*CheckoutResponse, error) {
	p, err := paidPlan(plan)
	if err != nil {
		return nil, err
	}
	if s.stripe == nil || !s.stripe.Configured() {
		return nil, errors.ErrBillingNotConfigured(providerStripe)
	}
	ws, user, err := s.payer(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	in := stripe.CheckoutInput{
		Plan:       p,
		Email:      user.Email,
		SuccessURL: s.appURL + "/dashboard?success=true",
		CancelURL:  s.appURL + "/dashboard/billing?canceled=true",
		Metadata:   billingMetadata(ws.ID, user.ID, p),
	}
	if ws.StripeCustomerID != nil {
		in.CustomerID = *ws.StripeCustomerID
	}

	sess, err := s.stripe.CreateCheckoutSession(in)
	if err != nil {
		return nil, errors.ErrBillingProviderFailed(providerStripe, err)
	}
	s.logger.Info("💳 Stripe checkout created",
		zap.String("workspace_id", ws.ID.String()),
		zap.String("plan", string(p)),
		zap.String("session_id", sess.ID),
	)
	return &CheckoutResponse{URL: sess.URL, SessionID: sess.ID}, nil
}

// StripePortal returns a billing portal link for the workspace's Stripe customer
func (s *Service) StripePortal(ctx context.Context, workspaceID uuid.UUID) (string, error) {
	if s.stripe == nil || !s.stripe.Configured() {
		return "", errors.ErrBillingNotConfigured(providerStripe)
	}
	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrWorkspaceNotFound) {
			return "", errors.ErrWorkspaceNotFound(workspaceID.String())
		}
		return "", errors.ErrInternal(err)
	}
	if ws.StripeCustomerID == nil || *ws.StripeCustomerID == "" {
		return "", errors.ErrNoBillingCustomer()
	}

	portal, err := s.stripe.CreatePortalSession(*ws.StripeCustomerID, s.appURL+"/dashboard/billing")
	if err != nil {
		return "", errors.ErrBillingProviderFailed(providerStripe, err)
	}
	return portal, nil
}

// HandleStripeWebhook verifies and applies a Stripe event. Events for
// workspaces we cannot find are acknowledged and logged.
func (s *Service) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.stripe == nil {
		return errors.ErrBillingNotConfigured(providerStripe)
	}
	ev, err := s.stripe.ParseEvent(payload, signature)
	if err != nil {
		if stdErrors.Is(err, stripe.ErrNotConfigured) {
			return errors.ErrBillingNotConfigured(providerStripe)
		}
		s.logger.Warn("⚠️ Rejected stripe webhook", zap.Error(err))
		return errors.ErrInvalidSignature(providerStripe)
	}

	log := s.logger.With(zap.String("event_id", ev.ID), zap.String("event_type", ev.Type))

	var (
		wsID   uuid.UUID
		update repositories.BillingUpdate
	)
	switch ev.Type {
	case "checkout.session.completed":
		wsID, _ = uuid.Parse(ev.Metadata["workspace_id"])
		update.SubscriptionStatus = ptr(entities.SubscriptionActive)
		update.StripeCustomerID = nonEmpty(ev.CustomerID)
		update.StripeSubscriptionID = nonEmpty(ev.SubscriptionID)
		if p := entities.PlanType(ev.Metadata["plan"]); p.IsPaid() {
			update.Plan = &p
		}

	case "customer.subscription.created", "customer.subscription.updated":
		wsID = s.stripeWorkspace(ctx, ev)
		update.StripeSubscriptionID = nonEmpty(ev.SubscriptionID)
		update.SubscriptionStatus = nonEmpty(ev.Status)
		if p, ok := s.stripe.PlanForPrice(ev.PriceID); ok {
			update.Plan = &p
		}

	case "customer.subscription.deleted":
		wsID = s.stripeWorkspace(ctx, ev)
		free := entities.PlanFree
		update.Plan = &free
		update.SubscriptionStatus = ptr(entities.SubscriptionCanceled)

	case "invoice.payment_succeeded":
		log.Info("💰 Stripe invoice paid", zap.String("customer_id", ev.CustomerID))
		return nil

	case "invoice.payment_failed":
		wsID = s.stripeWorkspace(ctx, ev)
		update.SubscriptionStatus = ptr(entities.SubscriptionPastDue)

	default:
		log.Debug("Ignoring stripe event")
		return nil
	}

	return s.apply(ctx, log, wsID, update)
}

// stripeWorkspace resolves the workspace of an event by customer, then by metadata
func (s *Service) stripeWorkspace(ctx context.Context, ev *stripe.Event) uuid.UUID {
	if ev.CustomerID != "" {
		if ws, err := s.workspaces.FindByStripeCustomer(ctx, ev.CustomerID); err == nil {
			return ws.ID
		}
	}
	id, _ := uuid.Parse(ev.Metadata["workspace_id"])
	return id
}

func (s *Service) apply(ctx context.Context, log *zap.Logger, wsID uuid.UUID, update repositories.BillingUpdate) error {
	if wsID == uuid.Nil {
		log.Warn("⚠️ Billing event matches no workspace")
		return nil
	}
	if err := s.workspaces.ApplyBilling(ctx, wsID, update); err != nil {
		if stdErrors.Is(err, entities.ErrWorkspaceNotFound) {
			log.Warn("⚠️ Billing event for unknown workspace", zap.String("workspace_id", wsID.String()))
			return nil
		}
		return errors.ErrInternal(err)
	}

	fields := []zap.Field{zap.String("workspace_id", wsID.String())}
	if update.Plan != nil {
		fields = append(fields, zap.String("plan", string(*update.Plan)))
	}
	if update.SubscriptionStatus != nil {
		fields = append(fields, zap.String("status", *update.SubscriptionStatus))
	}
	log.Info("🧾 Workspace billing updated", fields...)
	return nil
}

// PaystackCheckout initializes a one-off Paystack transaction for a paid plan
func (s *Service) PaystackCheckout(ctx context.Context, workspaceID, userID uuid.UUID, plan, currency string) (*CheckoutResponse, error) {
	if s.paystack == nil {
		return nil, errors.ErrBillingNotConfigured(providerPaystack)
	}
	if err := s.paystack.CheckKey(); err != nil {
		return nil, errors.ErrBillingNotConfigured(providerPaystack).WithDetail("reason", err.Error())
	}
	p, err := paidPlan(plan)
	if err != nil {
		return nil, err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = defaultCurrency
	}
	amount, ok := entities.PaystackAmount(p, currency)
	if !ok {
		return nil, errors.ErrInvalidArgument("currency must be one of NGN, GHS, ZAR, USD")
	}
	ws, user, err := s.payer(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.paystack.Initialize(ctx, paystack.InitializeInput{
		Email:       user.Email,
		Amount:      amount,
		Currency:    currency,
		CallbackURL: s.appURL + "/v1/billing/paystack/callback",
		Metadata:    billingMetadata(ws.ID, user.ID, p),
	})
	if err != nil {
		return nil, errors.ErrBillingProviderFailed(providerPaystack, err)
	}
	s.logger.Info("💳 Paystack transaction initialized",
		zap.String("workspace_id", ws.ID.String()),
		zap.String("plan", string(p)),
		zap.String("currency", currency),
		zap.String("reference", tx.Reference),
	)
	return &CheckoutResponse{URL: tx.AuthorizationURL, Reference: tx.Reference}, nil
}

// PaystackCallback verifies the transaction the user returned from and
// returns the dashboard URL to redirect to
func (s *Service) PaystackCallback(ctx context.Context, reference string) string {
	fail := s.appURL + "/dashboard/billing?" + url.Values{"error": {"payment_failed"}}.Encode()
	if reference == "" || s.paystack == nil {
		return fail
	}

	v, err := s.paystack.Verify(ctx, reference)
	if err != nil {
		s.logger.Error("paystack verification failed", zap.String("reference", reference), zap.Error(err))
		return fail
	}
	if !v.Success() {
		s.logger.Warn("⚠️ Paystack payment not successful",
			zap.String("reference", reference),
			zap.String("status", v.Status),
		)
		return fail
	}

	log := s.logger.With(zap.String("reference", reference))
	charge := paystackCharge{Metadata: v.Metadata, Amount: v.Amount, Currency: v.Currency, CustomerCode: v.Customer.CustomerCode}
	if err := s.applyPaystackCharge(ctx, log, charge); err != nil {
		log.Error("failed to apply paystack plan", zap.Error(err))
		return fail
	}
	return s.appURL + "/dashboard/billing?success=true"
}

// paystackEvent is the webhook envelope
type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference        string             `json:"reference"`
		Status           string             `json:"status"`
		Amount           int64              `json:"amount"`
		Currency         string             `json:"currency"`
		Metadata         interface{}        `json:"metadata"`
		SubscriptionCode string             `json:"subscription_code"`
		Customer         *paystack.Customer `json:"customer"`
	} `json:"data"`
}

// HandlePaystackWebhook verifies x-paystack-signature and applies the event
func (s *Service) HandlePaystackWebhook(ctx context.Context, body []byte, signature string) error {
	if s.paystack == nil {
		return errors.ErrBillingNotConfigured(providerPaystack)
	}
	if !s.paystack.VerifySignature(body, signature) {
		return errors.ErrInvalidSignature(providerPaystack)
	}

	var ev paystackEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return errors.ErrInvalidPayload()
	}
	log := s.logger.With(zap.String("event_type", ev.Event), zap.String("reference", ev.Data.Reference))

	var customerCode string
	if ev.Data.Customer != nil {
		customerCode = ev.Data.Customer.CustomerCode
	}

	switch ev.Event {
	case "charge.success":
		err := s.applyPaystackCharge(ctx, log, paystackCharge{
			Metadata:     paystack.StringMap(ev.Data.Metadata),
			Amount:       ev.Data.Amount,
			Currency:     ev.Data.Currency,
			CustomerCode: customerCode,
		})
		if stdErrors.Is(err, errChargeMismatch) {
			return nil
		}
		return err

	case "subscription.create":
		ws, err := s.workspaces.FindByPaystackSubscription(ctx, "", customerCode)
		if err != nil {
			log.Warn("⚠️ Paystack subscription for unknown customer", zap.String("customer_code", customerCode))
			return nil
		}
		return s.apply(ctx, log, ws.ID, repositories.BillingUpdate{
			PaystackSubscriptionCode: nonEmpty(ev.Data.SubscriptionCode),
			SubscriptionStatus:       ptr(entities.SubscriptionActive),
		})

	case "subscription.disable":
		ws, err := s.workspaces.FindByPaystackSubscription(ctx, ev.Data.SubscriptionCode, customerCode)
		if err != nil {
			log.Warn("⚠️ Paystack subscription for unknown workspace", zap.String("subscription_code", ev.Data.SubscriptionCode))
			return nil
		}
		free := entities.PlanFree
		return s.apply(ctx, log, ws.ID, repositories.BillingUpdate{
			Plan:               &free,
			SubscriptionStatus: ptr(entities.SubscriptionCanceled),
		})

	default:
		log.Debug("Ignoring paystack event")
		return nil
	}
}

// errChargeMismatch marks a charge whose amount is not the price of its plan
var errChargeMismatch = stdErrors.New("paystack charge does not match the plan price")

// paystackCharge is a successful charge as Paystack reports it
type paystackCharge struct {
	Metadata     map[string]string
	Amount       int64
	Currency     string
	CustomerCode string
}

// applyPaystackCharge upgrades the workspace named in the charge metadata once
// the paid amount matches the plan's price. Applying the same charge twice
// leaves the same state.
func (s *Service) applyPaystackCharge(ctx context.Context, log *zap.Logger, c paystackCharge) error {
	wsID, err := uuid.Parse(c.Metadata["workspace_id"])
	if err != nil {
		log.Warn("⚠️ Paystack charge without workspace metadata")
		return nil
	}
	p := entities.PlanType(c.Metadata["plan"])
	if !p.IsPaid() {
		log.Warn("⚠️ Paystack charge without a paid plan", zap.String("plan", string(p)))
		return nil
	}
	if price, ok := entities.PaystackAmount(p, c.Currency); !ok || c.Amount != price {
		log.Warn("🚫 Paystack charge amount does not match the plan",
			zap.String("workspace_id", wsID.String()),
			zap.String("plan", string(p)),
			zap.Int64("amount", c.Amount),
			zap.String("currency", c.Currency),
		)
		return errChargeMismatch
	}
	return s.apply(ctx, log, wsID, repositories.BillingUpdate{
		Plan:                 &p,
		PaystackCustomerCode: nonEmpty(c.CustomerCode),
		SubscriptionStatus:   ptr(entities.SubscriptionActive),
	})
}

func ptr(s string) *string { return &s }

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
