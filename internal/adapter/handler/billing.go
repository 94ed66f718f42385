package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/johnquangdev/meeting-actions/internal/adapter/dto/billing"
	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-actions/internal/usecase/billing"
)

// BillingService is the billing surface the handler uses
type BillingService interface {
	StripeCheckout(ctx context.Context, workspaceID, userID uuid.UUID, plan string) (*billing.CheckoutResponse, error)
	StripePortal(ctx context.Context, workspaceID uuid.UUID) (string, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
	PaystackCheckout(ctx context.Context, workspaceID, userID uuid.UUID, plan, currency string) (*billing.CheckoutResponse, error)
	PaystackCallback(ctx context.Context, reference string) string
	HandlePaystackWebhook(ctx context.Context, body []byte, signature string) error
}

// Billing handles subscription checkout and payment provider webhooks
type Billing struct {
	service BillingService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(service BillingService, m *metrics.Metrics, logger *zap.Logger) *Billing {
	return &Billing{service: service, metrics: m, logger: logger}
}

// StripeCheckout godoc
// @Summary      Start a Stripe subscription checkout
// @Tags         Billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        workspace_id  path  string                        true  "Workspace ID"
// @Param        body          body  billing.StripeCheckoutRequest  true  "Plan"
// @Success      200  {object}  billing.CheckoutResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      503  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/billing/stripe/checkout [post]
func (h *Billing) StripeCheckout(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	var req dto.StripeCheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	out, err := h.service.StripeCheckout(c.Request().Context(), workspaceID, userID, req.Plan)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, out)
}

// StripePortal godoc
// @Summary      Open the Stripe billing portal
// @Tags         Billing
// @Security     BearerAuth
// @Produce      json
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Success      200  {object}  billing.PortalResponse
// @Failure      400  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/billing/stripe/portal [post]
func (h *Billing) StripePortal(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	url, err := h.service.StripePortal(c.Request().Context(), workspaceID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.PortalResponse{URL: url})
}

// PaystackCheckout godoc
// @Summary      Start a Paystack payment
// @Tags         Billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        workspace_id  path  string                          true  "Workspace ID"
// @Param        body          body  billing.PaystackCheckoutRequest  true  "Plan and currency"
// @Success      200  {object}  billing.CheckoutResponse
// @Failure      400  {object}  common.ErrorResponse
// @Router       /v1/workspaces/{workspace_id}/billing/paystack/checkout [post]
func (h *Billing) PaystackCheckout(c echo.Context) error {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	var req dto.PaystackCheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	out, err := h.service.PaystackCheckout(c.Request().Context(), workspaceID, userID, req.Plan, req.Currency)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, out)
}

// PaystackCallback godoc
// @Summary      Paystack redirect after payment
// @Tags         Billing
// @Param        reference  query  string  true  "Transaction reference"
// @Success      302
// @Router       /v1/billing/paystack/callback [get]
func (h *Billing) PaystackCallback(c echo.Context) error {
	target := h.service.PaystackCallback(c.Request().Context(), c.QueryParam("reference"))
	return c.Redirect(http.StatusFound, target)
}

// StripeWebhook godoc
// @Summary      Stripe events
// @Tags         Webhooks
// @Accept       json
// @Param        Stripe-Signature  header  string  true  "Stripe signature"
// @Success      200  {object}  common.SuccessResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /v1/webhooks/stripe [post]
func (h *Billing) StripeWebhook(c echo.Context) error {
	return h.webhook(c, "stripe", c.Request().Header.Get("Stripe-Signature"), h.service.HandleStripeWebhook)
}

// PaystackWebhook godoc
// @Summary      Paystack events
// @Tags         Webhooks
// @Accept       json
// @Param        x-paystack-signature  header  string  true  "HMAC-SHA512 of the body"
// @Success      200  {object}  common.SuccessResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /v1/webhooks/paystack [post]
func (h *Billing) PaystackWebhook(c echo.Context) error {
	return h.webhook(c, "paystack", c.Request().Header.Get("x-paystack-signature"), h.service.HandlePaystackWebhook)
}

func (h *Billing) webhook(c echo.Context, source, signature string, handle func(context.Context, []byte, string) error) error {
	body, err := readBody(c)
	if err != nil {
		h.metrics.WebhookReceived(source, "rejected")
		return HandleError(h.logger, c, err)
	}
	if err := handle(c.Request().Context(), body, signature); err != nil {
		h.metrics.WebhookReceived(source, "rejected")
		return HandleError(h.logger, c, err)
	}
	h.metrics.WebhookReceived(source, "accepted")
	return HandleSuccess(h.logger, c, map[string]bool{"received": true})
}
