package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/pkg/config"
	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// ErrNotConfigured is returned when no secret key is set
var ErrNotConfigured = errors.New("stripe is not configured")

// Client wraps the Stripe API for subscriptions
type Client struct {
	api           *client.API
	configured    bool
	webhookSecret string
	prices        map[entities.PlanType]string
}

// NewClient creates a Stripe client. apiURL overrides the API host when non-empty.
func NewClient(cfg config.StripeConfig, httpClient *http.Client, apiURL string) *Client {
	backendCfg := &stripego.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripego.Int64(2),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelError},
	}
	if apiURL != "" {
		backendCfg.URL = stripego.String(apiURL)
	}
	backends := &stripego.Backends{
		API:     stripego.GetBackendWithConfig(stripego.APIBackend, backendCfg),
		Connect: stripego.GetBackendWithConfig(stripego.ConnectBackend, backendCfg),
		Uploads: stripego.GetBackendWithConfig(stripego.UploadsBackend, backendCfg),
	}

	return &Client{
		api:           client.New(cfg.SecretKey, backends),
		configured:    cfg.SecretKey != "",
		webhookSecret: cfg.WebhookSecret,
		prices: map[entities.PlanType]string{
			entities.PlanPro:  cfg.PriceIDPro,
			entities.PlanTeam: cfg.PriceIDTeam,
		},
	}
}

// Configured reports whether a secret key is set
func (c *Client) Configured() bool {
	return c.configured
}

// PriceFor returns the Stripe price of a paid plan
func (c *Client) PriceFor(plan entities.PlanType) (string, bool) {
	price := c.prices[plan]
	return price, price != ""
}

// PlanForPrice maps a Stripe price back to a plan
func (c *Client) PlanForPrice(priceID string) (entities.PlanType, bool) {
	for plan, price := range c.prices {
		if price != "" && price == priceID {
			return plan, true
		}
	}
	return "", false
}

// CheckoutInput describes a subscription checkout
type CheckoutInput struct {
	Plan       entities.PlanType
	CustomerID string
	Email      string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutSession is a created checkout session
type CheckoutSession struct {
	ID  string
	URL string
}

// CreateCheckoutSession creates a subscription checkout session for a plan
func (c *Client) CreateCheckoutSession(in CheckoutInput) (*CheckoutSession, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}
	price, ok := c.PriceFor(in.Plan)
	if !ok {
		return nil, fmt.Errorf("no stripe price configured for plan %q", in.Plan)
	}

	params := &stripego.CheckoutSessionParams{
		Mode: stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{Price: stripego.String(price), Quantity: stripego.Int64(1)},
		},
		SuccessURL: stripego.String(in.SuccessURL),
		CancelURL:  stripego.String(in.CancelURL),
		Metadata:   in.Metadata,
		SubscriptionData: &stripego.CheckoutSessionSubscriptionDataParams{
			Metadata: in.Metadata,
		},
	}
	if in.CustomerID != "" {
		params.Customer = stripego.String(in.CustomerID)
	} else if in.Email != "" {
		params.CustomerEmail = stripego.String(in.Email)
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// CreatePortalSession creates a billing portal session and returns its URL
func (c *Client) CreatePortalSession(customerID, returnURL string) (string, error) {
	if !c.configured {
		return "", ErrNotConfigured
	}
	sess, err := c.api.BillingPortalSessions.New(&stripego.BillingPortalSessionParams{
		Customer:  stripego.String(customerID),
		ReturnURL: stripego.String(returnURL),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return sess.URL, nil
}

// Event is the part of a webhook event billing cares about
type Event struct {
	ID             string
	Type           string
	CustomerID     string
	SubscriptionID string
	Status         string
	PriceID        string
	Metadata       map[string]string
}

// ParseEvent verifies the Stripe-Signature header and decodes the event
func (c *Client) ParseEvent(payload []byte, signature string) (*Event, error) {
	if c.webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	raw, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("invalid stripe signature: %w", err)
	}

	ev := &Event{ID: raw.ID, Type: string(raw.Type)}
	if raw.Data == nil {
		return ev, nil
	}

	switch raw.Type {
	case "checkout.session.completed":
		var s stripego.CheckoutSession
		if err := json.Unmarshal(raw.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		ev.Metadata = s.Metadata
		if s.Customer != nil {
			ev.CustomerID = s.Customer.ID
		}
		if s.Subscription != nil {
			ev.SubscriptionID = s.Subscription.ID
		}
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var s stripego.Subscription
		if err := json.Unmarshal(raw.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}
		ev.SubscriptionID = s.ID
		ev.Status = string(s.Status)
		ev.Metadata = s.Metadata
		if s.Customer != nil {
			ev.CustomerID = s.Customer.ID
		}
		if s.Items != nil && len(s.Items.Data) > 0 && s.Items.Data[0].Price != nil {
			ev.PriceID = s.Items.Data[0].Price.ID
		}
	case "invoice.payment_succeeded", "invoice.payment_failed":
		var inv stripego.Invoice
		if err := json.Unmarshal(raw.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("failed to decode invoice: %w", err)
		}
		if inv.Customer != nil {
			ev.CustomerID = inv.Customer.ID
		}
	}
	return ev, nil
}
