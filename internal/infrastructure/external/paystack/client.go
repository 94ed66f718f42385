package paystack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/johnquangdev/meeting-actions/pkg/config"
	"github.com/johnquangdev/meeting-actions/pkg/httpclient"
	"github.com/johnquangdev/meeting-actions/pkg/signature"
)

var (
	// ErrNotConfigured is returned when no secret key is set
	ErrNotConfigured = errors.New("PAYSTACK_SECRET_KEY is not set")

	// ErrPlaceholderKey is returned when the secret key is a placeholder value
	ErrPlaceholderKey = errors.New("PAYSTACK_SECRET_KEY is set to a placeholder value")
)

// Channels offered at checkout
var Channels = []string{"card", "bank", "ussd", "mobile_money"}

// Client calls the Paystack transaction API
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Paystack client
func NewClient(cfg config.PaystackConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.paystack.co"
	}
	return &Client{secretKey: cfg.SecretKey, baseURL: base, httpClient: httpClient}
}

// CheckKey rejects a missing or placeholder secret key
func (c *Client) CheckKey() error {
	key := c.secretKey
	if key == "" {
		return ErrNotConfigured
	}
	if strings.Contains(key, "your_key_here") || strings.Contains(key, "your_paystack_key") ||
		strings.Contains(key, "***") || len(key) < 20 {
		return ErrPlaceholderKey
	}
	return nil
}

// InitializeInput describes a transaction to start
type InitializeInput struct {
	Email       string
	Amount      int64
	Currency    string
	CallbackURL string
	Metadata    map[string]string
}

// Transaction is an initialized transaction
type Transaction struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Customer is the payer of a transaction
type Customer struct {
	Email        string `json:"email"`
	CustomerCode string `json:"customer_code"`
}

// Verification is the verified state of a transaction
type Verification struct {
	Status    string            `json:"status"`
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Metadata  map[string]string `json:"-"`
	Customer  Customer          `json:"customer"`
}

// Success reports whether the payment went through
func (v *Verification) Success() bool {
	return v.Status == "success"
}

type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// Initialize starts a transaction and returns the hosted payment page
func (c *Client) Initialize(ctx context.Context, in InitializeInput) (*Transaction, error) {
	if err := c.CheckKey(); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"email":        in.Email,
		"amount":       in.Amount,
		"currency":     in.Currency,
		"callback_url": in.CallbackURL,
		"metadata":     in.Metadata,
		"channels":     Channels,
	}
	var resp struct {
		envelope
		Data Transaction `json:"data"`
	}
	if err := httpclient.DoJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+"/transaction/initialize", httpclient.Bearer(c.secretKey), body, &resp); err != nil {
		return nil, fmt.Errorf("failed to create paystack transaction: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("failed to create paystack transaction: %s", resp.Message)
	}
	return &resp.Data, nil
}

// Verify looks up a transaction by reference
func (c *Client) Verify(ctx context.Context, reference string) (*Verification, error) {
	if err := c.CheckKey(); err != nil {
		return nil, err
	}

	var resp struct {
		envelope
		Data struct {
			Verification
			Metadata interface{} `json:"metadata"`
		} `json:"data"`
	}
	endpoint := c.baseURL + "/transaction/verify/" + url.PathEscape(reference)
	if err := httpclient.DoJSON(ctx, c.httpClient, http.MethodGet, endpoint, httpclient.Bearer(c.secretKey), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to verify paystack transaction: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("failed to verify paystack transaction: %s", resp.Message)
	}

	v := resp.Data.Verification
	v.Metadata = StringMap(resp.Data.Metadata)
	return &v, nil
}

// VerifySignature checks x-paystack-signature, an HMAC-SHA512 of the body keyed by the secret key
func (c *Client) VerifySignature(body []byte, sig string) bool {
	if c.secretKey == "" || sig == "" {
		return false
	}
	return signature.VerifyHMACSHA512(c.secretKey, body, sig)
}

// StringMap flattens Paystack metadata, which may arrive as an object or as an empty string
func StringMap(v interface{}) map[string]string {
	out := map[string]string{}
	m, ok := v.(map[string]interface{})
	if !ok {
		return out
	}
	for k, val := range m {
		switch t := val.(type) {
		case string:
			out[k] = t
		case float64, bool:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}
