package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnquangdev/meeting-actions/pkg/config"
	"github.com/johnquangdev/meeting-actions/pkg/signature"
)

const testKey = "sk_test_0123456789abcdefghij"

func TestCheckKey(t *testing.T) {
	cases := []struct {
		key  string
		want error
	}{
		{"", ErrNotConfigured},
		{"sk_test_your_key_here_xxxxxxx", ErrPlaceholderKey},
		{"sk_live_***************", ErrPlaceholderKey},
		{"sk_short", ErrPlaceholderKey},
		{testKey, nil},
	}
	for _, tc := range cases {
		c := NewClient(config.PaystackConfig{SecretKey: tc.key}, nil)
		if got := c.CheckKey(); got != tc.want {
			t.Fatalf("key %q: got %v want %v", tc.key, got, tc.want)
		}
	}
}

func TestInitialize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" || r.Header.Get("Authorization") != "Bearer "+testKey {
			t.Fatalf("unexpected request %s", r.URL.Path)
		}
		var body struct {
			Amount   int64             `json:"amount"`
			Currency string            `json:"currency"`
			Channels []string          `json:"channels"`
			Metadata map[string]string `json:"metadata"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Amount != 850000 || body.Currency != "NGN" || len(body.Channels) != 4 || body.Metadata["plan"] != "pro" {
			t.Fatalf("unexpected body %+v", body)
		}
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"ref-1"}}`))
	}))
	defer ts.Close()

	c := NewClient(config.PaystackConfig{SecretKey: testKey, BaseURL: ts.URL}, ts.Client())
	tx, err := c.Initialize(context.Background(), InitializeInput{
		Email: "ada@example.com", Amount: 850000, Currency: "NGN",
		Metadata: map[string]string{"plan": "pro"},
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if tx.Reference != "ref-1" || tx.AuthorizationURL != "https://checkout.paystack.com/abc" {
		t.Fatalf("unexpected transaction %+v", tx)
	}
}

func TestVerify(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/ref-1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","reference":"ref-1","amount":1900,"currency":"USD","metadata":{"workspace_id":"ws-1","plan":"pro"},"customer":{"email":"a@b.c","customer_code":"CUS_1"}}}`))
	}))
	defer ts.Close()

	c := NewClient(config.PaystackConfig{SecretKey: testKey, BaseURL: ts.URL}, ts.Client())
	v, err := c.Verify(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !v.Success() || v.Metadata["workspace_id"] != "ws-1" || v.Customer.CustomerCode != "CUS_1" {
		t.Fatalf("unexpected verification %+v", v)
	}
}

func TestVerify_EmptyMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"data":{"status":"abandoned","metadata":""}}`))
	}))
	defer ts.Close()

	c := NewClient(config.PaystackConfig{SecretKey: testKey, BaseURL: ts.URL}, ts.Client())
	v, err := c.Verify(context.Background(), "ref-2")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if v.Success() || len(v.Metadata) != 0 {
		t.Fatalf("unexpected verification %+v", v)
	}
}

func TestVerifySignature(t *testing.T) {
	c := NewClient(config.PaystackConfig{SecretKey: testKey}, nil)
	body := []byte(`{"event":"charge.success"}`)
	if !c.VerifySignature(body, signature.HMACSHA512(testKey, body)) {
		t.Fatalf("valid signature rejected")
	}
	if c.VerifySignature(body, "00") || c.VerifySignature(body, "") {
		t.Fatalf("invalid signature accepted")
	}
}
