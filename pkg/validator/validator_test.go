package validator

import "testing"

type checkoutRequest struct {
	Plan     string `json:"plan" validate:"required,oneof=pro team"`
	Currency string `json:"currency" validate:"omitempty,oneof=NGN GHS ZAR USD"`
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()

	if err := v.Validate(&checkoutRequest{Plan: "pro", Currency: "NGN"}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	err := v.Validate(&checkoutRequest{Plan: "enterprise", Currency: "EUR"})
	if err == nil {
		t.Fatal("invalid request accepted")
	}
	got := Describe(err)
	if got["plan"] != "oneof=pro team" {
		t.Fatalf("unexpected plan rule %q", got["plan"])
	}
	if got["currency"] != "oneof=NGN GHS ZAR USD" {
		t.Fatalf("unexpected currency rule %q", got["currency"])
	}
}

type pageQuery struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,max=100"`
}

func TestDescribe_QueryFieldNames(t *testing.T) {
	got := Describe(New().Validate(&pageQuery{Page: -1, PageSize: 500}))
	if got["page"] != "min=1" || got["page_size"] != "max=100" {
		t.Fatalf("unexpected details %v", got)
	}
	if len(Describe(nil)) != 0 {
		t.Fatal("nil error has no details")
	}
}
