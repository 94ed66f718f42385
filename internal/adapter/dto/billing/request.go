package billing

// StripeCheckoutRequest starts a Stripe subscription checkout
type StripeCheckoutRequest struct {
	Plan string `json:"plan" validate:"required"`
}

// PaystackCheckoutRequest starts a Paystack transaction. Currency defaults to USD.
type PaystackCheckoutRequest struct {
	Plan     string `json:"plan" validate:"required"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

// PortalResponse carries the Stripe billing portal URL
type PortalResponse struct {
	URL string `json:"url"`
}
