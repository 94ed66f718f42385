package entities

import "strings"

// PlanType is a subscription tier
type PlanType string

const (
	PlanFree PlanType = "free"
	PlanPro  PlanType = "pro"
	PlanTeam PlanType = "team"
)

// Unlimited marks a plan limit with no cap
const Unlimited = -1

// IsValid checks if the plan is known
func (p PlanType) IsValid() bool {
	switch p {
	case PlanFree, PlanPro, PlanTeam:
		return true
	}
	return false
}

// IsPaid reports whether the plan can be purchased
func (p PlanType) IsPaid() bool {
	return p == PlanPro || p == PlanTeam
}

// PlanLimits are the per-month quotas of a plan
type PlanLimits struct {
	MeetingsPerMonth int `json:"meetings_per_month"`
	ActionsPerMonth  int `json:"actions_per_month"`
	Integrations     int `json:"integrations"`
}

// Plan describes a pricing tier
type Plan struct {
	Type     PlanType   `json:"type"`
	Name     string     `json:"name"`
	PriceUSD int        `json:"price_usd"`
	Limits   PlanLimits `json:"limits"`
}

// Plans lists the pricing tiers
var Plans = map[PlanType]Plan{
	PlanFree: {
		Type:     PlanFree,
		Name:     "Free",
		PriceUSD: 0,
		Limits:   PlanLimits{MeetingsPerMonth: 10, ActionsPerMonth: 100, Integrations: 2},
	},
	PlanPro: {
		Type:     PlanPro,
		Name:     "Pro",
		PriceUSD: 19,
		Limits:   PlanLimits{MeetingsPerMonth: Unlimited, ActionsPerMonth: Unlimited, Integrations: Unlimited},
	},
	PlanTeam: {
		Type:     PlanTeam,
		Name:     "Team",
		PriceUSD: 99,
		Limits:   PlanLimits{MeetingsPerMonth: Unlimited, ActionsPerMonth: Unlimited, Integrations: Unlimited},
	},
}

// LimitsFor returns the limits of p, falling back to the free tier
func LimitsFor(p PlanType) PlanLimits {
	if plan, ok := Plans[p]; ok {
		return plan.Limits
	}
	return Plans[PlanFree].Limits
}

// WithinLimit reports whether one more unit fits under limit given used
func WithinLimit(limit, used int) bool {
	return limit == Unlimited || used < limit
}

// Paystack prices in the currency's minor unit (kobo, pesewas, cents)
var paystackPrices = map[PlanType]map[string]int64{
	PlanPro: {
		"NGN": 850000,
		"GHS": 11400,
		"ZAR": 35000,
		"USD": 1900,
	},
	PlanTeam: {
		"NGN": 4450000,
		"GHS": 59400,
		"ZAR": 182500,
		"USD": 9900,
	},
}

// PaystackAmount returns the charge for plan in currency
func PaystackAmount(plan PlanType, currency string) (int64, bool) {
	prices, ok := paystackPrices[plan]
	if !ok {
		return 0, false
	}
	amount, ok := prices[strings.ToUpper(currency)]
	return amount, ok
}
