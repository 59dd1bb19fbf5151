package promotion

import "time"

type Type string

const (
	TypePercentageDiscount  Type = "PERCENTAGE_DISCOUNT"
	TypeFixedAmountDiscount Type = "FIXED_AMOUNT_DISCOUNT"
	TypeFreeShipping        Type = "FREE_SHIPPING"
)

type Promotion struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	PromoCode          string    `json:"promoCode"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	Type               Type      `json:"type"`
	DiscountValue      float64   `json:"discountValue"`
	MinimumOrderAmount float64   `json:"minimumOrderAmount"`
	UsageLimit         int       `json:"usageLimit"`
	UsageCount         int       `json:"usageCount"`
	IsActive           bool      `json:"isActive"`
}

// EligibleAt reports whether the promotion itself can be applied at the given
// time: active, inside its validity window and under its usage limit. The
// minimum-order check is separate because it depends on the cart.
func (p *Promotion) EligibleAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return false
	}
	if p.UsageLimit > 0 && p.UsageCount >= p.UsageLimit {
		return false
	}
	return true
}

// MeetsMinimum reports whether a cart subtotal satisfies the promotion's
// minimum order amount.
func (p *Promotion) MeetsMinimum(subtotal float64) bool {
	return subtotal >= p.MinimumOrderAmount
}

// VerifyResult is the outcome of validating a promo code. Invalid codes are a
// normal result, not an error.
type VerifyResult struct {
	Valid     bool       `json:"valid"`
	Promotion *Promotion `json:"promotion,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// Applied records a promotion that was verified successfully in the current
// session. Only an Applied promotion may be attached to an order.
type Applied struct {
	Code      string
	Promotion Promotion
}
