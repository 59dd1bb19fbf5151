package order

import (
	"fmt"
	"strings"

	"github.com/hunglai117/handcraft-interface/internal/cart"
)

// ShippingAddress is the delivery destination entered at checkout.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Email    string `json:"email,omitempty"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zipCode,omitempty"`
}

// Validate checks the required fields. Blank-after-trim counts as missing.
func (a ShippingAddress) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"phone", a.Phone},
		{"address", a.Address},
		{"city", a.City},
		{"country", a.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{MissingFields: missing}
	}
	return nil
}

// ValidationError reports locally rejected input. No remote call has been
// made when it is returned.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required shipping fields: %s", strings.Join(e.MissingFields, ", "))
}

// Item is an order line, value-copied from the cart at placement. The cart
// may be cleared or mutated afterwards without affecting it.
type Item struct {
	ID               string              `json:"id"`
	OrderID          string              `json:"orderId,omitempty"`
	ProductVariantID string              `json:"productVariantId"`
	ProductVariant   cart.ProductVariant `json:"productVariant"`
	Quantity         int                 `json:"quantity"`
	UnitPrice        float64             `json:"unitPrice"`
	TotalPrice       float64             `json:"totalPrice"`
}

type Order struct {
	ID            string          `json:"id"`
	OrderStatus   Status          `json:"orderStatus"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	TotalAmount   float64         `json:"totalAmount"`
	ShippingInfo  ShippingAddress `json:"shippingInfo"`
	OrderItems    []Item          `json:"orderItems"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PaymentURL    string          `json:"paymentUrl,omitempty"`
}

// CanCancel reports whether the client may request cancellation: only before
// fulfilment starts and only while payment has not completed. The server
// enforces the same rule authoritatively; this gate just avoids doomed
// requests.
func (o *Order) CanCancel() bool {
	if o == nil {
		return false
	}
	if o.OrderStatus != StatusPending && o.OrderStatus != StatusProcessing {
		return false
	}
	return o.PaymentStatus != PaymentCompleted
}

// PromotionRef names a verified promo code on a placement request.
type PromotionRef struct {
	Code string `json:"code"`
}

type PaymentInfo struct {
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// PlaceOrderRequest is the wire payload for POST /orders. Items carries cart
// item IDs only; the server reprices from current variant state.
type PlaceOrderRequest struct {
	ShippingInfo ShippingAddress `json:"shippingInfo"`
	PaymentInfo  PaymentInfo     `json:"paymentInfo"`
	Promotion    *PromotionRef   `json:"promotion,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Items        []string        `json:"items"`
}

// Page is a paginated order listing.
type Page struct {
	Items       []Order `json:"items"`
	Total       int     `json:"total"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	TotalPages  int     `json:"totalPages"`
	HasNextPage bool    `json:"hasNextPage"`
	HasPrevPage bool    `json:"hasPrevPage"`
}
