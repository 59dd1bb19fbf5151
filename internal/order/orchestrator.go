package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hunglai117/handcraft-interface/internal/cart"
	"github.com/hunglai117/handcraft-interface/internal/promotion"
	"github.com/hunglai117/handcraft-interface/internal/session"
)

var (
	// ErrEmptyCart means placement was attempted against an empty cart. The
	// UI treats this as a normal state, not a failure.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotCancellable means the order has moved past the point where the
	// client may request cancellation.
	ErrNotCancellable = errors.New("order can no longer be cancelled")

	// ErrInvalidPaymentMethod means the placement request named an unknown
	// payment method.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// API is the slice of the remote commerce API the orchestrator needs.
type API interface {
	PlaceOrder(ctx context.Context, token string, req *PlaceOrderRequest) (*Order, error)
	CancelOrder(ctx context.Context, token, orderID string) (*Order, error)
	GetOrder(ctx context.Context, token, orderID string) (*Order, error)
	ListOrders(ctx context.Context, token string, page, limit int) (*Page, error)
}

// Carts is the cart manager surface used during placement.
type Carts interface {
	View(sessionID string) *cart.Cart
	Get(ctx context.Context, sess *session.Session) (*cart.Cart, error)
	Clear(ctx context.Context, sess *session.Session) (*cart.Cart, error)
}

// Promotions exposes the session's verified promotion.
type Promotions interface {
	Applied(sessionID string) *promotion.Applied
	Reset(sessionID string)
}

// PlaceOrderInput is what the checkout form submits.
type PlaceOrderInput struct {
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Notes           string
}

// Orchestrator drives the cart-to-order sequence: validate shipping fields,
// snapshot cart item IDs, attach a verified promotion, submit, then clear the
// cart. One placement attempt maps to at most one remote submission; failures
// are terminal and the user resubmits.
type Orchestrator struct {
	api    API
	carts  Carts
	promos Promotions
	log    zerolog.Logger
}

func NewOrchestrator(api API, carts Carts, promos Promotions, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		api:    api,
		carts:  carts,
		promos: promos,
		log:    log.With().Str("component", "order").Logger(),
	}
}

func (o *Orchestrator) PlaceOrder(ctx context.Context, sess *session.Session, in PlaceOrderInput) (*Order, error) {
	// Local validation first; no remote call on failure.
	if err := in.ShippingAddress.Validate(); err != nil {
		return nil, err
	}
	if !in.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, in.PaymentMethod)
	}

	if !sess.Begin(session.ActionPlaceOrder) {
		return nil, session.ErrOperationInFlight
	}
	defer sess.End(session.ActionPlaceOrder)

	// A promo verification that has not settled yet must not race the read
	// of the applied flag below.
	if sess.InFlight(session.ActionVerifyPromo) {
		return nil, session.ErrOperationInFlight
	}

	view := o.carts.View(sess.ID)
	if view == nil {
		loaded, err := o.carts.Get(ctx, sess)
		if err != nil {
			return nil, err
		}
		view = loaded
	}
	if view.IsEmpty() {
		return nil, ErrEmptyCart
	}

	req := &PlaceOrderRequest{
		ShippingInfo: in.ShippingAddress,
		PaymentInfo:  PaymentInfo{PaymentMethod: in.PaymentMethod},
		Notes:        in.Notes,
		Items:        view.ItemIDs(),
	}
	// Only a promotion verified in this session rides along. A code typed
	// into the input but never applied stays off the order.
	if ap := o.promos.Applied(sess.ID); ap != nil {
		req.Promotion = &PromotionRef{Code: ap.Code}
	}

	placed, err := o.api.PlaceOrder(ctx, sess.Token, req)
	if err != nil {
		return nil, err
	}

	// The order exists now. Cart cleanup failing is logged, never surfaced.
	if _, err := o.carts.Clear(ctx, sess); err != nil {
		o.log.Warn().Err(err).Str("order_id", placed.ID).Msg("cart clear after placement failed")
	}
	o.promos.Reset(sess.ID)

	o.log.Info().
		Str("order_id", placed.ID).
		Str("payment_method", string(in.PaymentMethod)).
		Bool("redirect", placed.PaymentURL != "").
		Msg("order placed")
	return placed, nil
}

// CancelOrder requests cancellation after checking eligibility client-side.
// The server still enforces the rule; the pre-check is an idempotent guard,
// not a trust boundary.
func (o *Orchestrator) CancelOrder(ctx context.Context, sess *session.Session, orderID string) (*Order, error) {
	current, err := o.api.GetOrder(ctx, sess.Token, orderID)
	if err != nil {
		return nil, err
	}
	if !current.CanCancel() {
		return nil, ErrNotCancellable
	}
	return o.api.CancelOrder(ctx, sess.Token, orderID)
}

func (o *Orchestrator) GetOrder(ctx context.Context, sess *session.Session, orderID string) (*Order, error) {
	return o.api.GetOrder(ctx, sess.Token, orderID)
}

func (o *Orchestrator) ListOrders(ctx context.Context, sess *session.Session, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return o.api.ListOrders(ctx, sess.Token, page, limit)
}
