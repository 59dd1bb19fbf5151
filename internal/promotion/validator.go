package promotion

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hunglai117/handcraft-interface/internal/cart"
	"github.com/hunglai117/handcraft-interface/internal/session"
)

// API is the slice of the remote commerce API the validator needs.
type API interface {
	ValidatePromoCode(ctx context.Context, token, code string) (*VerifyResult, error)
	ActivePromotions(ctx context.Context, token string) ([]Promotion, error)
}

// Carts exposes the session's cart so the minimum-order rule can be checked
// against the client-known subtotal.
type Carts interface {
	View(sessionID string) *cart.Cart
	Get(ctx context.Context, sess *session.Session) (*cart.Cart, error)
}

// Validator checks promo codes against the remote API and enforces the
// minimum-order rule locally. Validation is advisory: the discount is applied
// to the order total at placement time, not here. A successful verification
// is remembered per session so order placement can attach the code.
type Validator struct {
	api   API
	carts Carts
	log   zerolog.Logger

	mu      sync.RWMutex
	applied map[string]*Applied
}

func NewValidator(api API, carts Carts, log zerolog.Logger) *Validator {
	return &Validator{
		api:     api,
		carts:   carts,
		log:     log.With().Str("component", "promotion").Logger(),
		applied: make(map[string]*Applied),
	}
}

// Verify validates a promo code for the session's current cart. Business
// invalidity (unknown code, minimum not met, remote failure) comes back as an
// invalid VerifyResult; the error return is reserved for an invalid session,
// which aborts the whole flow.
func (v *Validator) Verify(ctx context.Context, sess *session.Session, code string) (VerifyResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		// Short-circuit locally, no remote call.
		return VerifyResult{Valid: false, Message: "Please enter a promotion code."}, nil
	}

	if !sess.Begin(session.ActionVerifyPromo) {
		return VerifyResult{}, session.ErrOperationInFlight
	}
	defer sess.End(session.ActionVerifyPromo)

	subtotal, err := v.subtotal(ctx, sess)
	if err != nil {
		if errors.Is(err, session.ErrInvalid) {
			return VerifyResult{}, err
		}
		v.log.Warn().Err(err).Str("code", code).Msg("cart load during promo verification failed")
		return VerifyResult{Valid: false, Message: "Failed to verify code. Please try again."}, nil
	}

	res, err := v.api.ValidatePromoCode(ctx, sess.Token, code)
	if err != nil {
		if errors.Is(err, session.ErrInvalid) {
			return VerifyResult{}, err
		}
		v.log.Warn().Err(err).Str("code", code).Msg("promo code verification failed")
		return VerifyResult{Valid: false, Message: "Failed to verify code. Please try again."}, nil
	}

	// The minimum-order rule is enforced here regardless of what the server
	// reported: a "valid" response does not override a subtotal that is too
	// small on this side.
	if res.Promotion != nil && !res.Promotion.MeetsMinimum(subtotal) {
		v.forget(sess.ID)
		return VerifyResult{
			Valid:   false,
			Message: "Order subtotal must be greater than " + strconv.FormatFloat(res.Promotion.MinimumOrderAmount, 'f', -1, 64),
		}, nil
	}

	if !res.Valid || res.Promotion == nil {
		v.forget(sess.ID)
		out := VerifyResult{Valid: false, Message: res.Message}
		if out.Message == "" {
			out.Message = "Invalid promotion code."
		}
		return out, nil
	}

	v.mu.Lock()
	v.applied[sess.ID] = &Applied{Code: code, Promotion: *res.Promotion}
	v.mu.Unlock()

	return VerifyResult{Valid: true, Promotion: res.Promotion, Message: res.Message}, nil
}

// Applied returns the promotion verified in this session, or nil.
func (v *Validator) Applied(sessionID string) *Applied {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.applied[sessionID]
}

// Active lists currently running promotions. Token may be empty; the listing
// is public.
func (v *Validator) Active(ctx context.Context, token string) ([]Promotion, error) {
	return v.api.ActivePromotions(ctx, token)
}

// Reset drops the session's applied promotion. Used after order placement and
// on session teardown.
func (v *Validator) Reset(sessionID string) {
	v.forget(sessionID)
}

func (v *Validator) forget(sessionID string) {
	v.mu.Lock()
	delete(v.applied, sessionID)
	v.mu.Unlock()
}

func (v *Validator) subtotal(ctx context.Context, sess *session.Session) (float64, error) {
	if c := v.carts.View(sess.ID); c != nil {
		return c.Subtotal, nil
	}
	c, err := v.carts.Get(ctx, sess)
	if err != nil {
		return 0, err
	}
	return c.Subtotal, nil
}
