package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hunglai117/handcraft-interface/internal/pricing"
	"github.com/hunglai117/handcraft-interface/internal/promotion"
	"github.com/hunglai117/handcraft-interface/internal/session"
)

// PromotionService is what checkout needs from the promotion validator.
type PromotionService interface {
	Verify(ctx context.Context, sess *session.Session, code string) (promotion.VerifyResult, error)
	Applied(sessionID string) *promotion.Applied
	Active(ctx context.Context, token string) ([]promotion.Promotion, error)
}

type CheckoutHandler struct {
	carts  CartService
	promos PromotionService
	calc   pricing.Calculator
	store  *session.Store
}

func NewCheckoutHandler(carts CartService, promos PromotionService, calc pricing.Calculator, store *session.Store) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, promos: promos, calc: calc, store: store}
}

// VerifyPromotion validates a promo code against the current cart. An invalid
// code is a normal 200 response with valid=false; the discount itself only
// applies at order placement.
func (h *CheckoutHandler) VerifyPromotion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.promos.Verify(ctx, sessionFrom(r.Context()), body.Code)
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type summaryResponse struct {
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Discount  float64 `json:"discount"`
	Total     float64 `json:"total"`
	PromoCode string  `json:"promoCode,omitempty"`
}

// Summary prices the current cart for the checkout totals box. The server
// recomputes everything at placement; this is display only.
func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sess := sessionFrom(r.Context())
	c := h.carts.View(sess.ID)
	if c == nil {
		loaded, err := h.carts.Get(ctx, sess)
		if err != nil {
			writeOperationError(w, r, h.store, err)
			return
		}
		c = loaded
	}

	var promo *promotion.Promotion
	var code string
	if ap := h.promos.Applied(sess.ID); ap != nil {
		promo = &ap.Promotion
		code = ap.Code
	}

	q := h.calc.QuoteFloat(c.Subtotal, promo)
	writeJSON(w, http.StatusOK, summaryResponse{
		Subtotal:  q.Subtotal.InexactFloat64(),
		Shipping:  q.Shipping.InexactFloat64(),
		Tax:       q.Tax.InexactFloat64(),
		Discount:  q.Discount.InexactFloat64(),
		Total:     q.Total.InexactFloat64(),
		PromoCode: code,
	})
}

// ActivePromotions lists currently running promotions for the storefront.
// Public; a token rides along when the visitor has one.
func (h *CheckoutHandler) ActivePromotions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var token string
	if ck, err := r.Cookie(tokenCookie); err == nil {
		token = ck.Value
	}

	promos, err := h.promos.Active(ctx, token)
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}
	writeJSON(w, http.StatusOK, promos)
}
