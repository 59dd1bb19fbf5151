package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hunglai117/handcraft-interface/internal/cart"
	"github.com/hunglai117/handcraft-interface/internal/session"
)

// CartService is what the cart handlers need from the cart manager.
type CartService interface {
	Get(ctx context.Context, sess *session.Session) (*cart.Cart, error)
	View(sessionID string) *cart.Cart
	AddItem(ctx context.Context, sess *session.Session, productVariantID string, quantity int) (*cart.Cart, error)
	UpdateItemQuantity(ctx context.Context, sess *session.Session, itemID string, quantity int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, sess *session.Session, itemID string) (*cart.Cart, error)
	Clear(ctx context.Context, sess *session.Session) (*cart.Cart, error)
}

type CartHandler struct {
	carts CartService
	store *session.Store
}

func NewCartHandler(carts CartService, store *session.Store) *CartHandler {
	return &CartHandler{carts: carts, store: store}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.Get(ctx, sessionFrom(r.Context()))
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductVariantID string `json:"productVariantId"`
		Quantity         int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductVariantID == "" {
		writeError(w, http.StatusBadRequest, "missing productVariantId")
		return
	}
	if body.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.AddItem(ctx, sessionFrom(r.Context()), body.ProductVariantID, body.Quantity)
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "missing itemID")
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sess := sessionFrom(r.Context())
	c, err := h.carts.UpdateItemQuantity(ctx, sess, itemID, body.Quantity)
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}
	if c == nil {
		// Quantity floor no-op before the cart was ever loaded.
		c, err = h.carts.Get(ctx, sess)
		if err != nil {
			writeOperationError(w, r, h.store, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "missing itemID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.RemoveItem(ctx, sessionFrom(r.Context()), itemID)
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.Clear(ctx, sessionFrom(r.Context()))
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
