package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hunglai117/handcraft-interface/internal/order"
	"github.com/hunglai117/handcraft-interface/internal/session"
)

// OrderService is what the order handlers need from the orchestrator.
type OrderService interface {
	PlaceOrder(ctx context.Context, sess *session.Session, in order.PlaceOrderInput) (*order.Order, error)
	CancelOrder(ctx context.Context, sess *session.Session, orderID string) (*order.Order, error)
	GetOrder(ctx context.Context, sess *session.Session, orderID string) (*order.Order, error)
	ListOrders(ctx context.Context, sess *session.Session, page, limit int) (*order.Page, error)
}

type OrderHandler struct {
	orders OrderService
	store  *session.Store
}

func NewOrderHandler(orders OrderService, store *session.Store) *OrderHandler {
	return &OrderHandler{orders: orders, store: store}
}

type placeOrderBody struct {
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   order.PaymentMethod   `json:"paymentMethod"`
	Notes           string                `json:"notes,omitempty"`
}

type placeOrderResponse struct {
	Order    *order.Order `json:"order"`
	Redirect string       `json:"redirect"`
}

// PlaceOrder submits the checkout form. The response tells the UI where to
// navigate: the payment gateway when the order carries a payment URL,
// otherwise the confirmation page.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var body placeOrderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	placed, err := h.orders.PlaceOrder(ctx, sessionFrom(r.Context()), order.PlaceOrderInput{
		ShippingAddress: body.ShippingAddress,
		PaymentMethod:   body.PaymentMethod,
		Notes:           body.Notes,
	})
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}

	redirect := placed.PaymentURL
	if redirect == "" {
		redirect = "/checkout/success?orderId=" + placed.ID
	}
	writeJSON(w, http.StatusCreated, placeOrderResponse{Order: placed, Redirect: redirect})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing orderID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.orders.GetOrder(ctx, sessionFrom(r.Context()), orderID)
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.orders.ListOrders(ctx, sessionFrom(r.Context()), page, limit)
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing orderID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.CancelOrder(ctx, sessionFrom(r.Context()), orderID)
	if err != nil {
		writeOperationError(w, r, h.store, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
