package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/hunglai117/handcraft-interface/internal/session"
)

// NewRouter builds the storefront's HTTP surface for the web UI.
func NewRouter(
	carts CartService,
	orders OrderService,
	checkout *CheckoutHandler,
	store *session.Store,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Get("/health", healthHandler)

	cartH := NewCartHandler(carts, store)
	orderH := NewOrderHandler(orders, store)

	r.Route("/api", func(r chi.Router) {
		// Promotion browsing is public.
		r.Get("/promotions/active", checkout.ActivePromotions)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(store))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartH.GetCart)
				r.Delete("/", cartH.ClearCart)
				r.Post("/items", cartH.AddItem)
				r.Put("/items/{itemID}", cartH.UpdateItem)
				r.Delete("/items/{itemID}", cartH.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/summary", checkout.Summary)
				r.Post("/promotion", checkout.VerifyPromotion)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderH.ListOrders)
				r.Post("/", orderH.PlaceOrder)
				r.Get("/{orderID}", orderH.GetOrder)
				r.Put("/{orderID}/cancel", orderH.CancelOrder)
			})
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront",
	})
}
