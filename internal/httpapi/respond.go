package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hunglai117/handcraft-interface/internal/commerce"
	"github.com/hunglai117/handcraft-interface/internal/order"
	"github.com/hunglai117/handcraft-interface/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeOperationError maps domain errors onto HTTP. A rejected session is
// handled here for every operation: the session is destroyed, the cookie
// expired, and the client told to re-authenticate.
func writeOperationError(w http.ResponseWriter, r *http.Request, store *session.Store, err error) {
	if errors.Is(err, session.ErrInvalid) {
		if ck, cerr := r.Cookie(tokenCookie); cerr == nil {
			store.Drop(ck.Value)
		}
		expireTokenCookie(w)
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":    "Your session has expired. Please log in again.",
			"redirect": "/login",
		})
		return
	}

	var vErr *order.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":         vErr.Error(),
			"missingFields": vErr.MissingFields,
		})
		return
	}

	switch {
	case errors.Is(err, session.ErrOperationInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrEmptyCart):
		writeError(w, http.StatusConflict, "Your cart is empty.")
	case errors.Is(err, order.ErrNotCancellable):
		writeError(w, http.StatusConflict, "This order can no longer be cancelled.")
	case errors.Is(err, order.ErrInvalidPaymentMethod):
		writeError(w, http.StatusBadRequest, "Please choose a valid payment method.")
	default:
		var rErr *commerce.RemoteError
		if errors.As(err, &rErr) && rErr.StatusCode >= 400 && rErr.StatusCode < 500 {
			writeError(w, rErr.StatusCode, rErr.Message)
			return
		}
		writeError(w, http.StatusBadGateway, "Something went wrong. Please try again.")
	}
}

func expireTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
