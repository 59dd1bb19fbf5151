package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hunglai117/handcraft-interface/internal/session"
)

// tokenCookie carries the bearer token for the remote commerce API.
const tokenCookie = "token"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	sessionKey
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestID tags every request with a fresh id for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestLogger logs one line per completed request.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Info().
				Str("request_id", requestIDFrom(r.Context())).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Int("status", rec.status).
				Dur("elapsed", time.Since(start)).
				Msg("request completed")
		})
	}
}

// RequireSession attaches the session from the token cookie, rejecting
// requests without one. The token itself is only checked by the remote API;
// a stale token surfaces as a 401 from the first remote call.
func RequireSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ck, err := r.Cookie(tokenCookie)
			if err != nil || ck.Value == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"error":    "authentication required",
					"redirect": "/login",
				})
				return
			}
			sess := store.Attach(ck.Value)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
		})
	}
}

func sessionFrom(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return s
	}
	return nil
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return "unknown"
}
