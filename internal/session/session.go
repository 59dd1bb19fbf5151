package session

import (
	"errors"
	"sync"
	"time"
)

// ErrOperationInFlight is returned when a mutating request arrives while a
// previous request for the same action has not settled yet. The invariant is
// that no two mutating requests for the same cart run concurrently from one
// session.
var ErrOperationInFlight = errors.New("another request for this action is still in flight")

// ErrInvalid means the remote API rejected the session's bearer token. The
// current flow must abort and the user re-authenticate; no operation handles
// this individually, the HTTP layer does.
var ErrInvalid = errors.New("session invalid")

// In-flight action names. Cart item actions append the item id so per-row
// operations only block themselves.
const (
	ActionCart        = "cart"
	ActionCartItem    = "cart:item:"
	ActionVerifyPromo = "promotion:verify"
	ActionPlaceOrder  = "order:place"
)

// Session is the explicit per-user session context. It owns the bearer token
// for the remote commerce API and the in-flight bookkeeping that serializes
// mutating actions. Domain state scoped to the session (cart view, applied
// promotion) lives with the services that manage it, keyed by Session.ID.
type Session struct {
	ID        string
	Token     string
	CreatedAt time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Begin marks the named action as in flight. It reports false when the action
// is already running, in which case the caller must not proceed.
func (s *Session) Begin(action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == nil {
		s.inflight = make(map[string]struct{})
	}
	if _, busy := s.inflight[action]; busy {
		return false
	}
	s.inflight[action] = struct{}{}
	return true
}

// End clears the in-flight mark set by Begin.
func (s *Session) End(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, action)
}

// InFlight reports whether the named action is currently running.
func (s *Session) InFlight(action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inflight[action]
	return busy
}
