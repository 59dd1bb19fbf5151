package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Resetter drops any per-session state a service keeps. Registered services
// are notified when a session is destroyed so a stale cart view or applied
// promotion cannot outlive its session.
type Resetter interface {
	Reset(sessionID string)
}

// Store holds live sessions keyed by bearer token. Sessions are created
// lazily on first request carrying a token and destroyed when the remote API
// rejects the token.
type Store struct {
	mu        sync.RWMutex
	byToken   map[string]*Session
	resetters []Resetter
}

func NewStore() *Store {
	return &Store{byToken: make(map[string]*Session)}
}

// Register adds a service to notify when sessions are dropped.
func (st *Store) Register(r Resetter) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.resetters = append(st.resetters, r)
}

// Attach returns the session for the token, creating it on first use.
func (st *Store) Attach(token string) *Session {
	st.mu.RLock()
	s, ok := st.byToken[token]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.byToken[token]; ok {
		return s
	}
	s = &Session{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: time.Now(),
	}
	st.byToken[token] = s
	return s
}

// Drop destroys the session for the token and resets all registered
// per-session service state. Called when the remote API answers 401.
func (st *Store) Drop(token string) {
	st.mu.Lock()
	s, ok := st.byToken[token]
	if ok {
		delete(st.byToken, token)
	}
	resetters := st.resetters
	st.mu.Unlock()

	if !ok {
		return
	}
	for _, r := range resetters {
		r.Reset(s.ID)
	}
}
