package cart

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hunglai117/handcraft-interface/internal/session"
)

// API is the slice of the remote commerce API the manager needs. Every
// mutation returns the full cart so the local view can be replaced wholesale.
type API interface {
	GetCart(ctx context.Context, token string) (*Cart, error)
	AddCartItem(ctx context.Context, token, productVariantID string, quantity int) (*Cart, error)
	UpdateCartItem(ctx context.Context, token, itemID string, quantity int) (*Cart, error)
	RemoveCartItem(ctx context.Context, token, itemID string) (*Cart, error)
	ClearCart(ctx context.Context, token string) (*Cart, error)
}

// Manager keeps a per-session view of the remote cart. The remote API is
// authoritative: the view is never patched locally, only replaced by the
// server's response, so client-computed and server-computed line totals
// cannot drift.
type Manager struct {
	api API
	log zerolog.Logger

	mu    sync.RWMutex
	views map[string]*Cart
}

func NewManager(api API, log zerolog.Logger) *Manager {
	return &Manager{
		api:   api,
		log:   log.With().Str("component", "cart").Logger(),
		views: make(map[string]*Cart),
	}
}

// Get fetches the cart from the remote API and replaces the session's view.
func (m *Manager) Get(ctx context.Context, sess *session.Session) (*Cart, error) {
	c, err := m.api.GetCart(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	m.replace(sess.ID, c)
	return c, nil
}

// View returns the last known cart for the session without a remote call.
// It is nil until the cart has been loaded once.
func (m *Manager) View(sessionID string) *Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.views[sessionID]
}

// AddItem puts quantity units of a product variant in the cart.
func (m *Manager) AddItem(ctx context.Context, sess *session.Session, productVariantID string, quantity int) (*Cart, error) {
	if !sess.Begin(session.ActionCart) {
		return nil, session.ErrOperationInFlight
	}
	defer sess.End(session.ActionCart)

	c, err := m.api.AddCartItem(ctx, sess.Token, productVariantID, quantity)
	if err != nil {
		return nil, err
	}
	m.replace(sess.ID, c)
	return c, nil
}

// UpdateItemQuantity sets the quantity of a cart item. A quantity below 1 is
// a no-op, not a removal: the current view is returned and no request is
// sent.
func (m *Manager) UpdateItemQuantity(ctx context.Context, sess *session.Session, itemID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return m.View(sess.ID), nil
	}

	if !sess.Begin(session.ActionCartItem + itemID) {
		return nil, session.ErrOperationInFlight
	}
	defer sess.End(session.ActionCartItem + itemID)

	c, err := m.api.UpdateCartItem(ctx, sess.Token, itemID, quantity)
	if err != nil {
		return nil, err
	}
	m.replace(sess.ID, c)
	return c, nil
}

// RemoveItem deletes a cart item.
func (m *Manager) RemoveItem(ctx context.Context, sess *session.Session, itemID string) (*Cart, error) {
	if !sess.Begin(session.ActionCartItem + itemID) {
		return nil, session.ErrOperationInFlight
	}
	defer sess.End(session.ActionCartItem + itemID)

	c, err := m.api.RemoveCartItem(ctx, sess.Token, itemID)
	if err != nil {
		return nil, err
	}
	m.replace(sess.ID, c)
	return c, nil
}

// Clear empties the cart. Invoked by the user and automatically after a
// successful order placement.
func (m *Manager) Clear(ctx context.Context, sess *session.Session) (*Cart, error) {
	if !sess.Begin(session.ActionCart) {
		return nil, session.ErrOperationInFlight
	}
	defer sess.End(session.ActionCart)

	c, err := m.api.ClearCart(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	m.replace(sess.ID, c)
	return c, nil
}

// Reset drops the session's cart view on session teardown.
func (m *Manager) Reset(sessionID string) {
	m.mu.Lock()
	delete(m.views, sessionID)
	m.mu.Unlock()
}

func (m *Manager) replace(sessionID string, c *Cart) {
	m.mu.Lock()
	m.views[sessionID] = c
	m.mu.Unlock()
}
