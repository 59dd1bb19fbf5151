// Package commerce is the client for the remote commerce REST API, the
// source of truth for carts, promotions and orders. Every call resolves or
// rejects exactly once; there is no retry policy.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/hunglai117/handcraft-interface/internal/cart"
	"github.com/hunglai117/handcraft-interface/internal/order"
	"github.com/hunglai117/handcraft-interface/internal/promotion"
	"github.com/hunglai117/handcraft-interface/internal/session"
)

type httpResult struct {
	status int
	body   []byte
}

// serverError marks a 5xx answer so the circuit breaker counts it as a
// failure while the response body stays available to the caller.
type serverError struct {
	res httpResult
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error (status %d)", e.res.status)
}

// Client talks to the commerce API. It decorates every request with the
// session's bearer token and maps 401 to session.ErrInvalid so the HTTP
// layer can tear the session down globally.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
	breaker *gobreaker.CircuitBreaker[httpResult]
}

// New builds a client. baseURL points at the API root (including any /api
// prefix). With the breaker enabled, a run of transport or 5xx failures makes
// subsequent calls fail fast until the remote recovers; each call still
// settles exactly once.
func New(baseURL string, timeout time.Duration, breakerEnabled bool, log zerolog.Logger) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "commerce").Logger(),
	}
	if breakerEnabled {
		c.breaker = gobreaker.NewCircuitBreaker[httpResult](gobreaker.Settings{
			Name:    "commerce-api",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
	}
	return c
}

func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.execute(req)
	if err != nil {
		var srv *serverError
		if errors.As(err, &srv) {
			res = srv.res
		} else {
			c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("commerce call failed")
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}

	if res.status == http.StatusUnauthorized {
		return session.ErrInvalid
	}
	if res.status < 200 || res.status > 299 {
		return &RemoteError{StatusCode: res.status, Message: messageFrom(res.body)}
	}

	if out != nil {
		if err := json.Unmarshal(res.body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) execute(req *http.Request) (httpResult, error) {
	if c.breaker == nil {
		return c.roundTrip(req)
	}
	return c.breaker.Execute(func() (httpResult, error) {
		return c.roundTrip(req)
	})
}

func (c *Client) roundTrip(req *http.Request) (httpResult, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return httpResult{}, err
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return httpResult{}, fmt.Errorf("read response: %w", err)
	}
	res := httpResult{status: resp.StatusCode, body: buf}
	if resp.StatusCode >= 500 {
		return httpResult{}, &serverError{res: res}
	}
	return res, nil
}

func messageFrom(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "request failed"
}

// --- cart ---

func (c *Client) GetCart(ctx context.Context, token string) (*cart.Cart, error) {
	var out cart.Cart
	if err := c.do(ctx, token, http.MethodGet, "/cart", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddCartItem(ctx context.Context, token, productVariantID string, quantity int) (*cart.Cart, error) {
	body := map[string]any{
		"productVariantId": productVariantID,
		"quantity":         quantity,
	}
	var out cart.Cart
	if err := c.do(ctx, token, http.MethodPost, "/cart/items", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) (*cart.Cart, error) {
	body := map[string]any{"quantity": quantity}
	var out cart.Cart
	if err := c.do(ctx, token, http.MethodPut, "/cart/items/"+url.PathEscape(itemID), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, token, itemID string) (*cart.Cart, error) {
	var out cart.Cart
	if err := c.do(ctx, token, http.MethodDelete, "/cart/items/"+url.PathEscape(itemID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClearCart(ctx context.Context, token string) (*cart.Cart, error) {
	var out cart.Cart
	if err := c.do(ctx, token, http.MethodDelete, "/cart", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- promotions ---

func (c *Client) ValidatePromoCode(ctx context.Context, token, code string) (*promotion.VerifyResult, error) {
	var out promotion.VerifyResult
	if err := c.do(ctx, token, http.MethodGet, "/promotions/validate/"+url.PathEscape(code), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ActivePromotions(ctx context.Context, token string) ([]promotion.Promotion, error) {
	var out []promotion.Promotion
	if err := c.do(ctx, token, http.MethodGet, "/promotions/active", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- orders ---

func (c *Client) PlaceOrder(ctx context.Context, token string, req *order.PlaceOrderRequest) (*order.Order, error) {
	var out order.Order
	if err := c.do(ctx, token, http.MethodPost, "/orders", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, token, orderID string) (*order.Order, error) {
	var out order.Order
	if err := c.do(ctx, token, http.MethodPut, "/orders/"+url.PathEscape(orderID)+"/cancel", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*order.Order, error) {
	var out order.Order
	if err := c.do(ctx, token, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context, token string, page, limit int) (*order.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	var out order.Page
	if err := c.do(ctx, token, http.MethodGet, "/orders", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
