package order_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunglai117/handcraft-interface/internal/cart"
	"github.com/hunglai117/handcraft-interface/internal/commerce"
	"github.com/hunglai117/handcraft-interface/internal/order"
	"github.com/hunglai117/handcraft-interface/internal/promotion"
	"github.com/hunglai117/handcraft-interface/internal/session"
)

type fakeAPI struct {
	placeOrderFunc  func(ctx context.Context, token string, req *order.PlaceOrderRequest) (*order.Order, error)
	cancelOrderFunc func(ctx context.Context, token, orderID string) (*order.Order, error)
	getOrderFunc    func(ctx context.Context, token, orderID string) (*order.Order, error)
	listOrdersFunc  func(ctx context.Context, token string, page, limit int) (*order.Page, error)

	placeCalls  int
	cancelCalls int
}

func (f *fakeAPI) PlaceOrder(ctx context.Context, token string, req *order.PlaceOrderRequest) (*order.Order, error) {
	f.placeCalls++
	if f.placeOrderFunc != nil {
		return f.placeOrderFunc(ctx, token, req)
	}
	return &order.Order{ID: "ord-1", OrderStatus: order.StatusPending, PaymentStatus: order.PaymentPending}, nil
}

func (f *fakeAPI) CancelOrder(ctx context.Context, token, orderID string) (*order.Order, error) {
	f.cancelCalls++
	if f.cancelOrderFunc != nil {
		return f.cancelOrderFunc(ctx, token, orderID)
	}
	return &order.Order{ID: orderID, OrderStatus: order.StatusCancelled}, nil
}

func (f *fakeAPI) GetOrder(ctx context.Context, token, orderID string) (*order.Order, error) {
	if f.getOrderFunc != nil {
		return f.getOrderFunc(ctx, token, orderID)
	}
	return &order.Order{ID: orderID, OrderStatus: order.StatusPending, PaymentStatus: order.PaymentPending}, nil
}

func (f *fakeAPI) ListOrders(ctx context.Context, token string, page, limit int) (*order.Page, error) {
	if f.listOrdersFunc != nil {
		return f.listOrdersFunc(ctx, token, page, limit)
	}
	return &order.Page{Page: page, Limit: limit}, nil
}

type fakeCarts struct {
	view       *cart.Cart
	clearCalls int
	clearErr   error
}

func (f *fakeCarts) View(sessionID string) *cart.Cart {
	return f.view
}

func (f *fakeCarts) Get(ctx context.Context, sess *session.Session) (*cart.Cart, error) {
	if f.view == nil {
		return &cart.Cart{}, nil
	}
	return f.view, nil
}

func (f *fakeCarts) Clear(ctx context.Context, sess *session.Session) (*cart.Cart, error) {
	f.clearCalls++
	if f.clearErr != nil {
		return nil, f.clearErr
	}
	f.view = &cart.Cart{}
	return f.view, nil
}

type fakePromos struct {
	applied    *promotion.Applied
	resetCalls int
}

func (f *fakePromos) Applied(sessionID string) *promotion.Applied {
	return f.applied
}

func (f *fakePromos) Reset(sessionID string) {
	f.resetCalls++
	f.applied = nil
}

func newSession() *session.Session {
	return &session.Session{ID: "sess-1", Token: "token-1"}
}

func validAddress() order.ShippingAddress {
	return order.ShippingAddress{
		FullName: "Nguyen Van A",
		Phone:    "0900000000",
		Address:  "12 Hang Gai",
		City:     "Hanoi",
		Country:  "Vietnam",
	}
}

func filledCart() *cart.Cart {
	return &cart.Cart{
		ID: "cart-1",
		Items: []cart.Item{
			{ID: "i1", Quantity: 2, Price: 150000},
			{ID: "i2", Quantity: 1, Price: 200000},
		},
		TotalItems: 3,
		Subtotal:   500000,
	}
}

func TestPlaceOrder_MissingFieldsNoRemoteCall(t *testing.T) {
	api := &fakeAPI{}
	o := order.NewOrchestrator(api, &fakeCarts{view: filledCart()}, &fakePromos{}, zerolog.Nop())

	addr := validAddress()
	addr.City = ""

	_, err := o.PlaceOrder(context.Background(), newSession(), order.PlaceOrderInput{
		ShippingAddress: addr,
		PaymentMethod:   order.PaymentMethodCOD,
	})

	var vErr *order.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"city"}, vErr.MissingFields)
	assert.Zero(t, api.placeCalls, "validation failure must not reach the remote API")
}

func TestPlaceOrder_BlankFieldsCountAsMissing(t *testing.T) {
	api := &fakeAPI{}
	o := order.NewOrchestrator(api, &fakeCarts{view: filledCart()}, &fakePromos{}, zerolog.Nop())

	addr := validAddress()
	addr.FullName = "   "
	addr.Phone = ""

	_, err := o.PlaceOrder(context.Background(), newSession(), order.PlaceOrderInput{
		ShippingAddress: addr,
		PaymentMethod:   order.PaymentMethodCOD,
	})

	var vErr *order.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"fullName", "phone"}, vErr.MissingFields)
	assert.Zero(t, api.placeCalls)
}

func TestPlaceOrder_UnknownPaymentMethodRejected(t *testing.T) {
	api := &fakeAPI{}
	o := order.NewOrchestrator(api, &fakeCarts{view: filledCart()}, &fakePromos{}, zerolog.Nop())

	_, err := o.PlaceOrder(context.Background(), newSession(), order.PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   "paypal",
	})

	assert.ErrorIs(t, err, order.ErrInvalidPaymentMethod)
	assert.Zero(t, api.placeCalls)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	api := &fakeAPI{}
	o := order.NewOrchestrator(api, &fakeCarts{view: &cart.Cart{}}, &fakePromos{}, zerolog.Nop())

	_, err := o.PlaceOrder(context.Background(), newSession(), order.PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   order.PaymentMethodCOD,
	})

	assert.ErrorIs(t, err, order.ErrEmptyCart)
	assert.Zero(t, api.placeCalls)
}

func TestPlaceOrder_SubmitsItemIDsOnly(t *testing.T) {
	var got *order.PlaceOrderRequest
	api := &fakeAPI{
		placeOrderFunc: func(ctx context.Context, token string, req *order.PlaceOrderRequest) (*order.Order, error) {
			got = req
			return &order.Order{ID: "ord-1"}, nil
		},
	}
	o := order.NewOrchestrator(api, &fakeCarts{view: filledCart()}, &fakePromos{}, zerolog.Nop())

	_, err := o.PlaceOrder(context.Background(), newSession(), order.PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   order.PaymentMethodCOD,
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"i1", "i2"}, got.Items)
	assert.Equal(t, order.PaymentMethodCOD, got.PaymentInfo.PaymentMethod)
}

func TestPlaceOrder_PromotionOmittedWhenNotApplied(t *testing.T) {
	// No verified promotion in the session: nothing rides along, even if the
	// user typed a code into the input.
	var got *order.PlaceOrderRequest
	api := &fakeAPI{
		placeOrderFunc: func(ctx context.Context, token string, req *order.PlaceOrderRequest) (*order.Order, error) {
			got = req
			return &order.Order{ID: "ord-1"}, nil
		},
	}
	o := order.NewOrchestrator(api, &fakeCarts{view: filledCart()}, &fakePromos{}, zerolog.Nop())

	_, err := o.PlaceOrder(context.Background(), newSession(), order.PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   order.PaymentMethodCOD,
	})

	require.NoError(t, err)
	assert.Nil(t, got.Promotion)
}

func TestPlaceOrder_AppliedPromotionAttached(t *testing.T) {
	var got *order.PlaceOrderRequest
	api := &fakeAPI{
		placeOrderFunc: func(ctx context.Context, token string, req *order.PlaceOrderRequest) (*order.Order, error) {
			got = req
			return &order.Order{ID: "ord-1"}, nil
		},
	}
	promos := &fakePromos{applied: &promotion.Applied{Code: "SALE10"}}
	o := order.NewOrchestrator(api, &fakeCarts{view: filledCart()}, promos, zerolog.Nop())

	_, err := o.PlaceOrder(context.Background(), newSession(), order.PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   order.PaymentMethodCOD,
	})

	require.NoError(t, err)
	require.NotNil(t, got.Promotion)
	assert.Equal(t, "SALE10", got.Promotion.Code)
	assert.Equal(t, 1, promos.resetCalls, "applied code is consumed by placement")
}

func TestPlaceOrder_CODEndToEnd(t *testing.T) {
	// Cart of 500000 VND, SALE10 applied, cash on delivery: the resulting
	// order has no payment URL and the cart is cleared afterwards.
	api := &fakeAPI{
		placeOrderFunc: func(ctx context.Context, token string, req *order.PlaceOrderRequest) (*order.Order, error) {
			return &order.Order{
				ID:            "ord-1",
				OrderStatus:   order.StatusPending,
				PaymentStatus: order.PaymentPending,
				PaymentMethod: order.PaymentMethodCOD,
				TotalAmount:   450000,
			}, nil
		},
	}
	carts := &fakeCarts{view: filledCart()}
	promos := &fakePromos{applied: &promotion.Applied{
		Code:      "SALE10",
		Promotion: promotion.Promotion{PromoCode: "SALE10", Type: promotion.TypePercentageDiscount, DiscountValue: 10, MinimumOrderAmount: 100000},
	}}
	o := order.NewOrchestrator(api, carts, promos, zerolog.Nop())

	placed, err := o.PlaceOrder(context.Background(), newSession(), order.PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   order.PaymentMethodCOD,
	})

	require.NoError(t, err)
	assert.Empty(t, placed.PaymentURL)
	assert.Equal(t, 1, carts.clearCalls)
	assert.True(t, carts.view.IsEmpty())
}

func TestPlaceOrder_RemoteFailureSurfacedNoRetry(t *testing.T) {
	api := &fakeAPI{
		placeOrderFunc: func(ctx context.Context, token string, req *order.PlaceOrderRequest) (*order.Order, error) {
			return nil, &commerce.RemoteError{StatusCode: 422, Message: "Insufficient stock for item"}
		},
	}
	carts := &fakeCarts{view: filledCart()}
	o := order.NewOrchestrator(api, carts, &fakePromos{}, zerolog.Nop())

	_, err := o.PlaceOrder(context.Background(), newSession(), order.PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   order.PaymentMethodCOD,
	})

	var rErr *commerce.RemoteError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "Insufficient stock for item", rErr.Message)
	assert.Equal(t, 1, api.placeCalls, "a failed placement is not retried")
	assert.Zero(t, carts.clearCalls, "cart survives a failed placement")
}

func TestPlaceOrder_ClearFailureNotSurfaced(t *testing.T) {
	api := &fakeAPI{}
	carts := &fakeCarts{view: filledCart(), clearErr: assert.AnError}
	o := order.NewOrchestrator(api, carts, &fakePromos{}, zerolog.Nop())

	placed, err := o.PlaceOrder(context.Background(), newSession(), order.PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   order.PaymentMethodCOD,
	})

	require.NoError(t, err, "the order exists; cleanup failure stays internal")
	assert.Equal(t, "ord-1", placed.ID)
}

func TestPlaceOrder_BlockedWhilePromoVerificationInFlight(t *testing.T) {
	api := &fakeAPI{}
	o := order.NewOrchestrator(api, &fakeCarts{view: filledCart()}, &fakePromos{}, zerolog.Nop())
	sess := newSession()

	require.True(t, sess.Begin(session.ActionVerifyPromo))
	defer sess.End(session.ActionVerifyPromo)

	_, err := o.PlaceOrder(context.Background(), sess, order.PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   order.PaymentMethodCOD,
	})

	assert.ErrorIs(t, err, session.ErrOperationInFlight)
	assert.Zero(t, api.placeCalls)
}

func TestCancelOrder_EligibleOrderCancelled(t *testing.T) {
	api := &fakeAPI{
		getOrderFunc: func(ctx context.Context, token, orderID string) (*order.Order, error) {
			return &order.Order{ID: orderID, OrderStatus: order.StatusProcessing, PaymentStatus: order.PaymentPending}, nil
		},
	}
	o := order.NewOrchestrator(api, &fakeCarts{}, &fakePromos{}, zerolog.Nop())

	cancelled, err := o.CancelOrder(context.Background(), newSession(), "ord-1")

	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.OrderStatus)
	assert.Equal(t, 1, api.cancelCalls)
}

func TestCancelOrder_DeliveredOrderGatedLocally(t *testing.T) {
	api := &fakeAPI{
		getOrderFunc: func(ctx context.Context, token, orderID string) (*order.Order, error) {
			return &order.Order{ID: orderID, OrderStatus: order.StatusDelivered, PaymentStatus: order.PaymentCompleted}, nil
		},
	}
	o := order.NewOrchestrator(api, &fakeCarts{}, &fakePromos{}, zerolog.Nop())

	_, err := o.CancelOrder(context.Background(), newSession(), "ord-1")

	assert.ErrorIs(t, err, order.ErrNotCancellable)
	assert.Zero(t, api.cancelCalls, "ineligible cancel never reaches the remote API")
}

func TestCancelOrder_PaymentCompletedGated(t *testing.T) {
	api := &fakeAPI{
		getOrderFunc: func(ctx context.Context, token, orderID string) (*order.Order, error) {
			return &order.Order{ID: orderID, OrderStatus: order.StatusPending, PaymentStatus: order.PaymentCompleted}, nil
		},
	}
	o := order.NewOrchestrator(api, &fakeCarts{}, &fakePromos{}, zerolog.Nop())

	_, err := o.CancelOrder(context.Background(), newSession(), "ord-1")

	assert.ErrorIs(t, err, order.ErrNotCancellable)
	assert.Zero(t, api.cancelCalls)
}

func TestListOrders_DefaultsApplied(t *testing.T) {
	var gotPage, gotLimit int
	api := &fakeAPI{
		listOrdersFunc: func(ctx context.Context, token string, page, limit int) (*order.Page, error) {
			gotPage, gotLimit = page, limit
			return &order.Page{Page: page, Limit: limit}, nil
		},
	}
	o := order.NewOrchestrator(api, &fakeCarts{}, &fakePromos{}, zerolog.Nop())

	_, err := o.ListOrders(context.Background(), newSession(), 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 10, gotLimit)
}
