package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopworks/ecommerce-api/models"
)

// memStore is an in-memory Store for exercising the service state machine.
type memStore struct {
	carts       map[uint]*models.Cart
	products    map[uint]*models.Product
	orders      map[uint]*models.Order
	payments    map[uint]*models.Payment // keyed by order id
	nextOrderID uint
}

func newMemStore() *memStore {
	return &memStore{
		carts:    make(map[uint]*models.Cart),
		products: make(map[uint]*models.Product),
		orders:   make(map[uint]*models.Order),
		payments: make(map[uint]*models.Payment),
	}
}

func (m *memStore) Tx(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *memStore) CartForUpdate(_ context.Context, cartID uint) (*models.Cart, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (m *memStore) SetCartStatus(_ context.Context, cartID uint, status models.CartStatus) error {
	cart, ok := m.carts[cartID]
	if !ok {
		return ErrNotFound
	}
	cart.Status = status
	return nil
}

func (m *memStore) ClearCart(_ context.Context, cartID uint) error {
	cart, ok := m.carts[cartID]
	if !ok {
		return ErrNotFound
	}
	cart.Items = nil
	return nil
}

func (m *memStore) ProductForUpdate(_ context.Context, productID uint) (*models.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) AdjustStock(_ context.Context, productID uint, delta int) error {
	p, ok := m.products[productID]
	if !ok {
		return ErrNotFound
	}
	p.StockQuantity += delta
	return nil
}

func (m *memStore) CreateOrder(_ context.Context, order *models.Order) error {
	m.nextOrderID++
	order.ID = m.nextOrderID
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memStore) SaveOrder(_ context.Context, order *models.Order) error {
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memStore) OrderByID(_ context.Context, orderID uint) (*models.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *order
	cp.Items = append([]models.OrderItem(nil), order.Items...)
	return &cp, nil
}

func (m *memStore) SavePayment(_ context.Context, payment *models.Payment) error {
	if existing, ok := m.payments[payment.OrderID]; ok {
		payment.ID = existing.ID
	} else {
		payment.ID = uint(len(m.payments) + 1)
	}
	cp := *payment
	m.payments[payment.OrderID] = &cp
	return nil
}

type stubGateway struct {
	result  *ChargeResult
	err     error
	calls   int
	lastReq ChargeRequest
}

func (g *stubGateway) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	g.calls++
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

// twoItemCart seeds the §8 scenario: product A 10.00 x2, product B 5.50 x1,
// owned by user 7, cart id 1. Expected total 25.50.
func twoItemCart(store *memStore) {
	store.products[1] = &models.Product{ID: 1, Name: "Product A", Price: decimal.RequireFromString("10.00"), StockQuantity: 5}
	store.products[2] = &models.Product{ID: 2, Name: "Product B", Price: decimal.RequireFromString("5.50"), StockQuantity: 5}
	store.carts[1] = &models.Cart{
		CartID: 1,
		UserID: 7,
		Status: models.CartStatusOpen,
		Items: []models.CartItem{
			{ID: 1, CartID: 1, ProductID: 1, Quantity: 2},
			{ID: 2, CartID: 1, ProductID: 2, Quantity: 1},
		},
	}
}

func cartQuantityTotal(cart *models.Cart) int {
	total := 0
	for _, item := range cart.Items {
		total += item.Quantity
	}
	return total
}

func TestCheckoutSuccess(t *testing.T) {
	store := newMemStore()
	twoItemCart(store)
	gateway := &stubGateway{result: &ChargeResult{ID: "tx_1", Status: "succeeded"}}
	svc := NewService(store, gateway, "usd")

	res, cerr := svc.Checkout(context.Background(), 7, 1, "tok_visa")
	if cerr != nil {
		t.Fatalf("Checkout() error: %v", cerr)
	}

	if !res.AmountPaid.Equal(decimal.RequireFromString("25.50")) {
		t.Errorf("amount paid = %s, expected 25.50", res.AmountPaid)
	}
	if res.ChargeID != "tx_1" {
		t.Errorf("charge id = %s, expected tx_1", res.ChargeID)
	}
	if res.PaymentStatus != models.PaymentStatusSuccess {
		t.Errorf("payment status = %s, expected success", res.PaymentStatus)
	}
	if res.ShippingDate == nil {
		t.Error("expected shipping date to be set")
	}

	if gateway.lastReq.AmountMinor != 2550 {
		t.Errorf("charged %d minor units, expected 2550", gateway.lastReq.AmountMinor)
	}
	if gateway.lastReq.Currency != "usd" {
		t.Errorf("currency = %s, expected usd", gateway.lastReq.Currency)
	}

	order := store.orders[res.OrderID]
	if order == nil {
		t.Fatal("order not persisted")
	}
	if order.Status != models.OrderStatusPaid {
		t.Errorf("order status = %s, expected paid", order.Status)
	}
	if !order.IsShipped {
		t.Error("expected order to be shipped")
	}
	if order.TrackingID == "" {
		t.Error("expected tracking id")
	}

	payment := store.payments[res.OrderID]
	if payment == nil {
		t.Fatal("payment not persisted")
	}
	if payment.Status != models.PaymentStatusSuccess || payment.TransactionRef != "tx_1" {
		t.Errorf("payment = %+v, expected success/tx_1", payment)
	}
	if len(store.payments) != 1 {
		t.Errorf("payment rows = %d, expected 1", len(store.payments))
	}

	if len(store.carts[1].Items) != 0 {
		t.Errorf("cart has %d items after success, expected 0", len(store.carts[1].Items))
	}
	if store.carts[1].Status != models.CartStatusOpen {
		t.Errorf("cart status = %s, expected open", store.carts[1].Status)
	}

	if store.products[1].StockQuantity != 3 || store.products[2].StockQuantity != 4 {
		t.Errorf("stock = %d/%d, expected 3/4",
			store.products[1].StockQuantity, store.products[2].StockQuantity)
	}
}

func TestCheckoutGatewayDeclined(t *testing.T) {
	store := newMemStore()
	twoItemCart(store)
	gateway := &stubGateway{err: newError(KindGatewayDeclined, "Payment failed. Your card was declined.")}
	svc := NewService(store, gateway, "usd")

	_, cerr := svc.Checkout(context.Background(), 7, 1, "tok_chargeDeclined")
	if cerr == nil {
		t.Fatal("Checkout() succeeded, expected decline")
	}
	if cerr.Kind != KindGatewayDeclined {
		t.Fatalf("kind = %s, expected %s", cerr.Kind, KindGatewayDeclined)
	}

	if len(store.orders) != 1 {
		t.Fatalf("orders = %d, expected the failed order to be kept", len(store.orders))
	}
	var order *models.Order
	for _, o := range store.orders {
		order = o
	}
	if order.Status != models.OrderStatusFailed {
		t.Errorf("order status = %s, expected failed", order.Status)
	}
	if order.IsShipped {
		t.Error("failed order must not be shipped")
	}

	payment := store.payments[order.ID]
	if payment == nil {
		t.Fatal("failed payment not persisted")
	}
	if payment.Status != models.PaymentStatusFailed {
		t.Errorf("payment status = %s, expected failed", payment.Status)
	}

	// Cart untouched: still 3 units across 2 line items.
	if got := cartQuantityTotal(store.carts[1]); got != 3 {
		t.Errorf("cart quantity total = %d, expected 3", got)
	}
	if store.carts[1].Status != models.CartStatusOpen {
		t.Errorf("cart status = %s, expected open after failure", store.carts[1].Status)
	}

	// Debited stock restored.
	if store.products[1].StockQuantity != 5 || store.products[2].StockQuantity != 5 {
		t.Errorf("stock = %d/%d, expected 5/5 after restore",
			store.products[1].StockQuantity, store.products[2].StockQuantity)
	}
}

func TestCheckoutGatewayTimeout(t *testing.T) {
	store := newMemStore()
	twoItemCart(store)
	gateway := &stubGateway{err: newError(KindGatewayError, "timeout")}
	svc := NewService(store, gateway, "usd")

	_, cerr := svc.Checkout(context.Background(), 7, 1, "tok_visa")
	if cerr == nil || cerr.Kind != KindGatewayError {
		t.Fatalf("error = %v, expected gateway_error", cerr)
	}
	for _, payment := range store.payments {
		if payment.Detail != "timeout" {
			t.Errorf("payment detail = %q, expected timeout", payment.Detail)
		}
	}
}

func TestCheckoutValidation(t *testing.T) {
	tests := []struct {
		name     string
		seed     func(*memStore)
		userID   uint
		cartID   uint
		wantKind Kind
	}{
		{
			name:     "missing cart",
			seed:     func(m *memStore) {},
			userID:   7,
			cartID:   99,
			wantKind: KindNotAuthorized,
		},
		{
			name: "foreign cart",
			seed: func(m *memStore) {
				twoItemCart(m)
			},
			userID:   8,
			cartID:   1,
			wantKind: KindNotAuthorized,
		},
		{
			name: "empty cart",
			seed: func(m *memStore) {
				m.carts[1] = &models.Cart{CartID: 1, UserID: 7, Status: models.CartStatusOpen}
			},
			userID:   7,
			cartID:   1,
			wantKind: KindEmptyCart,
		},
		{
			name: "insufficient stock",
			seed: func(m *memStore) {
				twoItemCart(m)
				m.products[2].StockQuantity = 0
			},
			userID:   7,
			cartID:   1,
			wantKind: KindInsufficientStock,
		},
		{
			name: "zero amount",
			seed: func(m *memStore) {
				m.products[1] = &models.Product{ID: 1, Name: "freebie", Price: decimal.Zero, StockQuantity: 5}
				m.carts[1] = &models.Cart{
					CartID: 1, UserID: 7, Status: models.CartStatusOpen,
					Items: []models.CartItem{{ID: 1, CartID: 1, ProductID: 1, Quantity: 1}},
				}
			},
			userID:   7,
			cartID:   1,
			wantKind: KindInvalidAmount,
		},
		{
			name: "checkout already in progress",
			seed: func(m *memStore) {
				twoItemCart(m)
				m.carts[1].Status = models.CartStatusCheckingOut
			},
			userID:   7,
			cartID:   1,
			wantKind: KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			tt.seed(store)
			gateway := &stubGateway{result: &ChargeResult{ID: "tx_1", Status: "succeeded"}}
			svc := NewService(store, gateway, "usd")

			_, cerr := svc.Checkout(context.Background(), tt.userID, tt.cartID, "tok_visa")
			if cerr == nil {
				t.Fatal("Checkout() succeeded, expected validation failure")
			}
			if cerr.Kind != tt.wantKind {
				t.Errorf("kind = %s, expected %s", cerr.Kind, tt.wantKind)
			}
			if !cerr.Kind.IsValidation() {
				t.Errorf("kind %s should classify as validation", cerr.Kind)
			}
			if gateway.calls != 0 {
				t.Errorf("gateway called %d times before validation passed", gateway.calls)
			}
			if len(store.orders) != 0 {
				t.Errorf("orders persisted = %d, expected 0", len(store.orders))
			}
			if len(store.payments) != 0 {
				t.Errorf("payments persisted = %d, expected 0", len(store.payments))
			}
		})
	}
}

func TestCheckoutUnexpectedGatewayError(t *testing.T) {
	store := newMemStore()
	twoItemCart(store)
	gateway := &stubGateway{err: errors.New("connection reset")}
	svc := NewService(store, gateway, "usd")

	_, cerr := svc.Checkout(context.Background(), 7, 1, "tok_visa")
	if cerr == nil || cerr.Kind != KindUnexpected {
		t.Fatalf("error = %v, expected unexpected_error", cerr)
	}
	if len(store.orders) != 1 || len(store.payments) != 1 {
		t.Errorf("orders/payments = %d/%d, expected failed attempt to be recorded",
			len(store.orders), len(store.payments))
	}
	if got := cartQuantityTotal(store.carts[1]); got != 3 {
		t.Errorf("cart quantity total = %d, expected 3", got)
	}
}

func seedPendingOrder(store *memStore, userID uint, amount string) *models.Order {
	order := &models.Order{
		UserID: userID,
		Amount: decimal.RequireFromString(amount),
		Status: models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Product A", UnitPrice: decimal.RequireFromString(amount), Quantity: 1},
		},
	}
	store.nextOrderID++
	order.ID = store.nextOrderID
	store.orders[order.ID] = order
	return order
}

func TestPayOrderSuccess(t *testing.T) {
	store := newMemStore()
	order := seedPendingOrder(store, 7, "42.00")
	gateway := &stubGateway{result: &ChargeResult{ID: "tx_9", Status: "succeeded"}}
	svc := NewService(store, gateway, "usd")

	res, cerr := svc.PayOrder(context.Background(), 7, false, order.ID, "tok_visa")
	if cerr != nil {
		t.Fatalf("PayOrder() error: %v", cerr)
	}
	if gateway.lastReq.AmountMinor != 4200 {
		t.Errorf("charged %d minor units, expected 4200", gateway.lastReq.AmountMinor)
	}
	if res.ShippingDate != nil {
		t.Error("PayOrder must not ship on success")
	}

	saved := store.orders[order.ID]
	if saved.Status != models.OrderStatusPaid {
		t.Errorf("order status = %s, expected paid", saved.Status)
	}
	if saved.IsShipped {
		t.Error("PayOrder must not mark the order shipped")
	}
	if store.payments[order.ID].Status != models.PaymentStatusSuccess {
		t.Errorf("payment status = %s, expected success", store.payments[order.ID].Status)
	}
}

func TestPayOrderOwnership(t *testing.T) {
	store := newMemStore()
	order := seedPendingOrder(store, 7, "42.00")
	gateway := &stubGateway{result: &ChargeResult{ID: "tx_9", Status: "succeeded"}}
	svc := NewService(store, gateway, "usd")

	if _, cerr := svc.PayOrder(context.Background(), 8, false, order.ID, "tok_visa"); cerr == nil || cerr.Kind != KindNotAuthorized {
		t.Fatalf("error = %v, expected not_authorized for foreign order", cerr)
	}
	if gateway.calls != 0 {
		t.Errorf("gateway called %d times, expected 0", gateway.calls)
	}

	// Staff may pay on behalf of the owner.
	if _, cerr := svc.PayOrder(context.Background(), 8, true, order.ID, "tok_visa"); cerr != nil {
		t.Fatalf("staff PayOrder() error: %v", cerr)
	}
}

func TestPayOrderRetryReplacesFailedPayment(t *testing.T) {
	store := newMemStore()
	order := seedPendingOrder(store, 7, "42.00")
	gateway := &stubGateway{err: newError(KindGatewayDeclined, "Payment failed. declined")}
	svc := NewService(store, gateway, "usd")

	if _, cerr := svc.PayOrder(context.Background(), 7, false, order.ID, "tok_bad"); cerr == nil {
		t.Fatal("expected first attempt to fail")
	}
	if store.orders[order.ID].Status != models.OrderStatusFailed {
		t.Fatalf("order status = %s, expected failed", store.orders[order.ID].Status)
	}

	gateway.err = nil
	gateway.result = &ChargeResult{ID: "tx_retry", Status: "succeeded"}
	if _, cerr := svc.PayOrder(context.Background(), 7, false, order.ID, "tok_visa"); cerr != nil {
		t.Fatalf("retry error: %v", cerr)
	}

	if len(store.payments) != 1 {
		t.Fatalf("payment rows = %d, retry must replace not duplicate", len(store.payments))
	}
	payment := store.payments[order.ID]
	if payment.Status != models.PaymentStatusSuccess || payment.TransactionRef != "tx_retry" {
		t.Errorf("payment = %+v, expected replaced success row", payment)
	}
}

func TestPayOrderTerminalStates(t *testing.T) {
	store := newMemStore()
	order := seedPendingOrder(store, 7, "42.00")
	order.Status = models.OrderStatusPaid
	gateway := &stubGateway{result: &ChargeResult{ID: "tx", Status: "succeeded"}}
	svc := NewService(store, gateway, "usd")

	_, cerr := svc.PayOrder(context.Background(), 7, false, order.ID, "tok_visa")
	if cerr == nil || cerr.Kind != KindConflict {
		t.Fatalf("error = %v, expected conflict for already-paid order", cerr)
	}
}

func TestServiceShippingDateUsesClock(t *testing.T) {
	store := newMemStore()
	twoItemCart(store)
	gateway := &stubGateway{result: &ChargeResult{ID: "tx_1", Status: "succeeded"}}
	svc := NewService(store, gateway, "usd")
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	res, cerr := svc.Checkout(context.Background(), 7, 1, "tok_visa")
	if cerr != nil {
		t.Fatalf("Checkout() error: %v", cerr)
	}
	if res.ShippingDate == nil || !res.ShippingDate.Equal(fixed) {
		t.Errorf("shipping date = %v, expected %v", res.ShippingDate, fixed)
	}
}
