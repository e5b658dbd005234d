package checkout

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lukouhub/lukouhub-backend/internal/cart"
	"github.com/lukouhub/lukouhub-backend/internal/orders"
	"github.com/lukouhub/lukouhub-backend/internal/pricing"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
)

type fakeCarts struct {
	mu       sync.Mutex
	items    []pricing.LineItem
	getErr   error
	clearErr error
	cleared  bool
	blockGet chan struct{}
}

func (f *fakeCarts) Get(ctx context.Context, sessionID string, option enums.DeliveryOption) (*cart.CartDTO, error) {
	if f.blockGet != nil {
		<-f.blockGet
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &cart.CartDTO{
		Items:   f.items,
		Summary: pricing.Summarize(f.items, option, decimal.Zero),
	}, nil
}

func (f *fakeCarts) Clear(ctx context.Context, sessionID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
	f.items = nil
	return nil
}

type fakeOrders struct {
	mu      sync.Mutex
	created []orders.CreateOrderInput
	err     error
}

func (f *fakeOrders) Create(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, input)
	return &orders.OrderDTO{
		ID:             input.PublicID,
		CustomerName:   input.CustomerName,
		DeliveryOption: input.DeliveryOption,
		Items:          input.Items,
		Summary:        input.Summary,
		Status:         enums.OrderStatusPending,
	}, nil
}

type fakeFlights struct {
	mu     sync.Mutex
	held   map[string]struct{}
	setErr error
	delErr error
}

func (f *fakeFlights) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held == nil {
		f.held = map[string]struct{}{}
	}
	if _, busy := f.held[key]; busy {
		return false, nil
	}
	f.held[key] = struct{}{}
	return true, nil
}

func (f *fakeFlights) Del(ctx context.Context, keys ...string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.held, key)
	}
	return nil
}

func (f *fakeFlights) CheckoutFlightKey(sessionID string) string {
	return "lkh:checkout:inflight:" + sessionID
}

func (f *fakeFlights) holds(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.held[f.CheckoutFlightKey(sessionID)]
	return ok
}

func cartWithDonuts() []pricing.LineItem {
	return []pricing.LineItem{
		{ProductID: 1, Name: "Classic Glazed", UnitPrice: decimal.NewFromFloat(8.90), Quantity: 2},
	}
}

func validInput() CheckoutInput {
	return CheckoutInput{
		CustomerName:   "Aina Rahman",
		Phone:          "012-3456789",
		DeliveryOption: enums.DeliveryOptionDelivery,
		Street:         "12 Jalan Gula",
		City:           "Kajang",
		Postcode:       "43000",
		State:          "Selangor",
		PaymentMethod:  enums.PaymentMethodCash,
	}
}

func newTestService(t *testing.T, carts *fakeCarts, orderSvc *fakeOrders) *service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "checkout-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(carts, orderSvc, &fakeFlights{}, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	typed := svc.(*service)
	typed.now = func() time.Time { return time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC) }
	typed.randInt = func(n int) int { return 42 }
	return typed
}

func TestCheckoutHappyPath(t *testing.T) {
	carts := &fakeCarts{items: cartWithDonuts()}
	orderSvc := &fakeOrders{}
	svc := newTestService(t, carts, orderSvc)

	order, err := svc.Checkout(context.Background(), "s1", validInput())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order.ID != "LKH-20250901-0042" {
		t.Errorf("order id = %q, want LKH-20250901-0042", order.ID)
	}
	if !carts.cleared {
		t.Error("cart should be cleared after a successful checkout")
	}

	created := orderSvc.created[0]
	if created.Address == nil || *created.Address != "12 Jalan Gula, 43000 Kajang, Selangor" {
		t.Errorf("Address = %v", created.Address)
	}
	if got := created.Summary.Total.StringFixed(2); got != "22.80" {
		t.Errorf("Total = %s, want 22.80 (17.80 + 5.00 delivery)", got)
	}
}

func TestCheckoutPickupHasNoAddress(t *testing.T) {
	carts := &fakeCarts{items: cartWithDonuts()}
	orderSvc := &fakeOrders{}
	svc := newTestService(t, carts, orderSvc)

	input := validInput()
	input.DeliveryOption = enums.DeliveryOptionPickup
	input.Street, input.City, input.Postcode, input.State = "", "", "", ""

	if _, err := svc.Checkout(context.Background(), "s1", input); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if orderSvc.created[0].Address != nil {
		t.Errorf("pickup order carries address %q", *orderSvc.created[0].Address)
	}
	if got := orderSvc.created[0].Summary.Total.StringFixed(2); got != "17.80" {
		t.Errorf("Total = %s, want 17.80", got)
	}
}

func TestCheckoutValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CheckoutInput)
	}{
		{"missing name", func(in *CheckoutInput) { in.CustomerName = " " }},
		{"missing phone", func(in *CheckoutInput) { in.Phone = "" }},
		{"bad delivery option", func(in *CheckoutInput) { in.DeliveryOption = "teleport" }},
		{"bad payment method", func(in *CheckoutInput) { in.PaymentMethod = "gold" }},
		{"delivery missing street", func(in *CheckoutInput) { in.Street = "" }},
		{"delivery missing city", func(in *CheckoutInput) { in.City = "" }},
		{"delivery missing postcode", func(in *CheckoutInput) { in.Postcode = "" }},
		{"delivery missing state", func(in *CheckoutInput) { in.State = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			carts := &fakeCarts{items: cartWithDonuts()}
			svc := newTestService(t, carts, &fakeOrders{})

			input := validInput()
			tc.mutate(&input)

			_, err := svc.Checkout(context.Background(), "s1", input)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("error = %v, want VALIDATION_ERROR", err)
			}
		})
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newTestService(t, &fakeCarts{}, &fakeOrders{})

	_, err := svc.Checkout(context.Background(), "s1", validInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("error = %v, want VALIDATION_ERROR", err)
	}
}

func TestCheckoutStoreFailureKeepsCart(t *testing.T) {
	carts := &fakeCarts{items: cartWithDonuts()}
	orderSvc := &fakeOrders{err: pkgerrors.New(pkgerrors.CodeStoreUnavailable, "db down")}
	svc := newTestService(t, carts, orderSvc)

	_, err := svc.Checkout(context.Background(), "s1", validInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeStoreUnavailable) {
		t.Fatalf("error = %v, want STORE_UNAVAILABLE", err)
	}
	if carts.cleared {
		t.Error("cart must survive a failed order write")
	}
}

func TestCheckoutCleanupFailureStillSucceeds(t *testing.T) {
	carts := &fakeCarts{
		items:    cartWithDonuts(),
		clearErr: pkgerrors.New(pkgerrors.CodeStoreUnavailable, "redis down"),
	}
	svc := newTestService(t, carts, &fakeOrders{})

	order, err := svc.Checkout(context.Background(), "s1", validInput())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order == nil {
		t.Fatal("expected an order despite the cleanup failure")
	}
}

func TestCheckoutSingleFlightPerSession(t *testing.T) {
	carts := &fakeCarts{items: cartWithDonuts(), blockGet: make(chan struct{})}
	svc := newTestService(t, carts, &fakeOrders{})
	flights := svc.flights.(*fakeFlights)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Checkout(context.Background(), "s1", validInput())
		firstDone <- err
	}()

	// Wait for the first checkout to hold the session slot.
	deadline := time.After(2 * time.Second)
	for !flights.holds("s1") {
		select {
		case <-deadline:
			t.Fatal("first checkout never acquired the slot")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := svc.Checkout(context.Background(), "s1", validInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("concurrent checkout error = %v, want CONFLICT", err)
	}

	close(carts.blockGet)
	if err := <-firstDone; err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	if flights.holds("s1") {
		t.Fatal("slot should be released after the first checkout completes")
	}

	// The slot is free; a fresh checkout may proceed.
	carts.items = cartWithDonuts()
	if _, err := svc.Checkout(context.Background(), "s1", validInput()); err != nil {
		t.Fatalf("post-release checkout: %v", err)
	}
}

func TestCheckoutFlightStoreDown(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	flights := &fakeFlights{setErr: pkgerrors.New(pkgerrors.CodeStoreUnavailable, "redis down")}
	svc, err := NewService(&fakeCarts{items: cartWithDonuts()}, &fakeOrders{}, flights, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Checkout(context.Background(), "s1", validInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeStoreUnavailable) {
		t.Fatalf("error = %v, want STORE_UNAVAILABLE", err)
	}
}

func TestCheckoutLostReleaseStillSucceeds(t *testing.T) {
	carts := &fakeCarts{items: cartWithDonuts()}
	svc := newTestService(t, carts, &fakeOrders{})
	svc.flights.(*fakeFlights).delErr = pkgerrors.New(pkgerrors.CodeStoreUnavailable, "redis down")

	order, err := svc.Checkout(context.Background(), "s1", validInput())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order == nil {
		t.Fatal("expected an order despite the lost slot release")
	}
}

func TestOrderIDFormat(t *testing.T) {
	svc := newTestService(t, &fakeCarts{items: cartWithDonuts()}, &fakeOrders{})

	id := svc.newOrderID()
	if !strings.HasPrefix(id, "LKH-20250901-") {
		t.Fatalf("order id = %q", id)
	}
	if len(id) != len("LKH-20250901-0000") {
		t.Fatalf("order id %q has wrong width", id)
	}
}
