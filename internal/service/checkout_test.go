package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/payment"
)

func newCheckout(carts *fakeCarts, orders *fakeOrders, gw *fakeGateway) *CheckoutServiceImpl {
	return NewCheckoutService(carts, orders, gw, "usd", zap.NewNop())
}

func TestCheckout_RecomputesTotalAndClearsCart(t *testing.T) {
	t.Parallel()

	carts := newFakeCarts()
	mug := carts.addProduct("mug", 1000)  // $10.00
	lamp := carts.addProduct("lamp", 2500) // $25.00
	orders := &fakeOrders{carts: carts}
	gw := &fakeGateway{}
	s := newCheckout(carts, orders, gw)
	u := testUser()

	cartSvc := NewCartService(carts)
	// 2 units of the $10 product, 1 unit of the $25 product.
	if _, err := cartSvc.Add(context.Background(), u, mug); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := cartSvc.Add(context.Background(), u, mug); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := cartSvc.Add(context.Background(), u, lamp); err != nil {
		t.Fatalf("Add: %v", err)
	}

	o, err := s.Checkout(context.Background(), u, "tok_visa")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if len(gw.requests) != 1 {
		t.Fatalf("want exactly one charge, got %d", len(gw.requests))
	}
	req := gw.requests[0]
	if req.AmountCents != 4500 {
		t.Fatalf("recomputed total: want 4500, got %d", req.AmountCents)
	}
	if req.Currency != "usd" || req.PaymentToken != "tok_visa" {
		t.Fatalf("bad charge request: %+v", req)
	}
	if req.IdempotencyKey == "" {
		t.Fatalf("missing idempotency key")
	}

	if o.TotalCents != 4500 || o.ChargeID == "" {
		t.Fatalf("bad order: %+v", o)
	}
	if len(o.Lines) != 2 {
		t.Fatalf("want 2 snapshot lines, got %d", len(o.Lines))
	}
	for _, ln := range o.Lines {
		if ln.OrderID != o.ID || ln.ID == uuid.Nil {
			t.Fatalf("snapshot line not rekeyed: %+v", ln)
		}
	}
	if len(carts.lines) != 0 {
		t.Fatalf("cart not cleared: %d lines left", len(carts.lines))
	}
	if len(orders.created) != 1 {
		t.Fatalf("order not persisted")
	}
}

func TestCheckout_GatewayFailureLeavesEverythingIntact(t *testing.T) {
	t.Parallel()

	carts := newFakeCarts()
	pid := carts.addProduct("mug", 1000)
	orders := &fakeOrders{carts: carts}
	gw := &fakeGateway{chargeErr: &payment.Error{Code: "card_declined", Message: "insufficient funds"}}
	s := newCheckout(carts, orders, gw)
	u := testUser()

	if _, err := NewCartService(carts).Add(context.Background(), u, pid); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err := s.Checkout(context.Background(), u, "tok_visa")
	var gwErr *payment.Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("want gateway error surfaced, got %v", err)
	}
	if len(orders.created) != 0 {
		t.Fatalf("no order may exist after a failed charge")
	}
	if len(carts.lines) != 1 {
		t.Fatalf("cart must stay intact for retry, got %d lines", len(carts.lines))
	}
}

func TestCheckout_ConcurrentAdditionSurvives(t *testing.T) {
	t.Parallel()

	carts := newFakeCarts()
	pid := carts.addProduct("mug", 1000)
	late := carts.addProduct("late-arrival", 500)
	orders := &fakeOrders{carts: carts}
	gw := &fakeGateway{}
	s := newCheckout(carts, orders, gw)
	u := testUser()
	cartSvc := NewCartService(carts)

	if _, err := cartSvc.Add(context.Background(), u, pid); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Another request lands in the cart after the snapshot read.
	carts.onList = func() {
		if _, err := cartSvc.Add(context.Background(), u, late); err != nil {
			t.Errorf("concurrent Add: %v", err)
		}
	}

	o, err := s.Checkout(context.Background(), u, "tok_visa")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	// Only the snapshot was charged and cleared.
	if o.TotalCents != 1000 {
		t.Fatalf("charge must cover the snapshot only, got %d", o.TotalCents)
	}
	if len(carts.lines) != 1 {
		t.Fatalf("the concurrently added line must survive, got %d lines", len(carts.lines))
	}
	for _, ln := range carts.lines {
		if ln.ProductID != late {
			t.Fatalf("wrong line survived: %+v", ln)
		}
	}
}

func TestCheckout_GatewayAmountIsSourceOfTruth(t *testing.T) {
	t.Parallel()

	carts := newFakeCarts()
	pid := carts.addProduct("mug", 1000)
	orders := &fakeOrders{carts: carts}
	gw := &fakeGateway{amountOverride: 990} // processor applied a discount
	s := newCheckout(carts, orders, gw)
	u := testUser()

	if _, err := NewCartService(carts).Add(context.Background(), u, pid); err != nil {
		t.Fatalf("Add: %v", err)
	}

	o, err := s.Checkout(context.Background(), u, "tok_visa")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if o.TotalCents != 990 {
		t.Fatalf("order total must be the gateway-reported amount, got %d", o.TotalCents)
	}
}

func TestCheckout_Guards(t *testing.T) {
	t.Parallel()

	carts := newFakeCarts()
	orders := &fakeOrders{carts: carts}
	s := newCheckout(carts, orders, &fakeGateway{})

	if _, err := s.Checkout(context.Background(), nil, "tok"); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got %v", err)
	}
	u := testUser()
	if _, err := s.Checkout(context.Background(), u, ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation for empty payment token, got %v", err)
	}
	if _, err := s.Checkout(context.Background(), u, "tok"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation for empty cart, got %v", err)
	}
}

func TestCheckout_PersistFailureReportsChargeRef(t *testing.T) {
	t.Parallel()

	carts := newFakeCarts()
	pid := carts.addProduct("mug", 1000)
	orders := &fakeOrders{carts: carts, createErr: errors.New("db down")}
	gw := &fakeGateway{}
	s := newCheckout(carts, orders, gw)
	u := testUser()

	if _, err := NewCartService(carts).Add(context.Background(), u, pid); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err := s.Checkout(context.Background(), u, "tok_visa")
	if err == nil {
		t.Fatalf("want persistence error")
	}
	// The cart must survive a persist failure; the error names the charge
	// so the operator can reconcile.
	if len(carts.lines) != 1 {
		t.Fatalf("cart must not be cleared when the order is not durable")
	}
	if len(gw.requests) != 1 {
		t.Fatalf("charge should have been attempted once")
	}
}

func TestCheckout_FreshIdempotencyKeyPerAttempt(t *testing.T) {
	t.Parallel()

	carts := newFakeCarts()
	pid := carts.addProduct("mug", 1000)
	orders := &fakeOrders{carts: carts}
	gw := &fakeGateway{chargeErr: &payment.Error{Code: "network", Message: "try again"}}
	s := newCheckout(carts, orders, gw)
	u := testUser()

	if _, err := NewCartService(carts).Add(context.Background(), u, pid); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, _ = s.Checkout(context.Background(), u, "tok_visa")
	_, _ = s.Checkout(context.Background(), u, "tok_visa")
	if len(gw.requests) != 2 {
		t.Fatalf("want 2 attempts, got %d", len(gw.requests))
	}
	if gw.requests[0].IdempotencyKey == gw.requests[1].IdempotencyKey {
		t.Fatalf("idempotency key must be fresh per attempt")
	}
}
