package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
	"github.com/nstepa/storefront/internal/payment"
	"github.com/nstepa/storefront/internal/repository"
)

// CheckoutService converts a cart into a charged, persisted order.
type CheckoutService interface {
	// Checkout charges the caller's cart total against the supplied
	// payment-method token and returns the persisted order.
	Checkout(ctx context.Context, user *model.User, paymentToken string) (*model.Order, error)
}

type CheckoutServiceImpl struct {
	carts    repository.CartRepository
	orders   repository.OrderRepository
	gateway  payment.Gateway
	currency string
	log      *zap.Logger
}

// NewCheckoutService constructs CheckoutService.
func NewCheckoutService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	gateway payment.Gateway,
	currency string,
	log *zap.Logger,
) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{carts: carts, orders: orders, gateway: gateway, currency: currency, log: log}
}

// Checkout runs the purchase workflow. Ordering is load-bearing: the charge
// must succeed before the order is persisted, and the order must be durable
// before the cart is cleared. A gateway failure leaves the cart intact and
// creates no order. Only the cart lines read into the snapshot are cleared,
// so lines added during the charge round-trip survive.
func (s *CheckoutServiceImpl) Checkout(ctx context.Context, user *model.User, paymentToken string) (*model.Order, error) {
	if user == nil {
		return nil, errs.ErrUnauthenticated
	}
	if paymentToken == "" {
		return nil, fmt.Errorf("empty payment token: %w", errs.ErrValidation)
	}

	items, err := s.carts.ListWithProducts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", errs.ErrValidation)
	}

	// Authoritative total comes from server-held prices; any client-side
	// amount is ignored by construction.
	var total int64
	for _, it := range items {
		total += it.Product.PriceCents * int64(it.Line.Quantity)
	}

	idemKey, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	res, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		AmountCents:    total,
		Currency:       s.currency,
		PaymentToken:   paymentToken,
		IdempotencyKey: idemKey.String(),
	})
	if err != nil {
		return nil, err
	}

	orderID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	order := &model.Order{
		ID:     orderID,
		UserID: user.ID,
		// The gateway is the source of truth for what was actually charged.
		TotalCents: res.AmountCents,
		ChargeID:   res.ID,
		Lines:      make([]model.OrderLine, 0, len(items)),
	}
	snapshotIDs := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		lineID, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, model.OrderLine{
			ID:          lineID,
			OrderID:     orderID,
			Title:       it.Product.Title,
			Description: it.Product.Description,
			PriceCents:  it.Product.PriceCents,
			Quantity:    it.Line.Quantity,
			Image:       it.Product.Image,
		})
		snapshotIDs = append(snapshotIDs, it.Line.ID)
	}

	if err := s.orders.CreateAndClearCart(ctx, order, snapshotIDs); err != nil {
		// Money moved but the order is not durable. Surface loudly with the
		// charge reference so the charge can be reconciled or refunded.
		s.log.Error("order persistence failed after successful charge",
			zap.String("charge_id", res.ID),
			zap.String("user_id", user.ID.String()),
			zap.Int64("amount_cents", res.AmountCents),
			zap.Error(err),
		)
		return nil, fmt.Errorf("persist order for charge %s: %w", res.ID, err)
	}

	return order, nil
}
