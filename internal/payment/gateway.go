// Package payment defines the payment gateway boundary and its HTTP client.
package payment

import (
	"context"
	"fmt"
)

// ChargeRequest describes a single charge attempt. Amount is always the
// server-side recomputed total; clients never supply it.
type ChargeRequest struct {
	AmountCents    int64
	Currency       string
	PaymentToken   string // opaque client-supplied payment method token
	IdempotencyKey string // fresh per checkout attempt
}

// ChargeResult is the gateway's record of a captured charge. AmountCents
// is what was actually charged and is the source of truth for order totals.
type ChargeResult struct {
	ID          string
	AmountCents int64
}

// Gateway submits charges to the external payment processor. The call moves
// real money and must not be retried blindly on ambiguous failure.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// Error is a gateway-reported failure (decline, bad token, processor error).
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s: %s", e.Code, e.Message)
}
