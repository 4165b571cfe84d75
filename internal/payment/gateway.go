// Package payment creates payment orders against the gateway at checkout.
package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
)

// Order is the gateway-side payment object for one checkout.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Status   string
}

type Gateway interface {
	// CreateOrder registers amountRupees with the gateway and returns the
	// gateway order. reference is the customer-facing tracking code.
	CreateOrder(ctx context.Context, amountRupees int64, reference string) (*Order, error)
}

type stripeGateway struct{}

func NewStripeGateway(secretKey string) Gateway {
	stripe.Key = secretKey
	return &stripeGateway{}
}

func (g *stripeGateway) CreateOrder(ctx context.Context, amountRupees int64, reference string) (*Order, error) {
	if amountRupees <= 0 {
		return nil, fmt.Errorf("payment: amount must be positive")
	}
	params := &stripe.PaymentIntentParams{
		// Stripe amounts are in the smallest currency unit (paise).
		Amount:   stripe.Int64(amountRupees * 100),
		Currency: stripe.String(string(stripe.CurrencyINR)),
	}
	params.Context = ctx
	params.AddMetadata("tracking_code", reference)
	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("payment: create order: %w", err)
	}
	return &Order{
		ID:       pi.ID,
		Amount:   amountRupees,
		Currency: string(pi.Currency),
		Status:   string(pi.Status),
	}, nil
}
