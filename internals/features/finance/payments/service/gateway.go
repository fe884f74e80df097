package service

import (
	"context"
	"strings"

	"jobmarket_backend/internals/features/finance/payments/model"
)

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	// OutcomeAwaiting leaves the payment processing until the gateway calls back.
	OutcomeAwaiting Outcome = "awaiting"
)

type ChargeResult struct {
	TransactionID string
	Outcome       Outcome
	FailureReason string
	Metadata      map[string]any
}

// Gateway charges a payment that is already marked processing.
type Gateway interface {
	Name() string
	Charge(ctx context.Context, p *model.PaymentModel) (*ChargeResult, error)
}

// Refunder is implemented by gateways that can return money remotely.
type Refunder interface {
	Refund(ctx context.Context, p *model.PaymentModel, amount float64) (refundID string, err error)
}

// Registry resolves a payment_gateway value to an implementation. Unknown or
// unconfigured names use the fallback.
type Registry struct {
	gateways map[string]Gateway
	fallback Gateway
}

func NewRegistry(fallback Gateway, gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gateways)+1), fallback: fallback}
	if fallback != nil {
		r.gateways[fallback.Name()] = fallback
	}
	for _, g := range gateways {
		if g != nil {
			r.gateways[g.Name()] = g
		}
	}
	return r
}

func (r *Registry) For(name string) Gateway {
	if g, ok := r.gateways[strings.ToLower(strings.TrimSpace(name))]; ok {
		return g
	}
	return r.fallback
}

func (r *Registry) Has(name string) bool {
	_, ok := r.gateways[name]
	return ok
}

// GatewayFor picks the gateway for a payment: an explicit payment_gateway
// wins, then the payment method, then the fallback.
func (r *Registry) GatewayFor(p *model.PaymentModel) Gateway {
	if p.PaymentGateway != nil && *p.PaymentGateway != "" {
		return r.For(*p.PaymentGateway)
	}
	switch p.PaymentMethod {
	case model.PaymentMethodStripe:
		return r.For(model.GatewayStripe)
	case model.PaymentMethodPaypal:
		return r.For(model.GatewayPaypal)
	}
	return r.fallback
}
