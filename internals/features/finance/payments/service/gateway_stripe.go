package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"jobmarket_backend/internals/features/finance/payments/model"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway confirms a PaymentIntent immediately. The card comes from
// metadata.payment_method_id, collected by the client beforehand.
type StripeGateway struct {
	sc *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{sc: client.New(secretKey, nil)}
}

func (g *StripeGateway) Name() string { return model.GatewayStripe }

func (g *StripeGateway) Charge(ctx context.Context, p *model.PaymentModel) (*ChargeResult, error) {
	pm, _ := p.Metadata["payment_method_id"].(string)
	if strings.TrimSpace(pm) == "" {
		return &ChargeResult{Outcome: OutcomeFailed, FailureReason: "missing stripe payment_method_id"}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(toMinorUnits(p.Amount)),
		Currency:      stripe.String(strings.ToLower(p.Currency)),
		PaymentMethod: stripe.String(pm),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if p.Description != nil {
		params.Description = stripe.String(*p.Description)
	}
	params.Context = ctx
	params.AddMetadata("payment_id", strconv.FormatInt(p.ID, 10))
	params.AddMetadata("publisher_id", strconv.FormatInt(p.PublisherID, 10))

	pi, err := g.sc.PaymentIntents.New(params)
	if err != nil {
		if se, ok := err.(*stripe.Error); ok && se.Type == stripe.ErrorTypeCard {
			return &ChargeResult{Outcome: OutcomeFailed, FailureReason: se.Msg}, nil
		}
		return nil, err
	}

	res := &ChargeResult{
		TransactionID: pi.ID,
		Metadata:      map[string]any{"stripe_status": string(pi.Status)},
	}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		res.Outcome = OutcomeCompleted
	case stripe.PaymentIntentStatusProcessing:
		// No Stripe webhook is consumed: the payment stays processing until an
		// admin completes or fails it from the dashboard.
		res.Outcome = OutcomeAwaiting
	default:
		res.Outcome = OutcomeFailed
		res.FailureReason = fmt.Sprintf("stripe payment intent ended in %s", pi.Status)
	}
	return res, nil
}

func (g *StripeGateway) Refund(ctx context.Context, p *model.PaymentModel, amount float64) (string, error) {
	if p.TransactionID == nil || *p.TransactionID == "" {
		return "", fmt.Errorf("payment %d has no stripe payment intent", p.ID)
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(*p.TransactionID),
		Amount:        stripe.Int64(toMinorUnits(amount)),
	}
	params.Context = ctx
	// one refund per payment; a retried request returns the first refund
	params.SetIdempotencyKey(fmt.Sprintf("refund-%d", p.ID))
	rf, err := g.sc.Refunds.New(params)
	if err != nil {
		return "", err
	}
	return rf.ID, nil
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
