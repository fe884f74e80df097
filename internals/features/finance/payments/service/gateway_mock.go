package service

import (
	"context"
	"math/rand"
	"strings"

	"jobmarket_backend/internals/features/finance/payments/model"

	"github.com/google/uuid"
)

const DefaultMockSuccessRate = 0.8

// MockGateway simulates a processor: it succeeds with a fixed probability.
// It stands in for providers that have no real integration here.
type MockGateway struct {
	name        string
	successRate float64
	rnd         func() float64
}

// NewMockGateway builds a simulator registered under name. rnd may be nil.
func NewMockGateway(name string, successRate float64, rnd func() float64) *MockGateway {
	if successRate < 0 || successRate > 1 {
		successRate = DefaultMockSuccessRate
	}
	if rnd == nil {
		rnd = rand.Float64
	}
	return &MockGateway{name: name, successRate: successRate, rnd: rnd}
}

func (g *MockGateway) Name() string { return g.name }

func (g *MockGateway) Charge(_ context.Context, p *model.PaymentModel) (*ChargeResult, error) {
	res := &ChargeResult{
		TransactionID: strings.ToUpper(g.name) + "_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Metadata:      map[string]any{"simulated": true},
	}
	if g.rnd() < g.successRate {
		res.Outcome = OutcomeCompleted
	} else {
		res.Outcome = OutcomeFailed
		res.FailureReason = "payment declined by " + g.name + " simulator"
	}
	return res, nil
}

func (g *MockGateway) Refund(_ context.Context, _ *model.PaymentModel, _ float64) (string, error) {
	return strings.ToUpper(g.name) + "_RF_" + strings.ReplaceAll(uuid.NewString(), "-", ""), nil
}
