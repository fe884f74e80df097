package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"jobmarket_backend/internals/features/finance/payments/model"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransGateway opens a Snap checkout. The outcome arrives later through
// the notification webhook, keyed by the order id stored as transaction_id.
type MidtransGateway struct {
	client    snap.Client
	serverKey string
}

func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	g := &MidtransGateway{serverKey: serverKey}
	if useProduction {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

func (g *MidtransGateway) Name() string { return model.GatewayMidtrans }

func (g *MidtransGateway) Charge(_ context.Context, p *model.PaymentModel) (*ChargeResult, error) {
	orderID := fmt.Sprintf("JM-%d-%s", p.ID, strings.ReplaceAll(uuid.NewString(), "-", "")[:12])

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: int64(math.Round(p.Amount)),
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    fmt.Sprintf("payment-%d", p.ID),
			Price: int64(math.Round(p.Amount)),
			Qty:   1,
			Name:  truncate(firstNonEmpty(p.Description, "Job marketplace payment"), 50),
		}},
	}

	resp, mErr := g.client.CreateTransaction(req)
	if mErr != nil {
		return nil, mErr
	}
	return &ChargeResult{
		TransactionID: orderID,
		Outcome:       OutcomeAwaiting,
		Metadata: map[string]any{
			"snap_token":   resp.Token,
			"redirect_url": resp.RedirectURL,
		},
	}, nil
}

// VerifySignature checks SHA512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	if signature == "" {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + g.serverKey))
	want := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(signature))) == 1
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func firstNonEmpty(ps *string, def string) string {
	if ps != nil && strings.TrimSpace(*ps) != "" {
		return *ps
	}
	return def
}
