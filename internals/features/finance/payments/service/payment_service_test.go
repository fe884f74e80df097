package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"

	database "jobmarket_backend/internals/databases"
	"jobmarket_backend/internals/databases/dbtest"
	"jobmarket_backend/internals/features/finance/payments/dto"
	"jobmarket_backend/internals/features/finance/payments/model"
	notifService "jobmarket_backend/internals/features/home/notifications/service"
	helper "jobmarket_backend/internals/helpers"
)

type notes struct {
	mu   sync.Mutex
	sent []notifService.Notification
}

func (n *notes) Notify(_ context.Context, m notifService.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, m)
	return nil
}

func (n *notes) count(typ string) (total int, users map[int64]bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	users = map[int64]bool{}
	for _, m := range n.sent {
		if m.Type == typ {
			total++
			users[m.UserID] = true
		}
	}
	return total, users
}

// fixed returns a deterministic random source for the mock gateway.
func fixed(v float64) func() float64 { return func() float64 { return v } }

type harness struct {
	store     database.Store
	svc       *PaymentService
	notes     *notes
	publisher int64
	student   int64
}

func newHarness(t *testing.T, rnd func() float64) harness {
	t.Helper()
	store := dbtest.NewStore(t)
	n := &notes{}
	reg := NewRegistry(
		NewMockGateway(model.GatewayMock, DefaultMockSuccessRate, rnd),
		NewMockGateway(model.GatewayPaypal, DefaultMockSuccessRate, rnd),
	)
	return harness{
		store:     store,
		svc:       NewPaymentService(store, n, reg),
		notes:     n,
		publisher: dbtest.User(t, store, "publisher"),
		student:   dbtest.User(t, store, "student"),
	}
}

func (h harness) create(t *testing.T, amount float64) *model.PaymentModel {
	t.Helper()
	p, err := h.svc.Create(context.Background(), h.publisher, dto.CreatePaymentRequest{
		StudentID:     &h.student,
		Amount:        amount,
		PaymentMethod: "credit_card",
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return p
}

func TestCreatePaymentValidation(t *testing.T) {
	h := newHarness(t, fixed(0))
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.CreatePaymentRequest
	}{
		{"zero amount", dto.CreatePaymentRequest{Amount: 0, PaymentMethod: "credit_card"}},
		{"negative amount", dto.CreatePaymentRequest{Amount: -5, PaymentMethod: "credit_card"}},
		{"unknown method", dto.CreatePaymentRequest{Amount: 10, PaymentMethod: "bitcoin"}},
		{"bad currency", dto.CreatePaymentRequest{Amount: 10, PaymentMethod: "paypal", Currency: "EURO"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.svc.Create(ctx, h.publisher, tt.req); helper.ErrorCode(err) != 400 {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}

	p := h.create(t, 120.5)
	if p.Status != model.PaymentStatusPending || p.Currency != "USD" {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestMockGatewaySuccess(t *testing.T) {
	h := newHarness(t, fixed(0.1))
	ctx := context.Background()
	p := h.create(t, 100)

	done, err := h.svc.ProcessPayment(ctx, h.publisher, p.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if done.Status != model.PaymentStatusCompleted || done.TransactionID == nil || done.PaymentDate == nil {
		t.Fatalf("expected completed with transaction id, got %+v", done)
	}
	total, users := h.notes.count("payment_completed")
	if total != 2 || !users[h.publisher] || !users[h.student] {
		t.Fatalf("expected publisher and student notified, got %d %v", total, users)
	}

	if _, err := h.svc.ProcessPayment(ctx, h.publisher, p.ID); helper.ErrorCode(err) != 400 {
		t.Fatalf("processing twice should fail, got %v", err)
	}
}

func TestMockGatewayFailure(t *testing.T) {
	h := newHarness(t, fixed(0.95))
	ctx := context.Background()
	p := h.create(t, 100)

	failed, err := h.svc.ProcessPayment(ctx, h.publisher, p.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if failed.Status != model.PaymentStatusFailed || failed.TransactionID == nil {
		t.Fatalf("expected failed with transaction id, got %+v", failed)
	}
	if failed.Metadata["failure_reason"] == nil {
		t.Fatalf("failure reason not recorded: %v", failed.Metadata)
	}
	if total, _ := h.notes.count("payment_completed"); total != 0 {
		t.Fatalf("failed payment must not notify completion")
	}

	// failed payments may still be cancelled
	cancelled, err := h.svc.Cancel(ctx, h.publisher, p.ID)
	if err != nil || cancelled.Status != model.PaymentStatusCancelled {
		t.Fatalf("cancel failed payment: %+v %v", cancelled, err)
	}
}

func TestCancelCompletedPaymentFails(t *testing.T) {
	h := newHarness(t, fixed(0))
	ctx := context.Background()
	p := h.create(t, 50)

	if _, err := h.svc.ProcessPayment(ctx, h.publisher, p.ID); err != nil {
		t.Fatalf("process: %v", err)
	}
	if _, err := h.svc.Cancel(ctx, h.publisher, p.ID); helper.ErrorCode(err) != 400 {
		t.Fatalf("expected cancel to fail on completed payment, got %v", err)
	}
	other := dbtest.User(t, h.store, "publisher")
	if _, err := h.svc.Cancel(ctx, other, p.ID); helper.ErrorMessage(err) != "payment not found or access denied" {
		t.Fatalf("expected access denied, got %v", err)
	}
}

func TestRefund(t *testing.T) {
	h := newHarness(t, fixed(0))
	ctx := context.Background()
	p := h.create(t, 80)

	if _, err := h.svc.Refund(ctx, p.ID, nil, nil); helper.ErrorCode(err) != 400 {
		t.Fatalf("pending payment cannot be refunded, got %v", err)
	}
	if _, err := h.svc.ProcessPayment(ctx, h.publisher, p.ID); err != nil {
		t.Fatalf("process: %v", err)
	}

	tooMuch := 80.01
	if _, err := h.svc.Refund(ctx, p.ID, &tooMuch, nil); helper.ErrorCode(err) != 400 {
		t.Fatalf("refund above amount should fail, got %v", err)
	}

	partial := 30.0
	refunded, err := h.svc.Refund(ctx, p.ID, &partial, nil)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded.Status != model.PaymentStatusRefunded {
		t.Fatalf("expected refunded, got %s", refunded.Status)
	}
	if amt, ok := refunded.Metadata["refund_amount"].(float64); !ok || amt != 30 {
		t.Fatalf("refund amount not stored: %v", refunded.Metadata)
	}
	total, users := h.notes.count("payment_refunded")
	if total != 2 || !users[h.student] {
		t.Fatalf("expected refund notifications, got %d %v", total, users)
	}

	stats, err := h.svc.Stats(ctx, h.publisher)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ByStatus[model.PaymentStatusRefunded].Count != 1 || stats.RefundedVolume != 80 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMidtransNotification(t *testing.T) {
	h := newHarness(t, fixed(0))
	ctx := context.Background()
	p := h.create(t, 150000)

	// simulate a Snap checkout that is waiting for the callback
	if _, err := h.store.Update(ctx, "payments", map[string]any{
		"status":          model.PaymentStatusProcessing,
		"payment_gateway": model.GatewayMidtrans,
		"transaction_id":  "JM-1-abc",
	}, map[string]any{"id": p.ID}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, changed, err := h.svc.HandleMidtransNotification(ctx, dto.MidtransNotification{
		OrderID: "JM-1-abc", TransactionStatus: "pending",
	})
	if err != nil || changed || got.Status != model.PaymentStatusProcessing {
		t.Fatalf("pending should be a no-op: %+v %v %v", got, changed, err)
	}

	got, changed, err = h.svc.HandleMidtransNotification(ctx, dto.MidtransNotification{
		OrderID: "JM-1-abc", TransactionStatus: "settlement",
	})
	if err != nil || !changed || got.Status != model.PaymentStatusCompleted {
		t.Fatalf("settlement should complete: %+v %v %v", got, changed, err)
	}

	// duplicate delivery
	_, changed, err = h.svc.HandleMidtransNotification(ctx, dto.MidtransNotification{
		OrderID: "JM-1-abc", TransactionStatus: "settlement",
	})
	if err != nil || changed {
		t.Fatalf("duplicate settlement should not change anything: %v %v", changed, err)
	}

	if _, _, err := h.svc.HandleMidtransNotification(ctx, dto.MidtransNotification{
		OrderID: "missing", TransactionStatus: "settlement",
	}); helper.ErrorCode(err) != 404 {
		t.Fatalf("expected 404 for unknown order, got %v", err)
	}
}

func TestMapMidtransStatus(t *testing.T) {
	tests := map[string]string{
		"capture":    model.PaymentStatusCompleted,
		"settlement": model.PaymentStatusCompleted,
		"deny":       model.PaymentStatusFailed,
		"expire":     model.PaymentStatusFailed,
		"failure":    model.PaymentStatusFailed,
		"cancel":     model.PaymentStatusCancelled,
		"pending":    "",
	}
	for in, want := range tests {
		if got := MapMidtransStatus(in, "accept"); got != want {
			t.Errorf("MapMidtransStatus(%q) = %q, want %q", in, got, want)
		}
	}
	if got := MapMidtransStatus("capture", "challenge"); got != "" {
		t.Errorf("challenged capture should wait, got %q", got)
	}
}

func TestRegistryFallback(t *testing.T) {
	mock := NewMockGateway(model.GatewayMock, 1, nil)
	reg := NewRegistry(mock)

	stripe := model.GatewayStripe
	if g := reg.GatewayFor(&model.PaymentModel{PaymentGateway: &stripe}); g.Name() != model.GatewayMock {
		t.Fatalf("unconfigured stripe should fall back to mock, got %s", g.Name())
	}
	if g := reg.GatewayFor(&model.PaymentModel{PaymentMethod: model.PaymentMethodPaypal}); g.Name() != model.GatewayMock {
		t.Fatalf("paypal without simulator should fall back to mock, got %s", g.Name())
	}
}

// refundingGateway settles every charge and counts remote refunds.
type refundingGateway struct {
	mu      sync.Mutex
	refunds int
	err     error
}

func (g *refundingGateway) Name() string { return model.GatewayStripe }

func (g *refundingGateway) Charge(_ context.Context, p *model.PaymentModel) (*ChargeResult, error) {
	return &ChargeResult{TransactionID: "pi_test", Outcome: OutcomeCompleted}, nil
}

func (g *refundingGateway) Refund(context.Context, *model.PaymentModel, float64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds++
	if g.err != nil {
		return "", g.err
	}
	return "re_test", nil
}

// racingStore lets another writer refund the payment right before the
// service's own status update lands.
type racingStore struct {
	database.Store
	raced bool
}

func (r *racingStore) Update(ctx context.Context, table string, fields, where map[string]any) (int64, error) {
	if table == "payments" && fields["status"] == model.PaymentStatusRefunded && !r.raced {
		r.raced = true
		if _, err := r.Store.Update(ctx, "payments",
			map[string]any{"status": model.PaymentStatusRefunded},
			map[string]any{"id": where["id"]}); err != nil {
			return 0, err
		}
	}
	return r.Store.Update(ctx, table, fields, where)
}

func completedStripePayment(t *testing.T, store database.Store, gw *refundingGateway) (*PaymentService, *model.PaymentModel) {
	t.Helper()
	ctx := context.Background()
	svc := NewPaymentService(store, &notes{}, NewRegistry(NewMockGateway(model.GatewayMock, 1, fixed(0)), gw))
	pub := dbtest.User(t, store, "publisher")
	p, err := svc.Create(ctx, pub, dto.CreatePaymentRequest{Amount: 40, PaymentMethod: model.PaymentMethodStripe})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p, err = svc.ProcessPayment(ctx, pub, p.ID); err != nil || p.Status != model.PaymentStatusCompleted {
		t.Fatalf("process: %+v %v", p, err)
	}
	return svc, p
}

func TestRefundGatewayFailureKeepsPaymentCompleted(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore(t)
	gw := &refundingGateway{err: errors.New("stripe unavailable")}
	svc, p := completedStripePayment(t, store, gw)

	if _, err := svc.Refund(ctx, p.ID, nil, nil); helper.ErrorCode(err) != 502 {
		t.Fatalf("expected 502, got %v", err)
	}
	if n := dbtest.Count(t, store, "payments", map[string]any{"id": p.ID, "status": model.PaymentStatusCompleted}); n != 1 {
		t.Fatal("payment should be completed again after a refused refund")
	}

	gw.err = nil
	refunded, err := svc.Refund(ctx, p.ID, nil, nil)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if refunded.Metadata["refund_id"] != "re_test" || gw.refunds != 2 {
		t.Fatalf("refund id = %v, remote calls = %d", refunded.Metadata["refund_id"], gw.refunds)
	}

	if _, err := svc.Refund(ctx, p.ID, nil, nil); helper.ErrorCode(err) != 400 || gw.refunds != 2 {
		t.Fatalf("second refund must stop before the gateway: %v, calls %d", err, gw.refunds)
	}
}

func TestConcurrentRefundNeverReachesGateway(t *testing.T) {
	ctx := context.Background()
	base := dbtest.NewStore(t)
	gw := &refundingGateway{}
	_, p := completedStripePayment(t, base, gw)

	racing := &racingStore{Store: base}
	svc := NewPaymentService(racing, &notes{}, NewRegistry(NewMockGateway(model.GatewayMock, 1, fixed(0)), gw))
	if _, err := svc.Refund(ctx, p.ID, nil, nil); helper.ErrorCode(err) != 409 {
		t.Fatalf("expected 409, got %v", err)
	}
	if gw.refunds != 0 {
		t.Fatalf("gateway refunded %d times for a lost race", gw.refunds)
	}
}

func TestPlatformStatsCoverAllPublishers(t *testing.T) {
	h := newHarness(t, fixed(0))
	ctx := context.Background()
	h.create(t, 10)
	other := dbtest.User(t, h.store, "publisher")
	if _, err := h.svc.Create(ctx, other, dto.CreatePaymentRequest{Amount: 15, PaymentMethod: "paypal"}); err != nil {
		t.Fatal(err)
	}

	stats, err := h.svc.Stats(ctx, 0)
	if err != nil {
		t.Fatalf("platform stats: %v", err)
	}
	if got := stats.ByStatus[model.PaymentStatusPending]; got.Count != 2 || got.Amount != 25 {
		t.Fatalf("pending = %+v, want 2 payments totalling 25", got)
	}
}

func TestMidtransSignature(t *testing.T) {
	g := NewMidtransGateway("server-key", false)
	sum := sha512.Sum512([]byte("JM-1-abc" + "200" + "150000.00" + "server-key"))
	valid := hex.EncodeToString(sum[:])

	tests := []struct {
		name string
		sig  string
		want bool
	}{
		{"valid", valid, true},
		{"upper case", strings.ToUpper(valid), true},
		{"tampered", "0" + valid[1:], false},
		{"truncated", valid[:64], false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		if got := g.VerifySignature("JM-1-abc", "200", "150000.00", tt.sig); got != tt.want {
			t.Errorf("%s: VerifySignature = %v, want %v", tt.name, got, tt.want)
		}
	}
	if g.VerifySignature("JM-1-abc", "200", "1.00", valid) {
		t.Error("signature must cover the gross amount")
	}
}

// awaitingGateway leaves every charge processing, like a Stripe intent that
// still needs the customer or the bank.
type awaitingGateway struct{}

func (awaitingGateway) Name() string { return model.GatewayStripe }

func (awaitingGateway) Charge(context.Context, *model.PaymentModel) (*ChargeResult, error) {
	return &ChargeResult{
		TransactionID: "pi_waiting",
		Outcome:       OutcomeAwaiting,
		Metadata:      map[string]any{"stripe_status": "processing"},
	}, nil
}

func TestAwaitingPaymentIsCompletedManually(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore(t)
	n := &notes{}
	svc := NewPaymentService(store, n, NewRegistry(NewMockGateway(model.GatewayMock, 1, nil), awaitingGateway{}))
	publisher := dbtest.User(t, store, "publisher")
	student := dbtest.User(t, store, "student")

	p, err := svc.Create(ctx, publisher, dto.CreatePaymentRequest{
		StudentID:     &student,
		Amount:        40,
		PaymentMethod: model.PaymentMethodStripe,
	})
	if err != nil {
		t.Fatal(err)
	}
	p, err = svc.ProcessPayment(ctx, publisher, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != model.PaymentStatusProcessing || p.TransactionID == nil || *p.TransactionID != "pi_waiting" {
		t.Fatalf("awaiting charge should stay processing: %+v", p)
	}
	if total, _ := n.count("payment_completed"); total != 0 {
		t.Fatalf("no completion notice before settlement, got %d", total)
	}

	p, err = svc.Complete(ctx, p.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != model.PaymentStatusCompleted || p.Metadata["stripe_status"] != "processing" {
		t.Fatalf("manual completion: %+v", p)
	}
	if _, err := svc.Complete(ctx, p.ID, nil); helper.ErrorCode(err) != 400 && helper.ErrorCode(err) != 409 {
		t.Fatalf("completing twice err = %v, want 400 or 409", err)
	}
}
