package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	database "jobmarket_backend/internals/databases"
	"jobmarket_backend/internals/features/finance/payments/dto"
	"jobmarket_backend/internals/features/finance/payments/model"
	notifModel "jobmarket_backend/internals/features/home/notifications/model"
	notifService "jobmarket_backend/internals/features/home/notifications/service"
	userModel "jobmarket_backend/internals/features/users/users/model"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type PaymentService struct {
	store    database.Store
	notifier notifService.Notifier
	gateways *Registry
	now      func() time.Time
}

func NewPaymentService(store database.Store, notifier notifService.Notifier, gateways *Registry) *PaymentService {
	return &PaymentService{store: store, notifier: notifier, gateways: gateways, now: time.Now}
}

// =======================
// Create
// =======================

func (s *PaymentService) Create(ctx context.Context, publisherID int64, req dto.CreatePaymentRequest) (*model.PaymentModel, error) {
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !model.IsPaymentMethod(req.PaymentMethod) {
		return nil, helper.BadRequest("unsupported payment method")
	}
	amount := math.Round(req.Amount*100) / 100
	if amount <= 0 {
		return nil, helper.BadRequest("amount must be greater than 0")
	}

	if err := s.checkRole(ctx, publisherID, userModel.RolePublisher, "publisher not found"); err != nil {
		return nil, err
	}
	if req.StudentID != nil {
		if err := s.checkRole(ctx, *req.StudentID, userModel.RoleStudent, "student not found"); err != nil {
			return nil, err
		}
	}
	if req.JobID != nil {
		owns, err := s.store.Exists(ctx, "jobs", map[string]any{"id": *req.JobID, "publisher_id": publisherID})
		if err != nil {
			return nil, helper.StorageError("create payment", err)
		}
		if !owns {
			return nil, helper.NotFoundOrDenied("job")
		}
	}

	now := s.now().UTC()
	fields := map[string]any{
		"publisher_id":    publisherID,
		"student_id":      req.StudentID,
		"job_id":          req.JobID,
		"amount":          amount,
		"currency":        req.Currency,
		"payment_method":  req.PaymentMethod,
		"payment_gateway": req.PaymentGateway,
		"status":          model.PaymentStatusPending,
		"description":     req.Description,
		"created_at":      now,
		"updated_at":      now,
	}
	if len(req.Metadata) > 0 {
		fields["metadata"] = datatypes.JSONMap(req.Metadata)
	}
	id, err := s.store.Insert(ctx, "payments", fields)
	if err != nil {
		return nil, helper.StorageError("create payment", err)
	}
	return s.load(ctx, id)
}

// =======================
// Gateway dispatch
// =======================

// ProcessPayment moves a pending payment to processing and lets its gateway
// drive it to completed or failed. Gateways that confirm asynchronously leave
// it processing.
func (s *PaymentService) ProcessPayment(ctx context.Context, publisherID, paymentID int64) (*model.PaymentModel, error) {
	p, err := s.owned(ctx, publisherID, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PaymentStatusPending {
		return nil, helper.BadRequest("only pending payments can be processed")
	}

	gw := s.gateways.GatewayFor(p)
	gwName := gw.Name()
	if err := s.transition(ctx, p, model.PaymentStatusProcessing, map[string]any{"payment_gateway": gwName}); err != nil {
		return nil, err
	}
	p.PaymentGateway = &gwName

	res, err := gw.Charge(ctx, p)
	if err != nil {
		log.Printf("[ERROR] gateway %s charge payment %d: %v", gwName, p.ID, err)
		res = &ChargeResult{Outcome: OutcomeFailed, FailureReason: "payment gateway unavailable"}
	}

	extra := map[string]any{}
	if res.TransactionID != "" {
		extra["transaction_id"] = res.TransactionID
	}
	meta := mergeMeta(p.Metadata, res.Metadata)

	switch res.Outcome {
	case OutcomeCompleted:
		if len(res.Metadata) > 0 {
			extra["metadata"] = meta
		}
		if err := s.complete(ctx, p, extra); err != nil {
			return nil, err
		}
		return p, nil
	case OutcomeAwaiting:
		extra["metadata"] = meta
		extra["updated_at"] = s.now().UTC()
		if _, err := s.store.Update(ctx, "payments", extra, map[string]any{"id": p.ID}); err != nil {
			return nil, helper.StorageError("process payment", err)
		}
		return s.load(ctx, p.ID)
	default:
		meta["failure_reason"] = res.FailureReason
		extra["metadata"] = meta
		if err := s.transition(ctx, p, model.PaymentStatusFailed, extra); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Complete marks a processing payment as settled, e.g. after a manual check.
func (s *PaymentService) Complete(ctx context.Context, paymentID int64, transactionID *string) (*model.PaymentModel, error) {
	p, err := s.load(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	extra := map[string]any{}
	if transactionID != nil && *transactionID != "" {
		extra["transaction_id"] = *transactionID
	}
	if err := s.complete(ctx, p, extra); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) Fail(ctx context.Context, paymentID int64, reason string) (*model.PaymentModel, error) {
	p, err := s.load(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	meta := mergeMeta(p.Metadata, map[string]any{"failure_reason": strings.TrimSpace(reason)})
	if err := s.transition(ctx, p, model.PaymentStatusFailed, map[string]any{"metadata": meta}); err != nil {
		return nil, err
	}
	return p, nil
}

// Cancel is refused once the money has moved.
func (s *PaymentService) Cancel(ctx context.Context, publisherID, paymentID int64) (*model.PaymentModel, error) {
	p, err := s.owned(ctx, publisherID, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status == model.PaymentStatusCompleted {
		return nil, helper.BadRequest("completed payments cannot be cancelled, request a refund instead")
	}
	if err := s.transition(ctx, p, model.PaymentStatusCancelled, nil); err != nil {
		return nil, err
	}
	return p, nil
}

// Refund returns amount (the full amount when nil) of a completed payment.
func (s *PaymentService) Refund(ctx context.Context, paymentID int64, amount *float64, reason *string) (*model.PaymentModel, error) {
	p, err := s.load(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PaymentStatusCompleted {
		return nil, helper.BadRequest("only completed payments can be refunded")
	}
	refund := p.Amount
	if amount != nil {
		refund = math.Round(*amount*100) / 100
	}
	if refund <= 0 {
		return nil, helper.BadRequest("refund amount must be greater than 0")
	}
	if refund > p.Amount {
		return nil, helper.BadRequest("refund amount cannot exceed the original payment amount")
	}

	now := s.now().UTC()
	meta := map[string]any{
		"refund_amount": refund,
		"refunded_at":   now.Format(time.RFC3339),
	}
	if reason != nil && strings.TrimSpace(*reason) != "" {
		meta["refund_reason"] = strings.TrimSpace(*reason)
	}
	// The row is claimed before any money moves, so a concurrent refund loses
	// on the status guard instead of reaching the gateway twice.
	before := p.Metadata
	if err := s.transition(ctx, p, model.PaymentStatusRefunded, map[string]any{"metadata": mergeMeta(before, meta)}); err != nil {
		return nil, err
	}
	if r, ok := s.gateways.For(p.Gateway()).(Refunder); ok && p.TransactionID != nil {
		refundID, err := r.Refund(ctx, p, refund)
		if err != nil {
			log.Printf("[ERROR] gateway %s refund payment %d: %v", p.Gateway(), p.ID, err)
			s.releaseRefund(ctx, p, before)
			return nil, fiber.NewError(fiber.StatusBadGateway, "payment gateway refund failed")
		}
		p.Metadata = mergeMeta(p.Metadata, map[string]any{"refund_id": refundID})
		if _, err := s.store.Update(ctx, "payments",
			map[string]any{"metadata": p.Metadata},
			map[string]any{"id": p.ID, "status": model.PaymentStatusRefunded},
		); err != nil {
			log.Printf("[ERROR] store refund id %s for payment %d: %v", refundID, p.ID, err)
		}
	}

	s.notifyParties(ctx, p, notifModel.TypePaymentRefunded,
		fmt.Sprintf("A refund of %.2f %s was issued for payment #%d", refund, p.Currency, p.ID))
	return p, nil
}

// HandleMidtransNotification applies a Snap callback to the payment whose
// transaction_id is the order id. changed is false for duplicates and
// statuses that carry no transition.
func (s *PaymentService) HandleMidtransNotification(ctx context.Context, n dto.MidtransNotification) (p *model.PaymentModel, changed bool, err error) {
	var pm model.PaymentModel
	found, err := s.store.SelectOne(ctx, &pm,
		`SELECT * FROM payments WHERE transaction_id = @order_id AND payment_gateway = @gateway`,
		map[string]any{"order_id": n.OrderID, "gateway": model.GatewayMidtrans})
	if err != nil {
		return nil, false, helper.StorageError("load payment", err)
	}
	if !found {
		return nil, false, fiber.NewError(fiber.StatusNotFound, "payment not found")
	}
	p = &pm

	target := MapMidtransStatus(n.TransactionStatus, n.FraudStatus)
	if target == "" || target == p.Status || !model.CanTransition(p.Status, target) {
		return p, false, nil
	}

	meta := mergeMeta(p.Metadata, map[string]any{
		"midtrans_status":         n.TransactionStatus,
		"midtrans_payment_type":   n.PaymentType,
		"midtrans_transaction_id": n.TransactionID,
	})
	switch target {
	case model.PaymentStatusCompleted:
		err = s.complete(ctx, p, map[string]any{"metadata": meta})
	default:
		err = s.transition(ctx, p, target, map[string]any{"metadata": meta})
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// MapMidtransStatus translates a Snap transaction_status; "" means no change.
func MapMidtransStatus(transactionStatus, fraudStatus string) string {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		if strings.ToLower(fraudStatus) == "challenge" {
			return ""
		}
		return model.PaymentStatusCompleted
	case "settlement":
		return model.PaymentStatusCompleted
	case "deny", "expire", "failure":
		return model.PaymentStatusFailed
	case "cancel":
		return model.PaymentStatusCancelled
	}
	return ""
}

// =======================
// Reads
// =======================

// GetForUser shows a payment to its publisher, its student, or an admin.
func (s *PaymentService) GetForUser(ctx context.Context, userID int64, isAdmin bool, paymentID int64) (*model.PaymentModel, error) {
	p, err := s.load(ctx, paymentID)
	if err != nil {
		if helper.ErrorCode(err) == fiber.StatusNotFound {
			return nil, helper.NotFoundOrDenied("payment")
		}
		return nil, err
	}
	if isAdmin || p.PublisherID == userID || (p.StudentID != nil && *p.StudentID == userID) {
		return p, nil
	}
	return nil, helper.NotFoundOrDenied("payment")
}

func (s *PaymentService) ListByPublisher(ctx context.Context, publisherID int64, status string, pg helper.Paging) ([]model.PaymentModel, int64, error) {
	return s.list(ctx, "publisher_id", publisherID, status, pg)
}

func (s *PaymentService) ListByStudent(ctx context.Context, studentID int64, status string, pg helper.Paging) ([]model.PaymentModel, int64, error) {
	return s.list(ctx, "student_id", studentID, status, pg)
}

func (s *PaymentService) list(ctx context.Context, col string, id int64, status string, pg helper.Paging) ([]model.PaymentModel, int64, error) {
	where := map[string]any{col: id}
	cond := col + " = @id"
	if status != "" {
		where["status"] = status
		cond += " AND status = @status"
	}
	total, err := s.store.Count(ctx, "payments", where)
	if err != nil {
		return nil, 0, helper.StorageError("list payments", err)
	}
	items := make([]model.PaymentModel, 0)
	if err := s.store.Select(ctx, &items, `
	SELECT * FROM payments
	WHERE `+cond+`
	ORDER BY created_at DESC, id DESC
	LIMIT @limit OFFSET @offset`, map[string]any{
		"id":     id,
		"status": status,
		"limit":  pg.Limit,
		"offset": pg.Offset,
	}); err != nil {
		return nil, 0, helper.StorageError("list payments", err)
	}
	return items, total, nil
}

// Stats totals payments per status; publisherID 0 covers the platform.
func (s *PaymentService) Stats(ctx context.Context, publisherID int64) (*dto.PaymentStats, error) {
	type row struct {
		Status string  `gorm:"column:status"`
		N      int64   `gorm:"column:n"`
		Total  float64 `gorm:"column:total"`
	}
	query := `SELECT status, COUNT(*) AS n, COALESCE(SUM(amount), 0) AS total FROM payments`
	if publisherID > 0 {
		query += ` WHERE publisher_id = @publisher_id`
	}
	query += "\n\tGROUP BY status"

	var rows []row
	if err := s.store.Select(ctx, &rows, query, map[string]any{"publisher_id": publisherID}); err != nil {
		return nil, helper.StorageError("load payment stats", err)
	}
	stats := &dto.PaymentStats{ByStatus: make(map[string]dto.StatusTotal, 6)}
	for _, st := range []string{
		model.PaymentStatusPending, model.PaymentStatusProcessing, model.PaymentStatusCompleted,
		model.PaymentStatusFailed, model.PaymentStatusCancelled, model.PaymentStatusRefunded,
	} {
		stats.ByStatus[st] = dto.StatusTotal{}
	}
	for _, r := range rows {
		total := math.Round(r.Total*100) / 100
		stats.ByStatus[r.Status] = dto.StatusTotal{Count: r.N, Amount: total}
		switch r.Status {
		case model.PaymentStatusCompleted:
			stats.CompletedVolume = total
		case model.PaymentStatusRefunded:
			stats.RefundedVolume = total
		}
	}
	return stats, nil
}

// =======================
// Internals
// =======================

func (s *PaymentService) complete(ctx context.Context, p *model.PaymentModel, extra map[string]any) error {
	now := s.now().UTC()
	if extra == nil {
		extra = map[string]any{}
	}
	extra["payment_date"] = now
	if err := s.transition(ctx, p, model.PaymentStatusCompleted, extra); err != nil {
		return err
	}
	p.PaymentDate = &now
	s.notifyParties(ctx, p, notifModel.TypePaymentCompleted,
		fmt.Sprintf("Payment #%d of %.2f %s completed", p.ID, p.Amount, p.Currency))
	return nil
}

// transition applies a state change guarded on the current status so a
// concurrent change makes it fail instead of overwrite.
func (s *PaymentService) transition(ctx context.Context, p *model.PaymentModel, to string, extra map[string]any) error {
	if !model.CanTransition(p.Status, to) {
		return helper.BadRequest(fmt.Sprintf("cannot change payment from %s to %s", p.Status, to))
	}
	fields := map[string]any{"status": to, "updated_at": s.now().UTC()}
	for k, v := range extra {
		fields[k] = v
	}
	n, err := s.store.Update(ctx, "payments", fields, map[string]any{"id": p.ID, "status": p.Status})
	if err != nil {
		return helper.StorageError("update payment", err)
	}
	if n == 0 {
		return helper.Conflict("payment was changed by another request, reload and retry")
	}

	p.Status = to
	if v, ok := fields["transaction_id"].(string); ok {
		p.TransactionID = &v
	}
	if v, ok := fields["payment_gateway"].(string); ok {
		p.PaymentGateway = &v
	}
	if v, ok := fields["metadata"].(datatypes.JSONMap); ok {
		p.Metadata = v
	}
	p.UpdatedAt = fields["updated_at"].(time.Time)
	return nil
}

// releaseRefund puts a claimed refund back to completed after the gateway
// refused it.
func (s *PaymentService) releaseRefund(ctx context.Context, p *model.PaymentModel, meta datatypes.JSONMap) {
	if meta == nil {
		meta = datatypes.JSONMap{}
	}
	n, err := s.store.Update(ctx, "payments",
		map[string]any{"status": model.PaymentStatusCompleted, "metadata": meta, "updated_at": s.now().UTC()},
		map[string]any{"id": p.ID, "status": model.PaymentStatusRefunded},
	)
	if err != nil || n == 0 {
		log.Printf("[ERROR] payment %d left refunded after failed gateway refund (rows %d): %v", p.ID, n, err)
		return
	}
	p.Status = model.PaymentStatusCompleted
	p.Metadata = meta
}

func (s *PaymentService) notifyParties(ctx context.Context, p *model.PaymentModel, typ, msg string) {
	l := fmt.Sprintf("/payments/%d", p.ID)
	notifService.Send(ctx, s.notifier, notifService.Notification{UserID: p.PublisherID, Type: typ, Message: msg, Link: &l})
	if p.StudentID != nil {
		notifService.Send(ctx, s.notifier, notifService.Notification{UserID: *p.StudentID, Type: typ, Message: msg, Link: &l})
	}
}

func (s *PaymentService) load(ctx context.Context, paymentID int64) (*model.PaymentModel, error) {
	var p model.PaymentModel
	found, err := s.store.SelectOne(ctx, &p, `SELECT * FROM payments WHERE id = @id`, map[string]any{"id": paymentID})
	if err != nil {
		return nil, helper.StorageError("load payment", err)
	}
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "payment not found")
	}
	return &p, nil
}

func (s *PaymentService) owned(ctx context.Context, publisherID, paymentID int64) (*model.PaymentModel, error) {
	p, err := s.load(ctx, paymentID)
	if err != nil {
		if helper.ErrorCode(err) == fiber.StatusNotFound {
			return nil, helper.NotFoundOrDenied("payment")
		}
		return nil, err
	}
	if p.PublisherID != publisherID {
		return nil, helper.NotFoundOrDenied("payment")
	}
	return p, nil
}

func (s *PaymentService) checkRole(ctx context.Context, userID int64, role, msg string) error {
	ok, err := s.store.Exists(ctx, "users", map[string]any{"id": userID, "role": role})
	if err != nil {
		return helper.StorageError("load user", err)
	}
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, msg)
	}
	return nil
}

func mergeMeta(base datatypes.JSONMap, add map[string]any) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(base)+len(add))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range add {
		out[k] = v
	}
	return out
}
