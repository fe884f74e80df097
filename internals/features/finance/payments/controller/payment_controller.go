package controller

import (
	"log"

	"jobmarket_backend/internals/features/finance/payments/dto"
	"jobmarket_backend/internals/features/finance/payments/service"
	userModel "jobmarket_backend/internals/features/users/users/model"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type PaymentController struct {
	svc      *service.PaymentService
	midtrans *service.MidtransGateway // nil when MIDTRANS_SERVER_KEY is unset
}

func NewPaymentController(svc *service.PaymentService, midtrans *service.MidtransGateway) *PaymentController {
	return &PaymentController{svc: svc, midtrans: midtrans}
}

// =======================
// Registered users
// =======================

func (h *PaymentController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Create(c.UserContext(), userID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "payment created", p)
}

// GET /payments lists the caller's payments as publisher or as student.
func (h *PaymentController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	pg := helper.ResolvePaging(c, 20, 100)
	list := h.svc.ListByPublisher
	if helper.GetUserRole(c) == userModel.RoleStudent {
		list = h.svc.ListByStudent
	}
	items, total, err := list(c.UserContext(), userID, c.Query("status"), pg)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "payments", items, helper.BuildPagination(total, pg))
}

func (h *PaymentController) Get(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p, err := h.svc.GetForUser(c.UserContext(), userID, helper.GetUserRole(c) == userModel.RoleAdmin, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "payment", p)
}

func (h *PaymentController) Process(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p, err := h.svc.ProcessPayment(c.UserContext(), userID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "payment "+p.Status, p)
}

func (h *PaymentController) Cancel(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p, err := h.svc.Cancel(c.UserContext(), userID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "payment cancelled", p)
}

// =======================
// Admin
// =======================

func (h *PaymentController) AdminList(c *fiber.Ctx) error {
	publisherID := int64(c.QueryInt("publisher_id", 0))
	if publisherID <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "publisher_id is required")
	}
	pg := helper.ResolvePaging(c, 20, 100)
	items, total, err := h.svc.ListByPublisher(c.UserContext(), publisherID, c.Query("status"), pg)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "payments", items, helper.BuildPagination(total, pg))
}

func (h *PaymentController) Stats(c *fiber.Ctx) error {
	stats, err := h.svc.Stats(c.UserContext(), int64(c.QueryInt("publisher_id", 0)))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "payment stats", stats)
}

func (h *PaymentController) Complete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CompleteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	p, err := h.svc.Complete(c.UserContext(), id, req.TransactionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "payment completed", p)
}

func (h *PaymentController) Fail(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.FailRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.ValidateStruct(req); err != nil {
		return helper.FromFiberError(c, err)
	}
	p, err := h.svc.Fail(c.UserContext(), id, req.Reason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "payment marked as failed", p)
}

func (h *PaymentController) Refund(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.RefundRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	if err := helper.ValidateStruct(req); err != nil {
		return helper.FromFiberError(c, err)
	}
	p, err := h.svc.Refund(c.UserContext(), id, req.Amount, req.Reason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "payment refunded", p)
}

// =======================
// Webhook
// =======================

// MidtransWebhook answers 200 for unknown orders so Midtrans stops retrying.
func (h *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	if h.midtrans == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "midtrans is not configured")
	}
	var n dto.MidtransNotification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if !h.midtrans.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	p, changed, err := h.svc.HandleMidtransNotification(c.UserContext(), n)
	if err != nil {
		if helper.ErrorCode(err) == fiber.StatusNotFound {
			log.Printf("[WARN] midtrans notification for unknown order %s", n.OrderID)
			return c.JSON(fiber.Map{"status": "ignored", "reason": "payment not found"})
		}
		return helper.FromFiberError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":             "ok",
		"changed":            changed,
		"payment_id":         p.ID,
		"payment_status":     p.Status,
		"transaction_status": n.TransactionStatus,
	})
}
