package route

import (
	"jobmarket_backend/internals/features/finance/payments/controller"

	"github.com/gofiber/fiber/v2"
)

// PaymentUserRoutes: the caller supplies the publisher guard and the limiter
// placed in front of gateway calls.
func PaymentUserRoutes(api fiber.Router, ctrl *controller.PaymentController, publisherOnly, processLimit fiber.Handler) {
	g := api.Group("/payments")
	g.Get("/", ctrl.ListMine)
	g.Get("/:id", ctrl.Get)
	g.Post("/", publisherOnly, ctrl.Create)
	g.Post("/:id/process", publisherOnly, processLimit, ctrl.Process)
	g.Post("/:id/cancel", publisherOnly, ctrl.Cancel)
}

func PaymentAdminRoutes(api fiber.Router, ctrl *controller.PaymentController) {
	g := api.Group("/payments")
	g.Get("/", ctrl.AdminList)
	g.Get("/stats", ctrl.Stats)
	g.Get("/:id", ctrl.Get)
	g.Post("/:id/complete", ctrl.Complete)
	g.Post("/:id/fail", ctrl.Fail)
	g.Post("/:id/refund", ctrl.Refund)
}

func PaymentWebhookRoutes(app fiber.Router, ctrl *controller.PaymentController) {
	app.Post("/api/payments/midtrans/webhook", ctrl.MidtransWebhook)
}
