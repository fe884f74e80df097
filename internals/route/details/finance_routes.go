package details

import (
	"jobmarket_backend/internals/constants"
	payController "jobmarket_backend/internals/features/finance/payments/controller"
	payRoute "jobmarket_backend/internals/features/finance/payments/route"
	payService "jobmarket_backend/internals/features/finance/payments/service"
	"jobmarket_backend/internals/middlewares"
	authMiddleware "jobmarket_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
)

// FinanceRoutes mounts payments. The Midtrans webhook sits outside the
// authenticated groups; it is verified by signature instead.
func FinanceRoutes(app *fiber.App, private, admin fiber.Router, payments *payService.PaymentService, midtrans *payService.MidtransGateway, limiter *middlewares.RedisLimiter) {
	ctrl := payController.NewPaymentController(payments, midtrans)

	payRoute.PaymentUserRoutes(private, ctrl,
		authMiddleware.RequireCapability(constants.PermMakePayments),
		middlewares.PaymentRateLimiter(limiter),
	)
	payRoute.PaymentAdminRoutes(admin, ctrl)
	payRoute.PaymentWebhookRoutes(app, ctrl)
}
