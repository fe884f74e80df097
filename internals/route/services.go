package routes

import (
	payService "jobmarket_backend/internals/features/finance/payments/service"
	notifService "jobmarket_backend/internals/features/home/notifications/service"
	catService "jobmarket_backend/internals/features/jobs/categories/service"
	jobService "jobmarket_backend/internals/features/jobs/jobs/service"
	fbService "jobmarket_backend/internals/features/reviews/feedbacks/service"
	userService "jobmarket_backend/internals/features/users/users/service"
	"jobmarket_backend/internals/middlewares"

	"gorm.io/gorm"
)

// Services is everything main builds before mounting routes.
type Services struct {
	DB            *gorm.DB
	Accounts      *userService.AccountService
	Categories    *catService.CategoryService
	Jobs          *jobService.JobService
	Feedbacks     *fbService.FeedbackService
	Payments      *payService.PaymentService
	Notifications *notifService.NotificationService
	// Midtrans is nil when MIDTRANS_SERVER_KEY is unset.
	Midtrans    *payService.MidtransGateway
	RateLimiter *middlewares.RedisLimiter
}
