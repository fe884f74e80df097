package route

import (
	"jobmarket_backend/internals/features/reviews/feedbacks/controller"
	"jobmarket_backend/internals/features/reviews/feedbacks/service"

	"github.com/gofiber/fiber/v2"
)

func FeedbackPublicRoutes(api fiber.Router, svc *service.FeedbackService) {
	ctrl := controller.NewFeedbackController(svc)

	g := api.Group("/publishers")
	g.Get("/:id/reviews", ctrl.ListForPublisher)
	g.Get("/:id/rating", ctrl.RatingStats)
}

func FeedbackAdminRoutes(api fiber.Router, svc *service.FeedbackService) {
	ctrl := controller.NewFeedbackController(svc)

	g := api.Group("/reviews")
	g.Get("/", ctrl.ListAll)
}
