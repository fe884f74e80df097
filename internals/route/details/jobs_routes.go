package details

import (
	catRoute "jobmarket_backend/internals/features/jobs/categories/route"
	catService "jobmarket_backend/internals/features/jobs/categories/service"
	jobRoute "jobmarket_backend/internals/features/jobs/jobs/route"
	jobService "jobmarket_backend/internals/features/jobs/jobs/service"
	fbRoute "jobmarket_backend/internals/features/reviews/feedbacks/route"
	fbService "jobmarket_backend/internals/features/reviews/feedbacks/service"

	"github.com/gofiber/fiber/v2"
)

// JobsPublicRoutes is what a visitor can browse.
func JobsPublicRoutes(r fiber.Router, categories *catService.CategoryService, jobs *jobService.JobService, feedbacks *fbService.FeedbackService) {
	catRoute.CategoryPublicRoutes(r, categories)
	jobRoute.JobPublicRoutes(r, jobs)
	fbRoute.FeedbackPublicRoutes(r, feedbacks)
}

func JobsAdminRoutes(r fiber.Router, categories *catService.CategoryService, jobs *jobService.JobService, feedbacks *fbService.FeedbackService) {
	catRoute.CategoryAdminRoutes(r, categories)
	jobRoute.JobAdminRoutes(r, jobs)
	fbRoute.FeedbackAdminRoutes(r, feedbacks)
}
