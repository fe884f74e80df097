package route

import (
	"jobmarket_backend/internals/constants"
	"jobmarket_backend/internals/features/users/users/controller"
	authMiddleware "jobmarket_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
)

// AccountRoutes are open to every registered role.
func AccountRoutes(api fiber.Router) {
	ctrl := controller.NewAccountController()

	me := api.Group("/me")
	me.Get("/", ctrl.Me)
	me.Get("/dashboard", ctrl.Dashboard)
	me.Patch("/", authMiddleware.RequireCapability(constants.PermUpdateProfile), ctrl.UpdateProfile)
}

func StudentRoutes(api fiber.Router) {
	ctrl := controller.NewStudentController()
	can := authMiddleware.RequireCapability

	g := api.Group("/student")

	apps := g.Group("/applications")
	apps.Get("/", can(constants.PermViewApplications), ctrl.Applications)
	apps.Get("/:id", can(constants.PermViewApplications), ctrl.Application)
	apps.Post("/", can(constants.PermApplyJobs), ctrl.Apply)
	apps.Delete("/:id", can(constants.PermWithdrawApplication), ctrl.Withdraw)

	wish := g.Group("/wishlist", can(constants.PermManageWishlist))
	wish.Get("/", ctrl.Wishlist)
	wish.Get("/:job_id", ctrl.WishlistStatus)
	wish.Post("/:job_id", ctrl.AddToWishlist)
	wish.Post("/:job_id/toggle", ctrl.ToggleWishlist)
	wish.Delete("/:job_id", ctrl.RemoveFromWishlist)

	reviews := g.Group("/reviews", can(constants.PermWriteReviews))
	reviews.Get("/", ctrl.Reviews)
	reviews.Post("/", ctrl.CreateReview)
	reviews.Patch("/:id", ctrl.UpdateReview)
	reviews.Delete("/:id", ctrl.DeleteReview)
}

func PublisherRoutes(api fiber.Router) {
	ctrl := controller.NewPublisherController()
	can := authMiddleware.RequireCapability

	g := api.Group("/publisher")

	jobs := g.Group("/jobs")
	jobs.Get("/", can(constants.PermManageJobs), ctrl.Jobs)
	jobs.Post("/", can(constants.PermCreateJobs), ctrl.CreateJob)
	jobs.Patch("/:id", can(constants.PermManageJobs), ctrl.UpdateJob)
	jobs.Patch("/:id/status", can(constants.PermManageJobs), ctrl.ChangeJobStatus)
	jobs.Delete("/:id", can(constants.PermManageJobs), ctrl.DeleteJob)
	jobs.Get("/:id/applications", can(constants.PermViewJobApplications), ctrl.JobApplications)

	apps := g.Group("/applications")
	apps.Get("/", can(constants.PermViewJobApplications), ctrl.Applications)
	apps.Get("/:id", can(constants.PermViewJobApplications), ctrl.Application)
	apps.Patch("/:id/status", can(constants.PermManageApplications), ctrl.ChangeApplicationStatus)

	reviews := g.Group("/reviews", can(constants.PermViewReviews))
	reviews.Get("/", ctrl.Reviews)
	reviews.Get("/rating", ctrl.RatingStats)
}

// AdminRoutes expects the /api/a group, already limited to admins.
func AdminRoutes(api fiber.Router) {
	ctrl := controller.NewAdminController()
	can := authMiddleware.RequireCapability

	users := api.Group("/users", can(constants.PermManageUsers))
	users.Get("/", ctrl.ListUsers)
	users.Get("/:id", ctrl.GetUser)
	users.Patch("/:id/block", ctrl.BlockUser)
	users.Patch("/:id/unblock", ctrl.UnblockUser)
	users.Patch("/:id/verify", ctrl.VerifyUser)
	users.Delete("/:id", ctrl.DeleteUser)

	api.Patch("/reviews/:id/moderate", can(constants.PermModerateReviews), ctrl.ModerateReview)
	api.Patch("/jobs/:id/status", can(constants.PermManageAllJobs), ctrl.ChangeJobStatus)
	api.Get("/stats", can(constants.PermViewStatistics), ctrl.Stats)
}
