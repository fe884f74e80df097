package route

import (
	"jobmarket_backend/internals/features/jobs/jobs/controller"
	"jobmarket_backend/internals/features/jobs/jobs/service"

	"github.com/gofiber/fiber/v2"
)

func JobPublicRoutes(api fiber.Router, svc *service.JobService) {
	ctrl := controller.NewJobController(svc)

	g := api.Group("/jobs")
	g.Get("/", ctrl.Search)
	g.Get("/:id", ctrl.Get)
}

func JobAdminRoutes(api fiber.Router, svc *service.JobService) {
	ctrl := controller.NewJobController(svc)

	g := api.Group("/jobs")
	g.Get("/", ctrl.Search)
}
