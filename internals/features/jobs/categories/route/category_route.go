package route

import (
	"jobmarket_backend/internals/features/jobs/categories/controller"
	"jobmarket_backend/internals/features/jobs/categories/service"

	"github.com/gofiber/fiber/v2"
)

func CategoryPublicRoutes(api fiber.Router, svc *service.CategoryService) {
	ctrl := controller.NewCategoryController(svc)

	g := api.Group("/categories")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Get)
}

func CategoryAdminRoutes(api fiber.Router, svc *service.CategoryService) {
	ctrl := controller.NewCategoryController(svc)

	g := api.Group("/categories")
	g.Get("/", ctrl.ListWithCounts)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
