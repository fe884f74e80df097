package details

import (
	userRoute "jobmarket_backend/internals/features/users/users/route"

	"github.com/gofiber/fiber/v2"
)

func UserRoutes(private, admin fiber.Router) {
	userRoute.AccountRoutes(private)
	userRoute.StudentRoutes(private)
	userRoute.PublisherRoutes(private)
	userRoute.AdminRoutes(admin)
}
