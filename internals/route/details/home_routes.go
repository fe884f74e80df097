package details

import (
	notifRoute "jobmarket_backend/internals/features/home/notifications/route"
	notifService "jobmarket_backend/internals/features/home/notifications/service"

	"github.com/gofiber/fiber/v2"
)

func HomeRoutes(private fiber.Router, notifications *notifService.NotificationService) {
	notifRoute.NotificationUserRoutes(private, notifications)
}
