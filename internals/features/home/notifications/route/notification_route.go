package route

import (
	"jobmarket_backend/internals/features/home/notifications/controller"
	"jobmarket_backend/internals/features/home/notifications/service"

	"github.com/gofiber/fiber/v2"
)

func NotificationUserRoutes(api fiber.Router, svc *service.NotificationService) {
	ctrl := controller.NewNotificationController(svc)

	g := api.Group("/notifications")
	g.Get("/", ctrl.List)
	g.Get("/unread-count", ctrl.UnreadCount)
	g.Patch("/read-all", ctrl.MarkAllRead)
	g.Patch("/:id/read", ctrl.MarkRead)
}
