package controller

import (
	"jobmarket_backend/internals/features/home/notifications/dto"
	"jobmarket_backend/internals/features/home/notifications/service"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	svc *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{svc: svc}
}

// GET /notifications?unread=true&page=&per_page=
func (ctrl *NotificationController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	items, total, err := ctrl.svc.ListForUser(c.UserContext(), userID, c.QueryBool("unread", false), p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "notifications", dto.FromModels(items), helper.BuildPagination(total, p))
}

func (ctrl *NotificationController) UnreadCount(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	n, err := ctrl.svc.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "unread count", fiber.Map{"unread": n})
}

func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctrl.svc.MarkRead(c.UserContext(), userID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "notification marked as read", fiber.Map{"id": id})
}

func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	n, err := ctrl.svc.MarkAllRead(c.UserContext(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "notifications marked as read", fiber.Map{"updated": n})
}
