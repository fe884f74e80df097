package controller

import (
	jobDTO "jobmarket_backend/internals/features/jobs/jobs/dto"
	fbDTO "jobmarket_backend/internals/features/reviews/feedbacks/dto"
	"jobmarket_backend/internals/features/users/users/dto"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type AdminController struct{}

func NewAdminController() *AdminController {
	return &AdminController{}
}

// GET /users?role=&status=&q=&page=&per_page=
func (h *AdminController) ListUsers(c *fiber.Ctx) error {
	a, err := asAdmin(c, "user management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var f dto.UserFilter
	if err := c.QueryParser(&f); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	p := helper.ResolvePaging(c, 20, 100)
	users, total, err := a.ListUsers(c.UserContext(), f, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "users", users, helper.BuildPagination(total, p))
}

func (h *AdminController) GetUser(c *fiber.Ctx) error {
	a, err := asAdmin(c, "user management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user, err := a.GetUser(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "user", user)
}

func (h *AdminController) BlockUser(c *fiber.Ctx) error {
	a, err := asAdmin(c, "user management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.BlockRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	user, err := a.BlockUser(c.UserContext(), id, req.Reason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "user blocked", user)
}

func (h *AdminController) UnblockUser(c *fiber.Ctx) error {
	a, err := asAdmin(c, "user management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user, err := a.UnblockUser(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "user unblocked", user)
}

func (h *AdminController) VerifyUser(c *fiber.Ctx) error {
	a, err := asAdmin(c, "user management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user, err := a.VerifyUser(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "user verified", user)
}

func (h *AdminController) DeleteUser(c *fiber.Ctx) error {
	a, err := asAdmin(c, "user management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := a.DeleteUser(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "user deleted", fiber.Map{"id": id})
}

// PATCH /reviews/:id/moderate
func (h *AdminController) ModerateReview(c *fiber.Ctx) error {
	a, err := asAdmin(c, "review moderation")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req fbDTO.ModerateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	fb, err := a.ModerateReview(c.UserContext(), id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "review moderated", fb)
}

// PATCH /jobs/:id/status
func (h *AdminController) ChangeJobStatus(c *fiber.Ctx) error {
	a, err := asAdmin(c, "job moderation")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req jobDTO.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	job, err := a.ChangeJobStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "job status updated", job)
}

func (h *AdminController) Stats(c *fiber.Ctx) error {
	a, err := asAdmin(c, "platform statistics")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	stats, err := a.DashboardStats(c.UserContext())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "platform statistics", stats)
}
