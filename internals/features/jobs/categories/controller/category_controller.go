package controller

import (
	"jobmarket_backend/internals/features/jobs/categories/dto"
	"jobmarket_backend/internals/features/jobs/categories/service"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type CategoryController struct {
	svc *service.CategoryService
}

func NewCategoryController(svc *service.CategoryService) *CategoryController {
	return &CategoryController{svc: svc}
}

// =======================
// Public
// =======================

func (ctrl *CategoryController) List(c *fiber.Ctx) error {
	items, err := ctrl.svc.List(c.UserContext(), true)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "categories", items)
}

func (ctrl *CategoryController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctrl.svc.GetByID(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "category", m)
}

// =======================
// Admin
// =======================

func (ctrl *CategoryController) ListWithCounts(c *fiber.Ctx) error {
	items, err := ctrl.svc.ListWithJobCounts(c.UserContext())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "categories", items)
}

func (ctrl *CategoryController) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	m, err := ctrl.svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "category created", m)
}

func (ctrl *CategoryController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	m, err := ctrl.svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "category updated", m)
}

func (ctrl *CategoryController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctrl.svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "category deleted", fiber.Map{"id": id})
}
