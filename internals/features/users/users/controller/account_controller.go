package controller

import (
	"jobmarket_backend/internals/constants"
	"jobmarket_backend/internals/features/users/users/dto"
	"jobmarket_backend/internals/features/users/users/model"
	"jobmarket_backend/internals/features/users/users/service"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

// account returns the variant resolved by the auth middleware.
func account(c *fiber.Ctx) (service.Account, error) {
	acc, ok := c.Locals(helper.LocAccount).(service.Account)
	if !ok || acc == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
	}
	return acc, nil
}

func asStudent(c *fiber.Ctx, feature string) (*service.Student, error) {
	acc, err := account(c)
	if err != nil {
		return nil, err
	}
	s, ok := acc.(*service.Student)
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, constants.RoleError(model.RoleStudent, feature))
	}
	return s, nil
}

func asPublisher(c *fiber.Ctx, feature string) (*service.Publisher, error) {
	acc, err := account(c)
	if err != nil {
		return nil, err
	}
	p, ok := acc.(*service.Publisher)
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, constants.RoleError(model.RolePublisher, feature))
	}
	return p, nil
}

func asAdmin(c *fiber.Ctx, feature string) (*service.Admin, error) {
	acc, err := account(c)
	if err != nil {
		return nil, err
	}
	a, ok := acc.(*service.Admin)
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, constants.RoleError(model.RoleAdmin, feature))
	}
	return a, nil
}

type AccountController struct{}

func NewAccountController() *AccountController {
	return &AccountController{}
}

// GET /me
func (h *AccountController) Me(c *fiber.Ctx) error {
	acc, err := account(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	data, err := acc.ProfileData(c.UserContext())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "profile", data)
}

// GET /me/dashboard
func (h *AccountController) Dashboard(c *fiber.Ctx) error {
	acc, err := account(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	stats, err := acc.DashboardStats(c.UserContext())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "dashboard", fiber.Map{
		"role":        acc.Role(),
		"permissions": acc.Permissions(),
		"stats":       stats,
	})
}

// PATCH /me accepts the profile fields of the caller's role.
func (h *AccountController) UpdateProfile(c *fiber.Ctx) error {
	acc, err := account(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var data *dto.ProfileData
	switch a := acc.(type) {
	case *service.Student:
		var req dto.UpdateStudentProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
		data, err = a.UpdateProfile(c.UserContext(), req)
	case *service.Publisher:
		var req dto.UpdatePublisherProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
		data, err = a.UpdateProfile(c.UserContext(), req)
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "this account has no editable profile")
	}
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "profile updated", data)
}
