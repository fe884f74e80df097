package controller

import (
	appDTO "jobmarket_backend/internals/features/jobs/applications/dto"
	fbDTO "jobmarket_backend/internals/features/reviews/feedbacks/dto"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct{}

func NewStudentController() *StudentController {
	return &StudentController{}
}

// =======================
// Applications
// =======================

// POST /student/applications
func (h *StudentController) Apply(c *fiber.Ctx) error {
	s, err := asStudent(c, "job applications")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req appDTO.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.ValidateStruct(req); err != nil {
		return helper.FromFiberError(c, err)
	}
	app, err := s.Apply(c.UserContext(), req.JobID, req.Proposal)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "application submitted", app)
}

// GET /student/applications?status=
func (h *StudentController) Applications(c *fiber.Ctx) error {
	s, err := asStudent(c, "job applications")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	items, total, err := s.Applications(c.UserContext(), c.Query("status"), p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "applications", items, helper.BuildPagination(total, p))
}

func (h *StudentController) Application(c *fiber.Ctx) error {
	s, err := asStudent(c, "job applications")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	app, err := s.Application(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "application", app)
}

// DELETE /student/applications/:id withdraws a pending application.
func (h *StudentController) Withdraw(c *fiber.Ctx) error {
	s, err := asStudent(c, "job applications")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := s.Withdraw(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "application withdrawn", fiber.Map{"id": id})
}

// =======================
// Wishlist
// =======================

func (h *StudentController) Wishlist(c *fiber.Ctx) error {
	s, err := asStudent(c, "wishlist")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	items, total, err := s.Wishlist(c.UserContext(), p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "wishlist", items, helper.BuildPagination(total, p))
}

func (h *StudentController) WishlistStatus(c *fiber.Ctx) error {
	s, err := asStudent(c, "wishlist")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	jobID, err := helper.ParamID(c, "job_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	in, err := s.InWishlist(c.UserContext(), jobID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "wishlist status", fiber.Map{"job_id": jobID, "in_wishlist": in})
}

func (h *StudentController) AddToWishlist(c *fiber.Ctx) error {
	s, err := asStudent(c, "wishlist")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	jobID, err := helper.ParamID(c, "job_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := s.AddToWishlist(c.UserContext(), jobID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "job added to wishlist", fiber.Map{"job_id": jobID})
}

func (h *StudentController) RemoveFromWishlist(c *fiber.Ctx) error {
	s, err := asStudent(c, "wishlist")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	jobID, err := helper.ParamID(c, "job_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := s.RemoveFromWishlist(c.UserContext(), jobID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "job removed from wishlist", fiber.Map{"job_id": jobID})
}

func (h *StudentController) ToggleWishlist(c *fiber.Ctx) error {
	s, err := asStudent(c, "wishlist")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	jobID, err := helper.ParamID(c, "job_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res, err := s.ToggleWishlist(c.UserContext(), jobID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "wishlist "+res.Action, res)
}

// =======================
// Reviews
// =======================

func (h *StudentController) Reviews(c *fiber.Ctx) error {
	s, err := asStudent(c, "reviews")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	items, err := s.Reviews(c.UserContext())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "reviews", items)
}

func (h *StudentController) CreateReview(c *fiber.Ctx) error {
	s, err := asStudent(c, "reviews")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req fbDTO.CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	fb, err := s.ReviewPublisher(c.UserContext(), req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "review submitted", fb)
}

func (h *StudentController) UpdateReview(c *fiber.Ctx) error {
	s, err := asStudent(c, "reviews")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req fbDTO.UpdateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	fb, err := s.UpdateReview(c.UserContext(), id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "review updated", fb)
}

func (h *StudentController) DeleteReview(c *fiber.Ctx) error {
	s, err := asStudent(c, "reviews")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := s.DeleteReview(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "review deleted", fiber.Map{"id": id})
}
