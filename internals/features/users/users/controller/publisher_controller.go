package controller

import (
	appDTO "jobmarket_backend/internals/features/jobs/applications/dto"
	jobDTO "jobmarket_backend/internals/features/jobs/jobs/dto"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type PublisherController struct{}

func NewPublisherController() *PublisherController {
	return &PublisherController{}
}

// =======================
// Jobs
// =======================

func (h *PublisherController) Jobs(c *fiber.Ctx) error {
	p, err := asPublisher(c, "job management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	pg := helper.ResolvePaging(c, 20, 100)
	items, total, err := p.Jobs(c.UserContext(), c.Query("status"), pg)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "jobs", items, helper.BuildPagination(total, pg))
}

func (h *PublisherController) CreateJob(c *fiber.Ctx) error {
	p, err := asPublisher(c, "job management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req jobDTO.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	job, err := p.CreateJob(c.UserContext(), req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "job created", job)
}

func (h *PublisherController) UpdateJob(c *fiber.Ctx) error {
	p, err := asPublisher(c, "job management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req jobDTO.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	job, err := p.UpdateJob(c.UserContext(), id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "job updated", job)
}

func (h *PublisherController) ChangeJobStatus(c *fiber.Ctx) error {
	p, err := asPublisher(c, "job management")
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
	job, err := p.ChangeJobStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "job status updated", job)
}

func (h *PublisherController) DeleteJob(c *fiber.Ctx) error {
	p, err := asPublisher(c, "job management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := p.DeleteJob(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "job deleted", fiber.Map{"id": id})
}

// =======================
// Applications
// =======================

// GET /publisher/jobs/:id/applications?status=
func (h *PublisherController) JobApplications(c *fiber.Ctx) error {
	p, err := asPublisher(c, "job applications")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	pg := helper.ResolvePaging(c, 20, 100)
	items, total, err := p.JobApplications(c.UserContext(), id, c.Query("status"), pg)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "applications", items, helper.BuildPagination(total, pg))
}

func (h *PublisherController) Applications(c *fiber.Ctx) error {
	p, err := asPublisher(c, "job applications")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	pg := helper.ResolvePaging(c, 20, 100)
	items, total, err := p.ReceivedApplications(c.UserContext(), c.Query("status"), pg)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "applications", items, helper.BuildPagination(total, pg))
}

func (h *PublisherController) Application(c *fiber.Ctx) error {
	p, err := asPublisher(c, "job applications")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	app, err := p.Application(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "application", app)
}

// PATCH /publisher/applications/:id/status
func (h *PublisherController) ChangeApplicationStatus(c *fiber.Ctx) error {
	p, err := asPublisher(c, "job applications")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req appDTO.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	app, err := p.ChangeApplicationStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "application "+app.Status, app)
}

// =======================
// Reviews
// =======================

func (h *PublisherController) Reviews(c *fiber.Ctx) error {
	p, err := asPublisher(c, "reviews")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	pg := helper.ResolvePaging(c, 20, 100)
	items, total, err := p.Reviews(c.UserContext(), pg)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "reviews", items, helper.BuildPagination(total, pg))
}

func (h *PublisherController) RatingStats(c *fiber.Ctx) error {
	p, err := asPublisher(c, "reviews")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	stats, err := p.RatingStats(c.UserContext())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "rating stats", stats)
}
