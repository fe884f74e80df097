package controller

import (
	"jobmarket_backend/internals/features/jobs/jobs/dto"
	"jobmarket_backend/internals/features/jobs/jobs/service"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type JobController struct {
	svc *service.JobService
}

func NewJobController(svc *service.JobService) *JobController {
	return &JobController{svc: svc}
}

// =======================
// Public
// =======================

// GET /jobs?status=&category_id=&job_type=&location=&q=&publisher_id=&page=&per_page=
func (ctrl *JobController) Search(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	f := dto.SearchFilter{
		Status:      c.Query("status", "active"),
		CategoryID:  int64(c.QueryInt("category_id", 0)),
		PublisherID: int64(c.QueryInt("publisher_id", 0)),
		JobType:     c.Query("job_type"),
		Location:    c.Query("location"),
		Keyword:     c.Query("q"),
	}
	if f.Status == "all" {
		f.Status = ""
	}
	items, total, err := ctrl.svc.Search(c.UserContext(), f, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "jobs", items, helper.BuildPagination(total, p))
}

func (ctrl *JobController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	job, err := ctrl.svc.GetByID(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	available, err := ctrl.svc.HasAvailablePositions(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "job", fiber.Map{
		"job":                     job,
		"has_available_positions": available,
	})
}
