package controller

import (
	"jobmarket_backend/internals/features/reviews/feedbacks/service"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type FeedbackController struct {
	svc *service.FeedbackService
}

func NewFeedbackController(svc *service.FeedbackService) *FeedbackController {
	return &FeedbackController{svc: svc}
}

// GET /publishers/:id/reviews
func (ctrl *FeedbackController) ListForPublisher(c *fiber.Ctx) error {
	publisherID, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 10, 50)
	items, total, err := ctrl.svc.ListForPublisher(c.UserContext(), publisherID, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "reviews", items, helper.BuildPagination(total, p))
}

// GET /publishers/:id/rating
func (ctrl *FeedbackController) RatingStats(c *fiber.Ctx) error {
	publisherID, err := helper.ParamID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	stats, err := ctrl.svc.GetPublisherRatingStats(c.UserContext(), publisherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "rating stats", stats)
}

// GET /reviews?status= (admin moderation queue)
func (ctrl *FeedbackController) ListAll(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	items, total, err := ctrl.svc.ListAll(c.UserContext(), c.Query("status"), p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "reviews", items, helper.BuildPagination(total, p))
}
