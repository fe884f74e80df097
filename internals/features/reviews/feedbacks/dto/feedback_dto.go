package dto

import (
	"jobmarket_backend/internals/features/reviews/feedbacks/model"
)

// Rating travels as a number so that 4.5 can be rejected instead of truncated.
type CreateFeedbackRequest struct {
	PublisherID int64   `json:"publisher_id" validate:"required,gt=0"`
	JobID       *int64  `json:"job_id" validate:"omitempty,gt=0"`
	Rating      float64 `json:"rating"`
	Review      *string `json:"review"`
	IsAnonymous bool    `json:"is_anonymous"`
}

type UpdateFeedbackRequest struct {
	Rating      *float64 `json:"rating"`
	Review      *string  `json:"review"`
	IsAnonymous *bool    `json:"is_anonymous"`
}

type ModerateRequest struct {
	Action string  `json:"action" validate:"required,oneof=hide delete"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

// FeedbackView carries the names needed to render a review. ReviewerName is
// blanked for anonymous reviews before leaving the service.
type FeedbackView struct {
	model.FeedbackModel
	ReviewerName  *string `json:"reviewer_name,omitempty" gorm:"column:reviewer_name"`
	PublisherName *string `json:"publisher_name,omitempty" gorm:"column:publisher_name"`
	JobTitle      *string `json:"job_title,omitempty" gorm:"column:job_title"`
}

type RatingStats struct {
	PublisherID int64         `json:"publisher_id"`
	Count       int64         `json:"count"`
	Average     float64       `json:"average"`
	Min         int           `json:"min"`
	Max         int           `json:"max"`
	Histogram   map[int]int64 `json:"histogram"`
}
