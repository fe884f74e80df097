package dto

import (
	"strings"
	"time"

	"jobmarket_backend/internals/features/jobs/jobs/model"
)

// ============================
// Requests
// ============================

type CreateJobRequest struct {
	Title        string     `json:"title" validate:"required,max=255"`
	Description  string     `json:"description" validate:"required"`
	CategoryID   int64      `json:"category_id" validate:"required,gt=0"`
	JobType      string     `json:"job_type" validate:"required,max=50"`
	PaymentRange string     `json:"payment_range" validate:"required,max=100"`
	Location     *string    `json:"location" validate:"omitempty,max=255"`
	Requirements *string    `json:"requirements"`
	Benefits     *string    `json:"benefits"`
	Deadline     *time.Time `json:"deadline"`
	StartDate    *time.Time `json:"start_date"`
	Vacancies    *int       `json:"vacancies" validate:"omitempty,gt=0"`
	Status       *string    `json:"status" validate:"omitempty,oneof=active inactive pending expired"`
}

func (r *CreateJobRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.JobType = strings.TrimSpace(r.JobType)
	r.PaymentRange = strings.TrimSpace(r.PaymentRange)
	r.Location = trimPtr(r.Location)
}

type UpdateJobRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description  *string    `json:"description" validate:"omitempty,min=1"`
	CategoryID   *int64     `json:"category_id" validate:"omitempty,gt=0"`
	JobType      *string    `json:"job_type" validate:"omitempty,min=1,max=50"`
	PaymentRange *string    `json:"payment_range" validate:"omitempty,min=1,max=100"`
	Location     *string    `json:"location" validate:"omitempty,max=255"`
	Requirements *string    `json:"requirements"`
	Benefits     *string    `json:"benefits"`
	Deadline     *time.Time `json:"deadline"`
	StartDate    *time.Time `json:"start_date"`
	Vacancies    *int       `json:"vacancies" validate:"omitempty,gt=0"`
	Status       *string    `json:"status" validate:"omitempty,oneof=active inactive pending expired"`
}

func (r *UpdateJobRequest) Normalize() {
	r.Title = trimPtr(r.Title)
	r.Description = trimPtr(r.Description)
	r.JobType = trimPtr(r.JobType)
	r.PaymentRange = trimPtr(r.PaymentRange)
	r.Location = trimPtr(r.Location)
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive pending expired"`
}

// SearchFilter narrows Search; zero values mean "any".
type SearchFilter struct {
	Status      string
	CategoryID  int64
	PublisherID int64
	JobType     string
	Location    string
	Keyword     string
}

// ============================
// Views
// ============================

// JobView is a job joined with its publisher and category names.
type JobView struct {
	model.JobModel
	CompanyName   *string `json:"company_name,omitempty" gorm:"column:company_name"`
	PublisherName string  `json:"publisher_name" gorm:"column:publisher_name"`
	CategoryName  *string `json:"category_name,omitempty" gorm:"column:category_name"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
