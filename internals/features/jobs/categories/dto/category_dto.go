package dto

import (
	"strings"

	"jobmarket_backend/internals/features/jobs/categories/model"
)

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

func (r *CreateCategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
	}
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

func (r *UpdateCategoryRequest) Normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
	}
}

// CategoryWithCount is a category plus the number of jobs filed under it.
type CategoryWithCount struct {
	model.JobCategoryModel
	JobCount       int64 `json:"job_count" gorm:"column:job_count"`
	ActiveJobCount int64 `json:"active_job_count" gorm:"column:active_job_count"`
}
