package dto

import (
	"jobmarket_backend/internals/features/jobs/applications/model"
)

type ApplyRequest struct {
	JobID    int64   `json:"job_id" validate:"required,gt=0"`
	Proposal *string `json:"proposal" validate:"omitempty,max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending viewed accepted rejected"`
}

// ApplicationView joins an application with its job and applicant.
type ApplicationView struct {
	model.ApplicationModel
	JobTitle     string  `json:"job_title" gorm:"column:job_title"`
	JobStatus    string  `json:"job_status" gorm:"column:job_status"`
	PublisherID  int64   `json:"publisher_id" gorm:"column:publisher_id"`
	CompanyName  *string `json:"company_name,omitempty" gorm:"column:company_name"`
	StudentName  string  `json:"student_name" gorm:"column:student_name"`
	StudentEmail string  `json:"student_email" gorm:"column:student_email"`
}
