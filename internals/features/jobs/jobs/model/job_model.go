package model

import "time"

const (
	JobStatusActive   = "active"
	JobStatusInactive = "inactive"
	JobStatusPending  = "pending"
	JobStatusExpired  = "expired"
)

var JobStatuses = []string{JobStatusActive, JobStatusInactive, JobStatusPending, JobStatusExpired}

type JobModel struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PublisherID  int64      `gorm:"column:publisher_id;not null;index:idx_jobs_publisher" json:"publisher_id"`
	Title        string     `gorm:"column:title;size:255;not null" json:"title"`
	Description  string     `gorm:"column:description;type:text;not null" json:"description"`
	CategoryID   int64      `gorm:"column:category_id;not null;index:idx_jobs_category" json:"category_id"`
	JobType      string     `gorm:"column:job_type;size:50;not null" json:"job_type"`
	PaymentRange string     `gorm:"column:payment_range;size:100;not null" json:"payment_range"`
	Location     *string    `gorm:"column:location;size:255" json:"location,omitempty"`
	Requirements *string    `gorm:"column:requirements;type:text" json:"requirements,omitempty"`
	Benefits     *string    `gorm:"column:benefits;type:text" json:"benefits,omitempty"`
	Deadline     *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	StartDate    *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	Vacancies    int        `gorm:"column:vacancies;not null;default:1" json:"vacancies"`
	Status       string     `gorm:"column:status;size:20;not null;default:'active';index:idx_jobs_status" json:"status"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (JobModel) TableName() string { return "jobs" }

func (j *JobModel) IsActive() bool { return j.Status == JobStatusActive }

// IsExpired is derived from the deadline only; the stored "expired" status is separate.
func (j *JobModel) IsExpired(now time.Time) bool {
	return j.Deadline != nil && j.Deadline.Before(now)
}

func IsJobStatus(s string) bool {
	for _, v := range JobStatuses {
		if v == s {
			return true
		}
	}
	return false
}
