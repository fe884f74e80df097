package model

import "time"

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusViewed   = "viewed"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

type ApplicationModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StudentID int64     `gorm:"column:student_id;not null;uniqueIndex:uq_applications_student_job,priority:1" json:"student_id"`
	JobID     int64     `gorm:"column:job_id;not null;uniqueIndex:uq_applications_student_job,priority:2;index:idx_applications_job" json:"job_id"`
	Proposal  *string   `gorm:"column:proposal;type:text" json:"proposal,omitempty"`
	Status    string    `gorm:"column:status;size:20;not null;default:'pending'" json:"status"`
	AppliedAt time.Time `gorm:"column:applied_at;not null" json:"applied_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (ApplicationModel) TableName() string { return "applications" }

func (a *ApplicationModel) IsFinal() bool {
	return IsFinalStatus(a.Status)
}

func IsFinalStatus(s string) bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

func IsKnownStatus(s string) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusViewed, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// CanTransition encodes pending -> viewed and pending|viewed -> accepted|rejected.
func CanTransition(from, to string) bool {
	switch from {
	case ApplicationStatusPending:
		return to == ApplicationStatusViewed || to == ApplicationStatusAccepted || to == ApplicationStatusRejected
	case ApplicationStatusViewed:
		return to == ApplicationStatusAccepted || to == ApplicationStatusRejected
	default:
		return false
	}
}
