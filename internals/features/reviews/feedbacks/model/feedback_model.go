package model

import "time"

const (
	FeedbackStatusActive  = "active"
	FeedbackStatusHidden  = "hidden"
	FeedbackStatusDeleted = "deleted"
)

const (
	MinRating       = 1
	MaxRating       = 5
	MaxReviewLength = 1000
)

type FeedbackModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StudentID   int64     `gorm:"column:student_id;not null;uniqueIndex:uq_feedbacks_pair,priority:1" json:"student_id"`
	PublisherID int64     `gorm:"column:publisher_id;not null;uniqueIndex:uq_feedbacks_pair,priority:2;index:idx_feedbacks_publisher" json:"publisher_id"`
	JobID       *int64    `gorm:"column:job_id;uniqueIndex:uq_feedbacks_pair,priority:3" json:"job_id,omitempty"`
	Rating      int       `gorm:"column:rating;not null" json:"rating"`
	Review      *string   `gorm:"column:review;type:text" json:"review,omitempty"`
	IsAnonymous bool      `gorm:"column:is_anonymous;not null;default:false" json:"is_anonymous"`
	Status      string    `gorm:"column:status;size:20;not null;default:'active'" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (FeedbackModel) TableName() string { return "feedbacks" }

func (f *FeedbackModel) IsActive() bool { return f.Status == FeedbackStatusActive }

// CanTransition: active -> hidden|deleted, hidden -> deleted. Deleted is final.
func CanTransition(from, to string) bool {
	switch from {
	case FeedbackStatusActive:
		return to == FeedbackStatusHidden || to == FeedbackStatusDeleted
	case FeedbackStatusHidden:
		return to == FeedbackStatusDeleted
	}
	return false
}
