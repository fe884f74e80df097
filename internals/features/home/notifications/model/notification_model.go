package model

import "time"

// Type tags are stable; UIs switch on them.
const (
	TypeNewApplication           = "new_application"
	TypeApplicationStatusUpdated = "application_status_updated"
	TypeNewReview                = "new_review"
	TypeReviewModerated          = "review_moderated"
	TypePaymentCompleted         = "payment_completed"
	TypePaymentRefunded          = "payment_refunded"
	TypeAccountStatusUpdated     = "account_status_updated"
	TypeAccountVerified          = "account_verified"
)

type NotificationModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index:idx_notifications_user" json:"user_id"`
	Type      string    `gorm:"column:type;size:50;not null" json:"type"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Link      *string   `gorm:"column:link;size:500" json:"link,omitempty"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (NotificationModel) TableName() string { return "notifications" }
