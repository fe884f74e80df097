package model

import "time"

type WishlistModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StudentID int64     `gorm:"column:student_id;not null;uniqueIndex:uq_wishlists_student_job,priority:1" json:"student_id"`
	JobID     int64     `gorm:"column:job_id;not null;uniqueIndex:uq_wishlists_student_job,priority:2;index:idx_wishlists_job" json:"job_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (WishlistModel) TableName() string { return "wishlists" }
