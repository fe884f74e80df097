package dto

import "jobmarket_backend/internals/features/jobs/wishlists/model"

const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// WishlistItem is a saved job with enough job detail to render a list.
type WishlistItem struct {
	model.WishlistModel
	JobTitle     string  `json:"job_title" gorm:"column:job_title"`
	JobStatus    string  `json:"job_status" gorm:"column:job_status"`
	JobType      string  `json:"job_type" gorm:"column:job_type"`
	PaymentRange string  `json:"payment_range" gorm:"column:payment_range"`
	CompanyName  *string `json:"company_name,omitempty" gorm:"column:company_name"`
}

type ToggleResult struct {
	Action       string `json:"action"`
	InWishlist   bool   `json:"in_wishlist"`
	WishlistSize int64  `json:"wishlist_size"`
}
