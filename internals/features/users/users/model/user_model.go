package model

import (
	"time"
)

const (
	RoleVisitor   = "visitor"
	RoleStudent   = "student"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// UserModel is the shared identity row for every role.
type UserModel struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email           string     `gorm:"column:email;size:255;not null;uniqueIndex:uq_users_email" json:"email"`
	FirstName       string     `gorm:"column:first_name;size:100;not null;default:''" json:"first_name"`
	LastName        string     `gorm:"column:last_name;size:100;not null;default:''" json:"last_name"`
	Role            string     `gorm:"column:role;size:20;not null;index:idx_users_role" json:"role"`
	CompanyName     *string    `gorm:"column:company_name;size:255" json:"company_name,omitempty"`
	ProfileImageURL *string    `gorm:"column:profile_image_url;size:500" json:"profile_image_url,omitempty"`
	Status          string     `gorm:"column:status;size:20;not null;default:'active'" json:"status"`
	IsVerified      bool       `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	EmailVerifiedAt *time.Time `gorm:"column:email_verified_at" json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// DisplayName prefers the company name for publishers.
func (u *UserModel) DisplayName() string {
	if u.Role == RolePublisher && u.CompanyName != nil && *u.CompanyName != "" {
		return *u.CompanyName
	}
	return u.FullName()
}

func (u *UserModel) IsBlocked() bool { return u.Status == UserStatusBlocked }

func IsKnownRole(role string) bool {
	switch role {
	case RoleVisitor, RoleStudent, RolePublisher, RoleAdmin:
		return true
	}
	return false
}
