package model

import "time"

type StudentProfileModel struct {
	ID                  int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID              int64     `gorm:"column:user_id;not null;uniqueIndex:uq_student_profiles_user_id" json:"user_id"`
	UniversityName      *string   `gorm:"column:university_name;size:255" json:"university_name,omitempty"`
	FieldOfStudy        *string   `gorm:"column:field_of_study;size:255" json:"field_of_study,omitempty"`
	YearOfStudy         *int      `gorm:"column:year_of_study" json:"year_of_study,omitempty"`
	LanguagesSpoken     *string   `gorm:"column:languages_spoken;type:text" json:"languages_spoken,omitempty"`
	PreferredCategories *string   `gorm:"column:preferred_categories;type:text" json:"preferred_categories,omitempty"`
	Skills              *string   `gorm:"column:skills;type:text" json:"skills,omitempty"`
	CVURL               *string   `gorm:"column:cv_url;size:500" json:"cv_url,omitempty"`
	CreatedAt           time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (StudentProfileModel) TableName() string { return "student_profiles" }

type PublisherProfileModel struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID         int64     `gorm:"column:user_id;not null;uniqueIndex:uq_publisher_profiles_user_id" json:"user_id"`
	About          *string   `gorm:"column:about;type:text" json:"about,omitempty"`
	Industry       *string   `gorm:"column:industry;size:255" json:"industry,omitempty"`
	WebsiteURL     *string   `gorm:"column:website_url;size:500" json:"website_url,omitempty"`
	Address        *string   `gorm:"column:address;type:text" json:"address,omitempty"`
	PhoneNumber    *string   `gorm:"column:phone_number;size:30" json:"phone_number,omitempty"`
	LinkedinURL    *string   `gorm:"column:linkedin_url;size:500" json:"linkedin_url,omitempty"`
	FacebookURL    *string   `gorm:"column:facebook_url;size:500" json:"facebook_url,omitempty"`
	TwitterURL     *string   `gorm:"column:twitter_url;size:500" json:"twitter_url,omitempty"`
	InstagramURL   *string   `gorm:"column:instagram_url;size:500" json:"instagram_url,omitempty"`
	CoverImageURL  *string   `gorm:"column:cover_image_url;size:500" json:"cover_image_url,omitempty"`
	RequiredDocURL *string   `gorm:"column:required_doc_url;size:500" json:"required_doc_url,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (PublisherProfileModel) TableName() string { return "publisher_profiles" }
