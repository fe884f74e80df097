package dto

import (
	"strings"

	"jobmarket_backend/internals/features/users/users/model"
)

// UserFields are the shared columns on users that an owner may edit.
type UserFields struct {
	FirstName       *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName        *string `json:"last_name" validate:"omitempty,max=100"`
	ProfileImageURL *string `json:"profile_image_url" validate:"omitempty,url,max=500"`
}

func (f *UserFields) normalize() {
	trimPtr(f.FirstName)
	trimPtr(f.LastName)
	trimPtr(f.ProfileImageURL)
}

type UpdateStudentProfileRequest struct {
	UserFields
	UniversityName      *string `json:"university_name" validate:"omitempty,max=255"`
	FieldOfStudy        *string `json:"field_of_study" validate:"omitempty,max=255"`
	YearOfStudy         *int    `json:"year_of_study" validate:"omitempty,min=1,max=10"`
	LanguagesSpoken     *string `json:"languages_spoken"`
	PreferredCategories *string `json:"preferred_categories"`
	Skills              *string `json:"skills"`
	CVURL               *string `json:"cv_url" validate:"omitempty,url,max=500"`
}

func (r *UpdateStudentProfileRequest) Normalize() {
	r.UserFields.normalize()
	for _, p := range []*string{r.UniversityName, r.FieldOfStudy, r.LanguagesSpoken, r.PreferredCategories, r.Skills, r.CVURL} {
		trimPtr(p)
	}
}

// ProfileFields returns the student_profiles columns present in the request.
func (r *UpdateStudentProfileRequest) ProfileFields() map[string]any {
	out := map[string]any{}
	putString(out, "university_name", r.UniversityName)
	putString(out, "field_of_study", r.FieldOfStudy)
	if r.YearOfStudy != nil {
		out["year_of_study"] = *r.YearOfStudy
	}
	putString(out, "languages_spoken", r.LanguagesSpoken)
	putString(out, "preferred_categories", r.PreferredCategories)
	putString(out, "skills", r.Skills)
	putString(out, "cv_url", r.CVURL)
	return out
}

type UpdatePublisherProfileRequest struct {
	UserFields
	CompanyName    *string `json:"company_name" validate:"omitempty,min=2,max=255"`
	About          *string `json:"about"`
	Industry       *string `json:"industry" validate:"omitempty,max=255"`
	WebsiteURL     *string `json:"website_url" validate:"omitempty,url,max=500"`
	Address        *string `json:"address"`
	PhoneNumber    *string `json:"phone_number" validate:"omitempty,max=30"`
	LinkedinURL    *string `json:"linkedin_url" validate:"omitempty,url,max=500"`
	FacebookURL    *string `json:"facebook_url" validate:"omitempty,url,max=500"`
	TwitterURL     *string `json:"twitter_url" validate:"omitempty,url,max=500"`
	InstagramURL   *string `json:"instagram_url" validate:"omitempty,url,max=500"`
	CoverImageURL  *string `json:"cover_image_url" validate:"omitempty,url,max=500"`
	RequiredDocURL *string `json:"required_doc_url" validate:"omitempty,url,max=500"`
}

func (r *UpdatePublisherProfileRequest) Normalize() {
	r.UserFields.normalize()
	for _, p := range []*string{
		r.CompanyName, r.About, r.Industry, r.WebsiteURL, r.Address, r.PhoneNumber,
		r.LinkedinURL, r.FacebookURL, r.TwitterURL, r.InstagramURL, r.CoverImageURL, r.RequiredDocURL,
	} {
		trimPtr(p)
	}
}

func (r *UpdatePublisherProfileRequest) ProfileFields() map[string]any {
	out := map[string]any{}
	putString(out, "about", r.About)
	putString(out, "industry", r.Industry)
	putString(out, "website_url", r.WebsiteURL)
	putString(out, "address", r.Address)
	putString(out, "phone_number", r.PhoneNumber)
	putString(out, "linkedin_url", r.LinkedinURL)
	putString(out, "facebook_url", r.FacebookURL)
	putString(out, "twitter_url", r.TwitterURL)
	putString(out, "instagram_url", r.InstagramURL)
	putString(out, "cover_image_url", r.CoverImageURL)
	putString(out, "required_doc_url", r.RequiredDocURL)
	return out
}

// UserColumns returns the users columns present in the request.
func (f *UserFields) UserColumns() map[string]any {
	out := map[string]any{}
	putString(out, "first_name", f.FirstName)
	putString(out, "last_name", f.LastName)
	putString(out, "profile_image_url", f.ProfileImageURL)
	return out
}

// ProfileData is what an account shows about itself.
type ProfileData struct {
	User             model.UserModel              `json:"user"`
	StudentProfile   *model.StudentProfileModel   `json:"student_profile,omitempty"`
	PublisherProfile *model.PublisherProfileModel `json:"publisher_profile,omitempty"`
	Permissions      []string                     `json:"permissions"`
}

// UserFilter narrows the admin user list. Empty fields match everything.
type UserFilter struct {
	Role   string `query:"role" validate:"omitempty,oneof=student publisher admin"`
	Status string `query:"status" validate:"omitempty,oneof=active blocked"`
	Search string `query:"q"`
}

type BlockRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

func putString(out map[string]any, col string, v *string) {
	if v != nil {
		out[col] = *v
	}
}
