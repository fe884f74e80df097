package service

import (
	"context"
	"slices"

	appDTO "jobmarket_backend/internals/features/jobs/applications/dto"
	appModel "jobmarket_backend/internals/features/jobs/applications/model"
	wishDTO "jobmarket_backend/internals/features/jobs/wishlists/dto"
	fbDTO "jobmarket_backend/internals/features/reviews/feedbacks/dto"
	fbModel "jobmarket_backend/internals/features/reviews/feedbacks/model"
	"jobmarket_backend/internals/features/users/users/dto"
	"jobmarket_backend/internals/features/users/users/model"
	helper "jobmarket_backend/internals/helpers"
)

type Student struct {
	registered
}

func newStudent(user model.UserModel, deps *Deps) Account {
	return &Student{registered{user: user, deps: deps}}
}

func (s *Student) Role() string { return model.RoleStudent }
func (s *Student) Permissions() []string { return slices.Clone(studentPermissions) }

func (s *Student) CanAccess(capability string) bool {
	return slices.Contains(studentPermissions, capability)
}

func (s *Student) ProfileData(ctx context.Context) (*dto.ProfileData, error) {
	var profile model.StudentProfileModel
	found, err := loadProfile(ctx, s.deps.Store, "student_profiles", s.user.ID, &profile)
	if err != nil {
		return nil, err
	}
	out := &dto.ProfileData{User: s.user, Permissions: s.Permissions()}
	if found {
		out.StudentProfile = &profile
	}
	return out, nil
}

// UpdateProfile changes users and student_profiles together or not at all.
func (s *Student) UpdateProfile(ctx context.Context, req dto.UpdateStudentProfileRequest) (*dto.ProfileData, error) {
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := s.updateProfile(ctx, "student_profiles", req.UserColumns(), req.ProfileFields()); err != nil {
		return nil, err
	}
	return s.ProfileData(ctx)
}

// =======================
// Applications
// =======================

func (s *Student) Apply(ctx context.Context, jobID int64, proposal *string) (*appModel.ApplicationModel, error) {
	return s.deps.Applications.Create(ctx, s.user.ID, jobID, proposal)
}

func (s *Student) Applications(ctx context.Context, status string, p helper.Paging) ([]appDTO.ApplicationView, int64, error) {
	return s.deps.Applications.ListByStudent(ctx, s.user.ID, status, p)
}

func (s *Student) Application(ctx context.Context, applicationID int64) (*appDTO.ApplicationView, error) {
	return s.deps.Applications.GetByID(ctx, s.user.ID, applicationID)
}

func (s *Student) Withdraw(ctx context.Context, applicationID int64) error {
	return s.deps.Applications.Withdraw(ctx, s.user.ID, applicationID)
}

// =======================
// Wishlist
// =======================

func (s *Student) AddToWishlist(ctx context.Context, jobID int64) error {
	return s.deps.Wishlists.Add(ctx, s.user.ID, jobID)
}

func (s *Student) RemoveFromWishlist(ctx context.Context, jobID int64) error {
	return s.deps.Wishlists.Remove(ctx, s.user.ID, jobID)
}

func (s *Student) ToggleWishlist(ctx context.Context, jobID int64) (*wishDTO.ToggleResult, error) {
	return s.deps.Wishlists.Toggle(ctx, s.user.ID, jobID)
}

func (s *Student) Wishlist(ctx context.Context, p helper.Paging) ([]wishDTO.WishlistItem, int64, error) {
	return s.deps.Wishlists.ListByStudent(ctx, s.user.ID, p)
}

func (s *Student) InWishlist(ctx context.Context, jobID int64) (bool, error) {
	return s.deps.Wishlists.IsInWishlist(ctx, s.user.ID, jobID)
}

// =======================
// Reviews
// =======================

func (s *Student) ReviewPublisher(ctx context.Context, req fbDTO.CreateFeedbackRequest) (*fbModel.FeedbackModel, error) {
	return s.deps.Feedbacks.Create(ctx, s.user.ID, req)
}

func (s *Student) UpdateReview(ctx context.Context, feedbackID int64, req fbDTO.UpdateFeedbackRequest) (*fbModel.FeedbackModel, error) {
	return s.deps.Feedbacks.Update(ctx, s.user.ID, feedbackID, req)
}

func (s *Student) DeleteReview(ctx context.Context, feedbackID int64) error {
	return s.deps.Feedbacks.Delete(ctx, s.user.ID, feedbackID)
}

func (s *Student) Reviews(ctx context.Context) ([]fbDTO.FeedbackView, error) {
	return s.deps.Feedbacks.ListByStudent(ctx, s.user.ID)
}

// DashboardStats: applications by status, wishlist size, reviews written and
// unread notifications.
func (s *Student) DashboardStats(ctx context.Context) (map[string]any, error) {
	apps, err := s.deps.Applications.StatusCounts(ctx, s.user.ID, 0)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range apps {
		total += n
	}
	wishlist, err := s.deps.Wishlists.Count(ctx, s.user.ID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.deps.Feedbacks.CountByStudent(ctx, s.user.ID)
	if err != nil {
		return nil, err
	}
	unread, err := s.unreadCount(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"applications":         apps,
		"total_applications":   total,
		"wishlist_count":       wishlist,
		"reviews_written":      reviews,
		"unread_notifications": unread,
	}, nil
}
