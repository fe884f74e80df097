package service

import (
	"context"
	"slices"

	payDTO "jobmarket_backend/internals/features/finance/payments/dto"
	payModel "jobmarket_backend/internals/features/finance/payments/model"
	appDTO "jobmarket_backend/internals/features/jobs/applications/dto"
	jobDTO "jobmarket_backend/internals/features/jobs/jobs/dto"
	fbDTO "jobmarket_backend/internals/features/reviews/feedbacks/dto"
	"jobmarket_backend/internals/features/users/users/dto"
	"jobmarket_backend/internals/features/users/users/model"
	helper "jobmarket_backend/internals/helpers"
)

type Publisher struct {
	registered
}

func newPublisher(user model.UserModel, deps *Deps) Account {
	return &Publisher{registered{user: user, deps: deps}}
}

func (p *Publisher) Role() string { return model.RolePublisher }
func (p *Publisher) Permissions() []string { return slices.Clone(publisherPermissions) }

func (p *Publisher) CanAccess(capability string) bool {
	return slices.Contains(publisherPermissions, capability)
}

func (p *Publisher) ProfileData(ctx context.Context) (*dto.ProfileData, error) {
	var profile model.PublisherProfileModel
	found, err := loadProfile(ctx, p.deps.Store, "publisher_profiles", p.user.ID, &profile)
	if err != nil {
		return nil, err
	}
	out := &dto.ProfileData{User: p.user, Permissions: p.Permissions()}
	if found {
		out.PublisherProfile = &profile
	}
	return out, nil
}

// UpdateProfile changes users (company_name included) and publisher_profiles
// together or not at all.
func (p *Publisher) UpdateProfile(ctx context.Context, req dto.UpdatePublisherProfileRequest) (*dto.ProfileData, error) {
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	userCols := req.UserColumns()
	if req.CompanyName != nil {
		userCols["company_name"] = *req.CompanyName
	}
	if err := p.updateProfile(ctx, "publisher_profiles", userCols, req.ProfileFields()); err != nil {
		return nil, err
	}
	return p.ProfileData(ctx)
}

// =======================
// Jobs
// =======================

func (p *Publisher) CreateJob(ctx context.Context, req jobDTO.CreateJobRequest) (*jobDTO.JobView, error) {
	return p.deps.Jobs.Create(ctx, p.user.ID, req)
}

func (p *Publisher) UpdateJob(ctx context.Context, jobID int64, req jobDTO.UpdateJobRequest) (*jobDTO.JobView, error) {
	return p.deps.Jobs.Update(ctx, p.user.ID, jobID, req)
}

func (p *Publisher) DeleteJob(ctx context.Context, jobID int64) error {
	return p.deps.Jobs.Delete(ctx, p.user.ID, jobID)
}

func (p *Publisher) ChangeJobStatus(ctx context.Context, jobID int64, status string) (*jobDTO.JobView, error) {
	return p.deps.Jobs.ChangeStatus(ctx, p.user.ID, jobID, status)
}

func (p *Publisher) Jobs(ctx context.Context, status string, pg helper.Paging) ([]jobDTO.JobView, int64, error) {
	return p.deps.Jobs.ListByPublisher(ctx, p.user.ID, status, pg)
}

// =======================
// Applications received
// =======================

func (p *Publisher) JobApplications(ctx context.Context, jobID int64, status string, pg helper.Paging) ([]appDTO.ApplicationView, int64, error) {
	return p.deps.Applications.ListByJob(ctx, p.user.ID, jobID, status, pg)
}

func (p *Publisher) ReceivedApplications(ctx context.Context, status string, pg helper.Paging) ([]appDTO.ApplicationView, int64, error) {
	return p.deps.Applications.ListForPublisher(ctx, p.user.ID, status, pg)
}

func (p *Publisher) Application(ctx context.Context, applicationID int64) (*appDTO.ApplicationView, error) {
	return p.deps.Applications.GetByID(ctx, p.user.ID, applicationID)
}

func (p *Publisher) ChangeApplicationStatus(ctx context.Context, applicationID int64, status string) (*appDTO.ApplicationView, error) {
	return p.deps.Applications.UpdateStatus(ctx, p.user.ID, applicationID, status)
}

// =======================
// Reviews and payments
// =======================

func (p *Publisher) Reviews(ctx context.Context, pg helper.Paging) ([]fbDTO.FeedbackView, int64, error) {
	return p.deps.Feedbacks.ListForPublisher(ctx, p.user.ID, pg)
}

func (p *Publisher) RatingStats(ctx context.Context) (*fbDTO.RatingStats, error) {
	return p.deps.Feedbacks.GetPublisherRatingStats(ctx, p.user.ID)
}

func (p *Publisher) PaymentStats(ctx context.Context) (*payDTO.PaymentStats, error) {
	return p.deps.Payments.Stats(ctx, p.user.ID)
}

// DashboardStats: jobs and received applications by status, review count with
// average rating, and the completed payment total.
func (p *Publisher) DashboardStats(ctx context.Context) (map[string]any, error) {
	jobs, err := p.deps.Jobs.StatusCounts(ctx, p.user.ID)
	if err != nil {
		return nil, err
	}
	apps, err := p.deps.Applications.StatusCounts(ctx, 0, p.user.ID)
	if err != nil {
		return nil, err
	}
	rating, err := p.RatingStats(ctx)
	if err != nil {
		return nil, err
	}
	stats := map[string]any{
		"jobs":                     jobs,
		"applications":             apps,
		"review_count":             rating.Count,
		"average_rating":           rating.Average,
		"completed_payments_total": 0.0,
		"unread_notifications":     int64(0),
	}
	if p.deps.Payments != nil {
		payments, err := p.PaymentStats(ctx)
		if err != nil {
			return nil, err
		}
		stats["completed_payments_total"] = payments.CompletedVolume
		stats["completed_payments"] = payments.ByStatus[payModel.PaymentStatusCompleted].Count
	}
	unread, err := p.unreadCount(ctx)
	if err != nil {
		return nil, err
	}
	stats["unread_notifications"] = unread
	return stats, nil
}
