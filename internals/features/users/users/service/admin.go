package service

import (
	"context"
	"log"
	"slices"
	"strings"

	"jobmarket_backend/internals/constants"
	database "jobmarket_backend/internals/databases"
	notifModel "jobmarket_backend/internals/features/home/notifications/model"
	notifService "jobmarket_backend/internals/features/home/notifications/service"
	jobDTO "jobmarket_backend/internals/features/jobs/jobs/dto"
	fbDTO "jobmarket_backend/internals/features/reviews/feedbacks/dto"
	fbModel "jobmarket_backend/internals/features/reviews/feedbacks/model"
	"jobmarket_backend/internals/features/users/users/dto"
	"jobmarket_backend/internals/features/users/users/model"
	helper "jobmarket_backend/internals/helpers"
)

// Admin has no profile row. Its permissions are independent of the registered
// baseline and amount to everything while the account is active.
type Admin struct {
	user model.UserModel
	deps *Deps
}

func newAdmin(user model.UserModel, deps *Deps) Account {
	return &Admin{user: user, deps: deps}
}

func (a *Admin) Role() string { return model.RoleAdmin }
func (a *Admin) UserID() int64 { return a.user.ID }
func (a *Admin) Blocked() bool { return a.user.IsBlocked() }
func (a *Admin) Permissions() []string { return slices.Clone(adminPermissions) }

func (a *Admin) CanAccess(string) bool {
	return !a.user.IsBlocked()
}

func (a *Admin) ProfileData(context.Context) (*dto.ProfileData, error) {
	return &dto.ProfileData{User: a.user, Permissions: a.Permissions()}, nil
}

func (a *Admin) guard(capability string) error {
	if !a.CanAccess(capability) {
		return helper.Forbidden(constants.CapabilityError(capability))
	}
	return nil
}

// =======================
// Users
// =======================

func (a *Admin) ListUsers(ctx context.Context, f dto.UserFilter, p helper.Paging) ([]model.UserModel, int64, error) {
	if err := a.guard(constants.PermManageUsers); err != nil {
		return nil, 0, err
	}
	if err := helper.ValidateStruct(f); err != nil {
		return nil, 0, err
	}

	conds := []string{"1 = 1"}
	params := map[string]any{"limit": p.Limit, "offset": p.Offset}
	if f.Role != "" {
		conds = append(conds, "role = @role")
		params["role"] = f.Role
	}
	if f.Status != "" {
		conds = append(conds, "status = @status")
		params["status"] = f.Status
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		conds = append(conds, "(LOWER(email) LIKE @q OR LOWER(first_name) LIKE @q OR LOWER(last_name) LIKE @q OR LOWER(COALESCE(company_name, '')) LIKE @q)")
		params["q"] = "%" + q + "%"
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int64
	if _, err := a.deps.Store.SelectOne(ctx, &total, `SELECT COUNT(*) FROM users`+where, params); err != nil {
		return nil, 0, helper.StorageError("list users", err)
	}
	var users []model.UserModel
	if err := a.deps.Store.Select(ctx, &users,
		`SELECT * FROM users`+where+` ORDER BY created_at DESC, id DESC LIMIT @limit OFFSET @offset`, params); err != nil {
		return nil, 0, helper.StorageError("list users", err)
	}
	return users, total, nil
}

func (a *Admin) GetUser(ctx context.Context, userID int64) (*model.UserModel, error) {
	if err := a.guard(constants.PermManageUsers); err != nil {
		return nil, err
	}
	return loadUser(ctx, a.deps.Store, userID)
}

func (a *Admin) BlockUser(ctx context.Context, userID int64, reason *string) (*model.UserModel, error) {
	return a.setUserStatus(ctx, userID, model.UserStatusBlocked, reason)
}

func (a *Admin) UnblockUser(ctx context.Context, userID int64) (*model.UserModel, error) {
	return a.setUserStatus(ctx, userID, model.UserStatusActive, nil)
}

func (a *Admin) setUserStatus(ctx context.Context, userID int64, status string, reason *string) (*model.UserModel, error) {
	if err := a.guard(constants.PermManageUsers); err != nil {
		return nil, err
	}
	if userID == a.user.ID {
		return nil, helper.BadRequest("you cannot change the status of your own account")
	}
	user, err := loadUser(ctx, a.deps.Store, userID)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return user, nil
	}

	now := a.deps.now()
	if _, err := a.deps.Store.Update(ctx, "users",
		map[string]any{"status": status, "updated_at": now},
		map[string]any{"id": userID},
	); err != nil {
		return nil, helper.StorageError("update user status", err)
	}
	user.Status = status
	user.UpdatedAt = now
	log.Printf("[INFO] admin %d set user %d status to %s", a.user.ID, userID, status)

	msg := "Your account has been " + status
	if status == model.UserStatusActive {
		msg = "Your account has been reactivated"
	}
	if reason != nil && strings.TrimSpace(*reason) != "" {
		msg += ": " + strings.TrimSpace(*reason)
	}
	a.notify(ctx, userID, notifModel.TypeAccountStatusUpdated, msg)
	return user, nil
}

// VerifyUser marks the account verified; verifying twice keeps the first
// verification time.
func (a *Admin) VerifyUser(ctx context.Context, userID int64) (*model.UserModel, error) {
	if err := a.guard(constants.PermManageUsers); err != nil {
		return nil, err
	}
	user, err := loadUser(ctx, a.deps.Store, userID)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return user, nil
	}
	now := a.deps.now()
	fields := map[string]any{"is_verified": true, "updated_at": now}
	if user.EmailVerifiedAt == nil {
		fields["email_verified_at"] = now
		user.EmailVerifiedAt = &now
	}
	if _, err := a.deps.Store.Update(ctx, "users", fields, map[string]any{"id": userID}); err != nil {
		return nil, helper.StorageError("verify user", err)
	}
	user.IsVerified = true
	user.UpdatedAt = now
	a.notify(ctx, userID, notifModel.TypeAccountVerified, "Your account has been verified")
	return user, nil
}

// userCleanup lists what DeleteUser removes, in dependency order. Reviews
// written by or about the user go with it; payments the user received keep
// their history with the student cleared.
var userCleanup = []string{
	`DELETE FROM notifications WHERE user_id = @id`,
	`DELETE FROM wishlists WHERE student_id = @id OR job_id IN (SELECT id FROM jobs WHERE publisher_id = @id)`,
	`DELETE FROM applications WHERE student_id = @id OR job_id IN (SELECT id FROM jobs WHERE publisher_id = @id)`,
	`DELETE FROM feedbacks WHERE student_id = @id OR publisher_id = @id`,
	`DELETE FROM payments WHERE publisher_id = @id`,
	`UPDATE payments SET student_id = NULL WHERE student_id = @id`,
	`UPDATE payments SET job_id = NULL WHERE job_id IN (SELECT id FROM jobs WHERE publisher_id = @id)`,
	`DELETE FROM jobs WHERE publisher_id = @id`,
	`DELETE FROM student_profiles WHERE user_id = @id`,
	`DELETE FROM publisher_profiles WHERE user_id = @id`,
	`DELETE FROM users WHERE id = @id`,
}

func (a *Admin) DeleteUser(ctx context.Context, userID int64) error {
	if err := a.guard(constants.PermManageUsers); err != nil {
		return err
	}
	if userID == a.user.ID {
		return helper.BadRequest("you cannot delete your own account")
	}
	if _, err := loadUser(ctx, a.deps.Store, userID); err != nil {
		return err
	}
	err := a.deps.Store.Transaction(ctx, func(tx database.Store) error {
		for _, q := range userCleanup {
			if _, err := tx.Exec(ctx, q, map[string]any{"id": userID}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.StorageError("delete user", err)
	}
	log.Printf("[INFO] admin %d deleted user %d", a.user.ID, userID)
	return nil
}

// =======================
// Content
// =======================

func (a *Admin) ModerateReview(ctx context.Context, feedbackID int64, req fbDTO.ModerateRequest) (*fbModel.FeedbackModel, error) {
	if err := a.guard(constants.PermModerateReviews); err != nil {
		return nil, err
	}
	return a.deps.Feedbacks.Moderate(ctx, feedbackID, req)
}

func (a *Admin) ChangeJobStatus(ctx context.Context, jobID int64, status string) (*jobDTO.JobView, error) {
	if err := a.guard(constants.PermManageAllJobs); err != nil {
		return nil, err
	}
	return a.deps.Jobs.AdminChangeStatus(ctx, jobID, status)
}

// =======================
// Statistics
// =======================

// DashboardStats covers the whole platform.
func (a *Admin) DashboardStats(ctx context.Context) (map[string]any, error) {
	if err := a.guard(constants.PermViewStatistics); err != nil {
		return nil, err
	}
	type row struct {
		Role string `gorm:"column:role"`
		N    int64  `gorm:"column:n"`
	}
	var rows []row
	if err := a.deps.Store.Select(ctx, &rows, `SELECT role, COUNT(*) AS n FROM users GROUP BY role`, nil); err != nil {
		return nil, helper.StorageError("count users", err)
	}
	users := map[string]int64{model.RoleStudent: 0, model.RolePublisher: 0, model.RoleAdmin: 0}
	var totalUsers int64
	for _, r := range rows {
		users[r.Role] = r.N
		totalUsers += r.N
	}
	blocked, err := a.deps.Store.Count(ctx, "users", map[string]any{"status": model.UserStatusBlocked})
	if err != nil {
		return nil, helper.StorageError("count users", err)
	}

	jobs, err := a.deps.Jobs.StatusCounts(ctx, 0)
	if err != nil {
		return nil, err
	}
	apps, err := a.deps.Applications.StatusCounts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	activeReviews, err := a.deps.Store.Count(ctx, "feedbacks", map[string]any{"status": fbModel.FeedbackStatusActive})
	if err != nil {
		return nil, helper.StorageError("count reviews", err)
	}

	stats := map[string]any{
		"users_by_role":  users,
		"total_users":    totalUsers,
		"blocked_users":  blocked,
		"jobs":           jobs,
		"applications":   apps,
		"active_reviews": activeReviews,
	}
	if a.deps.Payments != nil {
		payments, err := a.deps.Payments.Stats(ctx, 0)
		if err != nil {
			return nil, err
		}
		stats["payments"] = payments.ByStatus
		stats["completed_volume"] = payments.CompletedVolume
		stats["refunded_volume"] = payments.RefundedVolume
	}
	return stats, nil
}

func (a *Admin) notify(ctx context.Context, userID int64, typ, msg string) {
	if a.deps.Notifications == nil {
		return
	}
	notifService.Send(ctx, a.deps.Notifications, notifService.Notification{
		UserID:  userID,
		Type:    typ,
		Message: msg,
	})
}
