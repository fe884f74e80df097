package service

import (
	"context"
	"slices"
	"time"

	"jobmarket_backend/internals/constants"
	database "jobmarket_backend/internals/databases"
	payService "jobmarket_backend/internals/features/finance/payments/service"
	notifModel "jobmarket_backend/internals/features/home/notifications/model"
	notifService "jobmarket_backend/internals/features/home/notifications/service"
	appService "jobmarket_backend/internals/features/jobs/applications/service"
	jobService "jobmarket_backend/internals/features/jobs/jobs/service"
	wishService "jobmarket_backend/internals/features/jobs/wishlists/service"
	fbService "jobmarket_backend/internals/features/reviews/feedbacks/service"
	"jobmarket_backend/internals/features/users/users/dto"
	"jobmarket_backend/internals/features/users/users/model"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

// Account is one caller resolved to its role variant.
type Account interface {
	Role() string
	UserID() int64
	Blocked() bool
	Permissions() []string
	CanAccess(capability string) bool
	ProfileData(ctx context.Context) (*dto.ProfileData, error)
	DashboardStats(ctx context.Context) (map[string]any, error)
}

// Deps are the services account variants delegate to.
type Deps struct {
	Store         database.Store
	Notifications *notifService.NotificationService
	Jobs          *jobService.JobService
	Applications  *appService.ApplicationService
	Wishlists     *wishService.WishlistService
	Feedbacks     *fbService.FeedbackService
	Payments      *payService.PaymentService
	Now           func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

var (
	visitorPermissions = []string{
		constants.PermViewJobs,
		constants.PermViewCategories,
		constants.PermViewPublishers,
		constants.PermRegister,
	}
	registeredPermissions = []string{
		constants.PermUpdateProfile,
		constants.PermViewNotifications,
		constants.PermManageNotifications,
	}
	studentPermissions = slices.Concat(registeredPermissions, []string{
		constants.PermApplyJobs,
		constants.PermViewApplications,
		constants.PermWithdrawApplication,
		constants.PermManageWishlist,
		constants.PermWriteReviews,
	})
	publisherPermissions = slices.Concat(registeredPermissions, []string{
		constants.PermCreateJobs,
		constants.PermManageJobs,
		constants.PermViewJobApplications,
		constants.PermManageApplications,
		constants.PermMakePayments,
		constants.PermViewReviews,
	})
	adminPermissions = []string{
		constants.PermManageUsers,
		constants.PermManageAllJobs,
		constants.PermManageCategories,
		constants.PermModerateReviews,
		constants.PermManagePayments,
		constants.PermViewStatistics,
		constants.PermAll,
	}
)

// =======================
// Visitor
// =======================

// Visitor is the unauthenticated caller. It is never stored.
type Visitor struct{}

func (Visitor) Role() string { return model.RoleVisitor }
func (Visitor) UserID() int64 { return 0 }
func (Visitor) Blocked() bool { return false }
func (Visitor) Permissions() []string { return slices.Clone(visitorPermissions) }

func (Visitor) CanAccess(capability string) bool {
	return slices.Contains(visitorPermissions, capability)
}

func (Visitor) ProfileData(context.Context) (*dto.ProfileData, error) {
	return nil, fiber.NewError(fiber.StatusUnauthorized, "visitors have no profile")
}

func (Visitor) DashboardStats(context.Context) (map[string]any, error) {
	return map[string]any{}, nil
}

// =======================
// Registered users
// =======================

// registered carries what Student and Publisher share: the users row and
// the notification inbox.
type registered struct {
	user model.UserModel
	deps *Deps
}

func (r *registered) UserID() int64 { return r.user.ID }
func (r *registered) Blocked() bool { return r.user.IsBlocked() }
func (r *registered) User() model.UserModel { return r.user }

func (r *registered) Notifications(ctx context.Context, unreadOnly bool, p helper.Paging) ([]notifModel.NotificationModel, int64, error) {
	return r.deps.Notifications.ListForUser(ctx, r.user.ID, unreadOnly, p)
}

func (r *registered) UnreadNotifications(ctx context.Context) (int64, error) {
	return r.deps.Notifications.UnreadCount(ctx, r.user.ID)
}

func (r *registered) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	return r.deps.Notifications.MarkRead(ctx, r.user.ID, notificationID)
}

func (r *registered) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	return r.deps.Notifications.MarkAllRead(ctx, r.user.ID)
}

// updateProfile writes users and the variant profile row in one transaction;
// the profile row is created when missing.
func (r *registered) updateProfile(ctx context.Context, table string, userCols, profileCols map[string]any) error {
	now := r.deps.now()
	err := r.deps.Store.Transaction(ctx, func(tx database.Store) error {
		userCols["updated_at"] = now
		if _, err := tx.Update(ctx, "users", userCols, map[string]any{"id": r.user.ID}); err != nil {
			return err
		}
		if len(profileCols) == 0 {
			return nil
		}
		profileCols["updated_at"] = now
		n, err := tx.Update(ctx, table, profileCols, map[string]any{"user_id": r.user.ID})
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		profileCols["user_id"] = r.user.ID
		profileCols["created_at"] = now
		_, err = tx.Insert(ctx, table, profileCols)
		return err
	})
	if err != nil {
		return helper.StorageError("update profile", err)
	}
	return r.reload(ctx)
}

func (r *registered) reload(ctx context.Context) error {
	user, err := loadUser(ctx, r.deps.Store, r.user.ID)
	if err != nil {
		return err
	}
	r.user = *user
	return nil
}

func (r *registered) unreadCount(ctx context.Context) (int64, error) {
	if r.deps.Notifications == nil {
		return 0, nil
	}
	return r.deps.Notifications.UnreadCount(ctx, r.user.ID)
}

func loadUser(ctx context.Context, store database.Store, id int64) (*model.UserModel, error) {
	var u model.UserModel
	found, err := store.SelectOne(ctx, &u, `SELECT * FROM users WHERE id = @id`, map[string]any{"id": id})
	if err != nil {
		return nil, helper.StorageError("load user", err)
	}
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	return &u, nil
}

// loadProfile fills dest from table; a missing row leaves found false.
func loadProfile(ctx context.Context, store database.Store, table string, userID int64, dest any) (bool, error) {
	found, err := store.SelectOne(ctx, dest, `SELECT * FROM `+table+` WHERE user_id = @user_id`,
		map[string]any{"user_id": userID})
	if err != nil {
		return false, helper.StorageError("load "+table, err)
	}
	return found, nil
}
