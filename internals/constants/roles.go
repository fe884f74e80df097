package constants

import "fmt"

// Capabilities checked by Account.CanAccess.
const (
	// visitor
	PermViewJobs       = "view_jobs"
	PermViewCategories = "view_categories"
	PermViewPublishers = "view_publishers"
	PermRegister       = "register"

	// registered baseline
	PermUpdateProfile       = "update_profile"
	PermViewNotifications   = "view_notifications"
	PermManageNotifications = "manage_notifications"

	// student
	PermApplyJobs           = "apply_jobs"
	PermViewApplications    = "view_own_applications"
	PermWithdrawApplication = "withdraw_application"
	PermManageWishlist      = "manage_wishlist"
	PermWriteReviews        = "write_reviews"

	// publisher
	PermCreateJobs          = "create_jobs"
	PermManageJobs          = "manage_own_jobs"
	PermViewJobApplications = "view_job_applications"
	PermManageApplications  = "manage_applications"
	PermMakePayments        = "make_payments"
	PermViewReviews         = "view_own_reviews"

	// admin
	PermManageUsers      = "manage_users"
	PermManageAllJobs    = "manage_all_jobs"
	PermManageCategories = "manage_categories"
	PermModerateReviews  = "moderate_reviews"
	PermManagePayments   = "manage_payments"
	PermViewStatistics   = "view_statistics"
	PermAll              = "all"
)

const (
	ErrCapabilityDenied = "your account cannot access %s"
	ErrRoleRequired     = "only %s accounts can access %s"
)

func CapabilityError(capability string) string {
	return fmt.Sprintf(ErrCapabilityDenied, capability)
}

func RoleError(role, feature string) string {
	return fmt.Sprintf(ErrRoleRequired, role, feature)
}
