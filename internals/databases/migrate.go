package database

import (
	"log"

	paymentModel "jobmarket_backend/internals/features/finance/payments/model"
	notificationModel "jobmarket_backend/internals/features/home/notifications/model"
	applicationModel "jobmarket_backend/internals/features/jobs/applications/model"
	categoryModel "jobmarket_backend/internals/features/jobs/categories/model"
	jobModel "jobmarket_backend/internals/features/jobs/jobs/model"
	wishlistModel "jobmarket_backend/internals/features/jobs/wishlists/model"
	feedbackModel "jobmarket_backend/internals/features/reviews/feedbacks/model"
	userModel "jobmarket_backend/internals/features/users/users/model"

	"gorm.io/gorm"
)

// Models lists every persisted table. The unique indexes declared on them back
// the check-then-insert guards in the services.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&userModel.StudentProfileModel{},
		&userModel.PublisherProfileModel{},
		&categoryModel.JobCategoryModel{},
		&jobModel.JobModel{},
		&applicationModel.ApplicationModel{},
		&wishlistModel.WishlistModel{},
		&feedbackModel.FeedbackModel{},
		&paymentModel.PaymentModel{},
		&notificationModel.NotificationModel{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		log.Printf("[ERROR] auto migrate: %v", err)
		return err
	}
	log.Println("[INFO] schema migrated")
	return nil
}
