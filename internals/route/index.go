package routes

import (
	"context"
	"log"
	"time"

	"jobmarket_backend/internals/constants"
	userModel "jobmarket_backend/internals/features/users/users/model"
	authMiddleware "jobmarket_backend/internals/middlewares/auth"
	routeDetails "jobmarket_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, s Services) {
	startTime = time.Now()

	BaseRoutes(app, s.DB)

	resolve := func(ctx context.Context, userID int64) (authMiddleware.Capable, error) {
		acc, err := s.Accounts.Resolve(ctx, userID)
		if err != nil {
			return nil, err
		}
		return acc, nil
	}

	// ===================== GROUPS =====================

	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	log.Println("[INFO] Setting up PRIVATE (user) group...")
	private := app.Group("/api/u",
		authMiddleware.AuthMiddleware(authMiddleware.Options{}),
		authMiddleware.LoadAccount(resolve),
	)

	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(authMiddleware.Options{}),
		authMiddleware.LoadAccount(resolve),
		authMiddleware.OnlyRoles(constants.RoleError(userModel.RoleAdmin, "the admin area"), userModel.RoleAdmin),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Jobs routes...")
	routeDetails.JobsPublicRoutes(public, s.Categories, s.Jobs, s.Feedbacks)
	routeDetails.JobsAdminRoutes(admin, s.Categories, s.Jobs, s.Feedbacks)

	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserRoutes(private, admin)

	log.Println("[INFO] Mounting Home routes...")
	routeDetails.HomeRoutes(private, s.Notifications)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinanceRoutes(app, private, admin, s.Payments, s.Midtrans, s.RateLimiter)
}
