package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"jobmarket_backend/internals/configs"
	database "jobmarket_backend/internals/databases"
	payModel "jobmarket_backend/internals/features/finance/payments/model"
	payService "jobmarket_backend/internals/features/finance/payments/service"
	notifService "jobmarket_backend/internals/features/home/notifications/service"
	appService "jobmarket_backend/internals/features/jobs/applications/service"
	catService "jobmarket_backend/internals/features/jobs/categories/service"
	jobService "jobmarket_backend/internals/features/jobs/jobs/service"
	"jobmarket_backend/internals/features/jobs/scheduler"
	wishService "jobmarket_backend/internals/features/jobs/wishlists/service"
	fbService "jobmarket_backend/internals/features/reviews/feedbacks/service"
	userService "jobmarket_backend/internals/features/users/users/service"
	helper "jobmarket_backend/internals/helpers"
	"jobmarket_backend/internals/middlewares"
	"jobmarket_backend/internals/middlewares/logger"
	routes "jobmarket_backend/internals/route"
	"jobmarket_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler:            helper.FromFiberError,
	})

	app.Use(middlewares.RecoveryMiddleware(configs.GetEnvBool("RECOVER_STACK_TRACE", false)))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// request id + timeout guard aligned with the DB statement_timeout
	app.Use(middlewares.RequestContext(time.Duration(configs.GetEnvInt("REQUEST_TIMEOUT_SECONDS", 5)) * time.Second))
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.CorsMiddleware())

	redisClient := database.ConnectRedis(configs.GetEnv("REDIS_URL"))
	rateLimiter := middlewares.NewRedisLimiter(redisClient)
	app.Use(middlewares.GlobalRateLimiter(configs.GetEnvInt("RATE_LIMIT_MAX", 100), rateLimiter))

	db := database.ConnectDB(configs.DatabaseDSN())
	database.TunePool(db)
	database.WarmUp(db)
	if configs.GetEnvBool("DB_AUTO_MIGRATE", false) {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("[ERROR] migration failed: %v", err)
		}
	}
	if configs.GetEnvBool("DB_SEED", false) {
		if err := seeds.RunAllSeeds(db, configs.GetEnv("CATEGORY_SEED_FILE")); err != nil {
			log.Fatalf("[ERROR] seeding failed: %v", err)
		}
	}
	store := database.NewStore(db)

	// services
	notifications := notifService.NewNotificationService(store)
	jobs := jobService.NewJobService(store)
	applications := appService.NewApplicationService(store, notifications)
	wishlists := wishService.NewWishlistService(store)
	feedbacks := fbService.NewFeedbackService(store, notifications)

	gateways, midtrans := buildGateways()
	payments := payService.NewPaymentService(store, notifications, gateways)

	accounts := userService.NewAccountService(&userService.Deps{
		Store:         store,
		Notifications: notifications,
		Jobs:          jobs,
		Applications:  applications,
		Wishlists:     wishlists,
		Feedbacks:     feedbacks,
		Payments:      payments,
	})

	cleanup, err := scheduler.StartWishlistCleanup(configs.GetEnv("WISHLIST_CLEANUP_CRON"), wishlists)
	if err != nil {
		log.Fatalf("[ERROR] wishlist cleanup schedule: %v", err)
	}

	routes.SetupRoutes(app, routes.Services{
		DB:            db,
		Accounts:      accounts,
		Categories:    catService.NewCategoryService(store),
		Jobs:          jobs,
		Feedbacks:     feedbacks,
		Payments:      payments,
		Notifications: notifications,
		Midtrans:      midtrans,
		RateLimiter:   rateLimiter,
	})

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")
	go func() {
		log.Printf("[INFO] Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("[ERROR] server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down")

	if cleanup != nil {
		<-cleanup.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if redisClient != nil {
		_ = redisClient.Close()
	}
	database.Close(db)
}

// buildGateways registers the simulator as fallback (and for paypal), plus
// stripe and midtrans when their keys are configured.
func buildGateways() (*payService.Registry, *payService.MidtransGateway) {
	rate := configs.GetEnvFloat("MOCK_GATEWAY_SUCCESS_RATE", payService.DefaultMockSuccessRate)
	mock := payService.NewMockGateway(payModel.GatewayMock, rate, nil)
	paypal := payService.NewMockGateway(payModel.GatewayPaypal, rate, nil)

	var gateways []payService.Gateway
	gateways = append(gateways, paypal)
	if key := configs.GetEnv("STRIPE_SECRET_KEY"); key != "" {
		gateways = append(gateways, payService.NewStripeGateway(key))
		log.Println("[INFO] stripe gateway enabled")
	}
	var midtrans *payService.MidtransGateway
	if key := configs.GetEnv("MIDTRANS_SERVER_KEY"); key != "" {
		midtrans = payService.NewMidtransGateway(key, configs.GetEnvBool("MIDTRANS_USE_PROD", false))
		gateways = append(gateways, midtrans)
		log.Println("[INFO] midtrans gateway enabled")
	}
	return payService.NewRegistry(mock, gateways...), midtrans
}
