package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market/commands"
	"market/config"
	"market/controllers"
	"market/jobs"
	middlewares "market/middleware"
	"market/routes"
	"market/services"
	"market/services/logger"
	"market/services/mail"
	"market/services/notification"

	"github.com/redis/go-redis/v9"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	appLog := logger.NewDefaultLogger(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := config.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	var rdb *redis.Client
	if client, err := config.ConnectRedis(ctx, &cfg.Redis); err != nil {
		appLog.Warn("⚠️ redis unavailable, caching disabled: %v", err)
	} else {
		rdb = client
		defer rdb.Close()
	}

	cld, err := config.ConnectCloudinary(&cfg.Cloudinary)
	if err != nil {
		log.Fatalf("Failed to init cloudinary: %v", err)
	}

	renderer, err := mail.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to parse mail templates: %v", err)
	}
	var sender mail.Sender = mail.LogSender{Logger: appLog}
	if cfg.SMTP.Username != "" {
		sender = mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	var queue mail.Queue
	if cfg.RabbitMQ.URL != "" {
		rq, err := mail.DialRabbitQueue(cfg.RabbitMQ.URL, cfg.RabbitMQ.MailQueue, renderer, sender, appLog)
		if err != nil {
			log.Fatalf("Failed to connect rabbitmq: %v", err)
		}
		defer rq.Close()
		go func() {
			if err := rq.Consume(ctx); err != nil && !errors.Is(err, context.Canceled) {
				appLog.Error("❌ mail consumer stopped: %v", err)
			}
		}()
		queue = rq
	} else {
		lq := mail.NewLocalQueue(renderer, sender, appLog, cfg.Jobs.MailWorkers, 256)
		defer lq.Close()
		queue = lq
	}
	notifier := mail.NewNotifier(queue)

	router, m, c := config.InitApp(cfg)
	router.Use(middlewares.RequestID(), middlewares.ErrorHandler(appLog))
	push := notification.NewMelodyService(m)

	tokens := services.NewTokenService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer)
	authService := services.NewAuthService(services.AuthServiceOptions{
		DB:             db,
		Tokens:         tokens,
		Logger:         appLog,
		GoogleClientID: cfg.Google.ClientID,
	})
	userService := services.NewUserService(db, appLog)
	catalogService := services.NewCatalogService(db, rdb, appLog)
	reviewService := services.NewReviewService(db, rdb, appLog)
	locationService := services.NewLocationService(db, rdb, appLog)
	discountService := services.NewDiscountService(db, appLog, nil)
	interestService := services.NewInterestService(services.InterestServiceOptions{
		DB:       db,
		Notifier: notifier,
		Logger:   appLog,
	})
	promoService := services.NewPromoCodeService(db)
	bookingService := services.NewBookingService(services.BookingServiceOptions{
		DB:       db,
		Notifier: notifier,
		Push:     push,
		Logger:   appLog,
	})
	chatService := services.NewChatService(db, push, appLog, nil)
	evaluator := services.NewDiscountEvaluator(services.DiscountEvaluatorOptions{
		DB:       db,
		Notifier: notifier,
		Logger:   appLog,
	})

	var store services.ImageStore
	if cld != nil {
		store = services.NewCloudinaryStore(cld, cfg.Cloudinary.Folder)
	}
	uploadService := services.NewUploadService(store, appLog)

	registry := commands.NewRegistry(appLog,
		commands.NewCancelExpiredDiscountsCommand(evaluator),
		commands.NewDeactivateFinishedDiscountsCommand(evaluator),
	)
	if err := jobs.InitCronJobs(ctx, c, registry, cfg.Jobs, appLog); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	routes.SetupRoutes(router, routes.Handlers{
		Auth:      controllers.NewAuthController(authService, userService),
		Services:  controllers.NewServiceController(catalogService, reviewService),
		Discounts: controllers.NewDiscountController(discountService, interestService, promoService),
		Bookings:  controllers.NewBookingController(bookingService),
		Chat:      controllers.NewChatController(chatService),
		Locations: controllers.NewLocationController(locationService),
		Uploads:   controllers.NewUploadController(uploadService),
		Admin:     controllers.NewAdminController(userService, registry),
		WS:        controllers.NewWSController(m, appLog),
	}, tokens)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLog.Info("🚀 server starting on port %s...", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("🛑 shutting down...")

	cronCtx := c.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown: %v", err)
	}
	_ = m.Close()
	select {
	case <-cronCtx.Done():
	case <-shutdownCtx.Done():
	}
}
