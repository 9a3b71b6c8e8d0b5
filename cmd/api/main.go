package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventapp/config"
	_ "eventapp/docs"
	"eventapp/internal/adapters/auth"
	adapteremail "eventapp/internal/adapters/email"
	httpdelivery "eventapp/internal/delivery/http"
	"eventapp/internal/delivery/http/controllers"
	"eventapp/internal/delivery/http/middleware"
	"eventapp/internal/repository/postgres"
	"eventapp/internal/services"
)

// @title EventApp API
// @version 1.0
// @description Event management backend: users, events, categories and event registrations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	txManager := postgres.NewTxManager(db)

	// Adapters
	hasher := auth.NewBcryptHasher(auth.DefaultBcryptCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := adapteremail.NewMailer(adapteremail.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: adapteremail.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	// Services
	clock := services.NewSystemClock()
	emailService := services.NewEmailService(mailer, adapteremail.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.JWTExpiry, clock)
	userService := services.NewUserService(userRepo, clock)
	eventService := services.NewEventService(eventRepo, categoryRepo, clock, cfg.RequestTimeout)
	categoryService := services.NewCategoryService(categoryRepo, clock)
	registrationService := services.NewRegistrationService(
		userRepo, eventRepo, registrationRepo, txManager, clock, emailService, cfg.RequestTimeout,
	)

	// Controllers
	authController := controllers.NewAuthController(logger, authService)
	userController := controllers.NewUserController(logger, userService)
	eventController := controllers.NewEventController(logger, eventService)
	categoryController := controllers.NewCategoryController(logger, categoryService)
	registrationController := controllers.NewRegistrationController(logger, registrationService)

	mux := httpdelivery.NewRouter(
		logger,
		tokenVerifier,
		authController,
		userController,
		eventController,
		categoryController,
		registrationController,
	)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
