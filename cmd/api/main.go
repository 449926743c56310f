// @title Ambassador Hub API
// @version 1.0
// @description Role-based event registration and ambassador management backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"ambassadorhub/config"
	_ "ambassadorhub/docs"
	"ambassadorhub/internal/adapters/auth"
	"ambassadorhub/internal/adapters/cache"
	"ambassadorhub/internal/adapters/email"
	httpdelivery "ambassadorhub/internal/delivery/http"
	"ambassadorhub/internal/delivery/http/controllers"
	"ambassadorhub/internal/delivery/http/middleware"
	"ambassadorhub/internal/domain"
	"ambassadorhub/internal/repository/postgres"
	"ambassadorhub/internal/services"

	"golang.org/x/crypto/bcrypt"
)

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
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	var views domain.ViewInvalidator = cache.NewNoopInvalidator()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			cancel()
			logger.Error("failed to ping redis", "err", err)
			os.Exit(1)
		}
		cancel()
		defer rdb.Close()
		views = cache.NewRedisInvalidator(rdb)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKey,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	issuer, verifier := auth.NewJWTCodec(cfg.JWTSecret)
	codeHasher := auth.NewBcryptCodeHasher(bcrypt.DefaultCost)

	userRepo := postgres.NewUserRepository(db)
	whitelistRepo := postgres.NewWhitelistRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, whitelistRepo, loginCodeRepo, codeHasher, issuer, cfg.TokenExpiry, emailService)
	userService := services.NewUserService(userRepo, whitelistRepo, emailService, views, cfg.AllowedEmailDomain)
	eventService := services.NewEventService(eventRepo, views, 10*time.Second)
	registrationService := services.NewRegistrationService(registrationRepo, eventRepo, views)
	creditService := services.NewCreditService(userRepo, views)

	mux := httpdelivery.NewRouter(
		logger,
		verifier,
		controllers.NewAuthController(logger, authService),
		controllers.NewUserController(logger, userService),
		controllers.NewEventController(logger, eventService),
		controllers.NewRegistrationController(logger, registrationService),
		controllers.NewCreditController(logger, creditService),
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

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
