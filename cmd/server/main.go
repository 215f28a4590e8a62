package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gasflow/internal/config"
	"gasflow/internal/database"
	"gasflow/internal/handlers"
	"gasflow/internal/middleware"
	"gasflow/internal/migrations"
	"gasflow/internal/realtime"
	"gasflow/internal/redis"
	"gasflow/internal/repository"
	"gasflow/internal/services"
	"gasflow/internal/utils"
	"gasflow/pkg/mailer"

	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	err = migrations.RunMigrations(db, migrations.Seed{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Redis backs the dashboard cache and the auth rate limiter. Without it
	// both are switched off.
	var cache services.Cache
	var limiter middleware.Limiter
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, caching and rate limiting disabled", "error", err)
	} else {
		defer redisClient.Close()
		cache = redisClient
		limiter = redisClient
	}

	var mail mailer.Sender = mailer.LogSender{}
	if cfg.Email.User != "" {
		mail = mailer.NewClient(mailer.Options{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.User,
			Password: cfg.Email.Password,
			Secure:   cfg.Email.Secure,
			From:     cfg.Email.From,
		})
	} else {
		slog.Warn("EMAIL_USER not set, emails will only be logged")
	}

	repos := repository.New(db)
	hub := realtime.NewHub()
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize services
	userService := services.NewUserService(repos, cfg.AdminEmail, cfg.AdminPassword)
	svc := handlers.Services{
		Auth:          services.NewAuthService(repos, tokens, mail, cfg.FrontendURL),
		Users:         userService,
		Products:      services.NewProductService(repos, cache),
		Cart:          services.NewCartService(repos),
		Orders:        services.NewOrderService(repos, hub, cache, cfg.Site),
		Chat:          services.NewChatService(repos, userService, hub, cfg.ChatUnsendWindow),
		Notifications: services.NewNotificationService(repos),
		Schedules:     services.NewScheduleService(repos),
		Analytics:     services.NewAnalyticsService(repos, cache, time.Duration(cfg.CacheTTL)*time.Second, cfg.LowStockThreshold),
		Uploads:       services.NewUploadService(cfg.UploadDir, "/uploads"),
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Services:          svc,
		Hub:               hub,
		Limiter:           limiter,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   time.Duration(cfg.RateLimitWindow) * time.Second,
		FrontendURL:       cfg.FrontendURL,
		UploadDir:         cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
}

func logLevel() slog.Level {
	if os.Getenv("LOG_LEVEL") == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
