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

	"github.com/Baaaki/planogram-backoffice/internal/config"
	"github.com/Baaaki/planogram-backoffice/internal/database"
	"github.com/Baaaki/planogram-backoffice/internal/email"
	"github.com/Baaaki/planogram-backoffice/internal/handler"
	"github.com/Baaaki/planogram-backoffice/internal/middleware"
	"github.com/Baaaki/planogram-backoffice/internal/migration"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/Baaaki/planogram-backoffice/internal/storage"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// The pool connects on first use; keep-alive also opens it at startup.
	db := database.NewManager(database.MySQLOpener(cfg.Database), database.PoolConfigFrom(cfg.Database))
	defer db.Close()
	db.StartKeepAlive(cfg.Database.KeepAliveInterval)

	runner, err := migration.NewRunner(db, migration.NewSQLStorage(db, "", "mysql"), migration.Registered())
	if err != nil {
		logger.Log.Fatal("Failed to build migration runner", zap.Error(err))
	}

	files, err := storage.NewLocal(cfg.Storage.UploadDir, cfg.Storage.PublicPrefix)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	mailer, err := email.NewFromConfig(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize email", zap.Error(err))
	}

	// Rate limiting needs Redis and is skipped without it
	var apiLimiter, authLimiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		apiLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
		})
		authLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
			MaxRequests: 10,
			Window:      cfg.RateLimitWindow,
			BlockTime:   cfg.RateLimitBlockTime,
			Prefix:      "ratelimit:auth",
		})
	} else {
		logger.Log.Warn("REDIS_URL not set, rate limiting disabled")
	}

	// Repositories
	users := repository.NewUserRepository(db)
	stores := repository.NewStoreRepository(db)
	planograms := repository.NewPlanogramRepository(db)
	submissions := repository.NewSubmissionRepository(db)
	uploads := repository.NewUploadRepository(db)
	relations := service.NewRelations(users, stores, planograms, uploads, files, cfg.Storage.SignedURLTTL)

	// Services
	userService := service.NewUserService(users, files, mailer, cfg.JWTSecret, cfg.EmailConfirmationExpiry)
	authService := service.NewAuthService(userService, mailer, cfg.JWTSecret, cfg.JWTExpiry, cfg.PasswordResetExpiry, cfg.Environment)
	storeService := service.NewStoreService(stores, relations)
	planogramService := service.NewPlanogramService(planograms, stores, relations)
	submissionService := service.NewSubmissionService(submissions, uploads, files, relations)

	router := handler.NewRouter(handler.RouterConfig{
		JWTSecret:    cfg.JWTSecret,
		FrontendURL:  cfg.FrontendURL,
		IsProduction: cfg.IsProduction(),
		UploadDir:    cfg.Storage.UploadDir,
		PublicPrefix: cfg.Storage.PublicPrefix,
		RateLimiter:  apiLimiter,
		AuthLimiter:  authLimiter,
	}, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Admin:      handler.NewAdminHandler(userService),
		Store:      handler.NewStoreHandler(storeService),
		Planogram:  handler.NewPlanogramHandler(planogramService),
		Submission: handler.NewSubmissionHandler(submissionService),
		Storage:    handler.NewStorageHandler(files, cfg.Storage.SignedURLTTL),
		Health:     handler.NewHealthHandler(db, runner),
	})

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info("Server starting",
			zap.String("addr", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
