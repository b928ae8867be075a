package handler

import (
	"net/http"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/middleware"
	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	JWTSecret    string
	FrontendURL  string
	IsProduction bool
	// UploadDir is served read-only under PublicPrefix when both are set.
	UploadDir    string
	PublicPrefix string
	// Limiters are optional. AuthLimiter guards the credential endpoints.
	RateLimiter *middleware.RateLimiter
	AuthLimiter *middleware.RateLimiter
}

type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Admin      *AdminHandler
	Store      *StoreHandler
	Planogram  *PlanogramHandler
	Submission *SubmissionHandler
	Storage    *StorageHandler
	Health     *HealthHandler
}

const defaultFrontendURL = "http://localhost:5173"

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = defaultFrontendURL
	}
	router := gin.New()

	router.Use(ginzap.Ginzap(logger.Named("http"), time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger.Named("http"), true))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction))

	if cfg.UploadDir != "" && cfg.PublicPrefix != "" {
		router.Static(cfg.PublicPrefix, cfg.UploadDir)
	}

	if h.Health != nil {
		router.GET("/health", h.Health.Check)
	}

	api := router.Group("/api")
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Middleware())
	}

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	adminOnly := middleware.AdminMiddleware()
	anyRole := middleware.RequireRole(models.RoleUser, models.RoleAdmin)

	// Auth
	credentials := api.Group("/auth")
	if cfg.AuthLimiter != nil {
		credentials.Use(cfg.AuthLimiter.Middleware())
	}
	{
		credentials.POST("/register", h.Auth.Register)
		credentials.POST("/login", h.Auth.Login)
		credentials.POST("/admin/login", h.Auth.AdminLogin)
		credentials.POST("/logout", h.Auth.Logout)
		credentials.POST("/forgot-password", h.Auth.ForgotPassword)
		credentials.POST("/reset-password", h.Auth.ResetPassword)
		credentials.POST("/change-password", auth, h.Auth.ChangePassword)
	}

	// Users
	users := api.Group("/users")
	{
		users.POST("/confirm-email", h.User.ConfirmEmail)
		users.GET("/profile", auth, h.User.Profile)
		users.PUT("/profile", auth, h.User.UpdateProfile)
		users.POST("/send-confirmation-email", auth, h.User.SendConfirmationEmail)
		users.POST("/profile-picture", auth, h.User.UploadProfilePicture)
		users.DELETE("/profile-picture", auth, h.User.DeleteProfilePicture)
	}

	admin := api.Group("/admin", auth, adminOnly)
	{
		admin.GET("/users", h.Admin.GetAllUsers)
		admin.GET("/users/:id", h.Admin.GetUser)
		admin.POST("/users", h.Admin.CreateUser)
		admin.PUT("/users/:id", h.Admin.UpdateUser)
		admin.DELETE("/users/:id", h.Admin.DeleteUser)
	}

	// Stores and planograms are readable without a token
	stores := api.Group("/stores")
	{
		stores.GET("", h.Store.List)
		stores.GET("/:id", h.Store.Get)
		stores.POST("", auth, adminOnly, h.Store.Create)
		stores.PUT("/:id", auth, adminOnly, h.Store.Update)
		stores.DELETE("/:id", auth, adminOnly, h.Store.Delete)
	}

	planograms := api.Group("/planograms")
	{
		planograms.GET("", h.Planogram.List)
		planograms.GET("/:id", h.Planogram.Get)
		planograms.POST("", auth, adminOnly, h.Planogram.Create)
		planograms.PUT("/:id", auth, adminOnly, h.Planogram.Update)
		planograms.DELETE("/:id", auth, adminOnly, h.Planogram.Delete)
	}

	submissions := api.Group("/submissions", auth)
	{
		submissions.GET("", adminOnly, h.Submission.List)
		submissions.GET("/:id", adminOnly, h.Submission.Get)
		submissions.POST("", anyRole, h.Submission.Create)
		submissions.POST("/:id/uploads", anyRole, h.Submission.AddUpload)
		submissions.PUT("/:id", adminOnly, h.Submission.Update)
		submissions.DELETE("/:id", adminOnly, h.Submission.Delete)
	}
	api.POST("/uploads", auth, anyRole, h.Submission.CreateUpload)

	storage := api.Group("/storage", auth, adminOnly)
	{
		storage.POST("/upload", h.Storage.Upload)
		storage.GET("/signed-url", h.Storage.SignedURL)
		storage.DELETE("", h.Storage.Delete)
	}

	return router
}
