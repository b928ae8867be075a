package handler

import (
	"net/http"

	"github.com/Baaaki/planogram-backoffice/internal/middleware"
	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
	OldPassword string `json:"oldPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// setTokenCookie mirrors the access token into an HTTP-only cookie.
func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.TokenCookie,
		token,
		7*24*60*60, // 7 days
		"/",
		"",
		h.authService.IsProduction(), // HTTPS-only in production
		true,
	)
}

// Register creates an account and logs it in.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}

	h.setTokenCookie(c, result.AccessToken)
	c.JSON(http.StatusCreated, result)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	h.setTokenCookie(c, result.AccessToken)
	c.JSON(http.StatusOK, result)
}

// AdminLogin is Login restricted to ADMIN accounts.
// POST /api/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	logger.Log.Info("Admin login attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	result, err := h.authService.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	h.setTokenCookie(c, result.AccessToken)
	c.JSON(http.StatusOK, result)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.authService.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authService.ChangePassword(c.Request.Context(), actorID(c), req.NewPassword, req.OldPassword)
	if err != nil {
		respondError(c, err, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "Failed to request password reset")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, err, "Failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
