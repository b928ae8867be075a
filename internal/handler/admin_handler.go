package handler

import (
	"net/http"

	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler manages other users' accounts. Routes sit behind
// AdminMiddleware.
type AdminHandler struct {
	userService *service.UserService
}

func NewAdminHandler(userService *service.UserService) *AdminHandler {
	return &AdminHandler{
		userService: userService,
	}
}

// GetAllUsers lists users with optional filter, search and sort
// GET /api/admin/users?search=&sortBy=&sortOrder=&role=&isConfirmed=
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	logger.Log.Info("Admin fetching users",
		zap.String("admin_id", actorID(c)),
	)

	users, err := h.userService.List(c.Request.Context(),
		listQuery(c, "email", "firstName", "lastName", "isConfirmed", "role"))
	if err != nil {
		respondError(c, err, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// GET /api/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	adminID := actorID(c)
	logger.Log.Info("Admin creating user",
		zap.String("admin_id", adminID),
		zap.String("email", req.Email),
	)

	user, err := h.userService.Create(c.Request.Context(), req, adminID)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// PUT /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	targetID := c.Param("id")
	logger.Log.Info("Admin deleting user",
		zap.String("admin_id", actorID(c)),
		zap.String("target_user_id", targetID),
	)

	if err := h.userService.Delete(c.Request.Context(), targetID); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
