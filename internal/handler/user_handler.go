package handler

import (
	"net/http"

	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the signed-in user's own profile.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type ConfirmEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// GET /api/users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/users/profile-picture (multipart field "file")
func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	file, err := readFile(c, "file")
	if err != nil {
		respondError(c, err, "Failed to read upload")
		return
	}

	user, err := h.userService.UpdateProfilePicture(c.Request.Context(), actorID(c), file)
	if err != nil {
		respondError(c, err, "Failed to update profile picture")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /api/users/profile-picture
func (h *UserHandler) DeleteProfilePicture(c *gin.Context) {
	user, err := h.userService.DeleteProfilePicture(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to delete profile picture")
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/users/send-confirmation-email
func (h *UserHandler) SendConfirmationEmail(c *gin.Context) {
	if err := h.userService.SendConfirmationEmail(c.Request.Context(), actorID(c)); err != nil {
		respondError(c, err, "Failed to send confirmation email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Confirmation email sent"})
}

// POST /api/users/confirm-email
func (h *UserHandler) ConfirmEmail(c *gin.Context) {
	var req ConfirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.ConfirmEmail(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err, "Failed to confirm email")
		return
	}
	c.JSON(http.StatusOK, user)
}
