package handler

import (
	"errors"
	"net/http"

	"childguard/backend/internal/auth"
	"childguard/backend/internal/models"
	"childguard/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetUser returns a profile. The password hash never leaves the server.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.Storage.GetUserByID(c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		h.Logger.Error("failed to fetch user", zap.String("user_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user data"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Storage.ListUsers()
	if err != nil {
		h.Logger.Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// UpdateAvatar stores a base64 avatar. Only the owner or an admin may change it.
func (h *Handler) UpdateAvatar(c *gin.Context) {
	id := c.Param("id")
	claims, _ := auth.ClaimsFrom(c)
	if claims == nil || (claims.UserID != id && claims.Role != models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var req models.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	err := h.Storage.UpdateUserAvatar(id, req.Avatar)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Avatar updated"})
}
