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

// Signup registers an account. Email and phone must both be unused.
func (h *Handler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email or password"})
		return
	}

	taken, err := h.accountTaken(req.Email, req.Phone)
	if err != nil {
		h.Logger.Error("signup lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "details": err.Error()})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "details": err.Error()})
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	if err := h.Storage.CreateUser(user); err != nil {
		h.Logger.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "details": err.Error()})
		return
	}

	h.Logger.Info("user signed up", zap.String("user_id", user.ID))
	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful"})
}

func (h *Handler) accountTaken(email, phone string) (bool, error) {
	if _, err := h.Storage.GetUserByEmail(email); err == nil {
		return true, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	if phone == "" {
		return false, nil
	}
	if _, err := h.Storage.GetUserByPhone(phone); err == nil {
		return true, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}
	return false, nil
}

// Login exchanges credentials for an access token and a chat token.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	user, err := h.Storage.GetUserByEmail(req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		h.Logger.Error("login lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	token, _, err := h.Tokens.Issue(user)
	if err != nil {
		h.Logger.Error("failed to issue access token", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var chatToken string
	if h.Chat != nil {
		if err := h.Chat.UpsertUser(c.Request.Context(), user.ID, user.Name); err != nil {
			h.Logger.Error("failed to upsert chat user", zap.String("user_id", user.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		chatToken, err = h.Chat.UserToken(user.ID)
		if err != nil {
			h.Logger.Error("failed to create chat token", zap.String("user_id", user.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		ChatToken: chatToken,
	})
}

// Signout revokes the presented access token for the rest of its lifetime.
func (h *Handler) Signout(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
		return
	}

	if err := h.Storage.RevokeToken(claims.ID, h.Tokens.Remaining(claims)); err != nil {
		h.Logger.Error("failed to revoke token", zap.String("user_id", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// ChatToken mints a hosted-chat token. Users may only request their own.
func (h *Handler) ChatToken(c *gin.Context) {
	if h.Chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Chat is not configured"})
		return
	}

	var req models.ChatTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	callerID := c.GetString(auth.ContextUserID)
	if req.UserID == "" {
		req.UserID = callerID
	}
	if req.UserID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	token, err := h.Chat.UserToken(req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
