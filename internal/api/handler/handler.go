// Package handler implements the REST and websocket surface of the backend.
package handler

import (
	"context"
	"net/http"

	"childguard/backend/internal/auth"
	"childguard/backend/internal/feed"
	"childguard/backend/internal/laws"
	"childguard/backend/internal/notify"
	"childguard/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatTokens registers users with the hosted chat service and mints their
// tokens. Nil disables chat.
type ChatTokens interface {
	UpsertUser(ctx context.Context, userID, name string) error
	UserToken(userID string) (string, error)
}

// Handler holds the dependencies shared by every route.
type Handler struct {
	Storage  storage.Storage
	Tokens   *auth.TokenManager
	Chat     ChatTokens
	Hub      *feed.Hub
	Notifier notify.Notifier
	Laws     *laws.Table
	Logger   *zap.Logger
}

func NewHandler(s storage.Storage, tokens *auth.TokenManager, chat ChatTokens, hub *feed.Hub, notifier notify.Notifier, lawTable *laws.Table, logger *zap.Logger) *Handler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if lawTable == nil {
		lawTable = laws.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Storage:  s,
		Tokens:   tokens,
		Chat:     chat,
		Hub:      hub,
		Notifier: notifier,
		Laws:     lawTable,
		Logger:   logger,
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Health)
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)

	api := r.Group("/api")
	{
		api.POST("/reports", h.CreateReport)
		api.GET("/articles", h.ListArticles)
		api.GET("/resources", h.ListResources)
		api.GET("/laws", h.ListLaws)
		api.POST("/locate", h.Locate)
	}

	authed := r.Group("/", auth.AccessTokenMiddleware(h.Tokens, h.Storage))
	{
		authed.POST("/signout", h.Signout)
		authed.POST("/chat/token", h.ChatToken)
		authed.GET("/api/users", h.ListUsers)
		authed.GET("/api/users/:id", h.GetUser)
		authed.POST("/api/users/:id/avatar", h.UpdateAvatar)
	}

	admin := authed.Group("/", auth.AdminMiddleware())
	{
		admin.GET("/api/reports", h.ListReports)
		admin.GET("/ws/reports", h.ServeReportFeed)
	}
}

// Health answers the liveness check.
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "Backend is running!")
}

// LimitBody caps request bodies at n bytes.
func LimitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
