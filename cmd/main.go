package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"childguard/backend/internal/api/handler"
	"childguard/backend/internal/auth"
	"childguard/backend/internal/chat"
	"childguard/backend/internal/config"
	"childguard/backend/internal/feed"
	"childguard/backend/internal/laws"
	"childguard/backend/internal/logging"
	"childguard/backend/internal/notify"
	"childguard/backend/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to connect Redis", zap.Error(err))
	}

	if err := storage.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	logger.Info("database and redis connections established, migrations complete")
	return db, rdb
}

func setupNotifier(ctx context.Context, cfg *config.Config, s storage.Storage, logger *zap.Logger) notify.Notifier {
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == 0 {
		logger.Info("telegram alerts disabled")
		return notify.Nop{}
	}

	notifier, bot, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
	if err != nil {
		logger.Error("telegram alerts disabled", zap.Error(err))
		return notify.Nop{}
	}
	go notifier.Run(ctx)
	go notify.ListenCommands(ctx, bot, cfg.TelegramChatID, s, logger)
	return notifier
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, rdb := setupDependencies(ctx, cfg, logger)
	s := storage.NewStorageService(db, rdb, logger)

	hub := feed.NewHub(logger)
	go hub.Run(ctx)
	go hub.ListenPubSub(ctx, s.SubscribeReportFeed())

	var chatTokens handler.ChatTokens
	if cfg.ChatEnabled() {
		issuer, err := chat.NewTokenIssuer(cfg.StreamAPIKey, cfg.StreamAPISecret)
		if err != nil {
			logger.Fatal("failed to create chat client", zap.Error(err))
		}
		chatTokens = issuer
	} else {
		logger.Warn("STREAM_API_KEY/STREAM_API_SECRET not set, chat tokens disabled")
	}

	notifier := setupNotifier(ctx, cfg, s, logger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, config.AccessTokenTTL)
	h := handler.NewHandler(s, tokens, chatTokens, hub, notifier, laws.Default(), logger)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.GinLogger(logger), gin.Recovery(), handler.LimitBody(config.MaxBodyBytes))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	r.Use(cors.New(corsConfig))

	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("starting ChildGuard backend", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		logger.Warn("closing redis", zap.Error(err))
	}
}
