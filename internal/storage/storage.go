// Package storage persists users, reports and articles in PostgreSQL through
// gorm and keeps short-lived state (revoked tokens, report feed) in Redis.
package storage

import (
	"childguard/backend/internal/models"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

type Storage interface {
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	ListUsers() ([]models.User, error)
	UpdateUserAvatar(id, avatar string) error
	UpdateUserRole(id, role string) error

	SaveReport(report *models.Report) error
	GetReportByID(id string) (*models.Report, error)
	ListReports(limit, offset int) ([]models.Report, error)
	CountReportsByCategory() (map[string]int64, error)

	SaveArticle(article *models.Article) error
	ListArticles() ([]models.Article, error)

	RevokeToken(tokenID string, ttl time.Duration) error
	IsTokenRevoked(tokenID string) (bool, error)
	PublishReportNotice(notice models.ReportNotice) error
}

// Service implements Storage. Redis may be nil for tools that only touch the
// database (the admin CLI).
type Service struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Ctx    context.Context
	Logger *zap.Logger
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		DB:     db,
		Redis:  rdb,
		Ctx:    context.Background(),
		Logger: logger,
	}
}

// AutoMigrate creates or updates the tables for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Report{},
		&models.Article{},
	)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
