package storage

import (
	"childguard/backend/internal/models"

	"go.uber.org/zap"
)

func (s *Service) SaveArticle(article *models.Article) error {
	return s.DB.Save(article).Error
}

// ListArticles returns the article feed, newest first.
func (s *Service) ListArticles() ([]models.Article, error) {
	var articles []models.Article
	if err := s.DB.Order("created_at desc").Find(&articles).Error; err != nil {
		s.Logger.Error("failed to list articles", zap.Error(err))
		return nil, err
	}
	return articles, nil
}
