package storage

import (
	"childguard/backend/internal/config"
	"childguard/backend/internal/models"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokeToken blacklists an access token ID until it would have expired anyway.
func (s *Service) RevokeToken(tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.Redis.Set(s.Ctx, config.RevokedTokenPrefix+tokenID, "1", ttl).Err()
}

// IsTokenRevoked checks the blacklist in Redis.
func (s *Service) IsTokenRevoked(tokenID string) (bool, error) {
	_, err := s.Redis.Get(s.Ctx, config.RevokedTokenPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PublishReportNotice announces a new report to every backend instance.
func (s *Service) PublishReportNotice(notice models.ReportNotice) error {
	msgBytes, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, config.ReportFeedChannel, string(msgBytes)).Err()
}

// SubscribeReportFeed opens the pub/sub subscription consumed by the feed hub.
func (s *Service) SubscribeReportFeed() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.ReportFeedChannel)
}
