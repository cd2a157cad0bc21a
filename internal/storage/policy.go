package storage

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"campusdesk/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	blockedIPKeyPrefix = "blocked_ip:"
	submitCountPrefix  = "submit_count:"
	revokedTokenPrefix = "revoked_token:"

	// EventsChannel is the Redis pub/sub channel lifecycle events fan out on.
	EventsChannel = "complaints:events"
)

// GetRateLimitConfig returns the newest config row, or nil when none has
// been set and built-in defaults apply. A disabled row turns limiting off.
func (s *Service) GetRateLimitConfig() (*models.RateLimitConfig, error) {
	var cfg models.RateLimitConfig
	err := s.DB.Order("updated_at DESC").First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Service) SaveRateLimitConfig(cfg *models.RateLimitConfig) error {
	return s.DB.Save(cfg).Error
}

// BlockIP stores the block and mirrors it into Redis so the submit path
// checks a single key lookup instead of a table scan.
func (s *Service) BlockIP(block *models.BlockedIP) error {
	if err := s.DB.Create(block).Error; err != nil {
		return err
	}
	ttl := time.Duration(0) // no expiry
	if block.ExpiresAt != nil {
		ttl = time.Until(*block.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}
	if err := s.Redis.Set(s.Ctx, blockedIPKeyPrefix+block.IP, block.Reason, ttl).Err(); err != nil {
		log.Printf("WARNING: Failed to cache IP block for %s: %v", block.IP, err)
	}
	return nil
}

func (s *Service) UnblockIP(ip string) error {
	if err := s.DB.Where("ip = ?", ip).Delete(&models.BlockedIP{}).Error; err != nil {
		return err
	}
	if err := s.Redis.Del(s.Ctx, blockedIPKeyPrefix+ip).Err(); err != nil {
		log.Printf("WARNING: Failed to drop cached IP block for %s: %v", ip, err)
	}
	return nil
}

func (s *Service) ListBlockedIPs() ([]models.BlockedIP, error) {
	var blocks []models.BlockedIP
	if err := s.DB.Order("created_at DESC").Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// IsIPBlocked checks the Redis mirror first and falls back to the table when
// the key is absent, so blocks survive a cache flush.
func (s *Service) IsIPBlocked(ip string) (bool, error) {
	_, err := s.Redis.Get(s.Ctx, blockedIPKeyPrefix+ip).Result()
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, redis.Nil) {
		return false, err
	}

	var count int64
	dbErr := s.DB.Model(&models.BlockedIP{}).
		Where("ip = ? AND (expires_at IS NULL OR expires_at > NOW())", ip).
		Count(&count).Error
	if dbErr != nil {
		return false, dbErr
	}
	return count > 0, nil
}

// IncrSubmitCount bumps the fixed-window submission counter for an IP and
// returns the new count. The window TTL is set on first increment.
func (s *Service) IncrSubmitCount(ip string, window time.Duration) (int64, error) {
	key := submitCountPrefix + ip
	count, err := s.Redis.Incr(s.Ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.Redis.Expire(s.Ctx, key, window).Err(); err != nil {
			log.Printf("WARNING: Failed to set rate-limit window for %s: %v", ip, err)
		}
	}
	return count, nil
}

// RevokeToken blacklists a token ID until its natural expiry. Used by the
// access gate to force sign-out on denied sessions.
func (s *Service) RevokeToken(tokenID string, ttl time.Duration) error {
	return s.Redis.Set(s.Ctx, revokedTokenPrefix+tokenID, "revoked", ttl).Err()
}

func (s *Service) IsTokenRevoked(tokenID string) (bool, error) {
	_, err := s.Redis.Get(s.Ctx, revokedTokenPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PublishEvent pushes a lifecycle event onto the broadcast channel.
func (s *Service) PublishEvent(event models.LifecycleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, EventsChannel, string(payload)).Err()
}

// SubscribeEvents opens the pub/sub subscription the live hub consumes.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, EventsChannel)
}
