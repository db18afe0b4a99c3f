package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/emporium-backend/config"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const revokedValue = "revoked"

// TokenStore records revoked access tokens until they would have expired anyway.
type TokenStore struct {
	client *redis.Client
}

// Connect dials Redis and verifies the connection with a PING
func Connect(ctx context.Context, cfg config.RedisConfig) (*TokenStore, error) {
	logger.Info("Initializing Redis connection", logger.Fields{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, logger.Fields{"addr": cfg.Addr})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return &TokenStore{client: client}, nil
}

// NewTokenStore wraps an existing client
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func revocationKey(tokenID string) string {
	return "blacklist:" + tokenID
}

// Revoke marks tokenID as revoked for ttl. A non-positive ttl is a no-op.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	logger.Debug("Adding token to blacklist", logger.Fields{"expiry": ttl.String()})

	if err := s.client.Set(ctx, revocationKey(tokenID), revokedValue, ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err)
		return err
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	val, err := s.client.Get(ctx, revocationKey(tokenID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err)
		return false, err
	}
	return val == revokedValue, nil
}

func (s *TokenStore) Close() error {
	logger.Info("Closing Redis connection")
	return s.client.Close()
}
