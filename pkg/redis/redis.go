package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/reelnote-backend/config"
	"github.com/ikkim/reelnote-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "reelnote:"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		_ = c.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	client = c
	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// Store is a key-value store over plain Redis strings.
// All keys are namespaced so several services can share one database.
type Store struct {
	client *redis.Client
}

func NewStore(c *redis.Client) *Store {
	return &Store{client: c}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		logger.Error("Failed to read key from Redis", err, map[string]interface{}{
			"key": key,
		})
		return nil, false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		logger.Error("Failed to write key to Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		logger.Error("Failed to delete key from Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
