package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tdv-tracker/internal/config"
	"github.com/yourusername/tdv-tracker/internal/models"
)

// redisKey is the single key holding the whole record as a JSON blob.
const redisKey = "sorties-data"

// RedisStore persists the record as one JSON value in Redis.
type RedisStore struct {
	client *redis.Client
	log    *logrus.Logger
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(cfg *config.RedisConfig, log *logrus.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{client: client, log: log}
}

// Read fetches the blob. An empty database is seeded with the default record
// on first read so later mutations have a base to work from.
func (s *RedisStore) Read(ctx context.Context) (*models.SortiesData, error) {
	raw, err := s.client.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		seed := models.DefaultData()
		if err := s.Write(ctx, seed); err != nil {
			return nil, fmt.Errorf("failed to seed empty store: %w", err)
		}
		s.log.WithField("key", redisKey).Info("Seeded empty redis store with default record")
		return seed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", redisKey, err)
	}

	data := &models.SortiesData{}
	if err := json.Unmarshal([]byte(raw), data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", redisKey, err)
	}
	return data, nil
}

// Write persists the full record as JSON.
func (s *RedisStore) Write(ctx context.Context, data *models.SortiesData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.client.Set(ctx, redisKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", redisKey, err)
	}
	return nil
}

// Ping verifies connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
