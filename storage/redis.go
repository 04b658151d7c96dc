package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eejihoon/scrappers/config"
	"github.com/eejihoon/scrappers/models"
)

// RedisSink publishes each accepted record as JSON on a Redis channel so
// downstream consumers see records as they are scraped rather than after
// the run completes.
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink connects to Redis and verifies the connection.
func NewRedisSink(cfg config.RedisConfig) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisSink{client: client, channel: cfg.Channel}, nil
}

func (s *RedisSink) Append(ctx context.Context, record *models.AdRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeSink, "marshal record", err)
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return models.NewScrapeError(models.ErrCodeSink, "redis publish failed", err)
	}
	return nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
