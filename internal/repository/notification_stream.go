package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/complaint-desk/internal/config"
	"github.com/spec-kit/complaint-desk/internal/domain"
)

// StreamClient is the subset of *redis.Client used by NotificationStream.
type StreamClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
}

// NotificationStream publishes notifications on a Redis channel and keeps the
// most recent ones in a capped list.
type NotificationStream struct {
	client  StreamClient
	channel string
	listKey string
	length  int64
}

// NewNotificationStream builds the stream sink.
func NewNotificationStream(client StreamClient, cfg config.RedisConfig) *NotificationStream {
	return &NotificationStream{
		client:  client,
		channel: cfg.Channel,
		listKey: cfg.ListKey,
		length:  cfg.ListLength,
	}
}

func (s *NotificationStream) Name() string { return "redis_stream" }

// Deliver pushes req to the list and then publishes it.
func (s *NotificationStream) Deliver(ctx context.Context, req domain.NotificationRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	if s.listKey != "" {
		if err := s.client.LPush(ctx, s.listKey, payload).Err(); err != nil {
			return fmt.Errorf("push notification: %w", err)
		}
		if s.length > 0 {
			if err := s.client.LTrim(ctx, s.listKey, 0, s.length-1).Err(); err != nil {
				return fmt.Errorf("trim notification list: %w", err)
			}
		}
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
