// Package cache provides the optional cross-process invalidation channel.
// Each process keeps its own in-memory list cache; after a mutation the
// writer publishes on a redis channel so sibling processes drop theirs
// immediately instead of waiting out the TTL.
package cache

import (
	"context"
	"fmt"
	"time"

	"content-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	Client  *redis.Client
	channel string
}

func NewRedisClient(host, password string, db int, channel string) *RedisClient {
	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:         host,
			Password:     password,
			DB:           db,
			PoolSize:     10,
			MinIdleConns: 5,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		channel: channel,
	}
}

func (r *RedisClient) Connect(ctx context.Context) error {
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("redis: connected", map[string]interface{}{"channel": r.channel})
	return nil
}

// PublishInvalidation notifies sibling processes that their memory cache is
// stale. Failures are logged and swallowed: the snapshot file and the TTL
// still bound staleness without the channel.
func (r *RedisClient) PublishInvalidation(ctx context.Context) {
	if err := r.Client.Publish(ctx, r.channel, "invalidate").Err(); err != nil {
		logger.Warn("redis: invalidation publish failed", err)
	}
}

// Subscribe invokes onInvalidate for every invalidation published by a
// sibling process. Runs until ctx is cancelled.
func (r *RedisClient) Subscribe(ctx context.Context, onInvalidate func()) {
	sub := r.Client.Subscribe(ctx, r.channel)
	defer sub.Close()

	listen(ctx, sub.Channel(), onInvalidate)
}

// listen drains the subscription channel, firing the callback once per
// message. Returns when ctx is cancelled or the channel closes.
func listen(ctx context.Context, ch <-chan *redis.Message, onInvalidate func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			onInvalidate()
		}
	}
}

func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
