// Package redis provides the Redis connection, the athlete cache and the
// token blacklist.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
)

// keyPrefix namespaces the keys this service owns.
const keyPrefix = "baloncesto:"

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = errors.New("cache miss")

// Client is the Redis connection. Keys passed to Get, Set and Delete are
// namespaced under keyPrefix; Exists reads foreign keys as given.
type Client struct {
	client *redis.Client
	prefix string
}

// NewClient connects and pings Redis.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     poolSize,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if cfg.SlowThreshold > 0 {
		client.AddHook(slowCommandHook{threshold: cfg.SlowThreshold})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{client: client, prefix: keyPrefix}, nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping is the readiness check for Redis.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get reads a namespaced key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return value, err
}

// Set writes a namespaced key with a TTL.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes namespaced keys in one round trip.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.prefix + k
	}
	return c.client.Del(ctx, prefixed...).Err()
}

// Exists reports whether a key outside this service's namespace exists.
func (c *Client) Exists(ctx context.Context, rawKey string) (bool, error) {
	n, err := c.client.Exists(ctx, rawKey).Result()
	return n > 0, err
}

// slowCommandHook logs commands slower than threshold.
type slowCommandHook struct {
	threshold time.Duration
}

func (h slowCommandHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h slowCommandHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		if elapsed := time.Since(start); elapsed > h.threshold {
			log.Warn().Str("command", cmd.Name()).Dur("duration", elapsed).Msg("Slow Redis command")
		}
		return err
	}
}

func (h slowCommandHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}
