// Package cache provides Redis-backed read caching for listing and profile
// snapshots. All helpers tolerate a nil client: when Redis is not configured
// or unreachable, reads fall through to the database and writes are dropped.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"boardswap/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// metricsHook feeds command failures into the Redis error counter. Cache
// misses (redis.Nil) are not errors.
type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// parseRedisAddr accepts either a bare host:port or a full redis:// URL.
func parseRedisAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// InitRedis connects the package-level client to the given address. A failed
// connection leaves the client nil and the service running uncached.
func InitRedis(addr string) {
	opts, err := parseRedisAddr(addr)
	if err != nil {
		slog.Warn("invalid REDIS_URL, continuing without cache", "addr", addr, "error", err)
		client = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable, continuing without cache", "error", err)
		client = nil
		return
	}

	slog.Info("redis connected", "addr", opts.Addr)
	client = c
}

// SetClient replaces the Redis client. Used by tests to inject miniredis.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}
