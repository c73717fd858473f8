package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dq"
)

// Ensure LoggingCache implements dq.Cache.
var _ dq.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with logging. JSON values are logged at info
// level and raw page bodies, which are far more numerous, at debug level.
type LoggingCache struct {
	next   dq.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next dq.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Exists delegates to the wrapped cache.
func (c *LoggingCache) Exists(key string) bool {
	return c.next.Exists(key)
}

// Path delegates to the wrapped cache.
func (c *LoggingCache) Path(key string) string {
	return c.next.Path(key)
}

// Read delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) Read(ctx context.Context, key string, v any) (err error) {
	defer func(begin time.Time) {
		c.logger.Info("cache read",
			"key", key,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Read(ctx, key, v)
}

// ReadRaw delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) ReadRaw(ctx context.Context, key string) (data []byte, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache read",
			"key", key,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.ReadRaw(ctx, key)
}

// Write delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) Write(ctx context.Context, key string, v any) (err error) {
	defer func(begin time.Time) {
		c.logger.Info("cache write",
			"key", key,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Write(ctx, key, v)
}

// WriteRaw delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) WriteRaw(ctx context.Context, key string, data []byte) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache write",
			"key", key,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.WriteRaw(ctx, key, data)
}
