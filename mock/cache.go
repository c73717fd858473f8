package mock

import (
	"context"

	"github.com/fwojciec/dq"
)

var _ dq.Cache = (*Cache)(nil)

// Cache is a mock implementation of dq.Cache.
type Cache struct {
	ExistsFn   func(key string) bool
	ReadFn     func(ctx context.Context, key string, v any) error
	ReadRawFn  func(ctx context.Context, key string) ([]byte, error)
	WriteFn    func(ctx context.Context, key string, v any) error
	WriteRawFn func(ctx context.Context, key string, data []byte) error
	PathFn     func(key string) string
}

func (c *Cache) Exists(key string) bool {
	return c.ExistsFn(key)
}

func (c *Cache) Read(ctx context.Context, key string, v any) error {
	return c.ReadFn(ctx, key, v)
}

func (c *Cache) ReadRaw(ctx context.Context, key string) ([]byte, error) {
	return c.ReadRawFn(ctx, key)
}

func (c *Cache) Write(ctx context.Context, key string, v any) error {
	return c.WriteFn(ctx, key, v)
}

func (c *Cache) WriteRaw(ctx context.Context, key string, data []byte) error {
	return c.WriteRawFn(ctx, key, data)
}

func (c *Cache) Path(key string) string {
	return c.PathFn(key)
}
