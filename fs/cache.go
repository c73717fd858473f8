// Package fs provides the file-based cache that backs the documentation mirror.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/dq"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Ensure Cache implements dq.Cache at compile time.
var _ dq.Cache = (*Cache)(nil)

// TempDirName is the directory under the cache root that holds files being
// written. Keeping it on the same filesystem as the cache makes the final
// rename atomic.
const TempDirName = ".tmp"

// Cache implements dq.Cache with atomic update semantics.
// Every write goes to a uniquely named temporary file which is then renamed
// over the destination.
type Cache struct {
	fs      afero.Fs
	root    string
	tempDir string
}

// Option configures a Cache.
type Option func(*Cache)

// WithFs sets the filesystem the cache operates on.
// Defaults to the operating system filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(c *Cache) {
		c.fs = fsys
	}
}

// WithTempDir sets the directory for temporary files.
// Defaults to root/.tmp.
func WithTempDir(dir string) Option {
	return func(c *Cache) {
		c.tempDir = dir
	}
}

// NewCache creates a new Cache rooted at root.
func NewCache(root string, opts ...Option) *Cache {
	c := &Cache{
		fs:      afero.NewOsFs(),
		root:    root,
		tempDir: filepath.Join(root, TempDirName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// Path returns the filesystem path of key.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.root, filepath.FromSlash(key))
}

// Exists reports whether a file is stored under key.
func (c *Cache) Exists(key string) bool {
	ok, err := afero.Exists(c.fs, c.Path(key))
	return err == nil && ok
}

// Read decodes the JSON file stored under key into v.
func (c *Cache) Read(ctx context.Context, key string, v any) error {
	data, err := c.ReadRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return dq.WrapError(dq.EPARSE, err, "parse %s", key)
	}
	return nil
}

// ReadRaw returns the bytes stored under key.
func (c *Cache) ReadRaw(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(c.fs, c.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, dq.Errorf(dq.ENOTFOUND, "cache entry %s not found", key)
	} else if err != nil {
		return nil, dq.WrapError(dq.EIO, err, "read %s", key)
	}
	return data, nil
}

// Write encodes v as indented JSON and stores it under key.
func (c *Cache) Write(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return dq.WrapError(dq.EINVALID, err, "encode %s", key)
	}
	return c.WriteRaw(ctx, key, data)
}

// WriteRaw stores data under key, creating parent directories as needed.
// Writing bytes identical to the stored ones leaves the file untouched.
func (c *Cache) WriteRaw(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dest := c.Path(key)
	if err := c.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return dq.WrapError(dq.EIO, err, "create directory for %s", key)
	}

	if c.unchanged(dest, data) {
		return nil
	}

	if err := c.fs.MkdirAll(c.tempDir, 0755); err != nil {
		return dq.WrapError(dq.EIO, err, "create temp directory")
	}

	tmp := filepath.Join(c.tempDir, "dq-cache-"+uuid.NewString()+".cache")
	if err := c.writeFile(tmp, data); err != nil {
		_ = c.fs.Remove(tmp)
		return dq.WrapError(dq.EIO, err, "write %s", key)
	}

	if err := c.fs.Rename(tmp, dest); err != nil {
		_ = c.fs.Remove(tmp)
		return dq.WrapError(dq.EIO, err, "rename %s", key)
	}

	return nil
}

// writeFile writes data to a file that must not exist yet.
func (c *Cache) writeFile(name string, data []byte) error {
	f, err := c.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// unchanged reports whether the file at path already holds data.
func (c *Cache) unchanged(path string, data []byte) bool {
	existing, err := afero.ReadFile(c.fs, path)
	if err != nil || len(existing) != len(data) {
		return false
	}
	return xxhash.Sum64(existing) == xxhash.Sum64(data)
}
