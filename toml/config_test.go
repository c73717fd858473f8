package toml_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/dq"
	"github.com/fwojciec/dq/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := toml.Default()

	assert.True(t, cfg.Progress)
	assert.Equal(t, "dq", filepath.Base(cfg.CacheDir))
	assert.Equal(t, 24*time.Hour, cfg.TTL())
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, 4, cfg.UnpackLimit)
	assert.Equal(t, "https://devdocs.io", cfg.MetaURL)
	assert.Equal(t, "https://documents.devdocs.io", cfg.DocumentsURL)
	assert.Equal(t, toml.Duration(5*time.Minute), cfg.Timeout)
	assert.Zero(t, cfg.RequestsPerSecond)
	assert.NoError(t, cfg.Validate())
}

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("overrides defaults with file values", func(t *testing.T) {
		t.Parallel()

		cfg, err := toml.Read(strings.NewReader(`
cache_dir = "/var/cache/dq"
progress = false
update_interval = 3600
limit = 2
timeout = "90s"
requests_per_second = 2.5
`))

		require.NoError(t, err)
		assert.Equal(t, "/var/cache/dq", cfg.CacheDir)
		assert.False(t, cfg.Progress)
		assert.Equal(t, time.Hour, cfg.TTL())
		assert.Equal(t, 2, cfg.Limit)
		assert.Equal(t, 4, cfg.UnpackLimit)
		assert.Equal(t, toml.Duration(90*time.Second), cfg.Timeout)
		assert.InDelta(t, 2.5, cfg.RequestsPerSecond, 0.0001)
	})

	t.Run("empty file gives defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := toml.Read(strings.NewReader(""))

		require.NoError(t, err)
		assert.Equal(t, toml.Default(), cfg)
	})

	t.Run("expands the home directory", func(t *testing.T) {
		t.Parallel()

		home, err := os.UserHomeDir()
		require.NoError(t, err)

		cfg, err := toml.Read(strings.NewReader(`cache_dir = "~/docs"`))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "docs"), cfg.CacheDir)
	})

	t.Run("malformed file is a parse error", func(t *testing.T) {
		t.Parallel()

		_, err := toml.Read(strings.NewReader(`limit = `))

		assert.Equal(t, dq.EPARSE, dq.ErrorCode(err))
	})

	t.Run("bad duration is a parse error", func(t *testing.T) {
		t.Parallel()

		_, err := toml.Read(strings.NewReader(`timeout = "soon"`))

		assert.Equal(t, dq.EPARSE, dq.ErrorCode(err))
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := toml.Read(strings.NewReader(`limt = 3`))

		assert.Equal(t, dq.EINVALID, dq.ErrorCode(err))
		assert.Contains(t, dq.ErrorMessage(err), "limt")
	})

	t.Run("out of range value is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := toml.Read(strings.NewReader(`limit = 0`))

		assert.Equal(t, dq.EINVALID, dq.ErrorCode(err))
	})
}

func TestWrite(t *testing.T) {
	t.Parallel()

	cfg := toml.Default()
	cfg.CacheDir = "/tmp/dq"
	cfg.Limit = 8
	cfg.Timeout = toml.Duration(time.Minute)

	var buf bytes.Buffer
	require.NoError(t, toml.Write(&buf, cfg))
	assert.Contains(t, buf.String(), `timeout = "1m0s"`)

	got, err := toml.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file gives defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := toml.ReadFile(filepath.Join(t.TempDir(), "config.toml"))

		require.NoError(t, err)
		assert.Equal(t, toml.Default(), cfg)
	})

	t.Run("reads the file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("limit = 9\n"), 0o644))

		cfg, err := toml.ReadFile(path)

		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Limit)
	})

	t.Run("names the file in errors", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("limit = ["), 0o644))

		_, err := toml.ReadFile(path)

		assert.Equal(t, dq.EPARSE, dq.ErrorCode(err))
		assert.Contains(t, dq.ErrorMessage(err), path)
	})
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	path := toml.DefaultPath()

	assert.Equal(t, "config.toml", filepath.Base(path))
	assert.Equal(t, "dq", filepath.Base(filepath.Dir(path)))
}
