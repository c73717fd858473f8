// Package toml loads the dq configuration file.
package toml

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/dq"
)

// Defaults applied before a configuration file is decoded.
const (
	DefaultUpdateInterval = 86400
	DefaultLimit          = 5
	DefaultUnpackLimit    = 4
	DefaultMetaURL        = "https://devdocs.io"
	DefaultDocumentsURL   = "https://documents.devdocs.io"
	DefaultTimeout        = 5 * time.Minute
)

// Config holds the settings read from config.toml.
type Config struct {
	CacheDir          string   `toml:"cache_dir"`
	Progress          bool     `toml:"progress"`
	UpdateInterval    int64    `toml:"update_interval"` // seconds
	Limit             int      `toml:"limit"`
	UnpackLimit       int      `toml:"unpack_limit"`
	MetaURL           string   `toml:"meta_url"`
	DocumentsURL      string   `toml:"documents_url"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"` // 0 disables limiting
}

// Duration is a time.Duration written as a string such as "90s" or "5m".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		CacheDir:       defaultCacheDir(),
		Progress:       true,
		UpdateInterval: DefaultUpdateInterval,
		Limit:          DefaultLimit,
		UnpackLimit:    DefaultUnpackLimit,
		MetaURL:        DefaultMetaURL,
		DocumentsURL:   DefaultDocumentsURL,
		Timeout:        Duration(DefaultTimeout),
	}
}

// TTL returns the update interval as a duration.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.UpdateInterval) * time.Second
}

// Validate returns an error if a setting is out of range.
func (c *Config) Validate() error {
	switch {
	case c.CacheDir == "":
		return dq.Errorf(dq.EINVALID, "cache_dir required")
	case c.UpdateInterval < 0:
		return dq.Errorf(dq.EINVALID, "update_interval must not be negative")
	case c.Limit < 1:
		return dq.Errorf(dq.EINVALID, "limit must be at least 1")
	case c.UnpackLimit < 1:
		return dq.Errorf(dq.EINVALID, "unpack_limit must be at least 1")
	case c.Timeout < 0:
		return dq.Errorf(dq.EINVALID, "timeout must not be negative")
	case c.RequestsPerSecond < 0:
		return dq.Errorf(dq.EINVALID, "requests_per_second must not be negative")
	}
	return nil
}

// Read decodes a configuration from r on top of the defaults.
// Unknown keys are rejected so that typos do not go unnoticed.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, dq.WrapError(dq.EPARSE, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, dq.Errorf(dq.EINVALID, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.CacheDir = expandHome(cfg.CacheDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return dq.WrapError(dq.EINTERNAL, err, "encode config")
	}
	return nil
}

// ReadFile reads the configuration at path. A missing file yields the
// defaults.
func ReadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return nil, dq.WrapError(dq.EIO, err, "open config %s", path)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, dq.WrapError(dq.ErrorCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/dq/config.toml or its platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".dq", "config.toml")
	}
	return filepath.Join(dir, "dq", "config.toml")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "dq")
	}
	return filepath.Join(dir, "dq")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
