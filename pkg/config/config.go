// Package config loads verification defaults from an optional YAML file,
// following the teacher's functional-options style for programmatic
// overrides on top of whatever the file provides.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/aptveritas/reposcan/pkg/hashverify"
)

// Config holds the defaults a verification or scrape run starts from.
type Config struct {
	Mode       hashverify.Mode `yaml:"mode"`
	Timeout    time.Duration   `yaml:"timeout"`
	CacheDir   string          `yaml:"cache_dir"`
	Flat       bool            `yaml:"flat"`
	PublicKey  string          `yaml:"public_key"`
}

// Default returns the built-in defaults used when no config file is given.
func Default() Config {
	return Config{
		Mode:    hashverify.ModeStrict,
		Timeout: 30 * time.Second,
	}
}

// Option overrides a field of Config programmatically, after the file (if
// any) has been loaded, mirroring the teacher's apt.MountOption style.
type Option func(*Config)

// WithMode overrides the verification mode.
func WithMode(mode hashverify.Mode) Option {
	return func(c *Config) { c.Mode = mode }
}

// WithTimeout overrides the HTTP fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithCacheDir overrides the on-disk cache directory hint carried in
// config (the fetcher itself is in-memory only; CacheDir is surfaced for
// callers that want to locate a sibling key file or fixture relative to
// it).
func WithCacheDir(dir string) Option {
	return func(c *Config) { c.CacheDir = dir }
}

// WithFlat overrides the flat-repository flag.
func WithFlat(flat bool) Option {
	return func(c *Config) { c.Flat = flat }
}

// WithPublicKey overrides the trusted public key path.
func WithPublicKey(path string) Option {
	return func(c *Config) { c.PublicKey = path }
}

// Load reads a YAML config file from path, applies opts on top, and
// validates the resulting mode. An empty path returns Default with opts
// applied.
func Load(path string, opts ...Option) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("opening config file %s: %w", path, err)
		}
		defer f.Close()

		if err := decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := hashverify.ParseMode(string(cfg.Mode)); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	return yaml.NewDecoder(r).Decode(cfg)
}
