// Package config loads the settings of the marc command from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/davidvella/marc"
	"github.com/davidvella/marc/decode"
	"github.com/davidvella/marc/store/pebble"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the file layout of the command settings.
type Config struct {
	UTF8Handling     decode.Handling `yaml:"utf8_handling"`
	HideUTF8Warnings bool            `yaml:"hide_utf8_warnings"`
	LogLevel         string          `yaml:"log_level"`
	Store            StoreConfig     `yaml:"store"`
	Watch            WatchConfig     `yaml:"watch"`
}

type StoreConfig struct {
	Path         string `yaml:"path"`
	CacheSize    int64  `yaml:"cache_size"`
	MaxOpenFiles int    `yaml:"max_open_files"`
	Sync         bool   `yaml:"sync"`
}

type WatchConfig struct {
	Inbox          string        `yaml:"inbox"`
	Done           string        `yaml:"done"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	MaxConcurrency int           `yaml:"max_concurrency"`
	Extensions     []string      `yaml:"extensions"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		UTF8Handling: decode.Strict,
		LogLevel:     logrus.InfoLevel.String(),
		Watch: WatchConfig{
			PollInterval:   5 * time.Second,
			MaxConcurrency: 4,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate reports settings that cannot be applied.
func (c Config) Validate() error {
	var errs []error
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Watch.PollInterval < 0 {
		errs = append(errs, fmt.Errorf("negative poll interval %s", c.Watch.PollInterval))
	}
	if c.Watch.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("negative max concurrency %d", c.Watch.MaxConcurrency))
	}
	if c.Store.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("negative cache size %d", c.Store.CacheSize))
	}
	return errors.Join(errs...)
}

// Policy returns the decode policy the settings describe.
func (c Config) Policy() decode.Policy {
	return decode.Policy{Handling: c.UTF8Handling, HideWarnings: c.HideUTF8Warnings}
}

// ReaderOptions returns the reader options the settings describe.
func (c Config) ReaderOptions(logger logrus.FieldLogger) []marc.Option {
	return []marc.Option{marc.WithPolicy(c.Policy()), marc.WithLogger(logger)}
}

// StorageOptions returns the pebble options for the store path, which may be
// overridden by dir.
func (c Config) StorageOptions(dir string) pebble.StorageOptions {
	if dir == "" {
		dir = c.Store.Path
	}
	opts := pebble.DefaultStorageOptions(expandPath(dir))
	if c.Store.CacheSize > 0 {
		opts.CacheSize = c.Store.CacheSize
	}
	if c.Store.MaxOpenFiles > 0 {
		opts.MaxOpenFiles = c.Store.MaxOpenFiles
	}
	opts.Sync = c.Store.Sync
	return opts
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return home + path[1:]
		}
	}
	return path
}
