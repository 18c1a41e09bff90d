// Package config loads the journal bot configuration: the shared core settings
// plus the database, catalog, subscription and session sections.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/journalbot/core/config"
	coredatabase "github.com/m3rciful/journalbot/core/database"
	"github.com/m3rciful/journalbot/internal/catalog"
	"github.com/m3rciful/journalbot/internal/subscription"
)

const (
	SessionsMemory = "memory"
	SessionsRedis  = "redis"
)

// CatalogConfig tunes the browser.
type CatalogConfig struct {
	PageSize int `yaml:"page_size" envconfig:"CATALOG_PAGE_SIZE"`
}

// SubscriptionConfig lists the channels a user must join before browsing.
// An empty list disables the gate.
type SubscriptionConfig struct {
	Channels []subscription.Channel `yaml:"channels"`
}

// SessionsConfig selects where admin wizard sessions live.
type SessionsConfig struct {
	Backend string `yaml:"backend" envconfig:"SESSIONS_BACKEND"`
	Redis   struct {
		Addr     string        `yaml:"addr" envconfig:"REDIS_ADDR"`
		Password string        `yaml:"password" envconfig:"REDIS_PASSWORD"`
		DB       int           `yaml:"db" envconfig:"REDIS_DB"`
		Prefix   string        `yaml:"prefix" envconfig:"REDIS_PREFIX"`
		TTL      time.Duration `yaml:"ttl" envconfig:"REDIS_SESSION_TTL"`
	} `yaml:"redis"`
}

// Config is the full bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database     coredatabase.Config `yaml:"database"`
	Catalog      CatalogConfig       `yaml:"catalog"`
	Subscription SubscriptionConfig  `yaml:"subscription"`
	Sessions     SessionsConfig      `yaml:"sessions"`
}

// CoreConfig exposes the embedded core section to the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads .env (when present), the YAML file at path, then the environment.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the bot sections and fills defaults, after the core ones.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}
	if err := cfg.Database.Normalize(); err != nil {
		return err
	}

	if cfg.Catalog.PageSize < 0 {
		return fmt.Errorf("catalog.page_size must be >= 0")
	}
	if cfg.Catalog.PageSize == 0 {
		cfg.Catalog.PageSize = catalog.DefaultPageSize
	}

	for i, ch := range cfg.Subscription.Channels {
		if strings.TrimSpace(ch.Username) == "" {
			return fmt.Errorf("subscription.channels[%d].username is required", i)
		}
		if strings.TrimSpace(ch.Name) == "" {
			cfg.Subscription.Channels[i].Name = ch.Handle()
		}
	}

	s := &cfg.Sessions
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	switch s.Backend {
	case "":
		s.Backend = SessionsMemory
	case SessionsMemory:
	case SessionsRedis:
		if strings.TrimSpace(s.Redis.Addr) == "" {
			return fmt.Errorf("sessions.redis.addr is required when sessions.backend is 'redis'")
		}
		if s.Redis.Prefix == "" {
			s.Redis.Prefix = "journalbot:session:"
		}
		if s.Redis.TTL < 0 {
			return fmt.Errorf("sessions.redis.ttl must be >= 0")
		}
		if s.Redis.TTL == 0 {
			s.Redis.TTL = 24 * time.Hour
		}
	default:
		return fmt.Errorf("invalid sessions.backend %q; allowed: memory, redis", s.Backend)
	}
	return nil
}
