package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{Telegram: TelegramConfig{Token: "123:abc", AdminIDs: []int64{7}}}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = " Polling "
	cfg.RateLimit.ExcludeUpdates = []string{" Callback", "", "MESSAGE"}

	require.NoError(t, Normalize(&cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, []string{UpdateCallback, UpdateMessage}, cfg.RateLimit.ExcludeUpdates)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 10*time.Second, cfg.Telegram.PollTimeout())
	assert.Zero(t, cfg.RateLimit.Interval())
}

func TestNormalizeErrors(t *testing.T) {
	cases := map[string]func(*Config){
		"missing token":    func(c *Config) { c.Telegram.Token = " " },
		"negative admin":   func(c *Config) { c.Telegram.AdminIDs = []int64{-1} },
		"bad run mode":     func(c *Config) { c.Telegram.RunMode = "push" },
		"negative timeout": func(c *Config) { c.Telegram.LongPollTimeoutSeconds = -1 },
		"webhook no url":   func(c *Config) { c.Telegram.RunMode = RunModeWebhook },
		"webhook no port": func(c *Config) {
			c.Telegram.RunMode = RunModeWebhook
			c.Webhook = WebhookConfig{URL: "https://x", Listen: "0.0.0.0"}
		},
		"bad exclusion":  func(c *Config) { c.RateLimit.ExcludeUpdates = []string{"poll"} },
		"negative limit": func(c *Config) { c.RateLimit.IntervalMS = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.Error(t, Normalize(&cfg))
		})
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsAdmin(7))
	assert.False(t, cfg.IsAdmin(8))
	assert.False(t, cfg.IsAdmin(0))
	var nilCfg *Config
	assert.False(t, nilCfg.IsAdmin(7))
}

func TestHelpers(t *testing.T) {
	w := WebhookConfig{Listen: "0.0.0.0", Port: 8443}
	assert.Equal(t, "0.0.0.0:8443", w.Addr())

	rl := RateLimitConfig{IntervalMS: 250, ExcludeUpdates: []string{"Callback"}}
	assert.Equal(t, 250*time.Millisecond, rl.Interval())
	assert.Contains(t, rl.Excluded(), UpdateCallback)

	tg := TelegramConfig{LongPollTimeoutSeconds: 30}
	assert.Equal(t, 30*time.Second, tg.PollTimeout())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "telegram:\n  token: \"1:x\"\n  run_mode: webhook\nwebhook:\n  url: https://bot.example.org/hook\n  listen: 127.0.0.1\n  port: 8443\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("RATE_LIMIT_INTERVAL_MS", "400")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RunModeWebhook, cfg.Telegram.RunMode)
	assert.Equal(t, 400*time.Millisecond, cfg.RateLimit.Interval())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
