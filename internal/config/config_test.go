package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coredatabase "github.com/m3rciful/journalbot/core/database"
	"github.com/m3rciful/journalbot/internal/subscription"
)

const sample = `
telegram:
  token: "123:abc"
  admin_ids: [11, 22]
database:
  driver: sqlite
  path: test.db
catalog:
  page_size: 5
subscription:
  channels:
    - name: Jurnal Universal
      username: "@jurnal_universal"
    - username: oakjurnallariuz
sessions:
  backend: redis
  redis:
    addr: localhost:6379
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.True(t, cfg.CoreConfig().IsAdmin(22))
	assert.Equal(t, "longpoll", cfg.Telegram.RunMode)
	assert.Equal(t, coredatabase.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 1, cfg.Database.MaxConnections)
	assert.Equal(t, 5, cfg.Catalog.PageSize)
	require.Len(t, cfg.Subscription.Channels, 2)
	assert.Equal(t, "@oakjurnallariuz", cfg.Subscription.Channels[1].Name)
	assert.Equal(t, "https://t.me/oakjurnallariuz", cfg.Subscription.Channels[1].Link())
	assert.Equal(t, SessionsRedis, cfg.Sessions.Backend)
	assert.Equal(t, "journalbot:session:", cfg.Sessions.Redis.Prefix)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.Redis.TTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "999:env")
	t.Setenv("ADMINS", "7,8")
	t.Setenv("CATALOG_PAGE_SIZE", "12")
	t.Setenv("SESSIONS_BACKEND", "memory")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "999:env", cfg.Telegram.Token)
	assert.Equal(t, []int64{7, 8}, cfg.Telegram.AdminIDs)
	assert.Equal(t, 12, cfg.Catalog.PageSize)
	assert.Equal(t, SessionsMemory, cfg.Sessions.Backend)
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "1:x"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, 8, cfg.Catalog.PageSize)
	assert.Equal(t, SessionsMemory, cfg.Sessions.Backend)
	assert.Equal(t, "journals.db", cfg.Database.Path)
}

func TestNormalizeErrors(t *testing.T) {
	cases := map[string]func(*Config){
		"no token":      func(c *Config) { c.Telegram.Token = "" },
		"bad backend":   func(c *Config) { c.Sessions.Backend = "memcached" },
		"redis no addr": func(c *Config) { c.Sessions.Backend = "redis" },
		"negative page": func(c *Config) { c.Catalog.PageSize = -1 },
		"bad driver":    func(c *Config) { c.Database.Driver = "mysql" },
		"channel no user": func(c *Config) {
			c.Subscription.Channels = []subscription.Channel{{Name: "x"}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Telegram.Token = "1:x"
			mutate(cfg)
			assert.Error(t, Normalize(cfg))
		})
	}
}
