package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/journalbot/core/bootstrap"
	coreconfig "github.com/m3rciful/journalbot/core/config"
	coredatabase "github.com/m3rciful/journalbot/core/database"
	"github.com/m3rciful/journalbot/internal/catalog"
	"github.com/m3rciful/journalbot/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Telegram.Token = "123:test"
	cfg.Telegram.AdminIDs = []int64{42}
	cfg.Database = coredatabase.Config{
		Driver:        coredatabase.DriverSQLite,
		Path:          ":memory:",
		MigrationsDir: "../../migrations",
	}
	require.NoError(t, config.Normalize(cfg))
	return cfg
}

func quietBootstrap(ctx context.Context, opts bootstrap.Options) (*bootstrap.Result, error) {
	opts.LoggerInit = func(*coreconfig.Config) error { return nil }
	return bootstrap.Run(ctx, opts)
}

func TestBootstrapSeedsAndBuildsRunOptions(t *testing.T) {
	ctx := context.Background()
	a, err := Bootstrap(ctx, testConfig(t), Options{Bootstrap: quietBootstrap})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	subjects, err := a.Catalog.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Len(t, subjects, len(catalog.SeedSubjects))

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	assert.NotEmpty(t, opts.Routes)
	require.NotEmpty(t, opts.Middlewares)
	assert.Equal(t, "recover", opts.Middlewares[0].Name)
	assert.Equal(t, "users", opts.Middlewares[len(opts.Middlewares)-1].Name)

	_, cmd, ok := opts.Registry.LookupCommand("/admin")
	require.True(t, ok)
	assert.True(t, cmd.AdminOnly)
}

func TestRedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Sessions.Backend = config.SessionsRedis
	cfg.Sessions.Redis.Addr = mr.Addr()
	require.NoError(t, config.Normalize(cfg))

	a, err := Bootstrap(context.Background(), cfg, Options{Bootstrap: quietBootstrap})
	require.NoError(t, err)
	require.NotNil(t, a.redis)
	require.NoError(t, a.Close())
}

func TestRedisUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sessions.Backend = config.SessionsRedis
	cfg.Sessions.Redis.Addr = "127.0.0.1:1"
	require.NoError(t, config.Normalize(cfg))

	_, err := Bootstrap(context.Background(), cfg, Options{Bootstrap: quietBootstrap})
	assert.ErrorContains(t, err, "redis ping failed")
}

func TestLateBotBeforeStart(t *testing.T) {
	l := &lateBot{}
	_, err := l.ChatMemberOf(&tele.Chat{ID: 1}, &tele.User{ID: 2})
	assert.ErrorIs(t, err, errBotNotStarted)
}
