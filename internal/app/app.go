// Package app wires the stores, the subscription gate and the handlers into
// the telegram runtime.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/journalbot/core/bootstrap"
	"github.com/m3rciful/journalbot/core/logger"
	tg "github.com/m3rciful/journalbot/core/telegram"
	"github.com/m3rciful/journalbot/core/telegram/state"
	"github.com/m3rciful/journalbot/internal/admin"
	"github.com/m3rciful/journalbot/internal/bot"
	"github.com/m3rciful/journalbot/internal/browser"
	"github.com/m3rciful/journalbot/internal/catalog"
	"github.com/m3rciful/journalbot/internal/config"
	"github.com/m3rciful/journalbot/internal/subscription"
	"github.com/m3rciful/journalbot/internal/users"
)

// App holds the infrastructure of a running bot.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	redis    *redis.Client
	members  *lateBot
	handlers *bot.Handlers

	Catalog *catalog.SQLStore
	Users   *users.Service
}

// Options adjust Bootstrap. The zero value runs migrations and seeders.
type Options struct {
	SkipMigrations bool
	// Bootstrap overrides the database pipeline, mainly for tests.
	Bootstrap func(ctx context.Context, opts bootstrap.Options) (*bootstrap.Result, error)
}

// Seeders returns the reference data loaders run at startup.
func Seeders() []bootstrap.Seeder {
	return []bootstrap.Seeder{bootstrap.SeederFunc(catalog.Seed)}
}

// Bootstrap connects to the database, migrates, seeds, and builds the handlers.
func Bootstrap(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	run := opts.Bootstrap
	if run == nil {
		run = bootstrap.Run
	}
	res, err := run(ctx, bootstrap.Options{
		Config:         &cfg.Config,
		Database:       cfg.Database,
		Seeders:        Seeders(),
		SkipMigrations: opts.SkipMigrations,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		db:      res.DB,
		members: &lateBot{},
		Catalog: catalog.NewSQLStore(res.DB),
		Users:   users.NewService(users.NewStore(res.DB)),
	}

	sessions, err := a.sessions(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	gate := subscription.NewGate(subscription.NewTelebotChecker(a.members), cfg.Subscription.Channels...)
	a.handlers = bot.New(bot.Deps{
		Browser: browser.New(a.Catalog, cfg.Catalog.PageSize),
		Admin: admin.NewService(admin.Options{
			Catalog:  a.Catalog,
			Users:    a.Users,
			Sessions: sessions,
			IsAdmin:  cfg.IsAdmin,
			PageSize: cfg.Catalog.PageSize,
		}),
		Gate:  gate,
		Users: a.Users,
	})

	logger.L.With("component", "app").Info("app bootstrapped",
		slog.String("event", "bootstrap"),
		slog.String("db_driver", cfg.Database.Driver),
		slog.String("sessions", cfg.Sessions.Backend),
		slog.Int("channels", len(cfg.Subscription.Channels)),
		slog.Int("admins", len(cfg.Telegram.AdminIDs)),
	)
	return a, nil
}

func (a *App) sessions(ctx context.Context) (admin.SessionStore, error) {
	if a.cfg.Sessions.Backend != config.SessionsRedis {
		return admin.NewMemorySessions(), nil
	}
	rc := a.cfg.Sessions.Redis
	a.redis = redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("app: redis ping failed: %w", err)
	}
	return state.NewRedisStore[admin.Session](a.redis, admin.JSONCodec{}, state.RedisOptions{
		Prefix: rc.Prefix,
		TTL:    rc.TTL,
	}), nil
}

// TelegramRunOptions assembles the registry, middlewares and routes.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return tg.RunOptions{}, fmt.Errorf("app: register handlers: %w", err)
	}

	mws := tg.DefaultMiddlewares(&a.cfg.Config, bot.OnLimited)
	mws = append(mws, tg.Middleware{Name: "users", Use: a.handlers.TrackUsers})

	return tg.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Middlewares: mws,
		Routes:      a.handlers.Routes(reg, a.cfg.IsAdmin),
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			a.members.set(rt.Bot)
			return nil
		},
		OnStop: func(context.Context, tg.Runtime) error {
			a.members.set(nil)
			return nil
		},
	}, nil
}

// Close releases the database and the Redis client.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

// errBotNotStarted is reported by membership checks issued before the runtime
// hands over the bot; the gate treats it as not subscribed.
var errBotNotStarted = errors.New("app: bot not started")

// lateBot forwards membership queries to the bot created by the runtime.
type lateBot struct {
	bot atomic.Pointer[tele.Bot]
}

func (l *lateBot) set(b *tele.Bot) { l.bot.Store(b) }

func (l *lateBot) ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error) {
	b := l.bot.Load()
	if b == nil {
		return nil, errBotNotStarted
	}
	return b.ChatMemberOf(chat, user)
}
