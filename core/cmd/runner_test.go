package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	coreconfig "github.com/m3rciful/journalbot/core/config"
	coretelegram "github.com/m3rciful/journalbot/core/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type fakeApp struct {
	closed  bool
	started bool
	stopped bool
}

func (a *fakeApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error { a.started = true; return nil },
		OnStop:  func(context.Context, coretelegram.Runtime) error { a.stopped = true; return nil },
	}, nil
}

func (a *fakeApp) Close() error { a.closed = true; return nil }

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("JB_CONFIG", "")
	_, err := ResolveConfigPath(Options{ConfigEnvVar: "JB_CONFIG"})
	assert.Error(t, err)

	p, err := ResolveConfigPath(Options{ConfigEnvVar: "JB_CONFIG", DefaultConfigPath: "config.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", p)

	t.Setenv("JB_CONFIG", "/etc/jb.yaml")
	p, _ = ResolveConfigPath(Options{ConfigEnvVar: "JB_CONFIG", DefaultConfigPath: "config.yaml"})
	assert.Equal(t, "/etc/jb.yaml", p)

	p, _ = ResolveConfigPath(Options{ConfigPath: "flag.yaml", ConfigEnvVar: "JB_CONFIG"})
	assert.Equal(t, "flag.yaml", p)
}

func TestRunLifecycle(t *testing.T) {
	app := &fakeApp{}
	loggerClosed := false
	err := Run(Options{
		ConfigPath: "any.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) { return app, nil },
		ShutdownLogger: func() error {
			loggerClosed = true
			return nil
		},
		RunTelegram: func(ctx context.Context, ro coretelegram.RunOptions) error {
			if err := ro.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return ro.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	require.NoError(t, err)
	assert.True(t, app.started)
	assert.True(t, app.stopped)
	assert.True(t, app.closed)
	assert.True(t, loggerClosed)
}

func TestRunErrors(t *testing.T) {
	assert.Error(t, Run(Options{}))

	boom := errors.New("boom")
	err := Run(Options{
		ConfigPath: "x.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) { return nil, boom },
		Bootstrap:  func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, nil },
	})
	assert.ErrorIs(t, err, boom)

	err = Run(Options{
		ConfigPath: "x.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) { return carrier{}, nil },
		Bootstrap:  func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, nil },
	})
	assert.ErrorContains(t, err, "missing core configuration")
}

func TestWithLifecycleLogsStopsOnStartError(t *testing.T) {
	boom := errors.New("start failed")
	ro := coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error { return boom },
	}
	withLifecycleLogs(&ro, time.Now())
	assert.ErrorIs(t, ro.OnStart(context.Background(), coretelegram.Runtime{}), boom)
	assert.NoError(t, ro.OnStop(context.Background(), coretelegram.Runtime{}))
}
