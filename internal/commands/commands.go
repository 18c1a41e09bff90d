// Package commands holds the journalbot command line.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/journalbot/core/cmd"
	"github.com/m3rciful/journalbot/internal/app"
	"github.com/m3rciful/journalbot/internal/config"
)

const (
	configEnvVar      = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
)

var configPath string

// New builds the root command. Without a subcommand it runs the bot.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journalbot",
		Short: "Telegram bot for browsing and curating a journal catalog.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runBot()
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to the YAML config. Defaults to $"+configEnvVar+" or "+defaultConfigPath+".")

	AddCommands(cmd)
	return cmd
}

// AddCommands attaches every subcommand to topLevel.
func AddCommands(topLevel *cobra.Command) {
	addRun(topLevel)
	addMigrate(topLevel)
	addStats(topLevel)
	addVersion(topLevel)
}

func runnerOptions() corecmd.Options {
	return corecmd.Options{
		ConfigPath:        configPath,
		ConfigEnvVar:      configEnvVar,
		DefaultConfigPath: defaultConfigPath,
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(ctx context.Context, cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(ctx, cfg.(*config.Config), app.Options{})
		},
	}
}

// loadConfig resolves the config path the same way the bot runner does.
func loadConfig() (*config.Config, error) {
	path, err := corecmd.ResolveConfigPath(runnerOptions())
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}
