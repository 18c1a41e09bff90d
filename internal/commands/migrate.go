package commands

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/m3rciful/journalbot/core/bootstrap"
	"github.com/m3rciful/journalbot/core/logger"
	"github.com/m3rciful/journalbot/internal/app"
)

func addMigrate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and load the reference subjects and sections.",
		Example: `
journalbot migrate
DB_DRIVER=postgres DB_HOST=localhost DB_NAME=journals journalbot migrate
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Shutdown() }()

			res, err := bootstrap.Run(cmd.Context(), bootstrap.Options{
				Config:   &cfg.Config,
				Database: cfg.Database,
				Seeders:  app.Seeders(),
			})
			if err != nil {
				return err
			}
			defer res.DB.Close()

			logger.DB.Info("schema ready",
				slog.String("event", "db.migrate"),
				slog.String("driver", cfg.Database.Driver),
			)
			fmt.Fprintln(color.Output, color.GreenString("✔"), "schema is up to date ("+cfg.Database.Driver+")")
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
