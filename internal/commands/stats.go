package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/m3rciful/journalbot/core/bootstrap"
	"github.com/m3rciful/journalbot/core/logger"
	"github.com/m3rciful/journalbot/internal/catalog"
	"github.com/m3rciful/journalbot/internal/users"
)

func addStats(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print catalog and user counts.",
		Example: `
journalbot stats
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
				Config:         &cfg.Config,
				Database:       cfg.Database,
				SkipMigrations: true,
			})
			if err != nil {
				return err
			}
			defer res.DB.Close()

			return printStats(cmd.Context(), color.Output,
				catalog.NewSQLStore(res.DB), users.NewStore(res.DB))
		},
	}

	topLevel.AddCommand(cmd)
}

type statsSource interface {
	Stats(ctx context.Context) (catalog.Stats, error)
}

type userCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

func printStats(ctx context.Context, w io.Writer, cat statsSource, us userCounter) error {
	st, err := cat.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	n, err := us.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Metric"), bold.Sprint("Value"))
	tbl.AddRow("Users", strconv.Itoa(n))
	tbl.AddRow("Journals", strconv.Itoa(st.Journals))
	tbl.AddRow("Subjects", strconv.Itoa(st.Subjects))
	tbl.AddRow("Sections", strconv.Itoa(st.Sections))
	if st.TopSubject != "" {
		tbl.AddRow("Top subject", fmt.Sprintf("%s (%d)", st.TopSubject, st.TopSubjectJournals))
	} else {
		tbl.AddRow("Top subject", color.YellowString("-"))
	}

	_, _ = fmt.Fprintln(w, tbl)
	return nil
}
