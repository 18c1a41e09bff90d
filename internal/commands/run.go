package commands

import (
	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/journalbot/core/cmd"
)

func runBot() error {
	return corecmd.Run(runnerOptions())
}

func addRun(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot (long polling or webhook, per config).",
		Example: `
journalbot run --config config.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runBot()
		},
	}

	topLevel.AddCommand(cmd)
}
