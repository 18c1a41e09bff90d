package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/journalbot/core/buildinfo"
)

func addVersion(topLevel *cobra.Command) {
	short := false
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the journalbot version.",
		Example: `
journalbot version
journalbot version --short
`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, buildinfo.Version)
				return
			}
			fmt.Fprintln(out, "journalbot", buildinfo.Summary())
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print just the version number.")

	topLevel.AddCommand(cmd)
}
