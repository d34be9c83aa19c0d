package cmd

import (
	"github.com/spf13/cobra"
)

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fail when the generated unit is out of date",
		Long: `Render the scripts unit in memory and compare it with the file on disk.
Prints a unified diff and exits with status 1 when they differ. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Check(cmd.Context(), generateArgsFromConfig())
		},
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
