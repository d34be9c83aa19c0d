package cmd

import (
	"github.com/spf13/cobra"

	"scriptprep.dev/pkg/scriptprep/internal/domain"
)

var watchDebounceFlag int

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the scripts unit whenever a script changes",
		Long: `Generate the scripts unit, then watch the scripts directory and regenerate
after every burst of changes. Stops on Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Watch(cmd.Context(), domain.WatchArgs{
				GenerateArgs: generateArgsFromConfig(),
				Debounce:     debounceFromConfig(),
			})
		},
	}

	cmd.Flags().IntVar(&watchDebounceFlag, debounceFlagName, defaultWatchDebounceMS, "milliseconds to wait for more changes before regenerating")
	bindFlagToConfig(cmd.Flags().Lookup(debounceFlagName), watchDebounceConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
