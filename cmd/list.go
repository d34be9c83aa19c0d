package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"scriptprep.dev/pkg/scriptprep/internal/domain"
	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

const listLongDescription = `List the script classes and serialized fields found in the scripts
directory without writing anything. Use --format yaml for a machine-readable
manifest.

` + patternsHelp

var listParallelFlag int
var listFormatFlag string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List script classes and serialized fields",
		Long:  listLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.List(cmd.Context(), domain.ListArgs{
				Scripts: m.Path(viper.GetString(scriptsConfigKey)),
				Include: viper.GetStringSlice(includeConfigKey),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Threads: viper.GetInt(listParallelConfigKey),
				Format:  viper.GetString(listFormatConfigKey),
			})
		},
	}

	configureListFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func configureListFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&listParallelFlag, listParallelFlagName, "p", defaultListParallel, "number of files analyzed in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(listParallelFlagName), listParallelConfigKey)

	cmd.Flags().StringVarP(&listFormatFlag, listFormatFlagName, "f", defaultListFormat, "output format: table or yaml")
	bindFlagToConfig(cmd.Flags().Lookup(listFormatFlagName), listFormatConfigKey)
}
