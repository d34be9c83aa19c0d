package cmd

import (
	"github.com/spf13/cobra"
)

const generateLongDescription = `Scan the scripts directory and write the aggregated unit.

The unit starts with #include <sstream>. Every file follows in listing order:
lines outside script classes are copied verbatim, and each class deriving from
Script gets a Serialize override registering its [[Serialize]] fields, followed
by REGISTER_SCRIPT(Name);. Classes whose braces never balance are left out.

` + patternsHelp

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate the aggregated scripts unit",
		Long:  generateLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := workflow.Generate(cmd.Context(), generateArgsFromConfig())
			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
