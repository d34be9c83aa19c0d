package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default scriptprep.yaml configuration file",
		Long: `Create a scriptprep.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually. The configured scripts
directory is created when it does not exist yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			scriptsDir := viper.GetString(scriptsConfigKey)

			created, err := ensureScriptsDir(scriptsDir)
			if err != nil {
				return err
			}

			cmd.Printf("Wrote %s (scripts: %s, output: %s)\n", targetPath, scriptsDir, viper.GetString(outputConfigKey))

			if created {
				cmd.Printf("Created scripts directory %s\n", scriptsDir)
			}

			return nil
		},
	}
}

// ensureScriptsDir creates dir when it is missing. It reports whether the
// directory was created and fails when dir exists but is not a directory.
func ensureScriptsDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("scripts path %s is not a directory", dir)
		}

		return false, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat scripts directory %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("create scripts directory %s: %w", dir, err)
	}

	return true, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
