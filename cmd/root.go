// Package cmd provides the root command and CLI setup for scriptprep.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"scriptprep.dev/pkg/scriptprep/internal/adapter"
	"scriptprep.dev/pkg/scriptprep/internal/controller"
	"scriptprep.dev/pkg/scriptprep/internal/domain"
	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

var sourceFSAdapter adapter.SourceFSAdapter
var manifestStore adapter.ManifestStore
var watchAdapter adapter.WatchAdapter
var workflow domain.Workflow
var ui controller.UI

var scriptsDirFlag string
var outputFileFlag string
var includePatterns []string
var excludePatterns []string
var manifestFileFlag string
var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	sourceFSAdapter = adapter.NewLocalSourceFSAdapter()
	manifestStore = adapter.NewYAMLManifestStore(sourceFSAdapter)
	watchAdapter = adapter.NewLocalWatchAdapter()
	workflow = domain.NewWorkflow(
		sourceFSAdapter,
		manifestStore,
		watchAdapter,
		ui,
	)
}

const patternsHelp = `Include and exclude patterns are globs matched against file names relative
to the scripts directory:
  -i '*.cpp'               only process .cpp files
  -x '*Test*.cpp'          skip test scripts
  -i '*.{cpp,cc}'          alternatives`

const rootLongDescription = `Scriptprep prepares game scripts for compilation. It scans a directory of
C++ script sources, finds classes deriving from Script, collects fields marked
with [[Serialize]] and writes one aggregated unit in which every script class
has a generated Serialize override and a REGISTER_SCRIPT statement.

` + patternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "scriptprep",
		Short:        "Game script preprocessor",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			return configLoadErr
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd builds a fresh root command with its persistent flags bound.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&scriptsDirFlag, scriptsFlagName, "s", defaultScriptsDir, "directory containing the script sources")
	bindFlagToConfig(flags.Lookup(scriptsFlagName), scriptsConfigKey)

	flags.StringVarP(&outputFileFlag, outputFlagName, "o", defaultOutputFile, "path of the generated scripts unit")
	bindFlagToConfig(flags.Lookup(outputFlagName), outputConfigKey)

	flags.StringArrayVarP(&includePatterns, includeFlagName, "i", nil, "only process files matching glob (can be repeated)")
	bindFlagToConfig(flags.Lookup(includeFlagName), includeConfigKey)

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "skip files matching glob (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.StringVarP(&manifestFileFlag, manifestFlagName, "m", defaultManifestFile, "also write a YAML manifest of registered classes to this path")
	bindFlagToConfig(flags.Lookup(manifestFlagName), manifestConfigKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func generateArgsFromConfig() domain.GenerateArgs {
	return domain.GenerateArgs{
		Scripts:  m.Path(viper.GetString(scriptsConfigKey)),
		Output:   m.Path(viper.GetString(outputConfigKey)),
		Include:  viper.GetStringSlice(includeConfigKey),
		Exclude:  viper.GetStringSlice(excludeConfigKey),
		Manifest: m.Path(viper.GetString(manifestConfigKey)),
	}
}

func debounceFromConfig() time.Duration {
	return time.Duration(viper.GetInt(watchDebounceConfigKey)) * time.Millisecond
}
