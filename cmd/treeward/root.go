// Command treeward is the thin command-line shell over Treeward's core
// (spec §1's "out of scope" collaborators): argument parsing, exit-code
// translation, and human-readable (or JSON) rendering of the core's
// structured results.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treeward/treeward/pkg/config"
	"github.com/treeward/treeward/pkg/logging"
	"github.com/treeward/treeward/pkg/version"
)

// rootConfiguration holds the global flags shared by every subcommand.
var rootConfiguration struct {
	// directory is the tracked directory to operate against (-C/--directory).
	directory string
	// verbosity is the requested log level name.
	verbosity string
	// color is the requested color mode ("auto", "always", "never").
	color string
	// showVersion requests that the version string be printed and nothing
	// else executed.
	showVersion bool
}

var rootCommand = &cobra.Command{
	Use:          "treeward",
	Short:        "Treeward maintains per-directory SHA-256 manifests and detects filesystem drift",
	SilenceUsage: true,
	RunE: func(command *cobra.Command, arguments []string) error {
		if rootConfiguration.showVersion {
			fmt.Println(version.Version)
			return nil
		}
		return command.Help()
	},
}

func init() {
	flags := rootCommand.PersistentFlags()
	flags.StringVarP(&rootConfiguration.directory, "directory", "C", ".", "directory to operate against")
	flags.StringVar(&rootConfiguration.verbosity, "verbose", "info", "log level (disabled, error, warn, info, debug)")
	flags.StringVar(&rootConfiguration.color, "color", "auto", "color mode (auto, always, never)")

	rootCommand.Flags().BoolVarP(&rootConfiguration.showVersion, "version", "V", false, "show version information")

	cobra.EnableCommandSorting = false

	rootCommand.AddCommand(
		initCommand,
		updateCommand,
		statusCommand,
		verifyCommand,
	)
}

// resolveColorMode combines the --color flag with the global configuration
// file's default, the flag taking precedence whenever it was explicitly
// set to something other than the built-in "auto" default.
func resolveColorMode(cfg *config.Configuration) config.ColorMode {
	switch rootConfiguration.color {
	case "always":
		return config.ColorModeAlways
	case "never":
		return config.ColorModeNever
	case "auto":
		return cfg.Color()
	default:
		return config.ColorModeAuto
	}
}

// loadGlobalConfiguration loads the optional global defaults file,
// treating any failure to load it as a warning rather than a fatal error:
// the file is a convenience layer, not part of the core's contract.
func loadGlobalConfiguration(logger *logging.Logger) *config.Configuration {
	path, err := config.Path()
	if err != nil {
		logger.Warnf("unable to resolve global configuration path: %v", err)
		return &config.Configuration{}
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warnf("unable to load global configuration: %v", err)
		return &config.Configuration{}
	}
	return cfg
}

// rootLogger builds the run-scoped logger for one subcommand invocation,
// writing to standard error so that stdout stays reserved for --json
// output (spec's SUPPLEMENTED FEATURES: "--json output mode").
func rootLogger() *logging.Logger {
	level, ok := logging.NameToLevel(rootConfiguration.verbosity)
	if !ok {
		level = logging.LevelInfo
	}
	return logging.NewRunLogger(level, os.Stderr)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		// Execute returns whatever the matched subcommand's RunE returned,
		// so a core *twerrors.Error reaches Fatal unwrapped and its kind
		// still maps to the right exit code; only Cobra's own usage errors
		// (unknown flag, bad arguments) are bare errors here.
		Fatal(err)
	}
}
