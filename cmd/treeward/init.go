package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treeward/treeward/pkg/planner"
)

var initConfiguration struct {
	dryRun      bool
	fingerprint string
}

var initCommand = &cobra.Command{
	Use:   "init",
	Short: "Create manifests for an untracked directory tree",
	Args:  cobra.NoArgs,
	RunE: func(command *cobra.Command, arguments []string) error {
		return runPlan(planner.Options{
			InitAllowed:         true,
			ExpectedFingerprint: initConfiguration.fingerprint,
			DryRun:              initConfiguration.dryRun,
		})
	},
}

func init() {
	flags := initCommand.Flags()
	flags.BoolVar(&initConfiguration.dryRun, "dry-run", false, "report what would be written without writing anything")
	flags.StringVar(&initConfiguration.fingerprint, "fingerprint", "", "fail unless the tree's current fingerprint matches this value")
}

// runPlan is shared by init and update: it runs the planner, renders its
// result, and applies the exit-code taxonomy for the errors the planner
// can produce (NotInitialized, FingerprintMismatch, and the propagated
// core errors).
func runPlan(options planner.Options) error {
	logger := rootLogger()
	cfg := loadGlobalConfiguration(logger)
	configureColor(resolveColorMode(cfg))

	// The global configuration's dryRun default can turn dry-run on; an
	// explicit --dry-run=false does not turn it back off.
	options.DryRun = options.DryRun || cfg.Defaults.DryRun

	result, err := planner.Plan(rootConfiguration.directory, options, logger)
	if err != nil {
		return err
	}

	printPlanResult(os.Stdout, result)
	return nil
}

// printPlanResult renders a planner.Result in human-readable form: the
// directories written (or, under dry-run, that would be written) and the
// summary/fingerprint of the pre-flight change list.
func printPlanResult(w *os.File, result planner.Result) {
	for _, outcome := range result.Directories {
		if !outcome.Written {
			continue
		}
		path := outcome.Path
		if path == "" {
			path = "."
		}
		fmt.Fprintf(w, "wrote %s\n", path)
	}
	printSummary(w, result.Changes, result.Fingerprint)
}
