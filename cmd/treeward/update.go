package main

import (
	"github.com/spf13/cobra"

	"github.com/treeward/treeward/pkg/planner"
)

var updateConfiguration struct {
	dryRun      bool
	fingerprint string
	allowInit   bool
}

var updateCommand = &cobra.Command{
	Use:   "update",
	Short: "Re-hash changed files and refresh manifests for an already-tracked tree",
	Args:  cobra.NoArgs,
	RunE: func(command *cobra.Command, arguments []string) error {
		return runPlan(planner.Options{
			InitAllowed:         updateConfiguration.allowInit,
			ExpectedFingerprint: updateConfiguration.fingerprint,
			DryRun:              updateConfiguration.dryRun,
		})
	},
}

func init() {
	flags := updateCommand.Flags()
	flags.BoolVar(&updateConfiguration.dryRun, "dry-run", false, "report what would be written without writing anything")
	flags.StringVar(&updateConfiguration.fingerprint, "fingerprint", "", "fail unless the tree's current fingerprint matches this value")
	flags.BoolVar(&updateConfiguration.allowInit, "allow-init", false, "permit creating manifests for directories that don't yet have one")
}
