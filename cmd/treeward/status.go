package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/treeward/treeward/pkg/config"
	"github.com/treeward/treeward/pkg/treediff"
)

var statusConfiguration struct {
	// policy selects the checksum policy explicitly, overriding the global
	// configuration's default.
	policy string
	// verify causes the command to exit non-zero if any change is detected,
	// using whatever policy was otherwise selected (spec §6).
	verify bool
	// alwaysVerify is equivalent to verify combined with forcing
	// ChecksumPolicyAlways - exactly what the verify subcommand itself runs
	// (spec §6, §4.F "Verify (derived)").
	alwaysVerify bool
	// json switches rendering to machine-readable JSON on standard output.
	json bool
}

var statusCommand = &cobra.Command{
	Use:   "status",
	Short: "Report differences between the persisted manifests and the live filesystem",
	Args:  cobra.NoArgs,
	RunE: func(command *cobra.Command, arguments []string) error {
		return runStatus(false)
	},
}

var verifyCommand = &cobra.Command{
	Use:   "verify",
	Short: "Fail if the live filesystem differs from its persisted manifests under full rehashing",
	Args:  cobra.NoArgs,
	RunE: func(command *cobra.Command, arguments []string) error {
		return runStatus(true)
	},
}

func init() {
	statusFlags := statusCommand.Flags()
	statusFlags.StringVar(&statusConfiguration.policy, "policy", "", "checksum policy (never, when-possibly-modified, always)")
	statusFlags.BoolVar(&statusConfiguration.verify, "verify", false, "exit non-zero if any change is detected")
	statusFlags.BoolVar(&statusConfiguration.alwaysVerify, "always-verify", false, "equivalent to --verify combined with --policy=always")
	statusFlags.BoolVar(&statusConfiguration.json, "json", false, "emit machine-readable JSON instead of human-readable text")

	verifyCommand.Flags().BoolVar(&statusConfiguration.json, "json", false, "emit machine-readable JSON instead of human-readable text")
}

// runStatus implements both the status and verify subcommands; asVerify
// forces ChecksumPolicyAlways and a non-zero exit on any detected change,
// exactly matching spec §6's "verify is status --always-verify" and §4.F's
// "Verify (derived)" section.
func runStatus(asVerify bool) error {
	logger := rootLogger()
	cfg := loadGlobalConfiguration(logger)
	configureColor(resolveColorMode(cfg))

	policy := resolvePolicy(cfg)
	forceVerify := asVerify || statusConfiguration.verify
	if asVerify || statusConfiguration.alwaysVerify {
		policy = treediff.ChecksumPolicyAlways
		forceVerify = true
	}

	changes, fingerprint, err := treediff.Status(rootConfiguration.directory, policy)
	if err != nil {
		return err
	}

	if statusConfiguration.json {
		if err := printChangesJSON(os.Stdout, changes, fingerprint); err != nil {
			return errors.Wrap(err, "unable to render JSON output")
		}
	} else {
		printChanges(os.Stdout, changes, fingerprint)
	}

	if forceVerify && len(changes) > 0 {
		os.Exit(exitCodeChangesDetected)
	}
	return nil
}

// resolvePolicy determines the checksum policy for a status invocation:
// an explicit --policy flag wins, then the global configuration's default,
// then ChecksumPolicyWhenPossiblyModified (the same policy the planner
// itself uses for its pre-flight status computation, spec §4.F step 1).
func resolvePolicy(cfg *config.Configuration) treediff.ChecksumPolicy {
	if statusConfiguration.policy != "" {
		var policy treediff.ChecksumPolicy
		if err := policy.UnmarshalText([]byte(statusConfiguration.policy)); err == nil {
			return policy
		}
	}
	if policy, ok := cfg.ChecksumPolicy(); ok {
		return policy
	}
	return treediff.ChecksumPolicyWhenPossiblyModified
}
