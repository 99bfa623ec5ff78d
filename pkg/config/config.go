// Package config provides Treeward's optional global defaults layer: a
// single YAML file of convenience defaults (checksum policy, color mode,
// dry-run) that the CLI consults before applying its own flag defaults.
// This is strictly a convenience layer over explicit flags — it never
// changes the semantics spec.md defines for init/update/status/verify.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/treeward/treeward/pkg/treediff"
)

// ConfigurationName is the file name of Treeward's global configuration
// file, resolved relative to the user's home directory.
const ConfigurationName = ".treeward.yml"

// ColorMode controls whether the CLI emits ANSI color codes.
type ColorMode string

const (
	// ColorModeAuto colors output only when standard output is an attached
	// terminal.
	ColorModeAuto ColorMode = "auto"
	// ColorModeAlways always colors output.
	ColorModeAlways ColorMode = "always"
	// ColorModeNever never colors output.
	ColorModeNever ColorMode = "never"
)

// Configuration is the global YAML configuration object type.
type Configuration struct {
	// Defaults holds the default values applied when a corresponding
	// command-line flag isn't supplied.
	Defaults struct {
		// ChecksumPolicy is the default checksum policy for status/verify
		// ("never", "when-possibly-modified", or "always").
		ChecksumPolicy string `yaml:"checksumPolicy"`
		// Color is the default color mode ("auto", "always", or "never").
		Color string `yaml:"color"`
		// DryRun is the default for init/update's --dry-run flag.
		DryRun bool `yaml:"dryRun"`
	} `yaml:"defaults"`
}

// ChecksumPolicy parses the configured default checksum policy, returning
// false if none is set or it doesn't name a recognized policy.
func (c *Configuration) ChecksumPolicy() (treediff.ChecksumPolicy, bool) {
	if c == nil || c.Defaults.ChecksumPolicy == "" {
		return 0, false
	}
	var policy treediff.ChecksumPolicy
	if err := policy.UnmarshalText([]byte(c.Defaults.ChecksumPolicy)); err != nil {
		return 0, false
	}
	return policy, true
}

// Color returns the configured default color mode, defaulting to
// ColorModeAuto if unset or unrecognized.
func (c *Configuration) Color() ColorMode {
	if c == nil {
		return ColorModeAuto
	}
	switch ColorMode(c.Defaults.Color) {
	case ColorModeAlways:
		return ColorModeAlways
	case ColorModeNever:
		return ColorModeNever
	default:
		return ColorModeAuto
	}
}

// Path returns the path of the YAML-based global configuration file. It
// does not verify that the file exists.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to compute path to home directory: %w", err)
	}
	return filepath.Join(home, ConfigurationName), nil
}

// Load attempts to load the global configuration file from path. A missing
// file is not an error: Load returns an empty, zero-valued Configuration
// whose accessors fall back to their documented defaults. Unknown fields
// are rejected, matching the codec's own "no lenient parsing" stance
// (spec §4.C's rationale, carried here for consistency even though this
// layer sits outside the spec's core).
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Configuration{}, nil
		}
		return nil, fmt.Errorf("unable to load configuration: %w", err)
	}

	result := &Configuration{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(result); err != nil {
		return nil, fmt.Errorf("unable to parse configuration: %w", err)
	}
	return result, nil
}
