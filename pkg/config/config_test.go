package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treeward/treeward/pkg/treediff"
)

func TestLoadMissingFileReturnsEmptyConfiguration(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "absent.yml"))
	require.NoError(t, err)
	require.Equal(t, ColorModeAuto, cfg.Color())

	_, ok := cfg.ChecksumPolicy()
	require.False(t, ok)
}

func TestLoadParsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	contents := "defaults:\n  checksumPolicy: always\n  color: never\n  dryRun: true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ColorModeNever, cfg.Color())
	require.True(t, cfg.Defaults.DryRun)

	policy, ok := cfg.ChecksumPolicy()
	require.True(t, ok)
	require.Equal(t, treediff.ChecksumPolicyAlways, policy)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  bogus: true\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
