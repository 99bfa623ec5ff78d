package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treeward/treeward/pkg/fsutil"
	"github.com/treeward/treeward/pkg/manifest"
	"github.com/treeward/treeward/pkg/twerrors"
)

func buildUntrackedTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), []byte("hello"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b"), []byte("world"), 0644))
	return root
}

func TestPlanRefusesWithoutInitAllowed(t *testing.T) {
	root := buildUntrackedTree(t)

	_, err := Plan(root, Options{}, nil)
	require.Error(t, err)
	require.True(t, twerrors.Is(err, twerrors.KindNotInitialized))

	_, statErr := os.Stat(filepath.Join(root, fsutil.ManifestFileName))
	require.True(t, os.IsNotExist(statErr))
}

func TestPlanInitializesFreshTree(t *testing.T) {
	root := buildUntrackedTree(t)

	result, err := Plan(root, Options{InitAllowed: true}, nil)
	require.NoError(t, err)
	require.Len(t, result.Directories, 2)

	rootManifest, err := manifest.Load(filepath.Join(root, fsutil.ManifestFileName))
	require.NoError(t, err)
	require.Equal(t, fsutil.EntryKindFile, rootManifest.Entries["a"].Kind)
	require.Equal(t, fsutil.EntryKindDir, rootManifest.Entries["sub"].Kind)

	subManifest, err := manifest.Load(filepath.Join(root, "sub", fsutil.ManifestFileName))
	require.NoError(t, err)
	require.Equal(t, fsutil.EntryKindFile, subManifest.Entries["b"].Kind)
	require.NotEmpty(t, subManifest.Entries["b"].Digest)
}

func TestPlanOnQuiescentTreeWritesNothing(t *testing.T) {
	root := buildUntrackedTree(t)
	_, err := Plan(root, Options{InitAllowed: true}, nil)
	require.NoError(t, err)

	result, err := Plan(root, Options{InitAllowed: true}, nil)
	require.NoError(t, err)
	for _, outcome := range result.Directories {
		require.Falsef(t, outcome.Written, "directory %q should not have been rewritten", outcome.Path)
	}
}

func TestPlanReusesDigestWhenMetadataUnchanged(t *testing.T) {
	root := buildUntrackedTree(t)
	_, err := Plan(root, Options{InitAllowed: true}, nil)
	require.NoError(t, err)

	// Replace the stored digest of "a" with a sentinel while leaving its
	// size and mtime untouched. Re-planning without changing "a" on disk
	// must carry the stored digest over (the sentinel survives) rather than
	// recompute it (which would replace the sentinel with the real digest).
	before, err := manifest.Load(filepath.Join(root, fsutil.ManifestFileName))
	require.NoError(t, err)
	const sentinelDigest = "0000000000000000000000000000000000000000000000000000000000000000"
	entry := before.Entries["a"]
	entry.Digest = sentinelDigest
	before.Entries["a"] = entry
	require.NoError(t, manifest.Save(before, filepath.Join(root, fsutil.ManifestFileName), nil))

	_, err = Plan(root, Options{InitAllowed: true}, nil)
	require.NoError(t, err)

	after, err := manifest.Load(filepath.Join(root, fsutil.ManifestFileName))
	require.NoError(t, err)
	require.Equal(t, sentinelDigest, after.Entries["a"].Digest)
}

func TestPlanFingerprintGateRejectsStaleCaller(t *testing.T) {
	root := buildUntrackedTree(t)
	_, err := Plan(root, Options{InitAllowed: true}, nil)
	require.NoError(t, err)

	before, err := os.ReadFile(filepath.Join(root, fsutil.ManifestFileName))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), []byte("changed"), 0644))

	_, err = Plan(root, Options{InitAllowed: true, ExpectedFingerprint: "stale-fingerprint"}, nil)
	require.Error(t, err)
	require.True(t, twerrors.Is(err, twerrors.KindFingerprintMismatch))

	after, err := os.ReadFile(filepath.Join(root, fsutil.ManifestFileName))
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestPlanDryRunWritesNothing(t *testing.T) {
	root := buildUntrackedTree(t)

	result, err := Plan(root, Options{InitAllowed: true, DryRun: true}, nil)
	require.NoError(t, err)

	var sawWrite bool
	for _, outcome := range result.Directories {
		if outcome.Written {
			sawWrite = true
		}
	}
	require.True(t, sawWrite)

	_, statErr := os.Stat(filepath.Join(root, fsutil.ManifestFileName))
	require.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(root, "sub", fsutil.ManifestFileName))
	require.True(t, os.IsNotExist(statErr))
}
