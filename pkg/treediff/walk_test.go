package treediff

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/treeward/treeward/pkg/fsutil"
	"github.com/treeward/treeward/pkg/hashing"
	"github.com/treeward/treeward/pkg/manifest"
)

func writeManifestFromDisk(t *testing.T, dir string) {
	t.Helper()
	live, err := fsutil.List(dir)
	require.NoError(t, err)

	m := manifest.New()
	for name, entry := range live {
		switch entry.Kind {
		case fsutil.EntryKindFile:
			result, err := hashing.Hash(filepath.Join(dir, name))
			require.NoError(t, err)
			m.Entries[name] = manifest.ManifestEntry{
				Kind:                  fsutil.EntryKindFile,
				Digest:                result.Digest,
				ModificationTimeNanos: result.ModificationTimeNanos,
				Size:                  result.Size,
			}
		case fsutil.EntryKindDir:
			m.Entries[name] = manifest.ManifestEntry{Kind: fsutil.EntryKindDir}
		case fsutil.EntryKindSymlink:
			m.Entries[name] = manifest.ManifestEntry{Kind: fsutil.EntryKindSymlink, Target: entry.Target}
		}
	}
	require.NoError(t, manifest.Save(m, filepath.Join(dir, fsutil.ManifestFileName), nil))
}

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f1"), []byte("hello\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "f2"), []byte("world\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "g"), []byte("x"), 0644))

	writeManifestFromDisk(t, filepath.Join(root, "sub"))
	writeManifestFromDisk(t, root)
	return root
}

func TestStatusOnQuiescentTreeIsEmpty(t *testing.T) {
	root := buildTree(t)
	changes, fp, err := Status(root, ChecksumPolicyAlways)
	require.NoError(t, err)
	require.Empty(t, changes)
	require.Equal(t, fingerprint(nil), fp)
}

func TestStatusAddRemoveAndMetadataDrift(t *testing.T) {
	root := buildTree(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "f3"), []byte("new"), 0644))
	require.NoError(t, os.Remove(filepath.Join(root, "f2")))

	future := timeInTheFuture(t, filepath.Join(root, "sub", "g"))
	require.NoError(t, os.Chtimes(filepath.Join(root, "sub", "g"), future, future))

	changes, _, err := Status(root, ChecksumPolicyNever)
	require.NoError(t, err)
	require.ElementsMatch(t, []Change{
		{Path: "f3", Kind: ChangeKindAdded},
		{Path: "f2", Kind: ChangeKindRemoved},
		{Path: "sub/g", Kind: ChangeKindPossiblyModified},
	}, changes)

	changesWPM, _, err := Status(root, ChecksumPolicyWhenPossiblyModified)
	require.NoError(t, err)
	require.ElementsMatch(t, []Change{
		{Path: "f3", Kind: ChangeKindAdded},
		{Path: "f2", Kind: ChangeKindRemoved},
	}, changesWPM)
}

func TestStatusDetectsSilentCorruption(t *testing.T) {
	root := buildTree(t)

	info, err := os.Stat(filepath.Join(root, "f1"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "f1"), []byte("HELLO\n"), 0644))
	require.NoError(t, os.Chtimes(filepath.Join(root, "f1"), info.ModTime(), info.ModTime()))

	changesNever, _, err := Status(root, ChecksumPolicyNever)
	require.NoError(t, err)
	require.Empty(t, changesNever)

	changesAlways, _, err := Status(root, ChecksumPolicyAlways)
	require.NoError(t, err)
	require.Equal(t, []Change{{Path: "f1", Kind: ChangeKindModified}}, changesAlways)
}

func TestStatusUntrackedDirectoryReportsAllAdded(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), []byte("x"), 0644))

	changes, _, err := Status(root, ChecksumPolicyAlways)
	require.NoError(t, err)
	require.Equal(t, []Change{{Path: "a", Kind: ChangeKindAdded}}, changes)
}

// TestStatusRemovedTrackedSubdirectoryDoesNotFail exercises spec §4.E step
// 3: a parent manifest can list a subdirectory as Dir after the whole
// subdirectory (including its own manifest) has been deleted from disk.
// The walk must still descend there without failing; since the removed
// directory's manifest is gone along with it, nothing "transitive" can be
// recovered and the only reported change is the parent's own Dir entry
// going missing.
func TestStatusRemovedTrackedSubdirectoryDoesNotFail(t *testing.T) {
	root := buildTree(t)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "sub")))

	changes, _, err := Status(root, ChecksumPolicyAlways)
	require.NoError(t, err)
	require.Equal(t, []Change{{Path: "sub", Kind: ChangeKindRemoved}}, changes)
}

func timeInTheFuture(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime().Add(time.Hour)
}
