package treediff

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/treeward/treeward/pkg/fsutil"
	"github.com/treeward/treeward/pkg/manifest"
	"github.com/treeward/treeward/pkg/twerrors"
)

// changeSeparator and changeTerminator delimit the fields of a single
// change record when computing the fingerprint (spec §4.E step 6).
const (
	changeSeparator  = 0x1f
	changeTerminator = 0x00
)

// Status walks root under the given checksum policy, producing the sorted
// list of detected changes and a fingerprint over that list (spec §4.E).
// A directory with no manifest is treated as entirely untracked: every
// live child is reported Added and, for any of those children that are
// themselves directories, the walk continues beneath them on the same
// basis. Status never writes anything and never fails merely because a
// manifest is missing; it can fail with Io, PermissionDenied,
// CorruptedManifest, ConcurrentModification, or InvalidChild.
func Status(root string, policy ChecksumPolicy) ([]Change, string, error) {
	canonicalRoot, err := canonicalize(root)
	if err != nil {
		return nil, "", err
	}

	changes, err := walkDir(canonicalRoot, "", policy)
	if err != nil {
		return nil, "", err
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Path != changes[j].Path {
			return changes[i].Path < changes[j].Path
		}
		return changes[i].Kind < changes[j].Kind
	})

	return changes, fingerprint(changes), nil
}

// walkDir diffs and recurses into a single directory, identified by its
// absolute path and its path relative to the traversal root.
func walkDir(canonicalRoot, relPath string, policy ChecksumPolicy) ([]Change, error) {
	absPath := filepath.Join(canonicalRoot, relPath)

	entries, err := loadManifestEntries(absPath)
	if err != nil {
		return nil, err
	}

	live, err := listOrEmpty(absPath)
	if err != nil {
		return nil, err
	}

	changes, err := diffDir(absPath, relPath, entries, live, policy)
	if err != nil {
		return nil, err
	}

	for _, name := range subdirectoryNames(entries, live) {
		childRelPath := pathJoin(relPath, name)
		subChanges, err := walkDir(canonicalRoot, childRelPath, policy)
		if err != nil {
			return nil, err
		}
		changes = append(changes, subChanges...)
	}

	return changes, nil
}

// listOrEmpty lists dir's immediate children, treating a missing directory
// as an empty listing rather than an error. A parent manifest can list a
// subdirectory as Dir after it has been removed from disk entirely (e.g.
// "rm -rf sub"); the walker still descends into it without failing the
// whole walk (spec §4.E step 3). Since that subdirectory's own manifest is
// gone with it, the descent reports nothing further: only the parent's
// Removed entry for the subdirectory itself appears.
func listOrEmpty(dir string) (map[string]fsutil.FsEntry, error) {
	live, err := fsutil.List(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]fsutil.FsEntry{}, nil
		}
		return nil, err
	}
	return live, nil
}

// loadManifestEntries loads the manifest at dir, returning an empty mapping
// (not an error) if no manifest exists there.
func loadManifestEntries(dir string) (map[string]manifest.ManifestEntry, error) {
	path := filepath.Join(dir, fsutil.ManifestFileName)
	m, err := manifest.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]manifest.ManifestEntry{}, nil
		}
		if _, ok := err.(*twerrors.Error); ok {
			// Already a classified decode failure (KindCorruptedManifest).
			return nil, err
		}
		if os.IsPermission(err) {
			return nil, twerrors.New(twerrors.KindPermissionDenied, path, err)
		}
		return nil, twerrors.New(twerrors.KindIO, path, err)
	}
	return m.Entries, nil
}

// subdirectoryNames returns the sorted union of directory names appearing
// in the manifest and the live listing (spec §4.E step 3).
func subdirectoryNames(entries map[string]manifest.ManifestEntry, live map[string]fsutil.FsEntry) []string {
	names := make(map[string]struct{})
	for name, entry := range entries {
		if entry.Kind == fsutil.EntryKindDir {
			names[name] = struct{}{}
		}
	}
	for name, entry := range live {
		if entry.Kind == fsutil.EntryKindDir {
			names[name] = struct{}{}
		}
	}
	result := make([]string, 0, len(names))
	for name := range names {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// canonicalize resolves root to an absolute, symlink-free form so that
// reported relative paths share a stable base (spec §4.E step 1).
func canonicalize(root string) (string, error) {
	absolute, err := filepath.Abs(root)
	if err != nil {
		return "", twerrors.New(twerrors.KindIO, root, err)
	}
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return "", twerrors.New(twerrors.KindIO, root, err)
	}
	return resolved, nil
}

// fingerprint computes a hex-encoded SHA-256 over the canonical encoding of
// a sorted change list (spec §4.E step 6, §3).
func fingerprint(changes []Change) string {
	digest := sha256.New()
	for _, change := range changes {
		digest.Write([]byte(change.Path))
		digest.Write([]byte{changeSeparator})
		digest.Write([]byte{change.Kind.tag()})
		digest.Write([]byte{changeTerminator})
	}
	return hex.EncodeToString(digest.Sum(nil))
}
