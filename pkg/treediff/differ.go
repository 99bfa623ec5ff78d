// Package treediff implements components D (Differ) and E (Tree walker):
// a recursive comparison between persisted manifests and the live
// filesystem, producing a sorted Change list and a cryptographic
// fingerprint over it (spec §4.D, §4.E).
package treediff

import (
	"path/filepath"

	"github.com/treeward/treeward/pkg/fsutil"
	"github.com/treeward/treeward/pkg/hashing"
	"github.com/treeward/treeward/pkg/manifest"
)

// diffDir compares one directory's persisted entries against its live
// listing under the given policy (spec §4.D). dirAbsPath is the directory's
// real filesystem path (used to locate files for rehashing); dirRelPath is
// its path relative to the traversal root (used to label emitted changes).
func diffDir(
	dirAbsPath, dirRelPath string,
	manifestEntries map[string]manifest.ManifestEntry,
	live map[string]fsutil.FsEntry,
	policy ChecksumPolicy,
) ([]Change, error) {
	var changes []Change

	names := make(map[string]struct{}, len(manifestEntries)+len(live))
	for name := range manifestEntries {
		names[name] = struct{}{}
	}
	for name := range live {
		names[name] = struct{}{}
	}

	for name := range names {
		mEntry, inManifest := manifestEntries[name]
		lEntry, onDisk := live[name]
		childRelPath := pathJoin(dirRelPath, name)

		switch {
		case !inManifest && onDisk:
			changes = append(changes, Change{Path: childRelPath, Kind: ChangeKindAdded})
		case inManifest && !onDisk:
			changes = append(changes, Change{Path: childRelPath, Kind: ChangeKindRemoved})
		case mEntry.Kind != lEntry.Kind:
			// Kind changed: the old entry is gone and a new one of a
			// different kind has taken its place (spec §4.D).
			changes = append(changes,
				Change{Path: childRelPath, Kind: ChangeKindRemoved},
				Change{Path: childRelPath, Kind: ChangeKindAdded},
			)
		default:
			change, err := diffMatchedEntry(dirAbsPath, childRelPath, name, mEntry, lEntry, policy)
			if err != nil {
				return nil, err
			}
			if change != nil {
				changes = append(changes, *change)
			}
		}
	}

	return changes, nil
}

// diffMatchedEntry compares a child present on both sides with matching
// kind, returning the Change it produces (if any).
func diffMatchedEntry(
	dirAbsPath, childRelPath, name string,
	mEntry manifest.ManifestEntry,
	lEntry fsutil.FsEntry,
	policy ChecksumPolicy,
) (*Change, error) {
	switch mEntry.Kind {
	case fsutil.EntryKindDir:
		// The tree walker handles directory descent; no change is emitted
		// for the directory entry itself.
		return nil, nil
	case fsutil.EntryKindSymlink:
		// Symlinks are never rehashed and never escalate to Modified: they
		// carry no hashable content (spec §4.D, §9 Open Question 2).
		if mEntry.Target != lEntry.Target {
			return &Change{Path: childRelPath, Kind: ChangeKindPossiblyModified}, nil
		}
		return nil, nil
	case fsutil.EntryKindFile:
		return diffFile(dirAbsPath, childRelPath, name, mEntry, lEntry, policy)
	default:
		return nil, nil
	}
}

// diffFile implements the policy escalation rules for a file present on
// both sides (spec §4.D).
func diffFile(
	dirAbsPath, childRelPath, name string,
	mEntry manifest.ManifestEntry,
	lEntry fsutil.FsEntry,
	policy ChecksumPolicy,
) (*Change, error) {
	metadataMismatch := mEntry.Size != lEntry.Size || mEntry.ModificationTimeNanos != lEntry.ModificationTimeNanos

	switch policy {
	case ChecksumPolicyNever:
		if metadataMismatch {
			return &Change{Path: childRelPath, Kind: ChangeKindPossiblyModified}, nil
		}
		return nil, nil
	case ChecksumPolicyWhenPossiblyModified:
		if !metadataMismatch {
			return nil, nil
		}
		return rehashAndCompare(dirAbsPath, childRelPath, name, mEntry)
	case ChecksumPolicyAlways:
		return rehashAndCompare(dirAbsPath, childRelPath, name, mEntry)
	default:
		return nil, nil
	}
}

// rehashAndCompare invokes the hasher and emits Modified iff the freshly
// computed digest disagrees with the manifest's stored digest.
func rehashAndCompare(dirAbsPath, childRelPath, name string, mEntry manifest.ManifestEntry) (*Change, error) {
	result, err := hashing.Hash(filepath.Join(dirAbsPath, name))
	if err != nil {
		return nil, err
	}
	if result.Digest != mEntry.Digest {
		return &Change{Path: childRelPath, Kind: ChangeKindModified}, nil
	}
	return nil, nil
}
