// Package planner implements Treeward's update planner (component F): the
// incremental re-hasher that reuses prior digests when metadata is
// unchanged, writes manifests only when their canonical bytes differ, and
// guards against TOCTOU by validating a caller-supplied fingerprint before
// any mutation (spec §4.F).
package planner

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/treeward/treeward/pkg/fsutil"
	"github.com/treeward/treeward/pkg/hashing"
	"github.com/treeward/treeward/pkg/logging"
	"github.com/treeward/treeward/pkg/manifest"
	"github.com/treeward/treeward/pkg/treediff"
	"github.com/treeward/treeward/pkg/twerrors"
)

// Options configures a planner invocation (spec §4.F).
type Options struct {
	// InitAllowed permits the planner to create a manifest for a directory
	// that doesn't have one. When false, encountering such a directory is
	// fatal (NotInitialized).
	InitAllowed bool
	// ExpectedFingerprint, if non-empty, is checked against a freshly
	// computed fingerprint before any manifest is written (the TOCTOU
	// gate). A mismatch is fatal and aborts before any write.
	ExpectedFingerprint string
	// DryRun, if true, computes and reports what would be written without
	// writing anything.
	DryRun bool
}

// DirectoryOutcome describes what the planner did (or would do) for a
// single directory.
type DirectoryOutcome struct {
	// Path is the directory's path relative to the traversal root.
	Path string
	// Written is true if the manifest's canonical bytes changed and were
	// (or, under DryRun, would be) written to disk.
	Written bool
}

// Result is the outcome of a planner invocation.
type Result struct {
	// Changes is the change list computed before planning (spec §4.F
	// step 1), identical to what Status would report under
	// ChecksumPolicyWhenPossiblyModified.
	Changes []treediff.Change
	// Fingerprint is the fingerprint of Changes.
	Fingerprint string
	// Directories describes the outcome for every directory visited, in
	// the order they were assembled (post-order: children before parents).
	Directories []DirectoryOutcome
}

// Plan runs the planner against root (spec §4.F).
func Plan(root string, options Options, logger *logging.Logger) (Result, error) {
	canonicalRoot, err := filepath.Abs(root)
	if err != nil {
		return Result{}, twerrors.New(twerrors.KindIO, root, err)
	}
	canonicalRoot, err = filepath.EvalSymlinks(canonicalRoot)
	if err != nil {
		return Result{}, twerrors.New(twerrors.KindIO, root, err)
	}

	changes, fingerprint, err := treediff.Status(canonicalRoot, treediff.ChecksumPolicyWhenPossiblyModified)
	if err != nil {
		return Result{}, err
	}

	if options.ExpectedFingerprint != "" && options.ExpectedFingerprint != fingerprint {
		return Result{}, twerrors.New(twerrors.KindFingerprintMismatch, root, nil)
	}

	var outcomes []DirectoryOutcome
	if _, err := assembleDir(canonicalRoot, "", options, logger, &outcomes); err != nil {
		return Result{}, err
	}

	return Result{Changes: changes, Fingerprint: fingerprint, Directories: outcomes}, nil
}

// assembleDir recursively assembles the manifest for one directory,
// descending into subdirectories first (post-order), so that by the time a
// parent's Dir entries are written they reflect children that have already
// been initialized or updated (spec §4.F step 3, "Why post-order").
// It returns whether the directory is (or will be) tracked, so the caller
// can decide whether to record a Dir entry for it.
func assembleDir(canonicalRoot, relPath string, options Options, logger *logging.Logger, outcomes *[]DirectoryOutcome) (bool, error) {
	absPath := filepath.Join(canonicalRoot, relPath)
	manifestPath := filepath.Join(absPath, fsutil.ManifestFileName)

	existing, loadErr := manifest.Load(manifestPath)
	hadManifest := loadErr == nil
	if loadErr != nil && !os.IsNotExist(loadErr) {
		if _, ok := loadErr.(*twerrors.Error); ok {
			return false, loadErr
		}
		return false, twerrors.New(twerrors.KindIO, manifestPath, loadErr)
	}
	if !hadManifest && !options.InitAllowed {
		return false, twerrors.New(twerrors.KindNotInitialized, relPath, nil)
	}

	live, err := fsutil.List(absPath)
	if err != nil {
		return false, err
	}

	var previousEntries map[string]manifest.ManifestEntry
	if hadManifest {
		previousEntries = existing.Entries
	}

	newManifest := manifest.New()
	for name, entry := range live {
		if entry.Kind == fsutil.EntryKindDir {
			childTracked, err := assembleDir(canonicalRoot, pathJoin(relPath, name), options, logger, outcomes)
			if err != nil {
				return false, err
			}
			if !childTracked {
				continue
			}
			newManifest.Entries[name] = manifest.ManifestEntry{Kind: fsutil.EntryKindDir}
			continue
		}

		previous, hadPrevious := previousEntries[name]
		assembled, err := assembleEntry(absPath, name, entry, previous, hadPrevious)
		if err != nil {
			return false, err
		}
		newManifest.Entries[name] = assembled
	}

	written, err := writeIfDifferent(newManifest, manifestPath, previousEntries != nil, options.DryRun, logger)
	if err != nil {
		return false, err
	}
	*outcomes = append(*outcomes, DirectoryOutcome{Path: relPath, Written: written})

	return true, nil
}

// assembleEntry decides, for one live file or symlink, whether the prior
// manifest entry's digest can be reused or whether the hasher must be
// invoked (spec §4.F step 3's cache-reuse rule).
func assembleEntry(dirAbsPath, name string, live fsutil.FsEntry, previous manifest.ManifestEntry, hadPrevious bool) (manifest.ManifestEntry, error) {
	if live.Kind == fsutil.EntryKindSymlink {
		return manifest.ManifestEntry{Kind: fsutil.EntryKindSymlink, Target: live.Target}, nil
	}

	reusable := hadPrevious &&
		previous.Kind == fsutil.EntryKindFile &&
		previous.Size == live.Size &&
		previous.ModificationTimeNanos == live.ModificationTimeNanos
	if reusable {
		return manifest.ManifestEntry{
			Kind:                  fsutil.EntryKindFile,
			Digest:                previous.Digest,
			ModificationTimeNanos: previous.ModificationTimeNanos,
			Size:                  previous.Size,
		}, nil
	}

	result, err := hashing.Hash(filepath.Join(dirAbsPath, name))
	if err != nil {
		return manifest.ManifestEntry{}, err
	}
	return manifest.ManifestEntry{
		Kind:                  fsutil.EntryKindFile,
		Digest:                result.Digest,
		ModificationTimeNanos: result.ModificationTimeNanos,
		Size:                  result.Size,
	}, nil
}

// writeIfDifferent encodes newManifest and compares it byte-for-byte
// against whatever is currently persisted, writing only when they differ
// (spec §4.F step 5). Under DryRun it reports what would happen without
// writing.
func writeIfDifferent(newManifest *manifest.Manifest, path string, hadManifest, dryRun bool, logger *logging.Logger) (bool, error) {
	newManifest.Version = manifest.CurrentVersion
	encoded := manifest.Encode(newManifest)

	if hadManifest {
		current, err := os.ReadFile(path)
		if err == nil && bytes.Equal(current, encoded) {
			return false, nil
		}
	}

	if dryRun {
		return true, nil
	}

	if err := fsutil.WriteFileAtomic(path, encoded, 0644, logger); err != nil {
		return false, twerrors.New(twerrors.KindIO, path, err)
	}
	return true, nil
}

// pathJoin mirrors treediff's root-relative path arithmetic; duplicated
// here (rather than exported from treediff) to keep the planner's
// dependency on treediff limited to its public Status/Change surface.
func pathJoin(base, leaf string) string {
	if base == "" {
		return leaf
	}
	return base + "/" + leaf
}
