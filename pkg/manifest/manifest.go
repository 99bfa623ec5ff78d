// Package manifest implements Treeward's per-directory manifest: the data
// model of spec §3 (ManifestEntry, Manifest) and component C, the manifest
// codec (spec §4.C).
package manifest

import (
	"errors"
	"os"

	"github.com/treeward/treeward/pkg/fsutil"
	"github.com/treeward/treeward/pkg/logging"
)

// CurrentVersion is the only manifest format version this implementation
// understands. Any other value encountered during decode is fatal
// (spec §4.C, §6).
const CurrentVersion = 1

// ManifestEntry is the persisted description of one tracked child
// (spec §3). Exactly one of the type-specific attribute groups is
// populated, according to Kind.
type ManifestEntry struct {
	// Kind classifies the child.
	Kind fsutil.EntryKind
	// Digest is the hex-encoded SHA-256 digest of the file's contents.
	// Populated for EntryKindFile only.
	Digest string
	// ModificationTimeNanos is the file's modification time, in nanoseconds
	// since the Unix epoch. Populated for EntryKindFile only. Bounded above
	// by numeric.MaxUint64 (numeric.MaxUint64Description), which caps the
	// representable range at the year 2554 (spec §9).
	ModificationTimeNanos uint64
	// Size is the file's size in bytes. Populated for EntryKindFile only.
	Size uint64
	// Target is the raw, unresolved symbolic link target, stored verbatim.
	// Populated for EntryKindSymlink only.
	Target string
}

// EnsureValid verifies that the entry's attributes are consistent with its
// Kind: a File entry must carry a digest and no target, a Symlink entry
// must carry exactly a target, and a Dir entry must carry none of them
// (spec §3 invariants). A zero mtime or size is a valid value, so the
// presence of those two File attributes is checked by Decode, which also
// rejects manifests that fail this check.
func (e ManifestEntry) EnsureValid() error {
	switch e.Kind {
	case fsutil.EntryKindDir:
		if e.Digest != "" || e.ModificationTimeNanos != 0 || e.Size != 0 || e.Target != "" {
			return errors.New("directory entry carries file or symlink attributes")
		}
	case fsutil.EntryKindFile:
		if e.Digest == "" {
			return errors.New("file entry missing digest")
		}
		if e.Target != "" {
			return errors.New("file entry carries symlink target")
		}
	case fsutil.EntryKindSymlink:
		if e.Target == "" {
			return errors.New("symlink entry missing target")
		}
		if e.Digest != "" || e.ModificationTimeNanos != 0 || e.Size != 0 {
			return errors.New("symlink entry carries file attributes")
		}
	default:
		return errors.New("entry has unrecognized kind")
	}
	return nil
}

// Manifest is a per-directory mapping from child name to ManifestEntry, plus
// the format version it was (or will be) encoded with (spec §3).
type Manifest struct {
	// Version is the manifest format version.
	Version uint32
	// Entries maps each tracked child's name (a single path segment) to its
	// entry. The reserved manifest filename is never a key.
	Entries map[string]ManifestEntry
}

// New creates an empty Manifest at the current format version.
func New() *Manifest {
	return &Manifest{
		Version: CurrentVersion,
		Entries: make(map[string]ManifestEntry),
	}
}

// EnsureValid validates every entry and rejects child names that aren't a
// single path segment (spec §3: "Child names are single path segments and
// never contain separators").
func (m *Manifest) EnsureValid() error {
	if m.Version != CurrentVersion {
		return errors.New("unsupported manifest version")
	}
	for name, entry := range m.Entries {
		if name == "" {
			return errors.New("empty child name")
		}
		if name == "." || name == ".." || containsSlash(name) {
			return errors.New("invalid child name: " + name)
		}
		if err := entry.EnsureValid(); err != nil {
			return err
		}
	}
	return nil
}

func containsSlash(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] == '/' || name[i] == '\\' {
			return true
		}
	}
	return false
}

// Load reads and decodes the manifest file at path. If no manifest exists at
// that path, the returned error wraps os.ErrNotExist so that callers (the
// planner) can distinguish "untracked directory" from a genuine I/O or
// decode failure.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Save encodes the manifest and writes it to path atomically (spec §4.F
// step 7). Callers are responsible for the write-only-if-different gate;
// Save always writes.
func Save(m *Manifest, path string, logger *logging.Logger) error {
	if err := m.EnsureValid(); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, Encode(m), 0644, logger)
}
