package fsutil

import "fmt"

// EntryKind is the closed classification of a tracked filesystem child:
// a regular file, a directory, or a symbolic link (spec §3). It is shared
// between the live directory lister's FsEntry and the persisted
// ManifestEntry so that the two sides of a comparison speak the same
// vocabulary.
type EntryKind uint8

const (
	// EntryKindFile represents a regular file.
	EntryKindFile EntryKind = iota
	// EntryKindDir represents a directory.
	EntryKindDir
	// EntryKindSymlink represents a symbolic link.
	EntryKindSymlink
)

// MarshalText implements encoding.TextMarshaler.MarshalText.
func (k EntryKind) MarshalText() ([]byte, error) {
	var result string
	switch k {
	case EntryKindFile:
		result = "File"
	case EntryKindDir:
		result = "Dir"
	case EntryKindSymlink:
		result = "Symlink"
	default:
		return nil, fmt.Errorf("unknown entry kind: %d", k)
	}
	return []byte(result), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.UnmarshalText.
func (k *EntryKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "File":
		*k = EntryKindFile
	case "Dir":
		*k = EntryKindDir
	case "Symlink":
		*k = EntryKindSymlink
	default:
		return fmt.Errorf("unknown entry kind specification: %s", text)
	}
	return nil
}

// String provides a human-readable representation of an entry kind.
func (k EntryKind) String() string {
	text, err := k.MarshalText()
	if err != nil {
		return "unknown"
	}
	return string(text)
}

// FsEntry is the live, ephemeral counterpart of a ManifestEntry, produced
// fresh by the directory lister on every traversal (spec §3). Files carry
// only metadata here; their digest is computed on demand by the hasher.
type FsEntry struct {
	// Kind classifies the child.
	Kind EntryKind
	// ModificationTimeNanos is the child's modification time, truncated to
	// nanoseconds since the Unix epoch. Populated for File and left zero for
	// Dir and Symlink, which carry no modification-time-based comparison.
	ModificationTimeNanos uint64
	// Size is the file's size in bytes. Populated for File only.
	Size uint64
	// Target is the raw, unresolved symlink target. Populated for Symlink
	// only.
	Target string
}
