package treediff

import "fmt"

// ChangeKind is the closed classification of a detected difference between
// a manifest and the live filesystem (spec §3).
type ChangeKind uint8

const (
	// ChangeKindAdded indicates a child present on disk but absent from the
	// manifest.
	ChangeKindAdded ChangeKind = iota
	// ChangeKindRemoved indicates a child present in the manifest but absent
	// from disk.
	ChangeKindRemoved
	// ChangeKindPossiblyModified indicates a metadata mismatch that a
	// lower-effort policy did not resolve with a rehash.
	ChangeKindPossiblyModified
	// ChangeKindModified indicates a confirmed content difference (a rehash
	// was performed and digests disagreed).
	ChangeKindModified
)

// MarshalText implements encoding.TextMarshaler.MarshalText.
func (k ChangeKind) MarshalText() ([]byte, error) {
	var result string
	switch k {
	case ChangeKindAdded:
		result = "Added"
	case ChangeKindRemoved:
		result = "Removed"
	case ChangeKindPossiblyModified:
		result = "PossiblyModified"
	case ChangeKindModified:
		result = "Modified"
	default:
		return nil, fmt.Errorf("unknown change kind: %d", k)
	}
	return []byte(result), nil
}

// String provides a human-readable representation of a change kind.
func (k ChangeKind) String() string {
	text, err := k.MarshalText()
	if err != nil {
		return "Unknown"
	}
	return string(text)
}

// tag returns the single-byte discriminator used when fingerprinting a
// change set (spec §4.E step 6).
func (k ChangeKind) tag() byte {
	return byte(k) + '0'
}

// Change is a single detected difference between a manifest and the live
// filesystem: a path (relative to the traversal root) and its ChangeKind
// (spec §3).
type Change struct {
	// Path is the change's location, relative to the traversal root.
	Path string
	// Kind classifies the change.
	Kind ChangeKind
}
