// Package twerrors defines the closed set of fatal error kinds that Treeward's
// core operations can produce. The hasher, the directory lister, the
// manifest decoder, treediff.Status and planner.Plan report their failures
// as one of these kinds so that the command-line layer can translate them
// into a specific exit code rather than collapsing everything to a generic
// failure.
package twerrors

import "fmt"

// Kind identifies a category of fatal error. The set is closed: a new kind
// requires a coordinated change to every layer that inspects Kind values.
type Kind int

const (
	// KindIO indicates an underlying filesystem error that isn't one of the
	// more specific kinds below.
	KindIO Kind = iota
	// KindPermissionDenied indicates that an operation was denied due to
	// insufficient privileges.
	KindPermissionDenied
	// KindConcurrentModification indicates that the hasher's mtime window
	// caught a writer modifying a file during a read.
	KindConcurrentModification
	// KindCorruptedManifest indicates that a manifest failed to decode:
	// malformed syntax, an unsupported version, an unknown field, or a
	// structural invariant violation.
	KindCorruptedManifest
	// KindNotInitialized indicates that update semantics were requested
	// against a directory that has no manifest and init was not permitted.
	KindNotInitialized
	// KindFingerprintMismatch indicates that the planner's TOCTOU gate
	// rejected a caller-supplied fingerprint.
	KindFingerprintMismatch
	// KindInvalidChild indicates a child whose name is not a single path
	// segment, or whose kind the directory lister cannot classify.
	KindInvalidChild
)

// String returns a human-readable name for the error kind.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindPermissionDenied:
		return "permission-denied"
	case KindConcurrentModification:
		return "concurrent-modification"
	case KindCorruptedManifest:
		return "corrupted-manifest"
	case KindNotInitialized:
		return "not-initialized"
	case KindFingerprintMismatch:
		return "fingerprint-mismatch"
	case KindInvalidChild:
		return "invalid-child"
	default:
		return "unknown"
	}
}

// Error is a fatal, kind-tagged error associated with a filesystem path.
type Error struct {
	// Kind is the category of failure.
	Kind Kind
	// Path is the offending path in the form the reporting operation used:
	// filesystem accesses report the absolute path they touched, while
	// NotInitialized reports the directory relative to the traversal root.
	// It may be empty if no single path is responsible.
	Path string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Kind, e.Path)
}

// Unwrap allows errors.Is/errors.As to see through to the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs a new kind-tagged error.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Is reports whether err (or any error it wraps) carries the specified kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if typed, ok := err.(*Error); ok {
			if typed.Kind == kind {
				return true
			}
			err = typed.Err
			continue
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
