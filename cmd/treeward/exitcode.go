package main

import "github.com/treeward/treeward/pkg/twerrors"

// Exit codes. 0 always means "the operation's contract succeeded with no
// detected changes (for verify) or no errors (for the others)" (spec §6).
// The core returns a structured, kind-tagged error; this is the one place
// that taxonomy is translated into a process exit status, since spec §6
// explicitly leaves the exact mapping to the shell.
const (
	exitCodeSuccess = 0
	exitCodeGeneric = 1

	exitCodeIO                    = 10
	exitCodePermissionDenied      = 11
	exitCodeConcurrentModification = 12
	exitCodeCorruptedManifest     = 13
	exitCodeNotInitialized        = 14
	exitCodeFingerprintMismatch   = 15
	exitCodeInvalidChild          = 16

	// exitCodeChangesDetected is verify's failure code: the tree is
	// intact and readable, but differs from its manifests.
	exitCodeChangesDetected = 20
)

// exitCodeForError maps a core error to the exit code the shell should
// report. Errors that aren't one of twerrors' closed kinds (e.g. flag
// parsing failures) fall back to the generic failure code.
func exitCodeForError(err error) int {
	typed, ok := err.(*twerrors.Error)
	if !ok {
		return exitCodeGeneric
	}
	switch typed.Kind {
	case twerrors.KindIO:
		return exitCodeIO
	case twerrors.KindPermissionDenied:
		return exitCodePermissionDenied
	case twerrors.KindConcurrentModification:
		return exitCodeConcurrentModification
	case twerrors.KindCorruptedManifest:
		return exitCodeCorruptedManifest
	case twerrors.KindNotInitialized:
		return exitCodeNotInitialized
	case twerrors.KindFingerprintMismatch:
		return exitCodeFingerprintMismatch
	case twerrors.KindInvalidChild:
		return exitCodeInvalidChild
	default:
		return exitCodeGeneric
	}
}
