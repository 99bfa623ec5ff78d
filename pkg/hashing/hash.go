// Package hashing implements Treeward's content hasher (component A):
// a streaming SHA-256 digest bracketed by a before/after modification-time
// sample so that a write racing the read is detected rather than silently
// digested (spec §4.A).
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/treeward/treeward/pkg/twerrors"
)

// hashCopyBufferSize is the size of the buffer used to stream file data into
// the digest. Carried over from the teacher's scannerCopyBufferSize, which
// in turn matches the buffer size io.Copy allocates when none is supplied.
const hashCopyBufferSize = 32 * 1024

// Result is the outcome of a successful hash operation.
type Result struct {
	// Digest is the hex-encoded SHA-256 digest of the file's contents.
	Digest string
	// ModificationTimeNanos is the file's modification time, as observed
	// immediately after the read completed, truncated to nanoseconds since
	// the Unix epoch.
	ModificationTimeNanos uint64
	// Size is the number of bytes read.
	Size uint64
}

// Hash streams path through SHA-256, bracketing the read with a
// modification-time sample taken before the read and another taken
// immediately after. If the two samples disagree, the read raced a writer
// and the operation fails with twerrors.KindConcurrentModification: there is
// no retry, by design (spec §4.A, §1 Non-goals).
func Hash(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, classifyOpenError(path, err)
	}
	defer file.Close()

	before, err := file.Stat()
	if err != nil {
		return Result{}, twerrors.New(twerrors.KindIO, path, err)
	}
	mtimeBefore := uint64(before.ModTime().UnixNano())

	digest := sha256.New()
	buffer := make([]byte, hashCopyBufferSize)
	copied, err := io.CopyBuffer(digest, file, buffer)
	if err != nil {
		return Result{}, twerrors.New(twerrors.KindIO, path, err)
	}

	after, err := os.Stat(path)
	if err != nil {
		return Result{}, twerrors.New(twerrors.KindIO, path, err)
	}
	mtimeAfter := uint64(after.ModTime().UnixNano())

	if mtimeBefore != mtimeAfter {
		return Result{}, twerrors.New(twerrors.KindConcurrentModification, path, nil)
	}

	return Result{
		Digest:                hex.EncodeToString(digest.Sum(nil)),
		ModificationTimeNanos: mtimeAfter,
		Size:                  uint64(copied),
	}, nil
}

// classifyOpenError maps an os.Open failure to the appropriate error kind.
func classifyOpenError(path string, err error) error {
	if os.IsPermission(err) {
		return twerrors.New(twerrors.KindPermissionDenied, path, err)
	}
	return twerrors.New(twerrors.KindIO, path, err)
}
