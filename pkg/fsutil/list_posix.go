// +build !windows

package fsutil

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/treeward/treeward/pkg/twerrors"
)

// lstatEntry classifies a single child using a non-following stat, reading
// the modification time directly off unix.Stat_t so that nanosecond
// resolution is preserved (spec §3, §9). Special file types (sockets,
// fifos, devices) are rejected as InvalidChild rather than silently folded
// into File — see DESIGN.md, Open Question 1.
func lstatEntry(dir, name string) (FsEntry, error) {
	path := filepath.Join(dir, name)

	var stat unix.Stat_t
	if err := unix.Lstat(path, &stat); err != nil {
		if err == unix.EACCES {
			return FsEntry{}, twerrors.New(twerrors.KindPermissionDenied, path, err)
		}
		return FsEntry{}, twerrors.New(twerrors.KindIO, path, err)
	}

	switch stat.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		return FsEntry{Kind: EntryKindDir}, nil
	case unix.S_IFREG:
		return FsEntry{
			Kind:                  EntryKindFile,
			ModificationTimeNanos: uint64(stat.Mtim.Sec)*1e9 + uint64(stat.Mtim.Nsec),
			Size:                  uint64(stat.Size),
		}, nil
	case unix.S_IFLNK:
		target, err := os.Readlink(path)
		if err != nil {
			return FsEntry{}, twerrors.New(twerrors.KindIO, path, err)
		}
		return FsEntry{Kind: EntryKindSymlink, Target: target}, nil
	default:
		return FsEntry{}, twerrors.New(twerrors.KindInvalidChild, path, nil)
	}
}
