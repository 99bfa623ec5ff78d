package fsutil

import (
	"os"
	"path/filepath"

	"github.com/treeward/treeward/pkg/twerrors"
)

// lstatEntry classifies a single child on Windows, where there is no raw
// Stat_t to read a native nanosecond mtime from; os.Lstat's reported
// modification time is used instead (see the teacher's analogous
// device_windows.go no-op split, adapted here to the directory lister).
func lstatEntry(dir, name string) (FsEntry, error) {
	path := filepath.Join(dir, name)

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsPermission(err) {
			return FsEntry{}, twerrors.New(twerrors.KindPermissionDenied, path, err)
		}
		return FsEntry{}, twerrors.New(twerrors.KindIO, path, err)
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return FsEntry{}, twerrors.New(twerrors.KindIO, path, err)
		}
		return FsEntry{Kind: EntryKindSymlink, Target: target}, nil
	case mode.IsDir():
		return FsEntry{Kind: EntryKindDir}, nil
	case mode.IsRegular():
		return FsEntry{
			Kind:                  EntryKindFile,
			ModificationTimeNanos: uint64(info.ModTime().UnixNano()),
			Size:                  uint64(info.Size()),
		}, nil
	default:
		return FsEntry{}, twerrors.New(twerrors.KindInvalidChild, path, nil)
	}
}
