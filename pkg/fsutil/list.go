package fsutil

import (
	"os"

	"github.com/treeward/treeward/pkg/twerrors"
)

// List enumerates the immediate children of dir, classifying each as File,
// Dir, or Symlink without descending into subdirectories and without
// following symbolic links (component B, spec §4.B). The reserved manifest
// filename is excluded from the result. An empty directory yields an empty,
// non-nil mapping.
func List(dir string) (map[string]FsEntry, error) {
	handle, err := os.Open(dir)
	if err != nil {
		if os.IsPermission(err) {
			return nil, twerrors.New(twerrors.KindPermissionDenied, dir, err)
		}
		return nil, twerrors.New(twerrors.KindIO, dir, err)
	}
	defer handle.Close()

	names, err := handle.Readdirnames(-1)
	if err != nil {
		return nil, twerrors.New(twerrors.KindIO, dir, err)
	}

	result := make(map[string]FsEntry, len(names))
	for _, name := range names {
		if name == ManifestFileName {
			continue
		}
		entry, err := lstatEntry(dir, name)
		if err != nil {
			return nil, err
		}
		result[name] = entry
	}
	return result, nil
}
