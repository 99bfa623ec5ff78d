// Package fsutil provides the filesystem primitives shared by Treeward's
// core: non-following single-level directory enumeration, the reserved
// manifest filename, and atomic file writes.
package fsutil
