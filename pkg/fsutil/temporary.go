package fsutil

const (
	// TemporaryNamePrefix is the file name prefix used for all temporary
	// files created by Treeward, so that intermediate atomic-write files are
	// recognizable by name. The directory lister does not exclude names with
	// this prefix: a temporary file present during a listing is reported as
	// an ordinary child.
	TemporaryNamePrefix = ".treeward-temporary-"

	// ManifestFileName is the reserved, hidden name of the per-directory
	// manifest file. It is never listed as a child in any manifest and is
	// always excluded from the directory lister's output (spec §4.B, §6).
	ManifestFileName = ".treeward"
)
