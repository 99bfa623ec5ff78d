package treediff

// pathJoin is a fast alternative to path.Join for root-relative traversal
// paths, avoiding path.Join's cleaning overhead. leaf must be non-empty.
// Carried directly from the teacher's synchronization core package, which
// solves the identical root-relative-path-arithmetic problem.
func pathJoin(base, leaf string) string {
	if leaf == "" {
		panic("empty leaf name")
	}
	if base == "" {
		return leaf
	}
	return base + "/" + leaf
}
