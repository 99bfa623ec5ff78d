package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treeward/treeward/pkg/fsutil"
)

func sampleManifest() *Manifest {
	return &Manifest{
		Version: CurrentVersion,
		Entries: map[string]ManifestEntry{
			"b.txt": {Kind: fsutil.EntryKindFile, Digest: "deadbeef", ModificationTimeNanos: 42, Size: 4},
			"a-dir": {Kind: fsutil.EntryKindDir},
			"link":  {Kind: fsutil.EntryKindSymlink, Target: "../elsewhere"},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := sampleManifest()
	encoded := Encode(m)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, m.Version, decoded.Version)
	require.Equal(t, m.Entries, decoded.Entries)
}

func TestEncodeIsCanonicallySorted(t *testing.T) {
	encoded := string(Encode(sampleManifest()))
	aIndex := indexOf(t, encoded, `[entries."a-dir"]`)
	bIndex := indexOf(t, encoded, `[entries."b.txt"]`)
	linkIndex := indexOf(t, encoded, `[entries."link"]`)
	require.Less(t, aIndex, bIndex)
	require.Less(t, bIndex, linkIndex)
}

func TestEncodeThenEncodeAgainIsByteStable(t *testing.T) {
	m := sampleManifest()
	require.Equal(t, Encode(m), Encode(m))
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	_, err := Decode([]byte("[metadata]\nversion = 99\n"))
	require.Error(t, err)
}

func TestDecodeRejectsUnknownField(t *testing.T) {
	data := []byte("[metadata]\nversion = 1\n\n[entries.\"f\"]\ntype = File\nsha256 = aa\nmtime_nanos = 1\nsize = 1\nbogus = 1\n")
	_, err := Decode(data)
	require.Error(t, err)
}

func TestDecodeRejectsMissingFileAttribute(t *testing.T) {
	data := []byte("[metadata]\nversion = 1\n\n[entries.\"f\"]\ntype = File\nsha256 = aa\n")
	_, err := Decode(data)
	require.Error(t, err)
}

func TestDecodeRejectsDirWithAttributes(t *testing.T) {
	data := []byte("[metadata]\nversion = 1\n\n[entries.\"d\"]\ntype = Dir\nsize = 1\n")
	_, err := Decode(data)
	require.Error(t, err)
}

func TestDecodeEmptyManifestHasNoEntries(t *testing.T) {
	m, err := Decode([]byte("[metadata]\nversion = 1\n"))
	require.NoError(t, err)
	require.Empty(t, m.Entries)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	t.Fatalf("expected to find %q in %q", needle, haystack)
	return -1
}
