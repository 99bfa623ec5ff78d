package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashComputesDigestAndSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	content := []byte("hello\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	result, err := Hash(path)
	require.NoError(t, err)

	expected := sha256.Sum256(content)
	require.Equal(t, hex.EncodeToString(expected[:]), result.Digest)
	require.Equal(t, uint64(len(content)), result.Size)
	require.NotZero(t, result.ModificationTimeNanos)
}

func TestHashMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Hash(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
