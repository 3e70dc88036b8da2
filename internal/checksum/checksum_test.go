package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	h1, err := File(path, Default)
	require.NoError(t, err)
	assert.NotEmpty(t, h1)

	// Same content should produce the same hash.
	path2 := filepath.Join(dir, "test2.txt")
	require.NoError(t, os.WriteFile(path2, []byte("hello world"), 0644))
	h2, err := File(path2, Default)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	// Different content should produce a different hash.
	path3 := filepath.Join(dir, "test3.txt")
	require.NoError(t, os.WriteFile(path3, []byte("different content"), 0644))
	h3, err := File(path3, Default)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestFileKnownDigests(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	md5sum, err := File(path, MD5)
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", md5sum)

	sha, err := File(path, SHA256)
	require.NoError(t, err)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", sha)
}

func TestFileAlgorithmsDisagree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0644))

	seen := map[string]Algorithm{}
	for _, algo := range []Algorithm{BLAKE3, MD5, SHA256} {
		h, err := File(path, algo)
		require.NoError(t, err)
		prev, dup := seen[h]
		require.False(t, dup, "algorithms %s and %s produced the same digest", prev, algo)
		seen[h] = algo
	}
}

func TestFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	h, err := File(path, Default)
	require.NoError(t, err)
	assert.NotEmpty(t, h)
}

func TestFileNotExist(t *testing.T) {
	_, err := File("/nonexistent/file", Default)
	assert.Error(t, err)
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{in: "blake3", want: BLAKE3},
		{in: "md5", want: MD5},
		{in: "sha256", want: SHA256},
		{in: "", want: Default},
		{in: "crc32", wantErr: true},
		{in: "SHA256", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
