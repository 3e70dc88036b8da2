// Package checksum computes content hashes for manifest entries.
package checksum

import (
	"crypto/md5"  //nolint:gosec // content identity, not security
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Algorithm selects the content hash used for manifest entries.
type Algorithm string

const (
	BLAKE3 Algorithm = "blake3"
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
)

// Default is the algorithm used when none is configured.
const Default = BLAKE3

// ParseAlgorithm validates an algorithm name from a flag or config file.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case BLAKE3, MD5, SHA256:
		return Algorithm(s), nil
	case "":
		return Default, nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q (supported: blake3, md5, sha256)", s)
	}
}

func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case BLAKE3:
		return blake3.New(), nil
	case MD5:
		return md5.New(), nil //nolint:gosec // content identity, not security
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", string(a))
	}
}

// File computes the content hash of the file at path using algo,
// returning the lowercase hex digest.
func File(path string, algo Algorithm) (string, error) {
	h, err := algo.newHash()
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
