// Package manifest defines the path-to-hash mapping produced by a tree scan,
// its persisted line format, and the comparison between two manifests.
//
// The persisted form is one entry per line, "<hex_hash>  <relative_path>",
// newline-terminated, with a two-space delimiter matching the conventional
// checksum-file layout. Relative paths always use forward slashes and carry
// no leading slash, so manifests are portable across platforms.
package manifest

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotFound reports a missing scan root or manifest file.
	ErrNotFound = errors.New("not found")
	// ErrParse reports a malformed manifest line or a duplicate path.
	ErrParse = errors.New("malformed manifest")
)

// Entry is a single manifest record.
type Entry struct {
	RelPath string
	Hash    string
}

// Manifest maps relative paths to lowercase hex content hashes.
// Paths are unique; Add rejects duplicates.
type Manifest struct {
	hashes map[string]string
}

// New creates an empty manifest.
func New() *Manifest {
	return &Manifest{hashes: make(map[string]string)}
}

// Add records the hash for relPath. Adding a path twice is an error,
// even with an identical hash.
func (m *Manifest) Add(relPath, hash string) error {
	if relPath == "" {
		return errors.New("empty path")
	}
	if _, ok := m.hashes[relPath]; ok {
		return fmt.Errorf("duplicate path %q", relPath)
	}
	m.hashes[relPath] = hash
	return nil
}

// Get returns the hash recorded for relPath.
func (m *Manifest) Get(relPath string) (string, bool) {
	h, ok := m.hashes[relPath]
	return h, ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.hashes)
}

// Paths returns all relative paths sorted lexicographically.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.hashes))
	for p := range m.hashes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Entries returns all records sorted by relative path.
func (m *Manifest) Entries() []Entry {
	entries := make([]Entry, 0, len(m.hashes))
	for _, p := range m.Paths() {
		entries = append(entries, Entry{RelPath: p, Hash: m.hashes[p]})
	}
	return entries
}

// Equal reports whether two manifests have the same key set and hashes.
func (m *Manifest) Equal(other *Manifest) bool {
	if len(m.hashes) != len(other.hashes) {
		return false
	}
	for p, h := range m.hashes {
		if oh, ok := other.hashes[p]; !ok || oh != h {
			return false
		}
	}
	return true
}
