package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// delimiter separates the hash field from the path field on each line.
// Two spaces, the same layout md5sum and friends emit.
const delimiter = "  "

// Write serializes the manifest, one entry per line sorted by path.
func Write(w io.Writer, m *Manifest) error {
	bw := bufio.NewWriter(w)
	for _, e := range m.Entries() {
		if _, err := fmt.Fprintf(bw, "%s%s%s\n", e.Hash, delimiter, e.RelPath); err != nil {
			return fmt.Errorf("write entry %s: %w", e.RelPath, err)
		}
	}
	return bw.Flush()
}

// WriteFile writes the manifest to path, replacing any existing file.
func WriteFile(path string, m *Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest %s: %w", path, err)
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close manifest %s: %w", path, err)
	}
	return nil
}

// Read parses the line format back into a manifest. A line without the
// delimiter, an empty field, or a repeated path aborts with ErrParse;
// a partially parsed manifest is never returned.
func Read(r io.Reader) (*Manifest, error) {
	m := New()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		idx := strings.Index(line, delimiter)
		if idx <= 0 {
			return nil, fmt.Errorf("line %d: missing delimiter: %w", lineNum, ErrParse)
		}
		hash, relPath := line[:idx], line[idx+len(delimiter):]
		if relPath == "" {
			return nil, fmt.Errorf("line %d: empty path: %w", lineNum, ErrParse)
		}

		if err := m.Add(relPath, hash); err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", lineNum, err, ErrParse)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return m, nil
}

// ReadFile loads a manifest from path.
func ReadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}
