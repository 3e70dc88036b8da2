// Package report renders manifest comparison results as console text or CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/treesum-dev/treesum/internal/manifest"
	"github.com/treesum-dev/treesum/internal/ui"
)

// Category labels used in CSV output.
const (
	CategoryOnlyInA    = "only_in_a"
	CategoryOnlyInB    = "only_in_b"
	CategoryMismatched = "hash_mismatch"
)

// WriteText prints a human-readable comparison summary. Entries within each
// section are already sorted by the comparator.
func WriteText(w io.Writer, d manifest.DiffResult) error {
	p := &printer{w: w}

	if d.Empty() {
		p.printf("Manifests are identical.\n")
		return p.err
	}

	p.printf("Files only in A: %s\n", ui.FormatCount(int64(len(d.OnlyInA))))
	for _, e := range d.OnlyInA {
		p.printf("  %s\n", e.RelPath)
	}

	p.printf("Files only in B: %s\n", ui.FormatCount(int64(len(d.OnlyInB))))
	for _, e := range d.OnlyInB {
		p.printf("  %s\n", e.RelPath)
	}

	p.printf("Files with differing hashes: %s\n", ui.FormatCount(int64(len(d.Mismatched))))
	for _, m := range d.Mismatched {
		p.printf("  %s (%s != %s)\n", m.Path, m.HashA, m.HashB)
	}
	return p.err
}

// printer keeps the first write error and drops everything after it.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// WriteCSV writes the diff with columns (category, relative_path, hash_a,
// hash_b), leaving hash columns blank where not applicable.
func WriteCSV(w io.Writer, d manifest.DiffResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"category", "relative_path", "hash_a", "hash_b"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range d.OnlyInA {
		if err := cw.Write([]string{CategoryOnlyInA, e.RelPath, e.Hash, ""}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	for _, e := range d.OnlyInB {
		if err := cw.Write([]string{CategoryOnlyInB, e.RelPath, "", e.Hash}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	for _, m := range d.Mismatched {
		if err := cw.Write([]string{CategoryMismatched, m.Path, m.HashA, m.HashB}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
