package manifest

import "sort"

// Mismatch pairs a path present in both manifests with its differing hashes.
type Mismatch struct {
	Path  string
	HashA string
	HashB string
}

// DiffResult partitions the union of two manifests' paths into entries only
// in A, entries only in B, and paths in both whose hashes differ. A path with
// equal hashes on both sides appears in none of the three. Each slice is
// sorted by path so rendering is deterministic.
type DiffResult struct {
	OnlyInA    []Entry
	OnlyInB    []Entry
	Mismatched []Mismatch
}

// Empty reports whether the two manifests were identical.
func (d DiffResult) Empty() bool {
	return len(d.OnlyInA) == 0 && len(d.OnlyInB) == 0 && len(d.Mismatched) == 0
}

// Compare computes the three-way diff of a against b in a single pass over
// the union of keys. Pure function of its inputs.
func Compare(a, b *Manifest) DiffResult {
	var d DiffResult
	for p, ha := range a.hashes {
		hb, ok := b.hashes[p]
		switch {
		case !ok:
			d.OnlyInA = append(d.OnlyInA, Entry{RelPath: p, Hash: ha})
		case ha != hb:
			d.Mismatched = append(d.Mismatched, Mismatch{Path: p, HashA: ha, HashB: hb})
		}
	}
	for p, hb := range b.hashes {
		if _, ok := a.hashes[p]; !ok {
			d.OnlyInB = append(d.OnlyInB, Entry{RelPath: p, Hash: hb})
		}
	}

	sort.Slice(d.OnlyInA, func(i, j int) bool { return d.OnlyInA[i].RelPath < d.OnlyInA[j].RelPath })
	sort.Slice(d.OnlyInB, func(i, j int) bool { return d.OnlyInB[i].RelPath < d.OnlyInB[j].RelPath })
	sort.Slice(d.Mismatched, func(i, j int) bool { return d.Mismatched[i].Path < d.Mismatched[j].Path })
	return d
}
