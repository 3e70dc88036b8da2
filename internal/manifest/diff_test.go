package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, entries map[string]string) *Manifest {
	t.Helper()
	m := New()
	for p, h := range entries {
		require.NoError(t, m.Add(p, h))
	}
	return m
}

func TestCompareIdentical(t *testing.T) {
	a := build(t, map[string]string{"a.txt": "1", "b.txt": "2"})
	b := build(t, map[string]string{"a.txt": "1", "b.txt": "2"})

	d := Compare(a, b)
	assert.True(t, d.Empty())
	assert.Empty(t, d.OnlyInA)
	assert.Empty(t, d.OnlyInB)
	assert.Empty(t, d.Mismatched)
}

func TestCompareOnlyIn(t *testing.T) {
	a := build(t, map[string]string{"x.txt": "hash1"})
	b := build(t, map[string]string{"y.txt": "hash2"})

	d := Compare(a, b)
	assert.Equal(t, []Entry{{RelPath: "x.txt", Hash: "hash1"}}, d.OnlyInA)
	assert.Equal(t, []Entry{{RelPath: "y.txt", Hash: "hash2"}}, d.OnlyInB)
	assert.Empty(t, d.Mismatched)
}

func TestCompareMismatch(t *testing.T) {
	a := build(t, map[string]string{"z.txt": "hashA"})
	b := build(t, map[string]string{"z.txt": "hashB"})

	d := Compare(a, b)
	assert.Empty(t, d.OnlyInA)
	assert.Empty(t, d.OnlyInB)
	assert.Equal(t, []Mismatch{{Path: "z.txt", HashA: "hashA", HashB: "hashB"}}, d.Mismatched)
}

func TestCompareEmptyManifests(t *testing.T) {
	d := Compare(New(), New())
	assert.True(t, d.Empty())
}

func TestCompareSortedOutput(t *testing.T) {
	a := build(t, map[string]string{"c.txt": "1", "a.txt": "2", "b.txt": "3"})
	b := New()

	d := Compare(a, b)
	require.Len(t, d.OnlyInA, 3)
	assert.Equal(t, "a.txt", d.OnlyInA[0].RelPath)
	assert.Equal(t, "b.txt", d.OnlyInA[1].RelPath)
	assert.Equal(t, "c.txt", d.OnlyInA[2].RelPath)
}

// diffPaths flattens a DiffResult into per-category path sets.
func diffPaths(d DiffResult) (onlyA, onlyB, mismatched map[string]bool) {
	onlyA = make(map[string]bool)
	onlyB = make(map[string]bool)
	mismatched = make(map[string]bool)
	for _, e := range d.OnlyInA {
		onlyA[e.RelPath] = true
	}
	for _, e := range d.OnlyInB {
		onlyB[e.RelPath] = true
	}
	for _, m := range d.Mismatched {
		mismatched[m.Path] = true
	}
	return onlyA, onlyB, mismatched
}

func TestComparePartitionLaw(t *testing.T) {
	a := build(t, map[string]string{
		"same.txt":     "eq",
		"changed.txt":  "old",
		"a-only.txt":   "1",
		"a-only-2.txt": "2",
	})
	b := build(t, map[string]string{
		"same.txt":    "eq",
		"changed.txt": "new",
		"b-only.txt":  "3",
	})

	d := Compare(a, b)
	onlyA, onlyB, mismatched := diffPaths(d)

	// Pairwise disjoint.
	for p := range onlyA {
		assert.False(t, onlyB[p])
		assert.False(t, mismatched[p])
	}
	for p := range onlyB {
		assert.False(t, mismatched[p])
	}

	// Union of the categories is the union of keys minus equal-hash paths.
	union := make(map[string]bool)
	for _, p := range a.Paths() {
		union[p] = true
	}
	for _, p := range b.Paths() {
		union[p] = true
	}
	for p := range union {
		ha, inA := a.Get(p)
		hb, inB := b.Get(p)
		inDiff := onlyA[p] || onlyB[p] || mismatched[p]
		if inA && inB && ha == hb {
			assert.False(t, inDiff, "unchanged path %s must not be reported", p)
		} else {
			assert.True(t, inDiff, "path %s missing from diff", p)
		}
	}
}

func TestCompareSymmetry(t *testing.T) {
	a := build(t, map[string]string{"x.txt": "1", "both.txt": "a", "shared.txt": "s"})
	b := build(t, map[string]string{"y.txt": "2", "both.txt": "b", "shared.txt": "s"})

	ab := Compare(a, b)
	ba := Compare(b, a)

	assert.Equal(t, ab.OnlyInA, ba.OnlyInB)
	assert.Equal(t, ab.OnlyInB, ba.OnlyInA)

	require.Len(t, ab.Mismatched, 1)
	require.Len(t, ba.Mismatched, 1)
	assert.Equal(t, ab.Mismatched[0].Path, ba.Mismatched[0].Path)
	assert.Equal(t, ab.Mismatched[0].HashA, ba.Mismatched[0].HashB)
	assert.Equal(t, ab.Mismatched[0].HashB, ba.Mismatched[0].HashA)
}
