// Package filter selects which entries a tree scan hashes into the
// manifest. A Chain is an ordered list of include/exclude globs with
// first-match-wins semantics (the rsync model), plus optional size
// bounds that apply to regular files only.
package filter

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type rule struct {
	glob    *glob
	include bool
}

// Chain decides, per scanned entry, whether it belongs in the manifest.
type Chain struct {
	rules   []rule
	minSize int64
	maxSize int64
}

// NewChain creates a chain with no constraints.
func NewChain() *Chain {
	return &Chain{}
}

// AddInclude appends an include rule for pat.
func (c *Chain) AddInclude(pat string) error {
	return c.add(pat, true)
}

// AddExclude appends an exclude rule for pat.
func (c *Chain) AddExclude(pat string) error {
	return c.add(pat, false)
}

func (c *Chain) add(pat string, include bool) error {
	g, err := compileGlob(pat)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, rule{glob: g, include: include})
	return nil
}

// SetMinSize drops regular files smaller than n bytes from the scan.
func (c *Chain) SetMinSize(n int64) {
	c.minSize = n
}

// SetMaxSize drops regular files larger than n bytes from the scan.
func (c *Chain) SetMaxSize(n int64) {
	c.maxSize = n
}

// Empty reports whether the chain constrains the scan at all.
func (c *Chain) Empty() bool {
	return len(c.rules) == 0 && c.minSize == 0 && c.maxSize == 0
}

// Match reports whether the scan should keep relPath. The first rule
// matching the path decides; a path no rule matches is kept. Size
// bounds never apply to directories, so a directory is only dropped by
// an exclude rule (the walker then prunes it whole).
func (c *Chain) Match(relPath string, isDir bool, size int64) bool {
	if !isDir {
		if c.minSize > 0 && size < c.minSize {
			return false
		}
		if c.maxSize > 0 && size > c.maxSize {
			return false
		}
	}

	for _, r := range c.rules {
		if r.glob.matches(relPath, isDir) {
			return r.include
		}
	}
	return true
}

// LoadFile appends rules from a filter file, one per line. A "+ "
// prefix includes, a "- " prefix excludes, a bare pattern excludes,
// and blank or "#" lines are ignored.
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		include := false
		if rest, ok := strings.CutPrefix(line, "+ "); ok {
			include = true
			line = strings.TrimSpace(rest)
		} else if rest, ok := strings.CutPrefix(line, "- "); ok {
			line = strings.TrimSpace(rest)
		}

		if err := c.add(line, include); err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNum, err)
		}
	}
	return sc.Err()
}

// ParseSize converts a size bound like "500K" or "1.5G" into bytes for
// SetMinSize/SetMaxSize. Suffixes K, M, G, and T are powers of 1024; a
// bare number or a B suffix means bytes. Case does not matter.
func ParseSize(s string) (int64, error) {
	num := strings.TrimSpace(s)

	shift := 0
	if n := len(num); n > 0 {
		switch num[n-1] | 0x20 { // ASCII lowercase
		case 'b':
			num = num[:n-1]
		case 'k':
			shift, num = 10, num[:n-1]
		case 'm':
			shift, num = 20, num[:n-1]
		case 'g':
			shift, num = 30, num[:n-1]
		case 't':
			shift, num = 40, num[:n-1]
		}
	}
	if num == "" {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return int64(v * float64(int64(1)<<shift)), nil
}
