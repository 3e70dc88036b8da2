package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// glob matches scan-relative paths using rsync-style wildcard rules:
// a pattern containing (or starting with) "/" is anchored at the scan
// root, anything else matches against the basename or any path suffix,
// and a trailing "/" restricts the pattern to directories.
type glob struct {
	re      *regexp.Regexp
	dirOnly bool
}

func compileGlob(pat string) (*glob, error) {
	g := &glob{}

	p := pat
	if rest, ok := strings.CutSuffix(p, "/"); ok {
		g.dirOnly = true
		p = rest
	}
	anchored := strings.Contains(p, "/")
	p = strings.TrimPrefix(p, "/")

	expr := globExpr(p)
	if anchored {
		expr = "^" + expr + "$"
	} else {
		expr = "(^|/)" + expr + "$"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pat, err)
	}
	g.re = re
	return g, nil
}

func (g *glob) matches(relPath string, isDir bool) bool {
	if g.dirOnly && !isDir {
		return false
	}
	return g.re.MatchString(relPath)
}

// globExpr translates one wildcard pattern into a regular expression.
// "*" stops at path separators, "**" crosses them, "?" is any single
// character except "/", and bracket classes pass through with a
// leading "!" rewritten to "^". Everything else is quoted literally.
func globExpr(pat string) string {
	var b strings.Builder
	lit := 0 // start of the current literal run
	flush := func(end int) {
		if end > lit {
			b.WriteString(regexp.QuoteMeta(pat[lit:end]))
		}
	}

	i := 0
	for i < len(pat) {
		switch pat[i] {
		case '*':
			flush(i)
			switch {
			case strings.HasPrefix(pat[i:], "**/"):
				b.WriteString("(.*/)?")
				i += 3
			case strings.HasPrefix(pat[i:], "**"):
				b.WriteString(".*")
				i += 2
			default:
				b.WriteString("[^/]*")
				i++
			}
			lit = i
		case '?':
			flush(i)
			b.WriteString("[^/]")
			i++
			lit = i
		case '[':
			end := classEnd(pat, i)
			if end < 0 {
				// Unterminated class: the bracket is a literal.
				flush(i)
				b.WriteString(`\[`)
				i++
				lit = i
				break
			}
			flush(i)
			cls := pat[i+1 : end]
			if rest, ok := strings.CutPrefix(cls, "!"); ok {
				cls = "^" + rest
			}
			b.WriteString("[" + cls + "]")
			i = end + 1
			lit = i
		default:
			i++
		}
	}
	flush(len(pat))
	return b.String()
}

// classEnd returns the index of the "]" closing the character class
// that opens at open, or -1 if the class never closes. A "]" directly
// after "[" or "[!" is a literal member, not the terminator.
func classEnd(pat string, open int) int {
	i := open + 1
	if i < len(pat) && pat[i] == '!' {
		i++
	}
	if i < len(pat) && pat[i] == ']' {
		i++
	}
	for ; i < len(pat); i++ {
		if pat[i] == ']' {
			return i
		}
	}
	return -1
}
