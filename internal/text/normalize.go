// Package text provides normalization for user-supplied profile text.
package text

import (
	"strings"
	"unicode"
)

// NormalizeLine collapses every whitespace run (including newlines and
// non-breaking spaces) into a single space and trims the ends. Used for
// single-line fields such as display names.
func NormalizeLine(s string) string {
	var b strings.Builder

	var space bool

	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == ' ':
			if !space {
				b.WriteRune(' ')
				space = true
			}
		case unicode.IsControl(r):
			// Drop stray control characters entirely.
		default:
			b.WriteRune(r)
			space = false
		}
	}

	return strings.TrimSpace(b.String())
}

// NormalizeBlock prepares multi-line input such as bios: inner whitespace on
// each line collapses to single spaces, control characters are dropped, and
// runs of blank lines shrink to one paragraph break.
func NormalizeBlock(s string) string {
	lines := strings.Split(s, "\n")

	out := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		norm := NormalizeLine(line)
		if norm == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, norm)
		blank = false
	}

	// A trailing paragraph break carries no content.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}
