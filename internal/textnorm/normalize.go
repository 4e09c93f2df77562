// Package textnorm canonicalises OCR output before any pattern matching
// runs over it.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies Unicode NFC, drops control characters other than
// newlines, and collapses runs of spaces and tabs into single spaces.
// Newlines are preserved because several extraction patterns anchor on
// line ends.
func Normalize(text string) string {
	text = norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\r', unicode.IsControl(r):
			// dropped
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Flatten collapses all whitespace, including newlines, into single
// spaces. Used where a pattern needs to scan across line breaks.
func Flatten(text string) string {
	return strings.Join(strings.Fields(Normalize(text)), " ")
}
