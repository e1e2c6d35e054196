// Package textnorm builds the comparison keys used to match model output
// against resume text.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// separators collapse into a single space together with any whitespace.
const separators = ",.;:()-"

// Normalize lowercases s and collapses every run of whitespace and separator
// punctuation into a single space. The result has no leading or trailing space.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// A Caser keeps state between calls, so each call gets its own.
	lower := cases.Lower(language.Und).String(s)

	var b strings.Builder
	b.Grow(len(lower))

	pending := false
	for _, r := range lower {
		if isSeparator(r) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pending = false
		b.WriteRune(r)
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff' || strings.ContainsRune(separators, r)
}
