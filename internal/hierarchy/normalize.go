package hierarchy

import (
	"strings"
	"unicode"
)

// normalizeRune lowercases a rune and folds the accented vowels that show up
// in French stat files to their ASCII base letter. Space, hyphen and slash
// become underscores so the result is usable as a machine identifier.
func normalizeRune(r rune) rune {
	r = unicode.ToLower(r)
	switch r {
	case 'é', 'è', 'ê', 'ë', 'œ':
		return 'e'
	case 'à', 'â':
		return 'a'
	case 'ï':
		return 'i'
	case 'ô':
		return 'o'
	case ' ', '-', '/':
		return '_'
	default:
		return r
	}
}

// Normalize maps a display string to its canonical identifier. It is the
// stable machine key of a tree node, unaffected by cosmetic edits like
// casing or accents in the display text.
func Normalize(s string) string {
	return strings.Map(normalizeRune, s)
}
