// Package textnorm normalizes offer text and matches dictionary terms against it.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var replacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"œ", "oe",
	"æ", "ae",
)

// Normalize lowercases s, strips diacritics and collapses every whitespace run
// (including newlines) to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(fold(s)), " ")
}

// fold lowercases and strips combining marks without touching whitespace.
func fold(s string) string {
	if s == "" {
		return ""
	}
	lower := replacer.Replace(strings.ToLower(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, lower)
	if err != nil {
		return lower
	}
	return out
}

// isWordRune reports whether r belongs to a token. '+' and '#' are word runes
// so that "c" never matches inside "c++" or "c#".
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#'
}

// ContainsTerm reports whether term occurs in text on word boundaries at both
// ends. Both arguments must already be normalized.
func ContainsTerm(text, term string) bool {
	return indexBounded(text, term, true) >= 0
}

// HasWordPrefix reports whether some word of text starts with prefix, so that
// "developp" matches "developpeur" and "developpement".
func HasWordPrefix(text, prefix string) bool {
	return indexBounded(text, prefix, false) >= 0
}

// FindAll returns the start offset of every bounded occurrence of term.
func FindAll(text, term string) []int {
	var out []int
	for offset := 0; offset < len(text); {
		i := indexBounded(text[offset:], term, true)
		if i < 0 {
			break
		}
		// Boundaries must be judged against the full text, not the slice.
		start := offset + i
		if boundaryBefore(text, start) {
			out = append(out, start)
		}
		offset = start + 1
	}
	return out
}

func indexBounded(text, term string, checkEnd bool) int {
	if term == "" || len(term) > len(text) {
		return -1
	}
	offset := 0
	for {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(term)
		if boundaryBefore(text, start) && (!checkEnd || boundaryAfter(text, end)) {
			return start
		}
		offset = start + 1
		if offset >= len(text) {
			return -1
		}
	}
}

// boundaryBefore rejects a match glued to the previous token, including the
// "node.js" case where a dot joins two word runes.
func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, size := utf8.DecodeLastRuneInString(text[:start])
	if isWordRune(r) {
		return false
	}
	if r == '.' {
		prev, _ := utf8.DecodeLastRuneInString(text[:start-size])
		return !isWordRune(prev)
	}
	return true
}

// boundaryAfter rejects a match followed by a word rune, an elision
// apostrophe ("c'est") or a dot that continues the token ("node.js").
func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, size := utf8.DecodeRuneInString(text[end:])
	if isWordRune(r) || r == '\'' {
		return false
	}
	if r == '.' && end+size < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end+size:])
		return !isWordRune(next)
	}
	return true
}
