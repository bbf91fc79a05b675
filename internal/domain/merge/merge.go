// Package merge implements the subtitle consolidation passes: noise
// filters, sliding-window candidate generation with scored greedy
// selection, and the cascading duplicate, end-start, and min-length
// reducers. Every pass takes a document and returns a new one.
package merge

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// joinText concatenates two text pieces, separated by a single space only
// when space-merge is on. Empty sides collapse to the other side.
func joinText(left, right string, spaceMerge bool) string {
	l := strings.TrimSpace(left)
	r := strings.TrimSpace(right)
	if l == "" {
		return r
	}
	if r == "" {
		return l
	}
	sep := ""
	if spaceMerge {
		sep = " "
	}
	return l + sep + r
}

// textLength counts the runes of s that are not whitespace. Length
// thresholds ignore spacing so "안 녕" and "안녕" measure the same.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// normalizeText maps visually equal text to one spelling for duplicate
// detection. Composition matters for Korean, where the same syllable can
// arrive precomposed or as separate jamo.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
