package merge

import (
	"strings"

	"submerge/internal/srt"
)

// Duration removes entries shorter than minDurationMs. Order is kept and
// the survivors are re-indexed.
func Duration(doc srt.Document, minDurationMs int) (srt.Document, int) {
	out := make(srt.Document, 0, len(doc))
	removed := 0
	for _, e := range doc {
		if int64(e.Duration()) < int64(minDurationMs) {
			removed++
			continue
		}
		out = append(out, e)
	}
	return out.Reindex(), removed
}

var bracketPairs = map[rune]rune{
	'[': ']',
	'(': ')',
	'（': '）',
	'【': '】',
}

// Bracket removes entries whose whole text is a single bracketed
// annotation such as "[음악]" or "(applause)". Brackets inside otherwise
// normal text are left alone.
func Bracket(doc srt.Document) (srt.Document, int) {
	out := make(srt.Document, 0, len(doc))
	removed := 0
	for _, e := range doc {
		if bracketed(e.Text) {
			removed++
			continue
		}
		out = append(out, e)
	}
	return out.Reindex(), removed
}

// bracketed reports whether text is exactly one balanced bracket pair with
// nothing outside it.
func bracketed(text string) bool {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) < 2 {
		return false
	}
	open := runes[0]
	closer, ok := bracketPairs[open]
	if !ok || runes[len(runes)-1] != closer {
		return false
	}
	depth := 0
	for i, r := range runes {
		switch r {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 && i != len(runes)-1 {
				// The pair closes early, so text continues outside it.
				return false
			}
		}
	}
	return depth == 0
}

// Clip keeps entries overlapping the range, partial overlap included.
// A nil range keeps everything.
func Clip(doc srt.Document, r *TimeRange) (srt.Document, int) {
	if r == nil {
		return doc, 0
	}
	out := make(srt.Document, 0, len(doc))
	removed := 0
	for _, e := range doc {
		if e.End > r.Start && e.Start < r.End {
			out = append(out, e)
			continue
		}
		removed++
	}
	return out.Reindex(), removed
}
