package merge

import (
	"submerge/internal/srt"
)

// MinLength folds entries with fewer than minLen visible runes into a
// neighbor, choosing the one across the smaller gap and preferring the
// following entry on a tie. The scan restarts after every fold so a merged
// entry that is still too short keeps folding, until no violation remains
// or a single entry is left.
func MinLength(doc srt.Document, minLen int, spaceMerge bool) srt.Document {
	out := append(srt.Document(nil), doc...)
	for len(out) > 1 {
		v := -1
		for i, e := range out {
			if textLength(e.Text) < minLen {
				v = i
				break
			}
		}
		if v < 0 {
			break
		}
		out = foldShortEntry(out, v, spaceMerge)
	}
	return out.Reindex()
}

// foldShortEntry merges the entry at v into its closer neighbor and
// returns the shortened document.
func foldShortEntry(doc srt.Document, v int, spaceMerge bool) srt.Document {
	useNext := v == 0
	if v > 0 && v < len(doc)-1 {
		prevGap := doc[v].Start - doc[v-1].End
		nextGap := doc[v+1].Start - doc[v].End
		useNext = nextGap <= prevGap
	}

	var lo, hi int
	var merged srt.Entry
	if useNext {
		lo, hi = v, v+1
		merged = srt.Entry{
			Start: doc[v].Start,
			End:   doc[v+1].End,
			Text:  joinText(doc[v].Text, doc[v+1].Text, spaceMerge),
		}
	} else {
		lo, hi = v-1, v
		merged = srt.Entry{
			Start: doc[v-1].Start,
			End:   doc[v].End,
			Text:  joinText(doc[v-1].Text, doc[v].Text, spaceMerge),
		}
	}

	out := make(srt.Document, 0, len(doc)-1)
	out = append(out, doc[:lo]...)
	out = append(out, merged)
	out = append(out, doc[hi+1:]...)
	return out
}
