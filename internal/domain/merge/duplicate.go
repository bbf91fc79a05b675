package merge

import (
	"submerge/internal/srt"
)

// Duplicate collapses runs of entries repeating the same normalized text
// with at most maxGap of silence between repeats. The merged entry keeps
// the first repeat's text and spans from its start to the last repeat's
// end. Overlapping repeats (negative gap) are left alone.
func Duplicate(doc srt.Document, maxGap int) srt.Document {
	out := make(srt.Document, 0, len(doc))
	for i := 0; i < len(doc); {
		cur := doc[i]
		text := normalizeText(cur.Text)
		end := cur.End
		n := 1
		for i+n < len(doc) {
			next := doc[i+n]
			gap := next.Start - end
			if normalizeText(next.Text) != text || gap < 0 || gap > srt.Timestamp(maxGap) {
				break
			}
			end = next.End
			n++
		}
		if n > 1 {
			out = append(out, srt.Entry{Start: cur.Start, End: end, Text: cur.Text})
		} else {
			out = append(out, cur)
		}
		i += n
	}
	return out.Reindex()
}
