package merge

import (
	"strings"

	"submerge/internal/srt"
)

// EndStart joins adjacent entries where the first's last word is printed
// again as the second's first word, a double-print pattern common in OCR
// and live captions. The repeated word is kept once and the rest of the
// second entry is appended. The grown entry is re-checked against its new
// neighbor so whole runs collapse.
func EndStart(doc srt.Document, maxGap int, spaceMerge bool) srt.Document {
	out := make(srt.Document, 0, len(doc))
	for i := 0; i < len(doc); {
		cur := doc[i]
		i++
		for i < len(doc) {
			next := doc[i]
			if next.Start-cur.End > srt.Timestamp(maxGap) {
				break
			}
			curWords := strings.Fields(cur.Text)
			nextWords := strings.Fields(next.Text)
			if len(curWords) == 0 || len(nextWords) == 0 || curWords[len(curWords)-1] != nextWords[0] {
				break
			}
			remainder := strings.Join(nextWords[1:], " ")
			joiner := ""
			if spaceMerge && remainder != "" {
				joiner = " "
			}
			cur.End = next.End
			cur.Text = strings.TrimSpace(cur.Text) + joiner + remainder
			i++
		}
		out = append(out, cur)
	}
	return out.Reindex()
}
