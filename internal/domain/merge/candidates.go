package merge

import (
	"strings"

	"submerge/internal/srt"
)

// Candidate is a tentative merge of Count consecutive entries starting at
// StartIndex (zero-based document position). Candidates exist only inside
// the basic-merge pass.
type Candidate struct {
	StartIndex int
	Count      int
	Text       string
	Start      srt.Timestamp
	End        srt.Timestamp
	Score      float64
}

// BuildCandidates enumerates the merge windows opening at position at.
// Window length runs from 1 up to min(maxMergeCount, candidateChunkSize,
// remaining entries). A window is valid when every internal gap fits
// maxBasicGap and the joined text fits maxTextLength; with min-length
// merging on, multi-entry windows also require every member to carry at
// least minTextLength visible runes. The single-entry window is exempt
// from all constraints, so the result is never empty for a position
// inside the document.
func BuildCandidates(doc srt.Document, at int, opts Options) []Candidate {
	if at < 0 || at >= len(doc) {
		return nil
	}

	limit := opts.MaxMergeCount
	if opts.CandidateChunkSize < limit {
		limit = opts.CandidateChunkSize
	}
	if rem := len(doc) - at; rem < limit {
		limit = rem
	}

	first := doc[at]
	text := strings.TrimSpace(first.Text)
	end := first.End
	out := []Candidate{{
		StartIndex: at,
		Count:      1,
		Text:       text,
		Start:      first.Start,
		End:        end,
	}}

	tooShort := opts.EnableMinLengthMerge && textLength(first.Text) < opts.MinTextLength
	for k := 2; k <= limit; k++ {
		next := doc[at+k-1]
		// Gap and length violations are monotone: every longer window
		// shares them, so stop growing.
		if next.Start-end > srt.Timestamp(opts.MaxBasicGap) {
			break
		}
		joined := joinText(text, next.Text, opts.EnableSpaceMerge)
		if len([]rune(joined)) > opts.MaxTextLength {
			break
		}
		text = joined
		end = next.End
		if opts.EnableMinLengthMerge && textLength(next.Text) < opts.MinTextLength {
			tooShort = true
		}
		if tooShort {
			continue
		}
		out = append(out, Candidate{
			StartIndex: at,
			Count:      k,
			Text:       text,
			Start:      first.Start,
			End:        end,
		})
	}
	return out
}
