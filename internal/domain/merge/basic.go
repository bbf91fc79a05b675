package merge

import (
	"submerge/internal/errors"
	"submerge/internal/srt"
)

// Basic runs the greedy window merge. At each cursor position it scores
// the candidate windows opening there, emits the best one as a single
// entry, and jumps past everything that window consumed. No entry is
// visited twice and none is dropped.
func Basic(doc srt.Document, opts Options, scorer *Scorer) (srt.Document, error) {
	if len(doc) == 0 {
		return doc, nil
	}
	out := make(srt.Document, 0, len(doc))
	for at := 0; at < len(doc); {
		cands := BuildCandidates(doc, at, opts)
		if len(cands) == 0 {
			// The length-1 fallback makes this unreachable.
			return nil, errors.Internalf("no merge candidates at entry %d", at+1)
		}
		for i := range cands {
			score, err := scorer.Score(cands[i])
			if err != nil {
				return nil, err
			}
			cands[i].Score = score
		}
		best := cands[0]
		for _, c := range cands[1:] {
			if better(c, best) {
				best = c
			}
		}
		out = append(out, srt.Entry{Start: best.Start, End: best.End, Text: best.Text})
		at += best.Count
	}
	return out.Reindex(), nil
}
