package merge

import (
	"math"

	"submerge/internal/errors"
	"submerge/internal/language"
	"submerge/internal/ports"
)

// Score weights. Completeness dominates: a merged line that closes a
// sentence beats one that merely joins smoothly.
const (
	weightCompleteness = 0.7
	weightNaturalness  = 0.3

	// singleEntryNaturalness stands in when there is no join to judge.
	singleEntryNaturalness = 0.5
)

// Scorer rates candidates. With the analyzer off the score is the entry
// count, which makes the greedy pass prefer the widest valid window.
type Scorer struct {
	Analyzer ports.SegmentAnalyzer
	Language language.Language
	Enabled  bool
}

// Score returns the candidate's quality in [0,1], or its entry count when
// heuristic scoring is disabled.
func (s *Scorer) Score(c Candidate) (float64, error) {
	if !s.Enabled || s.Analyzer == nil {
		return float64(c.Count), nil
	}
	an, err := s.Analyzer.Analyze(c.Text, s.Language)
	if err != nil {
		return 0, errors.Wrap(err, errors.KindInternal, "analyze candidate")
	}
	naturalness := an.BreakNaturalness
	if c.Count == 1 {
		naturalness = singleEntryNaturalness
	}
	return round4(weightCompleteness*an.Completeness + weightNaturalness*naturalness), nil
}

// better orders candidates for selection: higher score, then more entries
// consumed, then shorter merged text, then earlier end.
func better(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	if la, lb := len([]rune(a.Text)), len([]rune(b.Text)); la != lb {
		return la < lb
	}
	return a.End < b.End
}

func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
