package ports

import (
	"submerge/internal/language"
)

// Analysis is an analyzer's verdict on one text fragment.
type Analysis struct {
	Tokens []string

	// Completeness estimates whether the fragment ends a grammatically
	// closed unit, in [0,1]. CompleteSentence is the thresholded form.
	Completeness     float64
	CompleteSentence bool

	// BreakNaturalness estimates how acceptable it is to cut the subtitle
	// stream after this fragment, in [0,1].
	BreakNaturalness float64
}

// SegmentAnalyzer judges subtitle fragments for the candidate scorer.
//
// Implementations may initialize per-language resources lazily but must be
// safe for concurrent Analyze calls across pipeline runs.
type SegmentAnalyzer interface {
	Analyze(text string, lang language.Language) (Analysis, error)
}
