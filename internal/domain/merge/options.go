package merge

import (
	"submerge/internal/errors"
	"submerge/internal/language"
	"submerge/internal/srt"
)

// Options configures one pipeline run. The zero value is not usable;
// start from DefaultOptions and overlay caller input.
type Options struct {
	EnableBasicMerge   bool `json:"enableBasicMerge"`
	MaxMergeCount      int  `json:"maxMergeCount"`
	CandidateChunkSize int  `json:"candidateChunkSize"`
	MaxTextLength      int  `json:"maxTextLength"`
	MaxBasicGap        int  `json:"maxBasicGap"`
	MinTextLength      int  `json:"minTextLength"`
	EnableSpaceMerge   bool `json:"enableSpaceMerge"`

	EnableDuplicateMerge bool `json:"enableDuplicateMerge"`
	MaxDuplicateGap      int  `json:"maxDuplicateGap"`

	EnableEndStartMerge bool `json:"enableEndStartMerge"`
	MaxEndStartGap      int  `json:"maxEndStartGap"`

	EnableMinLengthMerge bool `json:"enableMinLengthMerge"`

	EnableMinDurationRemove bool `json:"enableMinDurationRemove"`
	MinDurationMs           int  `json:"minDurationMs"`

	EnableSegmentAnalyzer   bool              `json:"enableSegmentAnalyzer"`
	SegmentAnalyzerLanguage language.Language `json:"segmentAnalyzerLanguage"`
}

// DefaultOptions returns the documented defaults: every merge pass off,
// thresholds at their conventional values.
func DefaultOptions() Options {
	return Options{
		MaxMergeCount:           2,
		CandidateChunkSize:      3,
		MaxTextLength:           50,
		MaxBasicGap:             500,
		MinTextLength:           1,
		MaxDuplicateGap:         300,
		MaxEndStartGap:          300,
		MinDurationMs:           300,
		SegmentAnalyzerLanguage: language.English,
	}
}

// Normalized resolves the analyzer language, mapping unknown values to the
// default instead of failing.
func (o Options) Normalized() Options {
	o.SegmentAnalyzerLanguage = language.Parse(string(o.SegmentAnalyzerLanguage))
	return o
}

// Validate rejects option values outside their domain before anything is
// processed.
func (o Options) Validate() error {
	if o.MaxMergeCount < 1 {
		return errors.Configf("maxMergeCount must be >= 1, got %d", o.MaxMergeCount)
	}
	if o.CandidateChunkSize < 1 {
		return errors.Configf("candidateChunkSize must be >= 1, got %d", o.CandidateChunkSize)
	}
	if o.MaxTextLength < 1 {
		return errors.Configf("maxTextLength must be >= 1, got %d", o.MaxTextLength)
	}
	if o.MaxBasicGap < 0 {
		return errors.Configf("maxBasicGap must be >= 0, got %d", o.MaxBasicGap)
	}
	if o.MinTextLength < 1 {
		return errors.Configf("minTextLength must be >= 1, got %d", o.MinTextLength)
	}
	if o.MaxDuplicateGap < 0 {
		return errors.Configf("maxDuplicateGap must be >= 0, got %d", o.MaxDuplicateGap)
	}
	if o.MaxEndStartGap < 0 {
		return errors.Configf("maxEndStartGap must be >= 0, got %d", o.MaxEndStartGap)
	}
	if o.MinDurationMs < 0 {
		return errors.Configf("minDurationMs must be >= 0, got %d", o.MinDurationMs)
	}
	return nil
}

// TimeRange restricts processing to entries overlapping [Start, End).
type TimeRange struct {
	Start srt.Timestamp
	End   srt.Timestamp
}

// Validate requires a non-empty window.
func (r TimeRange) Validate() error {
	if r.Start >= r.End {
		return errors.Configf("time range start %s must be before end %s", r.Start, r.End)
	}
	return nil
}
