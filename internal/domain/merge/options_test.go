package merge

import (
	"testing"

	"submerge/internal/errors"
	"submerge/internal/language"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.EnableBasicMerge || o.EnableDuplicateMerge || o.EnableEndStartMerge ||
		o.EnableMinLengthMerge || o.EnableMinDurationRemove || o.EnableSegmentAnalyzer {
		t.Fatalf("all passes must default off: %+v", o)
	}
	if o.MaxMergeCount != 2 || o.CandidateChunkSize != 3 || o.MaxTextLength != 50 {
		t.Fatalf("bad window defaults: %+v", o)
	}
	if o.MaxBasicGap != 500 || o.MaxDuplicateGap != 300 || o.MaxEndStartGap != 300 {
		t.Fatalf("bad gap defaults: %+v", o)
	}
	if o.MinTextLength != 1 || o.MinDurationMs != 300 {
		t.Fatalf("bad length defaults: %+v", o)
	}
	if o.SegmentAnalyzerLanguage != language.English {
		t.Fatalf("default language = %q", o.SegmentAnalyzerLanguage)
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero merge count", func(o *Options) { o.MaxMergeCount = 0 }},
		{"zero chunk size", func(o *Options) { o.CandidateChunkSize = 0 }},
		{"zero text length", func(o *Options) { o.MaxTextLength = 0 }},
		{"negative basic gap", func(o *Options) { o.MaxBasicGap = -1 }},
		{"zero min text length", func(o *Options) { o.MinTextLength = 0 }},
		{"negative duplicate gap", func(o *Options) { o.MaxDuplicateGap = -1 }},
		{"negative end-start gap", func(o *Options) { o.MaxEndStartGap = -1 }},
		{"negative min duration", func(o *Options) { o.MinDurationMs = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			err := o.Validate()
			if err == nil {
				t.Fatalf("expected config error")
			}
			if !errors.Is(err, errors.ErrConfig) {
				t.Fatalf("kind = %v, want config", errors.KindOf(err))
			}
		})
	}
}

func TestOptionsNormalized(t *testing.T) {
	o := DefaultOptions()
	o.SegmentAnalyzerLanguage = "JA"
	if got := o.Normalized().SegmentAnalyzerLanguage; got != language.Japanese {
		t.Fatalf("normalized language = %q, want ja", got)
	}
	o.SegmentAnalyzerLanguage = "klingon"
	if got := o.Normalized().SegmentAnalyzerLanguage; got != language.English {
		t.Fatalf("unknown language must fall back to en, got %q", got)
	}
}

func TestTimeRangeValidate(t *testing.T) {
	if err := (TimeRange{Start: 0, End: 1000}).Validate(); err != nil {
		t.Fatalf("valid range rejected: %v", err)
	}
	if err := (TimeRange{Start: 1000, End: 1000}).Validate(); err == nil {
		t.Fatalf("empty range must fail")
	}
	if err := (TimeRange{Start: 2000, End: 1000}).Validate(); err == nil {
		t.Fatalf("inverted range must fail")
	}
}
