// Package pipeline wires the parsing, filtering, and merge passes into one
// run over raw subtitle text.
package pipeline

import (
	"log/slog"

	"submerge/internal/analyzer"
	"submerge/internal/domain/merge"
	"submerge/internal/ports"
	"submerge/internal/srt"
)

// Deps are the collaborators a run needs. The analyzer is injected so its
// profile cache is shared across runs; a nil Logger discards run logs.
type Deps struct {
	Analyzer ports.SegmentAnalyzer
	Logger   *slog.Logger
}

// DefaultDeps builds production dependencies around the shared analyzer.
func DefaultDeps(logger *slog.Logger) Deps {
	return Deps{Analyzer: analyzer.New(), Logger: logger}
}

// Result is one finished run: the final document, its SRT serialization,
// and entry counts. BeforeCount is taken right after parsing, AfterCount
// after the last pass.
type Result struct {
	Output      string
	Document    srt.Document
	BeforeCount int
	AfterCount  int

	DurationRemoved int
	BracketRemoved  int
	RangeRemoved    int
}

// Run parses raw subtitle text, applies the configured passes in fixed
// order, and serializes the survivors. Passes that are switched off are
// identity transforms. Each run is sequential and owns all of its state,
// so concurrent runs may share the same Deps.
func Run(raw string, opts merge.Options, tr *merge.TimeRange, deps Deps) (Result, error) {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	opts = opts.Normalized()
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if tr != nil {
		if err := tr.Validate(); err != nil {
			return Result{}, err
		}
	}

	doc, err := srt.Parse(raw)
	if err != nil {
		return Result{}, err
	}
	res := Result{BeforeCount: len(doc)}
	log.Info("parsed subtitle text", "entries", res.BeforeCount)

	if opts.EnableMinDurationRemove {
		doc, res.DurationRemoved = merge.Duration(doc, opts.MinDurationMs)
		log.Info("duration filter", "removed", res.DurationRemoved, "entries", len(doc))
	}

	var bracketRemoved int
	doc, bracketRemoved = merge.Bracket(doc)
	res.BracketRemoved = bracketRemoved
	log.Info("bracket filter", "removed", bracketRemoved, "entries", len(doc))

	if tr != nil {
		doc, res.RangeRemoved = merge.Clip(doc, tr)
		log.Info("time range filter", "removed", res.RangeRemoved, "entries", len(doc))
	}

	if opts.EnableBasicMerge {
		scorer := &merge.Scorer{
			Analyzer: deps.Analyzer,
			Language: opts.SegmentAnalyzerLanguage,
			Enabled:  opts.EnableSegmentAnalyzer,
		}
		doc, err = merge.Basic(doc, opts, scorer)
		if err != nil {
			return Result{}, err
		}
		log.Info("basic merge", "entries", len(doc))
	}

	if opts.EnableDuplicateMerge {
		doc = merge.Duplicate(doc, opts.MaxDuplicateGap)
		log.Info("duplicate merge", "entries", len(doc))
	}

	if opts.EnableEndStartMerge {
		doc = merge.EndStart(doc, opts.MaxEndStartGap, opts.EnableSpaceMerge)
		log.Info("end-start merge", "entries", len(doc))
	}

	if opts.EnableMinLengthMerge {
		doc = merge.MinLength(doc, opts.MinTextLength, opts.EnableSpaceMerge)
		log.Info("min-length merge", "entries", len(doc))
	}

	doc = doc.Reindex()
	res.AfterCount = len(doc)
	res.Document = doc
	res.Output = srt.Render(doc)
	log.Info("run complete", "before", res.BeforeCount, "after", res.AfterCount)
	return res, nil
}

var _ ports.SegmentAnalyzer = (*analyzer.Analyzer)(nil)
