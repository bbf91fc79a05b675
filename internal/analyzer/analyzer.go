// Package analyzer implements the lexicon-driven segment analyzer behind
// ports.SegmentAnalyzer.
//
// Each language profile is decoded from embedded YAML on first use and then
// only read, so one Analyzer can serve concurrent pipeline runs.
package analyzer

import (
	"math"
	"strings"
	"sync"

	"submerge/internal/language"
	"submerge/internal/ports"
)

// Completeness weights and naturalness penalties. Completeness ≥ the
// threshold marks a closed sentence; naturalness is 1 − awkwardness.
const (
	weightFiniteVerb = 0.4
	weightSubject    = 0.3
	weightLength     = 0.1
	weightVerbalRoot = 0.1
	shortCommonFloor = 0.8

	completeThreshold = 0.7

	baseAwkward       = 0.4
	penaltyIncomplete = 0.1
	penaltyBadEnd     = 0.3
	penaltyBadStart   = 0.2
	penaltyTooShort   = 0.2
	penaltyUnmatched  = 0.2
)

// Analyzer scores text fragments using per-language lexicons.
type Analyzer struct {
	profiles sync.Map // language.Language -> *profileSlot
}

type profileSlot struct {
	once sync.Once
	prof *profile
	err  error
}

// New returns an Analyzer with no profiles loaded yet.
func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) profile(lang language.Language) (*profile, error) {
	v, _ := a.profiles.LoadOrStore(lang, &profileSlot{})
	slot := v.(*profileSlot)
	slot.once.Do(func() {
		slot.prof, slot.err = loadProfile(lang)
	})
	return slot.prof, slot.err
}

// Analyze evaluates one fragment. Unknown languages are resolved to the
// default before lookup, so lang is trusted here.
func (a *Analyzer) Analyze(text string, lang language.Language) (ports.Analysis, error) {
	p, err := a.profile(lang)
	if err != nil {
		return ports.Analysis{}, err
	}

	stripped := p.stripTrailingPunct(strings.TrimSpace(text))
	norm := p.normalize(stripped)
	tokens := p.tokenize(stripped)
	normTokens := p.tokenize(norm)
	if len(tokens) == 0 {
		return ports.Analysis{}, nil
	}

	score := 0.0
	if p.hasFiniteVerb(normTokens) {
		score += weightFiniteVerb
	}
	if p.hasSubject(normTokens) || p.looksImperative(normTokens, norm) {
		score += weightSubject
	}
	if len(tokens) >= p.LongTokens {
		score += weightLength
	}
	if p.endsVerbal(normTokens, norm) {
		score += weightVerbalRoot
	}
	shortCommon := len(tokens) <= 3 && p.shortOKSet[norm]
	if shortCommon {
		score = math.Max(score, shortCommonFloor)
	}
	completeness := clamp01(score)
	complete := completeness >= completeThreshold

	awkward := baseAwkward
	if !complete {
		awkward += penaltyIncomplete
	}
	if p.badEnd(normTokens, norm) {
		awkward += penaltyBadEnd
	}
	if p.badStart(normTokens, norm) {
		awkward += penaltyBadStart
	}
	if len(tokens) <= p.ShortTokens && !p.shortOKSet[norm] {
		awkward += penaltyTooShort
	}
	if unmatchedPairs(stripped) {
		awkward += penaltyUnmatched
	}
	awkward = clamp01(awkward)

	return ports.Analysis{
		Tokens:           tokens,
		Completeness:     round3(completeness),
		CompleteSentence: complete,
		BreakNaturalness: round3(1 - awkward),
	}, nil
}

// unmatchedPairs reports dangling quotes or brackets, a sign the fragment
// cuts through a quoted or parenthesized span.
func unmatchedPairs(s string) bool {
	if strings.Count(s, `"`)%2 == 1 {
		return true
	}
	closers := map[rune]rune{
		')': '(', ']': '[', '}': '{',
		'）': '（', '」': '「', '』': '『',
	}
	openers := map[rune]bool{'(': true, '[': true, '{': true, '（': true, '「': true, '『': true}
	var stack []rune
	for _, r := range s {
		switch {
		case openers[r]:
			stack = append(stack, r)
		case closers[r] != 0:
			if len(stack) == 0 || stack[len(stack)-1] != closers[r] {
				return true
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) > 0
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
