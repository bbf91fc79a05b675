package analyzer

import (
	"embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"submerge/internal/language"
)

//go:embed profiles/*.yaml
var profileFS embed.FS

// profile is one language's lexicon, decoded from the embedded YAML.
//
// Profiles with terminal_suffixes describe agglutinative languages where
// particles and endings attach to words; their end/start checks match text
// affixes. Profiles without them match whole tokens.
type profile struct {
	Code               string   `yaml:"code"`
	Tokenizer          string   `yaml:"tokenizer"`
	CaseSensitive      bool     `yaml:"case_sensitive"`
	SentenceEnd        []string `yaml:"sentence_end"`
	Verbs              []string `yaml:"verbs"`
	VerbSuffixes       []string `yaml:"verb_suffixes"`
	TerminalSuffixes   []string `yaml:"terminal_suffixes"`
	SubjectWords       []string `yaml:"subject_words"`
	SubjectMarkers     []string `yaml:"subject_markers"`
	ImperativeStarts   []string `yaml:"imperative_starts"`
	ImperativeSuffixes []string `yaml:"imperative_suffixes"`
	BadEndWords        []string `yaml:"bad_end_words"`
	BadStartWords      []string `yaml:"bad_start_words"`
	ShortOK            []string `yaml:"short_ok"`
	LongTokens         int      `yaml:"long_tokens"`
	ShortTokens        int      `yaml:"short_tokens"`

	verbSet     map[string]bool
	subjectSet  map[string]bool
	impStartSet map[string]bool
	badEndSet   map[string]bool
	badStartSet map[string]bool
	shortOKSet  map[string]bool
	endRunes    map[rune]bool
}

func loadProfile(lang language.Language) (*profile, error) {
	raw, err := profileFS.ReadFile(fmt.Sprintf("profiles/%s.yaml", lang))
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", lang, err)
	}
	var p profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", lang, err)
	}
	if p.Code != string(lang) {
		return nil, fmt.Errorf("profile %s declares code %q", lang, p.Code)
	}
	if p.LongTokens <= 0 || p.ShortTokens <= 0 {
		return nil, fmt.Errorf("profile %s: token thresholds must be positive", lang)
	}
	p.verbSet = toSet(p.Verbs)
	p.subjectSet = toSet(p.SubjectWords)
	p.impStartSet = toSet(p.ImperativeStarts)
	p.badEndSet = toSet(p.BadEndWords)
	p.badStartSet = toSet(p.BadStartWords)
	p.shortOKSet = toSet(p.ShortOK)
	p.endRunes = make(map[rune]bool, len(p.SentenceEnd))
	for _, s := range p.SentenceEnd {
		for _, r := range s {
			p.endRunes[r] = true
		}
	}
	return &p, nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func (p *profile) normalize(s string) string {
	if p.CaseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// stripTrailingPunct removes sentence-final punctuation so it never feeds the
// score in either direction.
func (p *profile) stripTrailingPunct(s string) string {
	runes := []rune(s)
	for len(runes) > 0 && p.endRunes[runes[len(runes)-1]] {
		runes = runes[:len(runes)-1]
	}
	return strings.TrimSpace(string(runes))
}

// tokenize splits on whitespace, or on script boundaries for languages
// written without spaces.
func (p *profile) tokenize(s string) []string {
	if p.Tokenizer == "script" {
		return scriptRuns(s)
	}
	return strings.Fields(s)
}

// scriptRuns groups consecutive runes of the same writing system, a cheap
// stand-in for morphological tokenization.
func scriptRuns(s string) []string {
	var out []string
	var cur []rune
	curClass := -1
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = nil
		}
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			flush()
			curClass = -1
			continue
		}
		c := scriptClass(r)
		if c != curClass {
			flush()
			curClass = c
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

func scriptClass(r rune) int {
	switch {
	case unicode.Is(unicode.Hiragana, r):
		return 0
	case unicode.Is(unicode.Katakana, r):
		return 1
	case unicode.Is(unicode.Han, r):
		return 2
	case unicode.IsDigit(r):
		return 3
	case unicode.IsLetter(r):
		return 4
	default:
		return 5
	}
}

// agglutinative reports whether end/start checks should match affixes.
func (p *profile) agglutinative() bool { return len(p.TerminalSuffixes) > 0 }

func (p *profile) verbToken(tok string) bool {
	if p.verbSet[tok] {
		return true
	}
	for _, suf := range p.VerbSuffixes {
		if len(tok) > len(suf)+1 && strings.HasSuffix(tok, suf) {
			return true
		}
	}
	for _, suf := range p.TerminalSuffixes {
		if strings.HasSuffix(tok, suf) {
			return true
		}
	}
	return false
}

func (p *profile) hasFiniteVerb(tokens []string) bool {
	for _, t := range tokens {
		if p.verbToken(t) {
			return true
		}
	}
	return false
}

func (p *profile) hasSubject(tokens []string) bool {
	if p.agglutinative() {
		for _, t := range tokens {
			for _, m := range p.SubjectMarkers {
				if t == m || (strings.HasSuffix(t, m) && runeLen(t) > runeLen(m)) {
					return true
				}
			}
		}
		return false
	}
	for _, t := range tokens {
		if p.subjectSet[t] {
			return true
		}
	}
	return false
}

func (p *profile) looksImperative(tokens []string, text string) bool {
	if p.agglutinative() {
		for _, suf := range p.ImperativeSuffixes {
			if strings.HasSuffix(text, suf) {
				return true
			}
		}
		return false
	}
	return len(tokens) > 0 && p.impStartSet[tokens[0]]
}

func (p *profile) endsVerbal(tokens []string, text string) bool {
	if p.agglutinative() {
		for _, suf := range p.TerminalSuffixes {
			if strings.HasSuffix(text, suf) {
				return true
			}
		}
		return false
	}
	return len(tokens) > 0 && p.verbToken(tokens[len(tokens)-1])
}

func (p *profile) badEnd(tokens []string, text string) bool {
	if p.agglutinative() {
		for _, w := range p.BadEndWords {
			if strings.HasSuffix(text, w) {
				return true
			}
		}
		return false
	}
	return len(tokens) > 0 && p.badEndSet[tokens[len(tokens)-1]]
}

func (p *profile) badStart(tokens []string, text string) bool {
	if p.agglutinative() {
		for _, w := range p.BadStartWords {
			if strings.HasPrefix(text, w) {
				return true
			}
		}
		return false
	}
	return len(tokens) > 0 && p.badStartSet[tokens[0]]
}

func runeLen(s string) int { return len([]rune(s)) }
