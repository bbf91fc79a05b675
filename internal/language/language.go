// Package language resolves the analyzer languages submerge can score.
package language

import "strings"

// Language is a supported ISO 639-1 code.
type Language string

const (
	English  Language = "en"
	Japanese Language = "ja"
	Korean   Language = "ko"
)

// Default is the fallback for empty or unrecognized codes.
const Default = English

type entry struct {
	code    Language
	display string
	words   []string // full word forms accepted besides the code
}

var languages = []entry{
	{English, "English", []string{"english", "eng"}},
	{Japanese, "Japanese", []string{"japanese", "jpn"}},
	{Korean, "Korean", []string{"korean", "kor"}},
}

var byName map[string]Language

func init() {
	byName = make(map[string]Language, len(languages)*3)
	for _, e := range languages {
		byName[string(e.code)] = e.code
		for _, w := range e.words {
			byName[w] = e.code
		}
	}
}

// Parse normalizes a user-supplied language value. Unrecognized values fall
// back to Default so a bad option degrades scoring, never the pipeline.
func Parse(code string) Language {
	if l, ok := byName[strings.ToLower(strings.TrimSpace(code))]; ok {
		return l
	}
	return Default
}

// Supported reports whether code names a supported language exactly.
func Supported(code string) bool {
	_, ok := byName[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// DisplayName returns the human-readable name for log lines.
func (l Language) DisplayName() string {
	for _, e := range languages {
		if e.code == l {
			return e.display
		}
	}
	return string(l)
}

func (l Language) String() string { return string(l) }
