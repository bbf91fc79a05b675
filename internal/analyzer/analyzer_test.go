package analyzer

import (
	"testing"

	"submerge/internal/language"
)

func TestAnalyzeEnglish(t *testing.T) {
	a := New()
	tests := []struct {
		name         string
		text         string
		completeness float64
		naturalness  float64
		complete     bool
	}{
		{"full sentence", "I went to the store", 0.8, 0.6, true},
		{"dangling article", "I went to the", 0.8, 0.3, true},
		{"fragment", "walking in the park", 0.1, 0.5, false},
		{"short common", "Thanks.", 0.8, 0.6, true},
		{"conjunction start", "and then he", 0.3, 0.3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Analyze(tt.text, language.English)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if got.Completeness != tt.completeness {
				t.Fatalf("completeness = %v, want %v", got.Completeness, tt.completeness)
			}
			if got.BreakNaturalness != tt.naturalness {
				t.Fatalf("naturalness = %v, want %v", got.BreakNaturalness, tt.naturalness)
			}
			if got.CompleteSentence != tt.complete {
				t.Fatalf("complete = %v, want %v", got.CompleteSentence, tt.complete)
			}
		})
	}
}

func TestAnalyzeJapanese(t *testing.T) {
	a := New()
	tests := []struct {
		name         string
		text         string
		completeness float64
		naturalness  float64
	}{
		{"polite sentence", "私は学生です", 0.9, 0.6},
		{"particle ending", "学校に", 0.0, 0.0},
		{"short common", "ありがとうございます", 0.8, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Analyze(tt.text, language.Japanese)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if got.Completeness != tt.completeness {
				t.Fatalf("completeness = %v, want %v", got.Completeness, tt.completeness)
			}
			if got.BreakNaturalness != tt.naturalness {
				t.Fatalf("naturalness = %v, want %v", got.BreakNaturalness, tt.naturalness)
			}
		})
	}
}

func TestAnalyzeKorean(t *testing.T) {
	a := New()
	tests := []struct {
		name         string
		text         string
		completeness float64
		naturalness  float64
	}{
		{"polite sentence", "저는 학생입니다", 0.8, 0.6},
		{"dangling subject", "그리고 나는", 0.3, 0.0},
		{"greeting", "안녕하세요", 0.8, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Analyze(tt.text, language.Korean)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if got.Completeness != tt.completeness {
				t.Fatalf("completeness = %v, want %v", got.Completeness, tt.completeness)
			}
			if got.BreakNaturalness != tt.naturalness {
				t.Fatalf("naturalness = %v, want %v", got.BreakNaturalness, tt.naturalness)
			}
		})
	}
}

func TestAnalyzePunctuationInsensitive(t *testing.T) {
	a := New()
	with, err := a.Analyze("I went to the store.", language.English)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	without, err := a.Analyze("I went to the store", language.English)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if with.Completeness != without.Completeness || with.BreakNaturalness != without.BreakNaturalness {
		t.Fatalf("trailing punctuation changed the score: %+v vs %+v", with, without)
	}
}

func TestAnalyzeUnmatchedQuote(t *testing.T) {
	a := New()
	got, err := a.Analyze(`he said "wait`, language.English)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// Complete clause, but the dangling quote costs naturalness.
	if got.BreakNaturalness != 0.4 {
		t.Fatalf("naturalness = %v, want 0.4", got.BreakNaturalness)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	a := New()
	got, err := a.Analyze("   ", language.English)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.Completeness != 0 || got.BreakNaturalness != 0 || got.CompleteSentence {
		t.Fatalf("empty text must score zero: %+v", got)
	}
}

func TestAnalyzeUnknownProfile(t *testing.T) {
	a := New()
	if _, err := a.Analyze("hallo", language.Language("de")); err == nil {
		t.Fatalf("expected error for missing profile")
	}
}

func TestScriptRuns(t *testing.T) {
	got := scriptRuns("私は学生です")
	want := []string{"私", "は", "学生", "です"}
	if len(got) != len(want) {
		t.Fatalf("scriptRuns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scriptRuns[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
