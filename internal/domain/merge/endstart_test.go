package merge

import (
	"testing"

	"submerge/internal/srt"
)

func TestEndStartRemovesOverlapOnce(t *testing.T) {
	doc := srt.Document{
		entry(0, 1000, "I went to"),
		entry(1200, 2000, "to the store"),
	}
	got := EndStart(doc, 300, true)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %+v", got)
	}
	e := got[0]
	if e.Text != "I went to the store" {
		t.Fatalf("merged text = %q", e.Text)
	}
	if e.Start != 0 || e.End != 2000 {
		t.Fatalf("merged span = [%d,%d]", e.Start, e.End)
	}
}

func TestEndStartWithoutSpaceMerge(t *testing.T) {
	doc := srt.Document{
		entry(0, 1000, "안녕하세요 여러분"),
		entry(1100, 2000, "여러분 반갑습니다"),
	}
	got := EndStart(doc, 300, false)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %+v", got)
	}
	if got[0].Text != "안녕하세요 여러분반갑습니다" {
		t.Fatalf("merged text = %q", got[0].Text)
	}
}

func TestEndStartSwallowsFullRepeat(t *testing.T) {
	doc := srt.Document{
		entry(0, 1000, "가는 중입니다"),
		entry(1100, 1500, "중입니다"),
	}
	got := EndStart(doc, 300, false)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %+v", got)
	}
	if got[0].Text != "가는 중입니다" || got[0].End != 1500 {
		t.Fatalf("repeat-only entry must extend the span unchanged: %+v", got[0])
	}
}

func TestEndStartCascades(t *testing.T) {
	doc := srt.Document{
		entry(0, 500, "one two"),
		entry(550, 1000, "two three"),
		entry(1050, 1500, "three four"),
	}
	got := EndStart(doc, 300, true)
	if len(got) != 1 {
		t.Fatalf("expected chain collapse, got %+v", got)
	}
	if got[0].Text != "one two three four" || got[0].End != 1500 {
		t.Fatalf("bad chained merge: %+v", got[0])
	}
}

func TestEndStartRespectsGap(t *testing.T) {
	doc := srt.Document{
		entry(0, 1000, "I went to"),
		entry(1400, 2000, "to the store"),
	}
	if got := EndStart(doc, 300, true); len(got) != 2 {
		t.Fatalf("gap 400 over limit must not merge: %+v", got)
	}
}

func TestEndStartAllowsOverlappingSpans(t *testing.T) {
	doc := srt.Document{
		entry(0, 1000, "I went to"),
		entry(900, 2000, "to the store"),
	}
	if got := EndStart(doc, 300, true); len(got) != 1 {
		t.Fatalf("negative gap is within the limit: %+v", got)
	}
}

func TestEndStartNoOverlap(t *testing.T) {
	doc := srt.Document{
		entry(0, 1000, "first line"),
		entry(1100, 2000, "second line"),
	}
	if got := EndStart(doc, 300, true); len(got) != 2 {
		t.Fatalf("no word overlap must not merge: %+v", got)
	}
}
