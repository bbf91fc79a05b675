// Package subtitles renders cue documents in subtitle formats other than SRT.
package subtitles

import (
	"fmt"
	"strings"

	"submerge/internal/srt"
)

// RenderASS serializes a document as an Advanced SubStation Alpha script with
// a single default style. ASS timecodes carry centiseconds, so cue times lose
// sub-centisecond precision.
func RenderASS(d srt.Document) string {
	var b strings.Builder
	b.WriteString(assHeader())
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, e := range d {
		b.WriteString("Dialogue: 0,")
		b.WriteString(assTime(e.Start))
		b.WriteString(",")
		b.WriteString(assTime(e.End))
		b.WriteString(",Default,,0,0,0,,")
		b.WriteString(assText(e.Text))
		b.WriteString("\n")
	}
	return b.String()
}

func assHeader() string {
	return strings.TrimSpace(`
[Script Info]
ScriptType: v4.00+
PlayResX: 1920
PlayResY: 1080
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default, Arial, 64, &H00FFFFFF, &H00FFFFFF, &H00000000, &H64000000, 0,0,0,0,100,100,0,0,1,3,1,2, 60,60,40,1
`)
}

// assTime renders a cue time as "H:MM:SS.cc".
func assTime(t srt.Timestamp) string {
	if t < 0 {
		t = 0
	}
	ms := int64(t)
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1_000
	cs := (ms - s*1_000) / 10
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// assText escapes override syntax and folds cue line breaks to \N.
func assText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	s = strings.ReplaceAll(s, "\n", "\\N")
	return strings.TrimSpace(s)
}
