// Package srt holds the subtitle document model and the SRT block codec.
//
// A Document is created once from raw input and then flows through the merge
// pipeline; passes never mutate a document in place. Entry indices are always
// derived from position, so parsed index lines are validated but their values
// are not trusted.
package srt

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"submerge/internal/errors"
)

// Entry is one subtitle cue.
type Entry struct {
	Index int
	Start Timestamp
	End   Timestamp
	Text  string
}

// Duration returns the cue's on-screen time in milliseconds.
func (e Entry) Duration() Timestamp { return e.End - e.Start }

// Gap returns the silence between e and the following entry next.
// Negative when the two overlap.
func Gap(e, next Entry) Timestamp { return next.Start - e.End }

// Document is a sequence of entries ordered by non-decreasing start time.
type Document []Entry

// Reindex returns a copy with indices renumbered 1..N.
func (d Document) Reindex() Document {
	out := make(Document, len(d))
	for i, e := range d {
		e.Index = i + 1
		out[i] = e
	}
	return out
}

// Parse reads raw SRT text into a Document.
//
// A block is an index line, a "start --> end" timecode line, and one or more
// text lines, terminated by a blank line or EOF. Parse fails with a
// parse-kind error naming the offending block; it never returns a partial
// document.
func Parse(raw string) (Document, error) {
	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var doc Document
	block := 0
	for {
		line, ok := nextNonBlank(sc)
		if !ok {
			break
		}
		block++

		if _, err := strconv.Atoi(line); err != nil {
			return nil, errors.Parsef("block %d: index line %q is not a number", block, line)
		}

		timeLine, ok := scanLine(sc)
		if !ok {
			return nil, errors.Parsef("block %d: missing timecode line", block)
		}
		startRaw, endRaw, found := strings.Cut(timeLine, "-->")
		if !found {
			return nil, errors.Parsef("block %d: timecode line %q has no separator", block, timeLine)
		}
		start, err := ParseTimestamp(strings.TrimSpace(startRaw))
		if err != nil {
			return nil, errors.Parsef("block %d: %v", block, err)
		}
		end, err := ParseTimestamp(strings.TrimSpace(endRaw))
		if err != nil {
			return nil, errors.Parsef("block %d: %v", block, err)
		}
		if start >= end {
			return nil, errors.Parsef("block %d: start %s is not before end %s", block, start, end)
		}

		var texts []string
		for {
			line, ok := scanLine(sc)
			if !ok || strings.TrimSpace(line) == "" {
				break
			}
			texts = append(texts, strings.TrimSpace(line))
		}
		text := strings.Join(texts, "\n")
		if strings.TrimSpace(text) == "" {
			return nil, errors.Parsef("block %d: empty text", block)
		}
		if !utf8.ValidString(text) {
			return nil, errors.Parsef("block %d: text is not valid UTF-8", block)
		}

		if n := len(doc); n > 0 && start < doc[n-1].Start {
			return nil, errors.Parsef("block %d: starts at %s, before previous block", block, start)
		}
		doc = append(doc, Entry{Index: len(doc) + 1, Start: start, End: end, Text: text})
	}
	return doc, nil
}

// Render serializes a document back to SRT text. Blocks are separated by one
// blank line and the output ends with a single newline.
func Render(d Document) string {
	var b strings.Builder
	for i, e := range d {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", e.Index, e.Start, e.End, e.Text)
	}
	return b.String()
}

func scanLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSuffix(sc.Text(), "\r"), true
}

func nextNonBlank(sc *bufio.Scanner) (string, bool) {
	for {
		line, ok := scanLine(sc)
		if !ok {
			return "", false
		}
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), true
		}
	}
}
