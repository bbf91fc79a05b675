package srt

import (
	"fmt"
	"regexp"
	"strconv"

	"submerge/internal/errors"
)

// Timestamp is a point on the subtitle timeline in whole milliseconds.
// Gaps and durations are plain integer subtraction on this type.
type Timestamp int64

const (
	msPerSecond Timestamp = 1000
	msPerMinute           = 60 * msPerSecond
	msPerHour             = 60 * msPerMinute
)

// Hours may exceed two digits for long recordings; minutes and seconds are
// strict sexagesimal.
var timestampRe = regexp.MustCompile(`^(\d{2,}):([0-5][0-9]):([0-5][0-9]),([0-9]{3})$`)

// ParseTimestamp converts an "HH:MM:SS,mmm" timecode to a Timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	m := timestampRe.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.Parsef("malformed timecode %q", s)
	}
	h, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, errors.Parsef("malformed timecode %q", s)
	}
	mi, _ := strconv.ParseInt(m[2], 10, 64)
	se, _ := strconv.ParseInt(m[3], 10, 64)
	ms, _ := strconv.ParseInt(m[4], 10, 64)
	return Timestamp(h)*msPerHour + Timestamp(mi)*msPerMinute + Timestamp(se)*msPerSecond + Timestamp(ms), nil
}

// String renders the zero-padded "HH:MM:SS,mmm" form.
func (t Timestamp) String() string {
	if t < 0 {
		t = 0
	}
	h := t / msPerHour
	t -= h * msPerHour
	m := t / msPerMinute
	t -= m * msPerMinute
	s := t / msPerSecond
	ms := t - s*msPerSecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// MarshalText renders the timecode form, so JSON carries "HH:MM:SS,mmm".
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the timecode form.
func (t *Timestamp) UnmarshalText(b []byte) error {
	v, err := ParseTimestamp(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
