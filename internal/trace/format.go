package trace

import (
	"encoding/json"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Format selects how events are serialized.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatText                 // one indented line per event
	FormatNDJSON               // one JSON object per line
)

// FormatForPath picks NDJSON for .ndjson and .jsonl outputs and text
// otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

// AppendEvent appends the encoded event, newline included, to buf.
func AppendEvent(buf []byte, ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		data, _ := json.Marshal(ev) //nolint:errchkjson // fails only for years outside 0..9999
		return append(append(buf, data...), '\n')
	}
	return appendText(buf, ev)
}

var kindMarks = [...]string{KindSpanBegin: "→ ", KindSpanEnd: "← ", KindPoint: "• ", KindFailure: "! "}

// appendText renders
//
//	[   seq]   → name (detail) 1.2ms {k=v, ...}
//
// with events that have a parent indented one step.
func appendText(buf []byte, ev *Event) []byte {
	seq := strconv.FormatUint(ev.Seq, 10)
	buf = append(buf, '[')
	for range 6 - len(seq) {
		buf = append(buf, ' ')
	}
	buf = append(buf, seq...)
	buf = append(buf, "] "...)
	if ev.ParentID > 0 {
		buf = append(buf, "  "...)
	}
	if int(ev.Kind) < len(kindMarks) {
		buf = append(buf, kindMarks[ev.Kind]...)
	}
	buf = append(buf, ev.Name...)
	if ev.Detail != "" {
		buf = append(buf, " ("...)
		buf = append(buf, ev.Detail...)
		buf = append(buf, ')')
	}
	if ev.Dur > 0 {
		buf = append(buf, ' ')
		buf = append(buf, ev.Dur.Round(time.Microsecond).String()...)
	}
	if len(ev.Extra) > 0 {
		buf = append(buf, " {"...)
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				buf = append(buf, ", "...)
			}
			buf = append(buf, k...)
			buf = append(buf, '=')
			buf = append(buf, ev.Extra[k]...)
		}
		buf = append(buf, '}')
	}
	return append(buf, '\n')
}
