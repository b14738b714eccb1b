package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Format is the output format of trace events.
type Format uint8

const (
	// FormatAuto picks the format from the output path.
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
	// FormatChrome is the chrome://tracing event array.
	FormatChrome
)

var formatNames = [...]string{
	FormatAuto:   "auto",
	FormatText:   "text",
	FormatNDJSON: "ndjson",
	FormatChrome: "chrome",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat converts a format name; the empty string is auto.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatAuto, nil
	}
	for f, name := range formatNames {
		if name == s {
			return Format(f), nil
		}
	}
	return FormatAuto, fmt.Errorf("invalid trace format %q (want %s)", s, strings.Join(formatNames[:], "|"))
}

// DetectFormat picks a format from the extension of an output path.
func DetectFormat(path string) Format {
	switch {
	case strings.HasSuffix(path, ".ndjson"):
		return FormatNDJSON
	case strings.HasSuffix(path, ".json"):
		return FormatChrome
	default:
		return FormatText
	}
}

// encoder writes a sequence of events as one document.
type encoder interface {
	open(w io.Writer) error
	write(w io.Writer, ev *Event) error
	close(w io.Writer) error
}

func newEncoder(f Format) encoder {
	switch f {
	case FormatNDJSON:
		return ndjsonEncoder{}
	case FormatChrome:
		return &chromeEncoder{}
	default:
		return textEncoder{}
	}
}

type textEncoder struct{}

func (textEncoder) open(io.Writer) error  { return nil }
func (textEncoder) close(io.Writer) error { return nil }

// write renders one line: [seq] marker scope name @file line:col verdict (detail) {k=v}
func (textEncoder) write(w io.Writer, ev *Event) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%6d] ", ev.Seq)
	sb.WriteString(strings.Repeat("  ", max(int(ev.Scope)-1, 0)))
	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("→ ")
	case KindSpanEnd:
		sb.WriteString("← ")
	case KindPoint:
		sb.WriteString("• ")
	case KindHeartbeat:
		sb.WriteString("♡ ")
	}
	sb.WriteString(ev.Name)
	if ev.File != "" {
		fmt.Fprintf(&sb, " @%s", ev.File)
	}
	if g := ev.Group; g != nil {
		fmt.Fprintf(&sb, " %d:%d %s(%s)", g.Line, g.Col, g.Reason, g.Rule)
		if g.Text != "" {
			fmt.Fprintf(&sb, " %q", g.Text)
		}
	}
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		sb.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%s", k, ev.Extra[k])
		}
		sb.WriteString("}")
	}
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

type ndjsonEncoder struct{}

func (ndjsonEncoder) open(io.Writer) error  { return nil }
func (ndjsonEncoder) close(io.Writer) error { return nil }

func (ndjsonEncoder) write(w io.Writer, ev *Event) error {
	data, err := json.Marshal(struct {
		Time     string            `json:"time"`
		Seq      uint64            `json:"seq"`
		Kind     string            `json:"kind"`
		Scope    string            `json:"scope"`
		SpanID   uint64            `json:"span_id,omitempty"`
		ParentID uint64            `json:"parent_id,omitempty"`
		GID      uint64            `json:"gid"`
		Name     string            `json:"name"`
		File     string            `json:"file,omitempty"`
		Group    *Group            `json:"group,omitempty"`
		Detail   string            `json:"detail,omitempty"`
		Extra    map[string]string `json:"extra,omitempty"`
	}{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		File:     ev.File,
		Group:    ev.Group,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// chromeEncoder writes {"traceEvents":[...]}: spans become B/E pairs on the
// goroutine's track, verdicts and heartbeats become instant events.
type chromeEncoder struct {
	wrote bool
}

func (c *chromeEncoder) open(w io.Writer) error {
	_, err := io.WriteString(w, "{\"traceEvents\":[\n")
	return err
}

func (c *chromeEncoder) close(w io.Writer) error {
	_, err := io.WriteString(w, "\n]}\n")
	return err
}

func (c *chromeEncoder) write(w io.Writer, ev *Event) error {
	phase, scope := "i", "t"
	switch ev.Kind {
	case KindSpanBegin:
		phase, scope = "B", ""
	case KindSpanEnd:
		phase, scope = "E", ""
	case KindHeartbeat:
		scope = "g"
	}
	args := make(map[string]any, len(ev.Extra)+3)
	for k, v := range ev.Extra {
		args[k] = v
	}
	if ev.Detail != "" {
		args["detail"] = ev.Detail
	}
	if ev.File != "" {
		args["file"] = ev.File
	}
	if ev.Group != nil {
		args["group"] = ev.Group
	}
	data, err := json.Marshal(struct {
		Name  string         `json:"name"`
		Cat   string         `json:"cat"`
		Ph    string         `json:"ph"`
		TS    int64          `json:"ts"`
		PID   int            `json:"pid"`
		TID   uint64         `json:"tid"`
		Scope string         `json:"s,omitempty"`
		Args  map[string]any `json:"args,omitempty"`
	}{
		Name:  ev.Name,
		Cat:   ev.Scope.String(),
		Ph:    phase,
		TS:    ev.Time.UnixMicro(),
		PID:   1,
		TID:   ev.GID,
		Scope: scope,
		Args:  args,
	})
	if err != nil {
		return err
	}
	if c.wrote {
		if _, err := io.WriteString(w, ",\n"); err != nil {
			return err
		}
	}
	c.wrote = true
	_, err = w.Write(data)
	return err
}

// FormatEvents renders events as one complete document in format.
func FormatEvents(w io.Writer, events []Event, format Format) error {
	enc := newEncoder(format)
	if err := enc.open(w); err != nil {
		return err
	}
	for i := range events {
		if err := enc.write(w, &events[i]); err != nil {
			return err
		}
	}
	return enc.close(w)
}
