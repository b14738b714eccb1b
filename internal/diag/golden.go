package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"unparen/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics one per line in a stable order,
// suitable for golden files. Hidden diagnostics are included; their fade
// locations are appended as "fade" lines when includeLocations is set.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeLocations bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], fs, includeLocations)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for _, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s\n", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
	}
	return b.String()
}

func appendDiagnostic(out []goldenDiagnostic, d *Diagnostic, fs *source.FileSet, includeLocations bool) []goldenDiagnostic {
	loc, ok := resolveSpan(fs, d.Primary)
	if !ok {
		return out
	}
	out = append(out, goldenDiagnostic{
		Severity: SeverityLabel(d.Severity),
		Code:     d.Code.ID(),
		Path:     loc.Path,
		Line:     loc.Line,
		Column:   loc.Column,
		Message:  sanitizeMessage(d.Message),
	})
	if !includeLocations {
		return out
	}
	for i, sp := range d.Additional {
		aloc, aok := resolveSpan(fs, sp)
		if !aok {
			continue
		}
		text := fs.Get(sp.File).Text(sp)
		out = append(out, goldenDiagnostic{
			Severity: "location",
			Code:     d.Code.ID(),
			Path:     aloc.Path,
			Line:     aloc.Line,
			Column:   aloc.Column,
			Message:  fmt.Sprintf("#%d %q", i, sanitizeMessage(text)),
		})
	}
	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (loc resolvedSpan, ok bool) {
	if int(span.File) >= fs.Len() {
		return resolvedSpan{}, false
	}
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

// SeverityLabel is the lower-case severity name used by line-oriented output.
func SeverityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevInfo:
		return "info"
	default:
		return "hidden"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
