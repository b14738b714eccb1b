package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/rivo/uniseg"

	"unparen/internal/diag"
	"unparen/internal/source"
)

const tabWidth = 4

type palette struct {
	path, code, gutter, note, fix, del, ins *color.Color
	sev                                     map[diag.Severity]*color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		path:   mk(color.Bold),
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		note:   mk(color.FgCyan),
		fix:    mk(color.FgGreen),
		del:    mk(color.FgRed),
		ins:    mk(color.FgGreen),
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgBlue, color.Bold),
			diag.SevHidden:  mk(color.Faint),
		},
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyDiagnostic(w, &d, fs, opts, pal)
	}
}

func prettyDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	start, _ := fs.Resolve(d.Primary)
	path := displayPath(fs, d.Primary.File, opts.PathMode)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", path, start.Line, start.Col),
		pal.sev[d.Severity].Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message,
	)
	writeExcerpt(w, fs, d.Primary, opts, pal, pal.sev[d.Severity])

	if opts.ShowNotes {
		for _, n := range d.Notes {
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
				pal.note.Sprint("note:"), displayPath(fs, n.Span.File, opts.PathMode), pos.Line, pos.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for i, f := range sortedFixes(d.Fixes) {
			writeFix(w, fs, i+1, f, opts, pal)
		}
	}
}

func writeFix(w io.Writer, fs *source.FileSet, num int, f diag.Fix, opts PrettyOpts, pal palette) {
	meta := []string{f.Applicability.String()}
	if f.ID != "" {
		meta = append(meta, "id="+f.ID)
	}
	if f.IsPreferred {
		meta = append(meta, "preferred")
	}
	fmt.Fprintf(w, "  %s %s (%s)\n", pal.fix.Sprintf("fix #%d:", num), f.Title, strings.Join(meta, ", "))
	for _, e := range f.Edits {
		start, end := fs.Resolve(e.Span)
		fmt.Fprintf(w, "    edit %s:%d:%d-%d:%d apply=%q",
			displayPath(fs, e.Span.File, opts.PathMode), start.Line, start.Col, end.Line, end.Col, e.NewText)
		if e.OldText != "" {
			fmt.Fprintf(w, " expect=%q", e.OldText)
		}
		fmt.Fprintln(w)
	}
	if !opts.ShowPreview {
		return
	}
	preview, err := buildFixPreview(fs, f)
	if err != nil {
		return
	}
	fmt.Fprintln(w, "    preview:")
	for _, l := range preview.before {
		fmt.Fprintf(w, "      %s\n", pal.del.Sprint("- "+l))
	}
	for _, l := range preview.after {
		fmt.Fprintf(w, "      %s\n", pal.ins.Sprint("+ "+l))
	}
}

// writeExcerpt prints the lines around sp and underlines sp on its first line.
func writeExcerpt(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette, mark *color.Color) {
	file := fs.Get(sp.File)
	if len(file.Content) == 0 {
		return
	}
	start, _ := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	lines, err := safecast.Conv[uint32](len(file.LineIdx))
	if err != nil {
		return
	}
	lineCount := lines + 1
	ctx, err := safecast.Conv[uint32](max(opts.Context, 0))
	if err != nil {
		return
	}

	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, lineCount)
	gutter := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text := file.GetLine(ln)
		fmt.Fprintf(w, "  %s %s\n", pal.gutter.Sprintf("%*d |", gutter, ln), clipWidth(expandTabs(text), int(opts.Width)))
		if ln != start.Line {
			continue
		}
		line := file.LineSpan(ln)
		from := sp.Start - line.Start
		to := min(sp.End, line.End) - line.Start
		pad := displayWidth(text[:from])
		span := max(displayWidth(text[from:max(to, from)]), 1)
		if opts.Width > 0 && pad >= int(opts.Width) {
			continue
		}
		under := "^" + strings.Repeat("~", span-1)
		fmt.Fprintf(w, "  %s %s%s\n", pal.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), mark.Sprint(under))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// displayWidth measures s in terminal cells, counting a tab as tabWidth cells.
func displayWidth(s string) int {
	return uniseg.StringWidth(expandTabs(s))
}

// clipWidth cuts s to at most width cells without splitting a grapheme cluster.
func clipWidth(s string, width int) string {
	if width <= 0 || uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if used+g.Width() > width-1 {
			break
		}
		used += g.Width()
		b.WriteString(g.Str())
	}
	b.WriteString("…")
	return b.String()
}
