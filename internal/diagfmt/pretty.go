package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ember/internal/diag"
	"ember/internal/source"
)

type palette struct {
	err, warn, info, note, path, gutter, caret func(a ...any) string
}

func newPalette(enabled bool) palette {
	paint := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:    paint(color.FgRed, color.Bold),
		warn:   paint(color.FgYellow, color.Bold),
		info:   paint(color.FgCyan, color.Bold),
		note:   paint(color.FgBlue, color.Bold),
		path:   paint(color.Bold),
		gutter: paint(color.FgBlue),
		caret:  paint(color.FgRed, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return p.err(s.String())
	case diag.SevWarning:
		return p.warn(s.String())
	}
	return p.info(s.String())
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строка исходника с подчёркиванием ^~~~ по Span и заметки.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := location(fs, d.Primary, opts)
		fmt.Fprintf(w, "%s: %s %s: %s\n", p.path(loc), p.severity(d.Severity), d.Code.ID(), d.Message)
		excerpt(w, fs, d.Primary, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note("note:"), location(fs, n.Span, opts), n.Msg)
		}
	}
}

func location(fs *source.FileSet, span source.Span, opts PrettyOpts) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

// excerpt prints the primary line and a caret run under the span. Columns are
// display columns, so wide runes shift the caret accordingly.
func excerpt(w io.Writer, fs *source.FileSet, span source.Span, p palette) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	line := f.GetLine(start.Line)
	if start.Line == 0 {
		return
	}
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	last := len(line)
	if end.Line == start.Line && int(end.Col)-1 >= col && int(end.Col)-1 <= len(line) {
		last = int(end.Col) - 1
	}
	pad := runewidth.StringWidth(line[:col])
	marks := max(runewidth.StringWidth(line[col:last]), 1)

	num := fmt.Sprintf("%d", start.Line)
	blank := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, " %s %s %s\n", p.gutter(num), p.gutter("|"), line)
	fmt.Fprintf(w, " %s %s %s%s\n", blank, p.gutter("|"), strings.Repeat(" ", pad),
		p.caret("^"+strings.Repeat("~", marks-1)))
}
