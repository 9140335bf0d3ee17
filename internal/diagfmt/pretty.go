package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"resolve/internal/diag"
	"resolve/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes bag (expected sorted) in a human readable form:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  <line> | <source line>
//	         |     ^~~~
//
// followed by the notes in the same layout when ShowNotes is set.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := location(fs, d.Primary, opts)
		fmt.Fprintf(w, "%s: %s %s: %s\n", loc, p.severity(d.Severity).Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		excerpt(w, fs, d.Primary, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts), n.Msg)
			excerpt(w, fs, n.Span, p)
		}
	}
}

func location(fs *source.FileSet, span source.Span, opts PrettyOpts) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<project>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", FormatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

// excerpt prints the first line of span with a caret underline. Columns are
// measured in display cells so math operators line up.
func excerpt(w io.Writer, fs *source.FileSet, span source.Span, p palette) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	line := f.Line(start.Line)
	if line == "" {
		return
	}
	col := min(int(start.Col)-1, len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(line))
	}

	var pad strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := max(runewidth.StringWidth(line[col:stop]), 1)
	marker := "^" + strings.Repeat("~", width-1)

	gutter := fmt.Sprintf("%4d", start.Line)
	fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprint(gutter), p.gutter.Sprint("|"), line)
	fmt.Fprintf(w, "%s %s %s%s\n", strings.Repeat(" ", len(gutter)), p.gutter.Sprint("|"), pad.String(), p.caret.Sprint(marker))
}
