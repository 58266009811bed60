package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/bearlang/bearc/internal/source"
)

// ansi accent codes, following the teacher's and pack's habit of
// hand-rolled ANSI tables rather than a terminal-color library (no
// retrieved repo in the pack imports one for this narrow a need).
const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan  = "\x1b[36m"
)

func accent(sev Severity) string {
	switch sev {
	case Error:
		return ansiRed
	case Warning:
		return ansiYellow
	default:
		return ansiCyan
	}
}

// lineWindow is the shift-width used to keep long lines within a
// consistent display width (spec §4.8 "shifted right in 32-column
// chunks").
const lineWindow = 32

// Render writes d (and its note chain) to w in the spec §4.8 format:
//
//	'<file>': at (line L, col C): <severity>: <message>
//	<line preview>
//	<underline>
func Render(w io.Writer, d *Diagnostic, buf *source.Buffer, color bool) {
	for cur := d; cur != nil; cur = cur.Next {
		renderOne(w, cur, buf, color)
	}
}

func renderOne(w io.Writer, d *Diagnostic, buf *source.Buffer, color bool) {
	line, col := d.Span.Line, d.Span.Column
	fmt.Fprintf(w, "'%s': at (line %d, col %d): %s: %s\n",
		d.Span.File, line+1, col+1, d.Severity, d.Message)

	if buf == nil {
		return
	}
	lineText := buf.LineText(d.Span.Start - col)
	shift := (col / lineWindow) * lineWindow
	windowEnd := shift + lineWindow
	if windowEnd > len(lineText) {
		windowEnd = len(lineText)
	}
	windowStart := shift
	if windowStart > len(lineText) {
		windowStart = len(lineText)
	}
	fmt.Fprintln(w, lineText[windowStart:windowEnd])

	underlineCol := col - shift
	if underlineCol < 0 {
		underlineCol = 0
	}
	caretLen := d.Span.Length
	if caretLen < 1 {
		caretLen = 1
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", underlineCol))
	if color {
		b.WriteString(accent(d.Severity))
	}
	b.WriteString(strings.Repeat("^", caretLen))
	if color {
		b.WriteString(ansiReset)
	}
	fmt.Fprintln(w, b.String())
}

// Summary writes the "N error(s) generated." line for one file's list.
func Summary(w io.Writer, l *List) {
	n := l.ErrorCount()
	plural := "s"
	if n == 1 {
		plural = ""
	}
	fmt.Fprintf(w, "%d error%s generated.\n", n, plural)
}
