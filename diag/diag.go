// Package diag turns lexer and parser errors into reports for people and for
// tools.
//
// Two projections are provided, both pure functions of the error value and
// the registered sources:
//
//	Render    error: unterminated string
//	            --> main.sb:3:9
//	             |
//	            3| let s = "abc
//	             |         ^^^^
//	             = note: Each string needs to be terminated with a matching `"`.
//
//	ToRecord  {"message":"unterminated string","note":"...","span":{...}}
package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/metaphox/sable/ast"
)

// Diagnostic is implemented by *lexer.LexError and *parser.ParseError.
type Diagnostic interface {
	error
	Message() string
	Note() string
	Span() ast.Span
}

// Render writes a human-readable report of d: the message, the location, the
// offending source line with the span underlined, and the note if there is
// one.
func Render(w io.Writer, files *Files, d Diagnostic) error {
	var sb strings.Builder
	span := d.Span()
	pos := files.Position(span)

	fmt.Fprintf(&sb, "error: %s\n", d.Message())
	fmt.Fprintf(&sb, "  --> %s\n", pos)

	if src := files.Source(span.Source); src != nil {
		line := files.line(span.Source, pos.Line)
		col := min(pos.Column, len(line)+1)
		// Underline to the end of the span or of the line, whichever is first.
		width := max(min(span.Len, len(line)-col+1), 1)

		sb.WriteString("   |\n")
		fmt.Fprintf(&sb, "%3d| %s\n", pos.Line, line)
		fmt.Fprintf(&sb, "   | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))
	}
	if note := d.Note(); note != "" {
		fmt.Fprintf(&sb, "   = note: %s\n", note)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderAll renders every diagnostic, separated by blank lines.
func RenderAll(w io.Writer, files *Files, ds []Diagnostic) error {
	for i, d := range ds {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := Render(w, files, d); err != nil {
			return err
		}
	}
	return nil
}

// SpanRecord is the machine-readable form of a span.
type SpanRecord struct {
	File   string `json:"file"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Record is the machine-readable form of a diagnostic.
type Record struct {
	Message string     `json:"message"`
	Note    string     `json:"note,omitempty"`
	Span    SpanRecord `json:"span"`
}

// ToRecord projects d to a Record.
func ToRecord(files *Files, d Diagnostic) Record {
	span := d.Span()
	pos := files.Position(span)
	return Record{
		Message: d.Message(),
		Note:    d.Note(),
		Span: SpanRecord{
			File:   pos.Filename,
			Start:  span.Start,
			End:    span.End(),
			Line:   pos.Line,
			Column: pos.Column,
		},
	}
}

// WriteJSON writes the diagnostics as a JSON array of records followed by a
// newline. An empty list is written as [].
func WriteJSON(w io.Writer, files *Files, ds []Diagnostic) error {
	records := make([]Record, 0, len(ds))
	for _, d := range ds {
		records = append(records, ToRecord(files, d))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding diagnostics: %w", err)
	}
	return nil
}
