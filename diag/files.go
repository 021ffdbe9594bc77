package diag

import (
	"bytes"
	"sort"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/metaphox/sable/ast"
)

type file struct {
	name   string
	src    []byte
	starts []int // offset of the first byte of each line
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Files is a registry of named source units. The SourceID stamped on spans
// by the lexer is the index returned by [Files.Add].
type Files struct {
	files []file
}

// Add registers a source unit and returns its id.
func (f *Files) Add(name string, src []byte) ast.SourceID {
	f.files = append(f.files, file{name: name, src: src, starts: lineStarts(src)})
	return ast.SourceID(len(f.files) - 1)
}

func (f *Files) get(id ast.SourceID) (file, bool) {
	if f == nil || id < 0 || int(id) >= len(f.files) {
		return file{starts: []int{0}}, false
	}
	return f.files[id], true
}

// Name returns the name the unit was registered under, or "" if unknown.
func (f *Files) Name(id ast.SourceID) string {
	fl, _ := f.get(id)
	return fl.name
}

// Source returns the bytes of the unit, or nil if unknown.
func (f *Files) Source(id ast.SourceID) []byte {
	fl, _ := f.get(id)
	return fl.src
}

// Position resolves the start of span to a 1-based line and column. Columns
// count bytes. Offsets past the end of the source are clamped to its end.
func (f *Files) Position(span ast.Span) lexer.Position {
	fl, _ := f.get(span.Source)
	offset := min(max(span.Start, 0), len(fl.src))

	n := sort.SearchInts(fl.starts, offset+1)
	return lexer.Position{
		Filename: fl.name,
		Offset:   offset,
		Line:     n,
		Column:   offset - fl.starts[n-1] + 1,
	}
}

// line returns the text of the 1-based line n of unit id, without its
// terminating newline.
func (f *Files) line(id ast.SourceID, n int) string {
	fl, _ := f.get(id)
	if n < 1 || n > len(fl.starts) {
		return ""
	}
	end := len(fl.src)
	if n < len(fl.starts) {
		end = fl.starts[n] - 1
	}
	return string(bytes.TrimSuffix(fl.src[fl.starts[n-1]:end], []byte{'\r'}))
}
