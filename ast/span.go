package ast

import "fmt"

// SourceID identifies one named source unit (usually a file). The zero value
// is the default unit used when only a single source is being processed.
type SourceID int

// Span is a half-open byte range [Start, Start+Len) within one source unit.
//
// Spans are plain values: tokens and AST nodes hold them by value and never
// share or mutate them after construction.
type Span struct {
	Source SourceID
	Start  int // byte offset of the first byte
	Len    int // length in bytes, never negative
}

// NewSpan returns the span of length n starting at start in source unit id.
func NewSpan(id SourceID, start, n int) Span {
	return Span{Source: id, Start: start, Len: n}
}

// End returns the exclusive end offset of the span.
func (s Span) End() int { return s.Start + s.Len }

// Merge returns the smallest span covering both s and o.
// The source unit of s is kept.
func (s Span) Merge(o Span) Span {
	start := min(s.Start, o.Start)
	end := max(s.End(), o.End())
	return Span{Source: s.Source, Start: start, Len: end - start}
}

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End() <= s.End()
}

// After returns the zero-length span positioned immediately after s.
func (s Span) After() Span {
	return Span{Source: s.Source, Start: s.End()}
}

// Text slices the bytes covered by the span out of src. Out-of-range spans are
// clamped rather than panicking.
func (s Span) Text(src []byte) string {
	start := min(max(s.Start, 0), len(src))
	end := min(max(s.End(), start), len(src))
	return string(src[start:end])
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End())
}
