package lexer

import (
	"fmt"

	"github.com/metaphox/sable/ast"
)

// LexErrorKind classifies a lexical error.
type LexErrorKind int

const (
	// UnknownToken is a character that starts no token.
	UnknownToken LexErrorKind = iota
	// UnterminatedString is a string literal that runs to end of input.
	UnterminatedString
	// IntegerOverflow is an integer literal that does not fit in int32.
	IntegerOverflow
	// InvalidUTF8 is a byte sequence that is not valid UTF-8.
	InvalidUTF8
)

// LexError is a single lexical diagnostic. Char is set for UnknownToken only.
type LexError struct {
	Kind LexErrorKind
	Char rune
	span ast.Span
}

func newError(kind LexErrorKind, span ast.Span) *LexError {
	return &LexError{Kind: kind, span: span}
}

// Span returns the offending source range.
func (e *LexError) Span() ast.Span { return e.span }

// Message returns the one-line description of the error.
func (e *LexError) Message() string {
	switch e.Kind {
	case UnknownToken:
		return fmt.Sprintf("unknown token `%c`", e.Char)
	case UnterminatedString:
		return "unterminated string"
	case IntegerOverflow:
		return "integer literal is too large"
	case InvalidUTF8:
		return "invalid UTF-8 in source"
	}
	return "lexical error"
}

// Note returns an optional hint shown under the primary label, or "".
func (e *LexError) Note() string {
	switch e.Kind {
	case UnterminatedString:
		return "Each string needs to be terminated with a matching `\"`."
	case IntegerOverflow:
		return "Integer literals must fit in a signed 32-bit integer."
	}
	return ""
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.span, e.Message())
}
