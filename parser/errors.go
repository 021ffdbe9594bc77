package parser

import (
	"errors"
	"fmt"

	"github.com/metaphox/sable/ast"
)

// errEndOfInput signals that a parse step needed a token past the end of the
// token slice. It unwinds the current top-level item through ordinary error
// returns and is turned into a single UnexpectedEndOfInput diagnostic by the
// item loop.
var errEndOfInput = errors.New("unexpected end of input")

// ParseErrorKind classifies a syntax error.
type ParseErrorKind int

const (
	// UnexpectedToken is a token that cannot start the construct being parsed.
	UnexpectedToken ParseErrorKind = iota
	// ExpectedIdentifier is reported where a name was required.
	ExpectedIdentifier
	// ExpectedToken is reported where one specific token was required.
	ExpectedToken
	// UnexpectedEndOfInput is reported once when the tokens run out mid-item.
	UnexpectedEndOfInput
)

// ParseError is a single syntax diagnostic. Expected is set for ExpectedToken.
type ParseError struct {
	Kind     ParseErrorKind
	Expected ast.TokenType
	span     ast.Span
}

// Span returns the span of the offending token.
func (e *ParseError) Span() ast.Span { return e.span }

// Message returns the one-line description of the error.
func (e *ParseError) Message() string {
	switch e.Kind {
	case UnexpectedToken:
		return "unexpected token encountered"
	case ExpectedIdentifier:
		return "expected identifier"
	case ExpectedToken:
		return fmt.Sprintf("expected token %s", e.Expected)
	case UnexpectedEndOfInput:
		return "unexpected end of input"
	}
	return "syntax error"
}

// Note returns an optional hint, or "".
func (e *ParseError) Note() string {
	if e.Kind == UnexpectedEndOfInput {
		return "The file ended before this item was complete."
	}
	return ""
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.span, e.Message())
}

// Incomplete reports whether errs ends with UnexpectedEndOfInput, meaning more
// tokens could still complete the input.
func Incomplete(errs []*ParseError) bool {
	return len(errs) > 0 && errs[len(errs)-1].Kind == UnexpectedEndOfInput
}
