// Package lexer implements the Sable lexer (tokeniser).
//
// The lexer converts Sable source bytes into a flat slice of [ast.Token]
// values plus every lexical error it encountered. Call [Lex] for the common
// case, or create a [Lexer] with [New] and call [Lexer.NextToken] until it
// reports that the input is exhausted.
//
// Design notes:
//   - Single-pass, byte-by-byte scanning with one byte of look-ahead.
//   - Lexing never stops early. Every byte that starts no token becomes an
//     UNKNOWN token and a [LexError], so the spans of the returned tokens plus
//     the skipped whitespace cover the input exactly.
//   - Classification is ASCII-only. Non-ASCII input is never decoded into
//     identifiers: a valid multi-byte rune becomes one UNKNOWN token, an
//     invalid byte becomes a one-byte UNKNOWN token with an InvalidUTF8 error.
//   - There are no comments and no escape sequences in string literals.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/metaphox/sable/ast"
)

// Lexer holds all state required to tokenise a single source unit.
// Create one with [New]; never copy a Lexer after first use.
type Lexer struct {
	src    []byte       // the full source text
	source ast.SourceID // unit stamped on every span
	pos    int          // index of the next unread byte

	errors []*LexError
}

// New creates a [Lexer] over src for the default source unit.
func New(src []byte) *Lexer {
	return NewSource(0, src)
}

// NewSource creates a [Lexer] over src whose spans refer to source unit id.
func NewSource(id ast.SourceID, src []byte) *Lexer {
	return &Lexer{src: src, source: id}
}

// Lex tokenises src in one call. It always returns; malformed input shows up
// as UNKNOWN tokens and entries in the error slice.
func Lex(src []byte) ([]ast.Token, []*LexError) {
	return New(src).Tokenize()
}

// LexSource is Lex for a specific source unit.
func LexSource(id ast.SourceID, src []byte) ([]ast.Token, []*LexError) {
	return NewSource(id, src).Tokenize()
}

// Tokenize scans the remaining input and returns every token together with
// all errors collected so far.
func (l *Lexer) Tokenize() ([]ast.Token, []*LexError) {
	// Estimate ~1 token per 4 bytes of source.
	tokens := make([]ast.Token, 0, len(l.src)/4+1)
	for {
		tok, ok := l.NextToken()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, l.errors
}

// Errors returns the lexical errors collected so far, in source order.
func (l *Lexer) Errors() []*LexError {
	return l.errors
}

// NextToken returns the next token. The boolean is false once the input is
// exhausted, and stays false on every subsequent call.
func (l *Lexer) NextToken() (ast.Token, bool) {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return ast.Token{}, false
	}

	ch := l.src[l.pos]
	switch {
	case isLetter(ch):
		return l.readIdentifier(), true
	case isDigit(ch):
		return l.readNumber(), true
	case ch == '"':
		return l.readString(), true
	case ch >= utf8.RuneSelf:
		return l.readNonASCII(), true
	}

	start := l.pos
	var tt ast.TokenType
	switch ch {
	// ── Single-character delimiters ─────────────────────────────────────────
	case '(':
		tt = ast.LPAREN
	case ')':
		tt = ast.RPAREN
	case '{':
		tt = ast.LBRACE
	case '}':
		tt = ast.RBRACE
	case '[':
		tt = ast.LBRACKET
	case ']':
		tt = ast.RBRACKET
	case ';':
		tt = ast.SEMICOLON
	case ',':
		tt = ast.COMMA
	case ':':
		tt = ast.COLON
	case '.':
		tt = ast.DOT
	case '+':
		tt = ast.PLUS
	case '*':
		tt = ast.ASTERISK
	case '/':
		tt = ast.SLASH

	// ── Operators that may be one or two characters ─────────────────────────
	case '-':
		tt = l.either('>', ast.ARROW, ast.MINUS)
	case '=':
		tt = l.either('=', ast.EQ, ast.ASSIGN)
	case '>':
		tt = l.either('=', ast.GTE, ast.GT)
	case '<':
		tt = l.either('=', ast.LTE, ast.LT)

	default:
		tt = ast.UNKNOWN
		err := newError(UnknownToken, l.span(start, 1))
		err.Char = rune(ch)
		l.errors = append(l.errors, err)
	}

	l.pos++ // advance past the last byte of this token
	return l.makeToken(tt, start), true
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// either consumes the byte after the current one when it equals next and
// returns two; otherwise it returns one. The current byte is left for the
// caller to consume.
func (l *Lexer) either(next byte, two, one ast.TokenType) ast.TokenType {
	if l.peekByte() == next {
		l.pos++
		return two
	}
	return one
}

// peekByte returns the byte after the current one, or 0 at end of input.
func (l *Lexer) peekByte() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) span(start, n int) ast.Span {
	return ast.NewSpan(l.source, start, n)
}

// makeToken builds a token covering src[start:l.pos] whose literal is the
// scanned text.
func (l *Lexer) makeToken(tt ast.TokenType, start int) ast.Token {
	return ast.Token{
		Type:    tt,
		Literal: string(l.src[start:l.pos]),
		Span:    l.span(start, l.pos-start),
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

// readIdentifier scans an identifier or keyword starting at the current byte.
func (l *Lexer) readIdentifier() ast.Token {
	start := l.pos
	for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
		l.pos++
	}
	tok := l.makeToken(ast.IDENT, start)
	tok.Type = ast.LookupIdent(tok.Literal)
	return tok
}

// readNumber scans a run of decimal digits. A literal that does not fit in an
// int32 is still returned as an INT token (with value 0) so the parser sees a
// literal where the user wrote one.
func (l *Lexer) readNumber() ast.Token {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	tok := l.makeToken(ast.INT, start)
	v, err := strconv.ParseInt(tok.Literal, 10, 32)
	if err != nil {
		l.errors = append(l.errors, newError(IntegerOverflow, tok.Span))
		return tok
	}
	tok.Int = int32(v)
	return tok
}

// readString scans a double-quoted string literal. The token spans both
// quotes; its Literal holds only the text between them.
//
// If the input ends before the closing quote, an UnterminatedString error
// covering the opening quote through end of input is recorded and the token
// carries whatever text was scanned.
func (l *Lexer) readString() ast.Token {
	start := l.pos
	l.pos++ // skip opening '"'

	for l.pos < len(l.src) && l.src[l.pos] != '"' {
		l.pos++
	}

	contentEnd := l.pos
	if l.pos >= len(l.src) {
		l.errors = append(l.errors, newError(UnterminatedString, l.span(start, l.pos-start)))
	} else {
		l.pos++ // consume closing '"'
	}

	content := l.src[start+1 : contentEnd]
	value := string(content)
	if !utf8.Valid(content) {
		l.errors = append(l.errors, newError(InvalidUTF8, l.span(start, l.pos-start)))
		value = strings.ToValidUTF8(value, string(utf8.RuneError))
	}

	return ast.Token{
		Type:    ast.STRING,
		Literal: value,
		Span:    l.span(start, l.pos-start),
	}
}

// readNonASCII consumes one rune (or one invalid byte) that cannot start a
// token and returns it as UNKNOWN.
func (l *Lexer) readNonASCII() ast.Token {
	start := l.pos
	r, size := utf8.DecodeRune(l.src[l.pos:])
	l.pos += size

	if r == utf8.RuneError && size == 1 {
		l.errors = append(l.errors, newError(InvalidUTF8, l.span(start, 1)))
		return ast.Token{
			Type:    ast.UNKNOWN,
			Literal: string(utf8.RuneError),
			Span:    l.span(start, 1),
		}
	}

	err := newError(UnknownToken, l.span(start, size))
	err.Char = r
	l.errors = append(l.errors, err)
	return l.makeToken(ast.UNKNOWN, start)
}

// isSpace reports whether b is ASCII whitespace: space, tab, newline, form
// feed or carriage return.
func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r'
}

// isLetter reports whether b may start an identifier: [a-zA-Z_].
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b == '_'
}

// isDigit reports whether b is an ASCII decimal digit (0–9).
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
