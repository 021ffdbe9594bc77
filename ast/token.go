// Package ast defines the tokens, spans and syntax tree of the Sable language.
//
// Tokens are the smallest meaningful units of a Sable source file. Every token
// carries its type, the literal text it stands for, and the byte [Span] it was
// scanned from. There is no EOF token: the parser treats the end of the token
// slice as end of input.
package ast

// TokenType identifies the category of a scanned token.
// The zero value is UNKNOWN, the catch-all for bytes the lexer cannot classify.
type TokenType int

const (
	// ── Special ────────────────────────────────────────────────────────────────

	// UNKNOWN is a byte (or non-ASCII rune) the lexer could not recognise.
	// The lexer reports an error alongside every UNKNOWN token.
	UNKNOWN TokenType = iota

	// ── Literals ───────────────────────────────────────────────────────────────

	// STRING is a double-quoted string literal. Literal holds the text between
	// the quotes; there are no escape sequences.
	STRING
	// INT is a decimal integer literal that fits in 32 signed bits.
	INT
	// IDENT is an identifier: [a-zA-Z_][a-zA-Z0-9_]*
	IDENT

	// ── Keywords ───────────────────────────────────────────────────────────────

	FN     // fn main() { ... }
	EXTERN // extern fn exit(code: i32);
	STRUCT // struct Point { x: i32, y: i32 }
	OPAQUE // opaque struct File;
	LET    // let x = 1;
	MUT    // let mut x = 1;  ->mut x  ->mut T
	IF
	ELSE
	WHILE
	FOR
	IN
	RETURN
	TRUE
	FALSE

	// ── Delimiters ──────────────────────────────────────────────────────────────

	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	SEMICOLON // ;
	COMMA     // ,
	COLON     // :
	DOT       // .

	// ── Operators ───────────────────────────────────────────────────────────────

	ASSIGN   // =
	EQ       // ==
	GT       // >
	GTE      // >=
	LT       // <
	LTE      // <=
	PLUS     // +
	MINUS    // -
	ASTERISK // * (multiplication or dereference)
	SLASH    // /
	// ARROW is both the pointer type constructor (->T) and the address-of
	// operator (->x, ->mut x).
	ARROW
)

// tokenNames holds the human-readable name of every TokenType, as used in
// "expected token ..." diagnostics.
var tokenNames = [...]string{
	UNKNOWN:   "unknown token",
	STRING:    "string literal",
	INT:       "integer literal",
	IDENT:     "identifier",
	FN:        "`fn` keyword",
	EXTERN:    "`extern` keyword",
	STRUCT:    "`struct` keyword",
	OPAQUE:    "`opaque` keyword",
	LET:       "`let` keyword",
	MUT:       "`mut` keyword",
	IF:        "`if` keyword",
	ELSE:      "`else` keyword",
	WHILE:     "`while` keyword",
	FOR:       "`for` keyword",
	IN:        "`in` keyword",
	RETURN:    "`return` keyword",
	TRUE:      "`true` keyword",
	FALSE:     "`false` keyword",
	LPAREN:    "`(`",
	RPAREN:    "`)`",
	LBRACE:    "`{`",
	RBRACE:    "`}`",
	LBRACKET:  "`[`",
	RBRACKET:  "`]`",
	SEMICOLON: "`;`",
	COMMA:     "`,`",
	COLON:     "`:`",
	DOT:       "`.`",
	ASSIGN:    "`=`",
	EQ:        "`==`",
	GT:        "`>`",
	GTE:       "`>=`",
	LT:        "`<`",
	LTE:       "`<=`",
	PLUS:      "`+`",
	MINUS:     "`-`",
	ASTERISK:  "`*`",
	SLASH:     "`/`",
	ARROW:     "`->`",
}

// String returns the human-readable name of the token type.
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return "unknown token"
}

// keywords maps the literal text of every Sable keyword to its TokenType.
// The lexer consults this map when it finishes scanning an identifier.
var keywords = map[string]TokenType{
	"fn":     FN,
	"extern": EXTERN,
	"struct": STRUCT,
	"opaque": OPAQUE,
	"let":    LET,
	"mut":    MUT,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"in":     IN,
	"return": RETURN,
	"true":   TRUE,
	"false":  FALSE,
}

// LookupIdent checks whether ident is a reserved keyword and returns the
// corresponding TokenType. If ident is not a keyword, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}

// Token is a single lexical unit produced by the Sable lexer.
//
// Literal is the identifier name, the string contents without quotes, or the
// source text for every other token. Int is the decoded value of an INT token
// and stays 0 when the literal overflowed. Span covers the scanned bytes,
// quotes included.
type Token struct {
	Type    TokenType
	Literal string
	Int     int32
	Span    Span
}

// String returns the literal text of the token, useful for debugging.
func (t Token) String() string {
	return t.Literal
}
