// Package lexer_test contains integration-style tests for the Sable lexer.
//
// Tests are organised by category:
//   - TestLexer_Keywords        every keyword, and the ident/keyword boundary
//   - TestLexer_Operators       punctuation including the two-byte operators
//   - TestLexer_Literals_*      integers (with overflow) and strings
//   - TestLexer_Unknown*        unrecognised bytes and non-ASCII input
//   - TestLexer_Spans           byte offsets of every token
//   - TestLexer_Coverage        token spans reconstruct the non-whitespace input
package lexer_test

import (
	"math/rand"
	"testing"

	"github.com/metaphox/sable/ast"
	"github.com/metaphox/sable/lexer"
)

// tokenCase is a single (type, literal) expectation used in table-driven tests.
type tokenCase struct {
	expectedType    ast.TokenType
	expectedLiteral string
}

// runCases calls NextToken for each case in want, fails the test on mismatch,
// and checks that the input is exhausted afterwards. It returns the lexer so
// callers can inspect the collected errors.
func runCases(t *testing.T, input string, want []tokenCase) *lexer.Lexer {
	t.Helper()
	l := lexer.New([]byte(input))
	for i, tc := range want {
		tok, ok := l.NextToken()
		if !ok {
			t.Fatalf("case %d: input exhausted, want %s %q", i, tc.expectedType, tc.expectedLiteral)
		}
		if tok.Type != tc.expectedType {
			t.Errorf("case %d: type mismatch: got %s, want %s (literal %q)", i, tok.Type, tc.expectedType, tok.Literal)
		}
		if tok.Literal != tc.expectedLiteral {
			t.Errorf("case %d: literal mismatch: got %q, want %q", i, tok.Literal, tc.expectedLiteral)
		}
	}
	if tok, ok := l.NextToken(); ok {
		t.Errorf("unexpected trailing token %s %q", tok.Type, tok.Literal)
	}
	return l
}

// expectNoErrors fails the test if l collected any error.
func expectNoErrors(t *testing.T, l *lexer.Lexer) {
	t.Helper()
	for _, e := range l.Errors() {
		t.Errorf("unexpected lex error: %s", e)
	}
}

// onlyError asserts that errs holds exactly one error and returns it.
func onlyError(t *testing.T, errs []*lexer.LexError) *lexer.LexError {
	t.Helper()
	if len(errs) != 1 {
		t.Fatalf("expected 1 lex error, got %d: %v", len(errs), errs)
	}
	return errs[0]
}

// ── Keywords ──────────────────────────────────────────────────────────────────

// TestLexer_Keywords verifies that every Sable keyword is recognised.
func TestLexer_Keywords(t *testing.T) {
	input := `fn extern struct opaque let mut if else
while for in return true false`

	l := runCases(t, input, []tokenCase{
		{ast.FN, "fn"},
		{ast.EXTERN, "extern"},
		{ast.STRUCT, "struct"},
		{ast.OPAQUE, "opaque"},
		{ast.LET, "let"},
		{ast.MUT, "mut"},
		{ast.IF, "if"},
		{ast.ELSE, "else"},
		{ast.WHILE, "while"},
		{ast.FOR, "for"},
		{ast.IN, "in"},
		{ast.RETURN, "return"},
		{ast.TRUE, "true"},
		{ast.FALSE, "false"},
	})
	expectNoErrors(t, l)
}

// TestLexer_KeywordBoundary checks that a keyword prefix does not split an
// identifier.
func TestLexer_KeywordBoundary(t *testing.T) {
	runCases(t, "fnx format lets mutable in_ iff", []tokenCase{
		{ast.IDENT, "fnx"},
		{ast.IDENT, "format"},
		{ast.IDENT, "lets"},
		{ast.IDENT, "mutable"},
		{ast.IDENT, "in_"},
		{ast.IDENT, "iff"},
	})
}

// ── Operators ─────────────────────────────────────────────────────────────────

func TestLexer_Operators(t *testing.T) {
	input := `( ) { } [ ] ; , : . = == > >= < <= + - * / ->`

	l := runCases(t, input, []tokenCase{
		{ast.LPAREN, "("},
		{ast.RPAREN, ")"},
		{ast.LBRACE, "{"},
		{ast.RBRACE, "}"},
		{ast.LBRACKET, "["},
		{ast.RBRACKET, "]"},
		{ast.SEMICOLON, ";"},
		{ast.COMMA, ","},
		{ast.COLON, ":"},
		{ast.DOT, "."},
		{ast.ASSIGN, "="},
		{ast.EQ, "=="},
		{ast.GT, ">"},
		{ast.GTE, ">="},
		{ast.LT, "<"},
		{ast.LTE, "<="},
		{ast.PLUS, "+"},
		{ast.MINUS, "-"},
		{ast.ASTERISK, "*"},
		{ast.SLASH, "/"},
		{ast.ARROW, "->"},
	})
	expectNoErrors(t, l)
}

// TestLexer_OperatorsAdjacent checks the one-byte look-ahead on operators that
// are written without separating whitespace.
func TestLexer_OperatorsAdjacent(t *testing.T) {
	runCases(t, "a->mut b-->c>==d<=e===f", []tokenCase{
		{ast.IDENT, "a"},
		{ast.ARROW, "->"},
		{ast.MUT, "mut"},
		{ast.IDENT, "b"},
		{ast.MINUS, "-"},
		{ast.ARROW, "->"},
		{ast.IDENT, "c"},
		{ast.GTE, ">="},
		{ast.ASSIGN, "="},
		{ast.IDENT, "d"},
		{ast.LTE, "<="},
		{ast.IDENT, "e"},
		{ast.EQ, "=="},
		{ast.ASSIGN, "="},
		{ast.IDENT, "f"},
	})
}

// ── Identifiers ───────────────────────────────────────────────────────────────

func TestLexer_Identifiers(t *testing.T) {
	runCases(t, "x i32 _tmp snake_case CamelCase9", []tokenCase{
		{ast.IDENT, "x"},
		{ast.IDENT, "i32"},
		{ast.IDENT, "_tmp"},
		{ast.IDENT, "snake_case"},
		{ast.IDENT, "CamelCase9"},
	})
}

// TestLexer_DigitsBeforeLetters shows that a number never absorbs the letters
// that follow it.
func TestLexer_DigitsBeforeLetters(t *testing.T) {
	runCases(t, "32bit", []tokenCase{
		{ast.INT, "32"},
		{ast.IDENT, "bit"},
	})
}

// ── Literals ──────────────────────────────────────────────────────────────────

func TestLexer_Literals_Int(t *testing.T) {
	tokens, errs := lexer.Lex([]byte("0 7 42 2147483647"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []int32{0, 7, 42, 2147483647}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Type != ast.INT {
			t.Errorf("token %d: got %s, want integer literal", i, tok.Type)
		}
		if tok.Int != want[i] {
			t.Errorf("token %d: value %d, want %d", i, tok.Int, want[i])
		}
	}
}

// TestLexer_Literals_IntOverflow verifies that an out-of-range literal is an
// error, not a crash, and that the token is still produced.
func TestLexer_Literals_IntOverflow(t *testing.T) {
	tokens, errs := lexer.Lex([]byte("x = 2147483648;"))
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(tokens))
	}
	tok := tokens[2]
	if tok.Type != ast.INT || tok.Literal != "2147483648" || tok.Int != 0 {
		t.Errorf("overflowing literal: got %s %q value %d", tok.Type, tok.Literal, tok.Int)
	}

	err := onlyError(t, errs)
	if err.Kind != lexer.IntegerOverflow {
		t.Fatalf("kind: got %d, want IntegerOverflow", err.Kind)
	}
	if err.Span() != ast.NewSpan(0, 4, 10) {
		t.Errorf("span: got %s, want 4..14", err.Span())
	}
	if err.Note() == "" {
		t.Error("expected a note on IntegerOverflow")
	}
}

func TestLexer_Literals_String(t *testing.T) {
	tokens, errs := lexer.Lex([]byte(`"hello world" ""`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Type != ast.STRING || tokens[0].Literal != "hello world" {
		t.Errorf("got %s %q", tokens[0].Type, tokens[0].Literal)
	}
	if tokens[0].Span != ast.NewSpan(0, 0, 13) {
		t.Errorf("string span should include both quotes, got %s", tokens[0].Span)
	}
	if tokens[1].Literal != "" || tokens[1].Span.Len != 2 {
		t.Errorf("empty string: got %q spanning %s", tokens[1].Literal, tokens[1].Span)
	}
}

// TestLexer_Literals_StringUnterminated covers an unterminated string: the
// token is still emitted with the scanned text and a single error spans from
// the opening quote to end of input.
func TestLexer_Literals_StringUnterminated(t *testing.T) {
	src := []byte(`"unterminated`)
	tokens, errs := lexer.Lex(src)

	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	if tokens[0].Type != ast.STRING || tokens[0].Literal != "unterminated" {
		t.Errorf("got %s %q", tokens[0].Type, tokens[0].Literal)
	}

	err := onlyError(t, errs)
	if err.Kind != lexer.UnterminatedString {
		t.Fatalf("kind: got %d, want UnterminatedString", err.Kind)
	}
	if err.Span() != ast.NewSpan(0, 0, len(src)) {
		t.Errorf("span: got %s, want 0..%d", err.Span(), len(src))
	}
	if err.Message() != "unterminated string" {
		t.Errorf("message: got %q", err.Message())
	}
	if err.Error() != "0..13: unterminated string" {
		t.Errorf("Error(): got %q", err.Error())
	}
}

// TestLexer_Literals_StringSpansLines checks that a string may contain
// newlines, and that an unterminated one swallows the rest of the input.
func TestLexer_Literals_StringSpansLines(t *testing.T) {
	l := runCases(t, "\"a\nb\" \"c\nd", []tokenCase{
		{ast.STRING, "a\nb"},
		{ast.STRING, "c\nd"},
	})
	err := onlyError(t, l.Errors())
	if err.Kind != lexer.UnterminatedString {
		t.Errorf("kind: got %d, want UnterminatedString", err.Kind)
	}
}

// ── Unknown input ─────────────────────────────────────────────────────────────

// TestLexer_UnknownToken verifies that an unrecognised byte becomes an UNKNOWN
// token plus an error, and that scanning continues after it.
func TestLexer_UnknownToken(t *testing.T) {
	l := runCases(t, "a @ b # c", []tokenCase{
		{ast.IDENT, "a"},
		{ast.UNKNOWN, "@"},
		{ast.IDENT, "b"},
		{ast.UNKNOWN, "#"},
		{ast.IDENT, "c"},
	})
	errs := l.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0].Kind != lexer.UnknownToken || errs[0].Char != '@' {
		t.Errorf("first error: got kind %d char %q", errs[0].Kind, errs[0].Char)
	}
	if errs[0].Span() != ast.NewSpan(0, 2, 1) {
		t.Errorf("first error span: got %s", errs[0].Span())
	}
	if errs[0].Message() != "unknown token `@`" {
		t.Errorf("message: got %q", errs[0].Message())
	}
}

// TestLexer_UnknownNonASCII checks that a multi-byte rune is kept whole as one
// UNKNOWN token rather than split into bytes.
func TestLexer_UnknownNonASCII(t *testing.T) {
	tokens, errs := lexer.Lex([]byte("é x"))
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Type != ast.UNKNOWN || tokens[0].Literal != "é" || tokens[0].Span.Len != 2 {
		t.Errorf("got %s %q spanning %s", tokens[0].Type, tokens[0].Literal, tokens[0].Span)
	}
	err := onlyError(t, errs)
	if err.Kind != lexer.UnknownToken || err.Char != 'é' {
		t.Errorf("got kind %d char %q", err.Kind, err.Char)
	}
}

func TestLexer_InvalidUTF8(t *testing.T) {
	tokens, errs := lexer.Lex([]byte("\xff"))
	if len(tokens) != 1 || tokens[0].Type != ast.UNKNOWN || tokens[0].Span != ast.NewSpan(0, 0, 1) {
		t.Fatalf("got %v", tokens)
	}
	if err := onlyError(t, errs); err.Kind != lexer.InvalidUTF8 {
		t.Errorf("kind: got %d, want InvalidUTF8", err.Kind)
	}
}

// TestLexer_InvalidUTF8InString checks that invalid bytes inside a string are
// reported and replaced in the decoded value, while the span stays exact.
func TestLexer_InvalidUTF8InString(t *testing.T) {
	tokens, errs := lexer.Lex([]byte("\"a\xffb\""))
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	if tokens[0].Literal != "a\uFFFDb" {
		t.Errorf("literal: got %q", tokens[0].Literal)
	}
	if tokens[0].Span != ast.NewSpan(0, 0, 5) {
		t.Errorf("span: got %s", tokens[0].Span)
	}
	if err := onlyError(t, errs); err.Kind != lexer.InvalidUTF8 {
		t.Errorf("kind: got %d, want InvalidUTF8", err.Kind)
	}
}

// ── Spans ─────────────────────────────────────────────────────────────────────

func TestLexer_Spans(t *testing.T) {
	src := []byte("let x = 10;\n  foo->bar")
	tokens, _ := lexer.Lex(src)

	want := []struct {
		start, length int
		text          string
	}{
		{0, 3, "let"},
		{4, 1, "x"},
		{6, 1, "="},
		{8, 2, "10"},
		{10, 1, ";"},
		{14, 3, "foo"},
		{17, 2, "->"},
		{19, 3, "bar"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, w := range want {
		sp := tokens[i].Span
		if sp.Start != w.start || sp.Len != w.length {
			t.Errorf("token %d: span %s, want %d..%d", i, sp, w.start, w.start+w.length)
		}
		if got := sp.Text(src); got != w.text {
			t.Errorf("token %d: text %q, want %q", i, got, w.text)
		}
	}
}

// TestLexer_SourceID checks that every span carries the unit it was lexed
// from.
func TestLexer_SourceID(t *testing.T) {
	tokens, errs := lexer.LexSource(3, []byte("a @"))
	for _, tok := range tokens {
		if tok.Span.Source != 3 {
			t.Errorf("token %q: source %d, want 3", tok.Literal, tok.Span.Source)
		}
	}
	if err := onlyError(t, errs); err.Span().Source != 3 {
		t.Errorf("error source: got %d, want 3", err.Span().Source)
	}
}

// TestLexer_Exhausted verifies that NextToken keeps reporting exhaustion.
func TestLexer_Exhausted(t *testing.T) {
	l := lexer.New([]byte("x  \n"))
	if _, ok := l.NextToken(); !ok {
		t.Fatal("expected one token")
	}
	for i := 0; i < 3; i++ {
		if tok, ok := l.NextToken(); ok {
			t.Fatalf("call %d: got token %q after end of input", i, tok.Literal)
		}
	}
}

// ── Totality and coverage ─────────────────────────────────────────────────────

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\f' || b == '\r'
}

// checkCoverage asserts that the tokens of src are non-empty, in order, and
// separated only by whitespace, so that together they cover exactly the
// non-whitespace bytes of src.
func checkCoverage(t *testing.T, src []byte) {
	t.Helper()
	tokens, _ := lexer.Lex(src)

	pos := 0
	for i, tok := range tokens {
		sp := tok.Span
		if sp.Len <= 0 {
			t.Fatalf("token %d (%s) has empty span %s", i, tok.Type, sp)
		}
		if sp.Start < pos || sp.End() > len(src) {
			t.Fatalf("token %d span %s out of order or out of range (pos %d, len %d)", i, sp, pos, len(src))
		}
		for j := pos; j < sp.Start; j++ {
			if !isSpace(src[j]) {
				t.Fatalf("byte %d (%q) before token %d is not covered", j, src[j], i)
			}
		}
		pos = sp.End()
	}
	for j := pos; j < len(src); j++ {
		if !isSpace(src[j]) {
			t.Fatalf("trailing byte %d (%q) is not covered", j, src[j])
		}
	}
}

func TestLexer_CoverageEmpty(t *testing.T) {
	for _, src := range []string{"", " ", "\t\n\r\f  "} {
		tokens, errs := lexer.Lex([]byte(src))
		if len(tokens) != 0 || len(errs) != 0 {
			t.Errorf("%q: got %d tokens and %d errors, want none", src, len(tokens), len(errs))
		}
	}
}

func TestLexer_Coverage(t *testing.T) {
	inputs := []string{
		"fn main() {}",
		"extern fn exit(code: i32);",
		`struct P { x: i32 y: i32 }`,
		"let p = ->mut q; *p = [1, 2][0];",
		"\"unterminated",
		"é€\xff\xfe ok",
	}
	for _, src := range inputs {
		checkCoverage(t, []byte(src))
	}
}

// TestLexer_CoverageRandom feeds byte noise to the lexer. The alphabet is
// weighted towards bytes that start tokens so that multi-byte operators and
// strings occur often.
func TestLexer_CoverageRandom(t *testing.T) {
	const alphabet = "az09_\" \n(){}[];,:.=<>+-*/@#\x80\xff\xc3\xa9"
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		src := make([]byte, rng.Intn(64))
		for j := range src {
			src[j] = alphabet[rng.Intn(len(alphabet))]
		}
		checkCoverage(t, src)
	}
}

func FuzzLex(f *testing.F) {
	f.Add([]byte("fn main() {}"))
	f.Add([]byte("\"unterminated"))
	f.Add([]byte("extern fn exit(code: i32);"))
	f.Add([]byte("99999999999 -> ->mut == >= <="))
	f.Add([]byte("\xff\xfe é"))
	f.Fuzz(func(t *testing.T, src []byte) {
		checkCoverage(t, src)
	})
}

// ── Program ───────────────────────────────────────────────────────────────────

// TestLexer_Program tokenises a complete function and checks the stream.
func TestLexer_Program(t *testing.T) {
	input := `fn sum(xs: ->[i32]): i32 {
	let mut total = 0;
	for i, x in xs { total = total + x; }
	return total;
}`
	l := runCases(t, input, []tokenCase{
		{ast.FN, "fn"},
		{ast.IDENT, "sum"},
		{ast.LPAREN, "("},
		{ast.IDENT, "xs"},
		{ast.COLON, ":"},
		{ast.ARROW, "->"},
		{ast.LBRACKET, "["},
		{ast.IDENT, "i32"},
		{ast.RBRACKET, "]"},
		{ast.RPAREN, ")"},
		{ast.COLON, ":"},
		{ast.IDENT, "i32"},
		{ast.LBRACE, "{"},
		{ast.LET, "let"},
		{ast.MUT, "mut"},
		{ast.IDENT, "total"},
		{ast.ASSIGN, "="},
		{ast.INT, "0"},
		{ast.SEMICOLON, ";"},
		{ast.FOR, "for"},
		{ast.IDENT, "i"},
		{ast.COMMA, ","},
		{ast.IDENT, "x"},
		{ast.IN, "in"},
		{ast.IDENT, "xs"},
		{ast.LBRACE, "{"},
		{ast.IDENT, "total"},
		{ast.ASSIGN, "="},
		{ast.IDENT, "total"},
		{ast.PLUS, "+"},
		{ast.IDENT, "x"},
		{ast.SEMICOLON, ";"},
		{ast.RBRACE, "}"},
		{ast.RETURN, "return"},
		{ast.IDENT, "total"},
		{ast.SEMICOLON, ";"},
		{ast.RBRACE, "}"},
	})
	expectNoErrors(t, l)
}
