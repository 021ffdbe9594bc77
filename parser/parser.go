// Package parser implements the Sable recursive-descent parser.
//
// The parser reads the token slice produced by the lexer and builds an
// [ast.Program]. Expressions are parsed by a fixed cascade of precedence
// levels (comparison, assignment, additive, multiplicative, term), each
// delegating to the next-tighter level for its operands.
//
// Usage:
//
//	tokens, lexErrs := lexer.Lex(src)
//	prog, parseErrs := parser.Parse(tokens)
//
// Error recovery: the parser never stops at the first problem. A missing token
// is reported without being consumed, so the following step can interpret
// what is actually there. Statements and items resynchronise on their
// terminator (`;` or `}`) by reporting and skipping every token before it.
// Running out of tokens abandons only the current top-level item and is
// reported once, at the last token.
package parser

import (
	"errors"

	"github.com/metaphox/sable/ast"
	"github.com/metaphox/sable/types"
)

// Restriction narrows what an expression may contain.
type Restriction int

const (
	// NoRestriction allows every expression form.
	NoRestriction Restriction = iota
	// NoStructLiteral treats `Name {` as a variable followed by a block. It is
	// used for the conditions of if, while and for, whose body brace would
	// otherwise be read as the start of a struct literal.
	NoStructLiteral
)

// Parser holds the state of one parse: the tokens, a cursor into them, and
// the diagnostics collected so far. A Parser is not safe for concurrent use.
type Parser struct {
	tokens []ast.Token
	pos    int // index of the current token; only ever moves forward
	errors []*ParseError
}

// New creates a Parser positioned at the first token.
func New(tokens []ast.Token) *Parser {
	return NewAt(tokens, 0)
}

// NewAt creates a Parser positioned at tokens[pos]. Positions outside the
// slice are clamped to its bounds.
func NewAt(tokens []ast.Token, pos int) *Parser {
	return &Parser{tokens: tokens, pos: min(max(pos, 0), len(tokens))}
}

// Parse parses a whole program. It always returns a program, possibly with
// empty item lists, together with every diagnostic in source order.
func Parse(tokens []ast.Token) (*ast.Program, []*ParseError) {
	p := New(tokens)
	prog := p.ParseProgram()
	return prog, p.Errors()
}

// Errors returns all parse errors collected so far.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// Pos returns the index of the next unconsumed token.
func (p *Parser) Pos() int {
	return p.pos
}

// ParseProgram parses items until the tokens run out.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.pos < len(p.tokens) {
		mark := len(p.errors)
		if err := p.parseItem(prog); errors.Is(err, errEndOfInput) {
			// The item is dropped together with anything it reported.
			p.abandon(mark)
			break
		}
	}
	return prog
}

// ParseExpression parses one expression starting at the cursor. It reports
// false when the tokens ran out before the expression was complete, after
// recording a single UnexpectedEndOfInput.
func (p *Parser) ParseExpression(r Restriction) (ast.Expression, bool) {
	mark := len(p.errors)
	expr, err := p.parseExpression(r)
	if err != nil {
		p.abandon(mark)
		return nil, false
	}
	return expr, true
}

// ParseStatement parses one block-level statement, including its `;` where
// one is required. End of input is handled as in ParseExpression.
func (p *Parser) ParseStatement() (ast.Statement, bool) {
	mark := len(p.errors)
	stmt, err := p.parseStatement()
	if err != nil {
		p.abandon(mark)
		return nil, false
	}
	return stmt, true
}

// abandon drops the diagnostics recorded since mark and replaces them with a
// single UnexpectedEndOfInput.
func (p *Parser) abandon(mark int) {
	p.errors = p.errors[:mark]
	p.endOfInput()
}

// ── Internal token management ─────────────────────────────────────────────────

// peek returns the current token, or errEndOfInput past the end.
func (p *Parser) peek() (ast.Token, error) {
	if p.pos >= len(p.tokens) {
		return ast.Token{}, errEndOfInput
	}
	return p.tokens[p.pos], nil
}

// lookahead returns the token n places after the cursor without treating the
// end of input as an error.
func (p *Parser) lookahead(n int) (ast.Token, bool) {
	if p.pos+n >= len(p.tokens) {
		return ast.Token{}, false
	}
	return p.tokens[p.pos+n], true
}

// at reports whether the current token exists and has type tt.
func (p *Parser) at(tt ast.TokenType) bool {
	tok, ok := p.lookahead(0)
	return ok && tok.Type == tt
}

// eat consumes the current token if it has type tt.
func (p *Parser) eat(tt ast.TokenType) (bool, error) {
	tok, err := p.peek()
	if err != nil {
		return false, err
	}
	if tok.Type != tt {
		return false, nil
	}
	p.pos++
	return true, nil
}

// prevSpan returns the span of the most recently consumed token.
func (p *Parser) prevSpan() ast.Span {
	if p.pos == 0 || p.pos > len(p.tokens) {
		return ast.Span{}
	}
	return p.tokens[p.pos-1].Span
}

// expect consumes the current token if it has type tt. Otherwise it records
// ExpectedToken and leaves the token in place for the caller to deal with.
func (p *Parser) expect(tt ast.TokenType) error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok.Type == tt {
		p.pos++
		return nil
	}
	p.report(ExpectedToken, tok.Span).Expected = tt
	return nil
}

// recoverTo skips ahead to the next token of type tt, recording an
// ExpectedToken for every token skipped, and then expects it.
func (p *Parser) recoverTo(tt ast.TokenType) error {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Type != tt {
		p.report(ExpectedToken, p.tokens[p.pos].Span).Expected = tt
		p.pos++
	}
	return p.expect(tt)
}

// report records a diagnostic and returns it so the caller can fill in
// kind-specific fields.
func (p *Parser) report(kind ParseErrorKind, span ast.Span) *ParseError {
	err := &ParseError{Kind: kind, span: span}
	p.errors = append(p.errors, err)
	return err
}

// endOfInput records the single UnexpectedEndOfInput diagnostic, anchored at
// the last token.
func (p *Parser) endOfInput() {
	var span ast.Span
	if n := len(p.tokens); n > 0 {
		span = p.tokens[n-1].Span
	}
	p.report(UnexpectedEndOfInput, span)
}

// ── Item parsing ──────────────────────────────────────────────────────────────

// parseItem parses one top-level item and appends it to prog. A token that
// cannot start an item is reported and skipped.
func (p *Parser) parseItem(prog *ast.Program) error {
	tok := p.tokens[p.pos]
	switch tok.Type {
	case ast.OPAQUE:
		s, err := p.parseOpaqueStruct()
		if err != nil {
			return err
		}
		prog.Structs = append(prog.Structs, s)
	case ast.STRUCT:
		s, err := p.parseStruct()
		if err != nil {
			return err
		}
		prog.Structs = append(prog.Structs, s)
	case ast.FN:
		fn, err := p.parseFunction()
		if err != nil {
			return err
		}
		prog.Functions = append(prog.Functions, fn)
	case ast.EXTERN:
		fn, err := p.parseExternFunction()
		if err != nil {
			return err
		}
		prog.ExternFunctions = append(prog.ExternFunctions, fn)
	default:
		p.report(UnexpectedToken, tok.Span)
		p.pos++
	}
	return nil
}

// parseOpaqueStruct parses `opaque struct Name;`.
func (p *Parser) parseOpaqueStruct() (*ast.OpaqueStruct, error) {
	if err := p.expect(ast.OPAQUE); err != nil {
		return nil, err
	}
	if err := p.expect(ast.STRUCT); err != nil {
		return nil, err
	}
	name, nameSpan, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if err := p.recoverTo(ast.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.OpaqueStruct{Name: name, Span: nameSpan}, nil
}

// parseStruct parses `struct Name { field: Type, ... }`. The trailing comma is
// optional; the field loop stops at the first field not followed by a comma
// and the parser then resynchronises on `}`.
func (p *Parser) parseStruct() (*ast.TransparentStruct, error) {
	if err := p.expect(ast.STRUCT); err != nil {
		return nil, err
	}
	name, nameSpan, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.LBRACE); err != nil {
		return nil, err
	}

	var fields []ast.Field
	for p.pos < len(p.tokens) && !p.at(ast.RBRACE) {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.Field(param))

		comma, err := p.eat(ast.COMMA)
		if err != nil {
			return nil, err
		}
		if !comma {
			break
		}
	}

	if err := p.recoverTo(ast.RBRACE); err != nil {
		return nil, err
	}
	return &ast.TransparentStruct{Name: name, Span: nameSpan, Fields: fields}, nil
}

// parseExternFunction parses `extern fn name(params) [: Type];`.
func (p *Parser) parseExternFunction() (*ast.ExternFunction, error) {
	p.pos++ // consume 'extern'
	if err := p.expect(ast.FN); err != nil {
		return nil, err
	}
	name, nameSpan, err := p.parseName()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	retType, retSpan, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}

	// The semicolon should be the very next token, but after an earlier error
	// it may not be.
	if err := p.recoverTo(ast.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.ExternFunction{
		Name:           name,
		NameSpan:       nameSpan,
		Params:         params,
		ReturnType:     retType,
		ReturnTypeSpan: retSpan,
	}, nil
}

// parseFunction parses `fn name(params) [: Type] { body }`.
func (p *Parser) parseFunction() (*ast.Function, error) {
	if err := p.expect(ast.FN); err != nil {
		return nil, err
	}
	name, nameSpan, err := p.parseName()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	retType, retSpan, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.Function{
		Name:           name,
		NameSpan:       nameSpan,
		Params:         params,
		ReturnType:     retType,
		ReturnTypeSpan: retSpan,
		Body:           body,
	}, nil
}

// ── Parameters and types ──────────────────────────────────────────────────────

// parseParamList parses a parenthesised parameter list: `(a: i32, b: ->T)`.
// The trailing comma is optional.
func (p *Parser) parseParamList() ([]ast.Param, error) {
	if err := p.expect(ast.LPAREN); err != nil {
		return nil, err
	}

	var params []ast.Param
	for p.pos < len(p.tokens) && !p.at(ast.RPAREN) {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		comma, err := p.eat(ast.COMMA)
		if err != nil {
			return nil, err
		}
		if !comma {
			break
		}
	}

	if err := p.expect(ast.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// parseParam parses `name: Type`. It is shared by parameter and field lists.
func (p *Parser) parseParam() (ast.Param, error) {
	name, nameSpan, err := p.parseName()
	if err != nil {
		return ast.Param{}, err
	}
	if err := p.expect(ast.COLON); err != nil {
		return ast.Param{}, err
	}
	typ, typeSpan, err := p.parseType()
	if err != nil {
		return ast.Param{}, err
	}
	return ast.Param{Name: name, NameSpan: nameSpan, Type: typ, TypeSpan: typeSpan}, nil
}

// parseReturnType parses an optional `: Type` after a parameter list. Without
// one the function returns unit, located right after the closing parenthesis.
func (p *Parser) parseReturnType() (types.Type, ast.Span, error) {
	if !p.at(ast.COLON) {
		return types.Unit, p.prevSpan().After(), nil
	}
	p.pos++ // consume ':'
	return p.parseType()
}

// parseType parses a type: a name, or `->` / `->mut` followed by a type.
// A missing name is reported and yields the unit type.
func (p *Parser) parseType() (types.Type, ast.Span, error) {
	tok, err := p.peek()
	if err != nil {
		return types.Type{}, ast.Span{}, err
	}

	switch tok.Type {
	case ast.ARROW:
		p.pos++ // consume '->'
		mutable, err := p.eat(ast.MUT)
		if err != nil {
			return types.Type{}, ast.Span{}, err
		}
		elem, elemSpan, err := p.parseType()
		if err != nil {
			return types.Type{}, ast.Span{}, err
		}
		return types.Pointer(elem, mutable), tok.Span.Merge(elemSpan), nil
	case ast.IDENT:
		p.pos++
		return types.FromString(tok.Literal), tok.Span, nil
	}

	p.report(ExpectedIdentifier, tok.Span)
	return types.Unit, tok.Span, nil
}

// parseName consumes an identifier. When the current token is not one, it
// records ExpectedIdentifier, leaves the token in place, and returns an empty
// name spanning the offending token.
func (p *Parser) parseName() (string, ast.Span, error) {
	tok, err := p.peek()
	if err != nil {
		return "", ast.Span{}, err
	}
	if tok.Type == ast.IDENT {
		p.pos++
		return tok.Literal, tok.Span, nil
	}
	p.report(ExpectedIdentifier, tok.Span)
	return "", tok.Span, nil
}

// ── Block and statement parsing ───────────────────────────────────────────────

// parseBlock parses a brace-delimited block `{ stmts... }`.
func (p *Parser) parseBlock() (*ast.Block, error) {
	if err := p.expect(ast.LBRACE); err != nil {
		return nil, err
	}

	block := &ast.Block{}
	for p.pos < len(p.tokens) && !p.at(ast.RBRACE) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}

	if err := p.expect(ast.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

// parseStatement dispatches on the current token. Statements that end in an
// expression must be terminated by `;` and resynchronise on it; loops and
// conditionals end with their block's `}` instead.
func (p *Parser) parseStatement() (ast.Statement, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	var stmt ast.Statement
	switch tok.Type {
	case ast.LET:
		stmt, err = p.parseLetStatement()
	case ast.WHILE:
		return p.parseWhileStatement()
	case ast.IF:
		return p.parseIfStatement()
	case ast.FOR:
		return p.parseForStatement()
	case ast.RETURN:
		p.pos++ // consume 'return'
		var value ast.Expression
		value, err = p.parseExpression(NoRestriction)
		stmt = &ast.ReturnStmt{Value: value}
	default:
		var expr ast.Expression
		expr, err = p.parseExpression(NoRestriction)
		stmt = &ast.ExprStmt{Expr: expr}
	}
	if err != nil {
		return nil, err
	}

	if err := p.recoverTo(ast.SEMICOLON); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseLetStatement parses `let [mut] name = expr` (the `;` is left to the
// caller).
func (p *Parser) parseLetStatement() (ast.Statement, error) {
	p.pos++ // consume 'let'
	mutable, err := p.eat(ast.MUT)
	if err != nil {
		return nil, err
	}
	name, nameSpan, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(NoRestriction)
	if err != nil {
		return nil, err
	}
	return &ast.LetStmt{Name: name, NameSpan: nameSpan, Value: value, Mutable: mutable}, nil
}

// parseWhileStatement parses `while condition { body }`.
func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	if err := p.expect(ast.WHILE); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(NoStructLiteral)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Condition: cond, Body: body}, nil
}

// parseIfStatement parses `if condition { then } [else { else }]`.
func (p *Parser) parseIfStatement() (ast.Statement, error) {
	if err := p.expect(ast.IF); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(NoStructLiteral)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{Condition: cond, Then: then}
	if p.at(ast.ELSE) {
		p.pos++ // consume 'else'
		if stmt.Else, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// parseForStatement parses `for [index,] elem in iterable { body }`. A comma
// right after the first name marks that name as the index variable.
func (p *Parser) parseForStatement() (ast.Statement, error) {
	if err := p.expect(ast.FOR); err != nil {
		return nil, err
	}

	stmt := &ast.ForStmt{}
	if next, ok := p.lookahead(1); ok && next.Type == ast.COMMA {
		name, span, err := p.parseName()
		if err != nil {
			return nil, err
		}
		stmt.Index = &ast.Binding{Name: name, Span: span}
		if err := p.expect(ast.COMMA); err != nil {
			return nil, err
		}
	}
	name, span, err := p.parseName()
	if err != nil {
		return nil, err
	}
	stmt.Elem = ast.Binding{Name: name, Span: span}

	if err := p.expect(ast.IN); err != nil {
		return nil, err
	}
	if stmt.Iterable, err = p.parseExpression(NoStructLiteral); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}
