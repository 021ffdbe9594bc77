package parser

import (
	"github.com/metaphox/sable/ast"
)

// Binary operators by precedence level.
var (
	compareOps = map[ast.TokenType]ast.CompareOp{
		ast.EQ:  ast.Equal,
		ast.GT:  ast.GreaterThan,
		ast.GTE: ast.GreaterThanEqual,
		ast.LT:  ast.LessThan,
		ast.LTE: ast.LessThanEqual,
	}
	additiveOps = map[ast.TokenType]ast.MathOp{
		ast.PLUS:  ast.Add,
		ast.MINUS: ast.Subtract,
	}
	multiplicativeOps = map[ast.TokenType]ast.MathOp{
		ast.ASTERISK: ast.Multiply,
		ast.SLASH:    ast.Divide,
	}
)

// ── Precedence cascade ────────────────────────────────────────────────────────
//
// Loosest to tightest:
//
//	comparison      a == b        right side re-enters comparison
//	assignment      a = b         right side is additive, not recursive
//	additive        a + b         right-associative
//	multiplicative  a * b         right-associative
//	term            ->x *x f() S{} x "s" 1 true [..]   then .f, then [i]

// parseExpression is the comparison level, the entry point for a full
// expression.
func (p *Parser) parseExpression(r Restriction) (ast.Expression, error) {
	left, err := p.parseAssignment(r)
	if err != nil {
		return nil, err
	}

	tok, ok := p.lookahead(0)
	if !ok {
		return left, nil
	}
	op, isCompare := compareOps[tok.Type]
	if !isCompare {
		return left, nil
	}
	p.pos++ // consume operator

	right, err := p.parseExpression(r)
	if err != nil {
		return nil, err
	}
	return &ast.CompareExpr{Op: op, Left: left, Right: right}, nil
}

// parseAssignment parses `target = value`. Any expression is accepted as the
// target.
func (p *Parser) parseAssignment(r Restriction) (ast.Expression, error) {
	target, err := p.parseAdditive(r)
	if err != nil {
		return nil, err
	}
	if !p.at(ast.ASSIGN) {
		return target, nil
	}
	p.pos++ // consume '='

	value, err := p.parseAdditive(r)
	if err != nil {
		return nil, err
	}
	return &ast.AssignExpr{Target: target, Value: value}, nil
}

// parseAdditive parses `+` and `-`. The right operand recurses into this same
// level, so 1 + 2 + 3 is 1 + (2 + 3).
func (p *Parser) parseAdditive(r Restriction) (ast.Expression, error) {
	left, err := p.parseMultiplicative(r)
	if err != nil {
		return nil, err
	}
	return p.parseMathTail(left, additiveOps, p.parseAdditive, r)
}

// parseMultiplicative parses `*` and `/`, right-associative like additive.
func (p *Parser) parseMultiplicative(r Restriction) (ast.Expression, error) {
	left, err := p.parseTerm(r)
	if err != nil {
		return nil, err
	}
	return p.parseMathTail(left, multiplicativeOps, p.parseMultiplicative, r)
}

// parseMathTail finishes a math level: if the current token is one of ops it
// is consumed and the right operand parsed with next.
func (p *Parser) parseMathTail(
	left ast.Expression,
	ops map[ast.TokenType]ast.MathOp,
	next func(Restriction) (ast.Expression, error),
	r Restriction,
) (ast.Expression, error) {
	tok, ok := p.lookahead(0)
	if !ok {
		return left, nil
	}
	op, isOp := ops[tok.Type]
	if !isOp {
		return left, nil
	}
	p.pos++ // consume operator

	right, err := next(r)
	if err != nil {
		return nil, err
	}
	return &ast.MathExpr{Op: op, Left: left, Right: right}, nil
}

// parseTerm parses a prefix or primary expression followed by at most one
// field access and then at most one index. Neither postfix repeats: a.b.c
// stops after a.b.
func (p *Parser) parseTerm(r Restriction) (ast.Expression, error) {
	expr, err := p.parsePrefix(r)
	if err != nil {
		return nil, err
	}

	if p.at(ast.DOT) {
		dot := p.tokens[p.pos].Span
		p.pos++ // consume '.'
		name, nameSpan, err := p.parseName()
		if err != nil {
			return nil, err
		}
		if name == "" {
			// Nothing was consumed for the name; end the access at the dot.
			nameSpan = dot
		}
		expr = &ast.FieldExpr{Object: expr, Field: name, FieldSpan: nameSpan}
	}

	if p.at(ast.LBRACKET) {
		p.pos++ // consume '['
		index, err := p.parseExpression(r)
		if err != nil {
			return nil, err
		}
		if err := p.expect(ast.RBRACKET); err != nil {
			return nil, err
		}
		// Without a `]` the last consumed token belongs to the index.
		expr = &ast.IndexExpr{Array: expr, Index: index, Close: p.prevSpan()}
	}

	return expr, nil
}

// parsePrefix parses address-of, dereference, or a primary expression. Tokens
// that cannot start an expression are reported and skipped until one that can
// is found.
func (p *Parser) parsePrefix(r Restriction) (ast.Expression, error) {
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case ast.ARROW:
			p.pos++ // consume '->'
			arrow := tok.Span
			mutable := false
			if next, err := p.peek(); err != nil {
				return nil, err
			} else if next.Type == ast.MUT {
				p.pos++ // consume 'mut'
				arrow = arrow.Merge(next.Span)
				mutable = true
			}
			operand, err := p.parseTerm(r)
			if err != nil {
				return nil, err
			}
			return &ast.AddressOf{Arrow: arrow, Mutable: mutable, Operand: operand}, nil

		case ast.ASTERISK:
			p.pos++ // consume '*'
			operand, err := p.parseTerm(r)
			if err != nil {
				return nil, err
			}
			return &ast.Deref{Star: tok.Span, Operand: operand}, nil

		case ast.IDENT:
			next, _ := p.lookahead(1)
			switch {
			case next.Type == ast.LPAREN:
				return p.parseCall()
			case next.Type == ast.LBRACE && r != NoStructLiteral:
				return p.parseStructLiteral()
			}
			p.pos++
			return ast.NewVariable(tok.Literal, tok.Span), nil

		case ast.STRING:
			p.pos++
			return ast.NewStringLiteral(tok.Literal, tok.Span), nil

		case ast.INT:
			p.pos++
			return ast.NewIntLiteral(tok.Int, tok.Span), nil

		case ast.TRUE, ast.FALSE:
			p.pos++
			return ast.NewBoolLiteral(tok.Type == ast.TRUE, tok.Span), nil

		case ast.LBRACKET:
			return p.parseArrayLiteral()
		}

		p.report(UnexpectedToken, tok.Span)
		p.pos++
	}
}

// parseCall parses `name(args...)`. The cursor is on the name and the next
// token is known to be `(`.
func (p *Parser) parseCall() (ast.Expression, error) {
	name, nameSpan, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.LPAREN); err != nil {
		return nil, err
	}
	args, err := p.parseExprList(ast.RPAREN)
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.RPAREN); err != nil {
		return nil, err
	}
	return ast.NewCallExpr(name, nameSpan, args, nameSpan.Merge(p.prevSpan())), nil
}

// parseStructLiteral parses `Name { field: value, ... }`.
func (p *Parser) parseStructLiteral() (ast.Expression, error) {
	name, nameSpan, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.LBRACE); err != nil {
		return nil, err
	}

	var fields []ast.FieldInit
	for p.pos < len(p.tokens) && !p.at(ast.RBRACE) {
		fieldName, fieldSpan, err := p.parseName()
		if err != nil {
			return nil, err
		}
		if err := p.expect(ast.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(NoRestriction)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.FieldInit{Name: fieldName, NameSpan: fieldSpan, Value: value})

		comma, err := p.eat(ast.COMMA)
		if err != nil {
			return nil, err
		}
		if !comma {
			break
		}
	}

	if err := p.expect(ast.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewStructLiteral(name, nameSpan, fields, nameSpan.Merge(p.prevSpan())), nil
}

// parseArrayLiteral parses `[elem, ...]`. The cursor is on the `[`.
func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	open := p.tokens[p.pos].Span
	p.pos++ // consume '['

	elems, err := p.parseExprList(ast.RBRACKET)
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.RBRACKET); err != nil {
		return nil, err
	}
	return ast.NewArrayLiteral(elems, open.Merge(p.prevSpan())), nil
}

// parseExprList parses comma-separated expressions up to, but not including,
// closer. A trailing comma is allowed. Delimited expressions are never
// restricted.
func (p *Parser) parseExprList(closer ast.TokenType) ([]ast.Expression, error) {
	var exprs []ast.Expression
	for p.pos < len(p.tokens) && !p.at(closer) {
		expr, err := p.parseExpression(NoRestriction)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)

		comma, err := p.eat(ast.COMMA)
		if err != nil {
			return nil, err
		}
		if !comma {
			break
		}
	}
	return exprs, nil
}
