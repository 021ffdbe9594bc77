// Package ast defines the Abstract Syntax Tree (AST) node types for Sable.
//
// The hierarchy is:
//
//	Program
//	  StructDecl (interface)       OpaqueStruct, TransparentStruct
//	  ExternFunction, Function
//	Statement (interface)
//	  ExprStmt, LetStmt, WhileStmt, IfStmt, ForStmt, ReturnStmt
//	Expression (interface)
//	  StringLiteral, IntLiteral, BoolLiteral, StructLiteral, ArrayLiteral
//	  CallExpr, Variable, CompareExpr, MathExpr, FieldExpr, IndexExpr
//	  AssignExpr, AddressOf, Deref
//
// Every expression reports the exact byte span it was parsed from via Span().
// Composite spans are derived from their children with [Span.Merge], so a
// node's span always contains the spans of its sub-expressions.
package ast

import (
	"fmt"
	"strings"

	"github.com/metaphox/sable/types"
)

// ── Interfaces ────────────────────────────────────────────────────────────────

// Node is the root interface for every element in the Sable AST.
type Node interface {
	// String returns a compact, human-readable representation of the node.
	// It is intended for debugging and test output, not pretty-printing.
	String() string
}

// Statement is a Node that appears inside a block.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that evaluates to a value.
type Expression interface {
	Node
	expressionNode()
	// Span returns the source range the expression was parsed from.
	Span() Span
}

// StructDecl is either an *OpaqueStruct or a *TransparentStruct.
type StructDecl interface {
	Node
	structNode()
	StructName() string
	NameSpan() Span
}

// ── Top-level program ─────────────────────────────────────────────────────────

// Program is the root AST node produced by the parser. Each list keeps the
// order in which its items appear in the source.
type Program struct {
	Structs         []StructDecl
	ExternFunctions []*ExternFunction
	Functions       []*Function
}

// String returns all items, one per line, grouped by kind.
func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Structs {
		sb.WriteString(s.String() + "\n")
	}
	for _, f := range p.ExternFunctions {
		sb.WriteString(f.String() + "\n")
	}
	for _, f := range p.Functions {
		sb.WriteString(f.String() + "\n")
	}
	return sb.String()
}

// ── Support types ─────────────────────────────────────────────────────────────

// Param is a single function parameter: name: Type.
type Param struct {
	Name     string
	NameSpan Span
	Type     types.Type
	TypeSpan Span
}

func (p Param) String() string { return p.Name + ": " + p.Type.String() }

// Field is one field of a transparent struct: name: Type.
type Field struct {
	Name     string
	NameSpan Span
	Type     types.Type
	TypeSpan Span
}

func (f Field) String() string { return f.Name + ": " + f.Type.String() }

// Binding is a name introduced by a for-in loop.
type Binding struct {
	Name string
	Span Span
}

// FieldInit is one `name: value` pair of a struct literal.
type FieldInit struct {
	Name     string
	NameSpan Span
	Value    Expression
}

func joinParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// ── Items ─────────────────────────────────────────────────────────────────────

// OpaqueStruct is a forward-declared struct with no visible fields.
//
//	opaque struct File;
type OpaqueStruct struct {
	Name string
	Span Span // span of the name
}

func (d *OpaqueStruct) structNode()        {}
func (d *OpaqueStruct) StructName() string { return d.Name }
func (d *OpaqueStruct) NameSpan() Span     { return d.Span }
func (d *OpaqueStruct) String() string     { return fmt.Sprintf("opaque struct %s", d.Name) }

// TransparentStruct is a struct with a field list.
//
//	struct Point { x: i32, y: i32 }
type TransparentStruct struct {
	Name   string
	Span   Span // span of the name
	Fields []Field
}

func (d *TransparentStruct) structNode()        {}
func (d *TransparentStruct) StructName() string { return d.Name }
func (d *TransparentStruct) NameSpan() Span     { return d.Span }
func (d *TransparentStruct) String() string {
	parts := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("struct %s { %s }", d.Name, strings.Join(parts, ", "))
}

// ExternFunction is a foreign function declaration without a body.
//
//	extern fn exit(code: i32);
type ExternFunction struct {
	Name           string
	NameSpan       Span
	Params         []Param
	ReturnType     types.Type
	ReturnTypeSpan Span
}

func (f *ExternFunction) String() string {
	return fmt.Sprintf("extern fn %s(%s): %s", f.Name, joinParams(f.Params), f.ReturnType)
}

// Function is a function definition.
//
//	fn add(a: i32, b: i32): i32 { return a + b; }
//
// When no return type is written, ReturnType is types.Unit and ReturnTypeSpan
// is the zero-length span right after the closing parenthesis.
type Function struct {
	Name           string
	NameSpan       Span
	Params         []Param
	ReturnType     types.Type
	ReturnTypeSpan Span
	Body           *Block
}

func (f *Function) String() string {
	return fmt.Sprintf("fn %s(%s): %s %s", f.Name, joinParams(f.Params), f.ReturnType, f.Body)
}

// ── Statements ────────────────────────────────────────────────────────────────

// Block is a brace-delimited sequence of statements.
type Block struct {
	Stmts []Statement
}

func (b *Block) String() string {
	if b == nil {
		return "{ }"
	}
	out := "{ "
	for _, s := range b.Stmts {
		out += s.String() + "; "
	}
	return out + "}"
}

// ExprStmt wraps an expression in statement position: f(x);
type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) statementNode()  {}
func (s *ExprStmt) String() string { return s.Expr.String() }

// LetStmt declares a binding.
//
//	let x = 42;       → Mutable=false
//	let mut n = 0;    → Mutable=true
type LetStmt struct {
	Name     string
	NameSpan Span
	Value    Expression
	Mutable  bool
}

func (s *LetStmt) statementNode() {}
func (s *LetStmt) String() string {
	kw := "let"
	if s.Mutable {
		kw = "let mut"
	}
	return fmt.Sprintf("%s %s = %s", kw, s.Name, s.Value)
}

// WhileStmt is a conditional loop.
//
//	while i < 10 { i = i + 1; }
type WhileStmt struct {
	Condition Expression
	Body      *Block
}

func (s *WhileStmt) statementNode() {}
func (s *WhileStmt) String() string {
	return fmt.Sprintf("while %s %s", s.Condition, s.Body)
}

// IfStmt is a conditional with an optional else block (nil when absent).
type IfStmt struct {
	Condition Expression
	Then      *Block
	Else      *Block
}

func (s *IfStmt) statementNode() {}
func (s *IfStmt) String() string {
	out := fmt.Sprintf("if %s %s", s.Condition, s.Then)
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// ForStmt is an iterator loop. Index is nil unless the loop names one.
//
//	for x in xs { }       → Index=nil, Elem=x
//	for i, x in xs { }    → Index=i,   Elem=x
type ForStmt struct {
	Index    *Binding
	Elem     Binding
	Iterable Expression
	Body     *Block
}

func (s *ForStmt) statementNode() {}
func (s *ForStmt) String() string {
	vars := s.Elem.Name
	if s.Index != nil {
		vars = s.Index.Name + ", " + vars
	}
	return fmt.Sprintf("for %s in %s %s", vars, s.Iterable, s.Body)
}

// ReturnStmt returns a value from the enclosing function.
type ReturnStmt struct {
	Value Expression
}

func (s *ReturnStmt) statementNode()  {}
func (s *ReturnStmt) String() string { return "return " + s.Value.String() }

// ── Expressions ───────────────────────────────────────────────────────────────

// StringLiteral is a string literal; Value excludes the quotes.
type StringLiteral struct {
	Value string
	span  Span
}

// NewStringLiteral returns a string literal spanning span.
func NewStringLiteral(value string, span Span) *StringLiteral {
	return &StringLiteral{Value: value, span: span}
}

func (e *StringLiteral) expressionNode() {}
func (e *StringLiteral) Span() Span      { return e.span }
func (e *StringLiteral) String() string  { return fmt.Sprintf("%q", e.Value) }

// IntLiteral is a 32-bit signed integer literal.
type IntLiteral struct {
	Value int32
	span  Span
}

// NewIntLiteral returns an integer literal spanning span.
func NewIntLiteral(value int32, span Span) *IntLiteral {
	return &IntLiteral{Value: value, span: span}
}

func (e *IntLiteral) expressionNode() {}
func (e *IntLiteral) Span() Span      { return e.span }
func (e *IntLiteral) String() string  { return fmt.Sprintf("%d", e.Value) }

// BoolLiteral is true or false.
type BoolLiteral struct {
	Value bool
	span  Span
}

// NewBoolLiteral returns a boolean literal spanning span.
func NewBoolLiteral(value bool, span Span) *BoolLiteral {
	return &BoolLiteral{Value: value, span: span}
}

func (e *BoolLiteral) expressionNode() {}
func (e *BoolLiteral) Span() Span      { return e.span }
func (e *BoolLiteral) String() string  { return fmt.Sprintf("%t", e.Value) }

// StructLiteral constructs a struct value.
//
//	Point { x: 1, y: 2 }
type StructLiteral struct {
	Name     string
	NameSpan Span
	Fields   []FieldInit
	span     Span // name through closing brace
}

// NewStructLiteral returns a struct literal; span runs from the name to the closing brace.
func NewStructLiteral(name string, nameSpan Span, fields []FieldInit, span Span) *StructLiteral {
	return &StructLiteral{Name: name, NameSpan: nameSpan, Fields: fields, span: span}
}

func (e *StructLiteral) expressionNode() {}
func (e *StructLiteral) Span() Span      { return e.span }
func (e *StructLiteral) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Name + ": " + f.Value.String()
	}
	return fmt.Sprintf("%s { %s }", e.Name, strings.Join(parts, ", "))
}

// ArrayLiteral is a bracketed list of elements: [1, 2, 3]
type ArrayLiteral struct {
	Elements []Expression
	span     Span
}

// NewArrayLiteral returns an array literal spanning its brackets.
func NewArrayLiteral(elems []Expression, span Span) *ArrayLiteral {
	return &ArrayLiteral{Elements: elems, span: span}
}

func (e *ArrayLiteral) expressionNode() {}
func (e *ArrayLiteral) Span() Span      { return e.span }
func (e *ArrayLiteral) String() string  { return "[" + joinExprs(e.Elements) + "]" }

// CallExpr calls a function by name: add(1, 2)
type CallExpr struct {
	Name     string
	NameSpan Span
	Args     []Expression
	span     Span // name through closing parenthesis
}

// NewCallExpr returns a call; span runs from the name to the closing parenthesis.
func NewCallExpr(name string, nameSpan Span, args []Expression, span Span) *CallExpr {
	return &CallExpr{Name: name, NameSpan: nameSpan, Args: args, span: span}
}

func (e *CallExpr) expressionNode() {}
func (e *CallExpr) Span() Span      { return e.span }
func (e *CallExpr) String() string  { return fmt.Sprintf("%s(%s)", e.Name, joinExprs(e.Args)) }

// Variable is a reference to a named binding.
type Variable struct {
	Name string
	span Span
}

// NewVariable returns a reference to the binding name.
func NewVariable(name string, span Span) *Variable {
	return &Variable{Name: name, span: span}
}

func (e *Variable) expressionNode() {}
func (e *Variable) Span() Span      { return e.span }
func (e *Variable) String() string  { return e.Name }

// CompareOp is a comparison operator.
type CompareOp int

const (
	Equal CompareOp = iota
	GreaterThan
	GreaterThanEqual
	LessThan
	LessThanEqual
)

func (op CompareOp) String() string {
	switch op {
	case Equal:
		return "=="
	case GreaterThan:
		return ">"
	case GreaterThanEqual:
		return ">="
	case LessThan:
		return "<"
	case LessThanEqual:
		return "<="
	}
	return "?"
}

// CompareExpr is a binary comparison: left op right.
type CompareExpr struct {
	Op    CompareOp
	Left  Expression
	Right Expression
}

func (e *CompareExpr) expressionNode() {}
func (e *CompareExpr) Span() Span      { return e.Left.Span().Merge(e.Right.Span()) }
func (e *CompareExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// MathOp is an arithmetic operator.
type MathOp int

const (
	Add MathOp = iota
	Subtract
	Multiply
	Divide
)

func (op MathOp) String() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	}
	return "?"
}

// MathExpr is a binary arithmetic expression: left op right.
type MathExpr struct {
	Op    MathOp
	Left  Expression
	Right Expression
}

func (e *MathExpr) expressionNode() {}
func (e *MathExpr) Span() Span      { return e.Left.Span().Merge(e.Right.Span()) }
func (e *MathExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// FieldExpr is a field access: point.x
type FieldExpr struct {
	Object    Expression
	Field     string
	FieldSpan Span
}

func (e *FieldExpr) expressionNode() {}
func (e *FieldExpr) Span() Span      { return e.Object.Span().Merge(e.FieldSpan) }
func (e *FieldExpr) String() string  { return fmt.Sprintf("%s.%s", e.Object, e.Field) }

// IndexExpr is an array index: xs[i]
type IndexExpr struct {
	Array Expression
	Index Expression
	// Close is the span of the closing bracket, or of the last token of Index
	// when the bracket was missing.
	Close Span
}

func (e *IndexExpr) expressionNode() {}
func (e *IndexExpr) Span() Span {
	return e.Array.Span().Merge(e.Index.Span()).Merge(e.Close)
}
func (e *IndexExpr) String() string { return fmt.Sprintf("%s[%s]", e.Array, e.Index) }

// AssignExpr stores Value into Target. The parser does not check that Target
// is assignable.
type AssignExpr struct {
	Target Expression
	Value  Expression
}

func (e *AssignExpr) expressionNode() {}
func (e *AssignExpr) Span() Span      { return e.Target.Span().Merge(e.Value.Span()) }
func (e *AssignExpr) String() string  { return fmt.Sprintf("(%s = %s)", e.Target, e.Value) }

// AddressOf takes a pointer to its operand: ->x or ->mut x.
type AddressOf struct {
	// Arrow covers the `->` token and, for mutable pointers, the `mut` token.
	Arrow   Span
	Mutable bool
	Operand Expression
}

func (e *AddressOf) expressionNode() {}
func (e *AddressOf) Span() Span      { return e.Arrow.Merge(e.Operand.Span()) }
func (e *AddressOf) String() string {
	if e.Mutable {
		return fmt.Sprintf("(->mut %s)", e.Operand)
	}
	return fmt.Sprintf("(->%s)", e.Operand)
}

// Deref reads through a pointer: *p
type Deref struct {
	Star    Span
	Operand Expression
}

func (e *Deref) expressionNode() {}
func (e *Deref) Span() Span      { return e.Star.Merge(e.Operand.Span()) }
func (e *Deref) String() string  { return fmt.Sprintf("(*%s)", e.Operand) }
