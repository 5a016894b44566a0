// Package ast defines the surface syntax tree consumed by
// internal/core/check. The checker core depends on this package (and on
// polar/errors and polar/token for its error values); the scanner and
// parser are external collaborators that produce these node types but are
// not depended on by the core itself.
package ast

import "github.com/polarlang/polar/polar/token"

// Expr is one of the eleven expression kinds named in spec.md §4.4: Literal,
// Variable, Record, Case, If, FieldAccess, Match, FuncDef, Call, Let, or
// LetRec.
type Expr interface {
	exprNode()
	Pos() token.Pos
}

// Literal is a constant value. The only variant is Bool.
type Literal struct {
	ValuePos token.Pos
	Bool     bool
}

func (l *Literal) exprNode()      {}
func (l *Literal) Pos() token.Pos { return l.ValuePos }

// Variable references a previously bound name.
type Variable struct {
	NamePos token.Pos
	Name    string
}

func (v *Variable) exprNode()      {}
func (v *Variable) Pos() token.Pos { return v.NamePos }

// Field is one (name, expr) pair inside a Record literal.
type Field struct {
	NamePos token.Pos
	Name    string
	Value   Expr
}

// Record is an ordered sequence of named fields. Field order is
// significant only for duplicate-name diagnostics; it does not affect the
// resulting type.
type Record struct {
	LBrace token.Pos
	Fields []Field
}

func (r *Record) exprNode()      {}
func (r *Record) Pos() token.Pos { return r.LBrace }

// Case wraps an expression with a tag, e.g. `Some x.
type Case struct {
	TagPos  token.Pos
	Tag     string
	Payload Expr
}

func (c *Case) exprNode()      {}
func (c *Case) Pos() token.Pos { return c.TagPos }

// If is a conditional. Both branches flow into the result, so the result
// type is their least common supertype.
type If struct {
	IfPos token.Pos
	Cond  Expr
	Then  Expr
	Else  Expr
}

func (x *If) exprNode()      {}
func (x *If) Pos() token.Pos { return x.IfPos }

// FieldAccess projects a single field out of a record.
type FieldAccess struct {
	Lhs    Expr
	DotPos token.Pos
	Name   string
}

func (f *FieldAccess) exprNode()      {}
func (f *FieldAccess) Pos() token.Pos { return f.Lhs.Pos() }

// MatchArm is one `Tag name -> body arm of a Match.
type MatchArm struct {
	TagPos token.Pos
	Tag    string
	Bound  string
	Body   Expr
}

// Match pattern-matches a tagged value across an exhaustive set of arms.
type Match struct {
	MatchPos  token.Pos
	Scrutinee Expr
	Arms      []MatchArm
}

func (m *Match) exprNode()      {}
func (m *Match) Pos() token.Pos { return m.MatchPos }

// FuncDef is a single-argument lambda.
type FuncDef struct {
	FunPos token.Pos
	Arg    string
	Body   Expr
}

func (f *FuncDef) exprNode()      {}
func (f *FuncDef) Pos() token.Pos { return f.FunPos }

// Call applies Func to Arg.
type Call struct {
	Func Expr
	Arg  Expr
}

func (c *Call) exprNode()      {}
func (c *Call) Pos() token.Pos { return c.Func.Pos() }

// Let binds Name to Value for the scope of Body.
type Let struct {
	LetPos token.Pos
	Name   string
	Value  Expr
	Body   Expr
}

func (l *Let) exprNode()      {}
func (l *Let) Pos() token.Pos { return l.LetPos }

// LetRecDef is one (name, expr) binding inside a LetRec or top-level
// LetRecDef; every def's expr may reference every def's name.
type LetRecDef struct {
	NamePos token.Pos
	Name    string
	Value   Expr
}

// LetRec binds a mutually-recursive group of names for the scope of Body.
type LetRec struct {
	LetPos token.Pos
	Defs   []LetRecDef
	Body   Expr
}

func (l *LetRec) exprNode()      {}
func (l *LetRec) Pos() token.Pos { return l.LetPos }

// TopLevel is one top-level script item: a bare Expr, a LetDef, or a
// LetRecDef group.
type TopLevel interface {
	topLevelNode()
	Pos() token.Pos
}

// ExprTop is a bare top-level expression, checked for its side effects on
// the flow graph (and to surface type errors) but binding nothing.
type ExprTop struct {
	X Expr
}

func (e *ExprTop) topLevelNode()   {}
func (e *ExprTop) Pos() token.Pos { return e.X.Pos() }

// LetDefTop binds Name permanently in the script's top-level scope.
type LetDefTop struct {
	LetPos token.Pos
	Name   string
	Value  Expr
}

func (l *LetDefTop) topLevelNode()  {}
func (l *LetDefTop) Pos() token.Pos { return l.LetPos }

// LetRecDefTop binds a mutually-recursive group of names permanently in
// the script's top-level scope. Per spec.md §9, the pre-declaration of
// these names happens outside of any scope guard (unlike the expression
// form LetRec), even though check_script still unwinds the whole journal
// on a later failure.
type LetRecDefTop struct {
	LetPos token.Pos
	Defs   []LetRecDef
}

func (l *LetRecDefTop) topLevelNode()  {}
func (l *LetRecDefTop) Pos() token.Pos { return l.LetPos }

// File is a parsed script: an ordered sequence of top-level items.
type File struct {
	Items []TopLevel
}
