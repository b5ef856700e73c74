package compiler

import "fmt"

//  Expression nodes

// Expr is implemented by every node that produces a value. Its resolved
// type, read through Type(), is filled in by the semantic analyser
// (invariant I1); nil before analysis.
type Expr interface {
	exprNode()
	Source() Span
	Type() *DataType
	setType(DataType)
	String() string
}

type exprBase struct {
	span Span
	typ  *DataType
}

func (e *exprBase) exprNode()         {}
func (e *exprBase) Source() Span      { return e.span }
func (e *exprBase) Type() *DataType   { return e.typ }
func (e *exprBase) setType(t DataType) { e.typ = &t }

// IntLiteral is a decimal integer literal with no fractional part.
type IntLiteral struct {
	exprBase
	Value int64
}

func (l *IntLiteral) String() string { return fmt.Sprintf("%d", l.Value) }

// DecimalLiteral has a fractional and/or exponent part.
type DecimalLiteral struct {
	exprBase
	Value float64
}

func (l *DecimalLiteral) String() string { return fmt.Sprintf("%g", l.Value) }

// BoolLiteral is true/false.
type BoolLiteral struct {
	exprBase
	Value bool
}

func (l *BoolLiteral) String() string { return fmt.Sprintf("%t", l.Value) }

// StringLiteral is a "..." literal, packed per §4.5 at generation time.
type StringLiteral struct {
	exprBase
	Value string // already unescaped by the lexer
}

func (l *StringLiteral) String() string { return fmt.Sprintf("%q", l.Value) }

// Identifier is a read of a named symbol.
type Identifier struct {
	exprBase
	Name string
}

func (i *Identifier) String() string { return i.Name }

// Reference is &id: address-of a named symbol.
type Reference struct {
	exprBase
	Target *Identifier
}

func (r *Reference) String() string { return "&" + r.Target.Name }

// ArrayLiteral is [e1, e2, ...].
type ArrayLiteral struct {
	exprBase
	Elements []Expr
}

func (a *ArrayLiteral) String() string { return fmt.Sprintf("%v", a.Elements) }

// Index is e[i].
type Index struct {
	exprBase
	Base  Expr
	Index Expr
}

func (x *Index) String() string { return fmt.Sprintf("%s[%s]", x.Base, x.Index) }

// PointerDeref is *e.
type PointerDeref struct {
	exprBase
	Operand Expr
}

func (p *PointerDeref) String() string { return "*" + p.Operand.String() }

// Unary is a prefix !/- operator.
type Unary struct {
	exprBase
	Op      TokenType
	Operand Expr
}

func (u *Unary) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Operand) }

// Binary covers arithmetic, comparison, equality, shift, exponent, and
// factor/term operators. Logical &&/|| are represented separately
// (Logical) so codegen can special-case short-circuit evaluation.
type Binary struct {
	exprBase
	Op    TokenType
	Left  Expr
	Right Expr
}

func (b *Binary) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// Logical is && / || (also the `and`/`or` spellings).
type Logical struct {
	exprBase
	Op    TokenType
	Left  Expr
	Right Expr
}

func (l *Logical) String() string { return fmt.Sprintf("(%s %s %s)", l.Left, l.Op, l.Right) }

// Ternary is cond ? then : else.
type Ternary struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

func (t *Ternary) String() string { return fmt.Sprintf("(%s ? %s : %s)", t.Cond, t.Then, t.Else) }

// Call is name(args).
type Call struct {
	exprBase
	Name string
	Args []Expr

	// Resolved is filled in by the semantic analyser: the exact overload
	// this call site binds to, out of every candidate sharing Name.
	Resolved *FunctionImpl
}

func (c *Call) String() string { return fmt.Sprintf("%s(%v)", c.Name, c.Args) }

//  Type syntax (unresolved; the analyser turns this into a DataType)

type TypeExpr struct {
	Span    Span
	Prim    TokenType // valid when Pointer == nil && Array == nil
	Pointer *TypeExpr // non-nil => pointer to this
	Array   *ArrayTypeSyntax
}

type ArrayTypeSyntax struct {
	Elem *TypeExpr
	Len  Expr // must fold to a non-negative compile-time constant (I4)
}

//  Statement nodes

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	stmtNode()
	Source() Span
	String() string
}

type stmtBase struct{ span Span }

func (s *stmtBase) stmtNode()    {}
func (s *stmtBase) Source() Span { return s.span }

// LetStmt covers all six let-construct forms: {qualifier optional} x
// {explicit type, inferred, no initialiser}.
type LetStmt struct {
	stmtBase
	QualifierExplicit bool
	Qualifier         Qualifier
	Name              string
	DeclaredType      *TypeExpr // nil when inferred or empty-typed... see Init
	Init              Expr      // nil for the empty forms
}

func (l *LetStmt) String() string {
	return fmt.Sprintf("let(%s %s = %v)", l.Qualifier, l.Name, l.Init)
}

// AssignStmt is **...*id[e1][e2]... = value. Only plain `=` is in the
// grammar; there are no compound-assignment forms.
type AssignStmt struct {
	stmtBase
	Target Expr // an Identifier wrapped in zero or more PointerDeref/Index
	Value  Expr
}

func (a *AssignStmt) String() string { return fmt.Sprintf("%s = %s", a.Target, a.Value) }

// PrintStmt is print(e).
type PrintStmt struct {
	stmtBase
	Value Expr
}

func (p *PrintStmt) String() string { return fmt.Sprintf("print(%s)", p.Value) }

// ReturnStmt is return [e].
type ReturnStmt struct {
	stmtBase
	Value Expr // nil for a bare `return;` in a none-returning function
}

func (r *ReturnStmt) String() string { return fmt.Sprintf("return %s", r.Value) }

// ExternStmt declares an environment-variable symbol.
type ExternStmt struct {
	stmtBase
	Name      string
	HostIndex *int // caller-provided index, if any; else assigned sequentially
}

func (e *ExternStmt) String() string { return fmt.Sprintf("extern %s", e.Name) }

// NakedCallStmt is a call expression used as a statement.
type NakedCallStmt struct {
	stmtBase
	Call *Call
}

func (n *NakedCallStmt) String() string { return n.Call.String() }

// BlockStmt is { stmt... }, opening a child lexical scope.
type BlockStmt struct {
	stmtBase
	Stmts []Stmt
}

func (b *BlockStmt) String() string { return fmt.Sprintf("{ %d stmts }", len(b.Stmts)) }

// IfStmt is if (cond) then [else else-body]; ElseBody may itself be an
// *IfStmt (else-if chaining) or a *BlockStmt, or nil.
type IfStmt struct {
	stmtBase
	Cond     Expr
	Then     *BlockStmt
	ElseBody Stmt
}

func (i *IfStmt) String() string { return fmt.Sprintf("if %s", i.Cond) }

// WhileStmt is while (cond) body.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body *BlockStmt
}

func (w *WhileStmt) String() string { return fmt.Sprintf("while %s", w.Cond) }

// ForStmt is for (init; cond; step) body. Init is a let-construct, step is
// an assignment, per §4.4.
type ForStmt struct {
	stmtBase
	Init Stmt
	Cond Expr
	Step Stmt
	Body *BlockStmt
}

func (f *ForStmt) String() string { return "for" }

// Param is one function parameter.
type Param struct {
	Span              Span
	Name              string
	QualifierExplicit bool
	Qualifier         Qualifier
	Type              *TypeExpr
}

// FuncDecl is fn name(params) -> returnType { body }.
type FuncDecl struct {
	stmtBase
	Name       string
	Params     []Param
	ReturnType *TypeExpr // nil => none
	Body       *BlockStmt
}

func (f *FuncDecl) String() string { return fmt.Sprintf("fn %s(%d params)", f.Name, len(f.Params)) }

// SourceUnit is the ordered list of global statements the parser produces
// for one compiled source text.
type SourceUnit struct {
	Stmts []Stmt
}
