// Package ast defines the abstract syntax tree for SpellLang.
package ast

import "spelllang/internal/span"

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes. Per invariant
// (i), Span.Start is always the position of the node's first token.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// File (top-level AST root)
// ============================================================

// File represents the entire source file: a flat sequence of top-level
// statements and declarations, executed in order.
type File struct {
	NodeBase
	Body []Stmt
}

// ============================================================
// VarDeclKind
// ============================================================

// VarDeclKind distinguishes the three declaration keywords. All three
// define a variable in the current scope; the kind is retained on the node
// for diagnostics and tooling but does not change evaluator behavior
// beyond what §4.2 describes (Cauldron/SpellBooks carry no enforced
// shape).
type VarDeclKind int

const (
	KindWand VarDeclKind = iota
	KindCauldron
	KindSpellBooks
)

func (k VarDeclKind) String() string {
	switch k {
	case KindWand:
		return "Wand"
	case KindCauldron:
		return "Cauldron"
	case KindSpellBooks:
		return "SpellBooks"
	default:
		return "?"
	}
}

// ============================================================
// Statements
// ============================================================

// VarDecl represents Wand/Cauldron/SpellBooks name = expr.
type VarDecl struct {
	StmtBase
	Kind VarDeclKind
	Name string
	Init Expr
}

// Assign represents name = expr.
type Assign struct {
	StmtBase
	Name string
	Expr Expr
}

// FuncDecl represents Incantation name(params) { stmt* }.
type FuncDecl struct {
	StmtBase
	Name   string
	Params []string
	Body   []Stmt
}

// ClassDecl represents Magical Creature name(params) (Bloodline parent)? { stmt* }.
type ClassDecl struct {
	StmtBase
	Name   string
	Params []string
	Body   []Stmt
	Parent string // empty if no Bloodline clause
}

// Print represents Illuminate(expr).
type Print struct {
	StmtBase
	Expr Expr
}

// If represents Ifar cond { ... } (Elsear { ... })?.
type If struct {
	StmtBase
	Cond     Expr
	Then     []Stmt
	Else     []Stmt
	HasElse  bool
}

// While represents Persistus cond { ... }.
type While struct {
	StmtBase
	Cond Expr
	Body []Stmt
}

// For represents Loopus init; cond; step { ... }. The worked example
// (`Loopus i = 0; i < 3; i = i + 1 { ... }`) puts an assignment in the init
// and step clauses, which is a statement form everywhere else in the
// grammar (§4.2's IDENTIFIER-led statement), so Init and Step are typed as
// Stmt: the clause is evaluated for effect, not a value. The parser fills
// each with an *Assign, or leaves it nil when the clause is empty; it does
// not build any other statement or expression form there.
type For struct {
	StmtBase
	Init Stmt
	Cond Expr
	Step Stmt
	Body []Stmt
}

// TryCatch represents Protego { ... } Alohomora { ... }.
type TryCatch struct {
	StmtBase
	Try   []Stmt
	Catch []Stmt
}

// ExprStmt wraps an expression evaluated for effect — the Cast name(args)
// call-statement form.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// ============================================================
// Expressions
// ============================================================

// IntLit represents an integer literal.
type IntLit struct {
	ExprBase
	Value int64
}

// StrLit represents a string literal.
type StrLit struct {
	ExprBase
	Value string
}

// ListLit represents [e1, e2, ...].
type ListLit struct {
	ExprBase
	Elements []Expr
}

// MapEntry is one key:value pair inside a MapLit.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLit represents {k1: v1, k2: v2, ...}.
type MapLit struct {
	ExprBase
	Entries []MapEntry
}

// Ident represents an identifier reference.
type Ident struct {
	ExprBase
	Name string
}

// Call represents name(args...). The callee is resolved by name at
// evaluation time (§4.3), not by evaluating an arbitrary expression.
type Call struct {
	ExprBase
	Callee string
	Args   []Expr
}

// BinaryOp represents a binary operation: a + b, x == y.
type BinaryOp struct {
	ExprBase
	Op    string
	Left  Expr
	Right Expr
}

// UnaryOp represents a unary prefix operation: -x, !x.
type UnaryOp struct {
	ExprBase
	Op      string
	Operand Expr
}
