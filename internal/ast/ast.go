// Package ast defines the sealed AST of Alan programs: a small family of
// interfaces (Expr, Cond, Stmt, LocalDef) each implemented by a closed set
// of concrete node structs. There is no virtual dispatch — the semantic
// pass and code generator both type-switch on the concrete node.
package ast

import (
	"github.com/kostiscpp/alan-compiler/internal/report"
	"github.com/kostiscpp/alan-compiler/internal/types"
)

// Node is embedded by every AST node for source-position tracking.
type Node interface {
	Pos() report.Position
}

type base struct {
	pos report.Position
}

func (b base) Pos() report.Position { return b.pos }

// -----------------------------------------------------------------------------
// Expressions

// Expr is implemented by every expression node. The semantic pass fills in
// each node's type before codegen ever runs; Type returns it (nil if
// called before analysis).
type Expr interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

type exprBase struct {
	base
	typ types.Type
}

func (e exprBase) exprNode() {}
func (e *exprBase) Type() types.Type      { return e.typ }
func (e *exprBase) SetType(t types.Type)  { e.typ = t }

// Lvalue is implemented by the expression nodes that may be addressed:
// Id, ArrayAccess, and StringConst. StringConst is addressable (its bytes
// live in a global) but is never a valid assignment target — Let rejects
// it explicitly rather than through this interface.
type Lvalue interface {
	Expr
	lvalueNode()
}

type lvalueBase struct {
	exprBase
}

func (l lvalueBase) lvalueNode() {}

// IntConst is a decimal integer literal; type is always INT.
type IntConst struct {
	exprBase
	Value int64
}

func NewIntConst(pos report.Position, v int64) *IntConst {
	n := &IntConst{Value: v}
	n.pos = pos
	return n
}

// CharConst is a single-quoted character literal; type is always BYTE.
type CharConst struct {
	exprBase
	Value byte
}

func NewCharConst(pos report.Position, v byte) *CharConst {
	n := &CharConst{Value: v}
	n.pos = pos
	return n
}

// StringConst is a double-quoted string literal, NUL-terminated at
// codegen time; type is ARRAY(BYTE, len(Value)+1).
type StringConst struct {
	lvalueBase
	Value string
}

func NewStringConst(pos report.Position, v string) *StringConst {
	n := &StringConst{Value: v}
	n.pos = pos
	return n
}

// Id is a bare name reference, resolved by the semantic pass against the
// symbol table. IsByRef/Depth are filled in during analysis; the code
// generator resolves the name again through its own genscope.Scope.
type Id struct {
	lvalueBase
	Name    string
	IsByRef bool
	Depth   int
}

func NewId(pos report.Position, name string) *Id {
	n := &Id{Name: name}
	n.pos = pos
	return n
}

// ArrayAccess indexes into an array-typed l-value.
type ArrayAccess struct {
	lvalueBase
	Array Expr
	Index Expr
}

func NewArrayAccess(pos report.Position, arr, idx Expr) *ArrayAccess {
	n := &ArrayAccess{Array: arr, Index: idx}
	n.pos = pos
	return n
}

// UnOp is a unary arithmetic operator: "-" applied to an INT, or "+"
// applied to either scalar type.
type UnOp struct {
	exprBase
	Op      string
	Operand Expr
}

func NewUnOp(pos report.Position, op string, operand Expr) *UnOp {
	n := &UnOp{Op: op, Operand: operand}
	n.pos = pos
	return n
}

// BinOp is a binary arithmetic operator over two same-typed scalars.
type BinOp struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

func NewBinOp(pos report.Position, op string, l, r Expr) *BinOp {
	n := &BinOp{Op: op, Left: l, Right: r}
	n.pos = pos
	return n
}

// FuncCall is a call used as an expression: the callee must have a
// non-VOID return type. Captures is filled in by the semantic pass with
// the transitively-forwarded capture list the callee needs.
type FuncCall struct {
	exprBase
	Name      string
	Args      []Expr
	Captures  []*CapturedVar
	Callee    *FuncDef
}

func NewFuncCall(pos report.Position, name string, args []Expr) *FuncCall {
	n := &FuncCall{Name: name, Args: args}
	n.pos = pos
	return n
}

// -----------------------------------------------------------------------------
// Conditions

// Cond is implemented by the four boolean-condition node kinds. Conditions
// are a separate family from Expr: Alan has no first-class boolean value
// that can flow through arithmetic, only conditions that gate If/While.
type Cond interface {
	Node
	condNode()
}

type condBase struct {
	base
}

func (c condBase) condNode() {}

// BoolConst is the literal "true" or "false".
type BoolConst struct {
	condBase
	Value bool
}

func NewBoolConst(pos report.Position, v bool) *BoolConst {
	n := &BoolConst{Value: v}
	n.pos = pos
	return n
}

// CondCompOp compares two same-typed scalar expressions.
type CondCompOp struct {
	condBase
	Op    string // == != < > <= >=
	Left  Expr
	Right Expr
}

func NewCondCompOp(pos report.Position, op string, l, r Expr) *CondCompOp {
	n := &CondCompOp{Op: op, Left: l, Right: r}
	n.pos = pos
	return n
}

// CondBoolOp combines two conditions with short-circuit "&" (and) or "|" (or).
type CondBoolOp struct {
	condBase
	Op    string
	Left  Cond
	Right Cond
}

func NewCondBoolOp(pos report.Position, op string, l, r Cond) *CondBoolOp {
	n := &CondBoolOp{Op: op, Left: l, Right: r}
	n.pos = pos
	return n
}

// CondUnOp negates a condition.
type CondUnOp struct {
	condBase
	Operand Cond
}

func NewCondUnOp(pos report.Position, operand Cond) *CondUnOp {
	n := &CondUnOp{Operand: operand}
	n.pos = pos
	return n
}

// -----------------------------------------------------------------------------
// Statements

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

type stmtBase struct {
	base
}

func (s stmtBase) stmtNode() {}

// StmtList is a brace-delimited sequence of statements.
type StmtList struct {
	stmtBase
	Stmts []Stmt
}

func NewStmtList(pos report.Position, stmts []Stmt) *StmtList {
	n := &StmtList{Stmts: stmts}
	n.pos = pos
	return n
}

// Let assigns the value of Rhs to the l-value Lhs.
type Let struct {
	stmtBase
	Lhs Lvalue
	Rhs Expr
}

func NewLet(pos report.Position, lhs Lvalue, rhs Expr) *Let {
	n := &Let{Lhs: lhs, Rhs: rhs}
	n.pos = pos
	return n
}

// If is a conditional with an optional else branch.
type If struct {
	stmtBase
	Cond Cond
	Then Stmt
	Else Stmt // nil if absent
}

func NewIf(pos report.Position, cond Cond, then, els Stmt) *If {
	n := &If{Cond: cond, Then: then, Else: els}
	n.pos = pos
	return n
}

// While is a pre-tested loop.
type While struct {
	stmtBase
	Cond Cond
	Body Stmt
}

func NewWhile(pos report.Position, cond Cond, body Stmt) *While {
	n := &While{Cond: cond, Body: body}
	n.pos = pos
	return n
}

// Return optionally carries a value; Expr is nil for a VOID return.
type Return struct {
	stmtBase
	Expr Expr // nil for VOID return
}

func NewReturn(pos report.Position, expr Expr) *Return {
	n := &Return{Expr: expr}
	n.pos = pos
	return n
}

// ProcCall is a call used as a statement: the callee must have a VOID
// return type.
type ProcCall struct {
	stmtBase
	Name     string
	Args     []Expr
	Captures []*CapturedVar
	Callee   *FuncDef
}

func NewProcCall(pos report.Position, name string, args []Expr) *ProcCall {
	n := &ProcCall{Name: name, Args: args}
	n.pos = pos
	return n
}

// Empty is the no-op statement (a bare ";").
type Empty struct {
	stmtBase
}

func NewEmpty(pos report.Position) *Empty {
	n := &Empty{}
	n.pos = pos
	return n
}

// -----------------------------------------------------------------------------
// Definitions

// LocalDef is implemented by the two kinds of thing a function body may
// locally declare: variables and nested functions.
type LocalDef interface {
	Node
	localDefNode()
}

type localDefBase struct {
	base
}

func (l localDefBase) localDefNode() {}

// VarDef declares a local variable, scalar or array.
type VarDef struct {
	localDefBase
	Name string
	Type types.Type // element type if IsArray
	IsArray bool
	Size int // literal array size, meaningless if !IsArray
}

func NewVarDef(pos report.Position, name string, typ types.Type, isArray bool, size int) *VarDef {
	n := &VarDef{Name: name, Type: typ, IsArray: isArray, Size: size}
	n.pos = pos
	return n
}

// ParamKind distinguishes by-value from by-reference formal parameters.
type ParamKind int

const (
	ByValue ParamKind = iota
	ByReference
)

// Fpar is one formal parameter in a function's declared signature.
type Fpar struct {
	base
	Name      string
	Type      types.Type
	ParamKind ParamKind
}

func NewFpar(pos report.Position, name string, typ types.Type, kind ParamKind) *Fpar {
	return &Fpar{base: base{pos: pos}, Name: name, Type: typ, ParamKind: kind}
}

// CapturedVar records one free variable a nested function closes over:
// its name, static type, and whether the storage it refers to was already
// a reference in its defining scope (preserved so forwarding stays
// uniform — see FuncDef.Captures).
type CapturedVar struct {
	Name      string
	Type      types.Type
	IsByRef   bool
}

// FuncDef is both a top-level program and a LocalDef: Alan has exactly one
// top-level FuncDef (the program entry) and any number of nested ones.
type FuncDef struct {
	localDefBase
	Name       string
	ReturnType types.Type // types.Void for a procedure
	Params     []*Fpar
	Locals     []LocalDef
	Body       Stmt
	Captures   []*CapturedVar

	// HasReturn is set by the semantic pass: true if every terminating
	// path through Body ends in a Return. Required for non-VOID
	// functions; irrelevant (codegen synthesizes a trailing ret void)
	// for VOID ones.
	HasReturn bool

	// Depth is this function's nesting depth in the symbol table (2 for
	// the top-level program, one more than the single top-level scope it
	// is declared in).
	Depth int
}

func NewFuncDef(pos report.Position, name string, ret types.Type, params []*Fpar, locals []LocalDef, body Stmt) *FuncDef {
	n := &FuncDef{Name: name, ReturnType: ret, Params: params, Locals: locals, Body: body}
	n.pos = pos
	return n
}

// IsProc reports whether f has no return value.
func (f *FuncDef) IsProc() bool {
	return types.Equals(f.ReturnType, types.Void)
}
