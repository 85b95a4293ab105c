// Package sem implements the semantic pass: one top-down walk over the
// AST that resolves names against a symbol table, assigns a type to every
// expression, validates every statement and definition, and records each
// nested function's captures in first-seen order.
package sem

import (
	"fmt"

	"github.com/kostiscpp/alan-compiler/internal/ast"
	"github.com/kostiscpp/alan-compiler/internal/report"
	"github.com/kostiscpp/alan-compiler/internal/symtab"
	"github.com/kostiscpp/alan-compiler/internal/types"
)

// funcCtx tracks the function currently being walked, so identifier
// resolution can classify a lookup as local, captured, or undeclared, and
// so Return can check against the right expected type.
type funcCtx struct {
	def        *ast.FuncDef
	depth      int
	captures   []*ast.CapturedVar
	captureSet map[string]bool
}

// Analyzer performs the semantic pass over a single program.
type Analyzer struct {
	table  *symtab.SymbolTable
	logger *report.Logger
	stack  []*funcCtx
}

// New creates an Analyzer reporting through logger, with the runtime
// library's primitives already visible as ordinary top-level functions —
// spec §4.4's fourteen stubs are how an Alan program calls I/O and string
// helpers, so they must resolve through the same lookup path as any
// user-defined function, just never as a capture candidate (they sit at
// depth 0, the one depth recordCaptureIfNeeded always excludes).
func New(logger *report.Logger) *Analyzer {
	a := &Analyzer{table: symtab.New(), logger: logger}
	a.registerBuiltins()
	return a
}

// builtinSig describes one runtime primitive's Alan-visible signature.
// Buffer/string parameters are typed ARRAY(BYTE, unspecified) so the
// ordinary array-decay compatibility rule in types.Matches governs call
// sites exactly as it would for a user-defined array parameter.
type builtinSig struct {
	name   string
	params []types.Type
	ret    types.Type
}

func (a *Analyzer) registerBuiltins() {
	byteArr := func() types.Type { return types.NewArray(types.Primitive(types.Byte), types.UnspecifiedSize) }
	intT := types.Primitive(types.Int)
	byteT := types.Primitive(types.Byte)

	sigs := []builtinSig{
		{"writeInteger", []types.Type{intT}, types.Void},
		{"writeByte", []types.Type{byteT}, types.Void},
		{"writeChar", []types.Type{byteT}, types.Void},
		{"writeString", []types.Type{byteArr()}, types.Void},
		{"readInteger", nil, intT},
		{"readByte", nil, byteT},
		{"readChar", nil, byteT},
		{"readString", []types.Type{intT, byteArr()}, types.Void},
		{"extend", []types.Type{byteT}, intT},
		{"shrink", []types.Type{intT}, byteT},
		{"strlen", []types.Type{byteArr()}, intT},
		{"strcmp", []types.Type{byteArr(), byteArr()}, intT},
		{"strcpy", []types.Type{byteArr(), byteArr()}, types.Void},
		{"strcat", []types.Type{byteArr(), byteArr()}, types.Void},
	}

	for _, sig := range sigs {
		params := make([]*symtab.Symbol, len(sig.params))
		for i, pt := range sig.params {
			params[i] = &symtab.Symbol{Name: fmt.Sprintf("a%d", i), Kind: symtab.ParameterSym, Type: pt, ParamKind: symtab.ByValue}
		}
		a.table.Insert(&symtab.Symbol{Name: sig.name, Kind: symtab.FunctionSym, Type: sig.ret, Params: params, Depth: 0})
	}
}

// Analyze walks and validates the whole program rooted at top. It returns
// false if any diagnostic was raised.
func (a *Analyzer) Analyze(top *ast.FuncDef) bool {
	return a.analyzeFuncDef(top)
}

func (a *Analyzer) cur() *funcCtx {
	return a.stack[len(a.stack)-1]
}

// -----------------------------------------------------------------------------
// Definitions

func (a *Analyzer) analyzeFuncDef(f *ast.FuncDef) bool {
	ok := true

	// Insert the function's own symbol into the scope that encloses it
	// (the caller's current scope) before opening its body scope, so
	// recursive and sibling-nested calls resolve.
	sym := &symtab.Symbol{
		Name:   f.Name,
		Kind:   symtab.FunctionSym,
		Type:   f.ReturnType,
		Params: paramSymbols(f.Params),
		Depth:  a.table.Depth() + 1,
	}
	if !a.table.Insert(sym) {
		ok = a.logger.Errorf(f.Pos(), report.DuplicateName, "function %q already declared in this scope", f.Name)
	}

	f.Depth = sym.Depth

	a.table.EnterScope()
	a.stack = append(a.stack, &funcCtx{def: f, depth: f.Depth, captureSet: map[string]bool{}})

	for _, fp := range f.Params {
		var pk symtab.ParamKind
		if fp.ParamKind == ast.ByReference {
			pk = symtab.ByReference
		} else {
			pk = symtab.ByValue
		}
		psym := &symtab.Symbol{Name: fp.Name, Kind: symtab.ParameterSym, Type: fp.Type, ParamKind: pk}
		if !a.table.Insert(psym) {
			ok = a.logger.Errorf(fp.Pos(), report.DuplicateName, "parameter %q already declared", fp.Name)
		}
	}

	for _, local := range f.Locals {
		switch l := local.(type) {
		case *ast.VarDef:
			if !a.analyzeVarDef(l) {
				ok = false
			}
		case *ast.FuncDef:
			if !a.analyzeFuncDef(l) {
				ok = false
			}
		}
	}

	if !a.analyzeStmt(f.Body) {
		ok = false
	}

	f.HasReturn = stmtGuaranteesReturn(f.Body)
	if !types.Equals(f.ReturnType, types.Void) && !f.HasReturn {
		ok = a.logger.Errorf(f.Pos(), report.MissingReturn, "function %q does not return on every path", f.Name)
	}

	f.Captures = a.cur().captures

	a.stack = a.stack[:len(a.stack)-1]
	a.table.ExitScope()

	return ok
}

func paramSymbols(params []*ast.Fpar) []*symtab.Symbol {
	syms := make([]*symtab.Symbol, len(params))
	for i, fp := range params {
		pk := symtab.ByValue
		if fp.ParamKind == ast.ByReference {
			pk = symtab.ByReference
		}
		syms[i] = &symtab.Symbol{Name: fp.Name, Kind: symtab.ParameterSym, Type: fp.Type, ParamKind: pk}
	}
	return syms
}

func (a *Analyzer) analyzeVarDef(v *ast.VarDef) bool {
	if v.IsArray && v.Size <= 0 {
		return a.logger.Errorf(v.Pos(), report.BadArraySize, "array %q must have a positive literal size", v.Name)
	}

	var declType types.Type = v.Type
	if v.IsArray {
		declType = types.NewArray(v.Type, v.Size)
	}

	sym := &symtab.Symbol{Name: v.Name, Kind: symtab.VariableSym, Type: declType}
	if !a.table.Insert(sym) {
		return a.logger.Errorf(v.Pos(), report.DuplicateName, "variable %q already declared in this scope", v.Name)
	}
	return true
}

// -----------------------------------------------------------------------------
// Statements

func (a *Analyzer) analyzeStmt(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.StmtList:
		ok := true
		a.table.EnterScope()
		for _, inner := range st.Stmts {
			if !a.analyzeStmt(inner) {
				ok = false
			}
		}
		a.table.ExitScope()
		return ok
	case *ast.Let:
		return a.analyzeLet(st)
	case *ast.If:
		return a.analyzeIf(st)
	case *ast.While:
		return a.analyzeWhile(st)
	case *ast.Return:
		return a.analyzeReturn(st)
	case *ast.ProcCall:
		return a.analyzeProcCall(st)
	case *ast.Empty:
		return true
	default:
		return a.logger.Errorf(s.Pos(), report.InternalError, "unhandled statement node %T", s)
	}
}

func (a *Analyzer) analyzeLet(l *ast.Let) bool {
	if _, isStr := l.Lhs.(*ast.StringConst); isStr {
		return a.logger.Errorf(l.Pos(), report.NotAnLvalue, "a string literal is not a valid assignment target")
	}

	ok := a.analyzeExpr(l.Lhs.(ast.Expr))
	if !a.analyzeExpr(l.Rhs) {
		ok = false
	}
	if !ok {
		return false
	}

	if !types.Equals(l.Lhs.Type(), l.Rhs.Type()) {
		return a.logger.Errorf(l.Pos(), report.TypeMismatch, "cannot assign %s to %s", l.Rhs.Type().Repr(), l.Lhs.Type().Repr())
	}
	return true
}

func (a *Analyzer) analyzeIf(i *ast.If) bool {
	ok := a.analyzeCond(i.Cond)
	if !a.analyzeStmt(i.Then) {
		ok = false
	}
	if i.Else != nil {
		if !a.analyzeStmt(i.Else) {
			ok = false
		}
	}
	return ok
}

func (a *Analyzer) analyzeWhile(w *ast.While) bool {
	ok := a.analyzeCond(w.Cond)
	if !a.analyzeStmt(w.Body) {
		ok = false
	}
	return ok
}

func (a *Analyzer) analyzeReturn(r *ast.Return) bool {
	fc := a.cur()
	expectVoid := types.Equals(fc.def.ReturnType, types.Void)

	if r.Expr == nil {
		if !expectVoid {
			return a.logger.Errorf(r.Pos(), report.TypeMismatch, "missing return value for function returning %s", fc.def.ReturnType.Repr())
		}
		return true
	}

	if !a.analyzeExpr(r.Expr) {
		return false
	}
	if expectVoid {
		return a.logger.Errorf(r.Pos(), report.TypeMismatch, "procedure %q cannot return a value", fc.def.Name)
	}
	if !types.Equals(r.Expr.Type(), fc.def.ReturnType) {
		return a.logger.Errorf(r.Pos(), report.TypeMismatch, "returning %s from function declared to return %s", r.Expr.Type().Repr(), fc.def.ReturnType.Repr())
	}
	return true
}

func (a *Analyzer) analyzeProcCall(p *ast.ProcCall) bool {
	sym := a.table.Lookup(p.Name)
	if sym == nil {
		return a.logger.Errorf(p.Pos(), report.UndeclaredName, "undeclared function %q", p.Name)
	}
	if sym.Kind != symtab.FunctionSym {
		return a.logger.Errorf(p.Pos(), report.UndeclaredName, "%q is not a function", p.Name)
	}
	if !types.Equals(sym.Type, types.Void) {
		return a.logger.Errorf(p.Pos(), report.ProcNotExpr, "function %q returns a value and cannot be called as a statement", p.Name)
	}

	ok := a.checkArgs(p.Pos(), p.Name, sym.Params, p.Args)
	p.Captures, p.Callee = a.resolveCallCaptures(p.Name)
	return ok
}

// -----------------------------------------------------------------------------
// Conditions

func (a *Analyzer) analyzeCond(c ast.Cond) bool {
	switch cc := c.(type) {
	case *ast.BoolConst:
		return true
	case *ast.CondCompOp:
		ok := a.analyzeExpr(cc.Left)
		if !a.analyzeExpr(cc.Right) {
			ok = false
		}
		if !ok {
			return false
		}
		if !types.Equals(cc.Left.Type(), cc.Right.Type()) || !types.IsArithmetic(cc.Left.Type()) {
			return a.logger.Errorf(c.Pos(), report.TypeMismatch, "comparison operands must share the same scalar type")
		}
		return true
	case *ast.CondBoolOp:
		ok := a.analyzeCond(cc.Left)
		if !a.analyzeCond(cc.Right) {
			ok = false
		}
		return ok
	case *ast.CondUnOp:
		return a.analyzeCond(cc.Operand)
	default:
		return a.logger.Errorf(c.Pos(), report.InternalError, "unhandled condition node %T", c)
	}
}

// -----------------------------------------------------------------------------
// Expressions

func (a *Analyzer) analyzeExpr(e ast.Expr) bool {
	switch ex := e.(type) {
	case *ast.IntConst:
		ex.SetType(types.Primitive(types.Int))
		return true
	case *ast.CharConst:
		ex.SetType(types.Primitive(types.Byte))
		return true
	case *ast.StringConst:
		ex.SetType(types.NewArray(types.Primitive(types.Byte), len(ex.Value)+1))
		return true
	case *ast.Id:
		return a.analyzeId(ex)
	case *ast.ArrayAccess:
		return a.analyzeArrayAccess(ex)
	case *ast.UnOp:
		return a.analyzeUnOp(ex)
	case *ast.BinOp:
		return a.analyzeBinOp(ex)
	case *ast.FuncCall:
		return a.analyzeFuncCall(ex)
	default:
		return a.logger.Errorf(e.Pos(), report.InternalError, "unhandled expression node %T", e)
	}
}

func (a *Analyzer) analyzeId(id *ast.Id) bool {
	depth, found := a.table.DepthOf(id.Name)
	if !found {
		return a.logger.Errorf(id.Pos(), report.UndeclaredName, "undeclared name %q", id.Name)
	}
	sym := a.table.Lookup(id.Name)
	if sym.Kind == symtab.FunctionSym {
		return a.logger.Errorf(id.Pos(), report.NotAnLvalue, "%q is a function, not a value", id.Name)
	}

	id.SetType(sym.Type)
	id.IsByRef = sym.Kind == symtab.ParameterSym && sym.ParamKind == symtab.ByReference
	id.Depth = depth

	a.recordCaptureIfNeeded(id.Name, sym, depth)
	return true
}

// recordCaptureIfNeeded appends name to the current function's capture
// list, in first-seen order, if it resolves strictly above the current
// function and strictly below the top level.
func (a *Analyzer) recordCaptureIfNeeded(name string, sym *symtab.Symbol, depth int) {
	fc := a.cur()
	// depth is a scope-stack index (0-based); the current function's own
	// parameter/body scope starts at index fc.depth-1 in that same
	// indexing (EnterScope pushed exactly once per nesting level beyond
	// the implicit top-level scope at index 0). A name resolves "above"
	// the current function when its scope index is below that, and
	// "below the top level" when its scope index is > 0.
	if depth > 0 && depth < fc.depth-1 {
		if !fc.captureSet[name] {
			fc.captureSet[name] = true
			fc.captures = append(fc.captures, &ast.CapturedVar{
				Name:    name,
				Type:    sym.Type,
				IsByRef: sym.Kind == symtab.ParameterSym && sym.ParamKind == symtab.ByReference,
			})
		}
	}
}

func (a *Analyzer) analyzeArrayAccess(ac *ast.ArrayAccess) bool {
	arrExpr := ac.Array
	okArr := a.analyzeExpr(arrExpr)
	okIdx := a.analyzeExpr(ac.Index)
	if !okArr || !okIdx {
		return false
	}

	arrType, isArr := arrExpr.Type().(*types.Array)
	if !isArr {
		return a.logger.Errorf(ac.Pos(), report.TypeMismatch, "%s is not an array", arrExpr.Type().Repr())
	}
	if !types.Equals(ac.Index.Type(), types.Primitive(types.Int)) {
		return a.logger.Errorf(ac.Pos(), report.ArrayIndexType, "array index must be int, found %s", ac.Index.Type().Repr())
	}

	ac.SetType(arrType.Element)
	return true
}

func (a *Analyzer) analyzeUnOp(u *ast.UnOp) bool {
	if !a.analyzeExpr(u.Operand) {
		return false
	}
	if u.Op == "-" {
		if !types.Equals(u.Operand.Type(), types.Primitive(types.Int)) {
			return a.logger.Errorf(u.Pos(), report.TypeMismatch, "unary - requires int, found %s", u.Operand.Type().Repr())
		}
	} else if !types.IsArithmetic(u.Operand.Type()) {
		return a.logger.Errorf(u.Pos(), report.TypeMismatch, "unary + requires a scalar type, found %s", u.Operand.Type().Repr())
	}
	u.SetType(u.Operand.Type())
	return true
}

func (a *Analyzer) analyzeBinOp(b *ast.BinOp) bool {
	okL := a.analyzeExpr(b.Left)
	okR := a.analyzeExpr(b.Right)
	if !okL || !okR {
		return false
	}
	if !types.Equals(b.Left.Type(), b.Right.Type()) || !types.IsArithmetic(b.Left.Type()) {
		return a.logger.Errorf(b.Pos(), report.TypeMismatch, "binary %s requires matching scalar operands, found %s and %s", b.Op, b.Left.Type().Repr(), b.Right.Type().Repr())
	}
	b.SetType(b.Left.Type())
	return true
}

func (a *Analyzer) analyzeFuncCall(fc *ast.FuncCall) bool {
	sym := a.table.Lookup(fc.Name)
	if sym == nil {
		return a.logger.Errorf(fc.Pos(), report.UndeclaredName, "undeclared function %q", fc.Name)
	}
	if sym.Kind != symtab.FunctionSym {
		return a.logger.Errorf(fc.Pos(), report.UndeclaredName, "%q is not a function", fc.Name)
	}
	if types.Equals(sym.Type, types.Void) {
		return a.logger.Errorf(fc.Pos(), report.ProcNotExpr, "procedure %q has no value and cannot be used as an expression", fc.Name)
	}

	ok := a.checkArgs(fc.Pos(), fc.Name, sym.Params, fc.Args)
	fc.SetType(sym.Type)
	fc.Captures, fc.Callee = a.resolveCallCaptures(fc.Name)
	return ok
}

// checkArgs analyzes each actual argument and checks arity/type
// compatibility against the callee's formal parameters, per the matches
// rule: a REFERENCE formal requires an l-value actual of the same inner
// type, a VALUE formal requires an actual of the exact same type.
func (a *Analyzer) checkArgs(pos report.Position, name string, params []*symtab.Symbol, args []ast.Expr) bool {
	if len(args) != len(params) {
		return a.logger.Errorf(pos, report.ArityMismatch, "function %q expects %d argument(s), found %d", name, len(params), len(args))
	}

	ok := true
	for i, arg := range args {
		if !a.analyzeExpr(arg) {
			ok = false
			continue
		}
		formal := params[i]
		_, isLvalue := arg.(ast.Lvalue)

		formalType := formal.Type
		if formal.ParamKind == symtab.ByReference {
			formalType = types.NewReference(formal.Type)
		}

		if !types.Matches(formalType, arg.Type(), isLvalue) {
			inner, _ := types.Deref(formalType)
			if formal.ParamKind == symtab.ByReference {
				ok = a.logger.Errorf(arg.Pos(), report.TypeMismatch,
					"argument %d to %q must be an l-value of type %s", i+1, name, inner.Repr())
			} else {
				ok = a.logger.Errorf(arg.Pos(), report.TypeMismatch,
					"argument %d to %q has type %s, expected %s", i+1, name, arg.Type().Repr(), inner.Repr())
			}
		}
	}
	return ok
}

// resolveCallCaptures computes which captures a call to the function
// named `name` must forward: the callee's own first-seen capture list.
// A call site that needs to forward a name the calling function does not
// otherwise reference in its own body must itself gain that name as one
// of its captures purely to have something to forward — so each of the
// callee's captures is threaded through recordCaptureIfNeeded exactly as
// if the call site had referenced that name directly.
func (a *Analyzer) resolveCallCaptures(name string) ([]*ast.CapturedVar, *ast.FuncDef) {
	callee := a.funcDefByName(name)
	if callee == nil || len(callee.Captures) == 0 {
		return nil, callee
	}

	for _, cv := range callee.Captures {
		depth, found := a.table.DepthOf(cv.Name)
		if !found {
			continue
		}
		sym := a.table.Lookup(cv.Name)
		a.recordCaptureIfNeeded(cv.Name, sym, depth)
	}

	return callee.Captures, callee
}

// funcDefByName finds the AST node for a function by walking the
// enclosing-function stack, since a callee's captures are only fully
// populated after its own analyzeFuncDef has returned, which — because
// this is a single top-down walk — is only guaranteed for siblings
// defined earlier in the same Locals list or for enclosing functions
// themselves. This walk looks at ancestors on the context stack; sibling
// lookups rely on Locals having already been visited in declaration
// order by analyzeFuncDef above.
func (a *Analyzer) funcDefByName(name string) *ast.FuncDef {
	for i := len(a.stack) - 1; i >= 0; i-- {
		fc := a.stack[i]
		if fc.def.Name == name {
			return fc.def
		}
		for _, local := range fc.def.Locals {
			if fn, ok := local.(*ast.FuncDef); ok && fn.Name == name {
				return fn
			}
		}
	}
	return nil
}

// stmtGuaranteesReturn reports whether every path through s ends in a
// Return, used to populate FuncDef.HasReturn.
func stmtGuaranteesReturn(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.Return:
		return true
	case *ast.StmtList:
		for _, inner := range st.Stmts {
			if stmtGuaranteesReturn(inner) {
				return true
			}
		}
		return false
	case *ast.If:
		if st.Else == nil {
			return false
		}
		return stmtGuaranteesReturn(st.Then) && stmtGuaranteesReturn(st.Else)
	default:
		return false
	}
}
