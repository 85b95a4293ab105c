// Package codegen lowers an analyzed internal/ast tree to LLVM textual IR
// via github.com/llir/llvm. Nested functions with lexical capture are
// lowered by parameter extension rather than heap closures: every
// captured name becomes one extra pointer parameter, forwarded explicitly
// at each call site.
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/kostiscpp/alan-compiler/internal/ast"
	"github.com/kostiscpp/alan-compiler/internal/genscope"
	"github.com/kostiscpp/alan-compiler/internal/report"
	"github.com/kostiscpp/alan-compiler/internal/runtime"
	"github.com/kostiscpp/alan-compiler/internal/types"
)

// Generator owns the LLVM module being built for one compilation unit and
// all of the mutable state needed while walking a single function body:
// the current insertion block, the active name scope, and whether that
// block has already been terminated (so control-flow lowering never
// appends a branch after a return).
type Generator struct {
	mod    *ir.Module
	rt     *runtime.Library
	logger *report.Logger

	scope      *genscope.Scope
	block      *ir.Block
	blockOpen  bool
	fn         *ir.Func
	nameStack  []string
	stringSeq  int

	// funcs maps every FuncDef (top-level and nested) to the *ir.Func
	// generated for it, so a call site can resolve its callee's LLVM
	// symbol regardless of how deeply it is nested. Populated as each
	// function is generated, before its body is walked, so recursive
	// calls resolve.
	funcs map[*ast.FuncDef]*ir.Func

	// foldConstants enables the -O constant-folding peephole: arithmetic
	// on two literal operands is computed at generation time instead of
	// emitted as an instruction. Off by default so IR emitted without -O
	// reflects the unoptimized lowering verbatim.
	foldConstants bool
}

// SetOptimize enables or disables constant folding in BinOp/UnOp
// lowering, corresponding to the CLI's -O flag.
func (g *Generator) SetOptimize(enabled bool) {
	g.foldConstants = enabled
}

// New creates a Generator for a fresh module named moduleName, with the
// runtime library already declared.
func New(moduleName string, logger *report.Logger) *Generator {
	mod := ir.NewModule()
	mod.SourceFilename = moduleName
	return &Generator{
		mod:    mod,
		rt:     runtime.Declare(mod),
		logger: logger,
		scope:  genscope.New(),
		funcs:  make(map[*ast.FuncDef]*ir.Func),
	}
}

// Generate lowers the whole program rooted at top and returns the
// completed module. top is emitted as "main"; every LocalDef FuncDef
// beneath it is emitted with a mangled, module-unique name.
func (g *Generator) Generate(top *ast.FuncDef) *ir.Module {
	g.genFuncDef(top, true)
	return g.mod
}

// -----------------------------------------------------------------------------
// Type conversion

func (g *Generator) convType(t types.Type) irtypes.Type {
	switch v := t.(type) {
	case types.Primitive:
		if v == types.Int {
			return irtypes.I32
		}
		return irtypes.I8
	case *types.Array:
		elem := g.convType(v.Element)
		if v.Size == types.UnspecifiedSize {
			return irtypes.NewPointer(elem)
		}
		return irtypes.NewArray(uint64(v.Size), elem)
	case *types.Reference:
		return irtypes.NewPointer(g.convType(v.Inner))
	default:
		if types.Equals(t, types.Void) {
			return irtypes.Void
		}
		panic(fmt.Sprintf("codegen: unhandled type %T", t))
	}
}

// representation returns the IR type that a name's storage address points
// to (the GEP/load base type), and whether that address is a decayed
// flat pointer to a single element rather than to a composite aggregate.
// A types.Array with UnspecifiedSize only ever arises from a parameter
// (or a capture of one), which is always passed as a flat pointer to its
// element per the array-decay rule; a types.Array with a concrete size
// names a real aggregate, addressed as [N x T]*.
func (g *Generator) representation(t types.Type) (irtypes.Type, bool) {
	if arr, ok := t.(*types.Array); ok {
		if arr.Size == types.UnspecifiedSize {
			return g.convType(arr.Element), true
		}
		return g.convType(arr), false
	}
	return g.convType(t), false
}

// convParamType returns the physical IR parameter type for a formal
// parameter: arrays always decay to a flat pointer regardless of
// ParamKind, scalars are passed by value unless marked REFERENCE.
func (g *Generator) convParamType(fp *ast.Fpar) irtypes.Type {
	if arr, ok := fp.Type.(*types.Array); ok {
		return irtypes.NewPointer(g.convType(arr.Element))
	}
	if fp.ParamKind == ast.ByReference {
		return irtypes.NewPointer(g.convType(fp.Type))
	}
	return g.convType(fp.Type)
}

// -----------------------------------------------------------------------------
// Blocks

// appendBlock creates a new basic block in the function currently being
// generated, named by position for readability.
func (g *Generator) appendBlock(label string) *ir.Block {
	return g.fn.NewBlock(fmt.Sprintf("%s.%d", label, len(g.fn.Blocks)))
}

// entryBlock returns the function's first block, where every local
// alloca is placed regardless of the control-flow depth at which its
// declaration textually appears — this keeps allocas out of loops.
func (g *Generator) entryBlock() *ir.Block {
	return g.fn.Blocks[0]
}

func (g *Generator) setBlock(b *ir.Block) {
	g.block = b
	g.blockOpen = true
}

func (g *Generator) terminate(build func()) {
	if !g.blockOpen {
		return
	}
	build()
	g.blockOpen = false
}

// -----------------------------------------------------------------------------
// Function definitions

// mangledName returns the LLVM symbol name for a nested function: its
// dotted nesting path, so two functions named "f" nested under different
// parents never collide in the module's flat function namespace.
func (g *Generator) mangledName(name string) string {
	path := append(append([]string{}, g.nameStack...), name)
	out := path[0]
	for _, p := range path[1:] {
		out += "." + p
	}
	return out
}

func (g *Generator) genFuncDef(f *ast.FuncDef, isTop bool) *ir.Func {
	var params []*ir.Param
	for _, fp := range f.Params {
		params = append(params, ir.NewParam(fp.Name, g.convParamType(fp)))
	}
	for _, cv := range f.Captures {
		elem, _ := g.representation(cv.Type)
		params = append(params, ir.NewParam("cap."+cv.Name, irtypes.NewPointer(elem)))
	}

	retType := g.convType(f.ReturnType)

	name := f.Name
	if isTop {
		name = "main"
	} else {
		name = g.mangledName(f.Name)
	}

	fn := g.mod.NewFunc(name, retType, params...)
	fn.FuncAttrs = []ir.FuncAttribute{enum.FuncAttrNoUnwind}
	if isTop {
		fn.Linkage = enum.LinkageExternal
	} else {
		fn.Linkage = enum.LinkageInternal
	}
	g.funcs[f] = fn

	outerFn, outerBlock, outerOpen := g.fn, g.block, g.blockOpen
	g.fn = fn
	g.nameStack = append(g.nameStack, f.Name)
	g.scope.Push()

	entry := fn.NewBlock("entry")
	g.setBlock(entry)

	for i, fp := range f.Params {
		g.defineParamSlot(fp, fn.Params[i])
	}
	for i, cv := range f.Captures {
		param := fn.Params[len(f.Params)+i]
		elem, decayed := g.representation(cv.Type)
		g.scope.Define(cv.Name, genscope.Slot{Addr: param, ElemType: elem, Decayed: decayed})
	}

	for _, local := range f.Locals {
		switch l := local.(type) {
		case *ast.VarDef:
			g.defineVarDefSlot(l)
		case *ast.FuncDef:
			g.genFuncDef(l, false)
		}
	}

	g.genStmt(f.Body)

	g.terminate(func() {
		if types.Equals(f.ReturnType, types.Void) {
			g.block.NewRet(nil)
		} else {
			// A well-formed program never reaches this: MissingReturn
			// catches it during semantic analysis. Synthesize a zero so
			// the module still verifies if this is ever hit regardless.
			g.block.NewRet(constant.NewInt(retType.(*irtypes.IntType), 0))
		}
	})

	g.scope.Pop()
	g.nameStack = g.nameStack[:len(g.nameStack)-1]
	g.fn, g.block, g.blockOpen = outerFn, outerBlock, outerOpen

	return fn
}

func (g *Generator) defineParamSlot(fp *ast.Fpar, param *ir.Param) {
	if arr, ok := fp.Type.(*types.Array); ok {
		g.scope.Define(fp.Name, genscope.Slot{Addr: param, ElemType: g.convType(arr.Element), Decayed: true})
		return
	}
	if fp.ParamKind == ast.ByReference {
		g.scope.Define(fp.Name, genscope.Slot{Addr: param, ElemType: g.convType(fp.Type)})
		return
	}
	alloca := g.entryBlock().NewAlloca(g.convType(fp.Type))
	g.block.NewStore(param, alloca)
	g.scope.Define(fp.Name, genscope.Slot{Addr: alloca, ElemType: g.convType(fp.Type)})
}

func (g *Generator) defineVarDefSlot(v *ast.VarDef) {
	if v.IsArray {
		arrType := irtypes.NewArray(uint64(v.Size), g.convType(v.Type))
		alloca := g.entryBlock().NewAlloca(arrType)
		g.scope.Define(v.Name, genscope.Slot{Addr: alloca, ElemType: arrType, Decayed: false})
		return
	}
	alloca := g.entryBlock().NewAlloca(g.convType(v.Type))
	g.scope.Define(v.Name, genscope.Slot{Addr: alloca, ElemType: g.convType(v.Type)})
}

// -----------------------------------------------------------------------------
// String interning

func (g *Generator) internString(s string) *ir.Global {
	name := fmt.Sprintf("__str.%d", g.stringSeq)
	g.stringSeq++
	glob := g.mod.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
	glob.Linkage = enum.LinkagePrivate
	glob.Immutable = true
	return glob
}

// stringPtr decays an interned string global to a flat pointer to its
// first byte, the representation every runtime string primitive expects.
func (g *Generator) stringPtr(glob *ir.Global) value.Value {
	zero := constant.NewInt(irtypes.I32, 0)
	return g.block.NewGetElementPtr(glob.ContentType, glob, zero, zero)
}

// -----------------------------------------------------------------------------
// Statements

// genStmt lowers one statement. It does nothing once the current block has
// already been terminated (by a Return reached earlier in the same
// StmtList): Alan has no reachability checking of its own, but the
// generator must never append an instruction after a block's terminator.
func (g *Generator) genStmt(s ast.Stmt) {
	if !g.blockOpen {
		return
	}
	switch st := s.(type) {
	case *ast.StmtList:
		g.scope.Push()
		for _, inner := range st.Stmts {
			g.genStmt(inner)
		}
		g.scope.Pop()
	case *ast.Let:
		g.genLet(st)
	case *ast.If:
		g.genIf(st)
	case *ast.While:
		g.genWhile(st)
	case *ast.Return:
		g.genReturn(st)
	case *ast.ProcCall:
		g.genCall(st.Callee, st.Name, st.Args, st.Captures)
	case *ast.Empty:
		// no-op
	default:
		panic(fmt.Sprintf("codegen: unhandled statement node %T", s))
	}
}

func (g *Generator) genLet(l *ast.Let) {
	rhs := g.genExprVal(l.Rhs)
	addr, _, _ := g.lvalueAddr(l.Lhs)
	g.block.NewStore(rhs, addr)
}

// genIf lowers a conditional into the three-block shape of the spec: then,
// an optional else, and a merge block. An arm that already terminated
// (both branches return, for instance) does not get a fall-through branch
// to merge; if an If with an else has both arms terminate, merge is kept
// but terminated with unreachable and control after the If is dead.
func (g *Generator) genIf(i *ast.If) {
	thenBlock := g.appendBlock("if.then")
	var elseBlock *ir.Block
	hasElse := i.Else != nil
	if hasElse {
		elseBlock = g.appendBlock("if.else")
	}

	cond := g.genCond(i.Cond)
	condBlock := g.block
	mergeBlock := g.appendBlock("if.end")

	falseTarget := mergeBlock
	if hasElse {
		falseTarget = elseBlock
	}
	condBlock.NewCondBr(cond, thenBlock, falseTarget)

	g.setBlock(thenBlock)
	g.genStmt(i.Then)
	thenFellThrough := g.blockOpen
	g.terminate(func() { g.block.NewBr(mergeBlock) })

	elseFellThrough := !hasElse
	if hasElse {
		g.setBlock(elseBlock)
		g.genStmt(i.Else)
		elseFellThrough = g.blockOpen
		g.terminate(func() { g.block.NewBr(mergeBlock) })
	}

	if hasElse && !thenFellThrough && !elseFellThrough {
		mergeBlock.NewUnreachable()
		g.block = mergeBlock
		g.blockOpen = false
		return
	}

	g.setBlock(mergeBlock)
}

// genWhile lowers a pre-tested loop into the header/body/exit shape of the
// spec. The implicit latch is just the body's fall-through branch back to
// the header.
func (g *Generator) genWhile(w *ast.While) {
	headerBlock := g.appendBlock("while.header")
	bodyBlock := g.appendBlock("while.body")
	exitBlock := g.appendBlock("while.exit")

	g.terminate(func() { g.block.NewBr(headerBlock) })

	g.setBlock(headerBlock)
	cond := g.genCond(w.Cond)
	g.block.NewCondBr(cond, bodyBlock, exitBlock)

	g.setBlock(bodyBlock)
	g.genStmt(w.Body)
	g.terminate(func() { g.block.NewBr(headerBlock) })

	g.setBlock(exitBlock)
}

func (g *Generator) genReturn(r *ast.Return) {
	if r.Expr == nil {
		g.terminate(func() { g.block.NewRet(nil) })
		return
	}
	v := g.genExprVal(r.Expr)
	g.terminate(func() { g.block.NewRet(v) })
}

// -----------------------------------------------------------------------------
// Conditions

// genCond lowers a Cond to an i1 value. CondBoolOp is the only case that
// needs new blocks (short-circuit evaluation); the rest are straight-line.
func (g *Generator) genCond(c ast.Cond) value.Value {
	switch cc := c.(type) {
	case *ast.BoolConst:
		return constant.NewBool(cc.Value)
	case *ast.CondCompOp:
		l := g.genExprVal(cc.Left)
		r := g.genExprVal(cc.Right)
		signed := types.Equals(cc.Left.Type(), types.Primitive(types.Int))
		return g.genCompare(cc.Op, l, r, signed)
	case *ast.CondUnOp:
		v := g.genCond(cc.Operand)
		return g.block.NewXor(v, constant.NewBool(true))
	case *ast.CondBoolOp:
		return g.genShortCircuit(cc)
	default:
		panic(fmt.Sprintf("codegen: unhandled condition node %T", c))
	}
}

func (g *Generator) genCompare(op string, l, r value.Value, signed bool) value.Value {
	var pred enum.IPred
	switch op {
	case "==":
		pred = enum.IPredEQ
	case "!=":
		pred = enum.IPredNE
	case "<":
		if signed {
			pred = enum.IPredSLT
		} else {
			pred = enum.IPredULT
		}
	case ">":
		if signed {
			pred = enum.IPredSGT
		} else {
			pred = enum.IPredUGT
		}
	case "<=":
		if signed {
			pred = enum.IPredSLE
		} else {
			pred = enum.IPredULE
		}
	case ">=":
		if signed {
			pred = enum.IPredSGE
		} else {
			pred = enum.IPredUGE
		}
	default:
		panic("codegen: unhandled comparison operator " + op)
	}
	return g.block.NewICmp(pred, l, r)
}

// genShortCircuit lowers "&" and "|" by branching on the left operand into
// either an evaluate-the-right-operand block or a fixed-result block, then
// merging the two outcomes with a phi — per spec §4.4's "BoolOp
// short-circuit" rule.
func (g *Generator) genShortCircuit(cc *ast.CondBoolOp) value.Value {
	lhs := g.genCond(cc.Left)
	condBlock := g.block

	if cc.Op == "&" {
		rhsBlock := g.appendBlock("and.rhs")
		falseBlock := g.appendBlock("and.false")
		mergeBlock := g.appendBlock("and.end")

		condBlock.NewCondBr(lhs, rhsBlock, falseBlock)

		g.setBlock(rhsBlock)
		rhs := g.genCond(cc.Right)
		rhsEnd := g.block
		rhsEnd.NewBr(mergeBlock)

		g.setBlock(falseBlock)
		falseEnd := g.block
		falseEnd.NewBr(mergeBlock)

		g.setBlock(mergeBlock)
		return g.block.NewPhi(
			ir.NewIncoming(rhs, rhsEnd),
			ir.NewIncoming(constant.NewBool(false), falseEnd),
		)
	}

	// cc.Op == "|"
	trueBlock := g.appendBlock("or.true")
	rhsBlock := g.appendBlock("or.rhs")
	mergeBlock := g.appendBlock("or.end")

	condBlock.NewCondBr(lhs, trueBlock, rhsBlock)

	g.setBlock(trueBlock)
	trueEnd := g.block
	trueEnd.NewBr(mergeBlock)

	g.setBlock(rhsBlock)
	rhs := g.genCond(cc.Right)
	rhsEnd := g.block
	rhsEnd.NewBr(mergeBlock)

	g.setBlock(mergeBlock)
	return g.block.NewPhi(
		ir.NewIncoming(constant.NewBool(true), trueEnd),
		ir.NewIncoming(rhs, rhsEnd),
	)
}

// -----------------------------------------------------------------------------
// Expressions

// genExprVal lowers an Expr to its r-value. An Id or ArrayAccess whose
// static type is itself an array decays to a pointer to its first
// element, matching the "arrays decay to pointers" rule used for passing
// a whole array as an actual argument.
func (g *Generator) genExprVal(e ast.Expr) value.Value {
	switch v := e.(type) {
	case *ast.IntConst:
		return constant.NewInt(irtypes.I32, v.Value)
	case *ast.CharConst:
		return constant.NewInt(irtypes.I8, int64(v.Value))
	case *ast.StringConst:
		glob := g.internString(v.Value)
		return g.stringPtr(glob)
	case *ast.Id:
		return g.genIdVal(v)
	case *ast.ArrayAccess:
		return g.genArrayAccessVal(v)
	case *ast.UnOp:
		return g.genUnOp(v)
	case *ast.BinOp:
		return g.genBinOp(v)
	case *ast.FuncCall:
		return g.genCall(v.Callee, v.Name, v.Args, v.Captures)
	default:
		panic(fmt.Sprintf("codegen: unhandled expression node %T", e))
	}
}

func (g *Generator) genIdVal(id *ast.Id) value.Value {
	slot, ok := g.scope.Lookup(id.Name)
	if !ok {
		panic(fmt.Sprintf("codegen: unresolved name %q reached codegen", id.Name))
	}
	if _, isArr := id.Type().(*types.Array); isArr {
		if slot.Decayed {
			return slot.Addr
		}
		zero := constant.NewInt(irtypes.I32, 0)
		return g.block.NewGetElementPtr(slot.ElemType, slot.Addr, zero, zero)
	}
	return g.block.NewLoad(slot.ElemType, slot.Addr)
}

func (g *Generator) genArrayAccessVal(ac *ast.ArrayAccess) value.Value {
	addr, elemType, _ := g.arrayAccessAddr(ac)
	if _, isArr := elemType.(*irtypes.ArrayType); isArr {
		// The indexed element is itself a fixed-size aggregate array:
		// decay it to a pointer to its own first element rather than
		// loading it whole.
		zero := constant.NewInt(irtypes.I32, 0)
		return g.block.NewGetElementPtr(elemType, addr, zero, zero)
	}
	return g.block.NewLoad(elemType, addr)
}

func (g *Generator) genUnOp(u *ast.UnOp) value.Value {
	v := g.genExprVal(u.Operand)
	if u.Op == "-" {
		if g.foldConstants {
			if c, ok := v.(*constant.Int); ok {
				return constant.NewInt(c.Typ, -c.X.Int64())
			}
		}
		zero := constant.NewInt(v.Type().(*irtypes.IntType), 0)
		return g.block.NewSub(zero, v)
	}
	return v
}

func (g *Generator) genBinOp(b *ast.BinOp) value.Value {
	l := g.genExprVal(b.Left)
	r := g.genExprVal(b.Right)
	signed := types.Equals(b.Left.Type(), types.Primitive(types.Int))

	if g.foldConstants {
		if folded := foldIntBinOp(b.Op, l, r); folded != nil {
			return folded
		}
	}

	switch b.Op {
	case "+":
		return g.block.NewAdd(l, r)
	case "-":
		return g.block.NewSub(l, r)
	case "*":
		return g.block.NewMul(l, r)
	case "/":
		if signed {
			return g.block.NewSDiv(l, r)
		}
		return g.block.NewUDiv(l, r)
	case "%":
		if signed {
			return g.block.NewSRem(l, r)
		}
		return g.block.NewURem(l, r)
	default:
		panic("codegen: unhandled binary operator " + b.Op)
	}
}

// foldIntBinOp computes op on two literal integer operands at generation
// time, returning nil when either operand isn't a constant or op isn't
// foldable (division/modulo by a literal zero is left to the runtime to
// trap on, not folded away).
func foldIntBinOp(op string, l, r value.Value) *constant.Int {
	lc, ok := l.(*constant.Int)
	if !ok {
		return nil
	}
	rc, ok := r.(*constant.Int)
	if !ok {
		return nil
	}
	lv, rv := lc.X.Int64(), rc.X.Int64()
	var result int64
	switch op {
	case "+":
		result = lv + rv
	case "-":
		result = lv - rv
	case "*":
		result = lv * rv
	case "/":
		if rv == 0 {
			return nil
		}
		result = lv / rv
	case "%":
		if rv == 0 {
			return nil
		}
		result = lv % rv
	default:
		return nil
	}
	return constant.NewInt(lc.Typ, result)
}

// genCall lowers a call to callee, evaluating declared arguments in order
// and then appending one forwarded capture pointer per entry in captures
// — the closure-by-parameter-extension scheme of spec §4.4. Works for
// both FuncCall (used as a value) and ProcCall (used as a statement; the
// caller discards the result, which is nil for a VOID callee only in the
// sense that nothing reads it — NewCall itself always returns a value).
// callee is nil for a call to one of the runtime library's primitives,
// which have no AST definition of their own; name then resolves it
// against the library handles wired in at Generator construction.
func (g *Generator) genCall(callee *ast.FuncDef, name string, args []ast.Expr, captures []*ast.CapturedVar) value.Value {
	var fn *ir.Func
	if callee != nil {
		fn = g.funcs[callee]
	} else {
		fn = g.builtinFunc(name)
	}
	if fn == nil {
		panic(fmt.Sprintf("codegen: call to %q reached codegen before its definition was generated", name))
	}

	llArgs := make([]value.Value, 0, len(args)+len(captures))
	for i, arg := range args {
		if callee != nil && i < len(callee.Params) && callee.Params[i].ParamKind == ast.ByReference {
			if _, isArr := callee.Params[i].Type.(*types.Array); !isArr {
				addr, _, _ := g.lvalueAddr(arg)
				llArgs = append(llArgs, addr)
				continue
			}
		}
		llArgs = append(llArgs, g.genExprVal(arg))
	}
	for _, cv := range captures {
		llArgs = append(llArgs, g.capturePointer(cv))
	}

	return g.block.NewCall(fn, llArgs...)
}

// builtinFunc resolves a runtime-library primitive by its Alan-visible
// name to the *ir.Func declared for it in New.
func (g *Generator) builtinFunc(name string) *ir.Func {
	switch name {
	case "writeInteger":
		return g.rt.WriteInteger
	case "writeByte":
		return g.rt.WriteByte
	case "writeChar":
		return g.rt.WriteChar
	case "writeString":
		return g.rt.WriteString
	case "readInteger":
		return g.rt.ReadInteger
	case "readByte":
		return g.rt.ReadByte
	case "readChar":
		return g.rt.ReadChar
	case "readString":
		return g.rt.ReadString
	case "extend":
		return g.rt.Extend
	case "shrink":
		return g.rt.Shrink
	case "strlen":
		return g.rt.Strlen
	case "strcmp":
		return g.rt.Strcmp
	case "strcpy":
		return g.rt.Strcpy
	case "strcat":
		return g.rt.Strcat
	default:
		return nil
	}
}

// capturePointer resolves the storage pointer the current function must
// forward for one of a callee's captures: its own forwarded capture
// parameter if it captured the same name, or the local alloca otherwise.
// Both cases are indistinguishable through genscope.Scope.Lookup because
// genFuncDef's capture-parameter loop, defineParamSlot and
// defineVarDefSlot all record a plain storage address — this is exactly what makes uniform forwarding work without
// the generator having to ask "did I capture this, or declare it?".
func (g *Generator) capturePointer(cv *ast.CapturedVar) value.Value {
	slot, ok := g.scope.Lookup(cv.Name)
	if !ok {
		panic(fmt.Sprintf("codegen: capture %q not visible at its forwarding call site", cv.Name))
	}
	return slot.Addr
}

// -----------------------------------------------------------------------------
// L-values

// lvalueAddr returns the address of e's storage, the IR type stored
// there, and whether that address already points directly at a single
// element (a decayed array parameter or capture thereof) rather than at
// a composite aggregate.
func (g *Generator) lvalueAddr(e ast.Expr) (value.Value, irtypes.Type, bool) {
	switch v := e.(type) {
	case *ast.Id:
		slot, ok := g.scope.Lookup(v.Name)
		if !ok {
			panic(fmt.Sprintf("codegen: unresolved name %q reached codegen", v.Name))
		}
		return slot.Addr, slot.ElemType, slot.Decayed
	case *ast.ArrayAccess:
		return g.arrayAccessAddr(v)
	case *ast.StringConst:
		glob := g.internString(v.Value)
		return glob, glob.ContentType, false
	default:
		panic(fmt.Sprintf("codegen: %T is not addressable", e))
	}
}

// arrayAccessAddr computes the address of one element of an array
// expression: for a decayed (pointer-valued) base, a single-index GEP;
// for an aggregate (fixed-size alloca or global), the classic two-index
// "0, idx" GEP that steps through the array wrapper first.
func (g *Generator) arrayAccessAddr(ac *ast.ArrayAccess) (value.Value, irtypes.Type, bool) {
	baseAddr, baseType, decayed := g.lvalueAddr(ac.Array)
	idx := g.genExprVal(ac.Index)

	if decayed {
		ptr := g.block.NewGetElementPtr(baseType, baseAddr, idx)
		return ptr, baseType, false
	}

	arrType, ok := baseType.(*irtypes.ArrayType)
	if !ok {
		panic("codegen: array access on non-array storage")
	}
	zero := constant.NewInt(irtypes.I32, 0)
	ptr := g.block.NewGetElementPtr(arrType, baseAddr, zero, idx)
	return ptr, arrType.ElemType, false
}
