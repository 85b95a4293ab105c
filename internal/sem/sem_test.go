package sem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kostiscpp/alan-compiler/internal/ast"
	"github.com/kostiscpp/alan-compiler/internal/parser"
	"github.com/kostiscpp/alan-compiler/internal/report"
)

func analyze(t *testing.T, src string) (*ast.FuncDef, *report.Logger, bool) {
	logger := report.NewLogger("<test>", report.LevelSilent, []byte(src))
	p := parser.New([]byte(src), logger)
	prog := p.ParseProgram()
	require.False(t, p.Failed(), "source must parse cleanly")

	a := New(logger)
	ok := a.Analyze(prog)
	return prog, logger, ok
}

func TestHelloWorldCallsBuiltin(t *testing.T) {
	src := `hello () : proc
	{
		writeString("hello, world\n");
	}`
	prog, logger, ok := analyze(t, src)
	require.True(t, ok)
	require.Equal(t, 0, logger.ErrorCount())

	call := prog.Body.(*ast.StmtList).Stmts[0].(*ast.ProcCall)
	require.Nil(t, call.Callee, "a runtime builtin has no AST FuncDef")
	require.Empty(t, call.Captures)
}

func TestFactorialRecursionResolves(t *testing.T) {
	src := `factorial (n : int) : int
	{
		if (n == 0) {
			return 1;
		} else {
			return n * factorial(n - 1);
		}
	}`
	prog, _, ok := analyze(t, src)
	require.True(t, ok)
	require.True(t, prog.HasReturn)

	ifStmt := prog.Body.(*ast.StmtList).Stmts[0].(*ast.If)
	elseBlock := ifStmt.Else.(*ast.StmtList)
	ret := elseBlock.Stmts[0].(*ast.Return)
	binOp := ret.Expr.(*ast.BinOp)
	call := binOp.Right.(*ast.FuncCall)
	require.Same(t, prog, call.Callee, "a recursive call resolves to the function's own definition")
}

func TestReferenceParameterMutation(t *testing.T) {
	src := `increment (reference n : int) : proc
	{
		n <- n + 1;
	}`
	prog, _, ok := analyze(t, src)
	require.True(t, ok)

	let := prog.Body.(*ast.StmtList).Stmts[0].(*ast.Let)
	id := let.Lhs.(*ast.Id)
	require.True(t, id.IsByRef)
}

func TestNestedFunctionCapture(t *testing.T) {
	src := `outer (x : int) : int
	inner () : int
	{
		return x + 1;
	}
	{
		return inner();
	}`
	prog, _, ok := analyze(t, src)
	require.True(t, ok)

	inner := prog.Locals[0].(*ast.FuncDef)
	require.Len(t, inner.Captures, 1)
	require.Equal(t, "x", inner.Captures[0].Name)

	ret := prog.Body.(*ast.StmtList).Stmts[0].(*ast.Return)
	call := ret.Expr.(*ast.FuncCall)
	require.Same(t, inner, call.Callee)
	require.Len(t, call.Captures, 1, "the call site forwards the callee's captures")
	require.Equal(t, "x", call.Captures[0].Name)
}

func TestTransitiveCaptureThroughNestedCall(t *testing.T) {
	src := `outer (x : int) : int
	middle () : int
	inner () : int
	{
		return x;
	}
	{
		return inner();
	}
	{
		return middle();
	}`
	prog, _, ok := analyze(t, src)
	require.True(t, ok)

	middle := prog.Locals[0].(*ast.FuncDef)
	require.Len(t, middle.Captures, 1, "middle must capture x purely to forward it to inner")
	require.Equal(t, "x", middle.Captures[0].Name)
}

func TestShadowingInnerScopeWins(t *testing.T) {
	src := `shadow (x : int) : int
	inner (x : byte) : int
	{
		return extend(x);
	}
	{
		return inner('a');
	}`
	prog, _, ok := analyze(t, src)
	require.True(t, ok)

	inner := prog.Locals[0].(*ast.FuncDef)
	require.Empty(t, inner.Captures, "inner's own parameter x shadows outer's x, so outer's x is never referenced and never captured")
}

func TestTypeMismatchNegativeCase(t *testing.T) {
	src := `bad (n : int) : int
	b : byte;
	{
		b <- n;
		return n;
	}`
	_, logger, ok := analyze(t, src)
	require.False(t, ok)
	require.Greater(t, logger.ErrorCount(), 0)
}

func TestUndeclaredNameReported(t *testing.T) {
	src := `bad () : proc
	{
		writeInteger(missing);
	}`
	_, logger, ok := analyze(t, src)
	require.False(t, ok)
	require.Greater(t, logger.ErrorCount(), 0)
}

func TestArityMismatchReported(t *testing.T) {
	src := `main () : proc
	one (a : int) : proc
	{
	}
	{
		one(1, 2);
	}`
	_, logger, ok := analyze(t, src)
	require.False(t, ok)
	require.Greater(t, logger.ErrorCount(), 0)
}

func TestMissingReturnReported(t *testing.T) {
	src := `bad () : int
	{
	}`
	_, logger, ok := analyze(t, src)
	require.False(t, ok)
	require.Greater(t, logger.ErrorCount(), 0)
}

func TestByReferenceArgumentMustBeLvalue(t *testing.T) {
	src := `main () : proc
	increment (reference n : int) : proc
	{
	}
	{
		increment(1 + 1);
	}`
	_, logger, ok := analyze(t, src)
	require.False(t, ok)
	require.Greater(t, logger.ErrorCount(), 0)
}
