package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kostiscpp/alan-compiler/internal/ast"
	"github.com/kostiscpp/alan-compiler/internal/report"
	"github.com/kostiscpp/alan-compiler/internal/types"
)

func parse(t *testing.T, src string) (*ast.FuncDef, *Parser) {
	logger := report.NewLogger("<test>", report.LevelSilent, []byte(src))
	p := New([]byte(src), logger)
	prog := p.ParseProgram()
	return prog, p
}

func TestParseHelloWorld(t *testing.T) {
	src := `hello () : proc
	{
		writeString("hello, world\n");
	}`

	prog, p := parse(t, src)
	require.False(t, p.Failed())
	require.Equal(t, "hello", prog.Name)
	require.True(t, prog.IsProc())
	require.Empty(t, prog.Params)

	body, ok := prog.Body.(*ast.StmtList)
	require.True(t, ok)
	require.Len(t, body.Stmts, 1)

	call, ok := body.Stmts[0].(*ast.ProcCall)
	require.True(t, ok)
	require.Equal(t, "writeString", call.Name)
	require.Len(t, call.Args, 1)
}

func TestParseFactorialRecursion(t *testing.T) {
	src := `factorial (n : int) : int
	{
		if (n == 0) {
			return 1;
		} else {
			return n * factorial(n - 1);
		}
	}`

	prog, p := parse(t, src)
	require.False(t, p.Failed())
	require.Equal(t, "factorial", prog.Name)
	require.Len(t, prog.Params, 1)
	require.Equal(t, ast.ByValue, prog.Params[0].ParamKind)

	body := prog.Body.(*ast.StmtList)
	ifStmt, ok := body.Stmts[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)

	cond, ok := ifStmt.Cond.(*ast.CondCompOp)
	require.True(t, ok)
	require.Equal(t, "==", cond.Op)
}

func TestParseReferenceParameter(t *testing.T) {
	src := `swap (reference a : int, reference b : int) : proc
	{
		a <- b;
	}`

	prog, p := parse(t, src)
	require.False(t, p.Failed())
	require.Len(t, prog.Params, 2)
	require.Equal(t, ast.ByReference, prog.Params[0].ParamKind)
	require.Equal(t, ast.ByReference, prog.Params[1].ParamKind)
}

func TestParseArrayParameterType(t *testing.T) {
	src := `sumAll (xs : int[], n : int) : int
	{
		return n;
	}`

	prog, p := parse(t, src)
	require.False(t, p.Failed())
	arrType, ok := prog.Params[0].Type.(*types.Array)
	require.True(t, ok)
	require.Equal(t, types.UnspecifiedSize, arrType.Size)
}

func TestParseLocalVarAndArrayAccess(t *testing.T) {
	src := `main () : proc
	buf : byte[16];
	{
		buf[0] <- 'a';
	}`

	prog, p := parse(t, src)
	require.False(t, p.Failed())
	require.Len(t, prog.Locals, 1)

	varDef, ok := prog.Locals[0].(*ast.VarDef)
	require.True(t, ok)
	require.True(t, varDef.IsArray)
	require.Equal(t, 16, varDef.Size)

	body := prog.Body.(*ast.StmtList)
	let, ok := body.Stmts[0].(*ast.Let)
	require.True(t, ok)
	access, ok := let.Lhs.(*ast.ArrayAccess)
	require.True(t, ok)
	require.IsType(t, &ast.Id{}, access.Array)
}

func TestParseNestedFunctionWithCapture(t *testing.T) {
	src := `outer (x : int) : int
	inner () : int
	{
		return x + 1;
	}
	{
		return inner();
	}`

	prog, p := parse(t, src)
	require.False(t, p.Failed())
	require.Len(t, prog.Locals, 1)

	nested, ok := prog.Locals[0].(*ast.FuncDef)
	require.True(t, ok)
	require.Equal(t, "inner", nested.Name)
}

func TestParseWhileLoop(t *testing.T) {
	src := `countdown (n : int) : proc
	{
		while (n > 0) {
			n <- n - 1;
		}
	}`

	prog, p := parse(t, src)
	require.False(t, p.Failed())
	body := prog.Body.(*ast.StmtList)
	_, ok := body.Stmts[0].(*ast.While)
	require.True(t, ok)
}

func TestParseBooleanConditionOperators(t *testing.T) {
	src := `check (a : int, b : int) : proc
	{
		if (a < b and not (a == b) or true) {
			return;
		}
	}`

	prog, p := parse(t, src)
	require.False(t, p.Failed())
	body := prog.Body.(*ast.StmtList)
	ifStmt := body.Stmts[0].(*ast.If)
	_, ok := ifStmt.Cond.(*ast.CondBoolOp)
	require.True(t, ok)
}

func TestParseErrorSetsFailed(t *testing.T) {
	src := `broken (( : proc { }`
	_, p := parse(t, src)
	require.True(t, p.Failed())
}
