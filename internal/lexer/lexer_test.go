package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kostiscpp/alan-compiler/internal/report"
)

func collectTokens(src string) []Token {
	logger := report.NewLogger("<test>", report.LevelSilent, []byte(src))
	l := New([]byte(src), logger)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks
		}
	}
}

func TestNextTokenBasics(t *testing.T) {
	toks := collectTokens("def foo (a : int) : int x <- a + 1")

	expect := []struct {
		kind TokenKind
		text string
	}{
		{TokKeyword, "def"},
		{TokIdent, "foo"},
		{TokPunct, "("},
		{TokIdent, "a"},
		{TokPunct, ":"},
		{TokKeyword, "int"},
		{TokPunct, ")"},
		{TokPunct, ":"},
		{TokKeyword, "int"},
		{TokIdent, "x"},
		{TokPunct, "<-"},
		{TokIdent, "a"},
		{TokPunct, "+"},
		{TokIntLit, "1"},
		{TokEOF, ""},
	}

	require.Len(t, toks, len(expect))
	for i, e := range expect {
		require.Equal(t, e.kind, toks[i].Kind, "token %d", i)
		require.Equal(t, e.text, toks[i].Text, "token %d", i)
	}
}

func TestScanIntLit(t *testing.T) {
	toks := collectTokens("12345")
	require.Equal(t, TokIntLit, toks[0].Kind)
	require.EqualValues(t, 12345, toks[0].IntValue)
}

func TestScanCharLitEscapes(t *testing.T) {
	toks := collectTokens(`'\n' 'a' '\x41'`)
	require.Equal(t, byte('\n'), toks[0].ByteValue)
	require.Equal(t, byte('a'), toks[1].ByteValue)
	require.Equal(t, byte('A'), toks[2].ByteValue)
}

func TestScanStringLitEscapes(t *testing.T) {
	toks := collectTokens(`"hello\nworld"`)
	require.Equal(t, TokStringLit, toks[0].Kind)
	require.Equal(t, "hello\nworld", toks[0].Text)
}

func TestTwoCharPunctsPreferredOverPrefix(t *testing.T) {
	toks := collectTokens("<- <= == != >= < >")
	want := []string{"<-", "<=", "==", "!=", ">=", "<", ">"}
	for i, w := range want {
		require.Equal(t, w, toks[i].Text)
	}
}

func TestLineAndBlockComments(t *testing.T) {
	toks := collectTokens("a -- trailing comment\n(* a block\ncomment *) b")
	require.Equal(t, "a", toks[0].Text)
	require.Equal(t, "b", toks[1].Text)
	require.Equal(t, TokEOF, toks[2].Kind)
}

func TestNestedBlockComments(t *testing.T) {
	toks := collectTokens("(* outer (* inner *) still-outer *) done")
	require.Equal(t, "done", toks[0].Text)
}

func TestUnterminatedCharLiteralReportsError(t *testing.T) {
	logger := report.NewLogger("<test>", report.LevelSilent, []byte(`'a`))
	l := New([]byte(`'a`), logger)
	l.Next()
	require.Equal(t, 1, logger.ErrorCount())
}

func TestUnexpectedCharacterReportsError(t *testing.T) {
	logger := report.NewLogger("<test>", report.LevelSilent, []byte(`@`))
	l := New([]byte(`@`), logger)
	l.Next()
	require.Equal(t, 1, logger.ErrorCount())
}

func TestPositionsAdvanceAcrossLines(t *testing.T) {
	logger := report.NewLogger("<test>", report.LevelSilent, []byte("a\nb"))
	l := New([]byte("a\nb"), logger)
	first := l.Next()
	second := l.Next()
	require.Equal(t, 1, first.Pos.Line)
	require.Equal(t, 2, second.Pos.Line)
}
