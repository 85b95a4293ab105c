// Package parser implements a hand-written recursive-descent parser for
// Alan source, producing the internal/ast tree the semantic pass
// consumes. It deliberately does not generalize to arbitrary grammars —
// the grammar is small and fixed, so a table-driven or generated parser
// would be engineering overkill for this concern.
package parser

import (
	"github.com/kostiscpp/alan-compiler/internal/ast"
	"github.com/kostiscpp/alan-compiler/internal/lexer"
	"github.com/kostiscpp/alan-compiler/internal/report"
	"github.com/kostiscpp/alan-compiler/internal/types"
)

// Parser consumes a token stream with one token of lookahead beyond cur,
// buffered lazily in la.
type Parser struct {
	lex    *lexer.Lexer
	logger *report.Logger
	cur    lexer.Token
	la     *lexer.Token
	failed bool
}

// New creates a Parser over src.
func New(src []byte, logger *report.Logger) *Parser {
	p := &Parser{lex: lexer.New(src, logger), logger: logger}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.la != nil {
		p.cur = *p.la
		p.la = nil
		return
	}
	p.cur = p.lex.Next()
}

// peek2 returns the token after cur without consuming either.
func (p *Parser) peek2() lexer.Token {
	if p.la == nil {
		t := p.lex.Next()
		p.la = &t
	}
	return *p.la
}

func (p *Parser) atPunct(text string) bool {
	return p.cur.Kind == lexer.TokPunct && p.cur.Text == text
}

func (p *Parser) atKeyword(text string) bool {
	return p.cur.Kind == lexer.TokKeyword && p.cur.Text == text
}

func (p *Parser) expectPunct(text string) bool {
	if !p.atPunct(text) {
		p.errorf("expected %q, found %q", text, p.cur.Text)
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expectKeyword(text string) bool {
	if !p.atKeyword(text) {
		p.errorf("expected keyword %q, found %q", text, p.cur.Text)
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expectIdent() (string, bool) {
	if p.cur.Kind != lexer.TokIdent {
		p.errorf("expected identifier, found %q", p.cur.Text)
		return "", false
	}
	name := p.cur.Text
	p.advance()
	return name, true
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.failed = true
	p.logger.Errorf(p.cur.Pos, report.ParseError, format, args...)
}

// Failed reports whether any parse error occurred.
func (p *Parser) Failed() bool {
	return p.failed
}

// ParseProgram parses the single top-level function definition that
// constitutes an Alan program.
func (p *Parser) ParseProgram() *ast.FuncDef {
	return p.parseFuncDef()
}

// -----------------------------------------------------------------------------
// Types

func (p *Parser) parseBaseType() types.Type {
	switch {
	case p.atKeyword("int"):
		p.advance()
		return types.Primitive(types.Int)
	case p.atKeyword("byte"):
		p.advance()
		return types.Primitive(types.Byte)
	default:
		p.errorf("expected type, found %q", p.cur.Text)
		return types.Primitive(types.Int)
	}
}

// parseType parses a formal-parameter type, which may carry any number of
// empty "[]" suffixes marking an unspecified-size (decayed-to-pointer)
// array. Local variable declarations use parseBaseType plus their own
// single literal-size suffix instead — see parseVarDefFrom.
func (p *Parser) parseType() types.Type {
	base := p.parseBaseType()
	for p.atPunct("[") {
		next := p.peek2()
		if !(next.Kind == lexer.TokPunct && next.Text == "]") {
			break
		}
		p.advance()
		p.advance()
		base = types.NewArray(base, types.UnspecifiedSize)
	}
	return base
}

// -----------------------------------------------------------------------------
// Function definitions

func (p *Parser) parseFuncDef() *ast.FuncDef {
	pos := p.cur.Pos
	name, _ := p.expectIdent()

	p.expectPunct("(")
	var params []*ast.Fpar
	if !p.atPunct(")") {
		params = p.parseFparList()
	}
	p.expectPunct(")")
	p.expectPunct(":")

	var ret types.Type
	if p.atKeyword("proc") {
		p.advance()
		ret = types.Void
	} else {
		ret = p.parseType()
	}

	locals := p.parseLocalDefs()
	body := p.parseBlock()

	return ast.NewFuncDef(pos, name, ret, params, locals, body)
}

func (p *Parser) parseFparList() []*ast.Fpar {
	var params []*ast.Fpar
	params = append(params, p.parseFpar())
	for p.atPunct(",") {
		p.advance()
		params = append(params, p.parseFpar())
	}
	return params
}

func (p *Parser) parseFpar() *ast.Fpar {
	pos := p.cur.Pos
	kind := ast.ByValue
	if p.atKeyword("reference") {
		p.advance()
		kind = ast.ByReference
	}
	name, _ := p.expectIdent()
	p.expectPunct(":")
	typ := p.parseType()
	return ast.NewFpar(pos, name, typ, kind)
}

func (p *Parser) parseLocalDefs() []ast.LocalDef {
	var locals []ast.LocalDef
	for {
		if p.cur.Kind == lexer.TokIdent {
			// Lookahead: an identifier starting a local def is always
			// followed eventually by '(' (func) or ':' (var); either way
			// it is not the start of a statement block, so just parse it.
			locals = append(locals, p.parseLocalDef())
			continue
		}
		break
	}
	return locals
}

func (p *Parser) parseLocalDef() ast.LocalDef {
	// Disambiguate funcdef vs vardef by scanning ahead for '(' immediately
	// after the identifier.
	savedPos := p.cur.Pos
	name, _ := p.expectIdent()
	if p.atPunct("(") {
		return p.parseFuncDefFrom(savedPos, name)
	}
	return p.parseVarDefFrom(savedPos, name)
}

// parseFuncDefFrom continues a funcdef parse after name has already been
// consumed by the disambiguating lookahead in parseLocalDef.
func (p *Parser) parseFuncDefFrom(pos report.Position, name string) *ast.FuncDef {
	p.expectPunct("(")
	var params []*ast.Fpar
	if !p.atPunct(")") {
		params = p.parseFparList()
	}
	p.expectPunct(")")
	p.expectPunct(":")

	var ret types.Type
	if p.atKeyword("proc") {
		p.advance()
		ret = types.Void
	} else {
		ret = p.parseType()
	}

	locals := p.parseLocalDefs()
	body := p.parseBlock()
	return ast.NewFuncDef(pos, name, ret, params, locals, body)
}

func (p *Parser) parseVarDefFrom(pos report.Position, name string) *ast.VarDef {
	p.expectPunct(":")
	typ := p.parseBaseType()
	isArray := false
	size := 0
	if p.atPunct("[") {
		p.advance()
		isArray = true
		if p.cur.Kind == lexer.TokIntLit {
			size = int(p.cur.IntValue)
			p.advance()
		} else {
			p.errorf("expected array size literal")
		}
		p.expectPunct("]")
	}
	p.expectPunct(";")
	return ast.NewVarDef(pos, name, typ, isArray, size)
}

// -----------------------------------------------------------------------------
// Statements

func (p *Parser) parseBlock() *ast.StmtList {
	pos := p.cur.Pos
	p.expectPunct("{")
	var stmts []ast.Stmt
	for !p.atPunct("}") && p.cur.Kind != lexer.TokEOF {
		stmts = append(stmts, p.parseStmt())
	}
	p.expectPunct("}")
	return ast.NewStmtList(pos, stmts)
}

func (p *Parser) parseStmt() ast.Stmt {
	pos := p.cur.Pos
	switch {
	case p.atPunct("{"):
		return p.parseBlock()
	case p.atPunct(";"):
		p.advance()
		return ast.NewEmpty(pos)
	case p.atKeyword("if"):
		return p.parseIf()
	case p.atKeyword("while"):
		return p.parseWhile()
	case p.atKeyword("return"):
		return p.parseReturn()
	case p.cur.Kind == lexer.TokIdent:
		return p.parseLetOrProcCall()
	default:
		p.errorf("unexpected token %q in statement", p.cur.Text)
		p.advance()
		return ast.NewEmpty(pos)
	}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	p.expectPunct("(")
	cond := p.parseCond()
	p.expectPunct(")")
	then := p.parseStmt()
	var els ast.Stmt
	if p.atKeyword("else") {
		p.advance()
		els = p.parseStmt()
	}
	return ast.NewIf(pos, cond, then, els)
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	p.expectPunct("(")
	cond := p.parseCond()
	p.expectPunct(")")
	body := p.parseStmt()
	return ast.NewWhile(pos, cond, body)
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	var e ast.Expr
	if !p.atPunct(";") {
		e = p.parseExpr()
	}
	p.expectPunct(";")
	return ast.NewReturn(pos, e)
}

// parseLetOrProcCall disambiguates "id ... <- expr ;" from "id ( args ) ;"
// by parsing a primary l-value/call expression first and then checking
// what follows.
func (p *Parser) parseLetOrProcCall() ast.Stmt {
	pos := p.cur.Pos
	name, _ := p.expectIdent()

	if p.atPunct("(") {
		args := p.parseArgs()
		p.expectPunct(";")
		return ast.NewProcCall(pos, name, args)
	}

	lv := ast.Expr(ast.NewId(pos, name))
	for p.atPunct("[") {
		p.advance()
		idx := p.parseExpr()
		p.expectPunct("]")
		lv = ast.NewArrayAccess(pos, lv, idx)
	}
	p.expectPunct("<-")
	rhs := p.parseExpr()
	p.expectPunct(";")
	return ast.NewLet(pos, lv.(ast.Lvalue), rhs)
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expectPunct("(")
	var args []ast.Expr
	if !p.atPunct(")") {
		args = append(args, p.parseExpr())
		for p.atPunct(",") {
			p.advance()
			args = append(args, p.parseExpr())
		}
	}
	p.expectPunct(")")
	return args
}

// -----------------------------------------------------------------------------
// Conditions

func (p *Parser) parseCond() ast.Cond {
	return p.parseCondOr()
}

func (p *Parser) parseCondOr() ast.Cond {
	pos := p.cur.Pos
	left := p.parseCondAnd()
	for p.atKeyword("or") {
		p.advance()
		right := p.parseCondAnd()
		left = ast.NewCondBoolOp(pos, "|", left, right)
	}
	return left
}

func (p *Parser) parseCondAnd() ast.Cond {
	pos := p.cur.Pos
	left := p.parseCondUnary()
	for p.atKeyword("and") {
		p.advance()
		right := p.parseCondUnary()
		left = ast.NewCondBoolOp(pos, "&", left, right)
	}
	return left
}

func (p *Parser) parseCondUnary() ast.Cond {
	pos := p.cur.Pos
	if p.atKeyword("not") {
		p.advance()
		inner := p.parseCondUnary()
		return ast.NewCondUnOp(pos, inner)
	}
	return p.parseCondPrimary()
}

var compOps = map[string]bool{"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true}

func (p *Parser) parseCondPrimary() ast.Cond {
	pos := p.cur.Pos
	if p.atKeyword("true") {
		p.advance()
		return ast.NewBoolConst(pos, true)
	}
	if p.atKeyword("false") {
		p.advance()
		return ast.NewBoolConst(pos, false)
	}
	left := p.parseExpr()
	if p.cur.Kind == lexer.TokPunct && compOps[p.cur.Text] {
		op := p.cur.Text
		p.advance()
		right := p.parseExpr()
		return ast.NewCondCompOp(pos, op, left, right)
	}
	p.errorf("expected comparison operator, found %q", p.cur.Text)
	return ast.NewBoolConst(pos, false)
}

// -----------------------------------------------------------------------------
// Expressions

func (p *Parser) parseExpr() ast.Expr {
	return p.parseAddSub()
}

func (p *Parser) parseAddSub() ast.Expr {
	pos := p.cur.Pos
	left := p.parseMulDiv()
	for p.atPunct("+") || p.atPunct("-") {
		op := p.cur.Text
		p.advance()
		right := p.parseMulDiv()
		left = ast.NewBinOp(pos, op, left, right)
	}
	return left
}

func (p *Parser) parseMulDiv() ast.Expr {
	pos := p.cur.Pos
	left := p.parseUnary()
	for p.atPunct("*") || p.atPunct("/") || p.atPunct("%") {
		op := p.cur.Text
		p.advance()
		right := p.parseUnary()
		left = ast.NewBinOp(pos, op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.cur.Pos
	if p.atPunct("+") || p.atPunct("-") {
		op := p.cur.Text
		p.advance()
		operand := p.parseUnary()
		return ast.NewUnOp(pos, op, operand)
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.cur.Pos
	switch {
	case p.cur.Kind == lexer.TokIntLit:
		v := p.cur.IntValue
		p.advance()
		return ast.NewIntConst(pos, v)
	case p.cur.Kind == lexer.TokCharLit:
		v := p.cur.ByteValue
		p.advance()
		return ast.NewCharConst(pos, v)
	case p.cur.Kind == lexer.TokStringLit:
		v := p.cur.Text
		p.advance()
		return ast.NewStringConst(pos, v)
	case p.atPunct("("):
		p.advance()
		e := p.parseExpr()
		p.expectPunct(")")
		return e
	case p.cur.Kind == lexer.TokIdent:
		name := p.cur.Text
		p.advance()
		if p.atPunct("(") {
			args := p.parseArgs()
			return ast.NewFuncCall(pos, name, args)
		}
		var e ast.Expr = ast.NewId(pos, name)
		for p.atPunct("[") {
			p.advance()
			idx := p.parseExpr()
			p.expectPunct("]")
			e = ast.NewArrayAccess(pos, e, idx)
		}
		return e
	default:
		p.errorf("unexpected token %q in expression", p.cur.Text)
		p.advance()
		return ast.NewIntConst(pos, 0)
	}
}
