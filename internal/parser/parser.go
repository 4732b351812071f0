// Package parser implements the syntax analysis for SpellLang. It uses
// recursive descent for statements/declarations and precedence climbing
// for expressions.
package parser

import (
	"strconv"

	"spelllang/internal/ast"
	"spelllang/internal/diag"
	"spelllang/internal/span"
	"spelllang/internal/token"
)

// ============================================================
// Binding power (precedence) levels — §3's ladder, lowest to highest.
// ============================================================

const (
	bpNone       = 0
	bpOr         = 10 // ||
	bpAnd        = 20 // &&
	bpEquality   = 30 // == !=
	bpComparison = 40 // < <= > >=
	bpAdditive   = 50 // + -
	bpMultiply   = 60 // * / %
	bpPrefix     = 70 // unary ! -
)

func infixBP(kind token.Kind) int {
	switch kind {
	case token.OR:
		return bpOr
	case token.AND:
		return bpAnd
	case token.EQ, token.NEQ:
		return bpEquality
	case token.LT, token.LTE, token.GT, token.GTE:
		return bpComparison
	case token.PLUS, token.MINUS:
		return bpAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return bpMultiply
	default:
		return bpNone
	}
}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseFile parses the entire file and returns the AST root and diagnostics.
func (p *Parser) ParseFile() (*ast.File, []diag.Diagnostic) {
	file := &ast.File{}
	startPos := p.peek().Span.Start

	for !p.isAtEnd() {
		stmt := p.parseStmt()
		if stmt != nil {
			file.Body = append(file.Body, stmt)
		}
	}

	endPos := p.peek().Span.End
	file.Span = span.Span{Start: startPos, End: endPos}
	return file, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.error(tok.Span, "expected '%s', got '%s'", kind, tok.Kind)
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

func (p *Parser) error(s span.Span, format string, args ...interface{}) {
	p.diags = append(p.diags, diag.Parserf(s, format, args...))
}

// synchronize skips tokens until a likely statement boundary, so one
// malformed statement does not cascade into spurious downstream errors.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.check(token.RBRACE) {
			return
		}
		if p.match(token.KW_WAND, token.KW_CAULDRON, token.KW_SPELLBOOKS, token.KW_INCANTATION,
			token.KW_CAST, token.KW_ILLUMINATE, token.KW_IFAR, token.KW_PERSISTUS,
			token.KW_LOOPUS, token.KW_PROTEGO, token.KW_MAGICAL) {
			return
		}
		p.advance()
	}
}

// ============================================================
// Statement parsing — dispatch per §4.2
// ============================================================

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peekKind() {
	case token.KW_WAND, token.KW_CAULDRON, token.KW_SPELLBOOKS:
		return p.parseVarDecl()
	case token.KW_INCANTATION:
		return p.parseFuncDecl()
	case token.KW_MAGICAL:
		return p.parseClassDecl()
	case token.KW_CAST:
		return p.parseCastStmt()
	case token.KW_ILLUMINATE:
		return p.parsePrint()
	case token.KW_IFAR:
		return p.parseIf()
	case token.KW_PERSISTUS:
		return p.parseWhile()
	case token.KW_LOOPUS:
		return p.parseFor()
	case token.KW_PROTEGO:
		return p.parseTryCatch()
	case token.IDENT:
		return p.parseAssign()
	default:
		tok := p.peek()
		p.error(tok.Span, "unexpected token: '%s'", tok.Lexeme)
		p.advance()
		p.synchronize()
		return nil
	}
}

// parseVarDecl parses: (Wand|Cauldron|SpellBooks) IDENT '=' expr
func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.advance()
	decl := &ast.VarDecl{Kind: varDeclKind(start.Kind)}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		decl.Span = p.makeSpan(start.Span.Start)
		return decl
	}
	decl.Name = nameTok.Lexeme

	p.expect(token.ASSIGN)
	decl.Init = p.parseExpr(bpNone)
	decl.Span = p.makeSpan(start.Span.Start)
	return decl
}

func varDeclKind(k token.Kind) ast.VarDeclKind {
	switch k {
	case token.KW_CAULDRON:
		return ast.KindCauldron
	case token.KW_SPELLBOOKS:
		return ast.KindSpellBooks
	default:
		return ast.KindWand
	}
}

// parseAssign parses: IDENT '=' expr
func (p *Parser) parseAssign() *ast.Assign {
	nameTok := p.advance()
	assign := &ast.Assign{Name: nameTok.Lexeme}
	p.expect(token.ASSIGN)
	assign.Expr = p.parseExpr(bpNone)
	assign.Span = p.makeSpan(nameTok.Span.Start)
	return assign
}

// parseFuncDecl parses: Incantation IDENT '(' params? ')' '{' stmt* '}'
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.advance()
	decl := &ast.FuncDecl{}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		decl.Span = p.makeSpan(start.Span.Start)
		return decl
	}
	decl.Name = nameTok.Lexeme
	decl.Params = p.parseParamList()
	decl.Body = p.parseBraceBlock()
	decl.Span = p.makeSpan(start.Span.Start)
	return decl
}

// parseClassDecl parses:
// Magical Creature IDENT '(' params? ')' (Bloodline IDENT)? '{' stmt* '}'
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	start := p.advance() // 'Magical'
	decl := &ast.ClassDecl{}

	if _, ok := p.expect(token.KW_CREATURE); !ok {
		p.synchronize()
		decl.Span = p.makeSpan(start.Span.Start)
		return decl
	}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		decl.Span = p.makeSpan(start.Span.Start)
		return decl
	}
	decl.Name = nameTok.Lexeme
	decl.Params = p.parseParamList()

	if p.check(token.KW_BLOODLINE) {
		p.advance()
		parentTok, ok := p.expect(token.IDENT)
		if ok {
			decl.Parent = parentTok.Lexeme
		}
	}

	decl.Body = p.parseBraceBlock()
	decl.Span = p.makeSpan(start.Span.Start)
	return decl
}

// parseCastStmt parses: Cast IDENT '(' args? ')' — a call statement whose
// result is discarded (§4.2).
func (p *Parser) parseCastStmt() *ast.ExprStmt {
	start := p.advance() // 'Cast'

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return &ast.ExprStmt{StmtBase: makeStmtBase(start.Span.Start, p.prevEnd())}
	}

	call := p.parseCallTail(nameTok.Lexeme, start.Span.Start)
	return &ast.ExprStmt{StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()), Expr: call}
}

// parsePrint parses: Illuminate '(' expr ')'
func (p *Parser) parsePrint() *ast.Print {
	start := p.advance()
	stmt := &ast.Print{}
	p.expect(token.LPAREN)
	stmt.Expr = p.parseExpr(bpNone)
	p.expect(token.RPAREN)
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseIf parses: Ifar expr '{' stmt* '}' (Elsear '{' stmt* '}')?
func (p *Parser) parseIf() *ast.If {
	start := p.advance()
	stmt := &ast.If{}
	stmt.Cond = p.parseExpr(bpNone)
	stmt.Then = p.parseBraceBlock()
	if p.check(token.KW_ELSEAR) {
		p.advance()
		stmt.HasElse = true
		stmt.Else = p.parseBraceBlock()
	}
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseWhile parses: Persistus expr '{' stmt* '}'
func (p *Parser) parseWhile() *ast.While {
	start := p.advance()
	stmt := &ast.While{}
	stmt.Cond = p.parseExpr(bpNone)
	stmt.Body = p.parseBraceBlock()
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseFor parses: Loopus (IDENT '=' expr)? ';' expr ';' (IDENT '=' expr)? '{' stmt* '}'
// The init and step clauses are optional assignments; no other expression
// form is accepted in those two positions.
func (p *Parser) parseFor() *ast.For {
	start := p.advance()
	stmt := &ast.For{}

	if p.check(token.IDENT) {
		stmt.Init = p.parseAssign()
	}
	p.expect(token.SEMICOLON)

	stmt.Cond = p.parseExpr(bpNone)
	p.expect(token.SEMICOLON)

	if p.check(token.IDENT) {
		stmt.Step = p.parseAssign()
	}

	stmt.Body = p.parseBraceBlock()
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseTryCatch parses: Protego '{' stmt* '}' Alohomora '{' stmt* '}'
func (p *Parser) parseTryCatch() *ast.TryCatch {
	start := p.advance()
	stmt := &ast.TryCatch{}
	stmt.Try = p.parseBraceBlock()
	p.expect(token.KW_ALOHOMORA)
	stmt.Catch = p.parseBraceBlock()
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseBraceBlock parses: '{' stmt* '}'
func (p *Parser) parseBraceBlock() []ast.Stmt {
	if _, ok := p.expect(token.LBRACE); !ok {
		p.synchronize()
		return nil
	}
	var body []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmt := p.parseStmt()
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	p.expect(token.RBRACE)
	return body
}

// parseParamList parses: '(' (IDENT (',' IDENT)*)? ')'
func (p *Parser) parseParamList() []string {
	var params []string
	if _, ok := p.expect(token.LPAREN); !ok {
		return params
	}
	if !p.check(token.RPAREN) {
		nameTok, ok := p.expect(token.IDENT)
		if ok {
			params = append(params, nameTok.Lexeme)
		}
		for p.check(token.COMMA) {
			p.advance()
			nameTok, ok = p.expect(token.IDENT)
			if ok {
				params = append(params, nameTok.Lexeme)
			}
		}
	}
	p.expect(token.RPAREN)
	return params
}

// ============================================================
// Expression parsing (precedence climbing)
// ============================================================

func (p *Parser) parseExpr(minBP int) ast.Expr {
	left := p.nud()
	if left == nil {
		return nil
	}
	for {
		bp := infixBP(p.peekKind())
		if bp <= minBP {
			break
		}
		left = p.led(left, bp)
	}
	return left
}

// nud handles primary/prefix parsing.
func (p *Parser) nud() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.INT:
		p.advance()
		val, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		return &ast.IntLit{ExprBase: makeExprBase(tok.Span.Start, tok.Span.End), Value: val}

	case token.STRING:
		p.advance()
		return &ast.StrLit{ExprBase: makeExprBase(tok.Span.Start, tok.Span.End), Value: tok.Lexeme}

	case token.IDENT:
		p.advance()
		if p.check(token.LPAREN) {
			return p.parseCallTail(tok.Lexeme, tok.Span.Start)
		}
		return &ast.Ident{ExprBase: makeExprBase(tok.Span.Start, tok.Span.End), Name: tok.Lexeme}

	case token.KW_LEN:
		// "len" lexes as a keyword (§4.1) but must remain callable as the
		// builtin of the same name (§4.3) — the grammar gives it no
		// dedicated production, so it is treated as a call-only name here.
		p.advance()
		if p.check(token.LPAREN) {
			return p.parseCallTail("len", tok.Span.Start)
		}
		p.error(tok.Span, "'len' must be called, e.g. len(x)")
		return &ast.Ident{ExprBase: makeExprBase(tok.Span.Start, tok.Span.End), Name: "len"}

	case token.LPAREN:
		p.advance()
		expr := p.parseExpr(bpNone)
		p.expect(token.RPAREN)
		return expr

	case token.BANG:
		p.advance()
		operand := p.parseExpr(bpPrefix)
		return &ast.UnaryOp{
			ExprBase: makeExprBase(tok.Span.Start, operand.GetSpan().End),
			Op:       "!",
			Operand:  operand,
		}

	case token.MINUS:
		p.advance()
		operand := p.parseExpr(bpPrefix)
		return &ast.UnaryOp{
			ExprBase: makeExprBase(tok.Span.Start, operand.GetSpan().End),
			Op:       "-",
			Operand:  operand,
		}

	case token.LBRACKET:
		return p.parseListLit()

	case token.LBRACE:
		return p.parseMapLit()

	default:
		p.error(tok.Span, "unexpected token in expression: '%s'", tok.Lexeme)
		p.advance()
		return nil
	}
}

// led handles infix (left denotation) parsing — all binary operators are
// left-associative (§3).
func (p *Parser) led(left ast.Expr, bp int) ast.Expr {
	tok := p.advance()
	right := p.parseExpr(bp)
	if right == nil {
		return left
	}
	return &ast.BinaryOp{
		ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
		Op:       tok.Lexeme,
		Left:     left,
		Right:    right,
	}
}

// parseCallTail parses the "(args)" portion of a call expression, given the
// already-consumed callee name.
func (p *Parser) parseCallTail(callee string, start span.Position) *ast.Call {
	p.advance() // '('
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		args = append(args, p.parseExpr(bpNone))
		for p.check(token.COMMA) {
			p.advance()
			args = append(args, p.parseExpr(bpNone))
		}
	}
	end, _ := p.expect(token.RPAREN)
	return &ast.Call{
		ExprBase: makeExprBase(start, end.Span.End),
		Callee:   callee,
		Args:     args,
	}
}

// parseListLit parses: '[' (expr (',' expr)*)? ']'
func (p *Parser) parseListLit() *ast.ListLit {
	start := p.advance()
	var elements []ast.Expr
	if !p.check(token.RBRACKET) {
		elements = append(elements, p.parseExpr(bpNone))
		for p.check(token.COMMA) {
			p.advance()
			elements = append(elements, p.parseExpr(bpNone))
		}
	}
	end, _ := p.expect(token.RBRACKET)
	return &ast.ListLit{ExprBase: makeExprBase(start.Span.Start, end.Span.End), Elements: elements}
}

// parseMapLit parses: '{' (expr ':' expr (',' expr ':' expr)*)? '}'
func (p *Parser) parseMapLit() *ast.MapLit {
	start := p.advance()
	var entries []ast.MapEntry
	if !p.check(token.RBRACE) {
		entries = append(entries, p.parseMapEntry())
		for p.check(token.COMMA) {
			p.advance()
			entries = append(entries, p.parseMapEntry())
		}
	}
	end, _ := p.expect(token.RBRACE)
	return &ast.MapLit{ExprBase: makeExprBase(start.Span.Start, end.Span.End), Entries: entries}
}

func (p *Parser) parseMapEntry() ast.MapEntry {
	key := p.parseExpr(bpNone)
	p.expect(token.COLON)
	value := p.parseExpr(bpNone)
	return ast.MapEntry{Key: key, Value: value}
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}
