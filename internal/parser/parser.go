// Package parser implements the recursive-descent, Pratt-style parser of
// spec §4.3: it consumes a lexer.Token stream, builds an ast.* tree in
// an ast.ArenaSet, and appends diagnostics to a diag.List, synchronizing to
// known delimiters on error. Grounded in the teacher's
// `lang/parse`.Parser (panicMode, error/errorAt, synchronize) generalized
// from the teacher's ad hoc per-level grammar functions to the spec's
// precedence-table-driven Pratt loop (token.Precedence).
package parser

import (
	"github.com/bearlang/bearc/internal/ast"
	"github.com/bearlang/bearc/internal/diag"
	"github.com/bearlang/bearc/internal/lexer"
	"github.com/bearlang/bearc/internal/token"
)

// mode is the parser's disambiguation flag (spec §4.3).
type mode uint8

const (
	modeNormal mode = iota
	modeBanLtGt
)

// Parser holds parse state for a single file.
type Parser struct {
	toks []lexer.Token
	pos  int
	file string

	mode mode

	discarded    *lexer.Token // last token discarded by sync, for rescue
	discardedUse bool

	loopDepth int

	diags *diag.List
	arena *ast.ArenaSet
}

// New creates a parser over toks (the full token stream for one file,
// lexer.EOF-terminated).
func New(file string, toks []lexer.Token, diags *diag.List) *Parser {
	return &Parser{file: file, toks: toks, diags: diags, arena: ast.NewArenaSet()}
}

// Parse parses the whole file and returns the root File node.
func (p *Parser) Parse() *ast.File {
	first := p.peek()
	var stmts []ast.Stmt
	for !p.atEOF() {
		stmts = append(stmts, p.parseTopLevelStmt())
	}
	return ast.New(p.arena, ast.File{
		Base:       ast.Base{Loc: ast.NewSpan(first, p.toks[len(p.toks)-1])},
		Name:       p.file,
		Statements: stmts,
	})
}

// ---------------------------------------------------------------------
// Primitive token operations (spec §4.3 normative)
// ---------------------------------------------------------------------

func (p *Parser) peek() lexer.Token { return p.toks[p.pos] }

func (p *Parser) peekAt(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) atEOF() bool { return p.peek().Kind == token.EOF }

func (p *Parser) eat() lexer.Token {
	t := p.peek()
	if !p.atEOF() {
		p.pos++
	}
	return t
}

// match consumes and returns the current token if its kind equals kind.
// It may also "rescue" a token discarded during the most recent sync, to
// support limited backtracking of error recovery (spec §4.3).
func (p *Parser) match(kind token.Kind) (lexer.Token, bool) {
	if p.discardedUse && p.discarded != nil && p.discarded.Kind == kind {
		t := *p.discarded
		p.discarded = nil
		p.discardedUse = false
		return t, true
	}
	if p.peek().Kind == kind {
		return p.eat(), true
	}
	return lexer.Token{}, false
}

// expect consumes a token of kind, or emits CodeExpectedToken and
// returns false.
func (p *Parser) expect(kind token.Kind) (lexer.Token, bool) {
	if t, ok := p.match(kind); ok {
		return t, true
	}
	got := p.peek()
	p.errorTok(diag.CodeExpectedToken, got, diag.ExpectedTokenMessage(kind, got.Kind))
	return lexer.Token{}, false
}

func (p *Parser) errorTok(code diag.Code, at lexer.Token, msg string) {
	p.diags.Add(diag.New(code, diag.Span{
		File: p.file, Start: at.Start, Length: maxInt(at.Length, 1),
		Line: at.Line, Column: at.Column,
	}, msg))
}

// lexErrorDiag surfaces a token.LexError token as the lexical diagnostic
// the lexer itself never emits (spec §4.1/§7 "lex-errors that the parser
// surfaces as diagnostics"): an unterminated literal vs. every other
// undetermined token (illegal byte, bad operator start, numeric
// overflow, bad escape).
func (p *Parser) lexErrorDiag(tok lexer.Token) {
	if tok.Unterminated {
		p.errorTok(diag.CodeUnterminatedLiteral, tok, "unterminated literal")
		return
	}
	p.errorTok(diag.CodeIndeterminateToken, tok, "indeterminate token")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// isSyncKind reports membership in the token set at which error recovery resumes
// (spec §4.3 normative sync set, the intersection per §9 Open Questions).
func isSyncKind(k token.Kind) bool {
	switch k {
	case token.LBrace, token.RBrace, token.LParen, token.RParen,
		token.Semicolon, token.Comma, token.Fn, token.Mt, token.Dt:
		return true
	}
	return false
}

// sync discards tokens until a sync-set member is found, recording the
// last discarded token for one-shot rescue (spec §4.3 "Error recovery").
func (p *Parser) sync() lexer.Token {
	var last lexer.Token
	for !p.atEOF() && !isSyncKind(p.peek().Kind) {
		last = p.eat()
		p.discarded = &last
		p.discardedUse = true
	}
	return last
}

// invalid builds a synthetic Invalid node spanning [from, to].
func (p *Parser) invalid(from, to lexer.Token) *ast.Invalid {
	return ast.New(p.arena, ast.Invalid{Base: ast.Base{Loc: ast.NewSpan(from, to)}})
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (p *Parser) parseTopLevelStmt() ast.Stmt {
	return p.parseStmt()
}

func (p *Parser) parseStmt() ast.Stmt {
	tok := p.peek()
	switch tok.Kind {
	case token.Pub, token.Hid:
		return p.parseVisibilityStmt()
	case token.Static, token.Compt:
		return p.parseStaticComptStmt()
	case token.Extern:
		return p.parseExternBlock()
	case token.Module:
		return p.parseModuleDecl()
	case token.Import:
		return p.parseImport()
	case token.Use:
		return p.parseUseStmt()
	case token.Fn, token.Mt, token.Dt:
		return p.parseFuncDecl()
	case token.Struct:
		return p.parseTypeDecl(ast.KindStruct)
	case token.Variant:
		return p.parseTypeDecl(ast.KindVariant)
	case token.Union:
		return p.parseTypeDecl(ast.KindUnion)
	case token.Contract:
		return p.parseTypeDecl(ast.KindContract)
	case token.Deftype:
		return p.parseDeftypeDecl()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.Return:
		return p.parseReturn()
	case token.Break:
		return p.parseBreak()
	case token.Yield:
		return p.parseYield()
	case token.Match:
		return p.parseMatch()
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		t := p.eat()
		p.errorTok(diag.CodeExtraneousSemicolon, t, "extraneous semicolon")
		return ast.New(p.arena, ast.Empty{Base: ast.Base{Loc: ast.NewSpan(t, t)}})
	case token.Mark:
		return p.parseMarkPreambleOrDecl()
	case token.LexError:
		p.lexErrorDiag(tok)
		last := p.sync()
		return p.invalid(tok, orTok(last, tok))
	default:
		if p.startsType() {
			return p.parseVarDecl()
		}
		return p.parseExprStmt()
	}
}

func (p *Parser) parseVisibilityStmt() ast.Stmt {
	first := p.eat()
	vis := ast.VisDefault
	if first.Kind == token.Pub {
		vis = ast.VisPub
	} else {
		vis = ast.VisHid
	}
	if p.peek().Kind == token.Pub || p.peek().Kind == token.Hid {
		extra := p.eat()
		p.errorTok(diag.CodeExtraneousVisibility, extra, "more than one visibility modifier")
	}
	decl := p.parseStmt()
	return ast.New(p.arena, ast.VisibilityStmt{
		Base: ast.Base{Loc: ast.NewSpan(first, lastTok(decl.Span()))},
		Vis:  vis, Decl: decl,
	})
}

func lastTok(s ast.Span) lexer.Token { return s.Last }

// parseStaticComptStmt parses one or more leading `static`/`compt`
// qualifiers wrapping exactly one declaration (spec §4.7
// "static/compt-modifier-wrapping"). A repeated qualifier is diagnosed
// the same way a repeated `mut` on a type is (spec §4.3 "Duplicate mut
// or compt qualifiers").
func (p *Parser) parseStaticComptStmt() ast.Stmt {
	first := p.peek()
	var isStatic, isCompt bool
loop:
	for {
		switch p.peek().Kind {
		case token.Static:
			t := p.eat()
			if isStatic {
				p.errorTok(diag.CodeRedundantQualifier, t, "redundant 'static' qualifier")
			}
			isStatic = true
		case token.Compt:
			t := p.eat()
			if isCompt {
				p.errorTok(diag.CodeRedundantQualifier, t, "redundant 'compt' qualifier")
			}
			isCompt = true
		default:
			break loop
		}
	}
	decl := p.parseStmt()
	return ast.New(p.arena, ast.StaticComptStmt{
		Base:   ast.Base{Loc: ast.NewSpan(first, lastTok(decl.Span()))},
		Static: isStatic, Compt: isCompt, Decl: decl,
	})
}

// parseExternBlock parses `extern { ... }` (spec §3 "extern block"); its
// body is an ordinary statement list, most usefully prototypes (a
// FuncDecl with no Body) and extern variable declarations.
func (p *Parser) parseExternBlock() ast.Stmt {
	kw := p.eat()
	if _, ok := p.expect(token.LBrace); !ok {
		last := p.sync()
		return p.invalid(kw, orTok(last, kw))
	}
	var inner []ast.Stmt
	for !p.atEOF() && p.peek().Kind != token.RBrace {
		inner = append(inner, p.parseStmt())
	}
	rb, _ := p.expect(token.RBrace)
	return ast.New(p.arena, ast.ExternBlock{Base: ast.Base{Loc: ast.NewSpan(kw, rb)}, Inner: inner})
}

func (p *Parser) parseModuleDecl() ast.Stmt {
	kw := p.eat()
	name, ok := p.expect(token.Identifier)
	if !ok {
		last := p.sync()
		return p.invalid(kw, orTok(last, kw))
	}
	lb, ok := p.expect(token.LBrace)
	if !ok {
		last := p.sync()
		return ast.New(p.arena, ast.ModuleDecl{Base: ast.Base{Loc: ast.NewSpan(kw, orTok(last, name))}, Name: name})
	}
	var inner []ast.Stmt
	for !p.atEOF() && p.peek().Kind != token.RBrace {
		inner = append(inner, p.parseStmt())
	}
	rb, _ := p.expect(token.RBrace)
	_ = lb
	return ast.New(p.arena, ast.ModuleDecl{Base: ast.Base{Loc: ast.NewSpan(kw, rb)}, Name: name, Inner: inner})
}

func orTok(a, fallback lexer.Token) lexer.Token {
	if a.Kind != token.None {
		return a
	}
	return fallback
}

func (p *Parser) parseImport() ast.Stmt {
	kw := p.eat()
	path, ok := p.expect(token.StrLit)
	if !ok {
		last := p.sync()
		return p.invalid(kw, orTok(last, kw))
	}
	semi, _ := p.expect(token.Semicolon)
	return ast.New(p.arena, ast.Import{Base: ast.Base{Loc: ast.NewSpan(kw, orTok(semi, path))}, Path: path})
}

// parseUseStmt parses `use Module;` (or a `..`-qualified nested module
// path), spec §4.5's "add used module" source (ast.UseStmt).
func (p *Parser) parseUseStmt() ast.Stmt {
	kw := p.eat()
	first, ok := p.expect(token.Identifier)
	if !ok {
		last := p.sync()
		return p.invalid(kw, orTok(last, kw))
	}
	path := []lexer.Token{first}
	last := first
	for p.peek().Kind == token.ScopeRes && p.peekAt(1).Kind == token.Identifier {
		p.eat()
		id := p.eat()
		path = append(path, id)
		last = id
	}
	semi, ok := p.expect(token.Semicolon)
	if ok {
		last = semi
	}
	return ast.New(p.arena, ast.UseStmt{Base: ast.Base{Loc: ast.NewSpan(kw, last)}, Path: path})
}

func (p *Parser) parseMarkPreambleOrDecl() ast.Stmt {
	kw := p.eat()
	if p.peek().Kind == token.LBrace {
		// mark declaration: `mark Name { ... }` already consumed `mark`
		// without a name — fall back to expecting identifier.
	}
	if name, ok := p.match(token.Identifier); ok && p.peek().Kind == token.LBrace {
		lb, _ := p.expect(token.LBrace)
		_ = lb
		var body []ast.Stmt
		for !p.atEOF() && p.peek().Kind != token.RBrace {
			body = append(body, p.parseStmt())
		}
		rb, _ := p.expect(token.RBrace)
		return ast.New(p.arena, ast.MarkDecl{Base: ast.Base{Loc: ast.NewSpan(kw, rb)}, Name: name, Body: body})
	}
	marks := p.parseMarkList(kw)
	decl := p.parseStmt()
	return ast.New(p.arena, ast.MarkPreamble{Base: ast.Base{Loc: ast.NewSpan(kw, lastTok(decl.Span()))}, Marks: marks})
}

// parseMarkList parses the single mark that follows an already-consumed
// `mark` keyword: `name`, or `name(arg)` where arg is an identifier or a
// string literal. The `#[...]` bracket form and comma-separated mark
// lists are not parsed; the `mark` keyword dispatch is handled by the
// caller.
func (p *Parser) parseMarkList(kw lexer.Token) []ast.Mark {
	var marks []ast.Mark
	name, ok := p.expect(token.Identifier)
	if !ok {
		return marks
	}
	m := ast.Mark{Name: name}
	if lp, ok := p.match(token.LParen); ok {
		_ = lp
		if arg, ok := p.match(token.Identifier); ok {
			m.Arg = arg
			m.HasArg = true
		} else if arg, ok := p.match(token.StrLit); ok {
			m.Arg = arg
			m.HasArg = true
		}
		p.expect(token.RParen)
	}
	marks = append(marks, m)
	return marks
}

func (p *Parser) parseFuncDecl() ast.Stmt {
	first := p.eat()
	kind := ast.FuncFn
	switch first.Kind {
	case token.Mt:
		kind = ast.FuncMt
	case token.Dt:
		kind = ast.FuncDt
	}

	name, ok := p.expect(token.Identifier)
	var scopePrefix lexer.Token
	hasPrefix := false
	if ok && p.peek().Kind == token.ScopeRes {
		p.eat()
		scopePrefix = name
		hasPrefix = true
		name, ok = p.expect(token.Identifier)
	}
	if !ok {
		last := p.sync()
		return p.invalid(first, orTok(last, first))
	}

	if _, ok := p.expect(token.LParen); !ok {
		last := p.sync()
		fd := ast.New(p.arena, ast.FuncDecl{
			Base: ast.Base{Loc: ast.NewSpan(first, orTok(last, name))},
			Kind: kind, Name: name, ScopePrefix: scopePrefix, HasPrefix: hasPrefix,
		})
		return fd
	}

	var params []ast.Param
	for p.startsType() {
		params = append(params, p.parseParam())
		if _, ok := p.match(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RParen)

	var retType ast.Type
	if _, ok := p.match(token.RArrow); ok {
		retType = p.parseType()
	}

	var body *ast.Block
	last := name
	if p.peek().Kind == token.LBrace {
		b := p.parseBlock()
		body = b.(*ast.Block)
		last = body.Span().Last
	} else if _, ok := p.match(token.Semicolon); ok {
		// prototype declaration, no body
	} else {
		bad := p.peek()
		p.errorTok(diag.CodeBodyMustBeBraced, bad, "function body must be braced")
		sl := p.sync()
		last = orTok(sl, bad)
	}

	return ast.New(p.arena, ast.FuncDecl{
		Base:        ast.Base{Loc: ast.NewSpan(first, last)},
		Kind:        kind,
		ScopePrefix: scopePrefix,
		HasPrefix:   hasPrefix,
		Name:        name,
		Params:      params,
		ReturnType:  retType,
		Body:        body,
	})
}

func (p *Parser) parseParam() ast.Param {
	t := p.parseType()
	name, _ := p.expect(token.Identifier)
	return ast.Param{ParamType: t, Name: name}
}

func (p *Parser) parseTypeDecl(which ast.StructKind) ast.Stmt {
	kw := p.eat()
	name, ok := p.expect(token.Identifier)
	if !ok {
		last := p.sync()
		return p.invalid(kw, orTok(last, kw))
	}
	var requires []lexer.Token
	if _, ok := p.match(token.Requires); ok {
		for {
			id, ok := p.expect(token.Identifier)
			if !ok {
				break
			}
			requires = append(requires, id)
			if _, ok := p.match(token.Comma); !ok {
				break
			}
		}
	}
	if _, ok := p.expect(token.LBrace); !ok {
		last := p.sync()
		return ast.New(p.arena, ast.TypeDecl{Base: ast.Base{Loc: ast.NewSpan(kw, orTok(last, name))}, Which: which, Name: name})
	}
	var fields []ast.Field
	for !p.atEOF() && p.peek().Kind != token.RBrace {
		ft := p.parseType()
		fname, ok := p.expect(token.Identifier)
		p.expect(token.Semicolon)
		if ok {
			fields = append(fields, ast.Field{FieldType: ft, Name: fname})
		}
	}
	rb, _ := p.expect(token.RBrace)
	return ast.New(p.arena, ast.TypeDecl{
		Base: ast.Base{Loc: ast.NewSpan(kw, rb)}, Which: which, Name: name,
		Fields: fields, Requires: requires,
	})
}

func (p *Parser) parseDeftypeDecl() ast.Stmt {
	kw := p.eat()
	name, ok := p.expect(token.Identifier)
	if !ok {
		last := p.sync()
		return p.invalid(kw, orTok(last, kw))
	}
	p.expect(token.Assign)
	aliased := p.parseType()
	semi, _ := p.expect(token.Semicolon)
	return ast.New(p.arena, ast.DeftypeDecl{Base: ast.Base{Loc: ast.NewSpan(kw, orTok(semi, name))}, Name: name, Aliased: aliased})
}

func (p *Parser) parseBlock() ast.Stmt {
	lb, _ := p.expect(token.LBrace)
	var stmts []ast.Stmt
	for !p.atEOF() && p.peek().Kind != token.RBrace {
		stmts = append(stmts, p.parseStmt())
	}
	rb, ok := p.expect(token.RBrace)
	if !ok {
		rb = lb
		p.errorTok(diag.CodeMismatchedRParen, p.peek(), "mismatched right brace")
	}
	return ast.New(p.arena, ast.Block{Base: ast.Base{Loc: ast.NewSpan(lb, rb)}, Statements: stmts})
}

func (p *Parser) parseIf() ast.Stmt {
	kw := p.eat()
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	then := p.parseStmt()
	last := lastTok(then.Span())
	var elseStmt ast.Stmt
	if _, ok := p.match(token.Else); ok {
		elseStmt = p.parseStmt()
		last = lastTok(elseStmt.Span())
	}
	return ast.New(p.arena, ast.If{Base: ast.Base{Loc: ast.NewSpan(kw, last)}, Cond: cond, Then: then, Else: elseStmt})
}

func (p *Parser) parseWhile() ast.Stmt {
	kw := p.eat()
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--
	return ast.New(p.arena, ast.While{Base: ast.Base{Loc: ast.NewSpan(kw, lastTok(body.Span()))}, Cond: cond, Body: body})
}

// parseFor disambiguates C-style vs for-in by the presence of `in` at
// the syntactic position where the iterator name would be (spec §9 Open
// Questions: "prefer for-in" if both interpretations parse).
func (p *Parser) parseFor() ast.Stmt {
	kw := p.eat()
	p.expect(token.LParen)

	if p.peek().Kind == token.Identifier && p.peekAt(1).Kind == token.In {
		pattern := p.eat()
		p.eat() // `in`
		iterable := p.parseExpr()
		p.expect(token.RParen)
		p.loopDepth++
		body := p.parseStmt()
		p.loopDepth--
		return ast.New(p.arena, ast.ForIn{
			Base: ast.Base{Loc: ast.NewSpan(kw, lastTok(body.Span()))},
			Pattern: pattern, Iterable: iterable, Body: body,
		})
	}

	var init ast.Stmt
	if p.peek().Kind != token.Semicolon {
		if p.startsType() {
			init = p.parseVarDeclNoSemi()
		} else {
			x := p.parseExpr()
			init = ast.New(p.arena, ast.ExprStmt{Base: ast.Base{Loc: x.Span()}, X: x})
		}
	}
	p.expect(token.Semicolon)
	var cond ast.Expr
	if p.peek().Kind != token.Semicolon {
		cond = p.parseExpr()
	}
	p.expect(token.Semicolon)
	var step ast.Expr
	if p.peek().Kind != token.RParen {
		step = p.parseExpr()
	}
	p.expect(token.RParen)
	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--
	return ast.New(p.arena, ast.ForC{
		Base: ast.Base{Loc: ast.NewSpan(kw, lastTok(body.Span()))},
		Init: init, Cond: cond, Step: step, Body: body,
	})
}

func (p *Parser) parseReturn() ast.Stmt {
	kw := p.eat()
	var val ast.Expr
	last := kw
	if p.peek().Kind != token.Semicolon {
		val = p.parseExpr()
		last = lastTok(val.Span())
	}
	semi, ok := p.expect(token.Semicolon)
	if ok {
		last = semi
	}
	return ast.New(p.arena, ast.Return{Base: ast.Base{Loc: ast.NewSpan(kw, last)}, Value: val})
}

func (p *Parser) parseBreak() ast.Stmt {
	kw := p.eat()
	if p.loopDepth == 0 {
		p.errorTok(diag.CodeBreakOutsideLoop, kw, "break outside loop")
	}
	semi, _ := p.expect(token.Semicolon)
	return ast.New(p.arena, ast.Break{Base: ast.Base{Loc: ast.NewSpan(kw, orTok(semi, kw))}})
}

func (p *Parser) parseYield() ast.Stmt {
	kw := p.eat()
	val := p.parseExpr()
	semi, _ := p.expect(token.Semicolon)
	return ast.New(p.arena, ast.Yield{Base: ast.Base{Loc: ast.NewSpan(kw, orTok(semi, kw))}, Value: val})
}

func (p *Parser) parseMatch() ast.Stmt {
	kw := p.eat()
	p.expect(token.LParen)
	subject := p.parseExpr()
	p.expect(token.RParen)
	p.expect(token.LBrace)
	var arms []ast.MatchArm
	for !p.atEOF() && p.peek().Kind != token.RBrace {
		pattern := p.parseExpr()
		p.expect(token.FatArrow)
		body := p.parseStmt()
		arms = append(arms, ast.MatchArm{Pattern: pattern, Body: body})
	}
	rb, _ := p.expect(token.RBrace)
	return ast.New(p.arena, ast.Match{Base: ast.Base{Loc: ast.NewSpan(kw, rb)}, Subject: subject, Arms: arms})
}

// startsType reports whether the current token can begin a type (used
// to distinguish a variable declaration from an expression statement).
func (p *Parser) startsType() bool {
	switch p.peek().Kind {
	case token.Mut, token.I8, token.U8, token.I16, token.U16, token.I32, token.U32,
		token.I64, token.U64, token.USize, token.Char, token.F32, token.F64,
		token.Str, token.Bool, token.Void, token.Var, token.Amper, token.Star,
		token.LBrack, token.Fn:
		return true
	case token.Identifier:
		return p.peekAt(1).Kind == token.Identifier ||
			p.peekAt(1).Kind == token.ScopeRes ||
			p.peekAt(1).Kind == token.Lt ||
			p.peekAt(1).Kind == token.GenericSep
	}
	return false
}

func (p *Parser) parseVarDecl() ast.Stmt {
	v := p.parseVarDeclNoSemi()
	semi, ok := p.expect(token.Semicolon)
	if vd, isVd := v.(*ast.VarDecl); isVd {
		last := vd.Span().Last
		if ok {
			last = semi
		}
		vd.Loc = ast.NewSpan(vd.Span().First, last)
	}
	return v
}

func (p *Parser) parseVarDeclNoSemi() ast.Stmt {
	first := p.peek()
	t := p.parseType()
	name, ok := p.expect(token.Identifier)
	if !ok {
		last := p.sync()
		return p.invalid(first, orTok(last, first))
	}
	var init ast.Expr
	if _, ok := p.match(token.Assign); ok {
		init = p.parseExpr()
	}
	last := name
	if init != nil {
		last = lastTok(init.Span())
	}
	return ast.New(p.arena, ast.VarDecl{Base: ast.Base{Loc: ast.NewSpan(first, last)}, VarType: t, Name: name, Init: init})
}

func (p *Parser) parseExprStmt() ast.Stmt {
	first := p.peek()
	x := p.parseExpr()
	semi, ok := p.expect(token.Semicolon)
	last := lastTok(x.Span())
	if ok {
		last = semi
	}
	return ast.New(p.arena, ast.ExprStmt{Base: ast.Base{Loc: ast.NewSpan(first, last)}, X: x})
}

// ---------------------------------------------------------------------
// Type parsing (spec §4.3 "Type parsing")
// ---------------------------------------------------------------------

func (p *Parser) parseType() ast.Type {
	first := p.peek()
	leadingMut := false
	if _, ok := p.match(token.Mut); ok {
		leadingMut = true
	}

	if p.peek().Kind == token.Fn {
		return p.parseFuncPtrType(first, leadingMut)
	}

	base := p.parseBaseType(first, leadingMut)

	var typ ast.Type = base
	for {
		switch p.peek().Kind {
		case token.Amper, token.Star:
			typ = p.parseRefOrPtr(first, typ)
		case token.LBrack:
			typ = p.parseArrayOrSlice(first, typ)
		default:
			return typ
		}
	}
}

func (p *Parser) parseBaseType(first lexer.Token, leadingMut bool) *ast.BaseType {
	var path []lexer.Token
	var builtin lexer.Token
	isBuiltin := false

	switch p.peek().Kind {
	case token.I8, token.U8, token.I16, token.U16, token.I32, token.U32,
		token.I64, token.U64, token.USize, token.Char, token.F32, token.F64,
		token.Str, token.Bool, token.Void, token.Var, token.SelfType:
		builtin = p.eat()
		isBuiltin = true
	default:
		id, _ := p.expect(token.Identifier)
		path = append(path, id)
		for p.peek().Kind == token.ScopeRes {
			p.eat()
			id, ok := p.expect(token.Identifier)
			if !ok {
				break
			}
			path = append(path, id)
		}
	}

	mutable := leadingMut
	last := first
	if len(path) > 0 {
		last = path[len(path)-1]
	} else if isBuiltin {
		last = builtin
	}
	if t, ok := p.match(token.Mut); ok {
		if leadingMut {
			p.errorTok(diag.CodeRedundantQualifier, t, "redundant 'mut' qualifier")
		} else {
			mutable = true
		}
		last = t
	}

	bt := ast.New(p.arena, ast.BaseType{
		Base: ast.Base{Loc: ast.NewSpan(first, last)},
		Path: path, Builtin: builtin, IsBuiltin: isBuiltin, Mutable: mutable,
	})

	if p.peek().Kind == token.GenericSep || (p.mode != modeBanLtGt && p.peek().Kind == token.Lt) {
		p.eat()
		savedMode := p.mode
		p.mode = modeBanLtGt
		for p.peek().Kind != token.Gt && !p.atEOF() {
			bt.GenericArgs = append(bt.GenericArgs, p.parseType())
			if _, ok := p.match(token.Comma); !ok {
				break
			}
		}
		closeT, _ := p.expect(token.Gt)
		p.mode = savedMode
		bt.Loc = ast.NewSpan(first, closeT)
	}
	return bt
}

// parseFuncPtrType parses `fn(ParamTypes...) -> Ret`, used where a type
// is expected (e.g. a field holding a callback).
func (p *Parser) parseFuncPtrType(first lexer.Token, mutable bool) ast.Type {
	p.eat() // fn
	p.expect(token.LParen)
	var params []ast.Type
	for p.peek().Kind != token.RParen && !p.atEOF() {
		params = append(params, p.parseType())
		if _, ok := p.match(token.Comma); !ok {
			break
		}
	}
	last, _ := p.expect(token.RParen)
	var ret ast.Type
	if _, ok := p.match(token.RArrow); ok {
		ret = p.parseType()
	}
	fp := ast.New(p.arena, ast.FuncPtrType{Base: ast.Base{Loc: ast.NewSpan(first, last)}, Params: params, Ret: ret, Mutable: mutable})
	if ret != nil {
		fp.Loc = ast.NewSpan(first, ret.Span().Last)
	}
	return fp
}

func (p *Parser) parseRefOrPtr(first lexer.Token, inner ast.Type) ast.Type {
	opTok := p.eat()
	modifier := ast.ModifierRef
	if opTok.Kind == token.Star {
		modifier = ast.ModifierPtr
	}
	mutable := false
	last := opTok
	if t, ok := p.match(token.Mut); ok {
		mutable = true
		last = t
	}
	return ast.New(p.arena, ast.RefOrPtr{
		Base: ast.Base{Loc: ast.NewSpan(first, last)},
		Modifier: modifier, Mutable: mutable, Inner: inner,
	})
}

func (p *Parser) parseArrayOrSlice(first lexer.Token, inner ast.Type) ast.Type {
	if lm, ok := p.match(token.Mut); ok {
		// leading `mut` before `[` is always a diagnostic (array or slice).
		p.errorTok(diag.CodeRedundantQualifier, lm, "'mut' must not precede '[' — use '[&mut T]' for a mutable slice")
	}
	p.expect(token.LBrack)
	if p.peek().Kind == token.RBrack {
		rb := p.eat()
		mutable := false
		if ref, ok := inner.(*ast.RefOrPtr); ok && ref.Modifier == ast.ModifierRef {
			mutable = ref.Mutable
		}
		return ast.New(p.arena, ast.SliceType{Base: ast.Base{Loc: ast.NewSpan(first, rb)}, Inner: inner, Mutable: mutable})
	}
	size := p.parseExpr()
	rb, _ := p.expect(token.RBrack)
	return ast.New(p.arena, ast.ArrayType{Base: ast.Base{Loc: ast.NewSpan(first, rb)}, Inner: inner, Size: size})
}

// ---------------------------------------------------------------------
// Expressions — Pratt / precedence-climbing (spec §4.3 table)
// ---------------------------------------------------------------------

// loosestLevel is the assignment level, the loosest one token.Precedence
// returns.
const loosestLevel = 16

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(loosestLevel)
}

// parseBinary climbs from the loosest precedence level (assignment, 16)
// down to the tightest, consulting token.Precedence at each step. Lower
// levels bind tighter, so only operators at maxLevel or tighter are
// folded into this call's result.
func (p *Parser) parseBinary(maxLevel int) ast.Expr {
	lhs := p.parseUnary()
	for {
		opTok := p.peek()
		level, assoc, ok := token.Precedence(opTok.Kind)
		if !ok || level > maxLevel {
			return lhs
		}
		p.eat()
		nextMax := level - 1
		if assoc == token.RightAssoc {
			nextMax = level
		}
		rhs := p.parseBinary(nextMax)
		lhs = p.combine(lhs, opTok, rhs)
	}
}

func (p *Parser) combine(lhs ast.Expr, op lexer.Token, rhs ast.Expr) ast.Expr {
	span := ast.NewSpan(lhs.Span().First, rhs.Span().Last)
	if op.Kind == token.AssignMove {
		return ast.New(p.arena, ast.MoveAssign{Base: ast.Base{Loc: span}, Lhs: lhs, Rhs: rhs})
	}
	if token.IsAssignment(op.Kind) {
		return ast.New(p.arena, ast.CopyAssign{Base: ast.Base{Loc: span}, Lhs: lhs, Op: op, Rhs: rhs})
	}
	return ast.New(p.arena, ast.Binary{Base: ast.Base{Loc: span}, Lhs: lhs, Op: op, Rhs: rhs})
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.peek()
	if tok.Kind == token.As {
		// `as` is handled as a postfix cast in parsePostfix instead; fall
		// through to prefix handling otherwise.
	}
	if token.IsPrefixUnary(tok.Kind) {
		op := p.eat()
		operand := p.parseUnary()
		return ast.New(p.arena, ast.PreUnary{Base: ast.Base{Loc: ast.NewSpan(op, operand.Span().Last)}, Op: op, Operand: operand})
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case token.Dot, token.RArrow:
			arrow := p.peek().Kind == token.RArrow
			p.eat()
			name, _ := p.expect(token.Identifier)
			expr = ast.New(p.arena, ast.Member{Base: ast.Base{Loc: ast.NewSpan(expr.Span().First, name)}, Receiver: expr, Arrow: arrow, Name: name})
		case token.LParen:
			p.eat()
			var args []ast.Expr
			for p.peek().Kind != token.RParen && !p.atEOF() {
				args = append(args, p.parseExpr())
				if _, ok := p.match(token.Comma); !ok {
					break
				}
			}
			rp, _ := p.expect(token.RParen)
			expr = ast.New(p.arena, ast.Call{Base: ast.Base{Loc: ast.NewSpan(expr.Span().First, rp)}, Callee: expr, Args: args})
		case token.LBrack:
			p.eat()
			idx := p.parseExpr()
			rb, _ := p.expect(token.RBrack)
			expr = ast.New(p.arena, ast.Index{Base: ast.Base{Loc: ast.NewSpan(expr.Span().First, rb)}, Receiver: expr, Idx: idx})
		case token.Inc, token.Dec:
			op := p.eat()
			expr = ast.New(p.arena, ast.PostUnary{Base: ast.Base{Loc: ast.NewSpan(expr.Span().First, op)}, Operand: expr, Op: op})
		case token.As:
			p.eat()
			_ = p.parseType() // cast target type; not retained on Expr by this front end
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.FloatLit, token.StrLit, token.CharLit,
		token.BoolLitTrue, token.BoolLitFalse, token.NullLit:
		p.eat()
		return ast.New(p.arena, ast.Literal{Base: ast.Base{Loc: ast.NewSpan(tok, tok)}, Tok: tok})
	case token.Identifier, token.SelfId:
		return p.parseIdentPath()
	case token.LParen:
		p.eat()
		inner := p.parseExpr()
		rp, _ := p.expect(token.RParen)
		return ast.New(p.arena, ast.Grouping{Base: ast.Base{Loc: ast.NewSpan(tok, rp)}, Inner: inner})
	case token.LexError:
		p.lexErrorDiag(tok)
		last := p.sync()
		return p.invalid(tok, orTok(last, tok))
	default:
		p.errorTok(diag.CodeExpectedExpression, tok, "expected expression, found '"+tok.Kind.Name()+"'")
		last := p.sync()
		return p.invalid(tok, orTok(last, tok))
	}
}

func (p *Parser) parseIdentPath() ast.Expr {
	first := p.eat()
	parts := []lexer.Token{first}
	last := first
	for p.peek().Kind == token.ScopeRes && p.peekAt(1).Kind == token.Identifier {
		p.eat()
		id := p.eat()
		parts = append(parts, id)
		last = id
	}
	return ast.New(p.arena, ast.IdentPath{Base: ast.Base{Loc: ast.NewSpan(first, last)}, Parts: parts})
}
