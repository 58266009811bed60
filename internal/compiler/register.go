package compiler

import (
	"fmt"

	"github.com/bearlang/bearc/internal/ast"
	"github.com/bearlang/bearc/internal/diag"
	"github.com/bearlang/bearc/internal/ids"
	"github.com/bearlang/bearc/internal/lexer"
	"github.com/bearlang/bearc/internal/scope"
)

// registerTopLevel walks rec's (or a module's inner) statement list,
// registering definitions into scopeId (spec §4.7 "Top-level
// registration"). parentDef is the enclosing module definition, or
// ids.None at the file root.
func (c *Context) registerTopLevel(rec *fileRecord, scopeId ids.ScopeId, parentDef ids.DefId) {
	c.registerStmts(rec, rec.ast.Statements, scopeId, parentDef)
}

func (c *Context) registerStmts(rec *fileRecord, stmts []ast.Stmt, scopeId ids.ScopeId, parentDef ids.DefId) {
	for _, stmt := range stmts {
		vis := VisDefault
		var static, compt bool
		decl := stmt
		// A declaration may be wrapped by a leading visibility modifier
		// and/or a leading static/compt qualifier, in either order (spec
		// §4.7 "strip a leading visibility modifier" +
		// "static/compt-modifier-wrapping"), so peel both wrapper kinds
		// until neither applies.
		for {
			if vs, ok := decl.(*ast.VisibilityStmt); ok {
				if vs.Vis == ast.VisPub {
					vis = VisPub
				} else if vs.Vis == ast.VisHid {
					vis = VisHid
				}
				decl = vs.Decl
				continue
			}
			if sc, ok := decl.(*ast.StaticComptStmt); ok {
				static = static || sc.Static
				compt = compt || sc.Compt
				decl = sc.Decl
				continue
			}
			break
		}
		c.registerDecl(rec, decl, vis, static, compt, scopeId, parentDef)
	}
}

func (c *Context) registerDecl(rec *fileRecord, decl ast.Stmt, vis Visibility, static, compt bool, scopeId ids.ScopeId, parentDef ids.DefId) {
	switch d := decl.(type) {
	case *ast.ModuleDecl:
		name := c.internIdent(rec, d.Name)
		span := c.spanOf(rec, d.Name, d.Name)
		def := c.Defs.New(&Definition{Name: name, Visibility: vis, Span: span, Parent: parentDef, Tag: DefModule, Static: static, Compt: compt})
		inner := c.Scopes.NewNamed(scopeId, false)
		c.Defs.Get(def).ModuleScope = inner
		c.insertChecked(rec, scopeId, scope.Namespace, name, def, d.Name)
		c.registerStmts(rec, d.Inner, inner, def)

	case *ast.FuncDecl:
		name := c.internIdent(rec, d.Name)
		span := c.spanOf(rec, d.Name, d.Name)
		tag := DefFunction
		switch d.Kind {
		case ast.FuncMt:
			tag = DefMethod
		case ast.FuncDt:
			tag = DefDestructor
		}
		def := c.Defs.New(&Definition{Name: name, Visibility: vis, Span: span, Parent: parentDef, Tag: tag, Static: static, Compt: compt})
		c.insertChecked(rec, scopeId, scope.Function, name, def, d.Name)
		if d.Body != nil {
			c.registerFuncBody(rec, d.Body, scopeId, def)
		}

	case *ast.TypeDecl:
		name := c.internIdent(rec, d.Name)
		span := c.spanOf(rec, d.Name, d.Name)
		var tag DefTag
		registerNamespace := false
		switch d.Which {
		case ast.KindStruct:
			tag, registerNamespace = DefStruct, true
		case ast.KindVariant:
			tag, registerNamespace = DefVariant, true
		case ast.KindUnion:
			tag = DefUnion
		case ast.KindContract:
			tag = DefContract
		}
		def := c.Defs.New(&Definition{Name: name, Visibility: vis, Span: span, Parent: parentDef, Tag: tag, Static: static, Compt: compt})
		c.insertChecked(rec, scopeId, scope.Type, name, def, d.Name)
		if registerNamespace {
			c.insertChecked(rec, scopeId, scope.Namespace, name, def, d.Name)
		}
		if d.Which == ast.KindVariant {
			c.registerVariantFields(rec, d, vis, def)
		}

	case *ast.DeftypeDecl:
		name := c.internIdent(rec, d.Name)
		span := c.spanOf(rec, d.Name, d.Name)
		def := c.Defs.New(&Definition{Name: name, Visibility: vis, Span: span, Parent: parentDef, Tag: DefDeftype, Static: static, Compt: compt})
		c.insertChecked(rec, scopeId, scope.Type, name, def, d.Name)

	case *ast.VarDecl:
		name := c.internIdent(rec, d.Name)
		span := c.spanOf(rec, d.Name, d.Name)
		def := c.Defs.New(&Definition{Name: name, Visibility: vis, Span: span, Parent: parentDef, Tag: DefVariable, Static: static, Compt: compt})
		c.insertChecked(rec, scopeId, scope.Variable, name, def, d.Name)

	case *ast.ExternBlock:
		// Unlike ModuleDecl, an extern block names no symbol and so
		// cannot be inserted into any of the four named-scope category
		// maps; it still gets a Definition record of its own (spec §3
		// "extern block" payload variant) and its contents register
		// into the *enclosing* scope, not a fresh nested one, since
		// `extern { ... }` brings foreign declarations into view at the
		// point it appears rather than opening a namespace.
		span := c.spanOf(rec, d.Span().First, d.Span().Last)
		def := c.Defs.New(&Definition{Span: span, Parent: parentDef, Tag: DefExternBlock, Static: static, Compt: compt})
		c.registerStmts(rec, d.Inner, scopeId, def)

	default:
		// All other top-level kinds are skipped (spec §4.7 "All other
		// kinds are skipped at the top level").
	}
}

// registerVariantFields registers one DefVariantField child definition
// per field of a `variant` type declaration (spec §3 "variant field"
// payload variant), recorded on the parent variant's Definition.Fields
// rather than in any named-scope category map — variant fields aren't
// looked up through namespaces/variables/functions/types, only through
// their owning variant.
func (c *Context) registerVariantFields(rec *fileRecord, d *ast.TypeDecl, vis Visibility, variantDef ids.DefId) {
	parent := c.Defs.Get(variantDef)
	for _, f := range d.Fields {
		name := c.internIdent(rec, f.Name)
		span := c.spanOf(rec, f.Name, f.Name)
		fieldDef := c.Defs.New(&Definition{Name: name, Visibility: vis, Span: span, Parent: variantDef, Tag: DefVariantField})
		parent.Fields = append(parent.Fields, fieldDef)
	}
}

// insertChecked binds name in scopeId's cat map, diagnosing a
// redefinition with a chained original-definition-here note if the
// binding already exists (spec §4.7, §8 "Redefinition").
func (c *Context) insertChecked(rec *fileRecord, scopeId ids.ScopeId, cat scope.Category, name ids.SymbolId, def ids.DefId, nameTok lexer.Token) {
	named := c.Scopes.Named(scopeId)
	if existing, ok := named.LookupLocal(cat, name); ok {
		existingDef := c.Defs.Get(existing)
		span := c.spanOf(rec, nameTok, nameTok)
		d := diag.New(diag.CodeRedefinition, span, fmt.Sprintf("redefinition of %q", c.Interner.Text(name)))
		note := diag.New(diag.CodeOriginalDefinitionHere, existingDef.Span.toDiagSpan(), "original definition here")
		d.WithNote(note)
		rec.diags.Add(d)
		return
	}
	named.Insert(cat, name, def)
}

// registerFuncBody creates the anonymous scope owned by a function body
// (spec §4.5 "Anonymous scope: function body, control-flow block, etc.")
// and walks it for local variable declarations and `use` statements.
// Identifier resolution inside expressions is out of scope (spec.md
// Non-goals "expression evaluation, type checking"); this only builds
// the scope graph and the used-modules lists §4.5 calls for.
func (c *Context) registerFuncBody(rec *fileRecord, body *ast.Block, namedScope ids.ScopeId, parentDef ids.DefId) {
	anon := c.Scopes.NewAnonUnderNamed(namedScope)
	c.Defs.Get(parentDef).BodyScope = anon
	c.registerAnonStmts(rec, body.Statements, anon, namedScope, parentDef)
}

func (c *Context) registerAnonStmts(rec *fileRecord, stmts []ast.Stmt, anonId ids.AnonScopeId, namedScope ids.ScopeId, parentDef ids.DefId) {
	for _, stmt := range stmts {
		c.registerAnonStmt(rec, stmt, anonId, namedScope, parentDef)
	}
}

// registerAnonStmt registers one statement's declarations against
// anonId. Only `{ ... }` blocks, and the loop-header bindings of `for`,
// introduce a fresh nested anon scope (spec §4.5 "parent is either a
// named or an anonymous scope"); a brace-less if/while body shares its
// enclosing scope.
func (c *Context) registerAnonStmt(rec *fileRecord, stmt ast.Stmt, anonId ids.AnonScopeId, namedScope ids.ScopeId, parentDef ids.DefId) {
	switch s := stmt.(type) {
	case *ast.UseStmt:
		c.registerUse(rec, s, anonId, namedScope)

	case *ast.VarDecl:
		name := c.internIdent(rec, s.Name)
		span := c.spanOf(rec, s.Name, s.Name)
		def := c.Defs.New(&Definition{Name: name, Span: span, Parent: parentDef, Tag: DefVariable})
		c.Scopes.Anon(anonId).Insert(scope.Variable, name, def)

	case *ast.Block:
		child := c.Scopes.NewAnonUnderAnon(anonId)
		c.registerAnonStmts(rec, s.Statements, child, namedScope, parentDef)

	case *ast.If:
		c.registerAnonStmt(rec, s.Then, anonId, namedScope, parentDef)
		if s.Else != nil {
			c.registerAnonStmt(rec, s.Else, anonId, namedScope, parentDef)
		}

	case *ast.While:
		c.registerAnonStmt(rec, s.Body, anonId, namedScope, parentDef)

	case *ast.ForC:
		child := c.Scopes.NewAnonUnderAnon(anonId)
		if s.Init != nil {
			c.registerAnonStmt(rec, s.Init, child, namedScope, parentDef)
		}
		c.registerAnonStmt(rec, s.Body, child, namedScope, parentDef)

	case *ast.ForIn:
		child := c.Scopes.NewAnonUnderAnon(anonId)
		name := c.internIdent(rec, s.Pattern)
		span := c.spanOf(rec, s.Pattern, s.Pattern)
		def := c.Defs.New(&Definition{Name: name, Span: span, Parent: parentDef, Tag: DefVariable})
		c.Scopes.Anon(child).Insert(scope.Variable, name, def)
		c.registerAnonStmt(rec, s.Body, child, namedScope, parentDef)

	case *ast.Match:
		for _, arm := range s.Arms {
			c.registerAnonStmt(rec, arm.Body, anonId, namedScope, parentDef)
		}

	case *ast.StaticComptStmt:
		c.registerAnonStmt(rec, s.Decl, anonId, namedScope, parentDef)

	default:
		// Return/Break/Yield/ExprStmt/Empty/Invalid carry no
		// declarations to register.
	}
}

// registerUse resolves a `use` statement's `..`-qualified module path
// against namedScope's chain and, on success, adds the named module to
// anonId's used-modules list (spec §4.5 "add used module"). A path that
// doesn't resolve to a module is silently dropped: spec.md's closed
// diagnostic taxonomy (§7) has no code for an unresolved `use`, and
// identifier resolution is otherwise out of scope for this front end.
func (c *Context) registerUse(rec *fileRecord, u *ast.UseStmt, anonId ids.AnonScopeId, namedScope ids.ScopeId) {
	if len(u.Path) == 0 {
		return
	}
	name := c.internIdent(rec, u.Path[0])
	def, status := c.Scopes.LookupNamed(namedScope, scope.Namespace, name)
	if status != scope.Ok {
		return
	}
	for _, seg := range u.Path[1:] {
		d := c.Defs.Get(def)
		if d.Tag != DefModule {
			return
		}
		segName := c.internIdent(rec, seg)
		next, status := c.Scopes.LookupNamed(d.ModuleScope, scope.Namespace, segName)
		if status != scope.Ok {
			return
		}
		def = next
	}
	if c.Defs.Get(def).Tag != DefModule {
		return
	}
	c.Scopes.Anon(anonId).AddUsedModule(def)
}

func (s Span) toDiagSpan() diag.Span {
	return diag.Span{File: s.File, Start: s.Start, Length: s.Length, Line: s.Line, Column: s.Column}
}

func (c *Context) internIdent(rec *fileRecord, tok lexer.Token) ids.SymbolId {
	return c.Interner.InternString(tok.Text(rec.buf))
}

func (c *Context) spanOf(rec *fileRecord, first, last lexer.Token) Span {
	return Span{File: rec.buf.Path, Start: first.Start, Length: (last.Start + last.Length) - first.Start, Line: first.Line, Column: first.Column}
}
