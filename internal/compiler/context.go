// Package compiler is the orchestrator that owns every long-lived table
// (spec §2 "the context") and drives the pipeline: resolve the root
// file, lex and parse each file reached through its import graph,
// register top-level definitions across all of them, and collect
// diagnostics per file (spec §4.7, §2 bullet 9).
//
// Grounded in the teacher's `lang/ya/main.go` driver (a single
// entry point wiring the pipeline stages together) and
// `lang/ysem/analyzer.go` (maps keyed by kind, error accumulation),
// generalized from the teacher's multi-process pass boundary into a
// single in-process context per SPEC_FULL.md's AMBIENT STACK section.
package compiler

import (
	"fmt"
	"path/filepath"

	"github.com/bearlang/bearc/internal/ast"
	"github.com/bearlang/bearc/internal/diag"
	"github.com/bearlang/bearc/internal/ids"
	"github.com/bearlang/bearc/internal/importgraph"
	"github.com/bearlang/bearc/internal/importresolve"
	"github.com/bearlang/bearc/internal/lexer"
	"github.com/bearlang/bearc/internal/parser"
	"github.com/bearlang/bearc/internal/scope"
	"github.com/bearlang/bearc/internal/source"
	"github.com/bearlang/bearc/internal/telemetry"
)

// SourceLoader reads a canonical file path's bytes. The core never
// touches the file system directly (spec §1 "the core consumes only ...
// a raw byte buffer plus file name"); a default os.ReadFile-backed
// loader lives in cmd/bearc.
type SourceLoader interface {
	Load(canonicalPath string) ([]byte, error)
}

// fileRecord holds everything the context has built for one file.
type fileRecord struct {
	buf   *source.Buffer
	toks  []lexer.Token
	ast   *ast.File
	diags *diag.List
}

// Context is the top-level, per-compilation orchestrator.
type Context struct {
	Interner *ids.Interner
	Defs     *DefTable
	Scopes   *scope.Table
	Files    *importgraph.Set

	loader   SourceLoader
	resolver importresolve.Resolver
	tracer   *telemetry.Tracer

	records map[ids.FileId]*fileRecord
	root    ids.FileId

	topLevelScope ids.ScopeId
}

// NewContext creates an empty orchestrator context. resolver resolves
// import literals to canonical paths (internal/importresolve); loader
// reads a canonical path's bytes; tracer receives pipeline trace events
// (pass telemetry.NewTracer(zap.NewNop()) for a silent run).
func NewContext(resolver importresolve.Resolver, loader SourceLoader, tracer *telemetry.Tracer) *Context {
	scopes := scope.NewTable()
	c := &Context{
		Interner: ids.NewInterner(),
		Defs:     NewDefTable(),
		Scopes:   scopes,
		Files:    importgraph.NewSet(resolver),
		loader:   loader,
		resolver: resolver,
		tracer:   tracer,
		records:  make(map[ids.FileId]*fileRecord),
	}
	c.topLevelScope = scopes.NewNamed(0, true)
	return c
}

// AST returns the parsed AST for a loaded file, or nil if it was never
// reached.
func (c *Context) AST(id ids.FileId) *ast.File {
	if rec, ok := c.records[id]; ok {
		return rec.ast
	}
	return nil
}

// Tokens returns the lexed token stream for a loaded file, or nil.
func (c *Context) Tokens(id ids.FileId) []lexer.Token {
	if rec, ok := c.records[id]; ok {
		return rec.toks
	}
	return nil
}

// Importees returns id's import graph successors, in first-encountered
// order (SPEC_FULL.md supplemented feature #3).
func (c *Context) Importees(id ids.FileId) []ids.FileId { return c.Files.Importees(id) }

// CanonicalPath returns the canonical path a file id was interned under.
func (c *Context) CanonicalPath(id ids.FileId) string { return c.Files.CanonicalPath(id) }

// Buffer returns the source buffer for a loaded file, or nil.
func (c *Context) Buffer(id ids.FileId) *source.Buffer {
	if rec, ok := c.records[id]; ok {
		return rec.buf
	}
	return nil
}

// TopLevelScope returns the single named scope shared by every file's
// top-level statements (spec §2 "multi-file definition map").
func (c *Context) TopLevelScope() ids.ScopeId { return c.topLevelScope }

// CompileResult is the outcome of compiling from a root file.
type CompileResult struct {
	Root        ids.FileId
	Files       []ids.FileId // discovery order: root first, then each importee the first time it was reached
	Diagnostics map[ids.FileId]*diag.List
	Cycles      []importgraph.Cycle
}

// Compile resolves rootPath as an absolute or CWD-relative path, lexes
// and parses it and every file it (transitively) imports, then runs
// top-level registration over all of them (spec §4.6, §4.7).
func (c *Context) Compile(rootPath string) (*CompileResult, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("compiler: resolving root path %q: %w", rootPath, err)
	}
	abs = filepath.Clean(abs)

	root := c.Files.Intern(abs)
	c.root = root

	var order []ids.FileId
	walker := importgraph.NewWalker(c.Files)
	cycles := walker.Walk(root, func(id ids.FileId) []importgraph.ImportRef {
		rec, err := c.load(id)
		order = append(order, id)
		if err != nil {
			d := diag.New(diag.CodeImportedFileDoesNotExist, diag.Span{File: c.Files.CanonicalPath(id)},
				fmt.Sprintf("cannot read %q: %v", c.Files.CanonicalPath(id), err))
			c.diagsFor(id).Add(d)
			return nil
		}
		return c.importRefs(rec)
	})

	for _, cyc := range cycles {
		var chain []string
		for _, f := range cyc.Chain {
			chain = append(chain, c.Files.CanonicalPath(f))
		}
		if c.tracer != nil {
			c.tracer.CycleDetected(chain)
		}
		origin := cyc.Chain[0]
		d := diag.New(diag.CodeCircularImport, diag.Span{File: c.Files.CanonicalPath(origin)},
			"circular import: "+joinChain(chain))
		c.diagsFor(origin).Add(d)
	}

	for _, id := range order {
		rec := c.records[id]
		if rec == nil || rec.ast == nil {
			continue
		}
		c.registerTopLevel(rec, c.topLevelScope, 0)
	}

	diagnostics := make(map[ids.FileId]*diag.List, len(c.records))
	for id, rec := range c.records {
		diagnostics[id] = rec.diags
	}

	return &CompileResult{Root: root, Files: order, Diagnostics: diagnostics, Cycles: cycles}, nil
}

func joinChain(chain []string) string {
	out := ""
	for i, c := range chain {
		if i > 0 {
			out += " -> "
		}
		out += c
	}
	return out
}

func (c *Context) diagsFor(id ids.FileId) *diag.List {
	rec, ok := c.records[id]
	if !ok {
		rec = &fileRecord{diags: &diag.List{File: c.Files.CanonicalPath(id)}}
		c.records[id] = rec
	}
	return rec.diags
}

// load lexes and parses file id, caching the result.
func (c *Context) load(id ids.FileId) (*fileRecord, error) {
	if rec, ok := c.records[id]; ok {
		return rec, nil
	}
	path := c.Files.CanonicalPath(id)
	bytes, err := c.loader.Load(path)
	if err != nil {
		rec := &fileRecord{diags: &diag.List{File: path}}
		c.records[id] = rec
		return rec, err
	}
	buf := source.NewBuffer(path, bytes)
	toks := lexer.Lex(buf)
	diags := &diag.List{File: path}
	p := parser.New(path, toks, diags)
	file := p.Parse()
	rec := &fileRecord{buf: buf, toks: toks, ast: file, diags: diags}
	c.records[id] = rec
	return rec, nil
}

// importRefs scans rec's top-level statements for import statements,
// returning the literal paths to resolve relative to rec's directory.
func (c *Context) importRefs(rec *fileRecord) []importgraph.ImportRef {
	dir := filepath.Dir(rec.buf.Path)
	var refs []importgraph.ImportRef
	for _, stmt := range rec.ast.Statements {
		imp, ok := stmt.(*ast.Import)
		if !ok {
			continue
		}
		literal := imp.Path.Text(rec.buf)
		if len(literal) >= 2 {
			literal = literal[1 : len(literal)-1]
		}
		if canonical, ok := c.resolver.Resolve(literal, dir); ok {
			if c.tracer != nil {
				c.tracer.FileResolved(literal, canonical)
			}
		} else {
			if c.tracer != nil {
				c.tracer.FileNotFound(literal, rec.buf.Path)
			}
			tok := imp.Path
			rec.diags.Add(diag.New(diag.CodeImportedFileDoesNotExist, diag.Span{
				File: rec.buf.Path, Start: tok.Start, Length: tok.Length, Line: tok.Line, Column: tok.Column,
			}, fmt.Sprintf("imported file %q does not exist", literal)))
		}
		refs = append(refs, importgraph.ImportRef{Literal: literal, ImporterDir: dir})
	}
	return refs
}
