// Package importgraph builds the multi-file import graph of spec §4.6:
// a deduplicated file set keyed by canonical path, forward/reverse edge
// lists, and depth-first cycle detection with an in-progress stack.
//
// Grounded in `original_source/bearc/src/compiler/hir/file.hpp`'s
// `file_load_state` enum (UNVISITING/IN_PROGRESS/DONE) and the teacher's
// `lang/ya/main.go` driver, which walks a file list and shells out per
// file — generalized here into an in-process graph walk.
package importgraph

import (
	"github.com/bearlang/bearc/internal/ids"
	"github.com/bearlang/bearc/internal/importresolve"
)

// LoadState is a file's traversal state during DFS (spec §4.6
// "unvisited, in-progress, done").
type LoadState uint8

const (
	Unvisited LoadState = iota
	InProgress
	Done
)

// fileEntry is one node in the graph.
type fileEntry struct {
	CanonicalPath string
	State         LoadState
	Forward       []ids.FileId // importer -> importees
	Reverse       []ids.FileId // importee -> importers
}

// Set is the deduplicated, canonical-path-keyed file graph.
type Set struct {
	files    *ids.Vector[ids.FileKind, *fileEntry]
	byPath   map[string]ids.FileId
	resolver importresolve.Resolver
}

// NewSet creates an empty file set using resolver to turn import
// literals into canonical paths.
func NewSet(resolver importresolve.Resolver) *Set {
	return &Set{
		files:    ids.NewVector[ids.FileKind, *fileEntry](),
		byPath:   make(map[string]ids.FileId),
		resolver: resolver,
	}
}

// Intern returns the file id for canonicalPath, minting a fresh entry on
// first sight (spec §4.6 "deduplicated by canonical path").
func (s *Set) Intern(canonicalPath string) ids.FileId {
	if id, ok := s.byPath[canonicalPath]; ok {
		return id
	}
	id := s.files.Push(&fileEntry{CanonicalPath: canonicalPath})
	s.byPath[canonicalPath] = id
	return id
}

// CanonicalPath returns the path an id was interned under.
func (s *Set) CanonicalPath(id ids.FileId) string { return s.files.Get(id).CanonicalPath }

// State returns a file's current load state.
func (s *Set) State(id ids.FileId) LoadState { return s.files.Get(id).State }

// AddImport records that importer imports importee, resolved from a
// literal import-path string and the importer's directory. It returns
// the importee's file id and whether resolution succeeded; on failure
// the caller attaches an `imported-file-does-not-exist` diagnostic to
// the import statement's path token (spec §4.6 "Not-found").
func (s *Set) AddImport(importer ids.FileId, literal, importerDir string) (ids.FileId, bool) {
	canonical, ok := s.resolver.Resolve(literal, importerDir)
	if !ok {
		return 0, false
	}
	importee := s.Intern(canonical)
	imp := s.files.Get(importer)
	imp.Forward = append(imp.Forward, importee)
	imee := s.files.Get(importee)
	imee.Reverse = append(imee.Reverse, importer)
	return importee, true
}

// Importees returns the files id imports, in first-encountered order
// (SPEC_FULL.md supplemented feature #3, `--list-files` ordering).
func (s *Set) Importees(id ids.FileId) []ids.FileId { return s.files.Get(id).Forward }

// Importers returns the files that import id.
func (s *Set) Importers(id ids.FileId) []ids.FileId { return s.files.Get(id).Reverse }

// Cycle describes one detected import cycle, as the chain of files from
// the cycle's origin back to itself (spec §4.6 "naming each file on the
// stack back to the cycle origin").
type Cycle struct {
	Chain []ids.FileId // Chain[0] == Chain[len-1], the repeated origin
}

// Walker drives a depth-first traversal over the graph, invoking a
// visit callback once per newly discovered file (to lex/parse it and
// scan its imports) and reporting any cycles encountered.
type Walker struct {
	set     *Set
	onStack map[ids.FileId]bool
	stack   []ids.FileId
	cycles  []Cycle
}

// NewWalker creates a walker over set.
func NewWalker(set *Set) *Walker {
	return &Walker{set: set, onStack: make(map[ids.FileId]bool)}
}

// Visit is called once per file the first time the walker reaches it
// (root first, then its importees in import order); it must return the
// literal import paths the file's AST names, paired with the importer's
// directory, so the walker can resolve and recurse into them.
type Visit func(id ids.FileId) []ImportRef

// ImportRef names one import statement's literal path and the
// directory it should be resolved relative to.
type ImportRef struct {
	Literal     string
	ImporterDir string
}

// Walk runs the DFS from root, calling visit on each newly discovered
// file exactly once (spec §4.6 "Graph construction", "Cycle detection").
func (w *Walker) Walk(root ids.FileId, visit Visit) []Cycle {
	w.walk(root, visit)
	return w.cycles
}

func (w *Walker) walk(id ids.FileId, visit Visit) {
	entry := w.set.files.Get(id)
	entry.State = InProgress
	w.onStack[id] = true
	w.stack = append(w.stack, id)

	for _, ref := range visit(id) {
		importee, ok := w.set.AddImport(id, ref.Literal, ref.ImporterDir)
		if !ok {
			continue // not-found diagnostic is the caller's responsibility
		}
		switch w.set.State(importee) {
		case Unvisited:
			w.walk(importee, visit)
		case InProgress:
			w.recordCycle(importee)
		case Done:
			// already fully explored along a different path; nothing to do
		}
	}

	entry.State = Done
	w.onStack[id] = false
	w.stack = w.stack[:len(w.stack)-1]
}

// recordCycle builds the chain from origin's position on the stack back
// to the current top (spec §4.6 "prints a cycle diagnostic naming each
// file on the stack back to the cycle origin").
func (w *Walker) recordCycle(origin ids.FileId) {
	start := 0
	for i, f := range w.stack {
		if f == origin {
			start = i
			break
		}
	}
	chain := make([]ids.FileId, 0, len(w.stack)-start+1)
	chain = append(chain, w.stack[start:]...)
	chain = append(chain, origin)
	w.cycles = append(w.cycles, Cycle{Chain: chain})
}
