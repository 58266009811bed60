// Package scope implements the named/anonymous scope model and lookup
// rules of spec §4.5: four-category named scopes, two-category anonymous
// scopes with a lazily-allocated "used module" list, parent-chain
// lookup with shadowing, and the collision-aware lookup status used by
// the top-level registration pass (§4.7).
//
// Grounded in the teacher's `lang/yparse/symtab.go` (category maps keyed
// by name, parent-chain shadowing lookup) generalized from YAPL's single
// flat symbol table to the spec's four-category named / two-category
// anonymous split, and in `original_source/bearc/src/compiler/hir/scope.hpp`
// for the exact category set and the used-modules collision rule.
package scope

import "github.com/bearlang/bearc/internal/ids"

// Category indexes a named scope's four maps (spec §3 "Named scope: four
// category maps").
type Category uint8

const (
	Namespace Category = iota
	Variable
	Function
	Type
	numCategories
)

// Named is a scope introduced by a module, struct, or function
// declaration list (spec GLOSSARY "Named scope").
type Named struct {
	categories [numCategories]map[ids.SymbolId]ids.DefId
	Parent     ids.ScopeId // ids.None if this is the top-level scope
	TopLevel   bool
}

func newNamed() *Named {
	n := &Named{}
	for i := range n.categories {
		n.categories[i] = make(map[ids.SymbolId]ids.DefId)
	}
	return n
}

// Insert binds name to def in category, overwriting any prior binding in
// this exact scope (the caller is responsible for diagnosing
// redefinitions before calling Insert again — see spec §4.7).
func (n *Named) Insert(cat Category, name ids.SymbolId, def ids.DefId) {
	n.categories[cat][name] = def
}

// LookupLocal searches cat's map in this scope only, without walking parents.
func (n *Named) LookupLocal(cat Category, name ids.SymbolId) (ids.DefId, bool) {
	d, ok := n.categories[cat][name]
	return d, ok
}

// Anon is a function-body or control-flow-block scope (spec GLOSSARY
// "Anonymous scope"): only types and variables, plus a lazy used-modules
// list. Exactly one of ParentNamed/ParentAnon is populated (spec §9
// "Scope parent alternation").
type Anon struct {
	types     map[ids.SymbolId]ids.DefId
	variables map[ids.SymbolId]ids.DefId

	ParentIsNamed bool
	ParentNamed   ids.ScopeId
	ParentAnon    ids.AnonScopeId

	used []ids.DefId // lazily allocated "use <module>" list
}

func newAnon() *Anon {
	return &Anon{
		types:     make(map[ids.SymbolId]ids.DefId),
		variables: make(map[ids.SymbolId]ids.DefId),
	}
}

func (a *Anon) mapFor(cat Category) map[ids.SymbolId]ids.DefId {
	if cat == Type {
		return a.types
	}
	return a.variables
}

// Insert binds name in cat (Type or Variable only) within this scope.
func (a *Anon) Insert(cat Category, name ids.SymbolId, def ids.DefId) {
	a.mapFor(cat)[name] = def
}

// AddUsedModule appends def (a module definition) to this scope's used
// list, lazily allocating it on first use (spec §4.5 "add used module").
func (a *Anon) AddUsedModule(def ids.DefId) {
	a.used = append(a.used, def)
}

// Status is the result of a scope lookup (spec §4.5 "Look-up result").
type Status uint8

const (
	Ok Status = iota
	InvalidScopeSearched
	Collision
	NotFound
)

// Table owns every named and anonymous scope minted during a
// compilation, addressed by ids.ScopeId / ids.AnonScopeId.
type Table struct {
	named *ids.Vector[ids.ScopeKind, *Named]
	anon  *ids.Vector[ids.AnonScopeKind, *Anon]
}

// NewTable creates an empty scope table.
func NewTable() *Table {
	return &Table{
		named: ids.NewVector[ids.ScopeKind, *Named](),
		anon:  ids.NewVector[ids.AnonScopeKind, *Anon](),
	}
}

// NewNamed allocates a fresh named scope with the given parent (ids.None
// if top-level) and returns its id.
func (t *Table) NewNamed(parent ids.ScopeId, topLevel bool) ids.ScopeId {
	n := newNamed()
	n.Parent = parent
	n.TopLevel = topLevel
	id := t.named.Push(n)
	if debugChecks && n.Parent == id {
		panic("scope: named scope is its own parent")
	}
	return id
}

// NewAnonUnderNamed allocates a fresh anonymous scope whose parent is a
// named scope.
func (t *Table) NewAnonUnderNamed(parent ids.ScopeId) ids.AnonScopeId {
	a := newAnon()
	a.ParentIsNamed = true
	a.ParentNamed = parent
	return t.anon.Push(a)
}

// NewAnonUnderAnon allocates a fresh anonymous scope nested inside
// another anonymous scope.
func (t *Table) NewAnonUnderAnon(parent ids.AnonScopeId) ids.AnonScopeId {
	a := newAnon()
	a.ParentIsNamed = false
	a.ParentAnon = parent
	id := t.anon.Push(a)
	if debugChecks && !a.ParentIsNamed && a.ParentAnon == id {
		panic("scope: anonymous scope is its own parent")
	}
	return id
}

// Named returns the named scope for id.
func (t *Table) Named(id ids.ScopeId) *Named { return t.named.Get(id) }

// Anon returns the anonymous scope for id.
func (t *Table) Anon(id ids.AnonScopeId) *Anon { return t.anon.Get(id) }

// ModuleScopeResolver maps a module definition to the named scope it
// owns, so the used-modules search can query each used module's
// namespace without the scope package depending on the definition
// table's concrete type (kept in internal/compiler to avoid an import
// cycle).
type ModuleScopeResolver interface {
	ModuleScope(def ids.DefId) (ids.ScopeId, bool)
}

// LookupNamed walks id's parent chain looking for name in cat, stopping
// at the first hit (spec §4.5 "Lookup walks the parent chain, stopping
// at the first hit (shadowing is permitted)").
func (t *Table) LookupNamed(id ids.ScopeId, cat Category, name ids.SymbolId) (ids.DefId, Status) {
	if !id.Valid() {
		return 0, InvalidScopeSearched
	}
	cur := id
	for cur.Valid() {
		n := t.Named(cur)
		if d, ok := n.LookupLocal(cat, name); ok {
			return d, Ok
		}
		cur = n.Parent
	}
	return 0, NotFound
}

// LookupAnon implements the anonymous-scope lookup rule (spec §4.5
// "Operations on anonymous scope"): a local hit short-circuits; failing
// that, the parent chain is walked (alternating anonymous -> named at
// most once, then staying named, per spec §9); if the walk reaches the
// top without a local hit, the *originating* scope's used-modules list
// is searched, with two or more distinct hits reported as Collision.
func (t *Table) LookupAnon(id ids.AnonScopeId, cat Category, name ids.SymbolId, resolver ModuleScopeResolver) (ids.DefId, Status) {
	if !id.Valid() {
		return 0, InvalidScopeSearched
	}
	origin := t.Anon(id)

	if d, ok := origin.mapFor(cat)[name]; ok {
		return d, Ok
	}

	if d, status, found := t.walkAnonParent(id, cat, name); found {
		return d, status
	}

	return t.searchUsedModules(origin, cat, name, resolver)
}

func (t *Table) walkAnonParent(id ids.AnonScopeId, cat Category, name ids.SymbolId) (ids.DefId, Status, bool) {
	a := t.Anon(id)
	if !a.ParentIsNamed {
		if !a.ParentAnon.Valid() {
			return 0, NotFound, false
		}
		parent := t.Anon(a.ParentAnon)
		if d, ok := parent.mapFor(cat)[name]; ok {
			return d, Ok, true
		}
		return t.walkAnonParent(a.ParentAnon, cat, name)
	}
	if !a.ParentNamed.Valid() {
		return 0, NotFound, false
	}
	d, status := t.LookupNamed(a.ParentNamed, cat, name)
	if status == Ok {
		return d, Ok, true
	}
	return 0, NotFound, false
}

func (t *Table) searchUsedModules(origin *Anon, cat Category, name ids.SymbolId, resolver ModuleScopeResolver) (ids.DefId, Status) {
	var hits []ids.DefId
	for _, mod := range origin.used {
		modScope, ok := resolver.ModuleScope(mod)
		if !ok {
			continue
		}
		if d, status := t.LookupNamed(modScope, cat, name); status == Ok {
			hits = append(hits, d)
		}
	}
	switch len(hits) {
	case 0:
		return 0, NotFound
	case 1:
		return hits[0], Ok
	default:
		distinct := map[ids.DefId]bool{}
		for _, h := range hits {
			distinct[h] = true
		}
		if len(distinct) == 1 {
			return hits[0], Ok
		}
		return 0, Collision
	}
}
