package compiler

import "github.com/bearlang/bearc/internal/ids"

// DefTag distinguishes a Definition's payload variant (spec §3
// "Definition ... payload variant: module, struct, union, variant,
// variant field, contract, function/method/destructor, variable,
// deftype, extern block").
type DefTag uint8

const (
	DefModule DefTag = iota
	DefStruct
	DefUnion
	DefVariant
	DefContract
	DefFunction
	DefMethod
	DefDestructor
	DefVariable
	DefDeftype
	DefVariantField
	DefExternBlock
)

// Visibility mirrors ast.Visibility without importing the ast package
// into the definition model directly (kept a plain uint8 so this file
// has no dependency beyond ids).
type Visibility uint8

const (
	VisDefault Visibility = iota
	VisPub
	VisHid
)

// Definition is a registered, named entity at top-level or nested scope
// (spec §3 "Definition", GLOSSARY "Definition").
type Definition struct {
	Name       ids.SymbolId
	Visibility Visibility
	Span       Span
	Parent     ids.DefId // ids.None if top-level
	Tag        DefTag

	// ModuleScope is valid only when Tag == DefModule: the fresh named
	// scope this module owns (spec §4.7 "allocate a fresh named scope,
	// store the scope id in the definition's module payload").
	ModuleScope ids.ScopeId

	// BodyScope is set only when Tag is DefFunction/DefMethod/
	// DefDestructor and the declaration has a body: the anonymous scope
	// owned by that body (spec §4.5 "Anonymous scope: function body").
	// BodyScope.Valid() reports whether it was set, mirroring how
	// ModuleScope is keyed off Tag rather than a separate flag.
	BodyScope ids.AnonScopeId

	// Fields holds, only when Tag == DefVariant, the DefId of each
	// DefVariantField child definition registered for this variant's
	// field list (spec §3 "variant field" payload variant).
	Fields []ids.DefId

	// Static and Compt record a leading `static`/`compt` qualifier from
	// an enclosing ast.StaticComptStmt (spec §4.7
	// "static/compt-modifier-wrapping").
	Static bool
	Compt  bool
}

// ResolutionState tracks a definition's resolution progress (spec §3
// "Side tables track: resolution state").
type ResolutionState uint8

const (
	ResUnvisited ResolutionState = iota
	ResInProgress
	ResResolved
)

// Span locates a definition in its owning file; kept independent of
// ast.Span/lexer.Token so the definition table has no AST dependency.
type Span struct {
	File   string
	Start  int
	Length int
	Line   int
	Column int
}

// ModuleScope implements scope.ModuleScopeResolver by looking up a
// module definition's owned scope.
func (t *DefTable) ModuleScope(def ids.DefId) (ids.ScopeId, bool) {
	if !def.Valid() {
		return 0, false
	}
	d := t.defs.Get(def)
	if d.Tag != DefModule {
		return 0, false
	}
	return d.ModuleScope, true
}

// DefTable owns every definition minted during a compilation.
type DefTable struct {
	defs       *ids.Vector[ids.DefKind, *Definition]
	resolution *ids.Vector[ids.DefKind, ResolutionState]
	mentioned  *ids.Vector[ids.DefKind, bool]
}

// NewDefTable creates an empty definition table.
func NewDefTable() *DefTable {
	return &DefTable{
		defs:       ids.NewVector[ids.DefKind, *Definition](),
		resolution: ids.NewVector[ids.DefKind, ResolutionState](),
		mentioned:  ids.NewVector[ids.DefKind, bool](),
	}
}

// New registers a fresh definition and returns its id.
func (t *DefTable) New(d *Definition) ids.DefId {
	id := t.defs.Push(d)
	t.resolution.Push(ResUnvisited)
	t.mentioned.Push(false)
	return id
}

// Get returns the definition for id.
func (t *DefTable) Get(id ids.DefId) *Definition { return t.defs.Get(id) }

// SetResolution updates id's resolution state.
func (t *DefTable) SetResolution(id ids.DefId, s ResolutionState) { t.resolution.Set(id, s) }

// Resolution returns id's resolution state.
func (t *DefTable) Resolution(id ids.DefId) ResolutionState { return t.resolution.Get(id) }

// MarkMentioned records that id was referenced somewhere (for dead-code
// reporting, spec §3 "mention/use state").
func (t *DefTable) MarkMentioned(id ids.DefId) { t.mentioned.Set(id, true) }

// Mentioned reports whether id has been referenced.
func (t *DefTable) Mentioned(id ids.DefId) bool { return t.mentioned.Get(id) }
