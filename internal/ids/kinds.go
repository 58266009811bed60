package ids

// ScopeKind marks ids addressing named scopes (spec §3 "Id tables":
// scope).
type ScopeKind struct{}

func (ScopeKind) kindMarker() {}

// ScopeId addresses a named scope.
type ScopeId = Id[ScopeKind]

// AnonScopeKind marks ids addressing anonymous scopes (spec §3 "Id
// tables": anon-scope).
type AnonScopeKind struct{}

func (AnonScopeKind) kindMarker() {}

// AnonScopeId addresses an anonymous scope.
type AnonScopeId = Id[AnonScopeKind]

// DefKind marks ids addressing definitions (spec §3 "Id tables":
// definition).
type DefKind struct{}

func (DefKind) kindMarker() {}

// DefId addresses a definition.
type DefId = Id[DefKind]

// FileKind marks ids addressing source files (spec §3 "Id tables":
// file).
type FileKind struct{}

func (FileKind) kindMarker() {}

// FileId addresses a loaded file.
type FileId = Id[FileKind]
