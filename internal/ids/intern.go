package ids

import "github.com/bearlang/bearc/internal/token"

// SymbolKind marks Id[SymbolKind] as a symbol id.
type SymbolKind struct{}

func (SymbolKind) kindMarker() {}

// SymbolId addresses an interned byte sequence.
type SymbolId = Id[SymbolKind]

// Interner implements byte-identity interning (spec §4.4): distinct byte
// sequences receive distinct ids, identical sequences share one.
type Interner struct {
	bytes []string // bytes[0] unused, mirrors the reserved-zero convention
	index map[string]SymbolId
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{
		bytes: []string{""},
		index: make(map[string]SymbolId),
	}
}

// Intern returns the existing id for b, or mints and returns a new one.
// Interning is stable for the lifetime of a compilation (spec §3
// invariant).
func (in *Interner) Intern(b []byte) SymbolId {
	return in.intern(string(b))
}

// InternString is Intern for an already-materialized string, avoiding a
// redundant copy when the caller already owns one.
func (in *Interner) InternString(s string) SymbolId {
	return in.intern(s)
}

func (in *Interner) intern(s string) SymbolId {
	if id, ok := in.index[s]; ok {
		return id
	}
	in.bytes = append(in.bytes, s)
	id := SymbolId(len(in.bytes) - 1)
	in.index[s] = id
	return id
}

// Text returns the interned bytes for id as a string.
func (in *Interner) Text(id SymbolId) string {
	return in.bytes[int(id)]
}

// InternIdentifierToken interns the text of an identifier token. It
// panics if tok is not an identifier, per spec §4.4's
// intern-of-identifier-token contract.
func (in *Interner) InternIdentifierToken(tok Token) SymbolId {
	if tok.Kind != token.Identifier {
		panic("InternIdentifierToken: token is not an identifier")
	}
	return in.intern(tok.Text)
}

// InternStringLiteralToken interns the text of a string-literal token
// with its outer quote bytes stripped.
func (in *Interner) InternStringLiteralToken(tok Token) SymbolId {
	if tok.Kind != token.StrLit {
		panic("InternStringLiteralToken: token is not a string literal")
	}
	text := tok.Text
	if len(text) >= 2 {
		text = text[1 : len(text)-1]
	}
	return in.intern(text)
}

// Token is the minimal view of a lexer token the interner needs, so this
// package does not import the lexer; callers pass their real token
// values in via a thin adapter at the call site.
type Token struct {
	Kind token.Kind
	Text string
}
