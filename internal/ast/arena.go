package ast

import "reflect"

// Arena is a bump-allocating pool of T. Once the current chunk is
// exhausted it is moved onto a spill list and a fresh chunk is started,
// so every chunk stays owned by the Arena. Go's GC reclaims the
// backing chunks once the Arena itself is dropped, which stands in for
// the spec's "freed exactly once at context teardown" — there is no
// manual free step, only a single owner holding the Arena alive.
type Arena[T any] struct {
	chunkSize int
	current   []T
	spill     [][]T // exhausted chunks, oldest first
}

const defaultChunkSize = 256

// NewArena creates an arena using the default chunk size.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{chunkSize: defaultChunkSize}
}

// New allocates a zero-valued T and returns a pointer to it. The pointer
// is stable: the chunk backing it is never reallocated or moved once
// any node has been minted into it (spec §9 "moves are forbidden after
// any id has been minted into it").
func (a *Arena[T]) New() *T {
	if len(a.current) == cap(a.current) {
		if a.current != nil {
			a.spill = append(a.spill, a.current)
		}
		size := a.chunkSize
		if size < 1 {
			size = defaultChunkSize
		}
		a.current = make([]T, 0, size)
	}
	a.current = a.current[:len(a.current)+1]
	return &a.current[len(a.current)-1]
}

// ArenaSet is the parser's single AST arena: one Arena[T] per concrete
// node type, keyed lazily by reflect.Type the first time that type is
// allocated. This is what makes the parser's "token stream + AST arena"
// contract (spec §4.3) concrete — every node kind shares one owner
// without a hand-written field per node struct.
type ArenaSet struct {
	byType map[reflect.Type]any
}

// NewArenaSet creates an empty arena set, lazily populated on first use.
func NewArenaSet() *ArenaSet {
	return &ArenaSet{byType: make(map[reflect.Type]any)}
}

// New bump-allocates v's zero slot in the set's per-type arena for T,
// copies v into it, and returns the stable pointer. Call sites pass the
// fully-built node value; this is a drop-in replacement for a composite
// literal's `&ast.XxxNode{...}` address-of, routed through the arena.
func New[T any](set *ArenaSet, v T) *T {
	var zero T
	t := reflect.TypeOf(zero)
	a, ok := set.byType[t]
	if !ok {
		a = NewArena[T]()
		set.byType[t] = a
	}
	p := a.(*Arena[T]).New()
	*p = v
	return p
}
