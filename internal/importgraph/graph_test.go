package importgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bearlang/bearc/internal/ids"
)

// fakeResolver maps literal import paths directly to canonical paths,
// ignoring importerDir, for deterministic graph tests.
type fakeResolver struct {
	paths map[string]string
}

func (f fakeResolver) Resolve(literal, importerDir string) (string, bool) {
	p, ok := f.paths[literal]
	return p, ok
}

func TestLinearImportChain(t *testing.T) {
	resolver := fakeResolver{paths: map[string]string{
		"b.bear": "/proj/b.bear",
		"c.bear": "/proj/c.bear",
	}}
	set := NewSet(resolver)
	root := set.Intern("/proj/a.bear")

	imports := map[ids.FileId][]ImportRef{
		root: {{Literal: "b.bear"}},
	}

	walker := NewWalker(set)
	cycles := walker.Walk(root, func(id ids.FileId) []ImportRef {
		refs := imports[id]
		if set.CanonicalPath(id) == "/proj/b.bear" {
			refs = []ImportRef{{Literal: "c.bear"}}
		}
		return refs
	})

	require.Empty(t, cycles)
	require.Equal(t, Done, set.State(root))
}

func TestImportCycleDetected(t *testing.T) {
	resolver := fakeResolver{paths: map[string]string{
		"b.bear": "/proj/b.bear",
		"a.bear": "/proj/a.bear",
	}}
	set := NewSet(resolver)
	a := set.Intern("/proj/a.bear")

	walker := NewWalker(set)
	cycles := walker.Walk(a, func(id ids.FileId) []ImportRef {
		switch set.CanonicalPath(id) {
		case "/proj/a.bear":
			return []ImportRef{{Literal: "b.bear"}}
		case "/proj/b.bear":
			return []ImportRef{{Literal: "a.bear"}}
		}
		return nil
	})

	require.Len(t, cycles, 1)
	require.Equal(t, a, cycles[0].Chain[0])
	require.Equal(t, a, cycles[0].Chain[len(cycles[0].Chain)-1])
}

func TestNotFoundImportLeavesNoEdge(t *testing.T) {
	resolver := fakeResolver{paths: map[string]string{}}
	set := NewSet(resolver)
	root := set.Intern("/proj/a.bear")

	walker := NewWalker(set)
	cycles := walker.Walk(root, func(id ids.FileId) []ImportRef {
		return []ImportRef{{Literal: "missing.bear"}}
	})

	require.Empty(t, cycles)
	require.Empty(t, set.Importees(root))
}

func TestImporteeOrderPreserved(t *testing.T) {
	resolver := fakeResolver{paths: map[string]string{
		"x.bear": "/proj/x.bear",
		"y.bear": "/proj/y.bear",
	}}
	set := NewSet(resolver)
	root := set.Intern("/proj/a.bear")

	walker := NewWalker(set)
	walker.Walk(root, func(id ids.FileId) []ImportRef {
		if set.CanonicalPath(id) == "/proj/a.bear" {
			return []ImportRef{{Literal: "y.bear"}, {Literal: "x.bear"}}
		}
		return nil
	})

	importees := set.Importees(root)
	require.Len(t, importees, 2)
	require.Equal(t, "/proj/y.bear", set.CanonicalPath(importees[0]))
	require.Equal(t, "/proj/x.bear", set.CanonicalPath(importees[1]))
}
