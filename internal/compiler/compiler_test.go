package compiler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bearlang/bearc/internal/scope"
	"github.com/bearlang/bearc/internal/telemetry"
)

// memFS is an in-memory resolver + loader keyed by canonical path, for
// deterministic multi-file compiler tests without touching disk.
type memFS struct {
	files map[string]string
}

func newMemFS(files map[string]string) *memFS { return &memFS{files: files} }

func (m *memFS) Resolve(literal, importerDir string) (string, bool) {
	if _, ok := m.files[literal]; ok {
		return literal, true
	}
	return "", false
}

func (m *memFS) Load(canonicalPath string) ([]byte, error) {
	src, ok := m.files[canonicalPath]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", canonicalPath)
	}
	return []byte(src), nil
}

func newTestContext(fs *memFS) *Context {
	return NewContext(fs, fs, telemetry.NewTracer(zap.NewNop()))
}

func TestCompileSingleFileRegistersFunction(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/root.bear": "fn main() {}",
	})
	ctx := newTestContext(fs)
	res, err := ctx.Compile("/root.bear")
	require.NoError(t, err)
	require.Empty(t, res.Cycles)

	for _, d := range res.Diagnostics {
		require.Zero(t, d.Len())
	}

	name := ctx.Interner.InternString("main")
	_, status := ctx.Scopes.LookupNamed(ctx.TopLevelScope(), scope.Function, name)
	require.Equal(t, scope.Ok, status)
}

func TestCompileModuleNestsScope(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/root.bear": "mod Alpha { fn greet() {} }",
	})
	ctx := newTestContext(fs)
	_, err := ctx.Compile("/root.bear")
	require.NoError(t, err)

	modName := ctx.Interner.InternString("Alpha")
	defID, status := ctx.Scopes.LookupNamed(ctx.TopLevelScope(), scope.Namespace, modName)
	require.Equal(t, scope.Ok, status)

	def := ctx.Defs.Get(defID)
	require.Equal(t, DefModule, def.Tag)

	fnName := ctx.Interner.InternString("greet")
	_, status = ctx.Scopes.LookupNamed(def.ModuleScope, scope.Function, fnName)
	require.Equal(t, scope.Ok, status)
}

func TestCompileUseAddsUsedModule(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/root.bear": "mod Alpha { fn helper() {} } fn f() { use Alpha; }",
	})
	ctx := newTestContext(fs)
	_, err := ctx.Compile("/root.bear")
	require.NoError(t, err)

	fName := ctx.Interner.InternString("f")
	fID, status := ctx.Scopes.LookupNamed(ctx.TopLevelScope(), scope.Function, fName)
	require.Equal(t, scope.Ok, status)

	fDef := ctx.Defs.Get(fID)
	require.True(t, fDef.BodyScope.Valid())

	helperName := ctx.Interner.InternString("helper")
	_, status = ctx.Scopes.LookupAnon(fDef.BodyScope, scope.Function, helperName, ctx.Defs)
	require.Equal(t, scope.Ok, status, "helper should resolve through the used-modules list")
}

func TestCompileRedefinitionDiagnosed(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/root.bear": "fn f() {} fn f() {}",
	})
	ctx := newTestContext(fs)
	res, err := ctx.Compile("/root.bear")
	require.NoError(t, err)

	diags := res.Diagnostics[res.Root]
	require.Equal(t, 1, diags.ErrorCount())
	require.Equal(t, "redefinition of \"f\"", diags.Items()[0].Message)
	require.NotNil(t, diags.Items()[0].Next)
}

func TestCompileExternBlockRegistersIntoEnclosingScope(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/root.bear": `extern { fn puts(str s) -> i32; }`,
	})
	ctx := newTestContext(fs)
	_, err := ctx.Compile("/root.bear")
	require.NoError(t, err)

	name := ctx.Interner.InternString("puts")
	defID, status := ctx.Scopes.LookupNamed(ctx.TopLevelScope(), scope.Function, name)
	require.Equal(t, scope.Ok, status, "extern block contents should register into the enclosing scope")

	def := ctx.Defs.Get(defID)
	require.Equal(t, DefFunction, def.Tag)
	parent := ctx.Defs.Get(def.Parent)
	require.Equal(t, DefExternBlock, parent.Tag)
}

func TestCompileVariantFieldsRegistered(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/root.bear": `variant Shape { i32 radius; i32 side; }`,
	})
	ctx := newTestContext(fs)
	_, err := ctx.Compile("/root.bear")
	require.NoError(t, err)

	name := ctx.Interner.InternString("Shape")
	defID, status := ctx.Scopes.LookupNamed(ctx.TopLevelScope(), scope.Type, name)
	require.Equal(t, scope.Ok, status)

	def := ctx.Defs.Get(defID)
	require.Equal(t, DefVariant, def.Tag)
	require.Len(t, def.Fields, 2)
	for _, fieldID := range def.Fields {
		field := ctx.Defs.Get(fieldID)
		require.Equal(t, DefVariantField, field.Tag)
		require.Equal(t, defID, field.Parent)
	}
}

func TestCompileStaticComptFlagsPropagate(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/root.bear": `static compt i32 x = 1;`,
	})
	ctx := newTestContext(fs)
	_, err := ctx.Compile("/root.bear")
	require.NoError(t, err)

	name := ctx.Interner.InternString("x")
	defID, status := ctx.Scopes.LookupNamed(ctx.TopLevelScope(), scope.Variable, name)
	require.Equal(t, scope.Ok, status)

	def := ctx.Defs.Get(defID)
	require.True(t, def.Static)
	require.True(t, def.Compt)
}

func TestCompileImportNotFoundDiagnosed(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/root.bear": `import "missing.bear";`,
	})
	ctx := newTestContext(fs)
	res, err := ctx.Compile("/root.bear")
	require.NoError(t, err)

	diags := res.Diagnostics[res.Root]
	require.Equal(t, 1, diags.ErrorCount())
}

func TestCompileCircularImportDetected(t *testing.T) {
	fs := newMemFS(map[string]string{
		"/a.bear": `import "/b.bear";`,
		"/b.bear": `import "/a.bear";`,
	})
	ctx := newTestContext(fs)
	res, err := ctx.Compile("/a.bear")
	require.NoError(t, err)
	require.Len(t, res.Cycles, 1)
}
