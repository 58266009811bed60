package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bearlang/bearc/internal/ast"
	"github.com/bearlang/bearc/internal/diag"
	"github.com/bearlang/bearc/internal/lexer"
	"github.com/bearlang/bearc/internal/source"
)

func parse(t *testing.T, src string) (*ast.File, *diag.List) {
	t.Helper()
	buf := source.NewBuffer("t.bear", []byte(src))
	toks := lexer.Lex(buf)
	var diags diag.List
	diags.File = "t.bear"
	p := New("t.bear", toks, &diags)
	return p.Parse(), &diags
}

// shape reduces an AST node to its kind name and children's shapes,
// dropping spans and raw tokens so two parses that differ only in
// whitespace or source offsets compare equal.
func shape(n any) any {
	switch v := n.(type) {
	case *ast.File:
		return shapeList(v.Statements)
	case *ast.Block:
		return map[string]any{"Block": shapeList(v.Statements)}
	case *ast.VarDecl:
		return map[string]any{"VarDecl": []any{shape(v.VarType), shape(v.Init)}}
	case *ast.ExprStmt:
		return map[string]any{"ExprStmt": shape(v.X)}
	case *ast.FuncDecl:
		params := make([]any, len(v.Params))
		for i, p := range v.Params {
			params[i] = shape(p.ParamType)
		}
		return map[string]any{"FuncDecl": []any{params, shape(v.ReturnType), shape(v.Body)}}
	case *ast.Return:
		return map[string]any{"Return": shape(v.Value)}
	case *ast.Binary:
		return map[string]any{"Binary": []any{v.Op.Kind, shape(v.Lhs), shape(v.Rhs)}}
	case *ast.Literal:
		return map[string]any{"Literal": v.Tok.Kind}
	case *ast.IdentPath:
		return "IdentPath"
	case *ast.BaseType:
		return "BaseType"
	case nil:
		return nil
	default:
		return nil
	}
}

func shapeList(stmts []ast.Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = shape(s)
	}
	return out
}

// Two parses of semantically identical but differently formatted source
// must produce the same AST shape.
func TestShapeStableAcrossFormatting(t *testing.T) {
	a, diagsA := parse(t, "fn add(i32 a,i32 b)->i32{return a+b*2;}")
	b, diagsB := parse(t, `
		fn add(i32 a, i32 b) -> i32 {
			return a + b * 2;
		}
	`)
	if diagsA.Len() != 0 || diagsB.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v / %v", diagsA.Items(), diagsB.Items())
	}
	if diff := cmp.Diff(shape(a), shape(b)); diff != "" {
		t.Fatalf("AST shape mismatch (-a +b):\n%s", diff)
	}
}

func TestParseVarDecl(t *testing.T) {
	f, diags := parse(t, "i32 x = 1;")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	if len(f.Statements) != 1 {
		t.Fatalf("want 1 statement, got %d", len(f.Statements))
	}
	vd, ok := f.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("want *ast.VarDecl, got %T", f.Statements[0])
	}
	if vd.Init == nil {
		t.Fatalf("want initializer")
	}
}

func TestParseFuncDecl(t *testing.T) {
	f, diags := parse(t, "fn add(i32 a, i32 b) -> i32 { return a + b; }")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	fd, ok := f.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("want *ast.FuncDecl, got %T", f.Statements[0])
	}
	if len(fd.Params) != 2 || fd.ReturnType == nil || fd.Body == nil {
		t.Fatalf("malformed func decl: %+v", fd)
	}
	if len(fd.Body.Statements) != 1 {
		t.Fatalf("want 1 body statement, got %d", len(fd.Body.Statements))
	}
}

func TestBinaryPrecedence(t *testing.T) {
	f, diags := parse(t, "i32 x = 1 + 2 * 3;")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	vd := f.Statements[0].(*ast.VarDecl)
	bin, ok := vd.Init.(*ast.Binary)
	if !ok {
		t.Fatalf("want *ast.Binary, got %T", vd.Init)
	}
	if bin.Op.Kind.Name() != "+" {
		t.Fatalf("want top-level '+', got %q", bin.Op.Kind.Name())
	}
	rhs, ok := bin.Rhs.(*ast.Binary)
	if !ok || rhs.Op.Kind.Name() != "*" {
		t.Fatalf("want '*' on the right, got %+v", bin.Rhs)
	}
}

func TestRightAssociativeAssignment(t *testing.T) {
	f, diags := parse(t, "fn f() { a = b = c; }")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	fd := f.Statements[0].(*ast.FuncDecl)
	es := fd.Body.Statements[0].(*ast.ExprStmt)
	outer, ok := es.X.(*ast.CopyAssign)
	if !ok {
		t.Fatalf("want *ast.CopyAssign, got %T", es.X)
	}
	if _, ok := outer.Rhs.(*ast.CopyAssign); !ok {
		t.Fatalf("want nested assignment on the right, got %T", outer.Rhs)
	}
}

func TestIfElse(t *testing.T) {
	f, diags := parse(t, "fn f() { if (x) { y; } else { z; } }")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	fd := f.Statements[0].(*ast.FuncDecl)
	ifStmt := fd.Body.Statements[0].(*ast.If)
	if ifStmt.Else == nil {
		t.Fatalf("want else branch")
	}
}

func TestForInVsForC(t *testing.T) {
	f, diags := parse(t, "fn f() { for (x in xs) { y; } }")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	fd := f.Statements[0].(*ast.FuncDecl)
	if _, ok := fd.Body.Statements[0].(*ast.ForIn); !ok {
		t.Fatalf("want *ast.ForIn, got %T", fd.Body.Statements[0])
	}
}

func TestForCStyle(t *testing.T) {
	f, diags := parse(t, "fn f() { for (i32 i = 0; i < 10; i++) { y; } }")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	fd := f.Statements[0].(*ast.FuncDecl)
	if _, ok := fd.Body.Statements[0].(*ast.ForC); !ok {
		t.Fatalf("want *ast.ForC, got %T", fd.Body.Statements[0])
	}
}

func TestBreakOutsideLoopDiagnosed(t *testing.T) {
	_, diags := parse(t, "fn f() { break; }")
	if diags.ErrorCount() == 0 {
		t.Fatalf("want a diagnostic for break outside loop")
	}
}

func TestBreakInsideLoopClean(t *testing.T) {
	_, diags := parse(t, "fn f() { while (true) { break; } }")
	if diags.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
}

func TestStructDecl(t *testing.T) {
	f, diags := parse(t, "struct Point { i32 x; i32 y; }")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	td, ok := f.Statements[0].(*ast.TypeDecl)
	if !ok || td.Which != ast.KindStruct {
		t.Fatalf("want struct TypeDecl, got %+v", f.Statements[0])
	}
	if len(td.Fields) != 2 {
		t.Fatalf("want 2 fields, got %d", len(td.Fields))
	}
}

func TestReferenceAndPointerTypes(t *testing.T) {
	f, diags := parse(t, "fn f(i32 &x, i32 *y) {}")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	fd := f.Statements[0].(*ast.FuncDecl)
	if _, ok := fd.Params[0].ParamType.(*ast.RefOrPtr); !ok {
		t.Fatalf("want reference type, got %T", fd.Params[0].ParamType)
	}
	if _, ok := fd.Params[1].ParamType.(*ast.RefOrPtr); !ok {
		t.Fatalf("want pointer type, got %T", fd.Params[1].ParamType)
	}
}

func TestSliceType(t *testing.T) {
	f, diags := parse(t, "fn f(i32[] xs) {}")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	fd := f.Statements[0].(*ast.FuncDecl)
	if _, ok := fd.Params[0].ParamType.(*ast.SliceType); !ok {
		t.Fatalf("want slice type, got %T", fd.Params[0].ParamType)
	}
}

func TestMismatchedParenRecovers(t *testing.T) {
	f, diags := parse(t, "fn f( { return 1; }")
	if diags.Len() != 1 {
		t.Fatalf("want exactly one diagnostic, got %d: %v", diags.Len(), diags.Items())
	}
	if diags.Items()[0].Code != diag.CodeExpectedToken {
		t.Fatalf("want CodeExpectedToken, got %v", diags.Items()[0].Code)
	}
	if len(f.Statements) == 0 {
		t.Fatalf("want parser to still produce a top-level statement")
	}
}

func TestImportAndModule(t *testing.T) {
	f, diags := parse(t, `import "other.bear"; mod foo { fn bar() {} }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	if _, ok := f.Statements[0].(*ast.Import); !ok {
		t.Fatalf("want *ast.Import, got %T", f.Statements[0])
	}
	md, ok := f.Statements[1].(*ast.ModuleDecl)
	if !ok {
		t.Fatalf("want *ast.ModuleDecl, got %T", f.Statements[1])
	}
	if len(md.Inner) != 1 {
		t.Fatalf("want 1 inner statement, got %d", len(md.Inner))
	}
}

func TestVisibilityModifier(t *testing.T) {
	f, diags := parse(t, "pub fn f() {}")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	vs, ok := f.Statements[0].(*ast.VisibilityStmt)
	if !ok || vs.Vis != ast.VisPub {
		t.Fatalf("want pub VisibilityStmt, got %+v", f.Statements[0])
	}
}

func TestUseStmtQualifiedPath(t *testing.T) {
	f, diags := parse(t, "fn f() { use Alpha..Beta; }")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	fd := f.Statements[0].(*ast.FuncDecl)
	use, ok := fd.Body.Statements[0].(*ast.UseStmt)
	if !ok {
		t.Fatalf("want *ast.UseStmt, got %T", fd.Body.Statements[0])
	}
	if len(use.Path) != 2 {
		t.Fatalf("want a 2-segment path, got %d", len(use.Path))
	}
}

func TestUnterminatedStringLiteralDiagnosed(t *testing.T) {
	_, diags := parse(t, "i32 x = \"abc;\n")
	if diags.Len() == 0 {
		t.Fatalf("want a diagnostic for the unterminated literal")
	}
	if diags.Items()[0].Code != diag.CodeUnterminatedLiteral {
		t.Fatalf("want CodeUnterminatedLiteral, got %v", diags.Items()[0].Code)
	}
}

func TestStaticComptModifierWrapsDecl(t *testing.T) {
	f, diags := parse(t, "static compt i32 x = 1;")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	sc, ok := f.Statements[0].(*ast.StaticComptStmt)
	if !ok || !sc.Static || !sc.Compt {
		t.Fatalf("want static+compt StaticComptStmt, got %+v", f.Statements[0])
	}
	if _, ok := sc.Decl.(*ast.VarDecl); !ok {
		t.Fatalf("want wrapped *ast.VarDecl, got %T", sc.Decl)
	}
}

func TestDuplicateStaticQualifierDiagnosed(t *testing.T) {
	_, diags := parse(t, "static static i32 x = 1;")
	if diags.ErrorCount() == 0 && diags.Len() == 0 {
		t.Fatalf("want a diagnostic for the duplicate 'static' qualifier")
	}
	if diags.Items()[0].Code != diag.CodeRedundantQualifier {
		t.Fatalf("want CodeRedundantQualifier, got %v", diags.Items()[0].Code)
	}
}

func TestExternBlock(t *testing.T) {
	f, diags := parse(t, "extern { fn puts(str s) -> i32; }")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	eb, ok := f.Statements[0].(*ast.ExternBlock)
	if !ok {
		t.Fatalf("want *ast.ExternBlock, got %T", f.Statements[0])
	}
	if len(eb.Inner) != 1 {
		t.Fatalf("want 1 inner statement, got %d", len(eb.Inner))
	}
	fd, ok := eb.Inner[0].(*ast.FuncDecl)
	if !ok || fd.Body != nil {
		t.Fatalf("want a bodyless prototype FuncDecl, got %+v", eb.Inner[0])
	}
}

func TestVariantFields(t *testing.T) {
	f, diags := parse(t, "variant Shape { i32 radius; i32 side; }")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	td, ok := f.Statements[0].(*ast.TypeDecl)
	if !ok || td.Which != ast.KindVariant {
		t.Fatalf("want variant TypeDecl, got %+v", f.Statements[0])
	}
	if len(td.Fields) != 2 {
		t.Fatalf("want 2 fields, got %d", len(td.Fields))
	}
}

func TestIllegalByteDiagnosedAsIndeterminateToken(t *testing.T) {
	_, diags := parse(t, "i32 x = `;")
	if diags.Len() == 0 {
		t.Fatalf("want a diagnostic for the illegal byte")
	}
	if diags.Items()[0].Code != diag.CodeIndeterminateToken {
		t.Fatalf("want CodeIndeterminateToken, got %v", diags.Items()[0].Code)
	}
}
