package main

import (
	"fmt"
	"strings"

	"github.com/bearlang/bearc/internal/ast"
	"github.com/bearlang/bearc/internal/source"
)

// printStmts is a minimal AST dumper for --pretty-print. The real
// pretty-printer is an external collaborator per spec §1; this is just
// enough to make --pretty-print runnable end to end.
func printStmts(buf *source.Buffer, stmts []ast.Stmt, depth int) {
	for _, s := range stmts {
		printStmt(buf, s, depth)
	}
}

func indent(depth int) string { return strings.Repeat("  ", depth) }

func printStmt(buf *source.Buffer, s ast.Stmt, depth int) {
	pad := indent(depth)
	switch n := s.(type) {
	case *ast.ModuleDecl:
		fmt.Printf("%smod %s\n", pad, n.Name.Text(buf))
		printStmts(buf, n.Inner, depth+1)
	case *ast.Import:
		fmt.Printf("%simport %s\n", pad, n.Path.Text(buf))
	case *ast.UseStmt:
		segs := make([]string, len(n.Path))
		for i, tok := range n.Path {
			segs[i] = tok.Text(buf)
		}
		fmt.Printf("%suse %s\n", pad, strings.Join(segs, ".."))
	case *ast.FuncDecl:
		fmt.Printf("%sfunc %s (%d params)\n", pad, n.Name.Text(buf), len(n.Params))
		if n.Body != nil {
			printStmts(buf, n.Body.Statements, depth+1)
		}
	case *ast.VarDecl:
		fmt.Printf("%svar %s\n", pad, n.Name.Text(buf))
	case *ast.TypeDecl:
		fmt.Printf("%stype %s (%d fields)\n", pad, n.Name.Text(buf), len(n.Fields))
	case *ast.DeftypeDecl:
		fmt.Printf("%sdeftype %s\n", pad, n.Name.Text(buf))
	case *ast.Block:
		fmt.Printf("%sblock\n", pad)
		printStmts(buf, n.Statements, depth+1)
	case *ast.If:
		fmt.Printf("%sif\n", pad)
		printStmt(buf, n.Then, depth+1)
		if n.Else != nil {
			fmt.Printf("%selse\n", pad)
			printStmt(buf, n.Else, depth+1)
		}
	case *ast.While:
		fmt.Printf("%swhile\n", pad)
		printStmt(buf, n.Body, depth+1)
	case *ast.ForC:
		fmt.Printf("%sfor\n", pad)
		printStmt(buf, n.Body, depth+1)
	case *ast.ForIn:
		fmt.Printf("%sfor-in %s\n", pad, n.Pattern.Text(buf))
		printStmt(buf, n.Body, depth+1)
	case *ast.Return:
		fmt.Printf("%sreturn\n", pad)
	case *ast.Break:
		fmt.Printf("%sbreak\n", pad)
	case *ast.Yield:
		fmt.Printf("%syield\n", pad)
	case *ast.Match:
		fmt.Printf("%smatch (%d arms)\n", pad, len(n.Arms))
	case *ast.VisibilityStmt:
		vis := "pub"
		if n.Vis == ast.VisHid {
			vis = "hid"
		}
		fmt.Printf("%s%s\n", pad, vis)
		printStmt(buf, n.Decl, depth)
	case *ast.StaticComptStmt:
		var mods []string
		if n.Static {
			mods = append(mods, "static")
		}
		if n.Compt {
			mods = append(mods, "compt")
		}
		fmt.Printf("%s%s\n", pad, strings.Join(mods, " "))
		printStmt(buf, n.Decl, depth)
	case *ast.ExternBlock:
		fmt.Printf("%sextern\n", pad)
		printStmts(buf, n.Inner, depth+1)
	case *ast.MarkPreamble:
		fmt.Printf("%smark-preamble (%d marks)\n", pad, len(n.Marks))
	case *ast.MarkDecl:
		fmt.Printf("%smark %s\n", pad, n.Name.Text(buf))
	case *ast.Empty:
		fmt.Printf("%s;\n", pad)
	case *ast.Invalid:
		fmt.Printf("%s<invalid>\n", pad)
	default:
		fmt.Printf("%s<unknown stmt %T>\n", pad, s)
	}
}
