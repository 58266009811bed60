// Package main implements the bearc command-line entry point: flag
// parsing, file I/O, and console output are all "external collaborator"
// concerns the core front end never touches directly (spec §1).
//
// Grounded in the teacher's `lang/ya/main.go` driver shape, rebuilt on
// cobra the way playbymail-ottomap and bufbuild-buf build their root
// commands.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bearlang/bearc/internal/compiler"
	"github.com/bearlang/bearc/internal/compilerconfig"
	"github.com/bearlang/bearc/internal/diag"
	"github.com/bearlang/bearc/internal/ids"
	"github.com/bearlang/bearc/internal/importresolve"
	"github.com/bearlang/bearc/internal/telemetry"
	"github.com/bearlang/bearc/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	var cfg compilerconfig.Config
	var printVersion bool

	root := &cobra.Command{
		Use:           "bearc [root-file]",
		Short:         "bearc compiles the front end of a bear-lang source tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if printVersion {
				fmt.Println(version.Short())
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("exactly one root source file is required")
			}
			cfg.RootFile = args[0]
			return compileAndReport(cfg)
		},
	}

	root.Flags().BoolVarP(&printVersion, "version", "v", false, "print the version and exit")
	root.Flags().BoolVar(&cfg.TokenTable, "token-table", false, "print each file's token table after lexing")
	root.Flags().BoolVar(&cfg.PrettyPrint, "pretty-print", false, "print each file's AST")
	root.Flags().BoolVar(&cfg.Silent, "silent", false, "suppress diagnostic output")
	root.Flags().BoolVar(&cfg.ListFiles, "list-files", false, "print each loaded file with its importees")
	root.Flags().StringArrayVar(&cfg.SearchPaths, "import-path", nil, "additional import search path (repeatable)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// exitCode is set by compileAndReport since cobra's RunE error path
// can't distinguish "diagnostics reported" from "fatal error" on its
// own (spec §6 "Exit code 0 on success; non-zero on any fatal error").
var exitCode int

func compileAndReport(cfg compilerconfig.Config) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getwd: %w", err)
	}
	searchPaths := append([]string{cwd}, cfg.SearchPaths...)

	logger := zap.NewNop()
	if !cfg.Silent {
		if l, err := zap.NewProduction(); err == nil {
			logger = l
		}
	}
	tracer := telemetry.NewTracer(logger)
	defer tracer.Sync()

	resolver := importresolve.NewFS(searchPaths)
	ctx := compiler.NewContext(resolver, osLoader{}, tracer)

	res, err := ctx.Compile(cfg.RootFile)
	if err != nil {
		exitCode = 1
		return err
	}

	fatal := false
	for _, id := range res.Files {
		if cfg.TokenTable {
			printTokenTable(ctx, id)
		}
		if cfg.PrettyPrint {
			printAST(ctx, id)
		}
	}

	if cfg.ListFiles {
		printFileList(ctx, res.Files)
	}

	if !cfg.Silent {
		for _, id := range res.Files {
			dl := res.Diagnostics[id]
			if dl == nil || dl.Len() == 0 {
				continue
			}
			buf := ctx.Buffer(id)
			for _, d := range dl.Items() {
				diag.Render(os.Stdout, d, buf, true)
			}
			diag.Summary(os.Stdout, dl)
			if dl.ErrorCount() > 0 {
				fatal = true
			}
		}
	} else {
		for _, id := range res.Files {
			if dl := res.Diagnostics[id]; dl != nil && dl.ErrorCount() > 0 {
				fatal = true
			}
		}
	}

	if fatal {
		exitCode = 1
	}
	return nil
}

type osLoader struct{}

func (osLoader) Load(canonicalPath string) ([]byte, error) { return os.ReadFile(canonicalPath) }

func printTokenTable(ctx *compiler.Context, id ids.FileId) {
	toks := ctx.Tokens(id)
	buf := ctx.Buffer(id)
	fmt.Printf("-- tokens: %s --\n", ctx.CanonicalPath(id))
	for _, tok := range toks {
		fmt.Printf("%-20s %4d:%-4d %q\n", tok.Kind.Name(), tok.Line+1, tok.Column+1, tok.Text(buf))
	}
}

func printAST(ctx *compiler.Context, id ids.FileId) {
	file := ctx.AST(id)
	if file == nil {
		return
	}
	fmt.Printf("-- ast: %s --\n", ctx.CanonicalPath(id))
	printStmts(ctx.Buffer(id), file.Statements, 0)
}

func printFileList(ctx *compiler.Context, files []ids.FileId) {
	for _, id := range files {
		buf := ctx.Buffer(id)
		size := "?"
		if buf != nil {
			size = humanize.Bytes(uint64(len(buf.Bytes)))
		}
		fmt.Printf("%s (%s)\n", ctx.CanonicalPath(id), size)
		for _, imp := range ctx.Importees(id) {
			fmt.Printf("  imports %s\n", ctx.CanonicalPath(imp))
		}
	}
}
