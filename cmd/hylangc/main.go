// Command hylangc reads a HyLang source file and lowers it to either
// AArch64 assembly text or LLVM IR text.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"hylangc/pkg/compiler"
	"hylangc/pkg/utils"
)

func main() {
	backendFlag := flag.String("backend", "arm64", "target backend: arm64 or llvm")
	indentFlag := flag.Bool("indent", false, "lex source in indentation-sensitive mode instead of brace-delimited mode")
	outFlag := flag.String("out", "", "output path; defaults to <input>.s (arm64) or <input>.ll (llvm)")
	dumpTokens := flag.Bool("dump-tokens", false, "print the token stream and exit before parsing")
	dumpAST := flag.Bool("dump-ast", false, "print the parsed AST and exit before semantic analysis")
	dumpCallGraph := flag.Bool("dump-callgraph", false, "print the program's static call graph as Graphviz DOT and exit before semantic analysis")
	dumpSymTable := flag.Bool("dump-symtable", false, "run semantic analysis, print its resulting symbol table, and exit")
	fold := flag.Bool("fold", true, "run the constant-folding optimiser")
	noDCE := flag.Bool("no-dce", false, "with -fold, skip the dead-function-elimination pass that normally runs alongside it")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hylangc [flags] <input.hy>")
		os.Exit(1)
	}

	backend, err := parseBackend(*backendFlag)
	if err != nil {
		log.Fatalf("hylangc: %v", err)
	}

	inputPath := flag.Arg(0)
	fullPath, _, err := utils.GetPathInfo(inputPath)
	if err != nil {
		log.Fatalf("hylangc: failed to resolve %q: %v", inputPath, err)
	}

	src, err := os.ReadFile(fullPath)
	if err != nil {
		log.Fatalf("hylangc: failed to read %q: %v", fullPath, err)
	}

	mode := compiler.ModeBraces
	if *indentFlag {
		mode = compiler.ModeIndent
	}

	if *dumpTokens {
		tokens, err := compiler.Lex(string(src), mode)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		for _, tok := range tokens {
			fmt.Println(tok)
		}
		return
	}

	if *dumpAST {
		tokens, err := compiler.Lex(string(src), mode)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		prog, err := compiler.Parse(tokens, string(src))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Print(compiler.NewPrinter().PrintProgram(prog))
		return
	}

	if *dumpCallGraph {
		tokens, err := compiler.Lex(string(src), mode)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		prog, err := compiler.Parse(tokens, string(src))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Print(compiler.BuildCallGraph(prog).DOT("calls"))
		return
	}

	if *dumpSymTable {
		tokens, err := compiler.Lex(string(src), mode)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		prog, err := compiler.Parse(tokens, string(src))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		syms, err := compiler.AnalyzeWithSymbols(prog)
		if err != nil {
			fmt.Fprintln(os.Stderr, classifyError(err))
			os.Exit(1)
		}
		fmt.Print(syms.String())
		return
	}

	result, err := compiler.Compile(string(src), compiler.Options{
		Mode:                   mode,
		Backend:                backend,
		Fold:                   *fold,
		EliminateDeadFunctions: *fold && !*noDCE,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, classifyError(err))
		os.Exit(1)
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = defaultOutputPath(fullPath, backend)
	}
	if err := os.WriteFile(outPath, []byte(result.Output), 0644); err != nil {
		log.Fatalf("hylangc: failed to write %q: %v", outPath, err)
	}
}

func parseBackend(name string) (compiler.Backend, error) {
	switch name {
	case "arm64":
		return compiler.BackendARM64, nil
	case "llvm":
		return compiler.BackendLLVM, nil
	default:
		return 0, fmt.Errorf("unknown backend %q (want arm64 or llvm)", name)
	}
}

func defaultOutputPath(inputPath string, backend compiler.Backend) string {
	ext := ".s"
	if backend == compiler.BackendLLVM {
		ext = ".ll"
	}
	base := filepath.Base(inputPath)
	if dot := lastDot(base); dot >= 0 {
		base = base[:dot]
	}
	return filepath.Join(filepath.Dir(inputPath), base+ext)
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// classifyError prefixes a pipeline error the way the driver's stderr
// output distinguishes semantic diagnostics from every earlier stage, so
// scripts invoking hylangc can grep for "Semantic Error:" specifically.
func classifyError(err error) string {
	var semErr *compiler.SemanticError
	if errors.As(err, &semErr) {
		return fmt.Sprintf("Semantic Error: %s", semErr)
	}
	return fmt.Sprintf("Error: %s", err)
}
