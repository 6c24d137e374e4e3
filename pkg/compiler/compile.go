package compiler

import "fmt"

// Backend selects which code generator Compile routes the optimised AST
// through.
type Backend int

const (
	BackendARM64 Backend = iota
	BackendLLVM
)

func (b Backend) String() string {
	switch b {
	case BackendARM64:
		return "arm64"
	case BackendLLVM:
		return "llvm"
	default:
		return "unknown"
	}
}

// Options controls one Compile call: which lexer mode to read source in,
// which back end to target, and which optional passes to run.
type Options struct {
	Mode    Mode
	Backend Backend

	// Fold runs the constant-folding optimiser. The pipeline's other
	// passes (lex, parse, analyse, generate) are always run; Fold and
	// EliminateDeadFunctions (which depends on it) are the only stages a
	// caller can skip, since skipping them changes no program's observable
	// behavior.
	Fold bool

	// EliminateDeadFunctions additionally drops unreachable top-level
	// functions after folding. Never run if Fold is false, since dead-
	// function elimination needs a fully-built AST to trace call graphs
	// and gains nothing from running before folding.
	EliminateDeadFunctions bool
}

// Result carries every intermediate artifact Compile produced, so a
// driver can implement -dump-tokens/-dump-ast without re-running passes.
type Result struct {
	Tokens   []Token
	AST      *Program
	Optimized *Program
	Output   string
}

// Compile runs the full pipeline over src: Lex, Parse, Analyze, then
// (only when opts.Fold is set) Optimize and, if also requested,
// EliminateDeadFunctions, then Generate against the selected back end. It stops and returns the
// first error encountered, matching the first-error-and-abort model of
// every pass — there is no error recovery anywhere in this pipeline.
func Compile(src string, opts Options) (*Result, error) {
	tokens, err := Lex(src, opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}

	prog, err := Parse(tokens, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if err := Analyze(prog); err != nil {
		return nil, fmt.Errorf("semantic error: %w", err)
	}

	optimized := prog
	if opts.Fold {
		optimized = Optimize(prog)
		if opts.EliminateDeadFunctions {
			optimized = EliminateDeadFunctions(optimized)
		}
	}

	var out string
	switch opts.Backend {
	case BackendARM64:
		out, err = GenerateARM64(optimized)
	case BackendLLVM:
		out, err = GenerateLLVM(optimized)
	default:
		return nil, fmt.Errorf("compiler: Compile: unknown backend %v", opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("codegen error: %w", err)
	}

	return &Result{
		Tokens:    tokens,
		AST:       prog,
		Optimized: optimized,
		Output:    out,
	}, nil
}
