package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// VarInfo is what the symbol table remembers about one declared variable:
// its Type, its array size if it was declared as an array, and (set only
// while a code generator is walking the AST) its storage address.
type VarInfo struct {
	Type      Type
	ArraySize *int // nil unless the declaration used `[N]`

	// Offset/Label are populated by a code generator, never by the
	// semantic analyser (symbol tables are strictly per-pass; nothing
	// here escapes the pass that built it).
	Offset int    // frame-relative byte offset, AArch64 backend
	Label  string // global symbol name (AArch64: name; LLVM: @name), or an LLVM local's alloca pointer (%name)
}

// FuncInfo is what the symbol table remembers about one function
// signature: its return type and parameter types, in declaration order.
type FuncInfo struct {
	ReturnType Type
	ArgTypes   []Type
}

// SymbolTable is a scope stack of name -> VarInfo, plus a flat map of
// name -> FuncInfo seeded with the built-in print(int) -> void. It exists
// only for the duration of one pass (semantic analysis, or one code
// generator's walk) and never escapes that pass.
type SymbolTable struct {
	scopes    []map[string]VarInfo
	functions map[string]FuncInfo
}

// NewSymbolTable returns a table with one (global) scope already pushed
// and the built-in print seeded into the function table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		scopes:    []map[string]VarInfo{make(map[string]VarInfo)},
		functions: map[string]FuncInfo{"print": {ReturnType: VoidType(), ArgTypes: []Type{IntType()}}},
	}
}

func (s *SymbolTable) PushScope() { s.scopes = append(s.scopes, make(map[string]VarInfo)) }

func (s *SymbolTable) PopScope() {
	if len(s.scopes) == 0 {
		panic("compiler: PopScope called on an empty scope stack")
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// DeclareVar inserts name into the current (top) scope. It reports
// (true) if name was already present in that same scope — per the no-
// shadowing-in-the-same-scope rule; shadowing an outer scope is legal and
// simply inserts a new entry that later Lookups find first.
func (s *SymbolTable) DeclareVar(name string, info VarInfo) (alreadyDeclared bool) {
	top := s.scopes[len(s.scopes)-1]
	if _, exists := top[name]; exists {
		return true
	}
	top[name] = info
	return false
}

// Lookup searches scopes from innermost to outermost.
func (s *SymbolTable) Lookup(name string) (VarInfo, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if info, ok := s.scopes[i][name]; ok {
			return info, true
		}
	}
	return VarInfo{}, false
}

func (s *SymbolTable) DeclareFunc(name string, info FuncInfo) (alreadyDeclared bool) {
	if _, exists := s.functions[name]; exists {
		return true
	}
	s.functions[name] = info
	return false
}

func (s *SymbolTable) LookupFunc(name string) (FuncInfo, bool) {
	info, ok := s.functions[name]
	return info, ok
}

// String returns a deterministically ordered dump of every scope and every
// declared function, used by the driver's -dump-symtable flag (see
// AnalyzeWithSymbols).
func (s *SymbolTable) String() string {
	var sb strings.Builder
	for i, scope := range s.scopes {
		fmt.Fprintf(&sb, "Scope %d:\n", i)
		names := make([]string, 0, len(scope))
		for n := range scope {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(&sb, "  %-16s %+v\n", n, scope[n])
		}
	}
	names := make([]string, 0, len(s.functions))
	for n := range s.functions {
		names = append(names, n)
	}
	sort.Strings(names)
	sb.WriteString("Functions:\n")
	for _, n := range names {
		fmt.Fprintf(&sb, "  %-16s %+v\n", n, s.functions[n])
	}
	return sb.String()
}
