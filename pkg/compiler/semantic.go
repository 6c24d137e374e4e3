package compiler

import "fmt"

// Analyze walks prog once: gathering function declarations (so forward
// references and recursion are legal), then checking every statement and
// expression's scoping and typing rules. It either returns silently (the
// AST is left untouched) or returns the first SemanticError encountered —
// there is no error recovery, matching the fatal, first-error-and-stop
// model of every other pass.
func Analyze(prog *Program) error {
	_, err := AnalyzeWithSymbols(prog)
	return err
}

// AnalyzeWithSymbols runs Analyze's checks and also returns the symbol
// table as it stood once the walk finished, for callers that want to
// inspect what got declared (the driver's -dump-symtable flag) rather
// than just whether the program is well-formed. Every per-function and
// per-block scope analysis pushed is popped again by the time this
// returns, so the table holds only the global scope and the function
// table — the same two collections every other pass treats as the
// program's static, non-nested declarations.
func AnalyzeWithSymbols(prog *Program) (*SymbolTable, error) {
	a := &analyzer{syms: NewSymbolTable()}
	err := a.run(prog)
	return a.syms, err
}

type analyzer struct {
	syms        *SymbolTable
	returnType  Type // enclosing function's declared return type
	inFunction  bool
}

func (a *analyzer) run(prog *Program) error {
	// 1. Declaration gathering: all functions are visible before any body
	// is checked.
	for _, fn := range prog.Functions {
		argTypes := make([]Type, len(fn.Args))
		for i, arg := range fn.Args {
			argTypes[i] = arg.Type
		}
		if a.syms.DeclareFunc(fn.Name, FuncInfo{ReturnType: fn.ReturnType, ArgTypes: argTypes}) {
			return &SemanticError{Line: fn.Pos().Line, Col: fn.Pos().Col, Msg: fmt.Sprintf("duplicate function declaration %q", fn.Name)}
		}
	}

	// 2. Top-level statements, with no enclosing function: Return must be
	// Int.
	a.inFunction = false
	for _, s := range prog.Globals {
		if err := a.checkStmt(s); err != nil {
			return err
		}
	}

	// 3. Function bodies.
	for _, fn := range prog.Functions {
		if err := a.checkFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) checkFunction(fn *Function) error {
	a.syms.PushScope()
	defer a.syms.PopScope()

	for _, arg := range fn.Args {
		if arg.Type.Base == TVoid {
			return &SemanticError{Line: fn.Pos().Line, Col: fn.Pos().Col, Msg: fmt.Sprintf("parameter %q of function %q cannot be declared void", arg.Name, fn.Name)}
		}
		if a.syms.DeclareVar(arg.Name, VarInfo{Type: arg.Type}) {
			return &SemanticError{Line: fn.Pos().Line, Col: fn.Pos().Col, Msg: fmt.Sprintf("duplicate parameter name %q in function %q", arg.Name, fn.Name)}
		}
	}

	prevRet, prevIn := a.returnType, a.inFunction
	a.returnType, a.inFunction = fn.ReturnType, true
	defer func() { a.returnType, a.inFunction = prevRet, prevIn }()

	return a.checkScopeBody(fn.Body)
}

// checkScopeBody checks the statements of a Scope without pushing a new
// scope of its own — used when the caller (checkFunction, a For's head)
// already pushed the scope these statements live in.
func (a *analyzer) checkScopeBody(sc *Scope) error {
	for _, s := range sc.Stmts {
		if err := a.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) checkScope(sc *Scope) error {
	a.syms.PushScope()
	defer a.syms.PopScope()
	return a.checkScopeBody(sc)
}

func (a *analyzer) checkStmt(s Stmt) error {
	switch n := s.(type) {
	case *Return:
		t, err := a.checkExpr(n.Expr)
		if err != nil {
			return err
		}
		want := a.returnType
		if !a.inFunction {
			want = IntType()
		}
		if t != want {
			return a.semErr(n.Expr.Pos(), "return type mismatch: expected %s, got %s", want, t)
		}
		return nil

	case *ExprStmt:
		_, err := a.checkExpr(n.Expr)
		return err

	case *VarDecl:
		return a.checkVarDecl(n)

	case *Assign:
		info, ok := a.syms.Lookup(n.Name)
		if !ok {
			return a.semErr(n.Pos(), "assignment to undeclared variable %q", n.Name)
		}
		if info.ArraySize != nil {
			return a.semErr(n.Pos(), "%q is an array; index it to assign an element", n.Name)
		}
		t, err := a.checkExpr(n.Value)
		if err != nil {
			return err
		}
		if t != info.Type {
			return a.semErr(n.Value.Pos(), "cannot assign %s to variable %q of type %s", t, n.Name, info.Type)
		}
		return nil

	case *ArrayAssign:
		info, ok := a.syms.Lookup(n.Name)
		if !ok {
			return a.semErr(n.Pos(), "assignment to undeclared array %q", n.Name)
		}
		if info.ArraySize == nil {
			return a.semErr(n.Pos(), "%q is not an array", n.Name)
		}
		idxT, err := a.checkExpr(n.Index)
		if err != nil {
			return err
		}
		if idxT != IntType() {
			return a.semErr(n.Index.Pos(), "array index must be int, got %s", idxT)
		}
		valT, err := a.checkExpr(n.Value)
		if err != nil {
			return err
		}
		if valT != info.Type {
			return a.semErr(n.Value.Pos(), "cannot assign %s to array %q of element type %s", valT, n.Name, info.Type)
		}
		return nil

	case *PointerAssign:
		ptrT, err := a.checkExpr(n.Ptr)
		if err != nil {
			return err
		}
		if ptrT.PtrLevel < 1 {
			return a.semErr(n.Ptr.Pos(), "cannot dereference non-pointer type %s", ptrT)
		}
		valT, err := a.checkExpr(n.Value)
		if err != nil {
			return err
		}
		pointee := ptrT.Deref()
		if valT != pointee {
			return a.semErr(n.Value.Pos(), "cannot assign %s through pointer to %s", valT, pointee)
		}
		return nil

	case *Scope:
		return a.checkScope(n)

	case *If:
		condT, err := a.checkExpr(n.Cond)
		if err != nil {
			return err
		}
		if condT != BoolType() {
			return a.semErr(n.Cond.Pos(), "if condition must be bool, got %s", condT)
		}
		if err := a.checkScope(n.Then); err != nil {
			return err
		}
		if n.Else != nil {
			return a.checkScope(n.Else)
		}
		return nil

	case *While:
		condT, err := a.checkExpr(n.Cond)
		if err != nil {
			return err
		}
		if condT != BoolType() {
			return a.semErr(n.Cond.Pos(), "while condition must be bool, got %s", condT)
		}
		return a.checkScope(n.Body)

	case *For:
		a.syms.PushScope()
		defer a.syms.PopScope()
		if n.Init != nil {
			if err := a.checkStmt(n.Init); err != nil {
				return err
			}
		}
		if n.Cond != nil {
			condT, err := a.checkExpr(n.Cond)
			if err != nil {
				return err
			}
			if condT != BoolType() {
				return a.semErr(n.Cond.Pos(), "for condition must be bool, got %s", condT)
			}
		}
		if n.Inc != nil {
			if err := a.checkStmt(n.Inc); err != nil {
				return err
			}
		}
		return a.checkScopeBody(n.Body)

	default:
		panic(fmt.Sprintf("compiler: Analyze: unhandled Stmt variant %T", n))
	}
}

func (a *analyzer) checkVarDecl(n *VarDecl) error {
	if n.Type.Base == TVoid {
		return a.semErr(n.Pos(), "%q cannot be declared void: void is only legal as a function's return type", n.Name)
	}
	info := VarInfo{Type: n.Type, ArraySize: n.ArraySize}
	if a.syms.DeclareVar(n.Name, info) {
		return a.semErr(n.Pos(), "redeclaration of %q in the same scope", n.Name)
	}
	if n.ArraySize != nil {
		return nil // array declarations are not initialized via `=` in this grammar
	}
	if n.Init != nil {
		t, err := a.checkExpr(n.Init)
		if err != nil {
			return err
		}
		if t != n.Type {
			return a.semErr(n.Init.Pos(), "cannot initialize %q of type %s with %s", n.Name, n.Type, t)
		}
	}
	return nil
}

func (a *analyzer) checkExpr(e Expr) (Type, error) {
	switch n := e.(type) {
	case *IntLit:
		return IntType(), nil

	case *BoolLit:
		return BoolType(), nil

	case *Identifier:
		info, ok := a.syms.Lookup(n.Name)
		if !ok {
			return Type{}, a.semErr(n.Pos(), "undeclared identifier %q", n.Name)
		}
		if info.ArraySize != nil {
			return Type{}, a.semErr(n.Pos(), "array %q must be indexed, not used bare", n.Name)
		}
		return info.Type, nil

	case *ArrayAccess:
		info, ok := a.syms.Lookup(n.Name)
		if !ok {
			return Type{}, a.semErr(n.Pos(), "undeclared identifier %q", n.Name)
		}
		if info.ArraySize == nil {
			return Type{}, a.semErr(n.Pos(), "%q is not an array", n.Name)
		}
		idxT, err := a.checkExpr(n.Index)
		if err != nil {
			return Type{}, err
		}
		if idxT != IntType() {
			return Type{}, a.semErr(n.Index.Pos(), "array index must be int, got %s", idxT)
		}
		return info.Type, nil

	case *Call:
		sig, ok := a.syms.LookupFunc(n.Callee)
		if !ok {
			return Type{}, a.semErr(n.Pos(), "call to undeclared function %q", n.Callee)
		}
		if len(n.Args) != len(sig.ArgTypes) {
			return Type{}, a.semErr(n.Pos(), "%q expects %d argument(s), got %d", n.Callee, len(sig.ArgTypes), len(n.Args))
		}
		for i, arg := range n.Args {
			t, err := a.checkExpr(arg)
			if err != nil {
				return Type{}, err
			}
			if t != sig.ArgTypes[i] {
				return Type{}, a.semErr(arg.Pos(), "argument %d to %q: expected %s, got %s", i+1, n.Callee, sig.ArgTypes[i], t)
			}
		}
		return sig.ReturnType, nil

	case *Unary:
		return a.checkUnary(n)

	case *Binary:
		return a.checkBinary(n)

	default:
		panic(fmt.Sprintf("compiler: Analyze: unhandled Expr variant %T", n))
	}
}

func (a *analyzer) checkUnary(n *Unary) (Type, error) {
	switch n.Op {
	case NOT:
		t, err := a.checkExpr(n.Operand)
		if err != nil {
			return Type{}, err
		}
		if t != BoolType() {
			return Type{}, a.semErr(n.Operand.Pos(), "! requires bool, got %s", t)
		}
		return BoolType(), nil

	case STAR:
		t, err := a.checkExpr(n.Operand)
		if err != nil {
			return Type{}, err
		}
		if t.PtrLevel < 1 {
			return Type{}, a.semErr(n.Operand.Pos(), "cannot dereference non-pointer type %s", t)
		}
		return t.Deref(), nil

	case AMP:
		if !isLValue(n.Operand) {
			return Type{}, a.semErr(n.Operand.Pos(), "& requires an l-value (identifier or array element)")
		}
		t, err := a.checkExpr(n.Operand)
		if err != nil {
			return Type{}, err
		}
		return t.AddrOf(), nil

	default:
		panic(fmt.Sprintf("compiler: Analyze: unhandled unary operator %s", n.Op))
	}
}

func isLValue(e Expr) bool {
	switch e.(type) {
	case *Identifier, *ArrayAccess:
		return true
	default:
		return false
	}
}

func (a *analyzer) checkBinary(n *Binary) (Type, error) {
	lt, err := a.checkExpr(n.Lhs)
	if err != nil {
		return Type{}, err
	}
	rt, err := a.checkExpr(n.Rhs)
	if err != nil {
		return Type{}, err
	}

	switch n.Op {
	case PLUS, MINUS, STAR, SLASH:
		if lt != IntType() || rt != IntType() {
			return Type{}, a.semErr(n.Pos(), "%s requires int operands, got %s and %s", n.Op, lt, rt)
		}
		return IntType(), nil

	case AND, OR:
		if lt != BoolType() || rt != BoolType() {
			return Type{}, a.semErr(n.Pos(), "%s requires bool operands, got %s and %s", n.Op, lt, rt)
		}
		return BoolType(), nil

	case EQUALS, NOT_EQ:
		if lt != rt {
			return Type{}, a.semErr(n.Pos(), "%s requires operands of matching type, got %s and %s", n.Op, lt, rt)
		}
		return BoolType(), nil

	case LESS, GREATER:
		if lt != IntType() || rt != IntType() {
			return Type{}, a.semErr(n.Pos(), "%s requires int operands, got %s and %s", n.Op, lt, rt)
		}
		return BoolType(), nil

	default:
		panic(fmt.Sprintf("compiler: Analyze: unhandled binary operator %s", n.Op))
	}
}

func (a *analyzer) semErr(pos Pos, format string, args ...any) error {
	return &SemanticError{Line: pos.Line, Col: pos.Col, Msg: fmt.Sprintf(format, args...)}
}
