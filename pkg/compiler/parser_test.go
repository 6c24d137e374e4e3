package compiler

import "testing"

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	tokens, err := Lex(src, ModeBraces)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	prog, err := Parse(tokens, src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return prog
}

func TestParseGlobalVarDecl(t *testing.T) {
	prog := mustParse(t, "int x = 5;")
	if len(prog.Globals) != 1 {
		t.Fatalf("Globals = %d, want 1", len(prog.Globals))
	}
	decl, ok := prog.Globals[0].(*VarDecl)
	if !ok {
		t.Fatalf("Globals[0] = %T, want *VarDecl", prog.Globals[0])
	}
	if decl.Name != "x" || decl.Type != IntType() {
		t.Errorf("decl = %+v, want name x, type int", decl)
	}
	if lit, ok := decl.Init.(*IntLit); !ok || lit.Value != 5 {
		t.Errorf("decl.Init = %v, want IntLit(5)", decl.Init)
	}
}

func TestParseArrayDecl(t *testing.T) {
	prog := mustParse(t, "int xs[3];")
	decl := prog.Globals[0].(*VarDecl)
	if decl.ArraySize == nil || *decl.ArraySize != 3 {
		t.Fatalf("ArraySize = %v, want 3", decl.ArraySize)
	}
}

func TestParseFunctionWithArgs(t *testing.T) {
	prog := mustParse(t, "int add(int a, int b) { return a + b; }")
	if len(prog.Functions) != 1 {
		t.Fatalf("Functions = %d, want 1", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "add" || fn.ReturnType != IntType() {
		t.Errorf("fn = %+v", fn)
	}
	if len(fn.Args) != 2 || fn.Args[0].Name != "a" || fn.Args[1].Name != "b" {
		t.Fatalf("Args = %+v", fn.Args)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("Body.Stmts = %d, want 1", len(fn.Body.Stmts))
	}
	ret, ok := fn.Body.Stmts[0].(*Return)
	if !ok {
		t.Fatalf("Body.Stmts[0] = %T, want *Return", fn.Body.Stmts[0])
	}
	bin, ok := ret.Expr.(*Binary)
	if !ok || bin.Op != PLUS {
		t.Fatalf("ret.Expr = %v, want a + b", ret.Expr)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog := mustParse(t, "int x = 1 + 2 * 3;")
	decl := prog.Globals[0].(*VarDecl)
	bin, ok := decl.Init.(*Binary)
	if !ok || bin.Op != PLUS {
		t.Fatalf("top op = %v, want +", decl.Init)
	}
	rhs, ok := bin.Rhs.(*Binary)
	if !ok || rhs.Op != STAR {
		t.Fatalf("rhs = %v, want 2 * 3 nested under +", bin.Rhs)
	}
}

func TestParseLogicalPrecedenceBelowComparison(t *testing.T) {
	prog := mustParse(t, "bool b = 1 < 2 && 3 > 4;")
	decl := prog.Globals[0].(*VarDecl)
	bin, ok := decl.Init.(*Binary)
	if !ok || bin.Op != AND {
		t.Fatalf("top op = %v, want &&", decl.Init)
	}
	if _, ok := bin.Lhs.(*Binary); !ok {
		t.Fatalf("lhs = %v, want a comparison", bin.Lhs)
	}
	if _, ok := bin.Rhs.(*Binary); !ok {
		t.Fatalf("rhs = %v, want a comparison", bin.Rhs)
	}
}

func TestParseUnaryAndPointerOps(t *testing.T) {
	prog := mustParse(t, "int* p = &x; int y = *p;")
	decl := prog.Globals[0].(*VarDecl)
	if decl.Type.PtrLevel != 1 {
		t.Fatalf("decl.Type = %v, want ptr level 1", decl.Type)
	}
	addr, ok := decl.Init.(*Unary)
	if !ok || addr.Op != AMP {
		t.Fatalf("decl.Init = %v, want &x", decl.Init)
	}

	decl2 := prog.Globals[1].(*VarDecl)
	star, ok := decl2.Init.(*Unary)
	if !ok || star.Op != STAR {
		t.Fatalf("decl2.Init = %v, want *p", decl2.Init)
	}
}

func TestParseArrayAssignVsExprStmt(t *testing.T) {
	prog := mustParse(t, "int main() { xs[0] = 9; print(1); return 0; }")
	fn := prog.Functions[0]
	if _, ok := fn.Body.Stmts[0].(*ArrayAssign); !ok {
		t.Fatalf("stmt[0] = %T, want *ArrayAssign", fn.Body.Stmts[0])
	}
	if _, ok := fn.Body.Stmts[1].(*ExprStmt); !ok {
		t.Fatalf("stmt[1] = %T, want *ExprStmt", fn.Body.Stmts[1])
	}
}

func TestParsePointerAssign(t *testing.T) {
	prog := mustParse(t, "int main() { *p = 9; return 0; }")
	fn := prog.Functions[0]
	if _, ok := fn.Body.Stmts[0].(*PointerAssign); !ok {
		t.Fatalf("stmt[0] = %T, want *PointerAssign", fn.Body.Stmts[0])
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, "int main() { if (x < 1) { return 1; } else { return 2; } }")
	fn := prog.Functions[0]
	ifs, ok := fn.Body.Stmts[0].(*If)
	if !ok {
		t.Fatalf("stmt[0] = %T, want *If", fn.Body.Stmts[0])
	}
	if ifs.Else == nil {
		t.Fatal("Else = nil, want an else scope")
	}
}

func TestParseWhile(t *testing.T) {
	prog := mustParse(t, "int main() { while (x < 10) { x = x + 1; } return x; }")
	fn := prog.Functions[0]
	if _, ok := fn.Body.Stmts[0].(*While); !ok {
		t.Fatalf("stmt[0] = %T, want *While", fn.Body.Stmts[0])
	}
}

func TestParseFor(t *testing.T) {
	prog := mustParse(t, "int main() { for (int i = 0; i < 10; i = i + 1) { print(i); } return 0; }")
	fn := prog.Functions[0]
	forStmt, ok := fn.Body.Stmts[0].(*For)
	if !ok {
		t.Fatalf("stmt[0] = %T, want *For", fn.Body.Stmts[0])
	}
	if forStmt.Init == nil || forStmt.Cond == nil || forStmt.Inc == nil {
		t.Fatalf("for clauses incompletely parsed: %+v", forStmt)
	}
}

func TestParseMismatchedParenIsError(t *testing.T) {
	tokens, err := Lex("int main() { return (1 + 2; }", ModeBraces)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if _, err := Parse(tokens, "int main() { return (1 + 2; }"); err == nil {
		t.Fatal("expected a ParseError for the missing ')'")
	}
}

func TestParseCallWithArgs(t *testing.T) {
	prog := mustParse(t, "int main() { return add(1, 2); }")
	fn := prog.Functions[0]
	ret := fn.Body.Stmts[0].(*Return)
	call, ok := ret.Expr.(*Call)
	if !ok || call.Callee != "add" || len(call.Args) != 2 {
		t.Fatalf("ret.Expr = %v, want add(1, 2)", ret.Expr)
	}
}
