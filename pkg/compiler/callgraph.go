package compiler

import "hylangc/pkg/graph"

// BuildCallGraph returns prog's static call graph: one node per declared
// function and per callee (including "print"), plus a "<global-init>" node
// for calls made by global initializers, and one edge per distinct
// caller/callee pair, however many call sites that pair has. No node is
// added for an implicit main, and calls in other top-level statements are
// not recorded. It shares its call-site
// discovery with EliminateDeadFunctions but keeps every edge rather than
// only those reachable from a root, so the result is useful as a
// diagnostic independent of dead-function elimination.
func BuildCallGraph(prog *Program) *graph.Graph {
	g := graph.New()
	for _, fn := range prog.Functions {
		g.AddNode(fn.Name)
		for callee := range findCallsStmt(fn.Body) {
			g.AddEdge(fn.Name, callee)
		}
	}
	for _, stmt := range prog.Globals {
		decl, ok := stmt.(*VarDecl)
		if !ok || decl.Init == nil {
			continue
		}
		for callee := range findCallsExpr(decl.Init) {
			g.AddEdge("<global-init>", callee)
		}
	}
	return g
}
