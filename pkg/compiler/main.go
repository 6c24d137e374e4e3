// Package compiler implements the HyLang front end and middle end: a
// hand-written lexer (brace-delimited or indentation-sensitive), a
// recursive-descent parser producing a typed AST, a semantic analyser that
// enforces HyLang's scoping and typing rules, a constant-folding optimiser,
// and two code generators (AArch64 assembly text, LLVM IR text).
//
// Pipeline: source bytes → Lex → Parse → Analyze → Optimize → Generate(A|B)
package compiler
