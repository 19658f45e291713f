// Package compiler turns plugin source text into a vm.Proto: a hand-written
// lexer feeds a Pratt expression parser and a recursive-descent statement
// parser, which emit bytecode directly (no separate AST pass).
package compiler
