/*
Package tplscript compiles authentication template scripts to bytecode.

A script is a whitespace-separated sequence of opcode names, variable and
script identifiers, integer, hex and UTF-8 string literals, push statements
("<...>") and compile-time evaluations ("$(...)"). Compilation runs the
source through a lexer, a parser, a resolver that replaces identifiers with
their meanings, and a bytecode generator that applies the canonical minimal
push encoding.

The Compiler resolves identifiers against an Environment: opcode names map
to instruction bytes, variable ids are produced by the environment's bound
operations from caller-supplied Data, and script ids splice in the
referenced script's compiled bytecode. Compile-time evaluations execute
their compiled body on the bound VirtualMachine and fold the top stack item
into the surrounding script.

Errors are collected rather than returned one at a time: a failed
compilation yields a *CompileError listing every error of the failing
stage, each with a source span and an ErrorCode that classifies it into a
lexing, parsing, resolution, evaluation or encoding kind.
*/
package tplscript
