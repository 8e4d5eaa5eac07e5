package tplscript

import (
	"math/big"
)

// Position is a location in script source.
type Position struct {
	Offset int `json:"offset"` // byte offset, starting at 0
	Line   int `json:"line"`   // line number, starting at 1
	Column int `json:"column"` // column in runes, starting at 1
}

// Span represents a range in source code. End is the position immediately
// after the spanned text.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Node is an element of a parsed script.
type Node interface {
	Span() Span
}

// Statement is a single script element, either top level or bracketed.
type Statement interface {
	Node
	stmtNode()
}

// Program is the root node of a parsed script.
type Program struct {
	Statements []Statement
	SpanVal    Span
}

// Span returns the source range of the whole program.
func (n *Program) Span() Span { return n.SpanVal }

// IntLiteral is a signed decimal integer literal of arbitrary precision.
type IntLiteral struct {
	Value   *big.Int
	SpanVal Span
}

// Span returns the literal's source range.
func (n *IntLiteral) Span() Span { return n.SpanVal }
func (n *IntLiteral) stmtNode()  {}

// HexLiteral is a 0x-prefixed hexadecimal literal. Digits holds the digits
// without the prefix, verbatim; digit count parity is checked at bytecode
// generation.
type HexLiteral struct {
	Digits  string
	SpanVal Span
}

// Span returns the literal's source range.
func (n *HexLiteral) Span() Span { return n.SpanVal }
func (n *HexLiteral) stmtNode()  {}

// UTF8Literal is a quoted string literal. Value holds the text between the
// quotes, verbatim; there are no escape sequences.
type UTF8Literal struct {
	Value   string
	SpanVal Span
}

// Span returns the literal's source range.
func (n *UTF8Literal) Span() Span { return n.SpanVal }
func (n *UTF8Literal) stmtNode()  {}

// Identifier names an opcode, a variable or a script. Which one is decided
// during resolution.
type Identifier struct {
	Name    string
	SpanVal Span
}

// Span returns the identifier's source range.
func (n *Identifier) Span() Span { return n.SpanVal }
func (n *Identifier) stmtNode()  {}

// Push wraps statements whose compiled bytes become the contents of a stack
// push. Pushes nest arbitrarily.
type Push struct {
	Statements []Statement
	SpanVal    Span
}

// Span returns the push's source range, brackets included.
func (n *Push) Span() Span { return n.SpanVal }
func (n *Push) stmtNode()  {}

// Evaluation wraps statements that are compiled and executed during
// compilation; the resulting top stack item replaces the evaluation.
type Evaluation struct {
	Statements []Statement
	SpanVal    Span
}

// Span returns the evaluation's source range, brackets included.
func (n *Evaluation) Span() Span { return n.SpanVal }
func (n *Evaluation) stmtNode()  {}
