package tplscript

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

// Token types produced by the lexer.
const (
	TokenEOF TokenType = iota

	TokenIdentifier // ident, OP_ADD
	TokenInt        // 42, -42
	TokenHex        // 0xdeadbeef
	TokenString     // 'abc', "abc"

	TokenPushOpen  // <
	TokenPushClose // >
	TokenEvalOpen  // $(
	TokenEvalClose // )
)

var tokenTypeNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenIdentifier: "IDENTIFIER",
	TokenInt:        "INT",
	TokenHex:        "HEX",
	TokenString:     "STRING",
	TokenPushOpen:   "<",
	TokenPushClose:  ">",
	TokenEvalOpen:   "$(",
	TokenEvalClose:  ")",
}

// String returns the token type as a human-readable name.
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical token. Literal holds the raw source text of the
// token, quotes and 0x prefixes included.
type Token struct {
	Type    TokenType `json:"type"`
	Literal string    `json:"literal"`
	Span    Span      `json:"span"`
}

// String renders the token for diagnostics.
func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
