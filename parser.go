package tplscript

import (
	"fmt"
	"math/big"
)

// Parser builds a Program from a token list.
type Parser struct {
	tokens []Token
	pos    int
	errors []*Error
}

// NewParser creates a parser over the passed tokens. The list is expected to
// end with an EOF token, as produced by Tokenize.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse builds the AST for the passed token list. The parser recovers from
// bracket mismatches and returns every parse error it finds.
func Parse(tokens []Token) (*Program, []*Error) {
	parser := NewParser(tokens)
	program := parser.parseProgram()
	if len(parser.errors) > 0 {
		return nil, parser.errors
	}
	return program, nil
}

func (p *Parser) cur() Token {
	if p.pos >= len(p.tokens) {
		var end Position
		if len(p.tokens) > 0 {
			end = p.tokens[len(p.tokens)-1].Span.End
		}
		return Token{Type: TokenEOF, Span: Span{Start: end, End: end}}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	p.pos++
}

func (p *Parser) errorf(code ErrorCode, span Span, format string, args ...interface{}) {
	p.errors = append(p.errors, scriptError(code, span, fmt.Sprintf(format, args...)))
}

func (p *Parser) parseProgram() *Program {
	start := p.cur().Span.Start
	program := &Program{}
	for p.cur().Type != TokenEOF {
		statement := p.parseStatement()
		if statement != nil {
			program.Statements = append(program.Statements, statement)
		}
	}
	program.SpanVal = Span{Start: start, End: p.cur().Span.End}
	return program
}

func (p *Parser) parseStatement() Statement {
	token := p.cur()
	switch token.Type {
	case TokenInt:
		p.advance()
		value, ok := new(big.Int).SetString(token.Literal, 10)
		if !ok {
			p.errorf(ErrMalformedIntLiteral, token.Span, "invalid integer literal %q", token.Literal)
			return nil
		}
		return &IntLiteral{Value: value, SpanVal: token.Span}

	case TokenHex:
		p.advance()
		return &HexLiteral{Digits: token.Literal[2:], SpanVal: token.Span}

	case TokenString:
		p.advance()
		content := token.Literal[1 : len(token.Literal)-1]
		return &UTF8Literal{Value: content, SpanVal: token.Span}

	case TokenIdentifier:
		p.advance()
		return &Identifier{Name: token.Literal, SpanVal: token.Span}

	case TokenPushOpen:
		return p.parsePush()

	case TokenEvalOpen:
		return p.parseEvaluation()

	case TokenPushClose:
		p.errorf(ErrUnmatchedPushClose, token.Span, "unmatched '>'")
		p.advance()
		return nil

	case TokenEvalClose:
		p.errorf(ErrUnmatchedEvalClose, token.Span, "unmatched ')'")
		p.advance()
		return nil

	default:
		p.advance()
		return nil
	}
}

func (p *Parser) parsePush() Statement {
	open := p.cur()
	p.advance()
	var statements []Statement
	for {
		switch p.cur().Type {
		case TokenPushClose:
			closing := p.cur()
			p.advance()
			return &Push{
				Statements: statements,
				SpanVal:    Span{Start: open.Span.Start, End: closing.Span.End},
			}
		case TokenEOF:
			p.errorf(ErrUnmatchedPushOpen, open.Span, "unmatched '<'")
			return nil
		default:
			statement := p.parseStatement()
			if statement != nil {
				statements = append(statements, statement)
			}
		}
	}
}

func (p *Parser) parseEvaluation() Statement {
	open := p.cur()
	p.advance()
	var statements []Statement
	for {
		switch p.cur().Type {
		case TokenEvalClose:
			closing := p.cur()
			p.advance()
			return &Evaluation{
				Statements: statements,
				SpanVal:    Span{Start: open.Span.Start, End: closing.Span.End},
			}
		case TokenEOF:
			p.errorf(ErrUnmatchedEvalOpen, open.Span, "unmatched '$('")
			return nil
		default:
			statement := p.parseStatement()
			if statement != nil {
				statements = append(statements, statement)
			}
		}
	}
}
