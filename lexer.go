package tplscript

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes script source text.
type Lexer struct {
	input   string
	pos     int  // byte offset of the current character
	readPos int  // byte offset after the current character
	ch      rune // current character, 0 at end of input
	line    int  // line of the current character, 1-based
	col     int  // column of the current character in runes, 1-based
}

// NewLexer creates a lexer for the given source text.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Tokenize lexes an entire source text. The returned list always ends with
// an EOF token. Lexing stops at the first invalid character or unterminated
// literal.
func Tokenize(source string) ([]Token, *Error) {
	lexer := NewLexer(source)
	var tokens []Token
	for {
		token, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
		if token.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) token(tokenType TokenType, start Position) Token {
	end := l.position()
	return Token{
		Type:    tokenType,
		Literal: l.input[start.Offset:end.Offset],
		Span:    Span{Start: start, End: end},
	}
}

// NextToken returns the next token in the source, skipping whitespace and
// comments.
func (l *Lexer) NextToken() (Token, *Error) {
	err := l.skipWhitespaceAndComments()
	if err != nil {
		return Token{}, err
	}

	start := l.position()
	switch {
	case l.ch == 0:
		return l.token(TokenEOF, start), nil

	case l.ch == '<':
		l.readChar()
		return l.token(TokenPushOpen, start), nil

	case l.ch == '>':
		l.readChar()
		return l.token(TokenPushClose, start), nil

	case l.ch == ')':
		l.readChar()
		return l.token(TokenEvalClose, start), nil

	case l.ch == '$':
		if l.peekChar() != '(' {
			l.readChar()
			return Token{}, scriptError(ErrInvalidCharacter,
				Span{Start: start, End: l.position()},
				"'$' must begin an evaluation '$('")
		}
		l.readChar()
		l.readChar()
		return l.token(TokenEvalOpen, start), nil

	case l.ch == '\'' || l.ch == '"':
		return l.readString(start)

	case l.ch == '0' && l.peekChar() == 'x':
		return l.readHex(start)

	case isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())):
		return l.readInt(start)

	case isIdentifierStart(l.ch):
		return l.readIdentifier(start)

	default:
		ch := l.ch
		l.readChar()
		return Token{}, scriptError(ErrInvalidCharacter,
			Span{Start: start, End: l.position()},
			fmt.Sprintf("unexpected character %q", ch))
	}
}

func (l *Lexer) skipWhitespaceAndComments() *Error {
	for {
		switch {
		case l.ch != 0 && unicode.IsSpace(l.ch):
			l.readChar()

		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}

		case l.ch == '/' && l.peekChar() == '*':
			start := l.position()
			l.readChar()
			l.readChar()
			for {
				if l.ch == 0 {
					return scriptError(ErrUnterminatedComment,
						Span{Start: start, End: l.position()},
						"unterminated block comment")
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}

		default:
			return nil
		}
	}
}

func (l *Lexer) readString(start Position) (Token, *Error) {
	quote := l.ch
	l.readChar()
	for l.ch != quote {
		if l.ch == 0 {
			return Token{}, scriptError(ErrUnterminatedString,
				Span{Start: start, End: l.position()},
				"unterminated string literal")
		}
		l.readChar()
	}
	l.readChar()
	return l.token(TokenString, start), nil
}

func (l *Lexer) readHex(start Position) (Token, *Error) {
	l.readChar()
	l.readChar()
	digits := 0
	for isHexDigit(l.ch) {
		l.readChar()
		digits++
	}
	if digits == 0 {
		return Token{}, scriptError(ErrMalformedHexLiteral,
			Span{Start: start, End: l.position()},
			"hex literal is missing digits after 0x")
	}
	return l.token(TokenHex, start), nil
}

func (l *Lexer) readInt(start Position) (Token, *Error) {
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.token(TokenInt, start), nil
}

func (l *Lexer) readIdentifier(start Position) (Token, *Error) {
	for isIdentifierChar(l.ch) {
		l.readChar()
	}
	return l.token(TokenIdentifier, start), nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentifierStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentifierChar(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}
