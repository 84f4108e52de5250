package lexer

import (
	"fmt"
	"strings"
)

// LexError reports malformed source text with its position.
type LexError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// Lexer tokenizes plot script source code.
type Lexer struct {
	input        string
	position     int  // current position in input
	readPosition int  // current reading position (after current char)
	ch           byte // current char
	line         int  // current line number
	column       int  // current column number
	err          *LexError
}

// New creates a new Lexer.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns the token sequence,
// terminated by an EOF token. Tokenization is total and deterministic:
// the same input always yields the same sequence or the same error.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TOKEN_ILLEGAL {
			if l.err != nil {
				return nil, l.err
			}
			return nil, &LexError{
				Line:    tok.Line,
				Column:  tok.Column,
				Message: fmt.Sprintf("invalid character %q", tok.Literal),
			}
		}
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			return tokens, nil
		}
	}
}

// NextToken returns the next token. Whitespace and comments are skipped;
// newlines are tracked only for position reporting.
func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespaceAndComments()

	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(TOKEN_EQ, tok)
		} else {
			tok = l.newToken(TOKEN_ASSIGN, l.ch)
		}
	case '+':
		tok = l.newToken(TOKEN_PLUS, l.ch)
	case '-':
		tok = l.newToken(TOKEN_MINUS, l.ch)
	case '*':
		tok = l.newToken(TOKEN_ASTERISK, l.ch)
	case '/':
		tok = l.newToken(TOKEN_SLASH, l.ch)
	case '%':
		tok = l.newToken(TOKEN_PERCENT, l.ch)
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(TOKEN_NEQ, tok)
		} else {
			tok = l.newToken(TOKEN_NOT, l.ch)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(TOKEN_LTE, tok)
		} else {
			tok = l.newToken(TOKEN_LT, l.ch)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(TOKEN_GTE, tok)
		} else {
			tok = l.newToken(TOKEN_GT, l.ch)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.twoCharToken(TOKEN_AND, tok)
		} else {
			tok = l.illegalToken(tok, "invalid character '&' (did you mean '&&'?)")
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.twoCharToken(TOKEN_OR, tok)
		} else {
			tok = l.illegalToken(tok, "invalid character '|' (did you mean '||'?)")
		}
	case '(':
		tok = l.newToken(TOKEN_LPAREN, l.ch)
	case ')':
		tok = l.newToken(TOKEN_RPAREN, l.ch)
	case '{':
		tok = l.newToken(TOKEN_LBRACE, l.ch)
	case '}':
		tok = l.newToken(TOKEN_RBRACE, l.ch)
	case '[':
		tok = l.newToken(TOKEN_LBRACKET, l.ch)
	case ']':
		tok = l.newToken(TOKEN_RBRACKET, l.ch)
	case ',':
		tok = l.newToken(TOKEN_COMMA, l.ch)
	case ';':
		tok = l.newToken(TOKEN_SEMICOLON, l.ch)
	case '"':
		lit, ok := l.readString()
		if !ok {
			return l.illegalToken(tok, "unterminated string literal")
		}
		tok.Type = TOKEN_STRING
		tok.Literal = lit
		return tok
	case 0:
		tok.Literal = ""
		tok.Type = TOKEN_EOF
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			return l.readNumber(tok.Line, tok.Column)
		}
		return l.illegalTokenChar(tok)
	}

	l.readChar()
	return tok
}

// Err returns the error recorded for the last ILLEGAL token, if any.
func (l *Lexer) Err() *LexError {
	return l.err
}

// GetSource returns the source code as a string.
func (l *Lexer) GetSource() string {
	return l.input
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// readIdentifier reads an identifier: [A-Za-z_][A-Za-z0-9_]*.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer or floating point literal.
// A digit run immediately followed by a letter is malformed (e.g. 12ab).
func (l *Lexer) readNumber(line, column int) Token {
	position := l.position
	isFloat := false

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if isLetter(l.ch) || (l.ch == '.' && isFloat) {
		literal := l.input[position:l.position]
		return l.illegalToken(Token{Line: line, Column: column},
			fmt.Sprintf("malformed numeric literal starting with %q", literal))
	}

	literal := l.input[position:l.position]
	if isFloat {
		return Token{Type: TOKEN_FLOAT, Literal: literal, Line: line, Column: column}
	}
	return Token{Type: TOKEN_INT, Literal: literal, Line: line, Column: column}
}

// readString reads a string literal, processing escape sequences.
// Returns false when the closing quote is missing.
func (l *Lexer) readString() (string, bool) {
	var sb strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case '"':
			l.readChar() // consume closing quote
			return sb.String(), true
		case 0, '\n':
			return "", false
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '0':
				sb.WriteByte(0)
			default:
				// Unknown escapes keep the backslash verbatim.
				sb.WriteByte('\\')
				sb.WriteByte(l.ch)
			}
		default:
			sb.WriteByte(l.ch)
		}
	}
}

// skipWhitespaceAndComments skips whitespace, // line comments and
// /* */ block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar() // consume /
			l.readChar() // consume *
			for {
				if l.ch == 0 {
					return
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					break
				}
				l.readChar()
			}
		default:
			return
		}
	}
}

// newToken creates a single-character token.
func (l *Lexer) newToken(tokenType TokenType, ch byte) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: l.line, Column: l.column}
}

// twoCharToken creates a two-character token from the current and next char.
func (l *Lexer) twoCharToken(tokenType TokenType, tok Token) Token {
	ch := l.ch
	l.readChar()
	return Token{Type: tokenType, Literal: string(ch) + string(l.ch), Line: tok.Line, Column: tok.Column}
}

func (l *Lexer) illegalToken(tok Token, msg string) Token {
	l.err = &LexError{Line: tok.Line, Column: tok.Column, Message: msg}
	tok.Type = TOKEN_ILLEGAL
	tok.Literal = msg
	return tok
}

func (l *Lexer) illegalTokenChar(tok Token) Token {
	msg := fmt.Sprintf("invalid character %q", string(l.ch))
	l.readChar()
	return l.illegalToken(tok, msg)
}

// isLetter checks if a character can start or continue an identifier.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if a character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
