// Package lexer provides lexical analysis for plot scripts (.PLS files).
package lexer

// TokenType represents the type of a token.
type TokenType int

// Token types
const (
	// Special tokens
	TOKEN_ILLEGAL TokenType = iota
	TOKEN_EOF

	// Literals
	TOKEN_IDENT  // identifier
	TOKEN_INT    // integer literal
	TOKEN_FLOAT  // floating point literal
	TOKEN_STRING // string literal

	// Operators
	TOKEN_PLUS     // +
	TOKEN_MINUS    // -
	TOKEN_ASTERISK // *
	TOKEN_SLASH    // /
	TOKEN_PERCENT  // %
	TOKEN_ASSIGN   // =
	TOKEN_EQ       // ==
	TOKEN_NEQ      // !=
	TOKEN_LT       // <
	TOKEN_GT       // >
	TOKEN_LTE      // <=
	TOKEN_GTE      // >=
	TOKEN_AND      // &&
	TOKEN_OR       // ||
	TOKEN_NOT      // !

	// Delimiters
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_LBRACE    // {
	TOKEN_RBRACE    // }
	TOKEN_LBRACKET  // [
	TOKEN_RBRACKET  // ]
	TOKEN_COMMA     // ,
	TOKEN_SEMICOLON // ;

	// Keywords
	TOKEN_IF       // if
	TOKEN_ELSE     // else
	TOKEN_WHILE    // while
	TOKEN_BREAK    // break
	TOKEN_CONTINUE // continue
	TOKEN_RETURN   // return
	TOKEN_GLOBAL   // global
	TOKEN_TRUE     // true
	TOKEN_FALSE    // false
)

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// tokenTypeNames maps TokenType to its string representation.
var tokenTypeNames = map[TokenType]string{
	TOKEN_ILLEGAL: "ILLEGAL",
	TOKEN_EOF:     "EOF",

	TOKEN_IDENT:  "IDENT",
	TOKEN_INT:    "INT",
	TOKEN_FLOAT:  "FLOAT",
	TOKEN_STRING: "STRING",

	TOKEN_PLUS:     "+",
	TOKEN_MINUS:    "-",
	TOKEN_ASTERISK: "*",
	TOKEN_SLASH:    "/",
	TOKEN_PERCENT:  "%",
	TOKEN_ASSIGN:   "=",
	TOKEN_EQ:       "==",
	TOKEN_NEQ:      "!=",
	TOKEN_LT:       "<",
	TOKEN_GT:       ">",
	TOKEN_LTE:      "<=",
	TOKEN_GTE:      ">=",
	TOKEN_AND:      "&&",
	TOKEN_OR:       "||",
	TOKEN_NOT:      "!",

	TOKEN_LPAREN:    "(",
	TOKEN_RPAREN:    ")",
	TOKEN_LBRACE:    "{",
	TOKEN_RBRACE:    "}",
	TOKEN_LBRACKET:  "[",
	TOKEN_RBRACKET:  "]",
	TOKEN_COMMA:     ",",
	TOKEN_SEMICOLON: ";",

	TOKEN_IF:       "if",
	TOKEN_ELSE:     "else",
	TOKEN_WHILE:    "while",
	TOKEN_BREAK:    "break",
	TOKEN_CONTINUE: "continue",
	TOKEN_RETURN:   "return",
	TOKEN_GLOBAL:   "global",
	TOKEN_TRUE:     "true",
	TOKEN_FALSE:    "false",
}

// String returns a string representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsKeyword returns true if the token type is a keyword.
func (t TokenType) IsKeyword() bool {
	return t >= TOKEN_IF && t <= TOKEN_FALSE
}

// IsOperator returns true if the token type is an operator.
func (t TokenType) IsOperator() bool {
	return t >= TOKEN_PLUS && t <= TOKEN_NOT
}

// IsLiteral returns true if the token type is a literal.
func (t TokenType) IsLiteral() bool {
	return t >= TOKEN_IDENT && t <= TOKEN_STRING
}

// keywords maps reserved words to their TokenType. Identifiers are
// case-sensitive; only exact matches are keywords.
var keywords = map[string]TokenType{
	"if":       TOKEN_IF,
	"else":     TOKEN_ELSE,
	"while":    TOKEN_WHILE,
	"break":    TOKEN_BREAK,
	"continue": TOKEN_CONTINUE,
	"return":   TOKEN_RETURN,
	"global":   TOKEN_GLOBAL,
	"true":     TOKEN_TRUE,
	"false":    TOKEN_FALSE,
}

// LookupIdent checks if the given identifier is a reserved word.
// If it is, the corresponding keyword TokenType is returned.
// Otherwise, it returns TOKEN_IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TOKEN_IDENT
}
