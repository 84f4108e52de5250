package lexer

import (
	"testing"
)

// TestTokenizeStatement tests a representative statement end to end.
func TestTokenizeStatement(t *testing.T) {
	input := `x = fn(1, 2.5) + "he\"llo" * arr[0]`

	expected := []struct {
		typ     TokenType
		literal string
	}{
		{TOKEN_IDENT, "x"},
		{TOKEN_ASSIGN, "="},
		{TOKEN_IDENT, "fn"},
		{TOKEN_LPAREN, "("},
		{TOKEN_INT, "1"},
		{TOKEN_COMMA, ","},
		{TOKEN_FLOAT, "2.5"},
		{TOKEN_RPAREN, ")"},
		{TOKEN_PLUS, "+"},
		{TOKEN_STRING, `he"llo`},
		{TOKEN_ASTERISK, "*"},
		{TOKEN_IDENT, "arr"},
		{TOKEN_LBRACKET, "["},
		{TOKEN_INT, "0"},
		{TOKEN_RBRACKET, "]"},
		{TOKEN_EOF, ""},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, exp := range expected {
		if tokens[i].Type != exp.typ {
			t.Errorf("token %d: expected type %s, got %s", i, exp.typ, tokens[i].Type)
		}
		if tokens[i].Literal != exp.literal {
			t.Errorf("token %d: expected literal %q, got %q", i, exp.literal, tokens[i].Literal)
		}
	}
}

// TestTokenizeOperators tests single and double character operators.
func TestTokenizeOperators(t *testing.T) {
	input := `+ - * / % = == != < > <= >= && || !`
	want := []TokenType{
		TOKEN_PLUS, TOKEN_MINUS, TOKEN_ASTERISK, TOKEN_SLASH, TOKEN_PERCENT,
		TOKEN_ASSIGN, TOKEN_EQ, TOKEN_NEQ, TOKEN_LT, TOKEN_GT,
		TOKEN_LTE, TOKEN_GTE, TOKEN_AND, TOKEN_OR, TOKEN_NOT,
		TOKEN_EOF,
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, typ := range want {
		if tokens[i].Type != typ {
			t.Errorf("token %d: expected %s, got %s", i, typ, tokens[i].Type)
		}
	}
}

// TestTokenizeKeywords tests keyword recognition and case sensitivity.
func TestTokenizeKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"if", TOKEN_IF},
		{"else", TOKEN_ELSE},
		{"while", TOKEN_WHILE},
		{"break", TOKEN_BREAK},
		{"continue", TOKEN_CONTINUE},
		{"return", TOKEN_RETURN},
		{"global", TOKEN_GLOBAL},
		{"true", TOKEN_TRUE},
		{"false", TOKEN_FALSE},
		{"If", TOKEN_IDENT},
		{"WHILE", TOKEN_IDENT},
		{"iffy", TOKEN_IDENT},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tokens[0].Type != tt.want {
				t.Errorf("expected %s, got %s", tt.want, tokens[0].Type)
			}
		})
	}
}

// TestTokenizePositions tests line and column tracking.
func TestTokenizePositions(t *testing.T) {
	input := "x = 1\n  y = 2"
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []struct {
		line, column int
	}{
		{1, 1}, // x
		{1, 3}, // =
		{1, 5}, // 1
		{2, 3}, // y
		{2, 5}, // =
		{2, 7}, // 2
	}
	for i, exp := range expected {
		if tokens[i].Line != exp.line || tokens[i].Column != exp.column {
			t.Errorf("token %d (%q): expected %d:%d, got %d:%d",
				i, tokens[i].Literal, exp.line, exp.column, tokens[i].Line, tokens[i].Column)
		}
	}
}

// TestTokenizeComments tests that both comment forms vanish.
func TestTokenizeComments(t *testing.T) {
	input := `
// leading comment
x = 1 // trailing
/* block
   spanning lines */ y = 2
`
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var literals []string
	for _, tok := range tokens {
		if tok.Type != TOKEN_EOF {
			literals = append(literals, tok.Literal)
		}
	}
	want := []string{"x", "=", "1", "y", "=", "2"}
	if len(literals) != len(want) {
		t.Fatalf("expected %v, got %v", want, literals)
	}
	for i := range want {
		if literals[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], literals[i])
		}
	}
}

// TestTokenizeStringEscapes tests the escape sequences.
func TestTokenizeStringEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"newline", `"a\nb"`, "a\nb"},
		{"tab", `"a\tb"`, "a\tb"},
		{"carriage return", `"a\rb"`, "a\rb"},
		{"backslash", `"a\\b"`, `a\b`},
		{"quote", `"a\"b"`, `a"b`},
		{"nul", `"a\0b"`, "a\x00b"},
		{"unknown escape kept", `"a\qb"`, `a\qb`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tokens[0].Type != TOKEN_STRING || tokens[0].Literal != tt.want {
				t.Errorf("expected STRING %q, got %s %q", tt.want, tokens[0].Type, tokens[0].Literal)
			}
		})
	}
}

// TestTokenizeErrors tests lex failures.
func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated string", `x = "open`},
		{"unterminated string at newline", "x = \"open\ny = 1"},
		{"malformed number", `x = 12abc`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			lexErr, ok := err.(*LexError)
			if !ok {
				t.Fatalf("expected *LexError, got %T", err)
			}
			if lexErr.Line == 0 {
				t.Error("expected a line number in the error")
			}
		})
	}
}

// TestTokenizeNumbers tests integer and float literal forms.
func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"0", TOKEN_INT},
		{"12345", TOKEN_INT},
		{"1.5", TOKEN_FLOAT},
		{"0.25", TOKEN_FLOAT},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tokens[0].Type != tt.typ || tokens[0].Literal != tt.input {
				t.Errorf("expected %s %q, got %s %q", tt.typ, tt.input, tokens[0].Type, tokens[0].Literal)
			}
		})
	}
}
