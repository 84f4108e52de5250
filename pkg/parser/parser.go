package parser

import (
	"fmt"
	"strconv"

	"github.com/hazama/plotscript/pkg/lexer"
)

// ParseError reports a structural grammar violation with position info.
type ParseError struct {
	Line     int
	Column   int
	Expected string
	Found    string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("parse error at %d:%d: expected %s, found %s", e.Line, e.Column, e.Expected, e.Found)
	}
	return fmt.Sprintf("parse error at %d:%d: unexpected %s", e.Line, e.Column, e.Found)
}

// Precedence levels for operators.
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x or !x
	CALL        // fn(x)
	INDEX       // arr[i]
)

var precedences = map[lexer.TokenType]int{
	lexer.TOKEN_OR:       OR,
	lexer.TOKEN_AND:      AND,
	lexer.TOKEN_EQ:       EQUALS,
	lexer.TOKEN_NEQ:      EQUALS,
	lexer.TOKEN_LT:       LESSGREATER,
	lexer.TOKEN_LTE:      LESSGREATER,
	lexer.TOKEN_GT:       LESSGREATER,
	lexer.TOKEN_GTE:      LESSGREATER,
	lexer.TOKEN_PLUS:     SUM,
	lexer.TOKEN_MINUS:    SUM,
	lexer.TOKEN_ASTERISK: PRODUCT,
	lexer.TOKEN_SLASH:    PRODUCT,
	lexer.TOKEN_PERCENT:  PRODUCT,
	lexer.TOKEN_LPAREN:   CALL,
	lexer.TOKEN_LBRACKET: INDEX,
}

// Parser parses a token stream into an AST. Parsing is a one-shot, pure
// function of the tokens: the produced AST does not depend on runtime state.
type Parser struct {
	tokens []lexer.Token
	pos    int

	curToken  lexer.Token
	peekToken lexer.Token

	loopDepth int
	atTop     bool

	err *ParseError

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

// bailout aborts parsing on the first error; recovered in Parse.
type bailout struct{}

// Parse parses a token sequence (as produced by lexer.Tokenize) into a
// Program, or fails with a *ParseError.
func Parse(tokens []lexer.Token) (*Program, error) {
	p := newParser(tokens)
	program, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	return program, nil
}

// ParseSource tokenizes and parses source text in one call.
func ParseSource(source string) (*Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func newParser(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens, atTop: true}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.TOKEN_IDENT:    p.parseIdentifier,
		lexer.TOKEN_INT:      p.parseIntegerLiteral,
		lexer.TOKEN_FLOAT:    p.parseFloatLiteral,
		lexer.TOKEN_STRING:   p.parseStringLiteral,
		lexer.TOKEN_TRUE:     p.parseBoolLiteral,
		lexer.TOKEN_FALSE:    p.parseBoolLiteral,
		lexer.TOKEN_NOT:      p.parseUnaryExpression,
		lexer.TOKEN_MINUS:    p.parseUnaryExpression,
		lexer.TOKEN_LPAREN:   p.parseGroupedExpression,
		lexer.TOKEN_LBRACKET: p.parseArrayLiteral,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.TOKEN_PLUS:     p.parseBinaryExpression,
		lexer.TOKEN_MINUS:    p.parseBinaryExpression,
		lexer.TOKEN_ASTERISK: p.parseBinaryExpression,
		lexer.TOKEN_SLASH:    p.parseBinaryExpression,
		lexer.TOKEN_PERCENT:  p.parseBinaryExpression,
		lexer.TOKEN_EQ:       p.parseBinaryExpression,
		lexer.TOKEN_NEQ:      p.parseBinaryExpression,
		lexer.TOKEN_LT:       p.parseBinaryExpression,
		lexer.TOKEN_LTE:      p.parseBinaryExpression,
		lexer.TOKEN_GT:       p.parseBinaryExpression,
		lexer.TOKEN_GTE:      p.parseBinaryExpression,
		lexer.TOKEN_AND:      p.parseBinaryExpression,
		lexer.TOKEN_OR:       p.parseBinaryExpression,
		lexer.TOKEN_LPAREN:   p.parseCallExpression,
		lexer.TOKEN_LBRACKET: p.parseIndexExpression,
	}

	// Read two tokens to initialize curToken and peekToken.
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) parseProgram() (program *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			program = nil
			err = p.err
		}
	}()

	program = &Program{Statements: []Statement{}}

	for p.curToken.Type != lexer.TOKEN_EOF {
		if p.curToken.Type == lexer.TOKEN_SEMICOLON {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	return program, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = lexer.Token{Type: lexer.TOKEN_EOF, Line: p.curToken.Line, Column: p.curToken.Column}
	}
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances when the next token matches, or aborts with an error.
func (p *Parser) expectPeek(t lexer.TokenType) {
	if !p.peekTokenIs(t) {
		p.errorAt(p.peekToken, t.String())
	}
	p.nextToken()
}

// errorAt records a ParseError and aborts parsing.
func (p *Parser) errorAt(tok lexer.Token, expected string) {
	found := tok.Type.String()
	if tok.Type == lexer.TOKEN_IDENT || tok.Type.IsLiteral() {
		found = fmt.Sprintf("%s %q", found, tok.Literal)
	}
	p.err = &ParseError{Line: tok.Line, Column: tok.Column, Expected: expected, Found: found}
	panic(bailout{})
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ============================================================================
// Statements
// ============================================================================

func (p *Parser) parseStatement() Statement {
	switch p.curToken.Type {
	case lexer.TOKEN_GLOBAL:
		return p.parseGlobalAssignStatement()
	case lexer.TOKEN_IF:
		return p.parseIfStatement()
	case lexer.TOKEN_WHILE:
		return p.parseWhileStatement()
	case lexer.TOKEN_BREAK:
		if p.loopDepth == 0 {
			p.errorAt(p.curToken, "break inside a loop")
		}
		return &BreakStatement{Token: p.curToken}
	case lexer.TOKEN_CONTINUE:
		if p.loopDepth == 0 {
			p.errorAt(p.curToken, "continue inside a loop")
		}
		return &ContinueStatement{Token: p.curToken}
	case lexer.TOKEN_RETURN:
		return p.parseReturnStatement()
	case lexer.TOKEN_IDENT:
		// Function definitions exist only at the top level; everywhere
		// else "name(" is a call.
		if p.atTop && p.looksLikeFunctionDef() {
			return p.parseFunctionStatement()
		}
		if p.peekTokenIs(lexer.TOKEN_ASSIGN) {
			return p.parseAssignStatement(false)
		}
		if p.peekTokenIs(lexer.TOKEN_LBRACKET) {
			// Could be arr[i] = value or a bare index expression.
			expr := p.parseExpression(LOWEST)
			if p.peekTokenIs(lexer.TOKEN_ASSIGN) {
				stmt := &AssignStatement{Token: p.curToken, Name: expr}
				p.nextToken() // move to =
				p.nextToken()
				stmt.Value = p.parseExpression(LOWEST)
				return stmt
			}
			return &ExpressionStatement{Token: p.curToken, Expression: expr}
		}
		return p.parseExpressionStatement()
	default:
		if p.prefixParseFns[p.curToken.Type] == nil {
			p.errorAt(p.curToken, "statement")
		}
		return p.parseExpressionStatement()
	}
}

// looksLikeFunctionDef reports whether the tokens starting at curToken
// form "name ( params ) {". The scan is bounded by the matching paren.
func (p *Parser) looksLikeFunctionDef() bool {
	if !p.peekTokenIs(lexer.TOKEN_LPAREN) {
		return false
	}
	// p.pos indexes the token after peekToken.
	depth := 1
	i := p.pos
	for i < len(p.tokens) {
		switch p.tokens[i].Type {
		case lexer.TOKEN_LPAREN:
			depth++
		case lexer.TOKEN_RPAREN:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Type == lexer.TOKEN_LBRACE
			}
		case lexer.TOKEN_EOF:
			return false
		}
		i++
	}
	return false
}

func (p *Parser) parseFunctionStatement() Statement {
	stmt := &FunctionStatement{Token: p.curToken, Name: p.curToken.Literal}

	p.expectPeek(lexer.TOKEN_LPAREN)

	seen := make(map[string]bool)
	if !p.peekTokenIs(lexer.TOKEN_RPAREN) {
		for {
			p.expectPeek(lexer.TOKEN_IDENT)
			name := p.curToken.Literal
			if seen[name] {
				p.errorAt(p.curToken, fmt.Sprintf("distinct parameter names (duplicate %q)", name))
			}
			seen[name] = true
			stmt.Parameters = append(stmt.Parameters, name)
			if !p.peekTokenIs(lexer.TOKEN_COMMA) {
				break
			}
			p.nextToken() // consume comma
		}
	}
	p.expectPeek(lexer.TOKEN_RPAREN)
	p.expectPeek(lexer.TOKEN_LBRACE)

	wasTop := p.atTop
	p.atTop = false
	stmt.Body = p.parseBlockStatement()
	p.atTop = wasTop

	return stmt
}

func (p *Parser) parseBlockStatement() *BlockStatement {
	// curToken is LBRACE on entry; RBRACE is current on exit.
	block := &BlockStatement{Token: p.curToken, Statements: []Statement{}}

	p.nextToken()
	for !p.curTokenIs(lexer.TOKEN_RBRACE) {
		if p.curTokenIs(lexer.TOKEN_EOF) {
			p.errorAt(p.curToken, "}")
		}
		if p.curTokenIs(lexer.TOKEN_SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}

	return block
}

func (p *Parser) parseAssignStatement(global bool) Statement {
	stmt := &AssignStatement{Token: p.curToken, Global: global}
	stmt.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	p.expectPeek(lexer.TOKEN_ASSIGN)

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)

	return stmt
}

func (p *Parser) parseGlobalAssignStatement() Statement {
	p.expectPeek(lexer.TOKEN_IDENT)
	return p.parseAssignStatement(true)
}

func (p *Parser) parseIfStatement() Statement {
	stmt := &IfStatement{Token: p.curToken}

	p.nextToken()
	if p.curTokenIs(lexer.TOKEN_LPAREN) {
		// Parenthesized conditions are allowed but not required.
		stmt.Condition = p.parseGroupedExpression()
	} else {
		stmt.Condition = p.parseExpression(LOWEST)
	}

	p.expectPeek(lexer.TOKEN_LBRACE)
	stmt.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(lexer.TOKEN_ELSE) {
		p.nextToken() // move to else
		if p.peekTokenIs(lexer.TOKEN_IF) {
			p.nextToken()
			stmt.Alternative = p.parseIfStatement()
		} else {
			p.expectPeek(lexer.TOKEN_LBRACE)
			stmt.Alternative = p.parseBlockStatement()
		}
	}

	return stmt
}

func (p *Parser) parseWhileStatement() Statement {
	stmt := &WhileStatement{Token: p.curToken}

	p.nextToken()
	if p.curTokenIs(lexer.TOKEN_LPAREN) {
		stmt.Condition = p.parseGroupedExpression()
	} else {
		stmt.Condition = p.parseExpression(LOWEST)
	}

	p.expectPeek(lexer.TOKEN_LBRACE)

	p.loopDepth++
	stmt.Body = p.parseBlockStatement()
	p.loopDepth--

	return stmt
}

func (p *Parser) parseReturnStatement() Statement {
	stmt := &ReturnStatement{Token: p.curToken}

	// A value is present when the next token can start an expression on
	// the same line; otherwise the return yields Void.
	if p.peekToken.Line == stmt.Token.Line && p.prefixParseFns[p.peekToken.Type] != nil {
		p.nextToken()
		stmt.ReturnValue = p.parseExpression(LOWEST)
	}

	return stmt
}

func (p *Parser) parseExpressionStatement() Statement {
	stmt := &ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	return stmt
}

// ============================================================================
// Expressions
// ============================================================================

func (p *Parser) parseExpression(precedence int) Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorAt(p.curToken, "expression")
	}
	leftExp := prefix()

	for !p.peekTokenIs(lexer.TOKEN_EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() Expression {
	return &Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() Expression {
	lit := &IntegerLiteral{Token: p.curToken}

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorAt(p.curToken, "integer literal")
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseFloatLiteral() Expression {
	lit := &FloatLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorAt(p.curToken, "float literal")
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() Expression {
	return &StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolLiteral() Expression {
	return &BoolLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TOKEN_TRUE)}
}

func (p *Parser) parseArrayLiteral() Expression {
	array := &ArrayLiteral{Token: p.curToken}
	array.Elements = p.parseExpressionList(lexer.TOKEN_RBRACKET)
	return array
}

func (p *Parser) parseUnaryExpression() Expression {
	expression := &UnaryExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)

	return expression
}

func (p *Parser) parseBinaryExpression(left Expression) Expression {
	expression := &BinaryExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)

	return expression
}

func (p *Parser) parseGroupedExpression() Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	p.expectPeek(lexer.TOKEN_RPAREN)
	return exp
}

func (p *Parser) parseCallExpression(function Expression) Expression {
	ident, ok := function.(*Identifier)
	if !ok {
		p.errorAt(p.curToken, "function name before '('")
	}

	exp := &CallExpression{Token: ident.Token, Function: ident.Value}
	exp.Arguments = p.parseExpressionList(lexer.TOKEN_RPAREN)
	return exp
}

func (p *Parser) parseIndexExpression(left Expression) Expression {
	exp := &IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	p.expectPeek(lexer.TOKEN_RBRACKET)

	return exp
}

// parseExpressionList parses a comma-separated expression list terminated
// by end. curToken is the opening delimiter on entry, end on exit.
func (p *Parser) parseExpressionList(end lexer.TokenType) []Expression {
	list := []Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	for p.peekTokenIs(lexer.TOKEN_COMMA) {
		p.nextToken() // move to comma
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	p.expectPeek(end)

	return list
}
