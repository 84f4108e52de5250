// Package parser provides syntax analysis for plot scripts (.PLS files).
package parser

import (
	"github.com/hazama/plotscript/pkg/lexer"
)

// Node is the interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Pos() (line, column int)
}

// Statement is the interface for all statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Expression is the interface for all expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of a parsed script. It is immutable after
// Parse returns and safe to share read-only across running instances.
type Program struct {
	Statements []Statement
}

// TokenLiteral returns the literal value of the first statement's token.
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Pos returns the position of the first statement.
func (p *Program) Pos() (int, int) {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return 0, 0
}

// Functions returns the top-level function definitions keyed by name.
func (p *Program) Functions() map[string]*FunctionStatement {
	fns := make(map[string]*FunctionStatement)
	for _, stmt := range p.Statements {
		if fn, ok := stmt.(*FunctionStatement); ok {
			fns[fn.Name] = fn
		}
	}
	return fns
}

// FunctionStatement represents a top-level function definition.
// Example: greet(who) { Message("hi " + who) }
type FunctionStatement struct {
	Token      lexer.Token
	Name       string
	Parameters []string
	Body       *BlockStatement
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *FunctionStatement) Pos() (int, int)      { return fs.Token.Line, fs.Token.Column }

// BlockStatement represents a brace-enclosed statement sequence.
type BlockStatement struct {
	Token      lexer.Token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Pos() (int, int)      { return bs.Token.Line, bs.Token.Column }

// AssignStatement represents an assignment statement.
// Example: x = expr, arr[i] = value, global score = 0
type AssignStatement struct {
	Token  lexer.Token
	Name   Expression // *Identifier or *IndexExpression
	Value  Expression
	Global bool // true for "global name = expr"
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) Pos() (int, int)      { return as.Token.Line, as.Token.Column }

// ExpressionStatement represents a bare expression used as a statement,
// primarily function calls.
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Pos() (int, int)      { return es.Token.Line, es.Token.Column }

// IfStatement represents an if statement with optional else / else-if.
type IfStatement struct {
	Token       lexer.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement // *BlockStatement or *IfStatement (else if), may be nil
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() (int, int)      { return is.Token.Line, is.Token.Column }

// WhileStatement represents a while loop.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() (int, int)      { return ws.Token.Line, ws.Token.Column }

// BreakStatement represents a break statement.
type BreakStatement struct {
	Token lexer.Token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) Pos() (int, int)      { return bs.Token.Line, bs.Token.Column }

// ContinueStatement represents a continue statement.
type ContinueStatement struct {
	Token lexer.Token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) Pos() (int, int)      { return cs.Token.Line, cs.Token.Column }

// ReturnStatement represents a return statement with an optional value.
type ReturnStatement struct {
	Token       lexer.Token
	ReturnValue Expression // nil when no value is given
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() (int, int)      { return rs.Token.Line, rs.Token.Column }

// ============================================================================
// Expression Nodes
// ============================================================================

// Identifier represents an identifier expression.
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() (int, int)      { return i.Token.Line, i.Token.Column }

// IntegerLiteral represents an integer literal expression.
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) Pos() (int, int)      { return il.Token.Line, il.Token.Column }

// FloatLiteral represents a floating point literal expression.
type FloatLiteral struct {
	Token lexer.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) Pos() (int, int)      { return fl.Token.Line, fl.Token.Column }

// StringLiteral represents a string literal expression.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Pos() (int, int)      { return sl.Token.Line, sl.Token.Column }

// BoolLiteral represents true or false.
type BoolLiteral struct {
	Token lexer.Token
	Value bool
}

func (bl *BoolLiteral) expressionNode()      {}
func (bl *BoolLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BoolLiteral) Pos() (int, int)      { return bl.Token.Line, bl.Token.Column }

// ArrayLiteral represents an array literal expression.
// Example: [1, 2, 3]
type ArrayLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) Pos() (int, int)      { return al.Token.Line, al.Token.Column }

// BinaryExpression represents a binary expression.
// Example: left + right, x == y
type BinaryExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) Pos() (int, int)      { return be.Token.Line, be.Token.Column }

// UnaryExpression represents a unary expression.
// Example: -x, !flag
type UnaryExpression struct {
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) Pos() (int, int)      { return ue.Token.Line, ue.Token.Column }

// CallExpression represents a function call expression.
// Example: fn(arg1, arg2)
type CallExpression struct {
	Token     lexer.Token
	Function  string
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() (int, int)      { return ce.Token.Line, ce.Token.Column }

// IndexExpression represents an array index expression.
// Example: arr[i]
type IndexExpression struct {
	Token lexer.Token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Pos() (int, int)      { return ie.Token.Line, ie.Token.Column }
