// Package parser implements the PL/0 recursive descent parser and its AST.
package parser

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/pl0/internal/position"
)

// Node represents the base interface for all AST nodes
type Node interface {
	// GetSpan returns the source span for this node
	GetSpan() position.Span
	// String returns a string representation of the node
	String() string
	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}
}

// Statement is one of AssignStatement, CallStatement, CompoundStatement,
// IfStatement or WhileStatement.
type Statement interface {
	Node
	statementNode()
}

// Condition is either an OddCondition or a ComparisonCondition.
type Condition interface {
	Node
	conditionNode()
}

// Factor is one of NumberLiteral, VariableRef or ParenExpression.
type Factor interface {
	Node
	factorNode()
}

// Operator is the spelling of an arithmetic or comparison operator.
type Operator string

const (
	OpNone  Operator = ""
	OpPlus  Operator = "+"
	OpMinus Operator = "-"
	OpMul   Operator = "*"
	OpDiv   Operator = "/"
	OpEq    Operator = "="
	OpNe    Operator = "#"
	OpLt    Operator = "<"
	OpLe    Operator = "<="
	OpGt    Operator = ">"
	OpGe    Operator = ">="
)

// IsComparison reports whether op is valid between the operands of a condition.
func (op Operator) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// ====== Program structure ======

// Program represents the root of the AST
type Program struct {
	Span  position.Span
	Block *Block
}

func (p *Program) GetSpan() position.Span             { return p.Span }
func (p *Program) String() string                     { return "Program" }
func (p *Program) Accept(visitor Visitor) interface{} { return visitor.VisitProgram(p) }

// Block holds the declarations of one scope followed by its body.
type Block struct {
	Span       position.Span
	Consts     []*ConstDecl
	Vars       []string
	Procedures []*Procedure
	Body       Statement
}

func (b *Block) GetSpan() position.Span { return b.Span }
func (b *Block) String() string {
	return fmt.Sprintf("Block(%d consts, %d vars, %d procedures)", len(b.Consts), len(b.Vars), len(b.Procedures))
}
func (b *Block) Accept(visitor Visitor) interface{} { return visitor.VisitBlock(b) }

// ConstDecl binds a name to a number
type ConstDecl struct {
	Span    position.Span
	Name    string
	Value   int
	Literal string // digits as written in the source
}

func (c *ConstDecl) GetSpan() position.Span             { return c.Span }
func (c *ConstDecl) String() string                     { return fmt.Sprintf("%s = %d", c.Name, c.Value) }
func (c *ConstDecl) Accept(visitor Visitor) interface{} { return visitor.VisitConstDecl(c) }

// Procedure is a named nested block
type Procedure struct {
	Span position.Span
	Name string
	Body *Block
}

func (p *Procedure) GetSpan() position.Span             { return p.Span }
func (p *Procedure) String() string                     { return "procedure " + p.Name }
func (p *Procedure) Accept(visitor Visitor) interface{} { return visitor.VisitProcedure(p) }

// ====== Statements ======

// AssignStatement represents `name := expression`
type AssignStatement struct {
	Span  position.Span
	Name  string
	Value *Expression
}

func (a *AssignStatement) GetSpan() position.Span { return a.Span }
func (a *AssignStatement) String() string         { return fmt.Sprintf("%s := %s", a.Name, a.Value) }
func (a *AssignStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitAssignStatement(a)
}
func (a *AssignStatement) statementNode() {}

// CallStatement represents `call name`
type CallStatement struct {
	Span position.Span
	Name string
}

func (c *CallStatement) GetSpan() position.Span             { return c.Span }
func (c *CallStatement) String() string                     { return "call " + c.Name }
func (c *CallStatement) Accept(visitor Visitor) interface{} { return visitor.VisitCallStatement(c) }
func (c *CallStatement) statementNode()                     {}

// CompoundStatement represents `begin ... end`. Statements is empty for `begin end`.
type CompoundStatement struct {
	Span       position.Span
	Statements []Statement
}

func (c *CompoundStatement) GetSpan() position.Span { return c.Span }
func (c *CompoundStatement) String() string {
	return fmt.Sprintf("begin (%d statements) end", len(c.Statements))
}
func (c *CompoundStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitCompoundStatement(c)
}
func (c *CompoundStatement) statementNode() {}

// IfStatement represents `if condition then statement`
type IfStatement struct {
	Span      position.Span
	Condition Condition
	Then      Statement
}

func (i *IfStatement) GetSpan() position.Span             { return i.Span }
func (i *IfStatement) String() string                     { return fmt.Sprintf("if %s then ...", i.Condition) }
func (i *IfStatement) Accept(visitor Visitor) interface{} { return visitor.VisitIfStatement(i) }
func (i *IfStatement) statementNode()                     {}

// WhileStatement represents `while condition do statement`
type WhileStatement struct {
	Span      position.Span
	Condition Condition
	Body      Statement
}

func (w *WhileStatement) GetSpan() position.Span             { return w.Span }
func (w *WhileStatement) String() string                     { return fmt.Sprintf("while %s do ...", w.Condition) }
func (w *WhileStatement) Accept(visitor Visitor) interface{} { return visitor.VisitWhileStatement(w) }
func (w *WhileStatement) statementNode()                     {}

// ====== Conditions ======

// OddCondition represents `odd expression`
type OddCondition struct {
	Span position.Span
	Expr *Expression
}

func (o *OddCondition) GetSpan() position.Span             { return o.Span }
func (o *OddCondition) String() string                     { return "odd " + o.Expr.String() }
func (o *OddCondition) Accept(visitor Visitor) interface{} { return visitor.VisitOddCondition(o) }
func (o *OddCondition) conditionNode()                     {}

// ComparisonCondition represents `left op right`
type ComparisonCondition struct {
	Span     position.Span
	Operator Operator
	Left     *Expression
	Right    *Expression
}

func (c *ComparisonCondition) GetSpan() position.Span { return c.Span }
func (c *ComparisonCondition) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Operator, c.Right)
}
func (c *ComparisonCondition) Accept(visitor Visitor) interface{} {
	return visitor.VisitComparisonCondition(c)
}
func (c *ComparisonCondition) conditionNode() {}

// ====== Expressions ======

// TermOperand is one `(+|-) Term` pair of an Expression.
type TermOperand struct {
	Operator Operator
	Term     *Term
}

// Expression is an optionally signed, left-associative sum of terms:
// Sign Head Tail[0].Operator Tail[0].Term ...
type Expression struct {
	Span position.Span
	Sign Operator // OpNone, OpPlus or OpMinus
	Head *Term
	Tail []TermOperand
}

func (e *Expression) GetSpan() position.Span { return e.Span }
func (e *Expression) String() string {
	var sb strings.Builder
	sb.WriteString(string(e.Sign))
	sb.WriteString(e.Head.String())
	for _, operand := range e.Tail {
		fmt.Fprintf(&sb, " %s %s", operand.Operator, operand.Term)
	}
	return sb.String()
}
func (e *Expression) Accept(visitor Visitor) interface{} { return visitor.VisitExpression(e) }

// FactorOperand is one `(*|/) Factor` pair of a Term.
type FactorOperand struct {
	Operator Operator
	Factor   Factor
}

// Term is a left-associative product of factors.
type Term struct {
	Span position.Span
	Head Factor
	Tail []FactorOperand
}

func (t *Term) GetSpan() position.Span { return t.Span }
func (t *Term) String() string {
	var sb strings.Builder
	sb.WriteString(t.Head.String())
	for _, operand := range t.Tail {
		fmt.Fprintf(&sb, " %s %s", operand.Operator, operand.Factor)
	}
	return sb.String()
}
func (t *Term) Accept(visitor Visitor) interface{} { return visitor.VisitTerm(t) }

// NumberLiteral is a decimal integer literal
type NumberLiteral struct {
	Span    position.Span
	Value   int
	Literal string // digits as written in the source
}

func (n *NumberLiteral) GetSpan() position.Span             { return n.Span }
func (n *NumberLiteral) String() string                     { return fmt.Sprintf("%d", n.Value) }
func (n *NumberLiteral) Accept(visitor Visitor) interface{} { return visitor.VisitNumberLiteral(n) }
func (n *NumberLiteral) factorNode()                        {}

// VariableRef names a constant or variable
type VariableRef struct {
	Span position.Span
	Name string
}

func (v *VariableRef) GetSpan() position.Span             { return v.Span }
func (v *VariableRef) String() string                     { return v.Name }
func (v *VariableRef) Accept(visitor Visitor) interface{} { return visitor.VisitVariableRef(v) }
func (v *VariableRef) factorNode()                        {}

// ParenExpression is a parenthesized sub-expression
type ParenExpression struct {
	Span position.Span
	Expr *Expression
}

func (p *ParenExpression) GetSpan() position.Span { return p.Span }
func (p *ParenExpression) String() string         { return "(" + p.Expr.String() + ")" }
func (p *ParenExpression) Accept(visitor Visitor) interface{} {
	return visitor.VisitParenExpression(p)
}
func (p *ParenExpression) factorNode() {}
