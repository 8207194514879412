package format

import (
	"strconv"
	"strings"

	"github.com/orizon-lang/pl0/internal/parser"
)

// ASTFormatter prints an AST as PL/0 source. It implements parser.Visitor;
// every Visit method writes to the buffer and returns nil.
type ASTFormatter struct {
	options Options
	indent  int
	buffer  strings.Builder
}

// NewASTFormatter creates a new AST formatter with the given options
func NewASTFormatter(options Options) *ASTFormatter {
	if options.IndentSize <= 0 {
		options.IndentSize = DefaultOptions().IndentSize
	}
	return &ASTFormatter{options: options}
}

// Program renders a whole program with the given options.
func Program(program *parser.Program, options Options) string {
	return NewASTFormatter(options).FormatAST(program)
}

// FormatAST formats node and returns the source text. Statements and
// expressions are rendered without a trailing newline.
func (f *ASTFormatter) FormatAST(node parser.Node) string {
	f.buffer.Reset()
	f.indent = 0

	if node != nil {
		node.Accept(f)
	}

	return f.buffer.String()
}

func (f *ASTFormatter) VisitProgram(p *parser.Program) interface{} {
	p.Block.Accept(f)
	f.writeString(".\n")
	return nil
}

func (f *ASTFormatter) VisitBlock(b *parser.Block) interface{} {
	if len(b.Consts) > 0 {
		f.writeIndent()
		f.writeString("const ")
		for i, c := range b.Consts {
			if i > 0 {
				f.writeString(", ")
			}
			c.Accept(f)
		}
		f.writeString(";\n")
	}

	if len(b.Vars) > 0 {
		f.writeIndent()
		f.writeString("var " + strings.Join(b.Vars, ", ") + ";\n")
	}

	if len(b.Consts) > 0 || len(b.Vars) > 0 {
		f.writeNewline()
	}

	for _, proc := range b.Procedures {
		proc.Accept(f)
		f.writeNewline()
	}

	f.writeIndent()
	b.Body.Accept(f)
	return nil
}

func (f *ASTFormatter) VisitConstDecl(c *parser.ConstDecl) interface{} {
	f.writeString(c.Name + " = " + formatNumber(c.Literal, c.Value))
	return nil
}

func (f *ASTFormatter) VisitProcedure(p *parser.Procedure) interface{} {
	f.writeIndent()
	f.writeString("procedure " + p.Name + ";\n")

	f.indent++
	p.Body.Accept(f)
	f.indent--

	f.writeString(";\n")
	return nil
}

func (f *ASTFormatter) VisitAssignStatement(a *parser.AssignStatement) interface{} {
	f.writeString(a.Name + " := ")
	a.Value.Accept(f)
	return nil
}

func (f *ASTFormatter) VisitCallStatement(c *parser.CallStatement) interface{} {
	f.writeString("call " + c.Name)
	return nil
}

func (f *ASTFormatter) VisitCompoundStatement(c *parser.CompoundStatement) interface{} {
	if len(c.Statements) == 0 {
		f.writeString("begin end")
		return nil
	}

	f.writeString("begin\n")
	f.indent++
	for i, stmt := range c.Statements {
		if i > 0 {
			f.writeString(";\n")
		}
		f.writeIndent()
		stmt.Accept(f)
	}
	f.indent--
	f.writeNewline()
	f.writeIndent()
	f.writeString("end")
	return nil
}

func (f *ASTFormatter) VisitIfStatement(i *parser.IfStatement) interface{} {
	f.writeString("if ")
	i.Condition.Accept(f)
	f.writeString(" then")
	f.writeNested(i.Then)
	return nil
}

func (f *ASTFormatter) VisitWhileStatement(w *parser.WhileStatement) interface{} {
	f.writeString("while ")
	w.Condition.Accept(f)
	f.writeString(" do")
	f.writeNested(w.Body)
	return nil
}

// writeNested places a compound body on the same line as its header and
// any other statement on its own, further indented line.
func (f *ASTFormatter) writeNested(stmt parser.Statement) {
	if _, ok := stmt.(*parser.CompoundStatement); ok {
		f.writeString(" ")
		stmt.Accept(f)
		return
	}

	f.writeNewline()
	f.indent++
	f.writeIndent()
	stmt.Accept(f)
	f.indent--
}

func (f *ASTFormatter) VisitOddCondition(o *parser.OddCondition) interface{} {
	f.writeString("odd ")
	o.Expr.Accept(f)
	return nil
}

func (f *ASTFormatter) VisitComparisonCondition(c *parser.ComparisonCondition) interface{} {
	c.Left.Accept(f)
	f.writeString(" " + string(c.Operator) + " ")
	c.Right.Accept(f)
	return nil
}

func (f *ASTFormatter) VisitExpression(e *parser.Expression) interface{} {
	f.writeString(string(e.Sign))
	e.Head.Accept(f)
	for _, operand := range e.Tail {
		f.writeString(" " + string(operand.Operator) + " ")
		operand.Term.Accept(f)
	}
	return nil
}

func (f *ASTFormatter) VisitTerm(t *parser.Term) interface{} {
	t.Head.Accept(f)
	for _, operand := range t.Tail {
		f.writeString(" " + string(operand.Operator) + " ")
		operand.Factor.Accept(f)
	}
	return nil
}

func (f *ASTFormatter) VisitNumberLiteral(n *parser.NumberLiteral) interface{} {
	f.writeString(formatNumber(n.Literal, n.Value))
	return nil
}

func (f *ASTFormatter) VisitVariableRef(v *parser.VariableRef) interface{} {
	f.writeString(v.Name)
	return nil
}

func (f *ASTFormatter) VisitParenExpression(p *parser.ParenExpression) interface{} {
	f.writeString("(")
	p.Expr.Accept(f)
	f.writeString(")")
	return nil
}

// formatNumber keeps the source spelling of a literal. Nodes built in code
// without one print v as an unsigned decimal, which scans back to v even
// when v wrapped.
func formatNumber(literal string, v int) string {
	if literal != "" {
		return literal
	}
	return strconv.FormatUint(uint64(v), 10)
}

// Writing helper functions
func (f *ASTFormatter) writeString(s string) {
	f.buffer.WriteString(s)
}

func (f *ASTFormatter) writeNewline() {
	f.buffer.WriteString("\n")
}

func (f *ASTFormatter) writeIndent() {
	if f.options.PreferTabs {
		f.buffer.WriteString(strings.Repeat("\t", f.indent))
	} else {
		f.buffer.WriteString(strings.Repeat(" ", f.indent*f.options.IndentSize))
	}
}
