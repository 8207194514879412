package parser

import (
	"github.com/orizon-lang/pl0/internal/lexer"
	"github.com/orizon-lang/pl0/internal/position"
)

// LanguageVersion is the version of the PL/0 grammar this parser accepts.
const LanguageVersion = "1.0.0"

// Parser is a recursive descent parser pulling tokens lazily from a Lexer.
// Lookahead is done by saving and restoring the lexer cursor; the grammar
// never needs more than one token per decision.
type Parser struct {
	lexer   *lexer.Lexer
	prevEnd position.Position // end of the last consumed token
}

// New creates a new parser reading from l
func New(l *lexer.Lexer) *Parser {
	return &Parser{lexer: l}
}

// Parse parses src with default lexer options.
func Parse(src string) (*Program, error) {
	return New(lexer.New(src)).ParseProgram()
}

// ParseFile parses src, attributing positions to filename.
func ParseFile(filename, src string, opts lexer.Options) (*Program, error) {
	return New(lexer.NewWithOptions(src, filename, opts)).ParseProgram()
}

// ====== Token primitives ======

// next fetches the next token and records its end.
func (p *Parser) next() (lexer.Token, error) {
	tok, err := p.lexer.Next()
	if err != nil {
		return tok, err
	}
	p.prevEnd = tok.Span.End
	return tok, nil
}

// check consumes the next token if it matches tt and literal. On mismatch
// the cursor is restored and the stream is left untouched.
func (p *Parser) check(tt lexer.TokenType, literal string) (bool, error) {
	offset, prevEnd := p.lexer.Offset(), p.prevEnd

	tok, err := p.next()
	if err != nil {
		return false, err
	}
	if tok.Is(tt, literal) {
		return true, nil
	}

	p.lexer.Reset(offset)
	p.prevEnd = prevEnd
	return false, nil
}

// expect requires the next token to match tt and literal exactly.
func (p *Parser) expect(tt lexer.TokenType, literal, rule string) (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if !tok.Is(tt, literal) {
		return tok, p.errorAt(tok, rule, "'"+literal+"'")
	}
	return tok, nil
}

// expectKind requires the next token to be of type tt, whatever its spelling.
func (p *Parser) expectKind(tt lexer.TokenType, rule, expected string) (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if tok.Type != tt {
		return tok, p.errorAt(tok, rule, expected)
	}
	return tok, nil
}

func (p *Parser) errorAt(tok lexer.Token, rule, expected string) *ParseError {
	return &ParseError{
		Pos:      tok.Span.Start,
		Rule:     rule,
		Expected: expected,
		Found:    tok,
	}
}

// pos returns the start of the next token without consuming it.
func (p *Parser) pos() position.Position {
	return p.lexer.File().PositionFromOffset(p.lexer.NextStart())
}

func (p *Parser) spanFrom(start position.Position) position.Span {
	return position.Span{Start: start, End: p.prevEnd}
}

// ====== Grammar Rules ======

// ParseProgram parses `Block "."` and requires the input to end there.
func (p *Parser) ParseProgram() (*Program, error) {
	start := p.pos()

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenOperator, ".", "program"); err != nil {
		return nil, err
	}

	program := &Program{Span: p.spanFrom(start), Block: block}

	if _, err := p.expectKind(lexer.TokenEOF, "program", "end of input"); err != nil {
		return nil, err
	}

	return program, nil
}

// parseBlock parses the const, var and procedure sections, in that fixed
// order, followed by exactly one statement.
func (p *Parser) parseBlock() (*Block, error) {
	start := p.pos()
	block := &Block{}

	ok, err := p.check(lexer.TokenKeyword, "const")
	if err != nil {
		return nil, err
	}
	if ok {
		if block.Consts, err = p.parseConstList(); err != nil {
			return nil, err
		}
	}

	if ok, err = p.check(lexer.TokenKeyword, "var"); err != nil {
		return nil, err
	}
	if ok {
		if block.Vars, err = p.parseIdentList(); err != nil {
			return nil, err
		}
	}

	for {
		procStart := p.pos()
		if ok, err = p.check(lexer.TokenKeyword, "procedure"); err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		proc, err := p.parseProcedure(procStart)
		if err != nil {
			return nil, err
		}
		block.Procedures = append(block.Procedures, proc)
	}

	if block.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}

	block.Span = p.spanFrom(start)
	return block, nil
}

// parseConstList parses `Ident "=" Number { "," Ident "=" Number } ";"`
// after the "const" keyword.
func (p *Parser) parseConstList() ([]*ConstDecl, error) {
	var consts []*ConstDecl

	for {
		name, err := p.expectKind(lexer.TokenIdentifier, "const declaration", "identifier")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenOperator, "=", "const declaration"); err != nil {
			return nil, err
		}
		num, err := p.expectKind(lexer.TokenNumber, "const declaration", "number")
		if err != nil {
			return nil, err
		}

		consts = append(consts, &ConstDecl{
			Span:    position.Span{Start: name.Span.Start, End: num.Span.End},
			Name:    name.Literal,
			Value:   num.Value,
			Literal: num.Literal,
		})

		done, err := p.listSeparator("const declaration")
		if err != nil {
			return nil, err
		}
		if done {
			return consts, nil
		}
	}
}

// parseIdentList parses `Ident { "," Ident } ";"` after the "var" keyword.
func (p *Parser) parseIdentList() ([]string, error) {
	var names []string

	for {
		name, err := p.expectKind(lexer.TokenIdentifier, "var declaration", "identifier")
		if err != nil {
			return nil, err
		}
		names = append(names, name.Literal)

		done, err := p.listSeparator("var declaration")
		if err != nil {
			return nil, err
		}
		if done {
			return names, nil
		}
	}
}

// listSeparator consumes ";" (done) or "," (more items follow).
func (p *Parser) listSeparator(rule string) (bool, error) {
	ok, err := p.check(lexer.TokenOperator, ";")
	if err != nil || ok {
		return ok, err
	}

	tok, err := p.next()
	if err != nil {
		return false, err
	}
	if !tok.Is(lexer.TokenOperator, ",") {
		return false, p.errorAt(tok, rule, "',' or ';'")
	}
	return false, nil
}

// parseProcedure parses `Ident ";" Block ";"` after the "procedure" keyword.
func (p *Parser) parseProcedure(start position.Position) (*Procedure, error) {
	name, err := p.expectKind(lexer.TokenIdentifier, "procedure declaration", "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenOperator, ";", "procedure declaration"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenOperator, ";", "procedure declaration"); err != nil {
		return nil, err
	}

	return &Procedure{Span: p.spanFrom(start), Name: name.Literal, Body: body}, nil
}

// checkKeyword consumes the first of keywords that matches the next token
// and returns it, or "" when none does.
func (p *Parser) checkKeyword(keywords ...string) (string, error) {
	for _, kw := range keywords {
		ok, err := p.check(lexer.TokenKeyword, kw)
		if err != nil {
			return "", err
		}
		if ok {
			return kw, nil
		}
	}
	return "", nil
}

// parseStatement tries call, begin, if and while in that order; anything
// else must be an assignment.
func (p *Parser) parseStatement() (Statement, error) {
	start := p.pos()

	kw, err := p.checkKeyword("call", "begin", "if", "while")
	if err != nil {
		return nil, err
	}

	switch kw {
	case "call":
		name, err := p.expectKind(lexer.TokenIdentifier, "call statement", "identifier")
		if err != nil {
			return nil, err
		}
		return &CallStatement{Span: p.spanFrom(start), Name: name.Literal}, nil

	case "begin":
		compound, err := p.parseCompound(start)
		if err != nil {
			return nil, err
		}
		return compound, nil

	case "if":
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenKeyword, "then", "if statement"); err != nil {
			return nil, err
		}
		then, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &IfStatement{Span: p.spanFrom(start), Condition: cond, Then: then}, nil

	case "while":
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenKeyword, "do", "while statement"); err != nil {
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &WhileStatement{Span: p.spanFrom(start), Condition: cond, Body: body}, nil
	}

	name, err := p.expectKind(lexer.TokenIdentifier, "statement", "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenOperator, ":=", "assignment"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &AssignStatement{Span: p.spanFrom(start), Name: name.Literal, Value: value}, nil
}

// parseCompound parses `Statement { ";" Statement } "end"` after "begin".
// `begin end` yields an empty compound statement.
func (p *Parser) parseCompound(start position.Position) (*CompoundStatement, error) {
	compound := &CompoundStatement{Statements: []Statement{}}

	ok, err := p.check(lexer.TokenKeyword, "end")
	if err != nil {
		return nil, err
	}

	for !ok {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		compound.Statements = append(compound.Statements, stmt)

		if ok, err = p.check(lexer.TokenKeyword, "end"); err != nil {
			return nil, err
		}
		if ok {
			break
		}

		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !tok.Is(lexer.TokenOperator, ";") {
			return nil, p.errorAt(tok, "compound statement", "';' or 'end'")
		}
	}

	compound.Span = p.spanFrom(start)
	return compound, nil
}

// parseCondition parses `"odd" Expression | Expression CompareOp Expression`.
func (p *Parser) parseCondition() (Condition, error) {
	start := p.pos()

	ok, err := p.check(lexer.TokenKeyword, "odd")
	if err != nil {
		return nil, err
	}
	if ok {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &OddCondition{Span: p.spanFrom(start), Expr: expr}, nil
	}

	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	op := Operator(tok.Literal)
	if tok.Type != lexer.TokenOperator || !op.IsComparison() {
		return nil, p.errorAt(tok, "condition", "comparison operator")
	}

	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ComparisonCondition{Span: p.spanFrom(start), Operator: op, Left: left, Right: right}, nil
}

// checkOperator consumes the first of ops that matches the next token.
func (p *Parser) checkOperator(ops ...Operator) (Operator, error) {
	for _, op := range ops {
		ok, err := p.check(lexer.TokenOperator, string(op))
		if err != nil {
			return OpNone, err
		}
		if ok {
			return op, nil
		}
	}
	return OpNone, nil
}

// parseExpression parses `[ "+" | "-" ] Term { ("+" | "-") Term }`.
func (p *Parser) parseExpression() (*Expression, error) {
	start := p.pos()

	sign, err := p.checkOperator(OpPlus, OpMinus)
	if err != nil {
		return nil, err
	}

	head, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	expr := &Expression{Sign: sign, Head: head}

	for {
		op, err := p.checkOperator(OpPlus, OpMinus)
		if err != nil {
			return nil, err
		}
		if op == OpNone {
			break
		}

		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr.Tail = append(expr.Tail, TermOperand{Operator: op, Term: term})
	}

	expr.Span = p.spanFrom(start)
	return expr, nil
}

// parseTerm parses `Factor { ("*" | "/") Factor }`.
func (p *Parser) parseTerm() (*Term, error) {
	start := p.pos()

	head, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	term := &Term{Head: head}

	for {
		op, err := p.checkOperator(OpMul, OpDiv)
		if err != nil {
			return nil, err
		}
		if op == OpNone {
			break
		}

		factor, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		term.Tail = append(term.Tail, FactorOperand{Operator: op, Factor: factor})
	}

	term.Span = p.spanFrom(start)
	return term, nil
}

// parseFactor parses `Number | Ident | "(" Expression ")"`.
func (p *Parser) parseFactor() (Factor, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch {
	case tok.Type == lexer.TokenNumber:
		return &NumberLiteral{Span: tok.Span, Value: tok.Value, Literal: tok.Literal}, nil

	case tok.Type == lexer.TokenIdentifier:
		return &VariableRef{Span: tok.Span, Name: tok.Literal}, nil

	case tok.Is(lexer.TokenOperator, "("):
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenOperator, ")", "factor"); err != nil {
			return nil, err
		}
		return &ParenExpression{Span: position.Span{Start: tok.Span.Start, End: p.prevEnd}, Expr: expr}, nil
	}

	return nil, p.errorAt(tok, "factor", "number, identifier or '('")
}
