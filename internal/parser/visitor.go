package parser

// Visitor defines the visitor interface for AST traversal
type Visitor interface {
	VisitProgram(*Program) interface{}
	VisitBlock(*Block) interface{}
	VisitConstDecl(*ConstDecl) interface{}
	VisitProcedure(*Procedure) interface{}
	VisitAssignStatement(*AssignStatement) interface{}
	VisitCallStatement(*CallStatement) interface{}
	VisitCompoundStatement(*CompoundStatement) interface{}
	VisitIfStatement(*IfStatement) interface{}
	VisitWhileStatement(*WhileStatement) interface{}
	VisitOddCondition(*OddCondition) interface{}
	VisitComparisonCondition(*ComparisonCondition) interface{}
	VisitExpression(*Expression) interface{}
	VisitTerm(*Term) interface{}
	VisitNumberLiteral(*NumberLiteral) interface{}
	VisitVariableRef(*VariableRef) interface{}
	VisitParenExpression(*ParenExpression) interface{}
}

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. If f returns false the children of that node are skipped.
// Children are visited in source order. Nil nodes, including typed nil
// pointers in partially built trees, are skipped.
func Inspect(node Node, f func(Node) bool) {
	if isNil(node) || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		Inspect(n.Block, f)

	case *Block:
		for _, c := range n.Consts {
			Inspect(c, f)
		}
		for _, p := range n.Procedures {
			Inspect(p, f)
		}
		Inspect(n.Body, f)

	case *Procedure:
		Inspect(n.Body, f)

	case *AssignStatement:
		Inspect(n.Value, f)

	case *CompoundStatement:
		for _, s := range n.Statements {
			Inspect(s, f)
		}

	case *IfStatement:
		Inspect(n.Condition, f)
		Inspect(n.Then, f)

	case *WhileStatement:
		Inspect(n.Condition, f)
		Inspect(n.Body, f)

	case *OddCondition:
		Inspect(n.Expr, f)

	case *ComparisonCondition:
		Inspect(n.Left, f)
		Inspect(n.Right, f)

	case *Expression:
		Inspect(n.Head, f)
		for _, operand := range n.Tail {
			Inspect(operand.Term, f)
		}

	case *Term:
		Inspect(n.Head, f)
		for _, operand := range n.Tail {
			Inspect(operand.Factor, f)
		}

	case *ParenExpression:
		Inspect(n.Expr, f)
	}
}

func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *Program:
		return n == nil
	case *Block:
		return n == nil
	case *ConstDecl:
		return n == nil
	case *Procedure:
		return n == nil
	case *AssignStatement:
		return n == nil
	case *CallStatement:
		return n == nil
	case *CompoundStatement:
		return n == nil
	case *IfStatement:
		return n == nil
	case *WhileStatement:
		return n == nil
	case *OddCondition:
		return n == nil
	case *ComparisonCondition:
		return n == nil
	case *Expression:
		return n == nil
	case *Term:
		return n == nil
	case *NumberLiteral:
		return n == nil
	case *VariableRef:
		return n == nil
	case *ParenExpression:
		return n == nil
	}
	return false
}
