// Package astdump converts PL/0 syntax trees into a neutral node tree and
// encodes it as indented text, JSON or YAML.
package astdump

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/pl0/internal/parser"
)

// Format selects the output encoding.
type Format int

const (
	FormatTree Format = iota
	FormatJSON
	FormatYAML
)

// String returns the configuration spelling of the format
func (f Format) String() string {
	switch f {
	case FormatTree:
		return "tree"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat converts "tree", "json" or "yaml" into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tree", "text":
		return FormatTree, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unknown output format %q (want tree, json or yaml)", s)
}

// Node is one entry of the dump tree. Op holds the operator that joins a
// term or factor to its predecessor, or the sign of an expression.
type Node struct {
	Kind     string  `json:"kind" yaml:"kind"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Value    *int    `json:"value,omitempty" yaml:"value,omitempty"`
	Op       string  `json:"op,omitempty" yaml:"op,omitempty"`
	Span     string  `json:"span,omitempty" yaml:"span,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Options controls what ends up in the dump.
type Options struct {
	// Spans includes the source span of every node.
	Spans bool
}

// Build converts an AST node into a dump tree.
func Build(node parser.Node, opts Options) *Node {
	b := &builder{opts: opts}
	return b.build(node)
}

type builder struct {
	opts Options
}

func (b *builder) node(kind string, n parser.Node, children ...*Node) *Node {
	out := &Node{Kind: kind, Children: children}
	if b.opts.Spans {
		out.Span = n.GetSpan().String()
	}
	return out
}

func (b *builder) build(node parser.Node) *Node {
	switch n := node.(type) {
	case *parser.Program:
		return b.node("Program", n, b.build(n.Block))

	case *parser.Block:
		out := b.node("Block", n)
		for _, c := range n.Consts {
			out.Children = append(out.Children, b.build(c))
		}
		for _, v := range n.Vars {
			out.Children = append(out.Children, &Node{Kind: "Var", Name: v})
		}
		for _, p := range n.Procedures {
			out.Children = append(out.Children, b.build(p))
		}
		out.Children = append(out.Children, b.build(n.Body))
		return out

	case *parser.ConstDecl:
		out := b.node("Const", n)
		out.Name = n.Name
		out.Value = intPtr(n.Value)
		return out

	case *parser.Procedure:
		out := b.node("Procedure", n, b.build(n.Body))
		out.Name = n.Name
		return out

	case *parser.AssignStatement:
		out := b.node("Assign", n, b.build(n.Value))
		out.Name = n.Name
		return out

	case *parser.CallStatement:
		out := b.node("Call", n)
		out.Name = n.Name
		return out

	case *parser.CompoundStatement:
		out := b.node("Compound", n)
		for _, s := range n.Statements {
			out.Children = append(out.Children, b.build(s))
		}
		return out

	case *parser.IfStatement:
		return b.node("If", n, b.build(n.Condition), b.build(n.Then))

	case *parser.WhileStatement:
		return b.node("While", n, b.build(n.Condition), b.build(n.Body))

	case *parser.OddCondition:
		return b.node("Odd", n, b.build(n.Expr))

	case *parser.ComparisonCondition:
		out := b.node("Comparison", n, b.build(n.Left), b.build(n.Right))
		out.Op = string(n.Operator)
		return out

	case *parser.Expression:
		out := b.node("Expression", n, b.build(n.Head))
		out.Op = string(n.Sign)
		for _, operand := range n.Tail {
			term := b.build(operand.Term)
			term.Op = string(operand.Operator)
			out.Children = append(out.Children, term)
		}
		return out

	case *parser.Term:
		out := b.node("Term", n, b.build(n.Head))
		for _, operand := range n.Tail {
			factor := b.build(operand.Factor)
			factor.Op = string(operand.Operator)
			out.Children = append(out.Children, factor)
		}
		return out

	case *parser.NumberLiteral:
		out := b.node("Number", n)
		out.Value = intPtr(n.Value)
		return out

	case *parser.VariableRef:
		out := b.node("Ref", n)
		out.Name = n.Name
		return out

	case *parser.ParenExpression:
		return b.node("Paren", n, b.build(n.Expr))
	}

	return &Node{Kind: fmt.Sprintf("%T", node)}
}

func intPtr(v int) *int {
	return &v
}

// Encode writes the dump of node to w in the given format.
func Encode(w io.Writer, node parser.Node, format Format, opts Options) error {
	tree := Build(node, opts)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(tree)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()

	case FormatTree:
		return writeTree(w, tree, 0)
	}

	return fmt.Errorf("unsupported format %s", format)
}

// writeTree prints one line per node, children indented by two spaces.
func writeTree(w io.Writer, n *Node, depth int) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n.label()); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := writeTree(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) label() string {
	parts := []string{n.Kind}
	if n.Op != "" {
		parts = append(parts, "op="+n.Op)
	}
	if n.Name != "" {
		parts = append(parts, "name="+n.Name)
	}
	if n.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%d", *n.Value))
	}
	if n.Span != "" {
		parts = append(parts, "@"+n.Span)
	}
	return strings.Join(parts, " ")
}
