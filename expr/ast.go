package expr

import (
	"strconv"
	"strings"

	"github.com/nasdf/forma/value"
)

// Expression is a trivia-free evaluation tree. The reference type R is a
// string name in unbound expressions and a VariableReference after binding.
type Expression[R any] interface {
	isExpression()
}

// Value is a literal value.
type Value[R any] struct {
	Literal value.Variant
}

// Variable is a reference to a variable.
type Variable[R any] struct {
	Ref R
}

// Unary is a prefix operator applied to an operand.
type Unary[R any] struct {
	Op      string
	Operand Expression[R]
}

// Binary is an infix operator applied to two operands.
type Binary[R any] struct {
	Op    string
	Left  Expression[R]
	Right Expression[R]
}

// Call is a function applied to a list of arguments.
type Call[R any] struct {
	Name string
	Args []Expression[R]
}

func (*Value[R]) isExpression()    {}
func (*Variable[R]) isExpression() {}
func (*Unary[R]) isExpression()    {}
func (*Binary[R]) isExpression()   {}
func (*Call[R]) isExpression()     {}

// UnboundExpression references variables by name.
type UnboundExpression = Expression[string]

// BoundExpression references variables by stable reference.
type BoundExpression = Expression[VariableReference]

// ToUnbound converts the concrete syntax tree into its trivia-free
// evaluation tree. The conversion is total on parsed trees; integer literals
// that overflow an int fall back to double values.
func (c *CST) ToUnbound() UnboundExpression {
	return toUnbound(c.Root)
}

func toUnbound(node SyntaxNode) UnboundExpression {
	switch n := node.(type) {
	case *NumberSyntax:
		return &Value[string]{Literal: numberValue(n.Literal)}
	case *VariableSyntax:
		return &Variable[string]{Ref: n.Identifier.Text}
	case *UnarySyntax:
		return &Unary[string]{Op: n.Operator.Text, Operand: toUnbound(n.Operand)}
	case *BinarySyntax:
		return &Binary[string]{Op: n.Operator.Text, Left: toUnbound(n.Left), Right: toUnbound(n.Right)}
	case *ParenthesisSyntax:
		return toUnbound(n.Expression)
	case *FunctionCallSyntax:
		args := make([]UnboundExpression, len(n.Arguments))
		for i, arg := range n.Arguments {
			args[i] = toUnbound(arg)
		}
		return &Call[string]{Name: n.Name.Text, Args: args}
	default:
		panic("expr: unknown syntax node")
	}
}

func numberValue(token Token) value.Variant {
	text := strings.ReplaceAll(token.Text, "_", "")
	if token.Kind == TokenInt {
		i, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return value.Int(i)
		}
	}
	f, _ := strconv.ParseFloat(text, 64)
	return value.Double(f)
}
