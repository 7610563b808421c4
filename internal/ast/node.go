// Package ast implements the implicit function's expression tree: a small
// algebraic AST of binary operators, constants and the three spatial
// variables, evaluated either under real-valued or interval-valued
// bindings.
//
// One interface and three concrete types (a shared binary-operator type
// for Add/Sub/Mul/Div/Exp, constant, variable), dispatch through a method
// rather than a type switch at every call site.
package ast

import (
	"math"

	"github.com/ThermalSpan/implicit-plotter/internal/errors"
	"github.com/ThermalSpan/implicit-plotter/internal/interval"
)

// Bindings maps a variable's character to a real value for Evaluate.
type Bindings map[rune]float32

// IntervalBindings maps a variable's character to an interval for
// EvaluateInterval.
type IntervalBindings map[rune]interval.Interval

// Node is any node of the expression tree. Binary operators exclusively
// own two child Nodes; Variable and Constant are leaves.
type Node interface {
	// Evaluate computes the node's real value. An unresolved Variable
	// panics with a *errors.ExprError of type BindingError - this is a
	// programmer error, never recoverable.
	Evaluate(b Bindings) float32

	// EvaluateInterval computes the sound enclosure(s) of the node's
	// value. The Cartesian iteration order over children's interval
	// sets is not observable and duplicates are not de-duplicated.
	EvaluateInterval(b IntervalBindings) interval.Set
}

type binary struct {
	left, right Node
	op          func(a, b interval.Interval) interval.Set
	realOp      func(a, b float32) float32
}

func (n *binary) Evaluate(b Bindings) float32 {
	return n.realOp(n.left.Evaluate(b), n.right.Evaluate(b))
}

func (n *binary) EvaluateInterval(b IntervalBindings) interval.Set {
	leftSet := n.left.EvaluateInterval(b)
	rightSet := n.right.EvaluateInterval(b)
	var out interval.Set
	for _, l := range leftSet {
		for _, r := range rightSet {
			out = append(out, n.op(l, r)...)
		}
	}
	return out
}

// Add builds an addition node.
func Add(l, r Node) Node {
	return &binary{left: l, right: r,
		realOp: func(a, b float32) float32 { return a + b },
		op:     func(a, b interval.Interval) interval.Set { return a.Add(b) },
	}
}

// Sub builds a subtraction node.
func Sub(l, r Node) Node {
	return &binary{left: l, right: r,
		realOp: func(a, b float32) float32 { return a - b },
		op:     func(a, b interval.Interval) interval.Set { return a.Sub(b) },
	}
}

// Mul builds a multiplication node.
func Mul(l, r Node) Node {
	return &binary{left: l, right: r,
		realOp: func(a, b float32) float32 { return a * b },
		op:     func(a, b interval.Interval) interval.Set { return a.Mul(b) },
	}
}

// Div builds a division node.
func Div(l, r Node) Node {
	return &binary{left: l, right: r,
		realOp: func(a, b float32) float32 { return a / b },
		op:     func(a, b interval.Interval) interval.Set { return a.Div(b) },
	}
}

// Exp builds a base^exponent node.
func Exp(base, power Node) Node {
	return &binary{left: base, right: power,
		realOp: func(a, b float32) float32 { return float32(math.Pow(float64(a), float64(b))) },
		op:     func(a, b interval.Interval) interval.Set { return a.Pow(b) },
	}
}

// constant is a literal real number.
type constant struct {
	value float32
}

// Constant builds a literal leaf.
func Constant(v float32) Node { return &constant{value: v} }

func (n *constant) Evaluate(Bindings) float32 { return n.value }

func (n *constant) EvaluateInterval(IntervalBindings) interval.Set {
	return interval.Set{interval.New(n.value)}
}

// variable is a leaf bound to one of {x, y, z} (or any rune, the tree
// itself does not restrict the alphabet).
type variable struct {
	name rune
}

// Variable builds a variable leaf for the given character.
func Variable(name rune) Node { return &variable{name: name} }

func (n *variable) Evaluate(b Bindings) float32 {
	v, ok := b[n.name]
	if !ok {
		panic(errors.NewBindingError(n.name))
	}
	return v
}

func (n *variable) EvaluateInterval(b IntervalBindings) interval.Set {
	v, ok := b[n.name]
	if !ok {
		panic(errors.NewBindingError(n.name))
	}
	return interval.Set{v}
}
