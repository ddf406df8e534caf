// Package ops defines the scalar operator variants of the autodiff graph.
//
// Each variant provides three rules over the already-computed fields of its
// operands (the children of the node it is attached to):
//   - Eval: value of the node from its operands' values
//   - Forward: directional derivative from its operands' forward derivatives
//   - Adjoint: contribution of the node's adjoint to each operand
//
// Supported variants:
//   - Constant: leaf, value assigned externally
//   - Add: a + b (d/da = 1, d/db = 1)
//   - Sub: a - b (d/da = 1, d/db = -1)
//   - Neg: -a (d/da = -1)
//   - Mul: a * b (d/da = b, d/db = a)
//   - Div: a / b (d/da = 1/b, d/db = -a/b²)
//   - Pow: a ** b (d/da = b*a^(b-1), d/db = a^b * ln(a))
//
// The variant set is closed: dispatch is a switch over Kind and an unknown
// Kind is a programming error.
package ops

import (
	"strconv"

	"github.com/gomlx/exceptions"
)

// MaxArity is the largest number of operands any variant takes.
const MaxArity = 2

// Kind identifies an operator variant.
type Kind uint8

const (
	Constant Kind = iota
	Add
	Sub
	Neg
	Mul
	Div
	Pow
)

var kindNames = [...]string{
	Constant: "Constant",
	Add:      "Add",
	Sub:      "Sub",
	Neg:      "Neg",
	Mul:      "Mul",
	Div:      "Div",
	Pow:      "Pow",
}

var kindSymbols = [...]string{
	Constant: "const",
	Add:      "+",
	Sub:      "-",
	Neg:      "neg",
	Mul:      "*",
	Div:      "/",
	Pow:      "**",
}

// String returns the variant name, e.g. "Mul".
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Symbol returns the short operator symbol used as default node name, e.g. "*".
func (k Kind) Symbol() string {
	if int(k) < len(kindSymbols) {
		return kindSymbols[k]
	}
	return k.String()
}

// Arity returns the number of operands the variant takes.
func (k Kind) Arity() int {
	switch k {
	case Constant:
		return 0
	case Neg:
		return 1
	case Add, Sub, Mul, Div, Pow:
		return 2
	}
	exceptions.Panicf("ops: unknown operator kind %d", k)
	return 0
}

// Operand is the view of one child that the rules read.
type Operand struct {
	Value   float64 // Evaluated value.
	Forward float64 // Forward derivative for the current seed.
}

// Grads holds the adjoint contributions to each operand, in operand order.
// Entries past the variant's arity are zero.
type Grads [MaxArity]float64

// Eval computes the value of a non-leaf node from its operands.
func Eval(k Kind, in []Operand) float64 {
	checkArity(k, in)
	switch k {
	case Add:
		return addEval(in[0], in[1])
	case Sub:
		return subEval(in[0], in[1])
	case Neg:
		return negEval(in[0])
	case Mul:
		return mulEval(in[0], in[1])
	case Div:
		return divEval(in[0], in[1])
	case Pow:
		return powEval(in[0], in[1])
	}
	exceptions.Panicf("ops: Eval not defined for %s", k)
	return 0
}

// Forward computes the forward derivative of a non-leaf node, given its
// operands and its own freshly evaluated value.
func Forward(k Kind, in []Operand, value float64) float64 {
	checkArity(k, in)
	switch k {
	case Add:
		return addForward(in[0], in[1])
	case Sub:
		return subForward(in[0], in[1])
	case Neg:
		return negForward(in[0])
	case Mul:
		return mulForward(in[0], in[1])
	case Div:
		return divForward(in[0], in[1])
	case Pow:
		return powForward(in[0], in[1], value)
	}
	exceptions.Panicf("ops: Forward not defined for %s", k)
	return 0
}

// Adjoint returns the contribution of a node's adjoint to each of its
// operands. Callers add (never assign) them into the operands' adjoints.
func Adjoint(k Kind, adjoint, value float64, in []Operand) Grads {
	checkArity(k, in)
	switch k {
	case Add:
		return addAdjoint(adjoint)
	case Sub:
		return subAdjoint(adjoint)
	case Neg:
		return negAdjoint(adjoint)
	case Mul:
		return mulAdjoint(adjoint, in[0], in[1])
	case Div:
		return divAdjoint(adjoint, in[0], in[1])
	case Pow:
		return powAdjoint(adjoint, value, in[0], in[1])
	}
	exceptions.Panicf("ops: Adjoint not defined for %s", k)
	return Grads{}
}

func checkArity(k Kind, in []Operand) {
	if k == Constant {
		exceptions.Panicf("ops: %s is a leaf and has no operand rules", k)
	}
	if n := k.Arity(); len(in) != n {
		exceptions.Panicf("ops: %s takes %d operands, got %d", k, n, len(in))
	}
}
