package autodiff

import (
	"math"

	"github.com/gomlx/exceptions"

	"github.com/born-ml/adgraph/internal/autodiff/ops"
)

// Add returns a new node a + b.
func Add(a, b Var) Var { return binary(ops.Add, a, b) }

// Sub returns a new node a - b.
func Sub(a, b Var) Var { return binary(ops.Sub, a, b) }

// Mul returns a new node a * b.
func Mul(a, b Var) Var { return binary(ops.Mul, a, b) }

// Div returns a new node a / b.
func Div(a, b Var) Var { return binary(ops.Div, a, b) }

// Pow returns a new node base ** exponent.
func Pow(base, exponent Var) Var { return binary(ops.Pow, base, exponent) }

// Neg returns a new node -a.
func Neg(a Var) Var {
	a.mustValid()
	return a.graph.newNode(ops.Neg.Symbol(), ops.Neg, math.NaN(), a.id)
}

// Add returns v + other.
func (v Var) Add(other Var) Var { return Add(v, other) }

// Sub returns v - other.
func (v Var) Sub(other Var) Var { return Sub(v, other) }

// Mul returns v * other.
func (v Var) Mul(other Var) Var { return Mul(v, other) }

// Div returns v / other.
func (v Var) Div(other Var) Var { return Div(v, other) }

// Pow returns v ** exponent.
func (v Var) Pow(exponent Var) Var { return Pow(v, exponent) }

// Neg returns -v.
func (v Var) Neg() Var { return Neg(v) }

// AddScalar returns v + c, with c wrapped in a fresh Constant leaf.
func (v Var) AddScalar(c float64) Var { return Add(v, v.scalar(c)) }

// SubScalar returns v - c, with c wrapped in a fresh Constant leaf.
func (v Var) SubScalar(c float64) Var { return Sub(v, v.scalar(c)) }

// MulScalar returns v * c, with c wrapped in a fresh Constant leaf.
func (v Var) MulScalar(c float64) Var { return Mul(v, v.scalar(c)) }

// DivScalar returns v / c, with c wrapped in a fresh Constant leaf.
func (v Var) DivScalar(c float64) Var { return Div(v, v.scalar(c)) }

// PowScalar returns v ** c, with c wrapped in a fresh Constant leaf.
func (v Var) PowScalar(c float64) Var { return Pow(v, v.scalar(c)) }

// ScalarSub returns c - v, with c wrapped in a fresh Constant leaf.
func (v Var) ScalarSub(c float64) Var { return Sub(v.scalar(c), v) }

// ScalarDiv returns c / v, with c wrapped in a fresh Constant leaf.
func (v Var) ScalarDiv(c float64) Var { return Div(v.scalar(c), v) }

func (v Var) scalar(c float64) Var {
	v.mustValid()
	return v.graph.Const(c)
}

func binary(kind ops.Kind, a, b Var) Var {
	a.mustValid()
	b.mustValid()
	if a.graph != b.graph {
		exceptions.Panicf("autodiff: %s of %s and %s: operands belong to different graphs", kind, a, b)
	}
	return a.graph.newNode(kind.Symbol(), kind, math.NaN(), a.id, b.id)
}
